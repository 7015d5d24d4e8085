// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package solution

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/kaptinlin/jsonrepair"

	"github.com/pdiddy/problem-explorer/pkg/types"
)

// GeneratedName is the approach name given to model-written solutions.
const GeneratedName = "AI Generated Solution"

// ErrQuotaExceeded reports that the AI account has no remaining quota.
// Retrying does not help.
var ErrQuotaExceeded = errors.New("AI API quota exceeded")

// Generator writes one solution approach for a problem. Implementations wrap
// a Generative AI API; tests supply a mock.
type Generator interface {
	Name() string
	Generate(ctx context.Context, rec *types.ProblemRecord) (types.SolutionApproach, error)
}

const (
	defaultOpenAIModel = "gpt-3.5-turbo"
	defaultGeminiModel = "gemini-1.5-flash"
)

// NewGenerator builds the Generator selected by cfg.Provider. It returns nil
// and no error when generation is disabled.
func NewGenerator(cfg types.AIConfig, client *http.Client) (Generator, error) {
	switch cfg.Provider {
	case types.ProviderNone:
		return nil, nil
	case types.ProviderOpenAI:
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("openai provider needs an API key (.secrets/openai-api-key or OPENAI_API_KEY)")
		}
		model := cfg.Model
		if model == "" {
			model = defaultOpenAIModel
		}
		return &OpenAIBackend{APIKey: cfg.APIKey, Model: model, Client: client}, nil
	case types.ProviderGemini:
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("gemini provider needs an API key (.secrets/gemini-api-key or GEMINI_API_KEY)")
		}
		model := cfg.Model
		if model == "" {
			model = defaultGeminiModel
		}
		return &GeminiBackend{APIKey: cfg.APIKey, Model: model}, nil
	default:
		return nil, fmt.Errorf("unsupported AI provider %q: use openai or gemini", cfg.Provider)
	}
}

// generatedSolution is the JSON object the prompt asks the model for.
type generatedSolution struct {
	Intuition       string `json:"intuition"`
	TimeComplexity  string `json:"time_complexity"`
	SpaceComplexity string `json:"space_complexity"`
	Code            string `json:"code"`
	Explanation     string `json:"explanation"`
}

// parseGenerated decodes a model reply into an approach. Code fences around
// the JSON are removed and malformed JSON is repaired before giving up.
func parseGenerated(text string) (types.SolutionApproach, error) {
	text = stripCodeFences(text)
	if text == "" {
		return types.SolutionApproach{}, fmt.Errorf("empty model response")
	}

	var sol generatedSolution
	if err := json.Unmarshal([]byte(text), &sol); err != nil {
		repaired, repairErr := jsonrepair.JSONRepair(text)
		if repairErr != nil {
			return types.SolutionApproach{}, fmt.Errorf("parsing model JSON: %w (repair failed: %v)", err, repairErr)
		}
		if err := json.Unmarshal([]byte(repaired), &sol); err != nil {
			return types.SolutionApproach{}, fmt.Errorf("parsing repaired model JSON: %w", err)
		}
	}

	if strings.TrimSpace(sol.Code) == "" {
		return types.SolutionApproach{}, fmt.Errorf("model response has no code")
	}

	return types.SolutionApproach{
		Name:            GeneratedName,
		Intuition:       strings.TrimSpace(sol.Intuition),
		TimeComplexity:  strings.TrimSpace(sol.TimeComplexity),
		SpaceComplexity: strings.TrimSpace(sol.SpaceComplexity),
		Implementation:  strings.TrimSpace(stripCodeFences(sol.Code)),
		Language:        "python",
		Explanation:     strings.TrimSpace(sol.Explanation),
	}, nil
}

// stripCodeFences removes a surrounding ``` or ```lang fence.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 && !strings.ContainsAny(s[:nl], "{[\"") {
		s = s[nl+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// backoffBase controls the base duration for exponential backoff. Tests
// override this to avoid real sleeps.
var backoffBase = time.Second

// generateWithRetry calls the generator with exponential backoff. Quota
// errors are returned at once.
func generateWithRetry(ctx context.Context, gen Generator, rec *types.ProblemRecord, maxRetries int) (types.SolutionApproach, error) {
	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(math.Pow(2, float64(attempt-1))) * backoffBase
			select {
			case <-ctx.Done():
				return types.SolutionApproach{}, ctx.Err()
			case <-time.After(backoff):
			}
		}

		sol, err := gen.Generate(ctx, rec)
		if err == nil {
			return sol, nil
		}
		if errors.Is(err, ErrQuotaExceeded) || ctx.Err() != nil {
			return types.SolutionApproach{}, err
		}
		lastErr = err
	}
	return types.SolutionApproach{}, fmt.Errorf("after %d retries: %w", maxRetries, lastErr)
}
