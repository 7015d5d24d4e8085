// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package solution

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/pdiddy/problem-explorer/pkg/types"
)

// GeminiBackend asks the Gemini API for a solution.
type GeminiBackend struct {
	APIKey string
	Model  string

	// Options are appended to the client options, e.g. an endpoint override.
	Options []option.ClientOption
}

// Name returns the backend identifier.
func (g *GeminiBackend) Name() string { return string(types.ProviderGemini) }

// Generate sends the solution prompt for rec and decodes the reply.
func (g *GeminiBackend) Generate(ctx context.Context, rec *types.ProblemRecord) (types.SolutionApproach, error) {
	prompt, err := renderPrompt(rec)
	if err != nil {
		return types.SolutionApproach{}, fmt.Errorf("rendering prompt: %w", err)
	}

	opts := append([]option.ClientOption{option.WithAPIKey(g.APIKey)}, g.Options...)
	cl, err := genai.NewClient(ctx, opts...)
	if err != nil {
		return types.SolutionApproach{}, fmt.Errorf("creating Gemini client: %w", err)
	}
	defer cl.Close()

	m := cl.GenerativeModel(strings.TrimSpace(g.Model))
	temperature := float32(0.7)
	m.GenerationConfig = genai.GenerationConfig{
		Temperature:      &temperature,
		ResponseMIMEType: "application/json",
	}
	m.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(systemPrompt)},
	}

	resp, err := m.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		if strings.Contains(err.Error(), "RESOURCE_EXHAUSTED") || strings.Contains(err.Error(), "quota") {
			return types.SolutionApproach{}, fmt.Errorf("%w: %v", ErrQuotaExceeded, err)
		}
		return types.SolutionApproach{}, fmt.Errorf("calling Gemini API: %w", err)
	}

	return parseGenerated(firstText(resp))
}

// firstText returns the first text part of the first candidate that has one.
func firstText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	for _, c := range resp.Candidates {
		if c.Content == nil {
			continue
		}
		for _, p := range c.Content.Parts {
			if t, ok := p.(genai.Text); ok {
				return string(t)
			}
		}
	}
	return ""
}
