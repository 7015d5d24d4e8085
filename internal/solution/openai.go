// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package solution

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/pdiddy/problem-explorer/pkg/types"
)

// openAIAPIURL is the chat completions endpoint. Package-level var for test substitution.
var openAIAPIURL = "https://api.openai.com/v1/chat/completions"

// OpenAIBackend asks the OpenAI chat completions API for a solution.
type OpenAIBackend struct {
	APIKey string
	Model  string
	Client *http.Client
}

type openAIRequest struct {
	Model          string            `json:"model"`
	Messages       []openAIMessage   `json:"messages"`
	Temperature    float64           `json:"temperature"`
	MaxTokens      int               `json:"max_tokens"`
	ResponseFormat map[string]string `json:"response_format,omitempty"`
}

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIResponse struct {
	Choices []struct {
		Message openAIMessage `json:"message"`
	} `json:"choices"`
}

type openAIErrorResponse struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    string `json:"code"`
	} `json:"error"`
}

// Name returns the backend identifier.
func (o *OpenAIBackend) Name() string { return string(types.ProviderOpenAI) }

// Generate sends the solution prompt for rec and decodes the reply.
func (o *OpenAIBackend) Generate(ctx context.Context, rec *types.ProblemRecord) (types.SolutionApproach, error) {
	prompt, err := renderPrompt(rec)
	if err != nil {
		return types.SolutionApproach{}, fmt.Errorf("rendering prompt: %w", err)
	}

	reqBody := openAIRequest{
		Model: o.Model,
		Messages: []openAIMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
		Temperature:    0.7,
		MaxTokens:      2000,
		ResponseFormat: map[string]string{"type": "json_object"},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return types.SolutionApproach{}, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, openAIAPIURL, bytes.NewReader(bodyBytes))
	if err != nil {
		return types.SolutionApproach{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+o.APIKey)

	client := o.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return types.SolutionApproach{}, fmt.Errorf("calling OpenAI API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		if err != nil {
			return types.SolutionApproach{}, fmt.Errorf("OpenAI API returned %d; reading body: %w", resp.StatusCode, err)
		}
		var apiErr openAIErrorResponse
		if err := json.Unmarshal(body, &apiErr); err == nil && isQuotaError(apiErr) {
			return types.SolutionApproach{}, fmt.Errorf("%w: %s", ErrQuotaExceeded, apiErr.Error.Message)
		}
		return types.SolutionApproach{}, fmt.Errorf("OpenAI API returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var oResp openAIResponse
	if err := json.NewDecoder(resp.Body).Decode(&oResp); err != nil {
		return types.SolutionApproach{}, fmt.Errorf("decoding OpenAI response: %w", err)
	}
	if len(oResp.Choices) == 0 {
		return types.SolutionApproach{}, fmt.Errorf("OpenAI API returned no choices")
	}

	return parseGenerated(oResp.Choices[0].Message.Content)
}

// maxErrorBody caps how much of a failed response is read into the error.
const maxErrorBody = 64 << 10

func isQuotaError(e openAIErrorResponse) bool {
	return e.Error.Code == "insufficient_quota" || e.Error.Type == "insufficient_quota"
}
