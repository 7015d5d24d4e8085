// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/pdiddy/problem-explorer/internal/httputil"
	"github.com/pdiddy/problem-explorer/pkg/types"
)

// questionQuery requests the fields the extractor reads from a question.
const questionQuery = `query getQuestionDetail($titleSlug: String!) {
  question(titleSlug: $titleSlug) {
    questionId
    title
    titleSlug
    difficulty
    content
    exampleTestcases
    topicTags {
      name
    }
    codeSnippets {
      lang
      langSlug
      code
    }
  }
}`

// GraphQLFetcher retrieves a question through the site's GraphQL endpoint.
// The returned Page body is the JSON response.
type GraphQLFetcher struct {
	Client    *httputil.Client
	BaseURL   string
	UserAgent string
}

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

// graphQLEnvelope is decoded only far enough to detect a missing question.
type graphQLEnvelope struct {
	Data *struct {
		Question json.RawMessage `json:"question"`
	} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// Name returns the fetcher identifier.
func (f *GraphQLFetcher) Name() string { return string(types.SourceGraphQL) }

// Fetch posts the question query for slug.
func (f *GraphQLFetcher) Fetch(ctx context.Context, slug string) (*types.Page, error) {
	if err := ValidateSlug(slug); err != nil {
		return nil, err
	}
	endpoint := f.BaseURL + "/graphql"

	payload, err := json.Marshal(graphQLRequest{
		Query:     questionQuery,
		Variables: map[string]any{"titleSlug": slug},
	})
	if err != nil {
		return nil, fmt.Errorf("marshaling query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", f.UserAgent)
	req.Header.Set("Referer", f.BaseURL+"/problems/")

	resp, err := f.Client.Do(ctx, req)
	if err != nil {
		return nil, networkError(endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError(endpoint, resp.StatusCode)
	}

	body, err := httputil.ReadBody(resp, maxBodySize)
	if err != nil {
		return nil, networkError(endpoint, err)
	}

	var env graphQLEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("%w: decoding GraphQL response: %v", types.ErrParse, err)
	}
	if env.Data != nil && isNull(env.Data.Question) {
		return nil, fmt.Errorf("%w: %s", types.ErrNotFound, slug)
	}
	if len(env.Errors) > 0 {
		msgs := make([]string, len(env.Errors))
		for i, e := range env.Errors {
			msgs[i] = e.Message
		}
		return nil, fmt.Errorf("%w: %s: GraphQL errors: %s", types.ErrNetwork, endpoint, strings.Join(msgs, "; "))
	}
	if env.Data == nil || len(env.Data.Question) == 0 {
		return nil, fmt.Errorf("%w: GraphQL response has no question field", types.ErrParse)
	}

	return &types.Page{
		Slug:   slug,
		URL:    endpoint,
		Source: f.Name(),
		Body:   string(body),
	}, nil
}

// isNull reports whether raw is an explicit JSON null.
func isNull(raw json.RawMessage) bool {
	return strings.TrimSpace(string(raw)) == "null"
}
