// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package solution

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/problem-explorer/internal/format"
	"github.com/pdiddy/problem-explorer/pkg/types"
)

// --- mock generator ---

type mockGenerator struct {
	failures int
	err      error
	calls    int
	approach types.SolutionApproach
}

func (m *mockGenerator) Name() string { return "mock" }

func (m *mockGenerator) Generate(_ context.Context, _ *types.ProblemRecord) (types.SolutionApproach, error) {
	m.calls++
	if m.calls <= m.failures {
		return types.SolutionApproach{}, m.err
	}
	return m.approach, nil
}

func TestMain(m *testing.M) {
	backoffBase = time.Millisecond
	os.Exit(m.Run())
}

func sudoku() *types.ProblemRecord {
	return &types.ProblemRecord{
		Slug:        "valid-sudoku",
		Title:       "Valid Sudoku",
		Difficulty:  types.DifficultyMedium,
		Description: "Determine if a 9 x 9 Sudoku board is valid.",
		Examples: []types.Example{
			{Input: `board = [["5","3"]]`, Output: "true"},
			{Input: `board = [["8","3"]]`, Output: "false", Explanation: "Two 8's in the top left 3x3 sub-box."},
		},
		Constraints: []string{"board.length == 9", "board[i].length == 9"},
		Topics:      []string{"Array", "hash table", "Matrix"},
		CodeSnippets: []types.CodeSnippet{
			{Lang: "Python3", LangSlug: "python3", Code: "class Solution:\n    def isValidSudoku(self, board): "},
		},
	}
}

// --- catalog ---

func TestDefaultCatalog(t *testing.T) {
	c, err := DefaultCatalog()
	require.NoError(t, err)
	assert.NotEmpty(t, c.Entries)
	assert.Equal(t, "Template Solution", c.Template.Name)
	for _, e := range c.Entries {
		assert.NotEmpty(t, e.Intuition, e.Name)
		assert.NotEmpty(t, e.Implementation, e.Name)
		assert.NotEmpty(t, e.TimeComplexity, e.Name)
	}
}

func TestCatalogMatching(t *testing.T) {
	c, err := DefaultCatalog()
	require.NoError(t, err)

	got := c.Matching(sudoku())
	names := make([]string, len(got))
	for i, a := range got {
		names[i] = a.Name
	}
	assert.Equal(t, []string{"Hash Map Lookup", "Grid Scan"}, names)

	assert.Empty(t, c.Matching(&types.ProblemRecord{Topics: []string{"Bit Manipulation"}}))
	assert.Empty(t, c.Matching(&types.ProblemRecord{}))
}

func TestCatalogTemplateFor(t *testing.T) {
	c, err := DefaultCatalog()
	require.NoError(t, err)

	tmpl := c.TemplateFor(sudoku())
	assert.Equal(t, "Template Solution", tmpl.Name)
	assert.Contains(t, tmpl.Implementation, "isValidSudoku")

	stub := c.TemplateFor(&types.ProblemRecord{})
	assert.Contains(t, stub.Implementation, "def solution():")
	assert.NotContains(t, c.Template.Implementation, "isValidSudoku", "catalog template must not be mutated")
}

func TestParseCatalogErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"bad yaml", "approaches: [", "parsing catalog"},
		{"unnamed approach", "approaches:\n  - topics: [Array]\ntemplate:\n  name: T\n", "has no name"},
		{"no topics", "approaches:\n  - name: A\ntemplate:\n  name: T\n", "has no topics"},
		{"no template", "approaches: []\n", "template approach"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCatalog([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadCatalog(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`approaches:
  - name: Brute Force
    topics: [Array]
    intuition: Try everything.
template:
  name: Stub
`), 0o644))

	c, err := LoadCatalog(path)
	require.NoError(t, err)
	require.Len(t, c.Entries, 1)
	assert.Equal(t, "Brute Force", c.Entries[0].Name)
	assert.Equal(t, []string{"Array"}, c.Entries[0].Topics)

	builtin, err := LoadCatalog("")
	require.NoError(t, err)
	assert.Greater(t, len(builtin.Entries), 1)

	_, err = LoadCatalog(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

// --- prompt ---

func TestRenderPrompt(t *testing.T) {
	p, err := renderPrompt(sudoku())
	require.NoError(t, err)
	assert.Contains(t, p, "Title: Valid Sudoku")
	assert.Contains(t, p, "Difficulty: Medium")
	assert.Contains(t, p, "Example 1:\nInput: board = [[\"5\",\"3\"]]")
	assert.Contains(t, p, "Example 2:")
	assert.Contains(t, p, "Explanation: Two 8's")
	assert.Contains(t, p, "- board.length == 9\n- board[i].length == 9")
	assert.Contains(t, p, `"time_complexity"`)
}

// --- parseGenerated ---

func TestParseGenerated(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		wantErr  bool
		wantCode string
	}{
		{
			name:     "plain json",
			text:     `{"intuition":"i","time_complexity":"O(1)","space_complexity":"O(1)","code":"return True","explanation":"e"}`,
			wantCode: "return True",
		},
		{
			name:     "fenced json",
			text:     "```json\n{\"intuition\":\"i\",\"code\":\"pass\"}\n```",
			wantCode: "pass",
		},
		{
			name:     "trailing comma repaired",
			text:     `{"intuition":"i","code":"x = 1",}`,
			wantCode: "x = 1",
		},
		{
			name:     "fenced code field",
			text:     `{"code":"` + "```python\\ndef f():\\n    pass\\n```" + `"}`,
			wantCode: "def f():\n    pass",
		},
		{name: "missing code", text: `{"intuition":"i"}`, wantErr: true},
		{name: "empty", text: "  ", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseGenerated(tt.text)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, GeneratedName, got.Name)
			assert.Equal(t, "python", got.Language)
			assert.Equal(t, tt.wantCode, got.Implementation)
		})
	}
}

func TestStripCodeFences(t *testing.T) {
	assert.Equal(t, `{"a":1}`, stripCodeFences("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripCodeFences("```{\"a\":1}```"))
	assert.Equal(t, "plain", stripCodeFences("  plain "))
}

// --- generateWithRetry ---

func TestGenerateWithRetry(t *testing.T) {
	want := types.SolutionApproach{Name: GeneratedName, Implementation: "pass"}

	t.Run("succeeds after transient failures", func(t *testing.T) {
		g := &mockGenerator{failures: 2, err: errors.New("transient"), approach: want}
		got, err := generateWithRetry(context.Background(), g, sudoku(), 3)
		require.NoError(t, err)
		assert.Equal(t, want, got)
		assert.Equal(t, 3, g.calls)
	})

	t.Run("exhausts retries", func(t *testing.T) {
		g := &mockGenerator{failures: 10, err: errors.New("transient")}
		_, err := generateWithRetry(context.Background(), g, sudoku(), 2)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "after 2 retries")
		assert.Equal(t, 3, g.calls)
	})

	t.Run("quota is not retried", func(t *testing.T) {
		g := &mockGenerator{failures: 10, err: fmt.Errorf("%w: no credit", ErrQuotaExceeded)}
		_, err := generateWithRetry(context.Background(), g, sudoku(), 3)
		assert.ErrorIs(t, err, ErrQuotaExceeded)
		assert.Equal(t, 1, g.calls)
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		g := &mockGenerator{failures: 10, err: errors.New("transient")}
		_, err := generateWithRetry(ctx, g, sudoku(), 3)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

// --- NewGenerator ---

func TestNewGenerator(t *testing.T) {
	g, err := NewGenerator(types.AIConfig{}, nil)
	require.NoError(t, err)
	assert.Nil(t, g)

	g, err = NewGenerator(types.AIConfig{Provider: types.ProviderOpenAI, APIKey: "k"}, nil)
	require.NoError(t, err)
	require.IsType(t, &OpenAIBackend{}, g)
	assert.Equal(t, defaultOpenAIModel, g.(*OpenAIBackend).Model)

	g, err = NewGenerator(types.AIConfig{Provider: types.ProviderGemini, APIKey: "k", Model: "gemini-x"}, nil)
	require.NoError(t, err)
	require.IsType(t, &GeminiBackend{}, g)
	assert.Equal(t, "gemini-x", g.(*GeminiBackend).Model)

	_, err = NewGenerator(types.AIConfig{Provider: types.ProviderOpenAI}, nil)
	assert.ErrorContains(t, err, "API key")

	_, err = NewGenerator(types.AIConfig{Provider: "claude", APIKey: "k"}, nil)
	assert.ErrorContains(t, err, "unsupported AI provider")
}

// --- OpenAI backend ---

func withOpenAIServer(t *testing.T, h http.HandlerFunc) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	orig := openAIAPIURL
	openAIAPIURL = srv.URL
	t.Cleanup(func() { openAIAPIURL = orig })
}

func TestOpenAIBackendGenerate(t *testing.T) {
	var got openAIRequest
	withOpenAIServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		content := `{"intuition":"Track rows, columns and boxes.","time_complexity":"O(1)","space_complexity":"O(1)","code":"def isValidSudoku(board):\n    return True","explanation":"Scan once."}`
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{{"message": map[string]string{"role": "assistant", "content": content}}},
		})
	})

	b := &OpenAIBackend{APIKey: "sk-test", Model: "gpt-3.5-turbo"}
	sol, err := b.Generate(context.Background(), sudoku())
	require.NoError(t, err)

	assert.Equal(t, "gpt-3.5-turbo", got.Model)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Contains(t, got.Messages[1].Content, "Valid Sudoku")
	assert.InDelta(t, 0.7, got.Temperature, 1e-9)
	assert.Equal(t, 2000, got.MaxTokens)

	assert.Equal(t, GeneratedName, sol.Name)
	assert.Equal(t, "O(1)", sol.TimeComplexity)
	assert.Contains(t, sol.Implementation, "isValidSudoku")
}

func TestOpenAIBackendErrors(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		wantQuota bool
		wantMsg   string
	}{
		{
			name:      "insufficient quota",
			status:    http.StatusTooManyRequests,
			body:      `{"error":{"message":"You exceeded your current quota","type":"insufficient_quota","code":"insufficient_quota"}}`,
			wantQuota: true,
		},
		{
			name:    "server error",
			status:  http.StatusInternalServerError,
			body:    `{"error":{"message":"boom","type":"server_error"}}`,
			wantMsg: "returned 500",
		},
		{
			name:    "non-JSON error body",
			status:  http.StatusBadGateway,
			body:    `<html><body>502 Bad Gateway</body></html>`,
			wantMsg: "returned 502: <html><body>502 Bad Gateway",
		},
		{
			name:    "no choices",
			status:  http.StatusOK,
			body:    `{"choices":[]}`,
			wantMsg: "no choices",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			withOpenAIServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})
			b := &OpenAIBackend{APIKey: "k", Model: "m"}
			_, err := b.Generate(context.Background(), sudoku())
			require.Error(t, err)
			if tt.wantQuota {
				assert.ErrorIs(t, err, ErrQuotaExceeded)
				return
			}
			assert.NotErrorIs(t, err, ErrQuotaExceeded)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

// --- Assembler ---

func TestAssemblerStaticOnly(t *testing.T) {
	c, err := DefaultCatalog()
	require.NoError(t, err)

	a := &Assembler{Catalog: c}
	got := a.Approaches(context.Background(), sudoku())
	require.Len(t, got, 3)
	assert.Equal(t, "Hash Map Lookup", got[0].Name)
	assert.Equal(t, "Grid Scan", got[1].Name)
	assert.Equal(t, "Template Solution", got[2].Name)

	got = a.Approaches(context.Background(), &types.ProblemRecord{Title: "X"})
	require.Len(t, got, 1)
	assert.Equal(t, "Template Solution", got[0].Name)
}

func TestAssemblerTitleNamedAfterApproach(t *testing.T) {
	c, err := DefaultCatalog()
	require.NoError(t, err)

	rec := &types.ProblemRecord{
		Slug:        "binary-search",
		Title:       "Binary Search",
		Difficulty:  types.DifficultyEasy,
		Description: "Given a sorted array of integers nums and an integer target, return the index of target.",
		Topics:      []string{"Array", "Binary Search"},
	}
	got := (&Assembler{Catalog: c}).Approaches(context.Background(), rec)
	require.Len(t, got, 2)
	assert.Equal(t, neutralName, got[0].Name)
	assert.Contains(t, got[0].Intuition, "halving the space")

	out := format.Render(rec, got)
	assert.Equal(t, 1, strings.Count(out, "Binary Search"), out)
	assert.True(t, strings.HasPrefix(out, "# Binary Search\n"))
	assert.Contains(t, out, "### Solution 1: Standard Approach")
}

func TestRetitle(t *testing.T) {
	in := []types.SolutionApproach{{Name: "Two Pointers"}, {Name: "two pointers, in place"}, {Name: "Greedy"}}
	got := retitle(in, " Two Pointers ")
	assert.Equal(t, neutralName, got[0].Name)
	assert.Equal(t, neutralName, got[1].Name)
	assert.Equal(t, "Greedy", got[2].Name)

	kept := retitle([]types.SolutionApproach{{Name: "Greedy"}}, "")
	assert.Equal(t, "Greedy", kept[0].Name)
}

func TestAssemblerGenerated(t *testing.T) {
	c, err := DefaultCatalog()
	require.NoError(t, err)

	gen := &mockGenerator{approach: types.SolutionApproach{Name: GeneratedName, Implementation: "pass"}}
	var log bytes.Buffer
	a := &Assembler{Catalog: c, Generator: gen, Log: &log}

	got := a.Approaches(context.Background(), sudoku())
	require.Len(t, got, 3)
	assert.Equal(t, GeneratedName, got[2].Name)
	assert.Contains(t, log.String(), "Generating solution with mock")
}

func TestAssemblerGeneratorFailure(t *testing.T) {
	c, err := DefaultCatalog()
	require.NoError(t, err)

	tests := []struct {
		name    string
		err     error
		wantLog string
	}{
		{"quota", fmt.Errorf("%w: billing", ErrQuotaExceeded), "quota exceeded"},
		{"other", errors.New("bad gateway"), "bad gateway"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var log bytes.Buffer
			a := &Assembler{
				Catalog:    c,
				Generator:  &mockGenerator{failures: 100, err: tt.err},
				MaxRetries: 1,
				Log:        &log,
			}
			got := a.Approaches(context.Background(), sudoku())
			require.NotEmpty(t, got)
			assert.Equal(t, "Template Solution", got[len(got)-1].Name)
			assert.Contains(t, log.String(), "warning:")
			assert.Contains(t, log.String(), tt.wantLog)
		})
	}
}
