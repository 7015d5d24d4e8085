// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package library

import (
	"context"
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/problem-explorer/pkg/types"
)

// --- test helpers ---

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(types.LibraryConfig{Dir: filepath.Join(t.TempDir(), "library"), MaxResults: 20})
	require.NoError(t, err)
	s.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }
	t.Cleanup(func() { s.Close() })
	return s
}

func seed(t *testing.T, s *Store) {
	t.Helper()
	recs := []*types.ProblemRecord{
		{
			Slug:        "valid-sudoku",
			ID:          "36",
			Title:       "Valid Sudoku",
			Difficulty:  types.DifficultyMedium,
			Description: "Determine if a 9 x 9 Sudoku board is valid.",
			Examples:    []types.Example{{Input: "board = ...", Output: "true"}},
			Constraints: []string{"board.length == 9"},
			Topics:      []string{"Array", "Hash Table", "Matrix"},
			CodeSnippets: []types.CodeSnippet{
				{Lang: "Python3", LangSlug: "python3", Code: "class Solution: ..."},
			},
		},
		{
			Slug:        "two-sum",
			ID:          "1",
			Title:       "Two Sum",
			Difficulty:  types.DifficultyEasy,
			Description: "Return indices of the two numbers that add up to target.",
			Topics:      []string{"Array", "Hash Table"},
		},
		{
			Slug:        "trapping-rain-water",
			ID:          "42",
			Title:       "Trapping Rain Water",
			Difficulty:  types.DifficultyHard,
			Description: "Compute how much water the elevation map traps.",
			Topics:      []string{"Array", "Two Pointers", "Monotonic Stack"},
		},
	}
	for _, r := range recs {
		require.NoError(t, s.Save(context.Background(), r))
	}
}

func slugs(entries []Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Slug
	}
	return out
}

// --- tests ---

func TestNewStoreRequiresDir(t *testing.T) {
	_, err := NewStore(types.LibraryConfig{})
	assert.Error(t, err)
}

func TestNewStoreReopen(t *testing.T) {
	dir := t.TempDir()
	s, err := NewStore(types.LibraryConfig{Dir: dir})
	require.NoError(t, err)
	require.NoError(t, s.Save(context.Background(), &types.ProblemRecord{Slug: "two-sum", Title: "Two Sum", Difficulty: types.DifficultyEasy}))
	require.NoError(t, s.Close())

	s, err = NewStore(types.LibraryConfig{Dir: dir})
	require.NoError(t, err)
	defer s.Close()
	n, err := s.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.FileExists(t, filepath.Join(dir, dbFile))
}

func withoutFTS5(t *testing.T) {
	t.Helper()
	orig := ftsSupported
	ftsSupported = func(*sql.DB) (bool, error) { return false, nil }
	t.Cleanup(func() { ftsSupported = orig })
}

func TestNewStoreWithoutFTS5(t *testing.T) {
	withoutFTS5(t)
	s, err := NewStore(types.LibraryConfig{Dir: t.TempDir()})
	require.NoError(t, err)
	defer s.Close()
	assert.False(t, s.fts)

	seed(t, s)
	got, err := s.Retrieve(context.Background(), QueryOptions{Query: "sudoku"})
	require.NoError(t, err)
	assert.Equal(t, []string{"valid-sudoku"}, slugs(got))
}

func TestNewStoreIndexWithoutFTS5(t *testing.T) {
	dir := t.TempDir()
	s, err := NewStore(types.LibraryConfig{Dir: dir})
	require.NoError(t, err)
	hadIndex := s.fts
	require.NoError(t, s.Close())
	if !hadIndex {
		t.Skip("SQLite built without FTS5; no index to reopen")
	}

	withoutFTS5(t)
	_, err = NewStore(types.LibraryConfig{Dir: dir})
	assert.ErrorIs(t, err, ErrFTSUnavailable)
}

func TestSaveAndGet(t *testing.T) {
	s := testStore(t)
	seed(t, s)

	rec, err := s.Get(context.Background(), "valid-sudoku")
	require.NoError(t, err)
	assert.Equal(t, "36", rec.ID)
	assert.Equal(t, "Valid Sudoku", rec.Title)
	assert.Equal(t, types.DifficultyMedium, rec.Difficulty)
	assert.Equal(t, []string{"board.length == 9"}, rec.Constraints)
	assert.Equal(t, []string{"Array", "Hash Table", "Matrix"}, rec.Topics)
	require.Len(t, rec.Examples, 1)
	assert.Equal(t, "true", rec.Examples[0].Output)
	assert.Equal(t, "class Solution: ...", rec.Snippet("python3"))
}

func TestSaveRequiresSlug(t *testing.T) {
	s := testStore(t)
	assert.Error(t, s.Save(context.Background(), &types.ProblemRecord{Title: "x"}))
}

func TestSaveUpdatesExisting(t *testing.T) {
	s := testStore(t)
	seed(t, s)

	require.NoError(t, s.Save(context.Background(), &types.ProblemRecord{
		Slug:        "two-sum",
		Title:       "Two Sum",
		Difficulty:  types.DifficultyEasy,
		Description: "Find a complementary pair.",
	}))

	n, err := s.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	rec, err := s.Get(context.Background(), "two-sum")
	require.NoError(t, err)
	assert.Equal(t, "Find a complementary pair.", rec.Description)

	got, err := s.Retrieve(context.Background(), QueryOptions{Query: "complementary"})
	require.NoError(t, err)
	assert.Equal(t, []string{"two-sum"}, slugs(got))

	got, err = s.Retrieve(context.Background(), QueryOptions{Query: "indices"})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestGetNotFound(t *testing.T) {
	s := testStore(t)
	_, err := s.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestRetrieve(t *testing.T) {
	s := testStore(t)
	seed(t, s)

	tests := []struct {
		name string
		opts QueryOptions
		want []string
	}{
		{"all sorted by title", QueryOptions{}, []string{"trapping-rain-water", "two-sum", "valid-sudoku"}},
		{"difficulty", QueryOptions{Difficulty: types.DifficultyHard}, []string{"trapping-rain-water"}},
		{"topic", QueryOptions{Topics: []string{"hash table"}}, []string{"two-sum", "valid-sudoku"}},
		{"topics and", QueryOptions{Topics: []string{"Array", "Matrix"}}, []string{"valid-sudoku"}},
		{"full text", QueryOptions{Query: "sudoku"}, []string{"valid-sudoku"}},
		{"full text with filter", QueryOptions{Query: "array", Difficulty: types.DifficultyEasy}, []string{"two-sum"}},
		{"multi-word query", QueryOptions{Query: "Rain Water"}, []string{"trapping-rain-water"}},
		{"limit", QueryOptions{MaxResults: 1}, []string{"trapping-rain-water"}},
		{"no match", QueryOptions{Query: "graph"}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.Retrieve(context.Background(), tt.opts)
			require.NoError(t, err)
			assert.Equal(t, tt.want, slugs(got))
		})
	}
}

func TestRetrieveEntryFields(t *testing.T) {
	s := testStore(t)
	seed(t, s)

	got, err := s.Retrieve(context.Background(), QueryOptions{Difficulty: types.DifficultyMedium})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "36", got[0].ID)
	assert.Equal(t, []string{"Array", "Hash Table", "Matrix"}, got[0].Topics)
	assert.Equal(t, time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC), got[0].FetchedAt)
}

func TestFTSQuery(t *testing.T) {
	assert.Equal(t, `"two-sum"`, ftsQuery("two-sum"))
	assert.Equal(t, `"a" "b"`, ftsQuery(" a  b "))
	assert.Equal(t, `"say" """hi"""`, ftsQuery(`say "hi"`))
}

func TestExportYAML(t *testing.T) {
	s := testStore(t)
	seed(t, s)

	path, err := s.ExportYAML(context.Background(), QueryOptions{Topics: []string{"Hash Table"}})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(s.Dir(), "export.yaml"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var recs []types.ProblemRecord
	require.NoError(t, yaml.Unmarshal(data, &recs))
	require.Len(t, recs, 2)
	assert.Equal(t, "two-sum", recs[0].Slug)
	assert.Equal(t, "valid-sudoku", recs[1].Slug)
	assert.Equal(t, []string{"board.length == 9"}, recs[1].Constraints)
}

func TestExportJSON(t *testing.T) {
	s := testStore(t)
	seed(t, s)

	path, err := s.ExportJSON(context.Background(), QueryOptions{})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var recs []types.ProblemRecord
	require.NoError(t, json.Unmarshal(data, &recs))
	assert.Len(t, recs, 3)
}
