// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package explain

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/problem-explorer/pkg/types"
)

func TestPromptName(t *testing.T) {
	var out bytes.Buffer
	name, err := PromptName(strings.NewReader("  Valid Sudoku \n"), &out)
	require.NoError(t, err)
	assert.Equal(t, "Valid Sudoku", name)
	assert.Contains(t, out.String(), "Enter problem name")

	_, err = PromptName(strings.NewReader(""), &out)
	assert.Error(t, err)
	_, err = PromptName(strings.NewReader("\n"), &out)
	assert.Error(t, err)
}

func TestSessionSearchAndSave(t *testing.T) {
	srv := siteServer(t)
	e, _ := newExplainer(t, srv.URL, types.SourcePage)
	dir := t.TempDir()

	var out bytes.Buffer
	s := &Session{
		Explainer: e,
		In:        strings.NewReader("1\nvalid sudoku\ny\n2\n"),
		Out:       &out,
		SaveDir:   dir,
	}
	require.NoError(t, s.Run(context.Background()))

	assert.Contains(t, out.String(), "LeetCode Problem Explorer")
	assert.Contains(t, out.String(), "Fetching problem details...")
	assert.Contains(t, out.String(), "# Valid Sudoku")

	path := filepath.Join(dir, "valid-sudoku_explanation.md")
	assert.Contains(t, out.String(), "Explanation saved to "+path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "# Valid Sudoku"))
}

func TestSessionContinuesAfterError(t *testing.T) {
	srv := siteServer(t)
	e, _ := newExplainer(t, srv.URL, types.SourcePage)
	dir := t.TempDir()

	var out bytes.Buffer
	s := &Session{
		Explainer: e,
		In:        strings.NewReader("3\n1\nnot a real problem xyz\n1\nvalid-sudoku\nn\n2\n"),
		Out:       &out,
		SaveDir:   dir,
	}
	require.NoError(t, s.Run(context.Background()))

	got := out.String()
	assert.Contains(t, got, "Invalid choice. Please try again.")
	assert.Contains(t, got, "error: ")
	assert.Contains(t, got, "problem not found")
	assert.Contains(t, got, "Failed to fetch problem details")
	assert.Contains(t, got, "# Valid Sudoku")
	assert.Equal(t, 4, strings.Count(got, "Enter your choice (1-2): "))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "declined save writes nothing")
}

func TestSessionEndOfInput(t *testing.T) {
	var out bytes.Buffer
	s := &Session{Explainer: &Explainer{}, In: strings.NewReader(""), Out: &out}
	assert.NoError(t, s.Run(context.Background()))

	s = &Session{Explainer: &Explainer{}, In: strings.NewReader("1\n"), Out: &out}
	assert.NoError(t, s.Run(context.Background()))
}

func TestSessionCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := &Session{Explainer: &Explainer{}, In: strings.NewReader("1\nvalid-sudoku\n"), Out: &bytes.Buffer{}}
	assert.ErrorIs(t, s.Run(ctx), context.Canceled)
}
