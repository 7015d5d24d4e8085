// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package explain

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/problem-explorer/internal/fetch"
	"github.com/pdiddy/problem-explorer/internal/format"
)

// BatchOptions controls ExplainBatch.
type BatchOptions struct {
	// OutDir receives one <slug>_explanation.md per problem.
	OutDir string

	// Delay is the pause between consecutive fetches.
	Delay time.Duration

	// Overwrite re-fetches problems whose explanation file already exists.
	Overwrite bool
}

// BatchResult holds the outcome of a batch run.
type BatchResult struct {
	Saved   int
	Skipped int
	Failed  int
}

// Total returns the number of names processed.
func (r BatchResult) Total() int {
	return r.Saved + r.Skipped + r.Failed
}

// HasFailures reports whether any problem failed.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// ExplainBatch explains each name in turn and saves the result, printing
// per-item status to w. It continues after individual failures and stops
// early only when ctx is cancelled.
func (e *Explainer) ExplainBatch(ctx context.Context, names []string, opts BatchOptions, w io.Writer) (BatchResult, error) {
	var result BatchResult
	fetched := 0
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		slug := fetch.Slugify(name)
		path := filepath.Join(opts.OutDir, format.FileName(slug))
		if !opts.Overwrite && slug != "" {
			if _, err := os.Stat(path); err == nil {
				fmt.Fprintf(w, "skipped: %s (already exists)\n", slug)
				result.Skipped++
				continue
			}
		}

		if fetched > 0 && opts.Delay > 0 {
			select {
			case <-ctx.Done():
				return result, ctx.Err()
			case <-time.After(opts.Delay):
			}
		}
		fetched++

		res, err := e.Explain(ctx, name)
		if err != nil {
			if ctx.Err() != nil {
				return result, ctx.Err()
			}
			fmt.Fprintf(w, "failed:  %s (%v)\n", name, err)
			result.Failed++
			continue
		}
		if _, err := format.Save(opts.OutDir, res.Record.Slug, res.Markdown, io.Discard); err != nil {
			fmt.Fprintf(w, "failed:  %s (%v)\n", name, err)
			result.Failed++
			continue
		}
		fmt.Fprintf(w, "saved:   %s\n", path)
		result.Saved++
	}

	fmt.Fprintf(w, "\nBatch summary: %d saved, %d skipped, %d failed (total: %d)\n",
		result.Saved, result.Skipped, result.Failed, result.Total())
	return result, nil
}

// NameList is the YAML form of a batch file.
type NameList struct {
	Problems []string `yaml:"problems"`
}

// ReadNameList reads problem names from path. YAML files (.yaml, .yml) hold
// a "problems" list; any other file has one name per line, with blank lines
// and #-comments ignored.
func ReadNameList(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading name list: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		var nl NameList
		if err := yaml.Unmarshal(data, &nl); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
		return compact(nl.Problems), nil
	}

	var names []string
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		line := sc.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		names = append(names, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return compact(names), nil
}

func compact(names []string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			out = append(out, n)
		}
	}
	return out
}
