// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package explain runs the problem pipeline: slug, fetch, extract, solution
// approaches, markdown.
package explain

import (
	"context"
	"fmt"
	"io"

	"github.com/pdiddy/problem-explorer/internal/extract"
	"github.com/pdiddy/problem-explorer/internal/fetch"
	"github.com/pdiddy/problem-explorer/internal/format"
	"github.com/pdiddy/problem-explorer/pkg/types"
)

// Approacher produces the solution approaches for a record.
type Approacher interface {
	Approaches(ctx context.Context, rec *types.ProblemRecord) []types.SolutionApproach
}

// Recorder stores extracted records. The library store implements it.
type Recorder interface {
	Save(ctx context.Context, rec *types.ProblemRecord) error
}

// Explainer composes the pipeline stages.
type Explainer struct {
	Fetcher    fetch.Fetcher
	Approacher Approacher

	// Recorder is optional; nil skips the library.
	Recorder Recorder

	// Log receives progress lines. Nil discards them.
	Log io.Writer
}

// Result is the outcome of one pipeline run.
type Result struct {
	Record     *types.ProblemRecord
	Approaches []types.SolutionApproach
	Markdown   string
}

// Explain turns a problem name into its markdown explanation. Errors wrap
// types.ErrInvalidSlug, types.ErrNetwork, types.ErrNotFound or
// types.ErrParse.
func (e *Explainer) Explain(ctx context.Context, name string) (*Result, error) {
	log := e.log()

	slug := fetch.Slugify(name)
	if err := fetch.ValidateSlug(slug); err != nil {
		return nil, err
	}

	fmt.Fprintf(log, "Fetching problem %s via %s ...\n", slug, e.Fetcher.Name())
	page, err := e.Fetcher.Fetch(ctx, slug)
	if err != nil {
		return nil, err
	}

	rec, err := extract.Extract(page)
	if err != nil {
		return nil, fmt.Errorf("extracting %s: %w", slug, err)
	}
	fmt.Fprintf(log, "Found %q (%s): %d example(s), %d constraint(s)\n",
		rec.Title, rec.Difficulty, len(rec.Examples), len(rec.Constraints))

	if e.Recorder != nil {
		if err := e.Recorder.Save(ctx, rec); err != nil {
			fmt.Fprintf(log, "warning: library save failed: %v\n", err)
		}
	}

	return e.Render(ctx, rec), nil
}

// Render produces the approaches and markdown for an already extracted
// record.
func (e *Explainer) Render(ctx context.Context, rec *types.ProblemRecord) *Result {
	approaches := e.Approacher.Approaches(ctx, rec)
	return &Result{
		Record:     rec,
		Approaches: approaches,
		Markdown:   format.Render(rec, approaches),
	}
}

func (e *Explainer) log() io.Writer {
	if e.Log == nil {
		return io.Discard
	}
	return e.Log
}
