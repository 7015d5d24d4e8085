// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package solution implements the solution stage: it assembles the ordered
// list of approaches printed for a problem from a static catalog and, when
// configured, one approach written by a Generative AI API.
package solution

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/pdiddy/problem-explorer/pkg/types"
)

// defaultMaxRetries is used when the AI config leaves MaxRetries at zero.
const defaultMaxRetries = 2

// Assembler produces the solution approaches for a problem.
type Assembler struct {
	Catalog *Catalog

	// Generator is optional; nil disables the generated approach.
	Generator Generator

	MaxRetries int

	// Log receives warnings when generation fails. Nil discards them.
	Log io.Writer
}

// Approaches returns the catalog approaches matching rec, followed by the
// generated approach when a generator is configured and succeeds, or by the
// template approach otherwise. The result is never empty.
func (a *Assembler) Approaches(ctx context.Context, rec *types.ProblemRecord) []types.SolutionApproach {
	log := a.Log
	if log == nil {
		log = io.Discard
	}

	out := a.Catalog.Matching(rec)

	if a.Generator != nil {
		retries := a.MaxRetries
		if retries <= 0 {
			retries = defaultMaxRetries
		}
		fmt.Fprintf(log, "Generating solution with %s ...\n", a.Generator.Name())
		sol, err := generateWithRetry(ctx, a.Generator, rec, retries)
		if err == nil {
			return retitle(append(out, sol), rec.Title)
		}
		if errors.Is(err, ErrQuotaExceeded) {
			fmt.Fprintf(log, "warning: %s API quota exceeded; check your plan and billing details. Using template solution.\n", a.Generator.Name())
		} else {
			fmt.Fprintf(log, "warning: generating solution: %v; using template solution\n", err)
		}
	}

	return retitle(append(out, a.Catalog.TemplateFor(rec)), rec.Title)
}

// neutralName replaces an approach name that would repeat the problem title
// in the rendered output.
const neutralName = "Standard Approach"

// retitle renames approaches whose name contains title, case-insensitively.
// A problem named after a technique, such as "Binary Search", would
// otherwise show its title in a solution heading as well as the page title.
func retitle(approaches []types.SolutionApproach, title string) []types.SolutionApproach {
	title = strings.ToLower(strings.TrimSpace(title))
	if title == "" {
		return approaches
	}
	for i, a := range approaches {
		if strings.Contains(strings.ToLower(a.Name), title) {
			approaches[i].Name = neutralName
		}
	}
	return approaches
}
