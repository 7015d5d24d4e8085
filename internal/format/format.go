// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package format renders a problem record and its solution approaches as a
// markdown explanation document.
package format

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/problem-explorer/pkg/types"
)

const (
	// fileSuffix is appended to the slug to name a saved explanation.
	fileSuffix = "_explanation.md"

	// defaultLanguage labels implementation fences when an approach has none.
	defaultLanguage = "python"

	// notAvailable stands in for missing example fields.
	notAvailable = "N/A"
)

// Render returns the markdown explanation for rec and approaches. It is
// deterministic and never fails: missing fields render as empty sections.
func Render(rec *types.ProblemRecord, approaches []types.SolutionApproach) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", oneLine(rec.Title))
	fmt.Fprintf(&b, "Difficulty: %s\n\n", rec.Difficulty)

	b.WriteString("## Problem Description\n\n")
	fmt.Fprintf(&b, "%s\n\n", strings.TrimSpace(rec.Description))

	b.WriteString("## Examples\n\n")
	for i, ex := range rec.Examples {
		fmt.Fprintf(&b, "### Example %d\n", i+1)
		fmt.Fprintf(&b, "Input: %s\n", orNA(ex.Input))
		fmt.Fprintf(&b, "Output: %s\n", orNA(ex.Output))
		if ex.Explanation != "" {
			fmt.Fprintf(&b, "Explanation: %s\n", ex.Explanation)
		}
		b.WriteString("\n")
	}

	b.WriteString("## Constraints\n\n")
	for _, c := range rec.Constraints {
		fmt.Fprintf(&b, "- %s\n", oneLine(c))
	}
	b.WriteString("\n")

	b.WriteString("## Solutions\n\n")
	for i, a := range approaches {
		writeApproach(&b, i+1, a)
	}

	return b.String()
}

func writeApproach(b *strings.Builder, n int, a types.SolutionApproach) {
	lang := a.Language
	if lang == "" {
		lang = defaultLanguage
	}

	fmt.Fprintf(b, "### Solution %d: %s\n\n", n, oneLine(a.Name))
	b.WriteString("#### Intuition\n")
	fmt.Fprintf(b, "%s\n\n", strings.TrimSpace(a.Intuition))
	b.WriteString("#### Complexity Analysis\n")
	fmt.Fprintf(b, "- Time Complexity: %s\n", a.TimeComplexity)
	fmt.Fprintf(b, "- Space Complexity: %s\n\n", a.SpaceComplexity)
	b.WriteString("#### Implementation\n")
	fmt.Fprintf(b, "```%s\n%s\n```\n\n", lang, strings.TrimRight(a.Implementation, "\n"))
	b.WriteString("#### Detailed Explanation\n")
	fmt.Fprintf(b, "%s\n\n", strings.TrimSpace(a.Explanation))
}

// oneLine folds line breaks so headings and list items stay on one line.
func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func orNA(s string) string {
	if s == "" {
		return notAvailable
	}
	return s
}

// FileName returns the file name an explanation for slug is saved under.
func FileName(slug string) string {
	return slug + fileSuffix
}

// Save writes content to dir/FileName(slug), creating dir if needed, and
// reports the path to w.
func Save(dir, slug, content string, w io.Writer) (string, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}
	path := filepath.Join(dir, FileName(slug))
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("writing explanation: %w", err)
	}
	fmt.Fprintf(w, "Explanation saved to %s\n", path)
	return path, nil
}
