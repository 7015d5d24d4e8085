// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the problem-explorer pipeline:
// the fetched page, the extracted problem record, and the solution write-ups
// rendered alongside it.
package types

import (
	"fmt"
	"strings"
)

// Difficulty is the difficulty rating the problem site assigns to a problem.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "Easy"
	DifficultyMedium Difficulty = "Medium"
	DifficultyHard   Difficulty = "Hard"
)

// ParseDifficulty normalizes s ("medium", " HARD ") to a Difficulty. Any value
// outside Easy, Medium and Hard is rejected.
func ParseDifficulty(s string) (Difficulty, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "easy":
		return DifficultyEasy, nil
	case "medium":
		return DifficultyMedium, nil
	case "hard":
		return DifficultyHard, nil
	}
	return "", fmt.Errorf("unknown difficulty %q", s)
}

// Page is the raw content returned by a fetcher, before extraction.
type Page struct {
	// Slug is the URL-safe problem identifier the page was fetched for.
	Slug string `json:"slug" yaml:"slug"`

	// URL is the address the content was requested from.
	URL string `json:"url" yaml:"url"`

	// Source names the fetcher that produced the page ("page" or "graphql").
	Source string `json:"source" yaml:"source"`

	// Body is the raw response: problem page HTML or a GraphQL JSON payload.
	Body string `json:"-" yaml:"-"`
}

// Example is one worked example from the problem statement.
type Example struct {
	Input       string `json:"input" yaml:"input"`
	Output      string `json:"output" yaml:"output"`
	Explanation string `json:"explanation,omitempty" yaml:"explanation,omitempty"`
}

// CodeSnippet is the starter code the site offers for one language.
type CodeSnippet struct {
	Lang     string `json:"lang" yaml:"lang"`
	LangSlug string `json:"lang_slug" yaml:"lang_slug"`
	Code     string `json:"code" yaml:"code"`
}

// ProblemRecord is the structured form of a fetched problem. It is built once
// by the extractor and not modified afterwards.
type ProblemRecord struct {
	// Slug is the URL-safe identifier (e.g. "valid-sudoku").
	Slug string `json:"slug" yaml:"slug"`

	// ID is the site's question identifier, when the page carries one.
	ID string `json:"id,omitempty" yaml:"id,omitempty"`

	// Title is the human-readable problem title (e.g. "Valid Sudoku").
	Title string `json:"title" yaml:"title"`

	// Difficulty is one of Easy, Medium, Hard.
	Difficulty Difficulty `json:"difficulty" yaml:"difficulty"`

	// Description is the problem statement in Markdown, without the
	// examples and constraints sections.
	Description string `json:"description" yaml:"description"`

	// Examples lists the worked examples in statement order.
	Examples []Example `json:"examples" yaml:"examples"`

	// Constraints lists the constraint lines in statement order.
	Constraints []string `json:"constraints" yaml:"constraints"`

	// Topics lists the site's topic tags (e.g. "Hash Table", "Matrix").
	Topics []string `json:"topics,omitempty" yaml:"topics,omitempty"`

	// CodeSnippets holds the starter code per language.
	CodeSnippets []CodeSnippet `json:"code_snippets,omitempty" yaml:"code_snippets,omitempty"`
}

// Snippet returns the starter code for langSlug, or "" when the problem has
// none for that language.
func (p *ProblemRecord) Snippet(langSlug string) string {
	for _, s := range p.CodeSnippets {
		if s.LangSlug == langSlug {
			return s.Code
		}
	}
	return ""
}

// SolutionApproach is one candidate solution write-up.
type SolutionApproach struct {
	Name            string `json:"name" yaml:"name"`
	Intuition       string `json:"intuition" yaml:"intuition"`
	TimeComplexity  string `json:"time_complexity" yaml:"time_complexity"`
	SpaceComplexity string `json:"space_complexity" yaml:"space_complexity"`
	Implementation  string `json:"implementation" yaml:"implementation"`

	// Language tags the implementation code fence. Empty means "python".
	Language string `json:"language,omitempty" yaml:"language,omitempty"`

	Explanation string `json:"explanation" yaml:"explanation"`
}
