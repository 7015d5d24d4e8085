// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package library

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/pdiddy/problem-explorer/pkg/types"
)

// QueryOptions holds parameters for library queries.
type QueryOptions struct {
	// Query is the full-text search string.
	Query string

	// Difficulty filters by difficulty.
	Difficulty types.Difficulty

	// Topics filters by one or more topic tags with AND semantics.
	Topics []string

	// MaxResults limits result count. Zero uses the store default.
	MaxResults int
}

// Entry summarizes a stored problem.
type Entry struct {
	Slug       string           `json:"slug" yaml:"slug"`
	ID         string           `json:"id,omitempty" yaml:"id,omitempty"`
	Title      string           `json:"title" yaml:"title"`
	Difficulty types.Difficulty `json:"difficulty" yaml:"difficulty"`
	Topics     []string         `json:"topics,omitempty" yaml:"topics,omitempty"`
	FetchedAt  time.Time        `json:"fetched_at" yaml:"fetched_at"`
}

// Retrieve queries the library with optional full-text search and filters.
// Full-text results are ranked by relevance; filter-only results are sorted
// by title.
func (s *Store) Retrieve(ctx context.Context, opts QueryOptions) ([]Entry, error) {
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = s.maxResults
	}

	var (
		qb     strings.Builder
		args   []any
		useFTS = opts.Query != "" && s.fts
	)

	switch {
	case useFTS:
		qb.WriteString(
			`SELECT p.slug, p.question_id, p.title, p.difficulty, p.topics, p.fetched_at
			FROM problems_fts
			JOIN problems p ON p.rowid = problems_fts.rowid
			WHERE problems_fts MATCH ?`)
		args = append(args, ftsQuery(opts.Query))
	case opts.Query != "":
		qb.WriteString(
			`SELECT p.slug, p.question_id, p.title, p.difficulty, p.topics, p.fetched_at
			FROM problems p
			WHERE (p.title LIKE ? OR p.description LIKE ? OR p.topics LIKE ?)`)
		like := "%" + opts.Query + "%"
		args = append(args, like, like, like)
	default:
		qb.WriteString(
			`SELECT p.slug, p.question_id, p.title, p.difficulty, p.topics, p.fetched_at
			FROM problems p
			WHERE 1=1`)
	}

	if opts.Difficulty != "" {
		qb.WriteString(` AND p.difficulty = ?`)
		args = append(args, string(opts.Difficulty))
	}

	for _, topic := range opts.Topics {
		qb.WriteString(` AND EXISTS (SELECT 1 FROM json_each(p.topics) WHERE lower(value) = lower(?))`)
		args = append(args, topic)
	}

	if useFTS {
		qb.WriteString(` ORDER BY problems_fts.rank`)
	} else {
		qb.WriteString(` ORDER BY p.title`)
	}

	qb.WriteString(` LIMIT ?`)
	args = append(args, maxResults)

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying library: %w", err)
	}
	defer rows.Close()

	var results []Entry
	for rows.Next() {
		var (
			e          Entry
			id         sql.NullString
			difficulty string
			topics     sql.NullString
			fetchedAt  sql.NullString
		)
		if err := rows.Scan(&e.Slug, &id, &e.Title, &difficulty, &topics, &fetchedAt); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		e.ID = id.String
		e.Difficulty = types.Difficulty(difficulty)
		if topics.Valid {
			json.Unmarshal([]byte(topics.String), &e.Topics)
		}
		if fetchedAt.Valid {
			e.FetchedAt, _ = time.Parse(time.RFC3339, fetchedAt.String)
		}
		results = append(results, e)
	}

	return results, rows.Err()
}

// ftsQuery quotes each term so user input such as "two-sum" is not read as
// FTS5 operators. Terms are ANDed.
func ftsQuery(q string) string {
	terms := strings.Fields(q)
	for i, t := range terms {
		terms[i] = `"` + strings.ReplaceAll(t, `"`, `""`) + `"`
	}
	return strings.Join(terms, " ")
}
