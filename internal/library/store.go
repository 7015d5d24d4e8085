// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package library keeps a local SQLite cache of fetched problems with a
// full-text index over titles, descriptions and topics.
package library

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/problem-explorer/pkg/types"
)

const (
	dbFile            = "library.db"
	defaultMaxResults = 20
)

// ErrFTSUnavailable reports a database that carries a full-text index while
// the running SQLite build lacks the FTS5 module, so its triggers would fail
// on every write.
var ErrFTSUnavailable = errors.New("library database uses FTS5 but this build lacks it (rebuild with -tags sqlite_fts5)")

// ftsSupported reports whether the SQLite build provides FTS5. Tests replace
// it to exercise builds without the module.
var ftsSupported = func(db *sql.DB) (bool, error) {
	tx, err := db.Begin()
	if err != nil {
		return false, fmt.Errorf("checking FTS5 support: %w", err)
	}
	defer tx.Rollback()
	if _, err := tx.Exec(`CREATE VIRTUAL TABLE temp.fts5_support USING fts5(x)`); err != nil {
		if strings.Contains(err.Error(), "no such module") {
			return false, nil
		}
		return false, fmt.Errorf("checking FTS5 support: %w", err)
	}
	return true, nil
}

// Store manages the library SQLite database.
type Store struct {
	db         *sql.DB
	dir        string
	maxResults int

	// fts is false when the SQLite build lacks the FTS5 module; searches
	// then fall back to LIKE matching.
	fts bool

	now func() time.Time
}

// NewStore opens or creates the library database at cfg.Dir/library.db and
// creates the schema if it does not exist.
func NewStore(cfg types.LibraryConfig) (*Store, error) {
	if cfg.Dir == "" {
		return nil, fmt.Errorf("library directory not set")
	}
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating library directory: %w", err)
	}

	dbPath := filepath.Join(cfg.Dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}

	s := &Store{
		db:         db,
		dir:        cfg.Dir,
		maxResults: maxResults,
		now:        time.Now,
	}

	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Dir returns the directory holding the database and exports.
func (s *Store) Dir() string { return s.dir }

func (s *Store) createSchema() error {
	if _, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS problems (
		rowid INTEGER PRIMARY KEY AUTOINCREMENT,
		slug TEXT NOT NULL UNIQUE,
		question_id TEXT,
		title TEXT NOT NULL,
		difficulty TEXT NOT NULL,
		description TEXT,
		examples TEXT,
		constraints TEXT,
		topics TEXT,
		snippets TEXT,
		fetched_at TEXT
	)`); err != nil {
		return fmt.Errorf("executing schema statement: %w", err)
	}
	if _, err := s.db.Exec(`CREATE INDEX IF NOT EXISTS idx_problems_difficulty ON problems(difficulty)`); err != nil {
		return fmt.Errorf("executing schema statement: %w", err)
	}

	supported, err := ftsSupported(s.db)
	if err != nil {
		return err
	}
	var ftsExists int
	if err := s.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='problems_fts'`,
	).Scan(&ftsExists); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}
	switch {
	case ftsExists > 0 && !supported:
		return ErrFTSUnavailable
	case ftsExists > 0:
		s.fts = true
		return nil
	case !supported:
		return nil
	}

	ftsStatements := []string{
		`CREATE VIRTUAL TABLE problems_fts USING fts5(title, description, topics, content=problems, content_rowid=rowid)`,
		`CREATE TRIGGER problems_ai AFTER INSERT ON problems BEGIN
			INSERT INTO problems_fts(rowid, title, description, topics) VALUES (new.rowid, new.title, new.description, new.topics);
		END`,
		`CREATE TRIGGER problems_ad AFTER DELETE ON problems BEGIN
			INSERT INTO problems_fts(problems_fts, rowid, title, description, topics) VALUES('delete', old.rowid, old.title, old.description, old.topics);
		END`,
		`CREATE TRIGGER problems_au AFTER UPDATE ON problems BEGIN
			INSERT INTO problems_fts(problems_fts, rowid, title, description, topics) VALUES('delete', old.rowid, old.title, old.description, old.topics);
			INSERT INTO problems_fts(rowid, title, description, topics) VALUES (new.rowid, new.title, new.description, new.topics);
		END`,
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()
	for _, stmt := range ftsStatements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("creating FTS infrastructure: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("creating FTS infrastructure: %w", err)
	}
	s.fts = true
	return nil
}

// Save inserts or updates the record keyed by its slug.
func (s *Store) Save(ctx context.Context, rec *types.ProblemRecord) error {
	if rec.Slug == "" {
		return fmt.Errorf("saving problem: record has no slug")
	}

	examplesJSON, _ := json.Marshal(rec.Examples)
	constraintsJSON, _ := json.Marshal(rec.Constraints)
	topicsJSON, _ := json.Marshal(rec.Topics)
	snippetsJSON, _ := json.Marshal(rec.CodeSnippets)

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO problems (slug, question_id, title, difficulty, description, examples, constraints, topics, snippets, fetched_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(slug) DO UPDATE SET
			question_id=excluded.question_id, title=excluded.title, difficulty=excluded.difficulty,
			description=excluded.description, examples=excluded.examples, constraints=excluded.constraints,
			topics=excluded.topics, snippets=excluded.snippets, fetched_at=excluded.fetched_at`,
		rec.Slug, rec.ID, rec.Title, string(rec.Difficulty), rec.Description,
		string(examplesJSON), string(constraintsJSON), string(topicsJSON), string(snippetsJSON),
		s.now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("saving problem %s: %w", rec.Slug, err)
	}
	return nil
}

// Get returns the stored record for slug. A missing slug wraps
// types.ErrNotFound.
func (s *Store) Get(ctx context.Context, slug string) (*types.ProblemRecord, error) {
	var (
		rec                                                types.ProblemRecord
		id, desc, examples, constraints, topics, snippets sql.NullString
		difficulty                                         string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT slug, question_id, title, difficulty, description, examples, constraints, topics, snippets
		 FROM problems WHERE slug = ?`, slug,
	).Scan(&rec.Slug, &id, &rec.Title, &difficulty, &desc, &examples, &constraints, &topics, &snippets)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("problem %s not in library: %w", slug, types.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("looking up problem: %w", err)
	}

	rec.ID = id.String
	rec.Difficulty = types.Difficulty(difficulty)
	rec.Description = desc.String
	unmarshalColumn(examples, &rec.Examples)
	unmarshalColumn(constraints, &rec.Constraints)
	unmarshalColumn(topics, &rec.Topics)
	unmarshalColumn(snippets, &rec.CodeSnippets)
	return &rec, nil
}

// Count returns the number of stored problems.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM problems`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting problems: %w", err)
	}
	return n, nil
}

func unmarshalColumn(col sql.NullString, v any) {
	if col.Valid && col.String != "" {
		json.Unmarshal([]byte(col.String), v)
	}
}
