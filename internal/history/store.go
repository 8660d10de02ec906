// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package history keeps an optional log of recommendation runs in SQLite.
// The ranking core never touches it; the CLI and the HTTP server save a run
// after it completes when history is enabled.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/pdiddy/venue-engine/internal/refine"
	"github.com/pdiddy/venue-engine/internal/report"
	"github.com/pdiddy/venue-engine/pkg/types"
)

// DefaultPath is the database file used when the configuration leaves it
// empty.
const DefaultPath = "output/history.db"

// timeLayout is fixed width so created_at sorts lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

var (
	// ErrNotFound is returned when no run matches an ID.
	ErrNotFound = errors.New("run not found")

	// ErrAmbiguousID is returned when an ID prefix matches several runs.
	ErrAmbiguousID = errors.New("run ID prefix matches more than one run")
)

// Run is one saved recommendation.
type Run struct {
	ID        string    `json:"id" yaml:"id"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
	Query     string    `json:"query" yaml:"query"`

	// Input is the refined research input, nil for raw-query runs.
	Input *refine.Refined `json:"input,omitempty" yaml:"input,omitempty"`

	Publications int                   `json:"publications" yaml:"publications"`
	Candidates   int                   `json:"candidates" yaml:"candidates"`
	Missing      []string              `json:"missing,omitempty" yaml:"missing,omitempty"`
	Journals     []types.RankedJournal `json:"journals" yaml:"journals"`
}

// Store manages the history database.
type Store struct {
	db     *sql.DB
	logger *zap.Logger

	now   func() time.Time
	newID func() string
}

// NewStore opens or creates the history database at cfg.Path and creates
// the schema if it does not exist.
func NewStore(cfg types.HistoryConfig, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	path := cfg.Path
	if path == "" {
		path = DefaultPath
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating history directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:     db,
		logger: logger.Named("history"),
		now:    time.Now,
		newID:  uuid.NewString,
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

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			created_at TEXT NOT NULL,
			query TEXT NOT NULL,
			input TEXT,
			publications INTEGER NOT NULL,
			candidates INTEGER NOT NULL,
			missing TEXT,
			result_count INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS run_journals (
			run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			rank INTEGER NOT NULL,
			journal_name TEXT NOT NULL,
			publisher TEXT,
			h_index INTEGER NOT NULL,
			cited_by_count INTEGER NOT NULL,
			relevance_count INTEGER NOT NULL,
			score REAL NOT NULL,
			components TEXT,
			PRIMARY KEY (run_id, rank)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_run_journals_name ON run_journals(journal_name)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Save records a finished run and returns it with its assigned ID.
func (s *Store) Save(ctx context.Context, rf report.ResultFile) (Run, error) {
	run := Run{
		ID:           s.newID(),
		CreatedAt:    s.now().UTC(),
		Query:        rf.Query,
		Input:        rf.Input,
		Publications: rf.Summary.Publications,
		Candidates:   rf.Summary.Candidates,
		Missing:      rf.Summary.Missing,
		Journals:     rf.Journals,
	}
	if run.Journals == nil {
		run.Journals = []types.RankedJournal{}
	}

	var inputJSON sql.NullString
	if run.Input != nil {
		data, err := json.Marshal(run.Input)
		if err != nil {
			return Run{}, fmt.Errorf("marshaling input: %w", err)
		}
		inputJSON = sql.NullString{String: string(data), Valid: true}
	}
	missingJSON, _ := json.Marshal(run.Missing)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Run{}, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, created_at, query, input, publications, candidates, missing, result_count)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.CreatedAt.Format(timeLayout), run.Query, inputJSON,
		run.Publications, run.Candidates, string(missingJSON), len(run.Journals),
	)
	if err != nil {
		return Run{}, fmt.Errorf("inserting run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO run_journals (run_id, rank, journal_name, publisher, h_index,
			cited_by_count, relevance_count, score, components)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return Run{}, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, j := range run.Journals {
		var publisher, components sql.NullString
		if j.Publisher != nil {
			publisher = sql.NullString{String: *j.Publisher, Valid: true}
		}
		if j.Components != nil {
			data, _ := json.Marshal(j.Components)
			components = sql.NullString{String: string(data), Valid: true}
		}
		_, err := stmt.ExecContext(ctx,
			run.ID, i+1, j.JournalName, publisher, j.HIndex,
			j.CitedByCount, j.RelevanceCount, j.CalculatedScore, components,
		)
		if err != nil {
			return Run{}, fmt.Errorf("inserting journal %q: %w", j.JournalName, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return Run{}, fmt.Errorf("committing run: %w", err)
	}
	s.logger.Debug("saved run", zap.String("id", run.ID), zap.Int("journals", len(run.Journals)))
	return run, nil
}

// Delete removes a run and its journals. It returns ErrNotFound when id
// matches nothing.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting run: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
