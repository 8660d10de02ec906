// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/pdiddy/venue-engine/internal/refine"
	"github.com/pdiddy/venue-engine/pkg/types"
)

// DefaultListLimit bounds List when ListOptions.Limit is zero.
const DefaultListLimit = 20

// ListOptions filters the runs returned by List and the exports.
type ListOptions struct {
	// Query keeps runs whose query contains this text (case-insensitive).
	Query string

	// Journal keeps runs that recommended a journal with this name
	// (case-insensitive substring).
	Journal string

	// Since keeps runs created at or after this instant.
	Since time.Time

	// Limit bounds the number of runs. Zero uses DefaultListLimit.
	Limit int
}

// RunSummary is one line of the run log.
type RunSummary struct {
	ID          string    `json:"id" yaml:"id"`
	CreatedAt   time.Time `json:"created_at" yaml:"created_at"`
	Query       string    `json:"query" yaml:"query"`
	ResultCount int       `json:"result_count" yaml:"result_count"`

	// TopJournal is the first-ranked journal, empty for runs with no result.
	TopJournal string `json:"top_journal,omitempty" yaml:"top_journal,omitempty"`
}

// List returns run summaries, newest first.
func (s *Store) List(ctx context.Context, opts ListOptions) ([]RunSummary, error) {
	where, args := opts.where()
	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx,
		`SELECT r.id, r.created_at, r.query, r.result_count, COALESCE(j.journal_name, '')
		FROM runs r
		LEFT JOIN run_journals j ON j.run_id = r.id AND j.rank = 1
		WHERE `+where+`
		ORDER BY r.created_at DESC, r.id
		LIMIT ?`, args...)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var out []RunSummary
	for rows.Next() {
		var (
			rs      RunSummary
			created string
		)
		if err := rows.Scan(&rs.ID, &created, &rs.Query, &rs.ResultCount, &rs.TopJournal); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		rs.CreatedAt, _ = time.Parse(timeLayout, created)
		out = append(out, rs)
	}
	return out, rows.Err()
}

// Get loads one run by its full ID or a unique ID prefix.
func (s *Store) Get(ctx context.Context, id string) (*Run, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ErrNotFound
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id FROM runs WHERE id LIKE ? ESCAPE '\' ORDER BY id LIMIT 2`,
		escapeLike(id)+"%")
	if err != nil {
		return nil, fmt.Errorf("looking up run: %w", err)
	}
	var ids []string
	for rows.Next() {
		var found string
		if err := rows.Scan(&found); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scanning run id: %w", err)
		}
		ids = append(ids, found)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	switch {
	case len(ids) == 0:
		return nil, ErrNotFound
	case len(ids) > 1 && ids[0] != id:
		return nil, ErrAmbiguousID
	}
	return s.load(ctx, ids[0])
}

// runs loads every run matching opts, newest first.
func (s *Store) runs(ctx context.Context, opts ListOptions) ([]Run, error) {
	if opts.Limit <= 0 {
		opts.Limit = exportLimit
	}
	summaries, err := s.List(ctx, opts)
	if err != nil {
		return nil, err
	}
	out := make([]Run, 0, len(summaries))
	for _, rs := range summaries {
		run, err := s.load(ctx, rs.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, *run)
	}
	return out, nil
}

func (s *Store) load(ctx context.Context, id string) (*Run, error) {
	var (
		run            Run
		created        string
		input, missing sql.NullString
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, created_at, query, input, publications, candidates, missing
		FROM runs WHERE id = ?`, id,
	).Scan(&run.ID, &created, &run.Query, &input, &run.Publications, &run.Candidates, &missing)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading run %s: %w", id, err)
	}
	run.CreatedAt, _ = time.Parse(timeLayout, created)
	if input.Valid {
		var in refine.Refined
		if err := json.Unmarshal([]byte(input.String), &in); err == nil {
			run.Input = &in
		}
	}
	if missing.Valid {
		_ = json.Unmarshal([]byte(missing.String), &run.Missing)
	}

	journals, err := s.journals(ctx, id)
	if err != nil {
		return nil, err
	}
	run.Journals = journals
	return &run, nil
}

func (s *Store) journals(ctx context.Context, runID string) ([]types.RankedJournal, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT journal_name, publisher, h_index, cited_by_count, relevance_count, score, components
		FROM run_journals WHERE run_id = ? ORDER BY rank`, runID)
	if err != nil {
		return nil, fmt.Errorf("loading journals: %w", err)
	}
	defer rows.Close()

	out := []types.RankedJournal{}
	for rows.Next() {
		var (
			j                     types.RankedJournal
			publisher, components sql.NullString
		)
		if err := rows.Scan(&j.JournalName, &publisher, &j.HIndex, &j.CitedByCount,
			&j.RelevanceCount, &j.CalculatedScore, &components); err != nil {
			return nil, fmt.Errorf("scanning journal: %w", err)
		}
		if publisher.Valid {
			p := publisher.String
			j.Publisher = &p
		}
		if components.Valid {
			var c types.ScoreComponents
			if err := json.Unmarshal([]byte(components.String), &c); err == nil {
				j.Components = &c
			}
		}
		out = append(out, j)
	}
	return out, rows.Err()
}

func (o ListOptions) where() (string, []any) {
	var (
		clauses = []string{"1=1"}
		args    []any
	)
	if q := strings.TrimSpace(o.Query); q != "" {
		clauses = append(clauses, `r.query LIKE ? ESCAPE '\'`)
		args = append(args, "%"+escapeLike(q)+"%")
	}
	if name := strings.TrimSpace(o.Journal); name != "" {
		clauses = append(clauses,
			`EXISTS (SELECT 1 FROM run_journals x WHERE x.run_id = r.id AND x.journal_name LIKE ? ESCAPE '\')`)
		args = append(args, "%"+escapeLike(name)+"%")
	}
	if !o.Since.IsZero() {
		clauses = append(clauses, `r.created_at >= ?`)
		args = append(args, o.Since.UTC().Format(timeLayout))
	}
	return strings.Join(clauses, " AND "), args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
