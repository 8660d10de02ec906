// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package venue ranks journals for a research query with two-step
// discovery: find the most-cited works for the query, count the journals
// hosting them, fetch those journals' metadata in one batch, score each
// journal on a fixed 0-100 rubric, and return the top few.
//
// Only discovery and the metadata lookup touch the network; aggregation,
// scoring, and ranking are pure functions.
package venue

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/pdiddy/venue-engine/internal/metrics"
	"github.com/pdiddy/venue-engine/internal/search"
	"github.com/pdiddy/venue-engine/pkg/types"
)

// WorkDiscoverer finds the most-cited publications for a query.
type WorkDiscoverer interface {
	DiscoverWorks(ctx context.Context, q types.SearchQuery) ([]types.Publication, error)
}

// SourceFetcher looks up journal metadata for a batch of identifiers.
type SourceFetcher interface {
	FetchSources(ctx context.Context, ids []string) (map[string]types.JournalMetadata, error)
}

// Finder runs the ranking pipeline. Its collaborators are fixed for the run;
// a Finder holds no state between calls to Run.
type Finder struct {
	Works   WorkDiscoverer
	Sources SourceFetcher

	// BatchLimit caps the journals sent to Sources (search.MaxBatchIDs when <= 0).
	BatchLimit int

	Rank    RankOptions
	Logger  *zap.Logger
	Metrics *metrics.Recorder
}

// Result is the outcome of one ranking run.
type Result struct {
	Query types.SearchQuery `json:"query" yaml:"query"`

	// Publications is the number of journal articles discovered.
	Publications int `json:"publications" yaml:"publications"`

	// Candidates lists the journals sent to the metadata lookup, in
	// first-discovered order unless the batch cap applied.
	Candidates types.Appearances `json:"candidates" yaml:"candidates"`

	// Missing lists candidates the metadata lookup did not return.
	Missing []string `json:"missing,omitempty" yaml:"missing,omitempty"`

	// Scored holds every scored journal in rank order.
	Scored []types.ScoredJournal `json:"scored" yaml:"scored"`

	// Journals is the ranked shortlist.
	Journals []types.RankedJournal `json:"journals" yaml:"journals"`
}

// Empty reports whether no rankable journal was found.
func (r Result) Empty() bool { return len(r.Journals) == 0 }

// NewFinder wires a Finder around one per-run OpenAlex client.
func NewFinder(client *search.Client, opts RankOptions, logger *zap.Logger, rec *metrics.Recorder) *Finder {
	return &Finder{
		Works:      client,
		Sources:    client,
		BatchLimit: search.MaxBatchIDs,
		Rank:       opts,
		Logger:     logger,
		Metrics:    rec,
	}
}

// Run discovers, aggregates, fetches, scores, and ranks. Upstream failures
// come back unmodified as *search.DiscoveryFailure or *search.MetadataFailure.
// When discovery yields no journal-hosted work the metadata call is skipped
// and an empty Result is returned without error.
func (f *Finder) Run(ctx context.Context, q types.SearchQuery) (Result, error) {
	log := f.logger().With(zap.String("query", q.Text))
	res := Result{Query: q}

	pubs, err := f.Works.DiscoverWorks(ctx, q)
	if err != nil {
		f.observeFailure(err)
		return res, err
	}
	res.Publications = len(pubs)

	limit := f.BatchLimit
	if limit <= 0 {
		limit = search.MaxBatchIDs
	}
	apps := Aggregate(pubs)
	res.Candidates = CapAppearances(apps, limit)
	if len(apps) > len(res.Candidates) {
		log.Debug("capped candidate journals", zap.Int("aggregated", len(apps)), zap.Int("kept", len(res.Candidates)))
	}

	if len(res.Candidates) == 0 {
		log.Info("no journal-hosted works discovered")
		f.Metrics.ObserveRanking(metrics.RankingEmpty, 0)
		return res, nil
	}

	metas, err := f.Sources.FetchSources(ctx, res.Candidates.IDs())
	if err != nil {
		f.observeFailure(err)
		return res, err
	}

	scored, missing := ScoreAll(res.Candidates, metas)
	if len(missing) > 0 {
		log.Debug("dropping journals without metadata", zap.Strings("ids", missing))
	}
	SortScored(scored)
	res.Missing = missing
	res.Scored = scored
	res.Journals = Rank(scored, f.Rank)

	outcome := metrics.RankingOK
	if res.Empty() {
		outcome = metrics.RankingEmpty
	}
	f.Metrics.ObserveRanking(outcome, len(res.Candidates))

	log.Info("ranked journals",
		zap.Int("publications", res.Publications),
		zap.Int("candidates", len(res.Candidates)),
		zap.Int("scored", len(scored)),
		zap.Int("returned", len(res.Journals)))
	return res, nil
}

func (f *Finder) observeFailure(err error) {
	var df *search.DiscoveryFailure
	var mf *search.MetadataFailure
	switch {
	case errors.As(err, &df):
		f.Metrics.ObserveRanking(metrics.RankingDiscoveryFailure, 0)
	case errors.As(err, &mf):
		f.Metrics.ObserveRanking(metrics.RankingMetadataFailure, len(mf.IDs))
	}
}

func (f *Finder) logger() *zap.Logger {
	if f.Logger == nil {
		return zap.NewNop()
	}
	return f.Logger
}

// FindTopJournals ranks journals for searchQuery using a client built for
// this call alone. It returns up to opts.Limit records (DefaultTopN by
// default) and an empty slice when no journal could be ranked.
func FindTopJournals(ctx context.Context, searchQuery, contactEmail string, cfg types.OpenAlexConfig, opts RankOptions, logger *zap.Logger) ([]types.RankedJournal, error) {
	q, err := types.NewSearchQuery(searchQuery, contactEmail)
	if err != nil {
		return nil, err
	}
	cfg.Email = q.ContactEmail
	client := search.NewClient(cfg, logger, nil)

	res, err := NewFinder(client, opts, logger, nil).Run(ctx, q)
	if err != nil {
		return nil, err
	}
	if res.Journals == nil {
		return []types.RankedJournal{}, nil
	}
	return res.Journals, nil
}
