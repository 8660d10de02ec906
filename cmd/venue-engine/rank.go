// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/venue-engine/internal/history"
	"github.com/pdiddy/venue-engine/internal/refine"
	"github.com/pdiddy/venue-engine/internal/report"
	"github.com/pdiddy/venue-engine/internal/search"
	"github.com/pdiddy/venue-engine/internal/venue"
	"github.com/pdiddy/venue-engine/pkg/types"
)

// rankOutput controls how a ranking is presented.
type rankOutput struct {
	JSON bool

	// Path, when set, receives a result file (YAML or JSON by extension).
	Path string
}

// runRanking ranks journals for text, prints them, and saves the run when
// asked. input is echoed in the result file and may be nil.
func runRanking(ctx context.Context, cfg types.Config, text string, input *refine.Refined, out rankOutput, w io.Writer) error {
	q, err := types.NewSearchQuery(text, cfg.OpenAlex.Email)
	if err != nil {
		return err
	}

	opts := venue.RankOptions{Limit: cfg.Ranking.TopN, WithComponents: cfg.Ranking.Components}
	oa := cfg.OpenAlex
	oa.Email = q.ContactEmail
	client := search.NewClient(oa, logger, nil)

	res, err := venue.NewFinder(client, opts, logger, nil).Run(ctx, q)
	if err != nil {
		if search.IsUnavailable(err) {
			fmt.Fprintln(os.Stderr, report.UnavailableMessage)
		}
		return err
	}

	if out.JSON {
		if err := report.FormatJSON(res.Journals, w); err != nil {
			return err
		}
	} else {
		fmt.Fprintf(w, "Query: %s\n\n", q.Text)
		report.FormatTable(res, w)
	}

	rf := report.NewResultFile(input, res, time.Now())
	if out.Path != "" {
		if err := report.WriteResultFile(out.Path, rf); err != nil {
			return fmt.Errorf("writing result file: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Wrote %s\n", out.Path)
	}

	if cfg.History.Enabled {
		store, err := history.NewStore(cfg.History, logger)
		if err != nil {
			logger.Warn("opening history failed", zap.Error(err))
			return nil
		}
		defer store.Close()
		run, err := store.Save(ctx, rf)
		if err != nil {
			logger.Warn("saving run to history failed", zap.Error(err))
			return nil
		}
		fmt.Fprintf(os.Stderr, "Saved run %s\n", run.ID)
	}
	return nil
}
