// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package venue

import "github.com/pdiddy/venue-engine/pkg/types"

// Rubric weights. The four maxima sum to 100.
const (
	WeightRelevance  = 40.0
	WeightHIndex     = 30.0
	WeightCitations  = 20.0
	WeightOpenAccess = 10.0
)

// Normalization constants: the value at which each factor earns its full
// weight. They are fixed, not tuned per query.
const (
	FullRelevanceAppearances = 10.0
	FullHIndex               = 200.0
	FullCitations            = 100000.0
)

// Score computes a journal's capped sub-scores and total. Missing metadata
// arrives here as zero values and simply earns nothing.
func Score(meta types.JournalMetadata, appearances int) types.ScoredJournal {
	c := types.ScoreComponents{
		Relevance: capped(float64(appearances), FullRelevanceAppearances, WeightRelevance),
		HIndex:    capped(float64(meta.HIndex), FullHIndex, WeightHIndex),
		Citations: capped(float64(meta.CitedByCount), FullCitations, WeightCitations),
	}
	if meta.IsOpenAccess || meta.IsInDOAJ {
		c.OpenAccess = WeightOpenAccess
	}
	return types.ScoredJournal{
		JournalMetadata: meta,
		Appearances:     appearances,
		Score:           c.Total(),
		Components:      c,
	}
}

// capped returns min(value/full, 1) * weight, clamped below at 0. The
// multiplication happens before the division so integral inputs give exact
// results (6 appearances score exactly 24).
func capped(value, full, weight float64) float64 {
	switch {
	case value <= 0:
		return 0
	case value >= full:
		return weight
	default:
		return value * weight / full
	}
}

// ScoreAll scores every aggregated journal that has metadata. Journals absent
// from metas are returned in missing, in aggregation order.
func ScoreAll(apps types.Appearances, metas map[string]types.JournalMetadata) (scored []types.ScoredJournal, missing []string) {
	for _, a := range apps {
		if a.Count < 1 {
			continue
		}
		meta, ok := metas[a.JournalID]
		if !ok {
			missing = append(missing, a.JournalID)
			continue
		}
		scored = append(scored, Score(meta, a.Count))
	}
	return scored, missing
}
