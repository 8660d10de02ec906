// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package venue

import (
	"math"
	"sort"
	"strings"

	"github.com/pdiddy/venue-engine/pkg/types"
)

// DefaultTopN is the number of journals recommended when the caller does not
// ask for another count.
const DefaultTopN = 3

// RankOptions controls the ranked output.
type RankOptions struct {
	// Limit is the number of journals returned (DefaultTopN when <= 0).
	Limit int

	// WithComponents attaches the four sub-scores to each record.
	WithComponents bool
}

// SortScored orders journals in place: score descending, then appearances
// descending, then h-index descending, then display name ascending.
func SortScored(scored []types.ScoredJournal) {
	sort.SliceStable(scored, func(i, j int) bool {
		a, b := scored[i], scored[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.Appearances != b.Appearances {
			return a.Appearances > b.Appearances
		}
		if a.HIndex != b.HIndex {
			return a.HIndex > b.HIndex
		}
		if la, lb := strings.ToLower(a.DisplayName), strings.ToLower(b.DisplayName); la != lb {
			return la < lb
		}
		if a.DisplayName != b.DisplayName {
			return a.DisplayName < b.DisplayName
		}
		return a.ID < b.ID
	})
}

// Rank sorts a copy of scored and formats the top journals as output records.
func Rank(scored []types.ScoredJournal, opts RankOptions) []types.RankedJournal {
	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultTopN
	}

	sorted := make([]types.ScoredJournal, len(scored))
	copy(sorted, scored)
	SortScored(sorted)
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}

	out := make([]types.RankedJournal, 0, len(sorted))
	for _, sj := range sorted {
		out = append(out, format(sj, opts.WithComponents))
	}
	return out
}

func format(sj types.ScoredJournal, withComponents bool) types.RankedJournal {
	rj := types.RankedJournal{
		JournalName:     sj.DisplayName,
		HIndex:          sj.HIndex,
		CitedByCount:    sj.CitedByCount,
		RelevanceCount:  sj.Appearances,
		CalculatedScore: roundTenth(sj.Score),
	}
	if sj.Publisher != "" {
		publisher := sj.Publisher
		rj.Publisher = &publisher
	}
	if withComponents {
		c := sj.Components
		rj.Components = &c
	}
	return rj
}

func roundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}
