// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/pdiddy/venue-engine/internal/venue"
	"github.com/pdiddy/venue-engine/pkg/types"
)

// NoResultsMessage is shown when a query yields no rankable journal.
const NoResultsMessage = "No matching journals found for this query."

// UnavailableMessage is shown when OpenAlex could not be reached.
const UnavailableMessage = "Journal search temporarily unavailable. Please try again later."

// FormatTable writes the ranked journals as a human-readable table to w.
func FormatTable(res venue.Result, w io.Writer) {
	if res.Empty() {
		fmt.Fprintln(w, NoResultsMessage)
		return
	}

	withComponents := res.Journals[0].Components != nil

	fmt.Fprintf(w, "%-4s  %-40s  %-25s  %7s  %11s  %5s  %6s\n",
		"Rank", "Journal", "Publisher", "h-index", "Citations", "Hits", "Score")
	fmt.Fprintln(w, strings.Repeat("-", 112))

	for i, j := range res.Journals {
		publisher := "-"
		if j.Publisher != nil {
			publisher = *j.Publisher
		}
		fmt.Fprintf(w, "%-4d  %-40s  %-25s  %7d  %11d  %5d  %6.1f\n",
			i+1, truncate(j.JournalName, 40), truncate(publisher, 25),
			j.HIndex, j.CitedByCount, j.RelevanceCount, j.CalculatedScore)
		if withComponents && j.Components != nil {
			c := j.Components
			fmt.Fprintf(w, "      relevance %.1f  h-index %.1f  citations %.1f  open access %.1f\n",
				c.Relevance, c.HIndex, c.Citations, c.OpenAccess)
		}
	}

	fmt.Fprintf(w, "\n%d journal(s) from %d publication(s)", len(res.Journals), res.Publications)
	if len(res.Missing) > 0 {
		fmt.Fprintf(w, " (%d without metadata)", len(res.Missing))
	}
	fmt.Fprintln(w)
}

// FormatJSON writes the ranked journals as indented JSON to w. An empty
// result is written as [] rather than null.
func FormatJSON(journals []types.RankedJournal, w io.Writer) error {
	if journals == nil {
		journals = []types.RankedJournal{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(journals)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
