// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package venue

import (
	"sort"

	"github.com/pdiddy/venue-engine/pkg/types"
)

// Aggregate counts discovered publications per hosting journal, keeping
// journals in the order they were first seen. Publications without a journal
// container are skipped.
func Aggregate(pubs []types.Publication) types.Appearances {
	index := make(map[string]int)
	var apps types.Appearances
	for _, p := range pubs {
		if !p.HasJournal() {
			continue
		}
		if i, ok := index[p.JournalID]; ok {
			apps[i].Count++
			continue
		}
		index[p.JournalID] = len(apps)
		apps = append(apps, types.JournalAppearance{JournalID: p.JournalID, Count: 1})
	}
	return apps
}

// CapAppearances keeps at most limit journals: the ones with the most
// appearances, ties broken by first-discovered order. When no cap applies
// apps is returned unchanged.
func CapAppearances(apps types.Appearances, limit int) types.Appearances {
	if limit <= 0 || len(apps) <= limit {
		return apps
	}
	capped := make(types.Appearances, len(apps))
	copy(capped, apps)
	sort.SliceStable(capped, func(i, j int) bool {
		return capped[i].Count > capped[j].Count
	})
	return capped[:limit]
}
