// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package venue

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pdiddy/venue-engine/pkg/types"
)

func article(id, journal string) types.Publication {
	return types.Publication{ID: id, JournalID: journal, Type: types.PublicationJournalArticle}
}

func TestAggregate(t *testing.T) {
	pubs := []types.Publication{
		article("W1", "J1"),
		article("W2", "J1"),
		article("W3", "J2"),
		article("W4", ""),
	}

	got := Aggregate(pubs)

	assert.Equal(t, map[string]int{"J1": 2, "J2": 1}, got.Counts())
	assert.Equal(t, []string{"J1", "J2"}, got.IDs())
}

func TestAggregate_KeepsFirstDiscoveredOrder(t *testing.T) {
	pubs := []types.Publication{
		article("W1", "J3"),
		article("W2", "J1"),
		article("W3", "J2"),
		article("W4", "J1"),
		article("W5", "J3"),
	}
	got := Aggregate(pubs)
	assert.Equal(t, types.Appearances{
		{JournalID: "J3", Count: 2},
		{JournalID: "J1", Count: 2},
		{JournalID: "J2", Count: 1},
	}, got)
}

func TestAggregate_Empty(t *testing.T) {
	assert.Empty(t, Aggregate(nil))
	assert.Empty(t, Aggregate([]types.Publication{article("W1", ""), article("W2", "")}))
}

func TestCapAppearances(t *testing.T) {
	apps := types.Appearances{
		{JournalID: "A", Count: 1},
		{JournalID: "B", Count: 3},
		{JournalID: "C", Count: 1},
		{JournalID: "D", Count: 2},
		{JournalID: "E", Count: 1},
	}

	tests := []struct {
		name  string
		limit int
		want  []string
	}{
		{"no cap when under limit", 10, []string{"A", "B", "C", "D", "E"}},
		{"zero limit disables cap", 0, []string{"A", "B", "C", "D", "E"}},
		{"top by count", 2, []string{"B", "D"}},
		{"ties keep discovery order", 4, []string{"B", "D", "A", "C"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CapAppearances(apps, tt.limit).IDs())
		})
	}

	// The input is not reordered.
	assert.Equal(t, []string{"A", "B", "C", "D", "E"}, apps.IDs())
}
