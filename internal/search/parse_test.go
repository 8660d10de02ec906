// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/venue-engine/pkg/types"
)

func testConfig(baseURL string) types.OpenAlexConfig {
	return types.OpenAlexConfig{BaseURL: baseURL, Email: "default@example.com"}
}

func TestShortID(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"https://openalex.org/S137773608", "S137773608"},
		{"HTTPS://OPENALEX.ORG/S1", "S1"},
		{"openalex.org/S2", "S2"},
		{"S3", "S3"},
		{"  S4  ", "S4"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ShortID(tt.in), "ShortID(%q)", tt.in)
	}
}

func TestParseSourceDefaults(t *testing.T) {
	tests := []struct {
		name string
		json string
		want types.JournalMetadata
	}{
		{
			name: "all optional fields missing",
			json: `{"id": "https://openalex.org/S5", "display_name": "Sparse Journal"}`,
			want: types.JournalMetadata{ID: "S5", DisplayName: "Sparse Journal"},
		},
		{
			name: "nulls everywhere",
			json: `{"id": "S6", "display_name": "Null Journal", "host_organization_name": null,
				"summary_stats": null, "cited_by_count": null, "is_oa": null, "is_in_doaj": null}`,
			want: types.JournalMetadata{ID: "S6", DisplayName: "Null Journal"},
		},
		{
			name: "wrong types fall back to defaults",
			json: `{"id": "S7", "display_name": "Odd Journal", "host_organization_name": 12,
				"summary_stats": "n/a", "cited_by_count": "lots", "is_oa": "yes", "is_in_doaj": 1}`,
			want: types.JournalMetadata{ID: "S7", DisplayName: "Odd Journal"},
		},
		{
			name: "numeric strings and negatives",
			json: `{"id": "S8", "display_name": "Stringly", "summary_stats": {"h_index": "42"},
				"cited_by_count": -5}`,
			want: types.JournalMetadata{ID: "S8", DisplayName: "Stringly", HIndex: 42},
		},
		{
			name: "missing display name uses ID",
			json: `{"id": "S9", "is_in_doaj": true}`,
			want: types.JournalMetadata{ID: "S9", DisplayName: "S9", IsInDOAJ: true},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseSource(json.RawMessage(tt.json))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseSourceRejectsNonObject(t *testing.T) {
	_, err := parseSource(json.RawMessage(`"S1"`))
	assert.Error(t, err)
}

func TestParseWork(t *testing.T) {
	tests := []struct {
		name string
		json string
		want types.Publication
	}{
		{
			name: "journal article",
			json: `{"id": "https://openalex.org/W1", "type": "article", "cited_by_count": 10,
				"primary_location": {"source": {"id": "https://openalex.org/S1", "type": "journal"}}}`,
			want: types.Publication{ID: "W1", JournalID: "S1", CitedByCount: 10, Type: types.PublicationJournalArticle},
		},
		{
			name: "repository source is not a journal",
			json: `{"id": "W2", "type": "article",
				"primary_location": {"source": {"id": "S2", "type": "repository"}}}`,
			want: types.Publication{ID: "W2", Type: types.PublicationJournalArticle},
		},
		{
			name: "no primary location",
			json: `{"id": "W3", "type": "dataset", "primary_location": null}`,
			want: types.Publication{ID: "W3", Type: types.PublicationOther},
		},
		{
			name: "malformed location",
			json: `{"id": "W4", "type": "article", "primary_location": []}`,
			want: types.Publication{ID: "W4", Type: types.PublicationJournalArticle},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseWork(json.RawMessage(tt.json))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
