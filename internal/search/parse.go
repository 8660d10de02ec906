// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/pdiddy/venue-engine/pkg/types"
)

const openAlexIDPrefix = "https://openalex.org/"

// ShortID reduces an OpenAlex identifier to its bare key, so that
// "https://openalex.org/S137773608" and "S137773608" compare equal.
func ShortID(id string) string {
	id = strings.TrimSpace(id)
	if len(id) >= len(openAlexIDPrefix) && strings.EqualFold(id[:len(openAlexIDPrefix)], openAlexIDPrefix) {
		id = id[len(openAlexIDPrefix):]
	}
	return strings.TrimPrefix(id, "openalex.org/")
}

// The flex types decode a JSON value leniently. A missing, null, or
// wrongly-typed value leaves the zero value and never fails the decode.

type flexString string

func (s *flexString) UnmarshalJSON(data []byte) error {
	var v string
	if json.Unmarshal(data, &v) == nil {
		*s = flexString(v)
	}
	return nil
}

type flexBool bool

func (b *flexBool) UnmarshalJSON(data []byte) error {
	var v bool
	if json.Unmarshal(data, &v) == nil {
		*b = flexBool(v)
	}
	return nil
}

// flexInt accepts numbers and numeric strings. Fractions are truncated and
// negative or non-finite values become 0.
type flexInt int

func (n *flexInt) UnmarshalJSON(data []byte) error {
	raw := string(bytes.TrimSpace(data))
	if unq, err := strconv.Unquote(raw); err == nil {
		raw = strings.TrimSpace(unq)
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f <= 0 {
		return nil
	}
	if f > math.MaxInt32 {
		f = math.MaxInt32
	}
	*n = flexInt(int(f))
	return nil
}

type rawWork struct {
	ID              flexString   `json:"id"`
	Type            flexString   `json:"type"`
	CitedByCount    flexInt      `json:"cited_by_count"`
	PrimaryLocation *rawLocation `json:"primary_location"`
}

type rawLocation struct {
	Source *rawSourceRef `json:"source"`
}

type rawSourceRef struct {
	ID   flexString `json:"id"`
	Type flexString `json:"type"`
}

type rawSource struct {
	ID                   flexString  `json:"id"`
	DisplayName          flexString  `json:"display_name"`
	HostOrganizationName flexString  `json:"host_organization_name"`
	SummaryStats         *rawSummary `json:"summary_stats"`
	CitedByCount         flexInt     `json:"cited_by_count"`
	IsOA                 flexBool    `json:"is_oa"`
	IsInDOAJ             flexBool    `json:"is_in_doaj"`
}

type rawSummary struct {
	HIndex flexInt `json:"h_index"`
}

// publicationType maps an OpenAlex work type onto the two-valued enum.
// OpenAlex reports "article"; older Crossref-derived records say
// "journal-article".
func publicationType(t string) types.PublicationType {
	switch strings.ToLower(strings.TrimSpace(t)) {
	case "article", "journal-article":
		return types.PublicationJournalArticle
	default:
		return types.PublicationOther
	}
}

// parseWork maps one raw work record. The journal ID is set only when the
// primary location's source is a journal.
func parseWork(data json.RawMessage) (types.Publication, error) {
	var w rawWork
	if err := json.Unmarshal(data, &w); err != nil {
		return types.Publication{}, err
	}
	p := types.Publication{
		ID:           ShortID(string(w.ID)),
		CitedByCount: int(w.CitedByCount),
		Type:         publicationType(string(w.Type)),
	}
	if w.PrimaryLocation != nil && w.PrimaryLocation.Source != nil {
		src := w.PrimaryLocation.Source
		if strings.EqualFold(string(src.Type), "journal") {
			p.JournalID = ShortID(string(src.ID))
		}
	}
	return p, nil
}

// parseSource maps one raw source record, defaulting every optional field.
func parseSource(data json.RawMessage) (types.JournalMetadata, error) {
	var s rawSource
	if err := json.Unmarshal(data, &s); err != nil {
		return types.JournalMetadata{}, err
	}
	m := types.JournalMetadata{
		ID:           ShortID(string(s.ID)),
		DisplayName:  strings.TrimSpace(string(s.DisplayName)),
		Publisher:    strings.TrimSpace(string(s.HostOrganizationName)),
		CitedByCount: int(s.CitedByCount),
		IsOpenAccess: bool(s.IsOA),
		IsInDOAJ:     bool(s.IsInDOAJ),
	}
	if s.SummaryStats != nil {
		m.HIndex = int(s.SummaryStats.HIndex)
	}
	if m.DisplayName == "" {
		m.DisplayName = m.ID
	}
	return m, nil
}

// Nested objects are decoded leniently too: a wrongly-typed value leaves the
// pointer set to an empty struct rather than failing the whole record.

func (l *rawLocation) UnmarshalJSON(data []byte) error {
	type plain rawLocation
	var p plain
	if json.Unmarshal(data, &p) == nil {
		*l = rawLocation(p)
	}
	return nil
}

func (r *rawSourceRef) UnmarshalJSON(data []byte) error {
	type plain rawSourceRef
	var p plain
	if json.Unmarshal(data, &p) == nil {
		*r = rawSourceRef(p)
	}
	return nil
}

func (s *rawSummary) UnmarshalJSON(data []byte) error {
	type plain rawSummary
	var p plain
	if json.Unmarshal(data, &p) == nil {
		*s = rawSummary(p)
	}
	return nil
}
