// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the venue-engine pipeline:
// the search query, discovered publications, journal appearances, journal
// metadata, and the scored and ranked journal records.
package types

import (
	"errors"
	"strings"
)

var (
	// ErrEmptyQuery is returned when a search query has no searchable text.
	ErrEmptyQuery = errors.New("query is empty: provide a subject area, keywords, or free text")

	// ErrMissingContact is returned when no contact email is configured.
	// OpenAlex asks every client to identify itself with a mailto address.
	ErrMissingContact = errors.New("contact email is required: set --email, openalex.email, or OPENALEX_EMAIL")
)

// SearchQuery is the free-text query and contact identifier for one ranking
// run. Build it with NewSearchQuery; it is passed by value and never mutated.
type SearchQuery struct {
	// Text is the free-text search (subject area plus keywords).
	Text string `json:"text" yaml:"text"`

	// ContactEmail is sent as the mailto parameter on every upstream call.
	ContactEmail string `json:"contact_email" yaml:"contact_email"`
}

// NewSearchQuery trims its inputs and rejects an empty text or contact.
func NewSearchQuery(text, contactEmail string) (SearchQuery, error) {
	q := SearchQuery{
		Text:         strings.Join(strings.Fields(text), " "),
		ContactEmail: strings.TrimSpace(contactEmail),
	}
	if q.Text == "" {
		return SearchQuery{}, ErrEmptyQuery
	}
	if q.ContactEmail == "" {
		return SearchQuery{}, ErrMissingContact
	}
	return q, nil
}

// PublicationType classifies a discovered work.
type PublicationType string

const (
	PublicationJournalArticle PublicationType = "journal-article"
	PublicationOther          PublicationType = "other"
)

// Publication is a discovered work. It exists only within one ranking run.
type Publication struct {
	// ID is the OpenAlex work identifier.
	ID string `json:"id" yaml:"id"`

	// JournalID is the short OpenAlex source ID (e.g. "S137773608") of the
	// journal hosting the work. Empty when the work has no container or the
	// container is not a journal.
	JournalID string `json:"journal_id,omitempty" yaml:"journal_id,omitempty"`

	// CitedByCount is the number of citations the work has received.
	CitedByCount int `json:"cited_by_count" yaml:"cited_by_count"`

	Type PublicationType `json:"type" yaml:"type"`
}

// HasJournal reports whether the publication is hosted by a journal.
func (p Publication) HasJournal() bool {
	return p.JournalID != ""
}

// JournalAppearance counts how many discovered publications a journal hosts.
type JournalAppearance struct {
	JournalID string `json:"journal_id" yaml:"journal_id"`
	Count     int    `json:"count" yaml:"count"`
}

// Appearances is the aggregation of discovered publications by journal, in
// first-discovered order. Journal IDs are unique and every count is >= 1.
type Appearances []JournalAppearance

// IDs returns the journal identifiers in slice order.
func (a Appearances) IDs() []string {
	ids := make([]string, len(a))
	for i, ja := range a {
		ids[i] = ja.JournalID
	}
	return ids
}

// Counts returns the appearance count keyed by journal identifier.
func (a Appearances) Counts() map[string]int {
	m := make(map[string]int, len(a))
	for _, ja := range a {
		m[ja.JournalID] = ja.Count
	}
	return m
}

// JournalMetadata holds the bibliometric fields fetched for one journal.
// Absent upstream fields take their zero value.
type JournalMetadata struct {
	// ID is the short OpenAlex source ID.
	ID string `json:"id" yaml:"id"`

	DisplayName string `json:"display_name" yaml:"display_name"`

	// Publisher is the host organization name, empty when unknown.
	Publisher string `json:"publisher,omitempty" yaml:"publisher,omitempty"`

	HIndex       int  `json:"h_index" yaml:"h_index"`
	CitedByCount int  `json:"cited_by_count" yaml:"cited_by_count"`
	IsOpenAccess bool `json:"is_oa" yaml:"is_oa"`
	IsInDOAJ     bool `json:"is_in_doaj" yaml:"is_in_doaj"`
}

// ScoreComponents are the four capped sub-scores that sum to a journal's
// total score.
type ScoreComponents struct {
	Relevance  float64 `json:"relevance" yaml:"relevance"`
	HIndex     float64 `json:"h_index" yaml:"h_index"`
	Citations  float64 `json:"citations" yaml:"citations"`
	OpenAccess float64 `json:"open_access" yaml:"open_access"`
}

// Total returns the sum of the sub-scores.
func (c ScoreComponents) Total() float64 {
	return c.Relevance + c.HIndex + c.Citations + c.OpenAccess
}

// ScoredJournal is a journal with its appearance count and computed score.
type ScoredJournal struct {
	JournalMetadata

	Appearances int             `json:"appearances" yaml:"appearances"`
	Score       float64         `json:"score" yaml:"score"`
	Components  ScoreComponents `json:"components" yaml:"components"`
}

// RankedJournal is the output record for one recommended journal.
type RankedJournal struct {
	JournalName string `json:"journal_name" yaml:"journal_name"`

	// Publisher is nil when the upstream record has no host organization.
	Publisher *string `json:"publisher" yaml:"publisher"`

	HIndex          int     `json:"h_index" yaml:"h_index"`
	CitedByCount    int     `json:"cited_by_count" yaml:"cited_by_count"`
	RelevanceCount  int     `json:"relevance_count" yaml:"relevance_count"`
	CalculatedScore float64 `json:"calculated_score" yaml:"calculated_score"`

	// Components is included only when the caller asks for the score audit.
	Components *ScoreComponents `json:"components,omitempty" yaml:"components,omitempty"`
}
