// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package refine turns a user's research description into a search query.
// It is the boundary to the input-refinement service: Refiner is the
// contract, and Local is a rule-based implementation that expands common
// abbreviations, extracts keywords, and normalises the open-access flag.
// An AI-backed refiner can be dropped in behind the same interface.
package refine

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrEmptyInput is returned when an input has no subject, title, abstract,
// or keywords to search on.
var ErrEmptyInput = errors.New("research input is empty: provide a subject area, title, abstract, or keywords")

// ErrAcceptanceRange is returned for an acceptance range outside 0-100.
var ErrAcceptanceRange = errors.New("acceptance percentage must be between 0 and 100")

// queryKeywords is the number of keywords OR-ed into the search text.
const queryKeywords = 10

// ResearchInput is the raw description of a research artifact, as loaded
// from an input file or an API request.
type ResearchInput struct {
	SubjectArea string   `json:"subjectArea" yaml:"subjectArea"`
	Title       string   `json:"title" yaml:"title"`
	Abstract    string   `json:"abstract" yaml:"abstract"`
	Keywords    []string `json:"keywords,omitempty" yaml:"keywords,omitempty"`

	// AccPercentFrom and AccPercentTo bound the desired acceptance rate.
	// They are carried through to the output but not used for filtering.
	AccPercentFrom int `json:"accPercentFrom" yaml:"accPercentFrom"`
	AccPercentTo   int `json:"accPercentTo" yaml:"accPercentTo"`

	// OpenAccess accepts bools, 0/1, or words such as "yes" and "no".
	OpenAccess any `json:"openAccess" yaml:"openAccess"`
}

// Refined is a cleaned-up ResearchInput.
type Refined struct {
	SubjectArea    string   `json:"subjectArea" yaml:"subjectArea"`
	Title          string   `json:"title" yaml:"title"`
	Abstract       string   `json:"abstract" yaml:"abstract"`
	Keywords       []string `json:"keywords" yaml:"keywords"`
	AcceptanceFrom int      `json:"acceptancePercentFrom" yaml:"acceptancePercentFrom"`
	AcceptanceTo   int      `json:"acceptancePercentTo" yaml:"acceptancePercentTo"`
	OpenAccess     bool     `json:"openAccess" yaml:"openAccess"`
}

// Refiner normalises a research input before ranking.
type Refiner interface {
	Refine(ctx context.Context, in ResearchInput) (Refined, error)
}

// Local is the built-in, offline Refiner.
type Local struct {
	// MaxKeywords bounds extracted keywords (MaxKeywords when <= 0).
	MaxKeywords int
}

// Refine expands abbreviations in every text field, keeps caller keywords or
// extracts them from the title and abstract, and validates the open-access
// flag and acceptance range.
func (l Local) Refine(ctx context.Context, in ResearchInput) (Refined, error) {
	if err := ctx.Err(); err != nil {
		return Refined{}, err
	}

	oa, err := ParseOpenAccess(in.OpenAccess)
	if err != nil {
		return Refined{}, err
	}

	from, to := in.AccPercentFrom, in.AccPercentTo
	if from == 0 && to == 0 {
		to = 100
	}
	if from < 0 || from > 100 || to < 0 || to > 100 {
		return Refined{}, fmt.Errorf("%w: got %d-%d", ErrAcceptanceRange, from, to)
	}
	if from > to {
		from, to = to, from
	}

	r := Refined{
		SubjectArea:    clean(ExpandAbbreviations(in.SubjectArea)),
		Title:          clean(ExpandAbbreviations(in.Title)),
		Abstract:       clean(ExpandAbbreviations(in.Abstract)),
		AcceptanceFrom: from,
		AcceptanceTo:   to,
		OpenAccess:     oa,
	}

	limit := l.MaxKeywords
	if limit <= 0 {
		limit = MaxKeywords
	}
	if len(in.Keywords) > 0 {
		expanded := make([]string, len(in.Keywords))
		for i, kw := range in.Keywords {
			expanded[i] = ExpandAbbreviations(kw)
		}
		r.Keywords = normalizeKeywords(expanded)
		if len(r.Keywords) > limit {
			r.Keywords = r.Keywords[:limit]
		}
	} else {
		r.Keywords = ExtractKeywords(limit, r.Title, r.Abstract)
	}

	if r.SubjectArea == "" && r.Title == "" && len(r.Keywords) == 0 {
		return Refined{}, ErrEmptyInput
	}
	return r, nil
}

// QueryText builds the free-text search for r: the subject area followed by
// the first ten keywords OR-ed together in parentheses. With neither, the
// title is used.
func QueryText(r Refined) string {
	var parts []string
	if r.SubjectArea != "" {
		parts = append(parts, r.SubjectArea)
	}
	kws := r.Keywords
	if len(kws) > queryKeywords {
		kws = kws[:queryKeywords]
	}
	if len(kws) > 0 {
		parts = append(parts, "("+strings.Join(kws, " OR ")+")")
	}
	if len(parts) == 0 {
		return r.Title
	}
	return strings.Join(parts, " ")
}

func clean(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
