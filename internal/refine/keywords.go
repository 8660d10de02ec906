// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package refine

import (
	"sort"
	"strings"
	"unicode"
)

// MaxKeywords bounds the keywords kept per input.
const MaxKeywords = 20

var stopWords = toSet(`a about above across after again against all also among an and any are as at
be because been before being below between both but by can could did do does doing down during each
either et few for from further had has have having here how however i if in into is it its itself just
may might more most much must my no nor not novel of off on once only or other our out over own paper
per propose proposed rather results same several should show shows significantly so some such than that
the their them then there these they this those through thus to too under until up upon us use used
using various very via was we well were what when where whether which while who whom why will with
within without would yet approach approaches based demonstrate existing method methods new study
studies research task tasks work`)

func toSet(words string) map[string]bool {
	set := make(map[string]bool)
	for _, w := range strings.Fields(words) {
		set[w] = true
	}
	return set
}

// ExtractKeywords picks up to limit distinctive words from the given texts,
// most frequent first and, among equals, in order of first use. Stop words,
// numbers, and words shorter than three letters are ignored.
func ExtractKeywords(limit int, texts ...string) []string {
	if limit <= 0 {
		limit = MaxKeywords
	}

	type entry struct {
		word  string
		count int
		first int
	}
	entries := make(map[string]*entry)
	pos := 0
	for _, text := range texts {
		for _, w := range tokenize(text) {
			pos++
			if e, ok := entries[w]; ok {
				e.count++
				continue
			}
			entries[w] = &entry{word: w, count: 1, first: pos}
		}
	}

	list := make([]*entry, 0, len(entries))
	for _, e := range entries {
		list = append(list, e)
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].count != list[j].count {
			return list[i].count > list[j].count
		}
		return list[i].first < list[j].first
	})

	if len(list) > limit {
		list = list[:limit]
	}
	out := make([]string, len(list))
	for i, e := range list {
		out[i] = e.word
	}
	return out
}

// tokenize lowercases text and splits it into candidate keywords. Hyphens
// inside a word are kept ("small-molecule").
func tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '-'
	})
	var out []string
	for _, f := range fields {
		f = strings.Trim(f, "-")
		if len([]rune(f)) < 3 || stopWords[f] || isNumber(f) {
			continue
		}
		out = append(out, f)
	}
	return out
}

func isNumber(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) && r != '-' {
			return false
		}
	}
	return true
}

// normalizeKeywords trims, lowercases, and de-duplicates caller-supplied
// keywords, keeping their order.
func normalizeKeywords(in []string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, kw := range in {
		kw = strings.ToLower(strings.Join(strings.Fields(kw), " "))
		if kw == "" || seen[kw] {
			continue
		}
		seen[kw] = true
		out = append(out, kw)
	}
	return out
}
