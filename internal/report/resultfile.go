// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/venue-engine/internal/refine"
	"github.com/pdiddy/venue-engine/internal/venue"
	"github.com/pdiddy/venue-engine/pkg/types"
)

// ResultFile is the on-disk record of one recommendation: the refined input
// that produced the query, and the ranked journals.
type ResultFile struct {
	Input    *refine.Refined       `json:"input,omitempty" yaml:"input,omitempty"`
	Query    string                `json:"query" yaml:"query"`
	Journals []types.RankedJournal `json:"journals" yaml:"journals"`
	Summary  ResultSummary         `json:"summary" yaml:"summary"`
}

// ResultSummary stores run statistics and a timestamp.
type ResultSummary struct {
	Publications int       `json:"publications" yaml:"publications"`
	Candidates   int       `json:"candidates" yaml:"candidates"`
	Missing      []string  `json:"missing,omitempty" yaml:"missing,omitempty"`
	Timestamp    time.Time `json:"timestamp" yaml:"timestamp"`
}

// NewResultFile assembles a ResultFile from a finished run. input may be
// nil when the query was given directly.
func NewResultFile(input *refine.Refined, res venue.Result, now time.Time) ResultFile {
	journals := res.Journals
	if journals == nil {
		journals = []types.RankedJournal{}
	}
	return ResultFile{
		Input:    input,
		Query:    res.Query.Text,
		Journals: journals,
		Summary: ResultSummary{
			Publications: res.Publications,
			Candidates:   len(res.Candidates),
			Missing:      res.Missing,
			Timestamp:    now.UTC(),
		},
	}
}

// isJSON reports whether path names a JSON file; everything else is YAML.
func isJSON(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".json")
}

// WriteResultFile saves rf to path as JSON or YAML, chosen by extension. The
// file is overwritten.
func WriteResultFile(path string, rf ResultFile) error {
	var (
		data []byte
		err  error
	)
	if isJSON(path) {
		data, err = json.MarshalIndent(rf, "", "  ")
	} else {
		data, err = yaml.Marshal(&rf)
	}
	if err != nil {
		return fmt.Errorf("marshaling result file: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadResultFile loads a previously saved result file from disk.
func ReadResultFile(path string) (*ResultFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading result file: %w", err)
	}
	var rf ResultFile
	if isJSON(path) {
		err = json.Unmarshal(data, &rf)
	} else {
		err = yaml.Unmarshal(data, &rf)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing result file: %w", err)
	}
	return &rf, nil
}
