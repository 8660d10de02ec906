// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report reads research inputs from disk and writes ranked
// journals as a terminal table, JSON, or a saved result file.
package report

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/venue-engine/internal/refine"
)

// LoadInput reads a research input file. JSON is accepted as well as YAML,
// since every JSON document is valid YAML.
func LoadInput(path string) (refine.ResearchInput, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return refine.ResearchInput{}, fmt.Errorf("reading input file: %w", err)
	}
	var in refine.ResearchInput
	if err := yaml.Unmarshal(data, &in); err != nil {
		return refine.ResearchInput{}, fmt.Errorf("parsing input file %s: %w", path, err)
	}
	return in, nil
}
