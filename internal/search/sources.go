// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/pdiddy/venue-engine/pkg/types"
)

// FetchSources looks up metadata for ids in one batch request and returns it
// keyed by short source ID. Identifiers the response does not mention
// (deleted or merged journals) are left out of the map without error. A
// failed request is reported as a *MetadataFailure. An empty ids slice
// returns an empty map without calling the API.
func (c *Client) FetchSources(ctx context.Context, ids []string) (map[string]types.JournalMetadata, error) {
	wanted := make(map[string]bool, len(ids))
	var keys []string
	for _, id := range ids {
		k := ShortID(id)
		if k == "" || wanted[k] {
			continue
		}
		wanted[k] = true
		keys = append(keys, k)
	}
	if len(keys) == 0 {
		return map[string]types.JournalMetadata{}, nil
	}
	if len(keys) > MaxBatchIDs {
		return nil, &MetadataFailure{IDs: keys, Err: ErrBatchTooLarge}
	}

	params := url.Values{
		"filter":   {"ids.openalex:" + strings.Join(keys, "|")},
		"per_page": {fmt.Sprintf("%d", len(keys))},
	}
	if c.Email != "" {
		params.Set("mailto", c.Email)
	}

	lr, err := c.get(ctx, "sources", params)
	if err != nil {
		return nil, &MetadataFailure{IDs: keys, Err: err}
	}

	log := c.logger()
	out := make(map[string]types.JournalMetadata, len(keys))
	for i, raw := range lr.Results {
		m, err := parseSource(raw)
		if err != nil {
			log.Debug("skipping unreadable source record", zap.Int("index", i), zap.Error(err))
			continue
		}
		if !wanted[m.ID] {
			continue
		}
		out[m.ID] = m
	}

	if len(out) < len(keys) {
		var missing []string
		for _, k := range keys {
			if _, ok := out[k]; !ok {
				missing = append(missing, k)
			}
		}
		log.Debug("sources missing from metadata response", zap.Strings("ids", missing))
	}
	return out, nil
}
