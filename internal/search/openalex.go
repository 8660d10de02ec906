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

// journalFilter restricts discovery to works whose primary location is a
// journal, so most non-journal records never leave the server.
const journalFilter = "primary_location.source.type:journal"

// DiscoverWorks fetches the DiscoveryPageSize most-cited works matching q in
// a single request and returns those typed as journal articles. Any failure
// is reported as a *DiscoveryFailure.
func (c *Client) DiscoverWorks(ctx context.Context, q types.SearchQuery) ([]types.Publication, error) {
	if strings.TrimSpace(q.Text) == "" {
		return nil, types.ErrEmptyQuery
	}

	params := url.Values{
		"search":   {q.Text},
		"per_page": {fmt.Sprintf("%d", DiscoveryPageSize)},
		"sort":     {"cited_by_count:desc"},
		"filter":   {journalFilter},
	}
	if mailto := c.mailto(q.ContactEmail); mailto != "" {
		params.Set("mailto", mailto)
	}

	lr, err := c.get(ctx, "works", params)
	if err != nil {
		return nil, &DiscoveryFailure{Query: q, Err: err}
	}

	log := c.logger().With(zap.String("query", q.Text))
	pubs := make([]types.Publication, 0, len(lr.Results))
	dropped := 0
	for i, raw := range lr.Results {
		p, err := parseWork(raw)
		if err != nil {
			log.Debug("skipping unreadable work record", zap.Int("index", i), zap.Error(err))
			dropped++
			continue
		}
		if p.Type != types.PublicationJournalArticle {
			dropped++
			continue
		}
		pubs = append(pubs, p)
	}

	log.Info("discovered works",
		zap.Int("returned", len(lr.Results)),
		zap.Int("journal_articles", len(pubs)),
		zap.Int("dropped", dropped))
	return pubs, nil
}

// mailto prefers the per-query contact over the client default.
func (c *Client) mailto(contact string) string {
	if contact = strings.TrimSpace(contact); contact != "" {
		return contact
	}
	return c.Email
}
