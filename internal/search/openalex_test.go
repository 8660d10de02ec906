// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/pdiddy/venue-engine/pkg/types"
)

// --- Mock OpenAlex server ---

const sampleWorksJSON = `{
  "meta": {"count": 4, "per_page": 30, "page": 1},
  "results": [
    {
      "id": "https://openalex.org/W2194775991",
      "type": "article",
      "cited_by_count": 210000,
      "primary_location": {"source": {"id": "https://openalex.org/S4306420609", "type": "journal"}}
    },
    {
      "id": "https://openalex.org/W2100837269",
      "type": "journal-article",
      "cited_by_count": 95000,
      "primary_location": {"source": {"id": "https://openalex.org/S137773608", "type": "journal"}}
    },
    {
      "id": "https://openalex.org/W1000000001",
      "type": "book-chapter",
      "cited_by_count": 50000,
      "primary_location": {"source": {"id": "https://openalex.org/S99", "type": "book series"}}
    },
    {
      "id": "https://openalex.org/W1000000002",
      "type": "article",
      "cited_by_count": 40000,
      "primary_location": {"source": null}
    }
  ]
}`

func openAlexTestServer(statusCode int, body string, seen *url.Values) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if seen != nil {
			*seen = r.URL.Query()
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(statusCode)
		fmt.Fprint(w, body)
	}))
}

func testClient(ts *httptest.Server) *Client {
	c := NewClient(types.OpenAlexConfig{BaseURL: ts.URL, Email: "default@example.com"}, nil, nil)
	c.HTTP = ts.Client()
	return c
}

func testQuery(t *testing.T) types.SearchQuery {
	t.Helper()
	q, err := types.NewSearchQuery("graph attention drug interaction", "test@example.com")
	if err != nil {
		t.Fatalf("NewSearchQuery: %v", err)
	}
	return q
}

// --- Client.DiscoverWorks ---

func TestDiscoverWorks(t *testing.T) {
	var params url.Values
	ts := openAlexTestServer(http.StatusOK, sampleWorksJSON, &params)
	defer ts.Close()

	pubs, err := testClient(ts).DiscoverWorks(context.Background(), testQuery(t))
	if err != nil {
		t.Fatalf("DiscoverWorks: %v", err)
	}

	// The book chapter is typed "other" and dropped client-side.
	if len(pubs) != 3 {
		t.Fatalf("len(pubs) = %d, want 3", len(pubs))
	}
	if pubs[0].ID != "W2194775991" || pubs[0].JournalID != "S4306420609" {
		t.Errorf("pubs[0] = %+v, want W2194775991 in S4306420609", pubs[0])
	}
	if pubs[0].CitedByCount != 210000 {
		t.Errorf("CitedByCount = %d, want 210000", pubs[0].CitedByCount)
	}
	if pubs[1].Type != types.PublicationJournalArticle {
		t.Errorf("legacy journal-article type = %q, want journal-article", pubs[1].Type)
	}
	// Null source → no journal container.
	if pubs[2].HasJournal() {
		t.Errorf("pubs[2].JournalID = %q, want empty for null source", pubs[2].JournalID)
	}
}

func TestDiscoverWorksRequestParams(t *testing.T) {
	var params url.Values
	ts := openAlexTestServer(http.StatusOK, `{"results": []}`, &params)
	defer ts.Close()

	if _, err := testClient(ts).DiscoverWorks(context.Background(), testQuery(t)); err != nil {
		t.Fatalf("DiscoverWorks: %v", err)
	}

	want := map[string]string{
		"search":   "graph attention drug interaction",
		"per_page": "30",
		"sort":     "cited_by_count:desc",
		"filter":   "primary_location.source.type:journal",
		"mailto":   "test@example.com",
	}
	for k, v := range want {
		if got := params.Get(k); got != v {
			t.Errorf("param %s = %q, want %q", k, got, v)
		}
	}
	if params.Has("page") {
		t.Errorf("discovery must not paginate, got page=%q", params.Get("page"))
	}
}

func TestDiscoverWorksFallsBackToClientEmail(t *testing.T) {
	var params url.Values
	ts := openAlexTestServer(http.StatusOK, `{"results": []}`, &params)
	defer ts.Close()

	q := types.SearchQuery{Text: "proteomics"}
	if _, err := testClient(ts).DiscoverWorks(context.Background(), q); err != nil {
		t.Fatalf("DiscoverWorks: %v", err)
	}
	if got := params.Get("mailto"); got != "default@example.com" {
		t.Errorf("mailto = %q, want client default", got)
	}
}

func TestDiscoverWorksEmptyQuery(t *testing.T) {
	c := NewClient(types.OpenAlexConfig{BaseURL: "http://127.0.0.1:1"}, nil, nil)
	_, err := c.DiscoverWorks(context.Background(), types.SearchQuery{Text: "  "})
	if !errors.Is(err, types.ErrEmptyQuery) {
		t.Fatalf("err = %v, want ErrEmptyQuery", err)
	}
}

func TestDiscoverWorksHTTPError(t *testing.T) {
	ts := openAlexTestServer(http.StatusServiceUnavailable, `upstream down`, nil)
	defer ts.Close()

	q := testQuery(t)
	_, err := testClient(ts).DiscoverWorks(context.Background(), q)

	var df *DiscoveryFailure
	if !errors.As(err, &df) {
		t.Fatalf("err = %v, want *DiscoveryFailure", err)
	}
	if df.Query != q {
		t.Errorf("failure query = %+v, want %+v", df.Query, q)
	}
	var se *StatusError
	if !errors.As(err, &se) || se.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("err = %v, want wrapped 503 StatusError", err)
	}
	if !IsUnavailable(err) {
		t.Error("IsUnavailable = false, want true")
	}
}

func TestDiscoverWorksMalformedBody(t *testing.T) {
	ts := openAlexTestServer(http.StatusOK, `{"results": [`, nil)
	defer ts.Close()

	_, err := testClient(ts).DiscoverWorks(context.Background(), testQuery(t))
	var df *DiscoveryFailure
	if !errors.As(err, &df) {
		t.Fatalf("err = %v, want *DiscoveryFailure", err)
	}
}

func TestDiscoverWorksTransportError(t *testing.T) {
	ts := openAlexTestServer(http.StatusOK, `{}`, nil)
	ts.Close()

	_, err := testClient(ts).DiscoverWorks(context.Background(), testQuery(t))
	var df *DiscoveryFailure
	if !errors.As(err, &df) {
		t.Fatalf("err = %v, want *DiscoveryFailure", err)
	}
}

func TestDiscoverWorksTimeout(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer ts.Close()

	c := testClient(ts)
	c.Timeout = 50 * time.Millisecond

	start := time.Now()
	_, err := c.DiscoverWorks(context.Background(), testQuery(t))
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("err = %v, want context.DeadlineExceeded", err)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("call took %v, want it bounded by the client timeout", elapsed)
	}
}

func TestDiscoverWorksCallerCancel(t *testing.T) {
	ts := openAlexTestServer(http.StatusOK, sampleWorksJSON, nil)
	defer ts.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := testClient(ts).DiscoverWorks(ctx, testQuery(t))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}
