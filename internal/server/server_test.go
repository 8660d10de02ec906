// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/venue-engine/internal/history"
	"github.com/pdiddy/venue-engine/pkg/types"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// fakeOpenAlex answers /works with three journal articles in two journals
// and /sources with metadata for S1 only. It records every search param.
func fakeOpenAlex(t *testing.T) (*httptest.Server, func() []string) {
	t.Helper()
	var (
		mu       sync.Mutex
		searches []string
	)
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/works":
			mu.Lock()
			searches = append(searches, r.URL.Query().Get("search"))
			mu.Unlock()
			fmt.Fprint(w, `{"results": [
				{"id": "W1", "type": "article", "cited_by_count": 900,
				 "primary_location": {"source": {"id": "https://openalex.org/S1", "type": "journal"}}},
				{"id": "W2", "type": "article", "cited_by_count": 800,
				 "primary_location": {"source": {"id": "https://openalex.org/S2", "type": "journal"}}},
				{"id": "W3", "type": "article", "cited_by_count": 700,
				 "primary_location": {"source": {"id": "https://openalex.org/S1", "type": "journal"}}}
			]}`)
		case "/sources":
			fmt.Fprint(w, `{"results": [
				{"id": "https://openalex.org/S1", "display_name": "Nature",
				 "host_organization_name": "Nature Portfolio",
				 "summary_stats": {"h_index": 1795}, "cited_by_count": 25578329,
				 "is_oa": false, "is_in_doaj": false}
			]}`)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(ts.Close)
	return ts, func() []string {
		mu.Lock()
		defer mu.Unlock()
		return append([]string(nil), searches...)
	}
}

func testConfig(baseURL string) types.Config {
	return types.Config{
		OpenAlex: types.OpenAlexConfig{BaseURL: baseURL, Email: "config@example.com"},
	}
}

func do(t *testing.T, h http.Handler, method, path, body string, header ...string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) rankResponse {
	t.Helper()
	var resp rankResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp), rec.Body.String())
	return resp
}

func TestHealthz(t *testing.T) {
	h := New(Options{}).Handler()
	rec := do(t, h, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestJournals(t *testing.T) {
	ts, searches := fakeOpenAlex(t)
	h := New(Options{Config: testConfig(ts.URL)}).Handler()

	rec := do(t, h, http.MethodPost, "/api/v1/journals", `{"query": "attention  mechanisms"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	resp := decode(t, rec)
	assert.Equal(t, "attention mechanisms", resp.Query)
	require.Len(t, resp.Journals, 1)
	assert.Equal(t, "Nature", resp.Journals[0].JournalName)
	assert.Equal(t, 58.0, resp.Journals[0].CalculatedScore)
	assert.Nil(t, resp.Journals[0].Components)
	assert.Equal(t, []string{"S2"}, resp.Missing)
	assert.Empty(t, resp.Message)
	assert.Empty(t, resp.RunID)
	assert.Equal(t, []string{"attention mechanisms"}, searches())
}

func TestJournals_Components(t *testing.T) {
	ts, _ := fakeOpenAlex(t)
	h := New(Options{Config: testConfig(ts.URL)}).Handler()

	rec := do(t, h, http.MethodPost, "/api/v1/journals", `{"query": "attention", "components": true}`)
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decode(t, rec)
	require.Len(t, resp.Journals, 1)
	require.NotNil(t, resp.Journals[0].Components)
	assert.Equal(t, 8.0, resp.Journals[0].Components.Relevance)
}

func TestJournals_Validation(t *testing.T) {
	ts, searches := fakeOpenAlex(t)

	tests := []struct {
		name string
		cfg  types.Config
		body string
	}{
		{"malformed body", testConfig(ts.URL), `{"query": `},
		{"empty query", testConfig(ts.URL), `{"query": "   "}`},
		{"no contact", types.Config{OpenAlex: types.OpenAlexConfig{BaseURL: ts.URL}}, `{"query": "attention"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := New(Options{Config: tt.cfg}).Handler()
			rec := do(t, h, http.MethodPost, "/api/v1/journals", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
		})
	}
	assert.Empty(t, searches(), "invalid requests must not reach OpenAlex")
}

func TestJournals_EmptyResult(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"results": []}`)
	}))
	defer ts.Close()
	h := New(Options{Config: testConfig(ts.URL)}).Handler()

	rec := do(t, h, http.MethodPost, "/api/v1/journals", `{"query": "nothing"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"journals":[]`)
	assert.Equal(t, "No matching journals found for this query.", decode(t, rec).Message)
}

func TestJournals_Unavailable(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "maintenance", http.StatusBadGateway)
	}))
	defer ts.Close()
	h := New(Options{Config: testConfig(ts.URL)}).Handler()

	rec := do(t, h, http.MethodPost, "/api/v1/journals", `{"query": "attention"}`)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "temporarily unavailable")
}

func TestRecommend(t *testing.T) {
	ts, searches := fakeOpenAlex(t)
	h := New(Options{Config: testConfig(ts.URL)}).Handler()

	body := `{"subjectArea": "DL", "title": "Graph models", "keywords": ["graph", "drug"],
		"openAccess": "yes", "email": "caller@example.com"}`
	rec := do(t, h, http.MethodPost, "/api/v1/recommend", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	resp := decode(t, rec)
	assert.Equal(t, "deep learning (graph OR drug)", resp.Query)
	require.NotNil(t, resp.Input)
	assert.True(t, resp.Input.OpenAccess)
	assert.Equal(t, 100, resp.Input.AcceptanceTo)
	require.Len(t, resp.Journals, 1)
	assert.Equal(t, []string{"deep learning (graph OR drug)"}, searches())
}

func TestRecommend_InvalidOpenAccess(t *testing.T) {
	ts, _ := fakeOpenAlex(t)
	h := New(Options{Config: testConfig(ts.URL)}).Handler()

	rec := do(t, h, http.MethodPost, "/api/v1/recommend", `{"subjectArea": "DL", "openAccess": "maybe"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAPIKey(t *testing.T) {
	ts, _ := fakeOpenAlex(t)
	cfg := testConfig(ts.URL)
	cfg.Server.APIKey = "s3cret"
	h := New(Options{Config: cfg}).Handler()

	rec := do(t, h, http.MethodPost, "/api/v1/journals", `{"query": "attention"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/v1/journals", `{"query": "attention"}`, "X-API-KEY", "s3cret")
	assert.Equal(t, http.StatusOK, rec.Code)

	// Health and metrics stay open.
	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/healthz", "").Code)
	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/metrics", "").Code)
}

func TestMetricsEndpoint(t *testing.T) {
	ts, _ := fakeOpenAlex(t)
	h := New(Options{Config: testConfig(ts.URL)}).Handler()

	require.Equal(t, http.StatusOK, do(t, h, http.MethodPost, "/api/v1/journals", `{"query": "attention"}`).Code)

	rec := do(t, h, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `venue_engine_upstream_requests_total{endpoint="works",outcome="ok"} 1`)
	assert.Contains(t, body, `venue_engine_upstream_requests_total{endpoint="sources",outcome="ok"} 1`)
	assert.Contains(t, body, `venue_engine_rankings_total{outcome="ok"} 1`)
}

func TestHistory(t *testing.T) {
	ts, _ := fakeOpenAlex(t)
	store, err := history.NewStore(types.HistoryConfig{Enabled: true, Path: filepath.Join(t.TempDir(), "h.db")}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	h := New(Options{Config: testConfig(ts.URL), History: store}).Handler()

	resp := decode(t, do(t, h, http.MethodPost, "/api/v1/journals", `{"query": "attention"}`))
	require.NotEmpty(t, resp.RunID)

	rec := do(t, h, http.MethodGet, "/api/v1/history?limit=5", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var runs []history.RunSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &runs))
	require.Len(t, runs, 1)
	assert.Equal(t, resp.RunID, runs[0].ID)
	assert.Equal(t, "Nature", runs[0].TopJournal)

	rec = do(t, h, http.MethodGet, "/api/v1/history/"+resp.RunID[:8], "")
	require.Equal(t, http.StatusOK, rec.Code)
	var run history.Run
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &run))
	assert.Equal(t, "attention", run.Query)

	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/api/v1/history/nope", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodGet, "/api/v1/history?limit=x", "").Code)
}

func TestHistory_Disabled(t *testing.T) {
	h := New(Options{}).Handler()
	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/api/v1/history", "").Code)
}
