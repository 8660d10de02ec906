// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package search talks to the OpenAlex API. It discovers the most-cited works
// for a query and batch-fetches journal (source) metadata, mapping the raw
// JSON into the shapes in pkg/types once, at this boundary.
//
// A Client carries the contact email and timeout for one ranking run. Build
// one per invocation with NewClient and drop it when the run ends.
package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/venue-engine/internal/httputil"
	"github.com/pdiddy/venue-engine/internal/metrics"
	"github.com/pdiddy/venue-engine/pkg/types"
)

const (
	// DefaultBaseURL is the OpenAlex API root.
	DefaultBaseURL = "https://api.openalex.org"

	// DefaultTimeout bounds each upstream call.
	DefaultTimeout = 15 * time.Second

	// DefaultUserAgent is sent when the configuration leaves it empty.
	DefaultUserAgent = "venue-engine/0.1"

	// DiscoveryPageSize is the number of works requested in the single
	// discovery call.
	DiscoveryPageSize = 30

	// MaxBatchIDs is the largest identifier set sent in one sources lookup.
	// OpenAlex accepts up to 100 OR-ed values per filter; 50 keeps the URL
	// short.
	MaxBatchIDs = 50
)

// Client queries OpenAlex on behalf of one ranking run.
type Client struct {
	HTTP *http.Client

	// BaseURL is the API root without a trailing slash.
	BaseURL string

	// Email is sent as the mailto parameter for polite pool access.
	Email string

	UserAgent string

	// Timeout bounds each call independently of the caller's context.
	Timeout time.Duration

	// RateLimitRetries enables backoff on HTTP 429; zero disables it.
	RateLimitRetries int

	Logger  *zap.Logger
	Metrics *metrics.Recorder
}

// NewClient builds a Client from cfg, filling defaults for empty fields.
func NewClient(cfg types.OpenAlexConfig, logger *zap.Logger, rec *metrics.Recorder) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Client{
		HTTP:             &http.Client{},
		BaseURL:          strings.TrimRight(cfg.BaseURL, "/"),
		Email:            strings.TrimSpace(cfg.Email),
		UserAgent:        cfg.UserAgent,
		Timeout:          cfg.Timeout,
		RateLimitRetries: cfg.RateLimitRetries,
		Logger:           logger.Named("openalex"),
		Metrics:          rec,
	}
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.UserAgent == "" {
		c.UserAgent = DefaultUserAgent
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	return c
}

// listResponse is the envelope shared by the OpenAlex list endpoints.
// Results stay raw so a single malformed record can be skipped without
// failing the whole response.
type listResponse struct {
	Meta    listMeta          `json:"meta"`
	Results []json.RawMessage `json:"results"`
}

type listMeta struct {
	Count   int `json:"count"`
	PerPage int `json:"per_page"`
	Page    int `json:"page"`
}

// get issues one GET against endpoint with params and decodes the list
// envelope. The call is bounded by c.Timeout and by ctx.
func (c *Client) get(ctx context.Context, endpoint string, params url.Values) (listResponse, error) {
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	reqURL := c.BaseURL + "/" + endpoint + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return listResponse{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.UserAgent)
	req.Header.Set("Accept", "application/json")

	log := c.logger().With(zap.String("endpoint", endpoint))
	log.Debug("calling OpenAlex", zap.String("url", req.URL.Redacted()))

	start := time.Now()
	resp, err := httputil.Do(ctx, c.httpClient(), req, c.RateLimitRetries, log)
	if err != nil {
		c.Metrics.ObserveRequest(endpoint, metrics.OutcomeTransportError, time.Since(start))
		return listResponse{}, fmt.Errorf("OpenAlex %s request: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.Metrics.ObserveRequest(endpoint, metrics.OutcomeHTTPError, time.Since(start))
		return listResponse{}, &StatusError{
			Endpoint:   endpoint,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(body)),
		}
	}

	var lr listResponse
	if err := json.NewDecoder(resp.Body).Decode(&lr); err != nil {
		c.Metrics.ObserveRequest(endpoint, metrics.OutcomeDecodeError, time.Since(start))
		return listResponse{}, fmt.Errorf("parsing OpenAlex %s response: %w", endpoint, err)
	}
	c.Metrics.ObserveRequest(endpoint, metrics.OutcomeOK, time.Since(start))

	log.Debug("OpenAlex responded",
		zap.Int("results", len(lr.Results)),
		zap.Int("total", lr.Meta.Count),
		zap.Duration("elapsed", time.Since(start)))
	return lr, nil
}

func (c *Client) httpClient() *http.Client {
	if c.HTTP == nil {
		return http.DefaultClient
	}
	return c.HTTP
}

func (c *Client) logger() *zap.Logger {
	if c.Logger == nil {
		return zap.NewNop()
	}
	return c.Logger
}
