package types

import "time"

// HTTPConfig holds shared HTTP settings for upstream requests.
type HTTPConfig struct {
	// Timeout bounds each upstream call (default 15s).
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "venue-engine/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// OpenAlexConfig holds settings for the OpenAlex discovery and metadata
// clients. A client is built from it per ranking run.
type OpenAlexConfig struct {
	HTTPConfig `yaml:",inline"`

	// BaseURL is the API root (default "https://api.openalex.org").
	BaseURL string `json:"base_url" yaml:"base_url"`

	// Email is sent as the mailto parameter for polite pool access.
	Email string `json:"email" yaml:"email"`

	// RateLimitRetries enables exponential backoff on HTTP 429. Zero sends
	// each request exactly once.
	RateLimitRetries int `json:"rate_limit_retries" yaml:"rate_limit_retries"`
}

// RankingConfig holds caller-facing ranking options.
type RankingConfig struct {
	// TopN is the number of journals returned (default 3).
	TopN int `json:"top_n" yaml:"top_n"`

	// Components attaches the four sub-scores to each output record.
	Components bool `json:"components" yaml:"components"`
}

// HistoryConfig holds settings for the optional run log.
type HistoryConfig struct {
	Enabled bool `json:"enabled" yaml:"enabled"`

	// Path is the SQLite database file (default "output/history.db").
	Path string `json:"path" yaml:"path"`
}

// ServerConfig holds settings for the HTTP API.
type ServerConfig struct {
	// Addr is the listen address (default ":8080").
	Addr string `json:"addr" yaml:"addr"`

	// APIKey, when set, is required in the X-API-KEY header.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`
}

// Config groups all settings for the venue-engine CLI and server.
type Config struct {
	OpenAlex OpenAlexConfig `json:"openalex" yaml:"openalex"`
	Ranking  RankingConfig  `json:"ranking" yaml:"ranking"`
	History  HistoryConfig  `json:"history" yaml:"history"`
	Server   ServerConfig   `json:"server" yaml:"server"`
}
