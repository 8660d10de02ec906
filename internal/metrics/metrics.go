// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package metrics instruments upstream OpenAlex calls and ranking runs with
// Prometheus collectors. A nil *Recorder is valid and records nothing.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "venue_engine"

// Upstream endpoints.
const (
	EndpointWorks   = "works"
	EndpointSources = "sources"
)

// Request outcomes.
const (
	OutcomeOK             = "ok"
	OutcomeHTTPError      = "http_error"
	OutcomeTransportError = "transport_error"
	OutcomeDecodeError    = "decode_error"
)

// Ranking outcomes.
const (
	RankingOK               = "ok"
	RankingEmpty            = "empty"
	RankingDiscoveryFailure = "discovery_failure"
	RankingMetadataFailure  = "metadata_failure"
)

// Recorder holds the collectors registered for one process.
type Recorder struct {
	requests   *prometheus.CounterVec
	latency    *prometheus.HistogramVec
	rankings   *prometheus.CounterVec
	candidates prometheus.Histogram
}

// New creates the collectors and registers them on reg. It panics if they are
// already registered there, like prometheus.MustRegister.
func New(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_requests_total",
			Help:      "OpenAlex requests by endpoint and outcome.",
		}, []string{"endpoint", "outcome"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "upstream_request_duration_seconds",
			Help:      "OpenAlex request latency by endpoint.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 15},
		}, []string{"endpoint"}),
		rankings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rankings_total",
			Help:      "Ranking runs by outcome.",
		}, []string{"outcome"}),
		candidates: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "candidate_journals",
			Help:      "Distinct journals aggregated per ranking run.",
			Buckets:   prometheus.LinearBuckets(0, 5, 11),
		}),
	}
	reg.MustRegister(r.requests, r.latency, r.rankings, r.candidates)
	return r
}

// ObserveRequest records one upstream request.
func (r *Recorder) ObserveRequest(endpoint, outcome string, d time.Duration) {
	if r == nil {
		return
	}
	r.requests.WithLabelValues(endpoint, outcome).Inc()
	r.latency.WithLabelValues(endpoint).Observe(d.Seconds())
}

// ObserveRanking records one finished ranking run and the number of
// candidate journals it aggregated.
func (r *Recorder) ObserveRanking(outcome string, candidates int) {
	if r == nil {
		return
	}
	r.rankings.WithLabelValues(outcome).Inc()
	r.candidates.Observe(float64(candidates))
}
