package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	aiRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pentacore_ai_requests_total",
			Help: "Total number of requests to the AI provider.",
		},
		[]string{"provider", "model", "kind", "status"}, // kind: text|image
	)
	aiRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pentacore_ai_request_duration_seconds",
			Help:    "Histogram of AI provider request durations.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"provider", "model", "kind"},
	)
	aiPromptTokens = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pentacore_ai_prompt_tokens",
			Help:    "Histogram of prompt token counts (estimated when the provider does not report usage).",
			Buckets: prometheus.LinearBuckets(50, 50, 20), // 50, 100, ..., 1000
		},
		[]string{"provider", "model"},
	)
	generationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pentacore_generations_total",
			Help: "Total number of pipeline runs by content kind and outcome.",
		},
		[]string{"kind", "status"}, // status: success|config_error|failed
	)
	illustrationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pentacore_illustrations_total",
			Help: "Outcome of the best-effort illustration step.",
		},
		[]string{"outcome"}, // attached|no_image|error
	)
)

func observeRequest(provider, model, kind, status string, seconds float64) {
	aiRequestsTotal.With(prometheus.Labels{"provider": provider, "model": model, "kind": kind, "status": status}).Inc()
	if status == "success" {
		aiRequestDuration.With(prometheus.Labels{"provider": provider, "model": model, "kind": kind}).Observe(seconds)
	}
}
