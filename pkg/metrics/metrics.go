package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	HTTPRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "angido",
		Name:      "http_requests_total",
		Help:      "HTTP requests by route, method and status.",
	}, []string{"route", "method", "status"})

	HTTPDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "angido",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route", "method"})

	AICacheLookups = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "angido",
		Name:      "ai_suggestion_cache_total",
		Help:      "AI suggestion cache lookups by result (hit|miss).",
	}, []string{"result"})

	AIGenerationDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "angido",
		Name:      "ai_generation_duration_seconds",
		Help:      "Latency of generative model calls.",
		Buckets:   []float64{0.5, 1, 2, 5, 10, 20, 30, 60},
	})

	AICachePurged = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "angido",
		Name:      "ai_suggestion_cache_purged_total",
		Help:      "Expired AI suggestion rows deleted by the janitor.",
	})
)

// Register adds every collector to reg. Call once per registry.
func Register(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{
		HTTPRequests, HTTPDuration, AICacheLookups, AIGenerationDuration, AICachePurged,
	} {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}
