package discovery

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	searchesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "discovery_searches_total",
			Help: "Total number of candidate searches",
		},
	)

	candidatesReturned = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "discovery_candidates_returned",
			Help:    "Number of candidates returned per search",
			Buckets: prometheus.LinearBuckets(0, 5, 11),
		},
	)

	compatibilityScores = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "discovery_compatibility_scores",
			Help:    "Distribution of compatibility scores",
			Buckets: prometheus.LinearBuckets(0, 10, 11),
		},
	)
)

func recordSearch(returned int) {
	searchesTotal.Inc()
	candidatesReturned.Observe(float64(returned))
}

func recordCompatibilityScore(score float64) {
	compatibilityScores.Observe(score)
}
