package interaction

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	interactionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "interactions_total",
			Help: "Total number of recorded interactions by action",
		},
		[]string{"action"},
	)

	matchesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "matches_total",
			Help: "Total number of matches created",
		},
	)

	matchNotifyFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "match_notify_failures_total",
			Help: "Match notifications that could not be delivered",
		},
	)
)
