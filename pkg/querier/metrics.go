package querier

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	scopePool = "pool"
	scopeTx   = "tx"
)

var (
	QueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "postgres_query_duration_seconds",
			Help:    "Duration of Postgres statements",
			Buckets: []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"op", "scope"},
	)

	QueryErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "postgres_query_errors_total",
			Help: "Total number of Postgres statements that failed to execute",
		},
		[]string{"op", "scope"},
	)
)
