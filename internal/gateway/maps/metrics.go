package maps

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	GatewayRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "maps_gateway_request_duration_seconds",
			Help:    "Duration of maps provider requests",
			Buckets: []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "result"},
	)

	GatewayRateLimitedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "maps_gateway_rate_limited_total",
			Help: "Requests rejected by the client-side maps quota",
		},
		[]string{"method"},
	)
)
