package whatsapp

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var GatewayRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "whatsapp_gateway_request_duration_seconds",
		Help:    "Duration of WhatsApp Cloud API requests",
		Buckets: []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
	},
	[]string{"status"},
)
