package ingestion

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var PingsIngestedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "location_pings_ingested_total",
		Help: "Location pings by ingestion result",
	},
	[]string{"result"},
)
