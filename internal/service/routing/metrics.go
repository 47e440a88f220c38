package routing

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var RouteJobsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "routing_jobs_total",
		Help: "Route and ETA jobs by outcome",
	},
	[]string{"job", "result"},
)
