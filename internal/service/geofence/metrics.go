package geofence

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var GeofenceEventsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "geofence_events_total",
		Help: "Geofence events emitted by name",
	},
	[]string{"event"},
)
