package background

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	DispatcherDroppedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "background_dispatcher_dropped_total",
			Help: "Total number of background jobs dropped before execution",
		},
		[]string{"job", "reason"},
	)

	DispatcherQueueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "background_dispatcher_queue_depth",
			Help: "Number of background jobs waiting for a worker",
		},
	)

	DispatcherQueueWait = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "background_dispatcher_queue_wait_seconds",
			Help:    "Time a background job spent in the queue",
			Buckets: []float64{.001, .005, .01, .05, .1, .5, 1, 5},
		},
		[]string{"job"},
	)

	DispatcherJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "background_dispatcher_job_duration_seconds",
			Help:    "Duration of background job execution",
			Buckets: []float64{.005, .01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
		[]string{"job", "result"},
	)

	TaskRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "background_task_runs_total",
			Help: "Total number of periodic task runs",
		},
		[]string{"task", "result"},
	)

	TaskDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "background_task_duration_seconds",
			Help:    "Duration of periodic task runs",
			Buckets: []float64{.01, .05, .1, .5, 1, 5, 10, 30, 60},
		},
		[]string{"task"},
	)
)
