package notifier

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var NotificationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "external_notifications_total",
		Help: "External notification attempts by channel and result",
	},
	[]string{"channel", "result"},
)
