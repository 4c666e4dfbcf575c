package notify

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	sentTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "finsched",
		Name:      "notifications_sent_total",
		Help:      "Notifications delivered to individual recipients.",
	})

	failedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "finsched",
		Name:      "notifications_failed_total",
		Help:      "Per-recipient delivery failures.",
	})
)
