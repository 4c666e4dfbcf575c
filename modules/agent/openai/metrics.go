package openai

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// invocationDuration tracks wall time of whole invocations, upload
// through answer extraction, labelled by outcome.
var invocationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: "finsched",
	Name:      "agent_invocation_seconds",
	Help:      "Duration of one agent invocation by outcome.",
	Buckets:   prometheus.ExponentialBuckets(0.5, 2, 12),
}, []string{"outcome"})
