package trigger

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// invocationsTotal counts trigger invocations by trigger and outcome.
	invocationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trigger_invocations_total",
			Help: "Total number of trigger invocations",
		},
		[]string{"trigger", "status"},
	)

	// invocationDuration measures end-to-end invocation latency.
	invocationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "trigger_invocation_duration_seconds",
			Help:    "Trigger invocation duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"trigger"},
	)

	// cacheLookupsTotal counts result cache lookups by source kind and outcome.
	cacheLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trigger_cache_lookups_total",
			Help: "Result cache lookups by source kind and hit/miss",
		},
		[]string{"source", "result"},
	)
)

// RecordInvocation records the outcome and duration of one invocation.
// Status is "ok", "validation_error", or "error".
func RecordInvocation(trigger, status string, duration time.Duration) {
	invocationsTotal.WithLabelValues(trigger, status).Inc()
	invocationDuration.WithLabelValues(trigger).Observe(duration.Seconds())
}

func recordCacheLookup(source string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	cacheLookupsTotal.WithLabelValues(source, result).Inc()
}
