package engine

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds the engine metrics. It is separate from the default
// registry so that a metrics file only carries setup metrics.
var Registry = prometheus.NewRegistry()

var (
	actionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "modsetup",
			Subsystem: "engine",
			Name:      "actions_total",
			Help:      "Total number of actions run by kind and result",
		},
		[]string{"kind", "result"},
	)

	actionDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "modsetup",
			Subsystem: "engine",
			Name:      "action_duration_seconds",
			Help:      "Duration of actions in seconds, settling delay excluded",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12), // 10ms to ~20s
		},
		[]string{"kind"},
	)

	entriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "modsetup",
			Subsystem: "actions",
			Name:      "entries_total",
			Help:      "Total number of file action entries by kind and status",
		},
		[]string{"kind", "status"},
	)

	deleteAttemptsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "modsetup",
			Subsystem: "actions",
			Name:      "delete_attempts_total",
			Help:      "Total number of delete attempts, retries included",
		},
	)

	transitionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "modsetup",
			Subsystem: "engine",
			Name:      "transitions_total",
			Help:      "Total number of step transitions by type",
		},
		[]string{"type"},
	)
)

func init() {
	Registry.MustRegister(
		actionsTotal,
		actionDuration,
		entriesTotal,
		deleteAttemptsTotal,
		transitionsTotal,
	)
}

// WriteMetrics writes the engine metrics to path in the text exposition
// format.
func WriteMetrics(path string) error {
	return prometheus.WriteToTextfile(path, Registry)
}

// recordActionMetric records a finished action.
func recordActionMetric(kind, result string, seconds float64) {
	actionsTotal.WithLabelValues(kind, result).Inc()
	actionDuration.WithLabelValues(kind).Observe(seconds)
}

// recordEntryMetric records one entry of a file action.
func recordEntryMetric(kind, status string, attempts int) {
	entriesTotal.WithLabelValues(kind, status).Inc()
	deleteAttemptsTotal.Add(float64(attempts))
}

// recordTransitionMetric records a step transition.
func recordTransitionMetric(transition string) {
	transitionsTotal.WithLabelValues(transition).Inc()
}
