package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	queriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "eiga",
			Name:      "queries_total",
			Help:      "Total number of answered queries by intent",
		},
		[]string{"intent"},
	)

	edgeFlagsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "eiga",
			Name:      "edge_flags_total",
			Help:      "Total number of edge-case flags raised",
		},
		[]string{"flag"},
	)

	queryDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "eiga",
			Name:      "query_duration_seconds",
			Help:      "Full pipeline duration in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
	)
)

func init() {
	prometheus.MustRegister(queriesTotal)
	prometheus.MustRegister(edgeFlagsTotal)
	prometheus.MustRegister(queryDuration)
}

// ObserveQuery records one completed pipeline run.
func ObserveQuery(intent string, edgeNotes []string, elapsed time.Duration) {
	queriesTotal.WithLabelValues(intent).Inc()
	for _, note := range edgeNotes {
		edgeFlagsTotal.WithLabelValues(note).Inc()
	}
	queryDuration.Observe(elapsed.Seconds())
}
