// Package metrics exposes Prometheus instrumentation for cluster selections.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Selection outcomes used as label values.
const (
	OutcomeDefault  = "default"
	OutcomeSelected = "selected"
	OutcomeInvalid  = "invalid"
)

// Selections records how long selection handling takes and how it ends.
type Selections struct {
	duration prometheus.Histogram
	total    *prometheus.CounterVec
}

// NewSelections creates the selection metrics and registers them with registerer.
// A nil registerer leaves them unregistered.
func NewSelections(registerer prometheus.Registerer) *Selections {
	s := &Selections{
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "clusterboard_selection_duration_seconds",
			Help:    "Time spent handling a cluster selection",
			Buckets: prometheus.ExponentialBuckets(0.00001, 4, 8),
		}),
		total: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "clusterboard_selections_total",
			Help: "Cluster selections by outcome",
		}, []string{"outcome"}),
	}
	if registerer != nil {
		registerer.MustRegister(s.duration)
		registerer.MustRegister(s.total)
	}
	return s
}

// ObserveSelection records one handled selection.
func (s *Selections) ObserveSelection(outcome string, took time.Duration) {
	s.duration.Observe(took.Seconds())
	s.total.WithLabelValues(outcome).Inc()
}
