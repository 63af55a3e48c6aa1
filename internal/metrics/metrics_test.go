package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestSelections(t *testing.T) {
	registry := prometheus.NewRegistry()
	s := NewSelections(registry)

	s.ObserveSelection(OutcomeSelected, time.Millisecond)
	s.ObserveSelection(OutcomeSelected, 2*time.Millisecond)
	s.ObserveSelection(OutcomeInvalid, time.Microsecond)

	if got := testutil.ToFloat64(s.total.WithLabelValues(OutcomeSelected)); got != 2 {
		t.Errorf("selected = %v, want 2", got)
	}
	if got := testutil.ToFloat64(s.total.WithLabelValues(OutcomeInvalid)); got != 1 {
		t.Errorf("invalid = %v, want 1", got)
	}
	if n := testutil.CollectAndCount(s.duration); n != 1 {
		t.Errorf("duration collectors = %d, want 1", n)
	}

	families, err := registry.Gather()
	if err != nil {
		t.Fatal(err)
	}
	if len(families) != 2 {
		t.Errorf("registered families = %d, want 2", len(families))
	}
}

func TestNewSelections_NilRegisterer(t *testing.T) {
	s := NewSelections(nil)
	s.ObserveSelection(OutcomeDefault, time.Microsecond)
}
