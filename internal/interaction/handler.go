// Package interaction turns bar clicks into the next dashboard state: the word-cloud image
// of the selected cluster and the chart recolored to highlight it.
package interaction

import (
	"fmt"
	"time"

	"github.com/hyperjump/clusterboard/internal/assets"
	"github.com/hyperjump/clusterboard/internal/chart"
	"github.com/hyperjump/clusterboard/internal/metrics"
	"go.uber.org/zap"
)

// Selection is the cluster picked by a click, if any.
type Selection struct {
	cluster int
	present bool
}

// NoSelection is the selection before any click.
func NoSelection() Selection {
	return Selection{}
}

// Select returns the selection of cluster i (1-based).
func Select(i int) Selection {
	return Selection{cluster: i, present: true}
}

// Cluster returns the selected cluster; ok is false for NoSelection.
func (s Selection) Cluster() (cluster int, ok bool) {
	return s.cluster, s.present
}

// InvalidSelectionError reports a selected cluster outside 1..K.
type InvalidSelectionError struct {
	Cluster int
	K       int
}

func (e *InvalidSelectionError) Error() string {
	return fmt.Sprintf("invalid selection: cluster %d outside 1..%d", e.Cluster, e.K)
}

// Result is the display state produced by one selection.
type Result struct {
	ImageURL string
	// Figure is the recolored chart; nil when NoUpdate is set.
	Figure *chart.Figure
	// NoUpdate means the chart already shows this state.
	NoUpdate bool
}

// Observer receives the outcome and duration of every selection.
type Observer interface {
	ObserveSelection(outcome string, took time.Duration)
}

// Handler maps selections to display states. It keeps no state between calls and is safe
// for concurrent use.
type Handler struct {
	assetPrefix    string
	defaultColor   string
	highlightColor string
	observer       Observer
	logger         *zap.Logger
}

// Option configures a Handler.
type Option func(*Handler)

// WithObserver sets the observer notified after each selection.
func WithObserver(o Observer) Option {
	return func(h *Handler) { h.observer = o }
}

// WithLogger sets the logger used for per-selection timing.
func WithLogger(l *zap.Logger) Option {
	return func(h *Handler) { h.logger = l }
}

// NewHandler returns a Handler that names assets under assetPrefix and colors bars with the
// two given colors.
func NewHandler(assetPrefix, defaultColor, highlightColor string, opts ...Option) *Handler {
	h := &Handler{
		assetPrefix:    assetPrefix,
		defaultColor:   defaultColor,
		highlightColor: highlightColor,
		logger:         zap.NewNop(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// OnClusterSelect returns the display state for sel given the chart currently shown.
// With no selection it returns the cluster 1 image and NoUpdate. With a valid selection it
// returns that cluster's image and a copy of current with only the bar colors replaced.
// A selection outside 1..K fails with *InvalidSelectionError and current stays valid.
func (h *Handler) OnClusterSelect(sel Selection, current chart.Figure) (result Result, err error) {
	start := time.Now()
	outcome := metrics.OutcomeSelected
	defer func() {
		took := time.Since(start)
		h.logger.Debug("selection handled",
			zap.String("outcome", outcome),
			zap.String("image", result.ImageURL),
			zap.Duration("took", took),
		)
		if h.observer != nil {
			h.observer.ObserveSelection(outcome, took)
		}
	}()

	i, ok := sel.Cluster()
	if !ok {
		outcome = metrics.OutcomeDefault
		return Result{ImageURL: assets.URL(h.assetPrefix, chart.DefaultSelection), NoUpdate: true}, nil
	}

	k := current.K()
	if i < 1 || i > k {
		outcome = metrics.OutcomeInvalid
		return Result{}, &InvalidSelectionError{Cluster: i, K: k}
	}
	colors, err := chart.NewColorVector(k, i, h.defaultColor, h.highlightColor)
	if err != nil {
		outcome = metrics.OutcomeInvalid
		return Result{}, err
	}
	updated, err := current.WithMarkerColors(colors)
	if err != nil {
		outcome = metrics.OutcomeInvalid
		return Result{}, err
	}
	return Result{ImageURL: assets.URL(h.assetPrefix, i), Figure: &updated}, nil
}
