package dataset

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedFormat is returned for dataset files with an unknown extension.
	ErrUnsupportedFormat = errors.New("unsupported dataset format")
	// ErrMissingColumn is returned when the cluster column is absent.
	ErrMissingColumn = errors.New("cluster column not found")
	// ErrInvalidCluster is returned for cluster values that are not integers or fall outside 1..K.
	ErrInvalidCluster = errors.New("invalid cluster value")
	// ErrEmpty is returned when the dataset has no item rows.
	ErrEmpty = errors.New("dataset has no rows")
)

// LoadError reports a dataset that could not be turned into a cluster count table.
// It is fatal for the dashboard.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load dataset %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}
