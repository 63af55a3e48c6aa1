// Package dataset loads the clustered dataset and derives per-cluster item counts.
package dataset

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/hyperjump/clusterboard/internal/config"
	"github.com/hyperjump/clusterboard/internal/models"
	"go.uber.org/zap"
)

// MaxInferredClusters bounds K when it is inferred from the data.
const MaxInferredClusters = 1000

// Options controls how cluster values are read and mapped to indices 1..K.
type Options struct {
	ClusterColumn string
	// ClusterBase is the stored value of the first cluster (0 or 1).
	ClusterBase int
	// Clusters is K. When 0, K is the largest index found, up to MaxInferredClusters.
	Clusters int
	// Sheet selects the xlsx sheet; empty means the first one.
	Sheet string
	// Table is the SQLite table holding the items.
	Table string
}

// OptionsFromConfig builds loader options from the data config section.
func OptionsFromConfig(cfg *config.DataConfig) Options {
	return Options{
		ClusterColumn: cfg.ClusterColumn,
		ClusterBase:   cfg.BaseOrDefault(),
		Clusters:      cfg.Clusters,
		Sheet:         cfg.Sheet,
		Table:         cfg.Table,
	}
}

// Loader reads a dataset file once and counts items per cluster.
type Loader struct {
	opts   Options
	logger *zap.Logger
}

// NewLoader returns a Loader. A nil logger is replaced with a no-op logger.
func NewLoader(opts Options, logger *zap.Logger) *Loader {
	if opts.ClusterColumn == "" {
		opts.ClusterColumn = "cluster"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{opts: opts, logger: logger}
}

// Load reads the dataset at path and returns its cluster count table.
// The format is chosen by extension: .csv, .tsv, .xlsx, or .db/.sqlite/.sqlite3.
// Every failure is returned as a *LoadError.
func (l *Loader) Load(ctx context.Context, path string) (*models.ClusterCountTable, error) {
	start := time.Now()
	values, err := l.readColumn(ctx, path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	table, err := l.count(values)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	l.logger.Info("dataset loaded",
		zap.String("path", path),
		zap.Int("rows", table.Total()),
		zap.Int("clusters", table.K()),
		zap.Duration("took", time.Since(start)),
	)
	return table, nil
}

// column holds the raw cluster cells of a dataset, with the source row number of each
// cell for error messages.
type column struct {
	values []string
	rows   []int
}

func (c *column) add(value string, row int) {
	c.values = append(c.values, value)
	c.rows = append(c.rows, row)
}

func (l *Loader) readColumn(ctx context.Context, path string) (*column, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".csv":
		return readCSV(path, ',', l.opts.ClusterColumn)
	case ".tsv":
		return readCSV(path, '\t', l.opts.ClusterColumn)
	case ".xlsx":
		return readExcel(path, l.opts.Sheet, l.opts.ClusterColumn)
	case ".db", ".sqlite", ".sqlite3":
		return readSQLite(ctx, path, l.opts.Table, l.opts.ClusterColumn)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// count maps raw cluster values to indices 1..K and tallies them.
func (l *Loader) count(col *column) (*models.ClusterCountTable, error) {
	if len(col.values) == 0 {
		return nil, ErrEmpty
	}
	indices := make([]int, len(col.values))
	maxIndex := 0
	for i, raw := range col.values {
		v, err := models.ParseClusterValue(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: %v", ErrInvalidCluster, col.rows[i], err)
		}
		idx := v - l.opts.ClusterBase + 1
		if idx < 1 {
			return nil, fmt.Errorf("%w: row %d: %d is below the first cluster %d", ErrInvalidCluster, col.rows[i], v, l.opts.ClusterBase)
		}
		if l.opts.Clusters > 0 && idx > l.opts.Clusters {
			return nil, fmt.Errorf("%w: row %d: %d is beyond cluster %d", ErrInvalidCluster, col.rows[i], v, l.opts.Clusters+l.opts.ClusterBase-1)
		}
		if l.opts.Clusters == 0 && idx > MaxInferredClusters {
			return nil, fmt.Errorf("%w: row %d: %d is beyond cluster %d; set data.clusters for larger datasets",
				ErrInvalidCluster, col.rows[i], v, MaxInferredClusters+l.opts.ClusterBase-1)
		}
		indices[i] = idx
		if idx > maxIndex {
			maxIndex = idx
		}
	}
	k := l.opts.Clusters
	if k == 0 {
		k = maxIndex
	}
	counts := make([]int, k)
	for _, idx := range indices {
		counts[idx-1]++
	}
	return models.NewClusterCountTable(counts), nil
}
