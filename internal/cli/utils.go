// Package cli provides output helpers for the clusterboard command line.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/hyperjump/clusterboard/internal/models"
	"github.com/hyperjump/clusterboard/pkg/utils"
)

// OutputFormat is the format for command output.
type OutputFormat string

const (
	// OutputText is human-readable text (default).
	OutputText OutputFormat = "text"
	// OutputJSON is structured JSON for machine consumption.
	OutputJSON OutputFormat = "json"
)

const barWidth = 40

// ParseOutputFormat validates s as an OutputFormat.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch OutputFormat(strings.ToLower(strings.TrimSpace(s))) {
	case "", OutputText:
		return OutputText, nil
	case OutputJSON:
		return OutputJSON, nil
	}
	return "", fmt.Errorf("unknown output format %q (want text or json)", s)
}

// WriteCounts writes the per-cluster counts of table to w in the given format.
// The JSON form matches GET /api/v1/clusters.
func WriteCounts(w io.Writer, table *models.ClusterCountTable, format OutputFormat) error {
	switch format {
	case OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(table.Response())
	default:
		return writeCountsText(w, table)
	}
}

func writeCountsText(w io.Writer, table *models.ClusterCountTable) error {
	counts := table.Counts()
	maxCount := 0
	for _, cc := range counts {
		if cc.Count > maxCount {
			maxCount = cc.Count
		}
	}
	if _, err := fmt.Fprintf(w, "%d clusters, %d items\n\n", table.K(), table.Total()); err != nil {
		return err
	}
	for _, cc := range counts {
		bar := strings.Repeat("#", utils.ScaleInt(cc.Count, maxCount, barWidth))
		if _, err := fmt.Fprintf(w, "%7d  %6d  %s\n", cc.Cluster, cc.Count, bar); err != nil {
			return err
		}
	}
	return nil
}

// WriteMissingAssets writes one warning line per cluster without an image.
func WriteMissingAssets(w io.Writer, missing []int) {
	for _, i := range missing {
		fmt.Fprintf(w, "warning: no image for cluster %d\n", i)
	}
}
