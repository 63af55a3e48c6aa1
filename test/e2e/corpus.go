// Package e2e provides end-to-end tests that serve generated datasets in every supported format.
package e2e

import "fmt"

// Item is one clustered row in the E2E corpus.
type Item struct {
	Title   string
	Cluster int // 1-based
}

// Corpus holds clustered items and the expected per-cluster counts.
type Corpus struct {
	Items  []Item
	Counts []int // Counts[i-1] is the size of cluster i
}

// K returns the number of clusters.
func (c *Corpus) K() int { return len(c.Counts) }

// BuildCorpus returns k clusters of varied size. Cluster 3 always holds 7 items and the last
// cluster holds none, so empty clusters are exercised too.
func BuildCorpus(k int) *Corpus {
	c := &Corpus{Counts: make([]int, k)}
	for cluster := 1; cluster <= k; cluster++ {
		n := 1 + (cluster*7)%5
		switch {
		case cluster == 3:
			n = 7
		case cluster == k:
			n = 0
		}
		c.Counts[cluster-1] = n
		for i := 0; i < n; i++ {
			c.Items = append(c.Items, Item{
				Title:   fmt.Sprintf("Course %02d-%d", cluster, i),
				Cluster: cluster,
			})
		}
	}
	// Interleave so rows are not grouped by cluster.
	for i := 0; i+2 < len(c.Items); i += 3 {
		c.Items[i], c.Items[i+2] = c.Items[i+2], c.Items[i]
	}
	return c
}
