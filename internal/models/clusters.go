// Package models defines core data structures for cluster counts and click events.
package models

// ClusterCount is the number of items assigned to one cluster.
type ClusterCount struct {
	Cluster int `json:"cluster"`
	Count   int `json:"count"`
}

// ClusterCountTable maps cluster indices 1..K to item counts.
// It is built once and never mutated afterwards.
type ClusterCountTable struct {
	counts []int
	total  int
}

// NewClusterCountTable returns a table where counts[0] is the count of cluster 1.
// The slice is copied.
func NewClusterCountTable(counts []int) *ClusterCountTable {
	t := &ClusterCountTable{counts: append([]int(nil), counts...)}
	for _, c := range t.counts {
		t.total += c
	}
	return t
}

// K returns the number of clusters.
func (t *ClusterCountTable) K() int {
	return len(t.counts)
}

// Total returns the number of items across all clusters.
func (t *ClusterCountTable) Total() int {
	return t.total
}

// Count returns the item count of cluster i (1-based). ok is false when i is outside 1..K.
func (t *ClusterCountTable) Count(i int) (count int, ok bool) {
	if i < 1 || i > len(t.counts) {
		return 0, false
	}
	return t.counts[i-1], true
}

// Counts returns the table as a slice sorted by cluster index ascending.
func (t *ClusterCountTable) Counts() []ClusterCount {
	out := make([]ClusterCount, len(t.counts))
	for i, c := range t.counts {
		out[i] = ClusterCount{Cluster: i + 1, Count: c}
	}
	return out
}

// ClusterCountsResponse is the API shape of a ClusterCountTable.
type ClusterCountsResponse struct {
	Clusters []ClusterCount `json:"clusters"`
	Total    int            `json:"total"`
}

// Response returns the table in its API shape.
func (t *ClusterCountTable) Response() *ClusterCountsResponse {
	return &ClusterCountsResponse{Clusters: t.Counts(), Total: t.total}
}
