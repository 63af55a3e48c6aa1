package models

import (
	"testing"
)

func TestClusterCountTable(t *testing.T) {
	counts := []int{4, 0, 7}
	table := NewClusterCountTable(counts)
	counts[0] = 100 // table must hold its own copy

	if table.K() != 3 {
		t.Fatalf("K() = %d, want 3", table.K())
	}
	if table.Total() != 11 {
		t.Errorf("Total() = %d, want 11", table.Total())
	}
	if c, ok := table.Count(1); !ok || c != 4 {
		t.Errorf("Count(1) = %d, %v; want 4, true", c, ok)
	}
	if c, ok := table.Count(2); !ok || c != 0 {
		t.Errorf("Count(2) = %d, %v; want 0, true", c, ok)
	}
	for _, i := range []int{0, 4, -1} {
		if _, ok := table.Count(i); ok {
			t.Errorf("Count(%d) should be out of range", i)
		}
	}
	got := table.Counts()
	for i, cc := range got {
		if cc.Cluster != i+1 {
			t.Errorf("Counts()[%d].Cluster = %d, want %d", i, cc.Cluster, i+1)
		}
	}
	resp := table.Response()
	if resp.Total != 11 || len(resp.Clusters) != 3 || resp.Clusters[2].Count != 7 {
		t.Errorf("Response() = %+v", resp)
	}
}
