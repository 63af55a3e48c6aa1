package e2e

import (
	"context"
	"testing"

	"github.com/hyperjump/clusterboard/internal/dataset"
)

func TestBuildCorpus(t *testing.T) {
	c := BuildCorpus(15)
	if c.K() != 15 {
		t.Fatalf("K = %d", c.K())
	}
	sum := 0
	for _, n := range c.Counts {
		sum += n
	}
	if sum != len(c.Items) {
		t.Errorf("sum of counts %d != items %d", sum, len(c.Items))
	}
	if c.Counts[2] != 7 || c.Counts[14] != 0 {
		t.Errorf("counts = %v", c.Counts)
	}
}

func TestWriteDataset_AllFormatsLoad(t *testing.T) {
	corpus := BuildCorpus(15)
	for _, ext := range SupportedDatasetExtensions {
		for _, base := range []int{0, 1} {
			t.Run(ext, func(t *testing.T) {
				path, err := WriteDataset(t.TempDir(), ext, corpus, base)
				if err != nil {
					t.Fatalf("WriteDataset: %v", err)
				}
				opts := dataset.Options{ClusterBase: base, Clusters: corpus.K()}
				if ext == ".db" {
					opts.Table = "projects"
				}
				table, err := dataset.NewLoader(opts, nil).Load(context.Background(), path)
				if err != nil {
					t.Fatalf("Load (base %d): %v", base, err)
				}
				for i, want := range corpus.Counts {
					if got, _ := table.Count(i + 1); got != want {
						t.Errorf("base %d: count[%d] = %d, want %d", base, i+1, got, want)
					}
				}
			})
		}
	}
}
