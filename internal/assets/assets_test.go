package assets

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestFileNameAndURL(t *testing.T) {
	if got := FileName(3); got != "cluster_3.png" {
		t.Errorf("FileName(3) = %s", got)
	}
	tests := []struct {
		prefix string
		i      int
		want   string
	}{
		{"/assets/", 1, "/assets/cluster_1.png"},
		{"/assets", 15, "/assets/cluster_15.png"},
		{"https://cdn.example.com/wc/", 3, "https://cdn.example.com/wc/cluster_3.png"},
	}
	for _, tt := range tests {
		if got := URL(tt.prefix, tt.i); got != tt.want {
			t.Errorf("URL(%q, %d) = %s, want %s", tt.prefix, tt.i, got, tt.want)
		}
	}
}

func TestClusterOf(t *testing.T) {
	tests := []struct {
		name   string
		want   int
		wantOK bool
	}{
		{"cluster_1.png", 1, true},
		{"/srv/assets/cluster_15.png", 15, true},
		{"cluster_0.png", 0, false},
		{"cluster_01.png", 0, false},
		{"cluster_1.jpg", 0, false},
		{"logo.png", 0, false},
	}
	for _, tt := range tests {
		got, ok := ClusterOf(tt.name)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("ClusterOf(%q) = %d, %v; want %d, %v", tt.name, got, ok, tt.want, tt.wantOK)
		}
	}
}

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.WriteFile(path, []byte("png"), 0600); err != nil {
		t.Fatal(err)
	}
}

func TestCatalog_ScanAndMissing(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"cluster_1.png", "cluster_3.png", "readme.txt"} {
		touch(t, filepath.Join(dir, name))
	}
	c := NewCatalog(dir, zap.NewNop())
	if err := c.Scan(); err != nil {
		t.Fatal(err)
	}
	if !c.Has(1) || c.Has(2) || !c.Has(3) {
		t.Errorf("Has: 1=%v 2=%v 3=%v", c.Has(1), c.Has(2), c.Has(3))
	}
	if got := c.Missing(4); !reflect.DeepEqual(got, []int{2, 4}) {
		t.Errorf("Missing(4) = %v, want [2 4]", got)
	}
	if got := c.Missing(0); len(got) != 0 {
		t.Errorf("Missing(0) = %v, want empty", got)
	}
}

func TestCatalog_ScanMissingDir(t *testing.T) {
	c := NewCatalog(filepath.Join(t.TempDir(), "nope"), nil)
	if err := c.Scan(); err == nil {
		t.Error("expected error for missing directory")
	}
}

func TestCatalog_Watch(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "cluster_1.png"))
	c := NewCatalog(dir, zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := c.Watch(ctx); err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	touch(t, filepath.Join(dir, "cluster_2.png"))
	if err := os.Remove(filepath.Join(dir, "cluster_1.png")); err != nil {
		t.Fatal(err)
	}

	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if c.Has(2) && !c.Has(1) {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Errorf("catalog not updated: has(1)=%v has(2)=%v", c.Has(1), c.Has(2))
}

func TestCatalog_WatchFillsFromExistingFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"cluster_1.png", "cluster_4.png", "notes.txt", "cluster_x.png"} {
		touch(t, filepath.Join(dir, name))
	}
	c := NewCatalog(dir, zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := c.Watch(ctx); err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	if got := c.Missing(4); !reflect.DeepEqual(got, []int{2, 3}) {
		t.Errorf("Missing(4) right after Watch = %v, want [2 3]", got)
	}
}

func TestCatalog_WatchMissingDir(t *testing.T) {
	c := NewCatalog(filepath.Join(t.TempDir(), "nope"), nil)
	if err := c.Watch(context.Background()); err == nil {
		t.Error("expected error for missing directory")
	}
	c.Close()
}
