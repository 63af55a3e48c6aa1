// Package assets names the pre-rendered word-cloud images and tracks which of them exist.
package assets

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/hyperjump/clusterboard/internal/watcher"
	"go.uber.org/zap"
)

// FileName returns the word-cloud file name for cluster i.
func FileName(i int) string {
	return fmt.Sprintf("cluster_%d.png", i)
}

// URL joins the public asset prefix and the file name of cluster i.
func URL(prefix string, i int) string {
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return prefix + FileName(i)
}

var fileNamePattern = regexp.MustCompile(`^cluster_([1-9][0-9]*)\.png$`)

// ClusterOf returns the cluster index named by an asset file name.
func ClusterOf(name string) (int, bool) {
	m := fileNamePattern.FindStringSubmatch(filepath.Base(name))
	if m == nil {
		return 0, false
	}
	i, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return i, true
}

// Catalog records which cluster assets are present in a directory.
// It never reads image content.
type Catalog struct {
	dir     string
	mu      sync.RWMutex
	present map[int]bool
	watch   *watcher.Watcher
	logger  *zap.Logger
}

// NewCatalog returns an empty catalog for dir. Call Scan or Watch to fill it.
func NewCatalog(dir string, logger *zap.Logger) *Catalog {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Catalog{dir: dir, present: make(map[int]bool), logger: logger}
}

// Dir returns the asset directory.
func (c *Catalog) Dir() string {
	return c.dir
}

// Scan records every cluster asset currently in the directory.
func (c *Catalog) Scan() error {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return fmt.Errorf("scan assets: %w", err)
	}
	present := make(map[int]bool)
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if i, ok := ClusterOf(e.Name()); ok {
			present[i] = true
		}
	}
	c.mu.Lock()
	c.present = present
	c.mu.Unlock()
	return nil
}

// Watch fills the catalog from the directory and keeps it current until ctx is cancelled
// or Close is called. Files are listed after the watch starts so none is missed in between.
func (c *Catalog) Watch(ctx context.Context) error {
	w := watcher.NewWatcher(c.dir, []string{".png"}, c.markPresent, c.markRemoved, watcher.WithLogger(c.logger))
	if err := w.Start(ctx); err != nil {
		return fmt.Errorf("watch assets: %w", err)
	}
	if err := w.SyncExisting(); err != nil {
		w.Stop()
		return fmt.Errorf("scan assets: %w", err)
	}
	c.mu.Lock()
	c.watch = w
	c.mu.Unlock()
	return nil
}

// Close stops watching.
func (c *Catalog) Close() {
	c.mu.Lock()
	w := c.watch
	c.watch = nil
	c.mu.Unlock()
	if w != nil {
		w.Stop()
	}
}

func (c *Catalog) markPresent(path string) {
	i, ok := ClusterOf(path)
	if !ok {
		return
	}
	c.mu.Lock()
	c.present[i] = true
	c.mu.Unlock()
	c.logger.Debug("asset available", zap.Int("cluster", i), zap.String("path", path))
}

func (c *Catalog) markRemoved(path string) {
	i, ok := ClusterOf(path)
	if !ok {
		return
	}
	c.mu.Lock()
	delete(c.present, i)
	c.mu.Unlock()
	c.logger.Warn("asset removed", zap.Int("cluster", i), zap.String("path", path))
}

// Has reports whether the asset of cluster i is present.
func (c *Catalog) Has(i int) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.present[i]
}

// Missing returns the clusters in 1..k without an asset, ascending.
func (c *Catalog) Missing(k int) []int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	missing := []int{}
	for i := 1; i <= k; i++ {
		if !c.present[i] {
			missing = append(missing, i)
		}
	}
	return missing
}
