package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hyperjump/clusterboard/internal/assets"
	"github.com/hyperjump/clusterboard/internal/chart"
	"github.com/hyperjump/clusterboard/internal/config"
	"github.com/hyperjump/clusterboard/internal/dataset"
	"github.com/hyperjump/clusterboard/internal/interaction"
	"github.com/hyperjump/clusterboard/internal/metrics"
	"github.com/hyperjump/clusterboard/internal/models"
	"github.com/hyperjump/clusterboard/internal/server"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

const e2eClusters = 15

type selectResponse struct {
	ImageSrc string        `json:"image_src"`
	Figure   *chart.Figure `json:"figure"`
	NoUpdate bool          `json:"no_update"`
}

// startDashboard wires a full server for a dataset of the given format and returns its URL.
func startDashboard(t *testing.T, ext string, corpus *Corpus) string {
	t.Helper()
	dir := t.TempDir()
	base := 0
	dataPath, err := WriteDataset(dir, ext, corpus, base)
	if err != nil {
		t.Fatal(err)
	}
	all := make([]int, corpus.K())
	for i := range all {
		all[i] = i + 1
	}
	assetDir := filepath.Join(dir, "assets")
	if err := WriteAssets(assetDir, all); err != nil {
		t.Fatal(err)
	}

	cfg := &config.Config{
		Data:   config.DataConfig{Path: dataPath, ClusterBase: &base, Clusters: corpus.K()},
		Assets: config.AssetsConfig{Dir: assetDir},
	}
	config.ApplyDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		t.Fatal(err)
	}

	logger := zap.NewNop()
	table, err := dataset.NewLoader(dataset.OptionsFromConfig(&cfg.Data), logger).Load(context.Background(), cfg.Data.Path)
	if err != nil {
		t.Fatal(err)
	}
	fig, err := chart.NewFigure(table, chart.StyleFromConfig(&cfg.Chart))
	if err != nil {
		t.Fatal(err)
	}
	catalog := assets.NewCatalog(cfg.Assets.Dir, logger)
	if err := catalog.Scan(); err != nil {
		t.Fatal(err)
	}
	reg := prometheus.NewRegistry()
	handler := interaction.NewHandler(cfg.Assets.URLPrefix, cfg.Chart.DefaultColor, cfg.Chart.HighlightColor,
		interaction.WithObserver(metrics.NewSelections(reg)), interaction.WithLogger(logger))
	srv := server.NewServer(table, fig, handler, catalog, cfg, reg, logger)

	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return ts.URL
}

func getJSON(t *testing.T, url string, out interface{}) int {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode %s: %v", url, err)
		}
	}
	return resp.StatusCode
}

func postSelect(t *testing.T, baseURL, body string) (int, selectResponse) {
	t.Helper()
	resp, err := http.Post(baseURL+"/api/v1/select", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var out selectResponse
	if resp.StatusCode == http.StatusOK {
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			t.Fatal(err)
		}
	}
	return resp.StatusCode, out
}

func TestE2E_EveryFormat(t *testing.T) {
	corpus := BuildCorpus(e2eClusters)
	for _, ext := range SupportedDatasetExtensions {
		t.Run(ext, func(t *testing.T) {
			baseURL := startDashboard(t, ext, corpus)

			var counts models.ClusterCountsResponse
			if status := getJSON(t, baseURL+"/api/v1/clusters", &counts); status != http.StatusOK {
				t.Fatalf("clusters: status %d", status)
			}
			if len(counts.Clusters) != corpus.K() || counts.Total != len(corpus.Items) {
				t.Fatalf("clusters: got %d clusters / %d items", len(counts.Clusters), counts.Total)
			}
			for i, cc := range counts.Clusters {
				if cc.Cluster != i+1 || cc.Count != corpus.Counts[i] {
					t.Errorf("cluster %d: got %+v, want count %d", i+1, cc, corpus.Counts[i])
				}
			}

			status, initial := postSelect(t, baseURL, "null")
			if status != http.StatusOK || initial.ImageSrc != "/assets/cluster_1.png" || !initial.NoUpdate {
				t.Errorf("initial: status %d, %+v", status, initial)
			}

			for i := 1; i <= corpus.K(); i++ {
				status, res := postSelect(t, baseURL, fmt.Sprintf(`{"points":[{"label":%d}]}`, i))
				if status != http.StatusOK {
					t.Fatalf("select %d: status %d", i, status)
				}
				if res.Figure == nil {
					t.Fatalf("select %d: no figure", i)
				}
				hl := res.Figure.MarkerColors().Highlighted("#dc143c")
				if len(hl) != 1 || hl[0] != i {
					t.Errorf("select %d: highlighted %v", i, hl)
				}
				img, err := http.Get(baseURL + res.ImageSrc)
				if err != nil {
					t.Fatal(err)
				}
				_, _ = io.Copy(io.Discard, img.Body)
				img.Body.Close()
				if img.StatusCode != http.StatusOK {
					t.Errorf("select %d: image %s status %d", i, res.ImageSrc, img.StatusCode)
				}
			}

			if status, _ := postSelect(t, baseURL, fmt.Sprintf(`{"points":[{"label":%d}]}`, corpus.K()+1)); status != http.StatusUnprocessableEntity {
				t.Errorf("out of range: status %d, want 422", status)
			}
		})
	}
}

func TestE2E_HealthAndMetrics(t *testing.T) {
	corpus := BuildCorpus(e2eClusters)
	baseURL := startDashboard(t, ".csv", corpus)

	var health struct {
		Status        string `json:"status"`
		Clusters      int    `json:"clusters"`
		MissingAssets []int  `json:"missing_assets"`
	}
	if status := getJSON(t, baseURL+"/health", &health); status != http.StatusOK {
		t.Fatalf("health: status %d", status)
	}
	if health.Status != "ok" || health.Clusters != e2eClusters || len(health.MissingAssets) != 0 {
		t.Errorf("health: %+v", health)
	}

	postSelect(t, baseURL, `{"points":[{"label":3}]}`)
	postSelect(t, baseURL, `{"points":[{"label":99}]}`)

	resp, err := http.Get(baseURL + "/metrics")
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	_, _ = buf.ReadFrom(resp.Body)
	resp.Body.Close()
	for _, want := range []string{
		`clusterboard_selections_total{outcome="selected"} 1`,
		`clusterboard_selections_total{outcome="invalid"} 1`,
	} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("metrics missing %q", want)
		}
	}
}

func TestE2E_ChartPNG(t *testing.T) {
	baseURL := startDashboard(t, ".xlsx", BuildCorpus(e2eClusters))
	resp, err := http.Get(baseURL + "/api/v1/chart.png?selected=3")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK || resp.Header.Get("Content-Type") != "image/png" {
		t.Errorf("chart.png: status %d, type %s", resp.StatusCode, resp.Header.Get("Content-Type"))
	}
}
