// Package main is the clusterboard CLI entry point.
package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/hyperjump/clusterboard/internal/assets"
	"github.com/hyperjump/clusterboard/internal/chart"
	"github.com/hyperjump/clusterboard/internal/cli"
	"github.com/hyperjump/clusterboard/internal/config"
	"github.com/hyperjump/clusterboard/internal/dataset"
	"github.com/hyperjump/clusterboard/internal/interaction"
	"github.com/hyperjump/clusterboard/internal/metrics"
	"github.com/hyperjump/clusterboard/internal/models"
	"github.com/hyperjump/clusterboard/internal/server"
	"github.com/hyperjump/clusterboard/pkg/utils"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
)

var version = "dev"

const defaultConfigPath = "/usr/local/etc/clusterboard/config.yaml"

// loadConfig loads config from path. When path is the default and config.yaml exists in the
// current directory, that file is used instead. Returns the config and the path actually loaded.
func loadConfig(path string) (*config.Config, string, error) {
	if path == defaultConfigPath {
		if cwd, cwdErr := os.Getwd(); cwdErr == nil {
			fallback := filepath.Join(cwd, "config.yaml")
			if _, statErr := os.Stat(fallback); statErr == nil {
				cfg, loadErr := config.Load(fallback)
				if loadErr != nil {
					return nil, "", loadErr
				}
				return cfg, fallback, nil
			}
		}
		// No config anywhere: run on defaults.
		if _, statErr := os.Stat(path); errors.Is(statErr, os.ErrNotExist) {
			cfg := &config.Config{}
			config.ApplyDefaults(cfg)
			return cfg, "", cfg.Validate()
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	command := os.Args[1]
	switch command {
	case "server":
		runServer()
	case "counts":
		runCounts()
	case "render":
		runRender()
	case "version", "--version", "-v":
		fmt.Printf("clusterboard version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func runServer() {
	fs := flag.NewFlagSet("server", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging (selections, asset changes, requests)")
	_ = fs.Parse(os.Args[2:])

	cfg, resolvedConfigPath, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	debugMode := cfg.Debug || *debug
	logger, err := utils.NewLogger(debugMode)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("config loaded",
		zap.String("config_path", resolvedConfigPath),
		zap.Bool("debug", debugMode),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	table, err := loadTable(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to load dataset", zap.Error(err))
	}
	figure, err := chart.NewFigure(table, chart.StyleFromConfig(&cfg.Chart))
	if err != nil {
		logger.Fatal("Failed to build chart", zap.Error(err))
	}

	catalog := assets.NewCatalog(cfg.Assets.Dir, logger)
	if cfg.Assets.WatchOrDefault() {
		err = catalog.Watch(ctx)
	} else {
		err = catalog.Scan()
	}
	if err != nil {
		logger.Warn("asset directory unavailable", zap.String("dir", cfg.Assets.Dir), zap.Error(err))
	}
	defer catalog.Close()
	if missing := catalog.Missing(table.K()); len(missing) > 0 {
		logger.Warn("clusters without images", zap.Ints("clusters", missing))
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	handler := interaction.NewHandler(cfg.Assets.URLPrefix, cfg.Chart.DefaultColor, cfg.Chart.HighlightColor,
		interaction.WithObserver(metrics.NewSelections(registry)),
		interaction.WithLogger(logger),
	)

	srv := server.NewServer(table, figure, handler, catalog, cfg, registry, logger)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	_ = srv.Stop(shutdownCtx)
}

func runCounts() {
	fs := flag.NewFlagSet("counts", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	dataPath := fs.String("data", "", "dataset path (overrides data.path)")
	output := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])

	format, err := cli.ParseOutputFormat(*output)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *dataPath != "" {
		cfg.Data.Path = *dataPath
		config.ApplyDefaults(cfg)
	}
	table, err := loadTable(context.Background(), cfg, zap.NewNop())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load dataset: %v\n", err)
		os.Exit(1)
	}
	if err := cli.WriteCounts(os.Stdout, table, format); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write counts: %v\n", err)
		os.Exit(1)
	}
	catalog := assets.NewCatalog(cfg.Assets.Dir, zap.NewNop())
	if err := catalog.Scan(); err == nil {
		cli.WriteMissingAssets(os.Stderr, catalog.Missing(table.K()))
	}
}

func runRender() {
	fs := flag.NewFlagSet("render", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	selected := fs.Int("selected", chart.DefaultSelection, "cluster to highlight")
	out := fs.String("out", "clusters.png", "output PNG file (- for stdout)")
	_ = fs.Parse(os.Args[2:])

	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	table, err := loadTable(context.Background(), cfg, zap.NewNop())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load dataset: %v\n", err)
		os.Exit(1)
	}
	var buf bytes.Buffer
	if err := renderChart(&buf, cfg, table, *selected); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to render chart: %v\n", err)
		os.Exit(1)
	}
	if *out == "-" {
		_, err = buf.WriteTo(os.Stdout)
	} else {
		err = os.WriteFile(*out, buf.Bytes(), 0644)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write chart: %v\n", err)
		os.Exit(1)
	}
}

func loadTable(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*models.ClusterCountTable, error) {
	loader := dataset.NewLoader(dataset.OptionsFromConfig(&cfg.Data), logger)
	return loader.Load(ctx, cfg.Data.Path)
}

// renderChart writes the bar chart with selected highlighted as PNG.
func renderChart(w io.Writer, cfg *config.Config, table *models.ClusterCountTable, selected int) error {
	figure, err := chart.NewFigure(table, chart.StyleFromConfig(&cfg.Chart))
	if err != nil {
		return err
	}
	handler := interaction.NewHandler(cfg.Assets.URLPrefix, cfg.Chart.DefaultColor, cfg.Chart.HighlightColor)
	res, err := handler.OnClusterSelect(interaction.Select(selected), figure)
	if err != nil {
		return err
	}
	return chart.RenderPNG(w, *res.Figure)
}

func printUsage() {
	fmt.Println(`clusterboard - Interactive cluster size dashboard

Usage:
  clusterboard server [flags]     Start the dashboard server
  clusterboard counts [flags]     Print items per cluster
  clusterboard render [flags]     Write the bar chart as PNG
  clusterboard version            Show version
  clusterboard help               Show this help

Server Flags:
  --config string    Config file path (default: /usr/local/etc/clusterboard/config.yaml, or ./config.yaml)
  --debug            Enable debug logging

Counts Flags:
  --config string    Config file path
  --data string      Dataset path (.csv, .tsv, .xlsx, .db); overrides data.path
  --output string    Output format: text or json (default: text)

Render Flags:
  --config string    Config file path
  --selected int     Cluster to highlight (default: 1)
  --out string       Output file, or - for stdout (default: clusters.png)

Examples:
  clusterboard server
  clusterboard counts --data projects.csv --output json
  clusterboard render --selected 3 --out cluster3.png`)
}
