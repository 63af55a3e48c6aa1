// Package config provides configuration loading and structs for the clusterboard server.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application.
type Config struct {
	Debug  bool         `yaml:"debug"`
	Server ServerConfig `yaml:"server"`
	Data   DataConfig   `yaml:"data"`
	Assets AssetsConfig `yaml:"assets"`
	Chart  ChartConfig  `yaml:"chart"`
	Page   PageConfig   `yaml:"page"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// DataConfig describes the clustered dataset read at startup.
type DataConfig struct {
	Path          string `yaml:"path"`
	ClusterColumn string `yaml:"cluster_column"`
	// ClusterBase is the value stored for the first cluster (0 or 1).
	ClusterBase *int `yaml:"cluster_base"`
	// Clusters is K; 0 means infer from the largest cluster in the data.
	Clusters int    `yaml:"clusters"`
	Sheet    string `yaml:"sheet"`
	Table    string `yaml:"table"`
}

// BaseOrDefault returns the cluster index base; defaults to 1 when unset.
func (d *DataConfig) BaseOrDefault() int {
	if d.ClusterBase != nil {
		return *d.ClusterBase
	}
	return 1
}

// AssetsConfig holds the word-cloud asset directory settings.
type AssetsConfig struct {
	Dir       string `yaml:"dir"`
	URLPrefix string `yaml:"url_prefix"`
	Watch     *bool  `yaml:"watch"`
}

// WatchOrDefault returns whether to watch the asset directory; defaults to true when unset.
func (a *AssetsConfig) WatchOrDefault() bool {
	if a.Watch != nil {
		return *a.Watch
	}
	return true
}

// ChartConfig holds the bar chart appearance.
type ChartConfig struct {
	DefaultColor   string  `yaml:"default_color"`
	HighlightColor string  `yaml:"highlight_color"`
	Title          string  `yaml:"title"`
	XTitle         string  `yaml:"x_title"`
	YTitle         string  `yaml:"y_title"`
	Height         int     `yaml:"height"`
	YMin           float64 `yaml:"y_min"`
	YMax           float64 `yaml:"y_max"`
	Background     string  `yaml:"background"`
	FontFamily     string  `yaml:"font_family"`
}

// PageConfig holds the dashboard page texts. ImageHeading is shown above the word-cloud image.
type PageConfig struct {
	Title        string   `yaml:"title"`
	Heading      string   `yaml:"heading"`
	Lead         []string `yaml:"lead"`
	ImageHeading string   `yaml:"image_heading"`
}

var (
	hexColor   = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)
	identifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
)

// Load reads and parses the config file at path, expands paths, applies defaults and validates.
// Returns an error if the file cannot be read or parsed, or if a value is invalid.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	ApplyDefaults(&cfg)

	configDir := filepath.Dir(path)
	cfg.Data.Path = expandPath(cfg.Data.Path, configDir)
	cfg.Assets.Dir = expandPath(cfg.Assets.Dir, configDir)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that defaults cannot repair.
func (c *Config) Validate() error {
	if base := c.Data.BaseOrDefault(); base != 0 && base != 1 {
		return fmt.Errorf("invalid config: data.cluster_base must be 0 or 1, got %d", base)
	}
	if c.Data.Clusters < 0 {
		return fmt.Errorf("invalid config: data.clusters must not be negative, got %d", c.Data.Clusters)
	}
	if c.Data.Table != "" && !identifier.MatchString(c.Data.ClusterColumn) {
		return fmt.Errorf("invalid config: data.cluster_column %q is not a plain identifier", c.Data.ClusterColumn)
	}
	if c.Data.Table != "" && !identifier.MatchString(c.Data.Table) {
		return fmt.Errorf("invalid config: data.table %q is not a plain identifier", c.Data.Table)
	}
	for name, v := range map[string]string{
		"chart.default_color":   c.Chart.DefaultColor,
		"chart.highlight_color": c.Chart.HighlightColor,
		"chart.background":      c.Chart.Background,
	} {
		if !hexColor.MatchString(v) {
			return fmt.Errorf("invalid config: %s must be #rrggbb, got %q", name, v)
		}
	}
	if strings.EqualFold(c.Chart.DefaultColor, c.Chart.HighlightColor) {
		return fmt.Errorf("invalid config: chart.highlight_color must differ from chart.default_color")
	}
	if c.Chart.YMax != 0 && c.Chart.YMax <= c.Chart.YMin {
		return fmt.Errorf("invalid config: chart.y_max must be greater than chart.y_min")
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid config: server.port out of range: %d", c.Server.Port)
	}
	return nil
}

// expandPath converts a path to absolute. Paths starting with "./" are relative to configDir;
// other relative paths are relative to the home directory.
func expandPath(path string, configDir string) string {
	if filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "./") || path == "." {
		return filepath.Join(configDir, path)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, path)
	}
	return path
}
