package config

import (
	"path/filepath"
	"strings"
)

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8050
	}
	if cfg.Data.Path == "" {
		cfg.Data.Path = "./data/projects.csv"
	}
	if cfg.Data.ClusterColumn == "" {
		cfg.Data.ClusterColumn = "cluster"
	}
	if cfg.Data.Table == "" && isSQLitePath(cfg.Data.Path) {
		cfg.Data.Table = "projects"
	}
	if cfg.Assets.Dir == "" {
		cfg.Assets.Dir = "./assets"
	}
	if cfg.Assets.URLPrefix == "" {
		cfg.Assets.URLPrefix = "/assets/"
	}
	if cfg.Chart.DefaultColor == "" {
		cfg.Chart.DefaultColor = "#1f77b4"
	}
	if cfg.Chart.HighlightColor == "" {
		// crimson
		cfg.Chart.HighlightColor = "#dc143c"
	}
	if cfg.Chart.Title == "" {
		cfg.Chart.Title = "Cluster sizes<br>(click a cluster to see its keywords)"
	}
	if cfg.Chart.XTitle == "" {
		cfg.Chart.XTitle = "Cluster"
	}
	if cfg.Chart.YTitle == "" {
		cfg.Chart.YTitle = "Items in cluster"
	}
	if cfg.Chart.Height == 0 {
		cfg.Chart.Height = 400
	}
	if cfg.Chart.Background == "" {
		cfg.Chart.Background = "#f9f9f9"
	}
	if cfg.Chart.FontFamily == "" {
		cfg.Chart.FontFamily = "Century Gothic"
	}
	if cfg.Page.Title == "" {
		cfg.Page.Title = "Cluster dashboard"
	}
	if cfg.Page.Heading == "" {
		cfg.Page.Heading = "Course clustering"
	}
	if cfg.Page.ImageHeading == "" {
		cfg.Page.ImageHeading = "Cluster keywords"
	}
	if cfg.Page.Lead == nil {
		cfg.Page.Lead = []string{"Each bar is one cluster; the image shows the keywords of the selected cluster."}
	}
}

func isSQLitePath(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		return true
	}
	return false
}
