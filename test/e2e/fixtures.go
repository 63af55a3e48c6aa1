package e2e

import (
	"database/sql"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	_ "github.com/mattn/go-sqlite3"
	"github.com/xuri/excelize/v2"
)

// SupportedDatasetExtensions lists the dataset formats generated for E2E runs.
var SupportedDatasetExtensions = []string{".csv", ".tsv", ".xlsx", ".db"}

// WriteDataset writes corpus into dir as projects<ext>, storing cluster indices offset by base
// (0 or 1). For .db the rows go into table "projects".
func WriteDataset(dir, ext string, corpus *Corpus, base int) (string, error) {
	path := filepath.Join(dir, "projects"+ext)
	label := func(it Item) int { return it.Cluster - 1 + base }
	switch ext {
	case ".csv", ".tsv":
		sep := ","
		if ext == ".tsv" {
			sep = "\t"
		}
		var b strings.Builder
		b.WriteString("title" + sep + "cluster\n")
		for _, it := range corpus.Items {
			b.WriteString(it.Title + sep + strconv.Itoa(label(it)) + "\n")
		}
		return path, os.WriteFile(path, []byte(b.String()), 0600)
	case ".xlsx":
		f := excelize.NewFile()
		defer f.Close()
		sheet := f.GetSheetName(0)
		_ = f.SetCellValue(sheet, "A1", "title")
		_ = f.SetCellValue(sheet, "B1", "cluster")
		for i, it := range corpus.Items {
			_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", i+2), it.Title)
			_ = f.SetCellValue(sheet, fmt.Sprintf("B%d", i+2), label(it))
		}
		return path, f.SaveAs(path)
	case ".db":
		db, err := sql.Open("sqlite3", path)
		if err != nil {
			return "", err
		}
		defer db.Close()
		if _, err := db.Exec(`CREATE TABLE projects (title TEXT, cluster INTEGER)`); err != nil {
			return "", err
		}
		for _, it := range corpus.Items {
			if _, err := db.Exec(`INSERT INTO projects (title, cluster) VALUES (?, ?)`, it.Title, label(it)); err != nil {
				return "", err
			}
		}
		return path, nil
	}
	return "", fmt.Errorf("unsupported dataset extension %s", ext)
}

// WriteAssets writes a small PNG named cluster_<i>.png for every i in clusters.
func WriteAssets(dir string, clusters []int) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	for _, i := range clusters {
		img := image.NewRGBA(image.Rect(0, 0, 8, 8))
		img.Set(0, 0, color.RGBA{R: uint8(i * 16), A: 255})
		f, err := os.Create(filepath.Join(dir, fmt.Sprintf("cluster_%d.png", i)))
		if err != nil {
			return err
		}
		if err := png.Encode(f, img); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
	}
	return nil
}
