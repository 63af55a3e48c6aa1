package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"html/template"
	"io"
	"net/http"
	"strconv"

	"github.com/hyperjump/clusterboard/internal/assets"
	"github.com/hyperjump/clusterboard/internal/chart"
	"github.com/hyperjump/clusterboard/internal/interaction"
	"github.com/hyperjump/clusterboard/internal/models"
	"go.uber.org/zap"
)

const maxEventBytes = 64 << 10

type selectResponse struct {
	ImageSrc string        `json:"image_src"`
	Figure   *chart.Figure `json:"figure,omitempty"`
	NoUpdate bool          `json:"no_update,omitempty"`
}

type pageData struct {
	Title     string
	Heading   string
	ImageHead string
	Lead      []string
	Figure    template.JS
	ImageSrc  string
	SelectURL string
	ChartURL  string
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	fig, err := json.Marshal(s.figure)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	data := pageData{
		Title:     s.config.Page.Title,
		Heading:   s.config.Page.Heading,
		ImageHead: s.config.Page.ImageHeading,
		Lead:      s.config.Page.Lead,
		Figure:    template.JS(fig),
		ImageSrc:  assets.URL(s.config.Assets.URLPrefix, chart.DefaultSelection),
		SelectURL: "/api/v1/select",
		ChartURL:  "/api/v1/chart.png",
	}
	var buf bytes.Buffer
	if err := s.page.Execute(&buf, data); err != nil {
		s.logger.Error("render page failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, "failed to render page")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

func (s *Server) handleClusters(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, s.table.Response())
}

func (s *Server) handleFigure(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, s.figure)
}

// handleSelect implements the click contract: the body is the chart's click data
// ({"points":[{"label":i}]}), or null/empty before any click.
func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxEventBytes))
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	var event *models.ClickEvent
	if len(bytes.TrimSpace(body)) > 0 {
		if err := json.Unmarshal(body, &event); err != nil {
			s.respondError(w, http.StatusBadRequest, "invalid click event: "+err.Error())
			return
		}
	}
	cluster, ok, err := event.Cluster()
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	sel := interaction.NoSelection()
	if ok {
		sel = interaction.Select(cluster)
	}
	s.logger.Debug("select request", zap.Int("cluster", cluster), zap.Bool("clicked", ok))

	res, err := s.handler.OnClusterSelect(sel, s.figure)
	if err != nil {
		s.respondSelectionError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, selectResponse{ImageSrc: res.ImageURL, Figure: res.Figure, NoUpdate: res.NoUpdate})
}

func (s *Server) handleChartPNG(w http.ResponseWriter, r *http.Request) {
	selected := chart.DefaultSelection
	if v := r.URL.Query().Get("selected"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			s.respondError(w, http.StatusBadRequest, "selected must be an integer")
			return
		}
		selected = n
	}
	fig, err := s.highlighted(selected)
	if err != nil {
		s.respondSelectionError(w, err)
		return
	}
	var buf bytes.Buffer
	if err := chart.RenderPNG(&buf, fig); err != nil {
		s.logger.Error("chart render failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=300")
	_, _ = buf.WriteTo(w)
}

// highlighted recolors the base figure for the chart image. It bypasses the selection
// handler so image fetches are not counted as clicks.
func (s *Server) highlighted(selected int) (chart.Figure, error) {
	k := s.figure.K()
	if selected < 1 || selected > k {
		return chart.Figure{}, &interaction.InvalidSelectionError{Cluster: selected, K: k}
	}
	colors, err := chart.NewColorVector(k, selected, s.config.Chart.DefaultColor, s.config.Chart.HighlightColor)
	if err != nil {
		return chart.Figure{}, err
	}
	return s.figure.WithMarkerColors(colors)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := map[string]interface{}{
		"status":   "ok",
		"clusters": s.table.K(),
		"items":    s.table.Total(),
	}
	if s.catalog != nil {
		resp["missing_assets"] = s.catalog.Missing(s.table.K())
	}
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) respondSelectionError(w http.ResponseWriter, err error) {
	var invalid *interaction.InvalidSelectionError
	if errors.As(err, &invalid) {
		s.logger.Warn("invalid selection", zap.Int("cluster", invalid.Cluster), zap.Int("clusters", invalid.K))
		s.respondJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
			"error":    err.Error(),
			"cluster":  invalid.Cluster,
			"clusters": invalid.K,
		})
		return
	}
	s.logger.Error("selection failed", zap.Error(err))
	s.respondError(w, http.StatusInternalServerError, err.Error())
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
