package ui

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"goimpact/adapters/excel"
	"goimpact/app"
	"goimpact/domain/core"
	"goimpact/domain/impact"
	"goimpact/internal/config"
	apperrors "goimpact/internal/errors"
	"goimpact/ui/services"

	"github.com/gin-gonic/gin"
)

type analysisRequest struct {
	Config  *impact.AnalysisConfig `json:"config"`
	Columns []string               `json:"columns"`
	Records []impact.RawRecord     `json:"records"`
}

type analysisResponse struct {
	*app.AnalysisEnvelope
	Cached bool                `json:"cached"`
	View   services.ReportView `json:"view"`
}

type valuesRequest struct {
	Column  string             `json:"column"`
	Columns []string           `json:"columns"`
	Records []impact.RawRecord `json:"records"`
}

type valuesResponse struct {
	Column string   `json:"column"`
	Values []string `json:"values"`
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// handleAnalyze runs one analysis on records posted as JSON
func (s *Server) handleAnalyze(c *gin.Context) {
	const endpoint = "analyses"

	var req analysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.writeError(c, endpoint, apperrors.InvalidInput("invalid request body: "+err.Error()))
		return
	}
	if req.Config == nil {
		s.writeError(c, endpoint, apperrors.InvalidInput("config is required"))
		return
	}

	s.analyze(c, endpoint, impact.NewTable(req.Columns, req.Records), *req.Config)
}

// handleUpload runs one analysis on an uploaded CSV or XLSX file. The config
// form field holds either a JSON config or a YAML analysis document.
func (s *Server) handleUpload(c *gin.Context) {
	const endpoint = "upload"
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.maxUploadBytes)

	fh, err := c.FormFile("file")
	if err != nil {
		s.writeError(c, endpoint, apperrors.InvalidInput("file is required: "+err.Error()))
		return
	}

	cfg, err := parseUploadConfig(c.PostForm("config"))
	if err != nil {
		s.writeError(c, endpoint, err)
		return
	}

	f, err := fh.Open()
	if err != nil {
		s.writeError(c, endpoint, core.WrapDataError(fh.Filename, err))
		return
	}
	defer f.Close()

	table, err := excel.ReadFrom(f, fh.Filename)
	if err != nil {
		s.writeError(c, endpoint, err)
		return
	}

	s.analyze(c, endpoint, table, cfg)
}

func (s *Server) handleValues(c *gin.Context) {
	const endpoint = "values"

	var req valuesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.writeError(c, endpoint, apperrors.InvalidInput("invalid request body: "+err.Error()))
		return
	}
	if req.Column == "" {
		s.writeError(c, endpoint, apperrors.InvalidInput("column is required"))
		return
	}

	values, err := impact.DistinctValues(impact.NewTable(req.Columns, req.Records), req.Column)
	if err != nil {
		s.writeError(c, endpoint, err)
		return
	}
	if values == nil {
		values = []string{}
	}
	c.JSON(http.StatusOK, valuesResponse{Column: req.Column, Values: values})
}

// analyze serves a cached envelope for an identical input, otherwise runs
// the analysis and caches the envelope under the input fingerprint.
func (s *Server) analyze(c *gin.Context, endpoint string, table impact.Table, cfg impact.AnalysisConfig) {
	start := time.Now()
	defer func() {
		s.metrics.analysisDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	}()

	key, err := core.Fingerprint(cfg, table.Columns, table.Rows())
	if err != nil {
		s.writeError(c, endpoint, apperrors.Wrap(err, "failed to fingerprint input"))
		return
	}

	if cached, ok := s.cache.Get(key.String()); ok {
		s.metrics.cacheLookups.WithLabelValues("hit").Inc()
		s.metrics.analysesTotal.WithLabelValues(endpoint, "OK").Inc()
		env := cached.(*app.AnalysisEnvelope)
		c.JSON(http.StatusOK, analysisResponse{AnalysisEnvelope: env, Cached: true, View: s.renderer.Render(env.Report)})
		return
	}
	s.metrics.cacheLookups.WithLabelValues("miss").Inc()

	env, err := s.service.Run(c.Request.Context(), table, cfg)
	if err != nil {
		s.writeError(c, endpoint, err)
		return
	}
	s.cache.SetDefault(key.String(), env)

	s.metrics.analysesTotal.WithLabelValues(endpoint, "OK").Inc()
	s.metrics.verdictsTotal.WithLabelValues(string(env.Report.Significance), string(env.Report.FourFifths)).Inc()
	c.JSON(http.StatusOK, analysisResponse{AnalysisEnvelope: env, View: s.renderer.Render(env.Report)})
}

func (s *Server) writeError(c *gin.Context, endpoint string, err error) {
	appErr := apperrors.FromDomain(err)
	s.metrics.analysesTotal.WithLabelValues(endpoint, appErr.Code).Inc()
	_ = c.Error(err)
	c.JSON(apperrors.HTTPStatus(appErr.Code), gin.H{
		"code":  appErr.Code,
		"error": appErr.Error(),
	})
}

func parseUploadConfig(text string) (impact.AnalysisConfig, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return impact.AnalysisConfig{}, apperrors.InvalidInput("config is required")
	}

	if strings.HasPrefix(text, "{") {
		var cfg impact.AnalysisConfig
		if err := json.Unmarshal([]byte(text), &cfg); err != nil {
			return impact.AnalysisConfig{}, apperrors.InvalidInput("invalid config JSON: " + err.Error())
		}
		return cfg, nil
	}

	doc, err := config.ParseDocument([]byte(text))
	if err != nil {
		return impact.AnalysisConfig{}, err
	}
	return doc.AnalysisConfig()
}
