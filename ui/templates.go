package ui

import (
	"bytes"
	"html/template"
	"net/http"

	"goimpact/app"
	"goimpact/domain/core"
	apperrors "goimpact/internal/errors"
	"goimpact/ui/services"

	"github.com/gin-gonic/gin"
)

const reportPage = "report.html"

var reportTemplates = template.Must(template.New(reportPage).Funcs(template.FuncMap{
	"safe": func(s string) template.HTML { return template.HTML(s) },
}).Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Report.SubgroupColumn}}: {{.Report.SubgroupValue}}</title>
</head>
<body>
<h1>Testing for {{.Report.SubgroupColumn}}: {{.Report.SubgroupValue}}</h1>
<p>run {{.RunID}} &middot; {{.GeneratedAt}}</p>
<pre>{{.View.Summary}}</pre>
{{safe .View.NarrativeHTML}}
</body>
</html>
`))

type reportPageData struct {
	*app.AnalysisEnvelope
	View services.ReportView
}

// handleReportPage renders a cached analysis as HTML
func (s *Server) handleReportPage(c *gin.Context) {
	key := core.Hash(c.Param("fingerprint"))
	cached, ok := s.cache.Get(key.String())
	if !ok {
		s.metrics.cacheLookups.WithLabelValues("miss").Inc()
		c.JSON(http.StatusNotFound, gin.H{
			"code":  apperrors.CodeNotFound,
			"error": "no cached report for fingerprint " + key.String(),
		})
		return
	}
	s.metrics.cacheLookups.WithLabelValues("hit").Inc()

	env := cached.(*app.AnalysisEnvelope)
	s.renderTemplate(c, reportPage, reportPageData{AnalysisEnvelope: env, View: s.renderer.Render(env.Report)})
}

// renderTemplate executes a template with the given data
func (s *Server) renderTemplate(c *gin.Context, templateName string, data interface{}) {
	// First render to a buffer to catch any errors before writing to response
	var buf bytes.Buffer
	if err := reportTemplates.ExecuteTemplate(&buf, templateName, data); err != nil {
		s.logger.Error("template error", "template", templateName, "error", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"code":  apperrors.CodeInternalError,
			"error": "template rendering failed",
		})
		return
	}

	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}
