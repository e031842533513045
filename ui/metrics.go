package ui

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the server's prometheus collectors. Each server owns its
// registry so several servers can coexist in one process.
type Metrics struct {
	registry *prometheus.Registry

	analysesTotal    *prometheus.CounterVec
	analysisDuration *prometheus.HistogramVec
	verdictsTotal    *prometheus.CounterVec
	cacheLookups     *prometheus.CounterVec
}

// NewMetrics registers the analysis collectors on a fresh registry
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		analysesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "goimpact_analyses_total",
			Help: "Total analysis requests by endpoint and result code",
		}, []string{"endpoint", "code"}),
		analysisDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "goimpact_analysis_duration_seconds",
			Help:    "Analysis latency in seconds",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 14),
		}, []string{"endpoint"}),
		verdictsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "goimpact_verdicts_total",
			Help: "Completed analyses by significance and four-fifths verdict",
		}, []string{"significance", "four_fifths"}),
		cacheLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "goimpact_report_cache_lookups_total",
			Help: "Report cache lookups by result",
		}, []string{"result"}),
	}
}

// Handler serves the registry in the prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
