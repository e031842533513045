package ui

import (
	"net/http"
	"time"

	"goimpact/app"
	"goimpact/internal"
	"goimpact/ui/services"

	"github.com/gin-gonic/gin"
	gocache "github.com/patrickmn/go-cache"
)

// Options configures the HTTP server
type Options struct {
	GinMode        string
	CacheTTL       time.Duration
	MaxUploadBytes int64
	Logger         *internal.Logger
}

// Server hosts the analysis API
type Server struct {
	router   *gin.Engine
	service  *app.AnalysisService
	renderer *services.RenderService
	cache    *gocache.Cache
	metrics  *Metrics
	logger   *internal.Logger

	maxUploadBytes int64
}

// NewServer creates a new web server instance with routes registered
func NewServer(service *app.AnalysisService, opts Options) *Server {
	if opts.GinMode != "" {
		gin.SetMode(opts.GinMode)
	}
	if opts.Logger == nil {
		opts.Logger = internal.NewDefaultLogger()
	}
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = 32 << 20
	}

	s := &Server{
		router:         gin.New(),
		service:        service,
		renderer:       services.NewRenderService(),
		cache:          gocache.New(opts.CacheTTL, 2*opts.CacheTTL),
		metrics:        NewMetrics(),
		logger:         opts.Logger,
		maxUploadBytes: opts.MaxUploadBytes,
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.GET("/healthz", s.handleHealth)
	s.router.GET("/metrics", gin.WrapH(s.metrics.Handler()))
	s.router.GET("/reports/:fingerprint", s.handleReportPage)

	api := s.router.Group("/api/v1")
	api.POST("/analyses", s.handleAnalyze)
	api.POST("/analyses/upload", s.handleUpload)
	api.POST("/datasets/values", s.handleValues)
}

// Handler exposes the router, e.g. for httptest
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start begins serving on addr
func (s *Server) Start(addr string) error {
	s.logger.Info("server listening", "addr", addr)
	return s.router.Run(addr)
}
