// Package api exposes the analysis engines and the tab session over HTTP.
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/seo-optimizer/inspector/analyzer"
	"github.com/seo-optimizer/inspector/keywords"
	"github.com/seo-optimizer/inspector/logging"
	"github.com/seo-optimizer/inspector/metrics"
	"github.com/seo-optimizer/inspector/middleware"
	"github.com/seo-optimizer/inspector/session"
	"github.com/seo-optimizer/inspector/stats"
)

// Deps are the collaborators the server routes to. Metrics, Requests, Storage
// and Limiter are optional.
type Deps struct {
	Analyzer *analyzer.Service
	Keywords *keywords.Engine
	Session  *session.Session
	Requests *stats.RequestStats
	Storage  *stats.Storage
	Metrics  *metrics.Metrics
	Limiter  *middleware.RateLimiter
	Logger   logging.Logger
	DevMode  bool
}

// Server holds the HTTP handlers.
type Server struct {
	analyzer *analyzer.Service
	keywords *keywords.Engine
	session  *session.Session
	requests *stats.RequestStats
	storage  *stats.Storage
	metrics  *metrics.Metrics
	limiter  *middleware.RateLimiter
	logger   logging.Logger
	devMode  bool
}

// New creates a Server.
func New(d Deps) *Server {
	logger := d.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Server{
		analyzer: d.Analyzer,
		keywords: d.Keywords,
		session:  d.Session,
		requests: d.Requests,
		storage:  d.Storage,
		metrics:  d.Metrics,
		limiter:  d.Limiter,
		logger:   logger.With(logging.String("component", "api")),
		devMode:  d.DevMode,
	}
}

// Router builds the gin engine with middleware and routes.
func (s *Server) Router() *gin.Engine {
	r := gin.New()

	r.Use(middleware.RequestID())
	r.Use(middleware.ErrorHandler(s.logger))
	r.Use(middleware.CORS())
	r.Use(s.metrics.Middleware())
	if s.requests != nil {
		r.Use(middleware.Stats(s.requests, s.logger))
	}

	if s.metrics != nil {
		r.GET("/metrics", gin.WrapH(s.metrics.Handler()))
	}

	api := r.Group("/api")
	if s.limiter != nil {
		api.Use(s.limiter.RateLimit())
	}
	{
		api.GET("/health", s.health)

		api.POST("/analyze", s.analyze)
		api.POST("/keywords", s.analyzeKeywords)
		api.GET("/analysis", s.cachedAnalysis)
		api.DELETE("/cache", s.clearCache)

		api.GET("/session", s.sessionStatus)
		api.POST("/session/navigate", s.sessionNavigate)
		api.POST("/session/run", s.sessionRun)
		api.POST("/session/message", s.sessionMessage)

		api.GET("/statistics", s.statistics)
	}

	return r
}

func (s *Server) health(c *gin.Context) {
	s.logger.Debug("health check", logging.String("client_ip", c.ClientIP()))
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}
