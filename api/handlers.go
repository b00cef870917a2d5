package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/seo-optimizer/inspector/analyzer"
	"github.com/seo-optimizer/inspector/keywords"
	"github.com/seo-optimizer/inspector/logging"
	"github.com/seo-optimizer/inspector/middleware"
	"github.com/seo-optimizer/inspector/session"
)

type pageRequest struct {
	URL   string `json:"url" binding:"required,url"`
	HTML  string `json:"html"`
	Force bool   `json:"force"`
}

// cachedAnalysis is the response of GET /api/analysis.
type cachedAnalysis struct {
	Report   *analyzer.Report   `json:"report,omitempty"`
	Keywords *keywords.Analysis `json:"keywords,omitempty"`
}

// abort records err on the context and writes the JSON error body.
func abort(c *gin.Context, status int, msg string, err error) {
	if err != nil {
		_ = c.Error(err)
	}
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}

// failureStatus maps analysis errors to HTTP status codes. Anything that is
// not a caller error is a failure to load the page.
func failureStatus(err error) int {
	switch {
	case errors.Is(err, analyzer.ErrNoURL), errors.Is(err, keywords.ErrNoURL):
		return http.StatusBadRequest
	case errors.Is(err, session.ErrNoURL):
		return http.StatusConflict
	default:
		return http.StatusBadGateway
	}
}

func (s *Server) analyze(c *gin.Context) {
	var req pageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, http.StatusBadRequest, "Invalid URL provided", err)
		return
	}
	c.Set(middleware.PageURLKey, req.URL)

	snap, err := s.analyzer.Analyze(c.Request.Context(), analyzer.Request{
		URL:   req.URL,
		HTML:  req.HTML,
		Force: req.Force,
	})
	if err != nil {
		abort(c, failureStatus(err), "Failed to analyze URL: "+err.Error(), err)
		return
	}

	c.JSON(http.StatusOK, analyzer.NewReport(snap))
}

func (s *Server) analyzeKeywords(c *gin.Context) {
	var req pageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, http.StatusBadRequest, "Invalid URL provided", err)
		return
	}
	c.Set(middleware.PageURLKey, req.URL)

	a, err := s.keywords.Analyze(c.Request.Context(), keywords.Request{
		URL:   req.URL,
		HTML:  req.HTML,
		Force: req.Force,
	})
	if err != nil {
		abort(c, failureStatus(err), "Failed to analyze keywords: "+err.Error(), err)
		return
	}

	c.JSON(http.StatusOK, a)
}

func (s *Server) cachedAnalysis(c *gin.Context) {
	url := c.Query("url")
	if url == "" {
		abort(c, http.StatusBadRequest, "url query parameter is required", nil)
		return
	}

	var out cachedAnalysis
	if snap, ok := s.analyzer.Cached(url); ok {
		report := analyzer.NewReport(snap)
		out.Report = &report
	}
	if a, ok := s.keywords.Cached(url); ok {
		out.Keywords = a
	}
	if out.Report == nil && out.Keywords == nil {
		abort(c, http.StatusNotFound, "No cached analysis for this URL", nil)
		return
	}

	c.JSON(http.StatusOK, out)
}

func (s *Server) clearCache(c *gin.Context) {
	url := c.Query("url")
	if url == "" {
		s.analyzer.ClearCache()
		s.keywords.ClearCache()
		s.logger.Info("caches cleared")
		c.JSON(http.StatusOK, gin.H{"cleared": "all"})
		return
	}

	s.analyzer.ClearCache(url)
	s.keywords.ClearCache(url)
	s.logger.Info("cache entry cleared", logging.String("url", url))
	c.JSON(http.StatusOK, gin.H{"cleared": url})
}

func (s *Server) sessionStatus(c *gin.Context) {
	c.JSON(http.StatusOK, s.session.Status())
}

func (s *Server) sessionNavigate(c *gin.Context) {
	var req struct {
		URL string `json:"url" binding:"required,url"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, http.StatusBadRequest, "Invalid URL provided", err)
		return
	}

	s.session.Navigate(req.URL)
	c.JSON(http.StatusOK, s.session.Status())
}

func (s *Server) sessionRun(c *gin.Context) {
	var req struct {
		HTML  string `json:"html"`
		Force bool   `json:"force"`
	}
	// the body is optional
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		abort(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	c.Set(middleware.PageURLKey, s.session.Status().URL)

	if _, err := s.session.Run(c.Request.Context(), req.HTML, req.Force); err != nil {
		abort(c, failureStatus(err), err.Error(), err)
		return
	}

	c.JSON(http.StatusOK, s.session.Status())
}

func (s *Server) sessionMessage(c *gin.Context) {
	var req struct {
		Type string `json:"type" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, http.StatusBadRequest, "message type is required", err)
		return
	}

	visible, err := s.session.HandleMessage(req.Type)
	if err != nil {
		abort(c, http.StatusBadRequest, err.Error(), err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"panelVisible": visible})
}

func (s *Server) statistics(c *gin.Context) {
	out := gin.H{}
	if s.requests != nil {
		for k, v := range s.requests.Summary(s.devMode) {
			out[k] = v
		}
	}
	out["cache"] = gin.H{
		"snapshots": s.analyzer.GetCacheStats(),
		"keywords":  s.keywords.CacheLen(),
	}
	if s.storage != nil && s.devMode {
		out["months"] = s.storage.GetAllMonths()
	}
	c.JSON(http.StatusOK, out)
}
