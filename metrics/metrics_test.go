package metrics

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.ObserveAnalysis("signals", time.Millisecond, nil)
	m.CacheLookup("signals", true)
	m.ProbeOutcome("/robots.txt", "present")
}

func TestCounters(t *testing.T) {
	m := New()

	m.ObserveAnalysis("keywords", 10*time.Millisecond, nil)
	m.ObserveAnalysis("keywords", 10*time.Millisecond, errors.New("x"))
	m.CacheLookup("keywords", true)
	m.CacheLookup("keywords", false)
	m.CacheLookup("keywords", false)
	m.ProbeOutcome("/sitemap.xml", "absent")

	assert.InDelta(t, 1, testutil.ToFloat64(m.analyses.WithLabelValues("keywords", "ok")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.analyses.WithLabelValues("keywords", "error")), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(m.cacheLookups.WithLabelValues("keywords", "miss")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.probeOutcomes.WithLabelValues("/sitemap.xml", "absent")), 0)
}

func TestMiddlewareAndHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := New()

	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/api/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/metrics", gin.WrapH(m.Handler()))

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/health", nil))
	assert.InDelta(t, 1, testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "/api/health", "200")), 0)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)

	body, err := io.ReadAll(w.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "seo_inspector_http_requests_total")
}
