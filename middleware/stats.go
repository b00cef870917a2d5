package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/seo-optimizer/inspector/logging"
	"github.com/seo-optimizer/inspector/stats"
)

// PageURLKey is set by analysis handlers to the URL of the inspected page.
const PageURLKey = "page_url"

const saveEvery = 100

// Stats tracks visitors and analysis requests.
func Stats(st *stats.RequestStats, logger logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		st.TrackVisitor(c.ClientIP())

		c.Next()

		// Only track analysis requests
		if c.Request.Method != http.MethodPost {
			return
		}
		pageURL := c.GetString(PageURLKey)
		if pageURL == "" {
			return
		}
		loadTime := float64(time.Since(start).Milliseconds())
		st.TrackAnalysis(pageURL, loadTime, c.Writer.Status() >= 400)

		if st.TotalRequests()%saveEvery == 0 {
			go func() {
				if err := st.Save(); err != nil {
					logger.Error("saving request statistics failed", logging.Err(err))
				}
			}()
		}
	}
}
