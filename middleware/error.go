// Package middleware holds the gin middleware shared by the API routes.
package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"github.com/seo-optimizer/inspector/logging"
)

// ErrorHandler middleware recovers from any panics and handles errors
func ErrorHandler(logger logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				logger.Error("panic recovered",
					logging.String("panic", fmt.Sprint(err)),
					logging.String("path", c.Request.URL.Path),
					logging.String("request_id", c.GetString(RequestIDKey)),
					logging.String("stack", string(debug.Stack())))

				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"error": "An unexpected error occurred",
				})
			}
		}()

		c.Next()

		// errors attached by handlers via c.Error
		if len(c.Errors) > 0 {
			logger.Warn("request failed",
				logging.String("path", c.Request.URL.Path),
				logging.Int("status", c.Writer.Status()),
				logging.String("request_id", c.GetString(RequestIDKey)),
				logging.String("errors", c.Errors.String()))
		}
	}
}

// CORS allows the extension and any origin to call the API.
func CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With, X-Request-ID")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
