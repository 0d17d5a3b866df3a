package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sfs-platform/feedback-api/internal/service"
)

// Metrics times each request and records it against its route template,
// keeping label cardinality bounded. Unmatched requests fall back to
// the raw path. A nil service disables capture.
func Metrics(metricsSvc *service.MetricsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if metricsSvc == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		metricsSvc.ObserveHTTPRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
