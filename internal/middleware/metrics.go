package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/schoolhub-io/schoolhub-api/internal/service"
)

// Metrics records request duration and status for every route.
func Metrics(metrics *service.MetricsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.ObserveHTTPRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
