package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ttc-bicumbi/portal/internal/service"
)

// probePaths are left out of request metrics.
var probePaths = map[string]struct{}{
	"/health":  {},
	"/ready":   {},
	"/metrics": {},
}

// Metrics records latency and status per route template. Requests that match
// no route share the "unmatched" label.
func Metrics(metrics *service.MetricsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		route := c.FullPath()
		if _, probe := probePaths[route]; probe || metrics == nil {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		if route == "" {
			route = "unmatched"
		}
		metrics.ObserveHTTPRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
