package middleware

import (
	"strconv"
	"time"

	"shareit/internal/pkg/metrics"

	"github.com/gin-gonic/gin"
)

// MetricsMiddleware records request counts and latency. The route
// template (c.FullPath) keeps the label cardinality bounded.
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		metrics.ObserveHTTP(
			c.Request.Method,
			path,
			strconv.Itoa(c.Writer.Status()),
			time.Since(start).Seconds(),
		)
	}
}
