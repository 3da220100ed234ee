package api

import (
	"log/slog"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/your-org/lpr/internal/auth"
	"github.com/your-org/lpr/internal/observability"
)

// LoggingMiddleware logs each request with slog and records its duration.
// When the caller is authenticated, the log line carries the username so
// audit questions can be answered from request logs alone.
func LoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		duration := time.Since(start)
		status := c.Writer.Status()

		attrs := []any{
			"method", c.Request.Method,
			"path", path,
			"status", status,
			"duration", duration.String(),
			"bytes", c.Writer.Size(),
			"ip", c.ClientIP(),
		}
		if ident, ok := auth.IdentityFrom(c); ok {
			attrs = append(attrs, "user", ident.Username)
		}
		slog.Info("request", attrs...)

		// Metrics are labelled by route pattern, not the raw path, to keep
		// label cardinality bounded for parameterised routes.
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		observability.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			route,
			strconv.Itoa(status),
		).Observe(duration.Seconds())
	}
}
