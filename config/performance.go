package config

import (
	"time"

	"github.com/gin-gonic/gin"
)

const slowRequestThreshold = 200 * time.Millisecond

type requestLogger interface {
	Info(format string, args ...interface{})
	Warn(format string, args ...interface{})
}

// PerformanceLogger logs every request with its latency and flags slow ones.
func PerformanceLogger(log requestLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		latency := time.Since(start)
		log.Info("[PERF] %s %s | Status: %d | Time: %v | IP: %s",
			c.Request.Method,
			c.Request.URL.Path,
			c.Writer.Status(),
			latency,
			c.ClientIP())

		if latency > slowRequestThreshold {
			log.Warn("SLOW REQUEST: %s %s took %v", c.Request.Method, c.Request.URL.Path, latency)
		}
	}
}
