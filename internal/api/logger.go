package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Лог запросов через zap вместо стандартного логгера gin
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		status := c.Writer.Status()
		fields := []interface{}{
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", status,
			"latency", time.Since(start),
		}

		switch {
		case status >= 500:
			zap.S().Errorw("http request", append(fields, "errors", c.Errors.String())...)
		case status >= 400:
			zap.S().Warnw("http request", fields...)
		default:
			zap.S().Debugw("http request", fields...)
		}
	}
}
