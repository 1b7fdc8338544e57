package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"storagemanager/pkg/logger"
)

// Logger middleware writes one entry per request.
// 5xx responses are logged at error level, 4xx at warn.
func Logger(log *logger.Logger) gin.HandlerFunc {
	if log == nil {
		log = logger.NewNop()
	}
	log = log.WithComponent("http")

	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		status := c.Writer.Status()
		entry := log.WithContext(c.Request.Context())
		kv := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"query", c.Request.URL.RawQuery,
			"status", status,
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		}
		if len(c.Errors) > 0 {
			kv = append(kv, "error", c.Errors.Last().Error())
		}

		switch {
		case status >= http.StatusInternalServerError:
			entry.Errorw("http request", kv...)
		case status >= http.StatusBadRequest:
			entry.Warnw("http request", kv...)
		default:
			entry.Infow("http request", kv...)
		}
	}
}
