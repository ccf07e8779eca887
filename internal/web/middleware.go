package web

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const ctxKeyLog = "log"

// requestLogger — id запроса + access-лог в logrus
func requestLogger(log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := uuid.NewString()
		start := time.Now()

		entry := log.WithFields(logrus.Fields{
			"http.req.path":   c.Request.URL.Path,
			"http.req.method": c.Request.Method,
			"http.req.id":     requestID,
		})
		c.Set(ctxKeyLog, entry)
		c.Header("X-Request-ID", requestID)

		entry.Debug("request started")
		c.Next()

		entry.WithFields(logrus.Fields{
			"http.resp.took_ms": time.Since(start).Milliseconds(),
			"http.resp.status":  c.Writer.Status(),
			"http.resp.bytes":   c.Writer.Size(),
		}).Debug("request complete")
	}
}

func reqLog(c *gin.Context) logrus.FieldLogger {
	if v, ok := c.Get(ctxKeyLog); ok {
		if l, ok := v.(logrus.FieldLogger); ok {
			return l
		}
	}
	return logrus.StandardLogger()
}
