package httpapi

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
)

const (
	headerRequestID = "X-Request-Id"
	ctxKeyRequestID = "request_id"
)

// RequestID assigns a ULID to every request and echoes it back so
// clients can correlate logs with responses.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(headerRequestID)
		if id == "" {
			id = ulid.Make().String()
		}
		c.Set(ctxKeyRequestID, id)
		c.Writer.Header().Set(headerRequestID, id)
		c.Next()
	}
}

// RequestLogger logs one line per request with latency and status,
// escalating severity for client and server errors.
func RequestLogger(log *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		fields := []any{
			"method", c.Request.Method,
			"path", path,
			"status", status,
			"duration_ms", time.Since(start).Milliseconds(),
			"request_id", c.GetString(ctxKeyRequestID),
		}
		switch {
		case status >= http.StatusInternalServerError:
			log.Errorw("http request", fields...)
		case status >= http.StatusBadRequest:
			log.Warnw("http request", fields...)
		default:
			log.Infow("http request", fields...)
		}
	}
}

// Recovery converts panics into the standard error body instead of
// gin's default empty 500.
func Recovery(log *zap.SugaredLogger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		log.Errorw("panic recovered",
			"error", fmt.Sprint(recovered),
			"request_id", c.GetString(ctxKeyRequestID),
		)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":   "internal error",
			"details": fmt.Sprint(recovered),
		})
	})
}

// CORS allows the configured browser origins to call the API and read
// the session and request ID headers.
func CORS(origins []string) gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowOrigins:  origins,
		AllowMethods:  []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Content-Type", headerSessionID, headerRequestID},
		ExposeHeaders: []string{headerSessionID, headerRequestID},
		MaxAge:        12 * time.Hour,
	})
}
