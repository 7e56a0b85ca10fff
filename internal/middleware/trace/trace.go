// Package trace assigns request IDs and logs each request's outcome.
package trace

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	applog "timeworth/internal/log"
)

// ContextKey type for context keys
type ContextKey string

const (
	RequestIDKey ContextKey = "request_id"

	// RequestIDHeader is honoured on input and echoed on every response.
	RequestIDHeader = "X-Request-ID"
)

// Middleware handles request tracing and logging
type Middleware struct {
	logger  *applog.Logger
	metrics *Metrics
}

// Metrics tracks request metrics
type Metrics struct {
	TotalRequests  int64
	LastDurationUs int64
	ServerErrors   int64
}

func NewMiddleware(logger *applog.Logger) *Middleware {
	return &Middleware{
		logger:  logger.WithComponent(applog.ComponentHTTP),
		metrics: &Metrics{},
	}
}

// Handler returns the gin middleware. It stores a request-scoped logger in
// the request context so services log with the same request_id.
func (m *Middleware) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = GenerateRequestID()
		}
		c.Header(RequestIDHeader, requestID)

		reqLogger := m.logger.With(applog.NewFields().WithRequestID(requestID).ToSlice()...)
		ctx := context.WithValue(c.Request.Context(), RequestIDKey, requestID)
		ctx = applog.IntoContext(ctx, reqLogger)
		c.Request = c.Request.WithContext(ctx)

		atomic.AddInt64(&m.metrics.TotalRequests, 1)

		c.Next()

		duration := time.Since(start)
		atomic.StoreInt64(&m.metrics.LastDurationUs, duration.Microseconds())
		status := c.Writer.Status()
		if status >= 500 {
			atomic.AddInt64(&m.metrics.ServerErrors, 1)
		}

		applog.NewStructuredLogger(reqLogger).LogHTTPEnd(ctx, applog.HTTPRequest{
			Method:     c.Request.Method,
			Path:       c.Request.URL.Path,
			Route:      c.FullPath(),
			Query:      c.Request.URL.RawQuery,
			UserAgent:  c.Request.UserAgent(),
			ClientIP:   c.ClientIP(),
			StatusCode: status,
			DurationMs: duration.Milliseconds(),
		})
	}
}

// GenerateRequestID creates a unique request ID for tracing
func GenerateRequestID() string {
	return "req_" + uuid.NewString()
}

// GetRequestID extracts the request ID from context
func GetRequestID(ctx context.Context) string {
	if id, ok := ctx.Value(RequestIDKey).(string); ok {
		return id
	}
	return ""
}

// GetMetrics returns current metrics
func (m *Middleware) GetMetrics() Metrics {
	return Metrics{
		TotalRequests:  atomic.LoadInt64(&m.metrics.TotalRequests),
		LastDurationUs: atomic.LoadInt64(&m.metrics.LastDurationUs),
		ServerErrors:   atomic.LoadInt64(&m.metrics.ServerErrors),
	}
}
