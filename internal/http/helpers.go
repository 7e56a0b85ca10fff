package http

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	applog "timeworth/internal/log"
	"timeworth/internal/services"
	"timeworth/internal/storage"
)

const dateLayout = "2006-01-02"

// respondError maps service errors onto status codes. Internal failures are
// logged and hidden from the client.
func (s *Server) respondError(c *gin.Context, op string, err error) {
	ctx := c.Request.Context()
	logger := applog.FromContext(ctx)
	switch {
	case errors.Is(err, services.ErrInvalidInput):
		logger.DebugContext(ctx, "Request rejected", applog.NewFields().
			WithError(err).WithOperation(op).WithErrorType(applog.ErrorTypeValidation).ToSlice()...)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, storage.ErrNotFound):
		logger.DebugContext(ctx, "Resource not found", applog.NewFields().
			WithError(err).WithOperation(op).WithErrorType(applog.ErrorTypeNotFound).ToSlice()...)
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		applog.NewStructuredLogger(logger).LogError(ctx, "Request failed", err, op,
			applog.NewFields().WithErrorType(applog.ErrorTypeInternal))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}

// bindJSON decodes the body, answering 400 on malformed input.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		badRequest(c, fmt.Sprintf("invalid request body: %v", err))
		return false
	}
	return true
}

// queryInt reads an integer query parameter, falling back to def when absent.
func queryInt(c *gin.Context, key string, def int) (int, error) {
	v := strings.TrimSpace(c.Query(key))
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s '%s': must be an integer", key, v)
	}
	return n, nil
}

// queryFloat reads an optional float query parameter.
func queryFloat(c *gin.Context, key string) (*float64, error) {
	v := strings.TrimSpace(c.Query(key))
	if v == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s '%s': must be a number", key, v)
	}
	return &f, nil
}

// parseTime accepts YYYY-MM-DD, read in loc, or RFC 3339.
func parseTime(v string, loc *time.Location) (time.Time, error) {
	v = strings.TrimSpace(v)
	if t, err := time.ParseInLocation(dateLayout, v, loc); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, v)
}

// queryEndTime is queryTime for an inclusive upper bound: a bare date covers
// the whole day.
func (s *Server) queryEndTime(c *gin.Context, key string) (time.Time, error) {
	t, err := s.queryTime(c, key)
	if err != nil || t.IsZero() {
		return t, err
	}
	if _, err := time.ParseInLocation(dateLayout, strings.TrimSpace(c.Query(key)), s.loc); err == nil {
		return t.AddDate(0, 0, 1).Add(-time.Nanosecond), nil
	}
	return t, nil
}

func (s *Server) queryTime(c *gin.Context, key string) (time.Time, error) {
	v := c.Query(key)
	if v == "" {
		return time.Time{}, nil
	}
	t, err := parseTime(v, s.loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid %s '%s': use YYYY-MM-DD or RFC 3339", key, v)
	}
	return t, nil
}
