package trace

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	applog "timeworth/internal/log"
)

func TestMiddlewareAssignsRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var buf bytes.Buffer
	mw := NewMiddleware(applog.New(applog.Config{Output: &buf}))

	var seen string
	r := gin.New()
	r.Use(mw.Handler())
	r.GET("/ping", func(c *gin.Context) {
		seen = GetRequestID(c.Request.Context())
		c.Status(http.StatusNoContent)
	})
	r.GET("/fail", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	if seen == "" || !strings.HasPrefix(seen, "req_") || w.Header().Get(RequestIDHeader) != seen {
		t.Fatalf("request id %q not propagated (header %q)", seen, w.Header().Get(RequestIDHeader))
	}
	if !strings.Contains(buf.String(), "request_id="+seen) || !strings.Contains(buf.String(), "route=/ping") {
		t.Fatalf("completion log missing fields: %q", buf.String())
	}

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(RequestIDHeader, "upstream-1")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if seen != "upstream-1" {
		t.Fatalf("incoming request id should be kept, got %q", seen)
	}

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/fail", nil))
	m := mw.GetMetrics()
	if m.TotalRequests != 3 || m.ServerErrors != 1 {
		t.Fatalf("unexpected metrics %+v", m)
	}
}
