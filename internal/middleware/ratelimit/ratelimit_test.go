package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func TestLimiterWindow(t *testing.T) {
	rl := NewLimiter(Config{RequestsPerMinute: 2})
	defer rl.Stop()
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	for i := 0; i < 2; i++ {
		if ok, _ := rl.Allow("1.1.1.1"); !ok {
			t.Fatalf("request %d should pass", i)
		}
	}
	ok, retry := rl.Allow("1.1.1.1")
	if ok || retry != time.Minute {
		t.Fatalf("third request should be refused for a minute, got %v %v", ok, retry)
	}
	if ok, _ := rl.Allow("2.2.2.2"); !ok {
		t.Fatalf("other clients are independent")
	}

	now = now.Add(61 * time.Second)
	if ok, _ := rl.Allow("1.1.1.1"); !ok {
		t.Fatalf("window should reset")
	}
	rl.cleanupStaleEntries()
	if rl.ActiveClients() != 1 || rl.Rejected() != 1 {
		t.Fatalf("clients=%d rejected=%d", rl.ActiveClients(), rl.Rejected())
	}
}

func TestLimiterHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rl := NewLimiter(Config{RequestsPerMinute: 1})
	defer rl.Stop()

	r := gin.New()
	r.Use(rl.Handler())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("first request: %d", w.Code)
	}
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Code != http.StatusTooManyRequests || w.Header().Get("Retry-After") == "" {
		t.Fatalf("second request: %d retry=%q", w.Code, w.Header().Get("Retry-After"))
	}
}
