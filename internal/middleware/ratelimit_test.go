package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/labmedia/related-videos/internal/middleware"
)

func newRateLimitedRouter(maxRequests int, window time.Duration, done <-chan struct{}) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(middleware.RateLimiter(maxRequests, window, done))
	router.POST("/videos/:id/click", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true})
	})
	return router
}

func doClick(router *gin.Engine, remoteAddr string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/videos/v/click", nil)
	req.RemoteAddr = remoteAddr
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRateLimiter_AllowsUnderLimit(t *testing.T) {
	done := make(chan struct{})
	defer close(done)

	router := newRateLimitedRouter(3, time.Minute, done)

	for i := 0; i < 3; i++ {
		if w := doClick(router, "10.0.0.1:1234"); w.Code != http.StatusOK {
			t.Fatalf("Request %d: expected status 200, got %d", i+1, w.Code)
		}
	}
}

func TestRateLimiter_BlocksOverLimit(t *testing.T) {
	done := make(chan struct{})
	defer close(done)

	router := newRateLimitedRouter(2, time.Minute, done)

	doClick(router, "10.0.0.1:1234")
	doClick(router, "10.0.0.1:1234")

	if w := doClick(router, "10.0.0.1:1234"); w.Code != http.StatusTooManyRequests {
		t.Fatalf("Expected status 429, got %d", w.Code)
	}
}

func TestRateLimiter_TracksIPsIndependently(t *testing.T) {
	done := make(chan struct{})
	defer close(done)

	router := newRateLimitedRouter(1, time.Minute, done)

	doClick(router, "10.0.0.1:1234")
	if w := doClick(router, "10.0.0.1:5678"); w.Code != http.StatusTooManyRequests {
		t.Fatalf("Expected same IP on a different port to be limited, got %d", w.Code)
	}

	if w := doClick(router, "10.0.0.2:1234"); w.Code != http.StatusOK {
		t.Fatalf("Expected different IP to be allowed, got %d", w.Code)
	}
}

func TestRateLimiter_ResetsAfterWindow(t *testing.T) {
	done := make(chan struct{})
	defer close(done)

	router := newRateLimitedRouter(1, 50*time.Millisecond, done)

	doClick(router, "10.0.0.1:1234")
	if w := doClick(router, "10.0.0.1:1234"); w.Code != http.StatusTooManyRequests {
		t.Fatalf("Expected status 429 inside the window, got %d", w.Code)
	}

	time.Sleep(60 * time.Millisecond)

	if w := doClick(router, "10.0.0.1:1234"); w.Code != http.StatusOK {
		t.Fatalf("Expected status 200 after the window expired, got %d", w.Code)
	}
}
