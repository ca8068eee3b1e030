package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"retail-ledger/internal/config"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func okHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func serve(e *echo.Echo, h echo.HandlerFunc, remoteAddr string) (*httptest.ResponseRecorder, error) {
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.RemoteAddr = remoteAddr
	rec := httptest.NewRecorder()
	err := h(e.NewContext(req, rec))
	return rec, err
}

func TestRateLimiter_BurstThenLimited(t *testing.T) {
	e := echo.New()
	rl := NewRateLimiter(config.RateLimitConfig{RequestsPerSecond: 1, Burst: 4})
	handler := rl.Middleware()(okHandler)

	for i := 0; i < 4; i++ {
		rec, err := serve(e, handler, "192.168.1.2:12345")
		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)
	}

	// Rate limiter uses SendError which sends response and returns nil
	rec, err := serve(e, handler, "192.168.1.2:12345")
	assert.NoError(t, err)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Contains(t, rec.Body.String(), "SYSTEM_006")
}

func TestRateLimiter_DifferentIPs(t *testing.T) {
	e := echo.New()
	rl := NewRateLimiter(config.RateLimitConfig{RequestsPerSecond: 1, Burst: 5})
	handler := rl.Middleware()(okHandler)

	for _, ip := range []string{"192.168.1.1:1234", "192.168.1.2:1234", "192.168.1.3:1234"} {
		for i := 0; i < 5; i++ {
			rec, err := serve(e, handler, ip)
			assert.NoError(t, err, "Request %d for IP %s should succeed", i, ip)
			assert.Equal(t, http.StatusOK, rec.Code)
		}
	}
	assert.Equal(t, 3, rl.size())
}

func TestGetIP(t *testing.T) {
	tests := []struct {
		name       string
		headers    map[string]string
		remoteAddr string
		expected   string
	}{
		{
			name:       "X-Forwarded-For header",
			headers:    map[string]string{"X-Forwarded-For": "192.168.1.1"},
			remoteAddr: "127.0.0.1:12345",
			expected:   "192.168.1.1",
		},
		{
			name:       "X-Forwarded-For chain uses client hop",
			headers:    map[string]string{"X-Forwarded-For": "203.0.113.7, 10.0.0.1"},
			remoteAddr: "127.0.0.1:12345",
			expected:   "203.0.113.7",
		},
		{
			name:       "X-Real-IP header",
			headers:    map[string]string{"X-Real-IP": "192.168.1.2"},
			remoteAddr: "127.0.0.1:12345",
			expected:   "192.168.1.2",
		},
		{
			name: "X-Forwarded-For takes precedence",
			headers: map[string]string{
				"X-Forwarded-For": "192.168.1.1",
				"X-Real-IP":       "192.168.1.2",
			},
			remoteAddr: "127.0.0.1:12345",
			expected:   "192.168.1.1",
		},
		{
			name:       "Falls back to RealIP",
			headers:    map[string]string{},
			remoteAddr: "192.168.1.3:12345",
			expected:   "192.168.1.3",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			req.RemoteAddr = tt.remoteAddr

			c := e.NewContext(req, httptest.NewRecorder())
			assert.Equal(t, tt.expected, getIP(c))
		})
	}
}

func TestRateLimiter_Cleanup(t *testing.T) {
	rl := NewRateLimiter(config.RateLimitConfig{RequestsPerSecond: 5, Burst: 10})
	now := time.Now()

	rl.limiter("old_ip", now.Add(-5*time.Minute))
	rl.limiter("new_ip", now)

	rl.cleanup(now)

	assert.Equal(t, 1, rl.size())
	_, newExists := rl.visitors["new_ip"]
	assert.True(t, newExists, "New visitor should still exist")
}

func TestRateLimiter_RunStopsOnCancel(t *testing.T) {
	rl := NewRateLimiter(config.RateLimitConfig{RequestsPerSecond: 5, Burst: 10})
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		rl.Run(ctx)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestRateLimiter_Concurrency(t *testing.T) {
	e := echo.New()
	rl := NewRateLimiter(config.RateLimitConfig{RequestsPerSecond: 1, Burst: 10})
	handler := rl.Middleware()(okHandler)

	var wg sync.WaitGroup
	var mu sync.Mutex
	successCount := 0
	rateLimitCount := 0

	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			rec, err := serve(e, handler, "192.168.1.100:12345")

			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				switch rec.Code {
				case http.StatusOK:
					successCount++
				case http.StatusTooManyRequests:
					rateLimitCount++
				}
			}
		}()
	}

	wg.Wait()

	assert.GreaterOrEqual(t, successCount, 10)
	assert.Greater(t, rateLimitCount, 0)
	assert.Equal(t, 20, successCount+rateLimitCount)
}
