package middleware

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/txtpresence/pkg/api"
)

// testClock управляемое время для токен-бакета
type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time { return c.now }

func (c *testClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestLimiter(t *testing.T, rate float64, burst int) (*RateLimiter, *testClock) {
	t.Helper()
	clock := &testClock{now: time.Unix(1_700_000_000, 0)}
	limiter := NewRateLimiter(rate, burst, slog.New(slog.NewTextHandler(io.Discard, nil)))
	limiter.now = clock.Now
	t.Cleanup(limiter.Stop)
	return limiter, clock
}

func TestRateLimiter_Allow(t *testing.T) {
	t.Run("Burst requests are allowed", func(t *testing.T) {
		limiter, _ := newTestLimiter(t, 1, 5)

		for i := 0; i < 5; i++ {
			assert.True(t, limiter.Allow("192.168.1.1"), "request %d should be allowed", i+1)
		}
		assert.False(t, limiter.Allow("192.168.1.1"), "request over burst should be denied")
	})

	t.Run("Different keys are tracked separately", func(t *testing.T) {
		limiter, _ := newTestLimiter(t, 1, 2)

		assert.True(t, limiter.Allow("10.0.0.1"))
		assert.True(t, limiter.Allow("10.0.0.1"))
		assert.False(t, limiter.Allow("10.0.0.1"))

		assert.True(t, limiter.Allow("10.0.0.2"))
		assert.True(t, limiter.Allow("10.0.0.2"))
		assert.False(t, limiter.Allow("10.0.0.2"))
	})

	t.Run("Tokens refill proportionally to elapsed time", func(t *testing.T) {
		limiter, clock := newTestLimiter(t, 2, 2)

		assert.True(t, limiter.Allow("k"))
		assert.True(t, limiter.Allow("k"))
		assert.False(t, limiter.Allow("k"))

		// 2 токена в секунду: через 500ms появляется ровно один
		clock.Advance(500 * time.Millisecond)
		assert.True(t, limiter.Allow("k"))
		assert.False(t, limiter.Allow("k"))

		// Пополнение не превышает burst
		clock.Advance(time.Hour)
		assert.True(t, limiter.Allow("k"))
		assert.True(t, limiter.Allow("k"))
		assert.False(t, limiter.Allow("k"))
	})
}

func TestRateLimiter_CleanupOldBuckets(t *testing.T) {
	limiter, clock := newTestLimiter(t, 1, 1)

	limiter.Allow("old")
	clock.Advance(2 * time.Minute)
	limiter.Allow("fresh")

	limiter.cleanupOldBuckets()

	limiter.mu.Lock()
	defer limiter.mu.Unlock()
	assert.NotContains(t, limiter.buckets, "old")
	assert.Contains(t, limiter.buckets, "fresh")
}

func TestRateLimitMiddleware(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	limiter, _ := newTestLimiter(t, 1, 2)

	handler := RateLimitMiddleware(limiter, logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))

	send := func(remoteAddr string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/documents", nil)
		req.RemoteAddr = remoteAddr
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		return w
	}

	// Разные порты одного хоста делят общий лимит
	assert.Equal(t, http.StatusCreated, send("192.168.1.1:1000").Code)
	assert.Equal(t, http.StatusCreated, send("192.168.1.1:1001").Code)

	w := send("192.168.1.1:1002")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var resp api.ErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "Too Many Requests", resp.Error)

	assert.Equal(t, http.StatusCreated, send("192.168.1.2:1000").Code)
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		headers    map[string]string
		name       string
		remoteAddr string
		expected   string
	}{
		{
			name:       "RemoteAddr without headers",
			remoteAddr: "192.168.1.1:12345",
			expected:   "192.168.1.1",
		},
		{
			name:       "RemoteAddr without port",
			remoteAddr: "192.168.1.1",
			expected:   "192.168.1.1",
		},
		{
			name:       "X-Forwarded-For single IP",
			remoteAddr: "10.0.0.1:12345",
			headers:    map[string]string{"X-Forwarded-For": "203.0.113.1"},
			expected:   "203.0.113.1",
		},
		{
			name:       "X-Forwarded-For chain",
			remoteAddr: "10.0.0.1:12345",
			headers:    map[string]string{"X-Forwarded-For": "203.0.113.1, 198.51.100.1"},
			expected:   "203.0.113.1",
		},
		{
			name:       "X-Real-IP",
			remoteAddr: "10.0.0.1:12345",
			headers:    map[string]string{"X-Real-IP": "203.0.113.5"},
			expected:   "203.0.113.5",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			assert.Equal(t, tt.expected, getClientIP(req))
		})
	}
}
