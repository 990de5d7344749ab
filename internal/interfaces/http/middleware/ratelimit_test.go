package middleware

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newTestLimiter(t *testing.T, limit int, window time.Duration) *RateLimiter {
	t.Helper()
	l := NewRateLimiter(limit, window)
	t.Cleanup(l.Stop)
	return l
}

func TestRateLimiter(t *testing.T) {
	t.Run("allows requests within limit", func(t *testing.T) {
		limiter := newTestLimiter(t, 5, time.Minute)

		for i := 0; i < 5; i++ {
			assert.True(t, limiter.Allow("client1"), "request %d should be allowed", i+1)
		}
		assert.False(t, limiter.Allow("client1"))
	})

	t.Run("separate limits per client", func(t *testing.T) {
		limiter := newTestLimiter(t, 2, time.Minute)

		assert.True(t, limiter.Allow("clientA"))
		assert.True(t, limiter.Allow("clientA"))
		assert.False(t, limiter.Allow("clientA"))
		assert.True(t, limiter.Allow("clientB"))
	})

	t.Run("resets after window", func(t *testing.T) {
		limiter := newTestLimiter(t, 1, time.Minute)
		now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
		limiter.now = func() time.Time { return now }

		assert.True(t, limiter.Allow("client3"))
		assert.False(t, limiter.Allow("client3"))

		now = now.Add(time.Minute)
		assert.True(t, limiter.Allow("client3"))
	})

	t.Run("remaining returns correct count", func(t *testing.T) {
		limiter := newTestLimiter(t, 5, time.Minute)

		assert.Equal(t, 5, limiter.Remaining("newclient"))
		limiter.Allow("newclient")
		limiter.Allow("newclient")
		assert.Equal(t, 3, limiter.Remaining("newclient"))
	})

	t.Run("concurrent access is safe", func(t *testing.T) {
		limiter := newTestLimiter(t, 100, time.Minute)
		var wg sync.WaitGroup
		var allowed atomic.Int64

		for i := 0; i < 150; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if limiter.Allow("shared") {
					allowed.Add(1)
				}
			}()
		}
		wg.Wait()

		assert.Equal(t, int64(100), allowed.Load())
	})

	t.Run("stop is idempotent", func(t *testing.T) {
		limiter := NewRateLimiter(1, time.Minute)
		limiter.Stop()
		assert.NotPanics(t, limiter.Stop)
	})
}

func TestRateLimitMiddleware(t *testing.T) {
	t.Run("sets headers and blocks with 429", func(t *testing.T) {
		limiter := newTestLimiter(t, 2, time.Minute)
		r := newTestRouter(RateLimit(limiter))

		w1 := serve(r, httptest.NewRequest(http.MethodGet, "/test", nil))
		assert.Equal(t, http.StatusOK, w1.Code)
		assert.Equal(t, "2", w1.Header().Get("X-RateLimit-Limit"))
		assert.Equal(t, "1", w1.Header().Get("X-RateLimit-Remaining"))

		serve(r, httptest.NewRequest(http.MethodGet, "/test", nil))
		w3 := serve(r, httptest.NewRequest(http.MethodGet, "/test", nil))

		assert.Equal(t, http.StatusTooManyRequests, w3.Code)
		assert.Equal(t, "60", w3.Header().Get("Retry-After"))
		assert.Contains(t, w3.Body.String(), "ERR_RATE_LIMITED")
	})

	t.Run("signed-in users get their own bucket", func(t *testing.T) {
		limiter := newTestLimiter(t, 1, time.Minute)
		r := gin.New()
		r.Use(func(c *gin.Context) {
			if id := c.GetHeader("X-Test-User"); id != "" {
				c.Set(UserIDKey, id)
			}
		}, RateLimit(limiter))
		r.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

		req := func(user string) int {
			rq := httptest.NewRequest(http.MethodGet, "/test", nil)
			if user != "" {
				rq.Header.Set("X-Test-User", user)
			}
			return serve(r, rq).Code
		}

		assert.Equal(t, http.StatusOK, req("user_1"))
		assert.Equal(t, http.StatusTooManyRequests, req("user_1"))
		assert.Equal(t, http.StatusOK, req("user_2"))
		assert.Equal(t, http.StatusOK, req(""))
	})
}

func TestRateLimitByKey(t *testing.T) {
	limiter := newTestLimiter(t, 1, time.Minute)
	r := newTestRouter(RateLimitByKey(limiter, func(c *gin.Context) string {
		return c.GetHeader("Stripe-Signature")
	}))

	req := func(sig string) int {
		rq := httptest.NewRequest(http.MethodGet, "/test", nil)
		rq.Header.Set("Stripe-Signature", sig)
		return serve(r, rq).Code
	}

	assert.Equal(t, http.StatusOK, req("a"))
	assert.Equal(t, http.StatusTooManyRequests, req("a"))
	assert.Equal(t, http.StatusOK, req("b"))
}
