package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap/zaptest"

	"github.com/NgariMwangi/Notes-API/internal/core/port"
)

type fakeRateLimiter struct {
	decision   port.RateLimitDecision
	identities []string
}

func (f *fakeRateLimiter) Allow(_ context.Context, identity string) port.RateLimitDecision {
	f.identities = append(f.identities, identity)
	return f.decision
}

func newGateRouter(t *testing.T, limiter port.RateLimiter, now time.Time) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	gate := NewRateLimitGate(limiter, zaptest.NewLogger(t)).
		WithClock(func() time.Time { return now })

	router := gin.New()
	router.Use(gate.Handler())
	router.GET("/", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return router
}

func TestRateLimitGateAllowsWhenBelowLimit(t *testing.T) {
	now := time.Date(2025, 11, 3, 10, 0, 0, 0, time.UTC)
	limiter := &fakeRateLimiter{decision: port.RateLimitDecision{
		Permitted: true,
		Limit:     100,
		Remaining: 97,
		Window:    10 * time.Minute,
	}}

	router := newGateRouter(t, limiter, now)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}

	if got := rr.Header().Get("X-RateLimit-Limit"); got != "100" {
		t.Fatalf("expected limit header 100, got %q", got)
	}
	if got := rr.Header().Get("X-RateLimit-Remaining"); got != "97" {
		t.Fatalf("expected remaining header 97, got %q", got)
	}

	expectedReset := now.Add(10 * time.Minute).Unix()
	if got := rr.Header().Get("X-RateLimit-Reset"); got != strconv.FormatInt(expectedReset, 10) {
		t.Fatalf("expected reset header %d, got %q", expectedReset, got)
	}
	if got := rr.Header().Get("Retry-After"); got != "" {
		t.Fatalf("expected no retry-after header, got %q", got)
	}
}

func TestRateLimitGateBlocksWhenWindowFull(t *testing.T) {
	now := time.Date(2025, 11, 3, 10, 0, 0, 0, time.UTC)
	limiter := &fakeRateLimiter{decision: port.RateLimitDecision{
		Permitted: false,
		Limit:     100,
		Remaining: 0,
		Window:    10 * time.Minute,
	}}

	router := newGateRouter(t, limiter, now)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	if rr.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rr.Code)
	}
	if got := rr.Header().Get("Retry-After"); got != "600" {
		t.Fatalf("expected retry-after 600, got %q", got)
	}

	var problem ProblemDetails
	if err := json.Unmarshal(rr.Body.Bytes(), &problem); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if problem.Status != http.StatusTooManyRequests {
		t.Fatalf("unexpected problem status %d", problem.Status)
	}
	if problem.RetryAfter != 600 {
		t.Fatalf("expected problem retry_after 600, got %d", problem.RetryAfter)
	}
}

func TestRateLimitGateFailsOpenWhenDegraded(t *testing.T) {
	now := time.Date(2025, 11, 3, 10, 0, 0, 0, time.UTC)
	limiter := &fakeRateLimiter{decision: port.RateLimitDecision{
		Permitted: true,
		Degraded:  true,
		Limit:     100,
		Window:    10 * time.Minute,
	}}

	router := newGateRouter(t, limiter, now)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 when failing open, got %d", rr.Code)
	}
	if got := rr.Header().Get("X-RateLimit-Limit"); got != "" {
		t.Fatalf("expected no limit headers on degraded path, got %q", got)
	}
}

func TestRateLimitGateScopesByClientIP(t *testing.T) {
	now := time.Date(2025, 11, 3, 10, 0, 0, 0, time.UTC)
	limiter := &fakeRateLimiter{decision: port.RateLimitDecision{
		Permitted: true,
		Limit:     100,
		Remaining: 99,
		Window:    10 * time.Minute,
	}}

	router := newGateRouter(t, limiter, now)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.1:52801"
	router.ServeHTTP(httptest.NewRecorder(), req)

	if len(limiter.identities) != 1 || limiter.identities[0] != "192.0.2.1" {
		t.Fatalf("expected limiter keyed by client IP, got %v", limiter.identities)
	}
}
