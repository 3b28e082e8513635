package middleware

import (
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/NgariMwangi/Notes-API/internal/core/port"
)

const (
	rateLimitProblemType  = "https://notes-api.example.com/errors/rate-limit-exceeded"
	rateLimitProblemTitle = "Rate Limit Exceeded"
)

// IdentifierFunc extracts the identity used to scope rate limits (e.g., client IP).
type IdentifierFunc func(*gin.Context) (string, bool)

// RateLimitGate wraps a fixed-window limiter as Gin middleware. Each request
// costs one unit up front; a full window answers 429 with an RFC 9457 payload.
// A degraded limiter (counter store unreachable) fails open.
type RateLimitGate struct {
	limiter  port.RateLimiter
	logger   *zap.Logger
	identify IdentifierFunc
	now      func() time.Time
}

// ProblemDetails represents an RFC 9457 compatible error payload for rate limits.
type ProblemDetails struct {
	Type       string `json:"type"`
	Title      string `json:"title"`
	Status     int    `json:"status"`
	Detail     string `json:"detail"`
	Instance   string `json:"instance"`
	RetryAfter int    `json:"retry_after"`
	TraceID    string `json:"trace_id,omitempty"`
}

// NewRateLimitGate builds a reusable rate limit middleware helper.
func NewRateLimitGate(limiter port.RateLimiter, logger *zap.Logger) *RateLimitGate {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &RateLimitGate{
		limiter:  limiter,
		logger:   logger,
		identify: ClientIPIdentifier(),
		now:      time.Now,
	}
}

// WithClock allows injection of a custom clock (primarily for testing).
func (g *RateLimitGate) WithClock(now func() time.Time) *RateLimitGate {
	if now != nil {
		g.now = now
	}
	return g
}

// WithIdentifier overrides how the client identity is derived from a request.
func (g *RateLimitGate) WithIdentifier(identify IdentifierFunc) *RateLimitGate {
	if identify != nil {
		g.identify = identify
	}
	return g
}

// ClientIPIdentifier builds an IdentifierFunc using the request's client IP.
func ClientIPIdentifier() IdentifierFunc {
	return func(c *gin.Context) (string, bool) {
		ip := c.ClientIP()
		if ip == "" {
			return "unknown", true
		}
		return ip, true
	}
}

// Handler returns the Gin middleware enforcing the limit.
func (g *RateLimitGate) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if g.limiter == nil {
			c.Next()
			return
		}

		identity, ok := g.identify(c)
		if !ok || identity == "" {
			c.Next()
			return
		}

		decision := g.limiter.Allow(c.Request.Context(), identity)
		if decision.Degraded {
			g.logger.Warn("rate limit check degraded, allowing request",
				zap.String("identity", identity),
				zap.String("path", c.Request.URL.Path),
			)
			c.Next()
			return
		}

		g.applyHeaders(c, decision)

		if !decision.Permitted {
			g.respondRateLimited(c, decision)
			return
		}

		c.Next()
	}
}

func (g *RateLimitGate) applyHeaders(c *gin.Context, decision port.RateLimitDecision) {
	headers := c.Writer.Header()
	headers.Set("X-RateLimit-Limit", strconv.Itoa(decision.Limit))
	headers.Set("X-RateLimit-Remaining", strconv.Itoa(decision.Remaining))
	headers.Set("X-RateLimit-Reset", strconv.FormatInt(g.now().Add(decision.Window).Unix(), 10))

	if !decision.Permitted {
		headers.Set("Retry-After", strconv.Itoa(retrySeconds(decision.Window)))
	}
}

func (g *RateLimitGate) respondRateLimited(c *gin.Context, decision port.RateLimitDecision) {
	seconds := retrySeconds(decision.Window)

	instance := c.FullPath()
	if instance == "" {
		instance = c.Request.URL.Path
	}

	problem := ProblemDetails{
		Type:       rateLimitProblemType,
		Title:      rateLimitProblemTitle,
		Status:     http.StatusTooManyRequests,
		Detail:     fmt.Sprintf("Too many requests. Try again in %d seconds.", seconds),
		Instance:   instance,
		RetryAfter: seconds,
		TraceID:    GetTraceID(c),
	}

	c.AbortWithStatusJSON(http.StatusTooManyRequests, problem)
}

func retrySeconds(window time.Duration) int {
	seconds := int(math.Ceil(window.Seconds()))
	if seconds < 0 {
		seconds = 0
	}
	return seconds
}
