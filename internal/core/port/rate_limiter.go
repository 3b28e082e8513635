package port

import (
	"context"
	"time"
)

// RateLimitDecision is the outcome of a single gate evaluation.
type RateLimitDecision struct {
	Permitted bool
	Limit     int
	Remaining int
	Window    time.Duration
	// Degraded marks a fail-open decision taken because the backing store
	// was unreachable. Availability outranks strict enforcement.
	Degraded bool
}

// RateLimiter gates inbound requests per client identity.
type RateLimiter interface {
	Allow(ctx context.Context, identity string) RateLimitDecision
}
