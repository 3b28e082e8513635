package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/NgariMwangi/Notes-API/internal/core/port"
)

const defaultRateKeyPrefix = "rate:ip"

// FixedWindowLimiter counts requests per client identity in a window that
// resets via key expiry. This is an approximate sliding window: a burst
// straddling a window boundary can reach up to twice the configured limit.
// That imprecision is accepted; availability outranks strict enforcement.
type FixedWindowLimiter struct {
	store  *Store
	prefix string
	limit  int
	window time.Duration
}

// NewFixedWindowLimiter builds a limiter allowing limit requests per window.
func NewFixedWindowLimiter(store *Store, keyPrefix string, limit int, window time.Duration) *FixedWindowLimiter {
	if keyPrefix == "" {
		keyPrefix = defaultRateKeyPrefix
	}
	return &FixedWindowLimiter{store: store, prefix: keyPrefix, limit: limit, window: window}
}

// Allow evaluates the gate once for the given client identity.
func (l *FixedWindowLimiter) Allow(ctx context.Context, identity string) port.RateLimitDecision {
	decision := port.RateLimitDecision{
		Permitted: true,
		Limit:     l.limit,
		Remaining: l.limit,
		Window:    l.window,
	}

	key := l.key(identity)

	count, outcome := l.store.Incr(ctx, key)
	if outcome == port.OutcomeUnavailable {
		decision.Degraded = true
		return decision
	}

	if count == 1 {
		// First request of a fresh window. EXPIRE NX keeps a racing
		// first-request from extending a window that already has an expiry.
		l.store.ExpireIfUnset(ctx, key, l.window)
	}

	decision.Permitted = count <= int64(l.limit)
	decision.Remaining = l.limit - int(count)
	if decision.Remaining < 0 {
		decision.Remaining = 0
	}

	return decision
}

func (l *FixedWindowLimiter) key(identity string) string {
	return fmt.Sprintf("%s:%s", l.prefix, identity)
}

var _ port.RateLimiter = (*FixedWindowLimiter)(nil)
