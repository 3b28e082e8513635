package redis

import (
	"context"
	"errors"
	"time"

	red "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/NgariMwangi/Notes-API/internal/core/port"
)

const defaultOpTimeout = 150 * time.Millisecond

// Store is the shared key-value substrate behind the rate limiter, note
// cache, and recency tracker. Every call is a single outage-aware round
// trip bounded by a short timeout: connectivity failures surface as
// port.OutcomeUnavailable instead of errors, so callers degrade instead of
// failing the request. Retry policy belongs to the driver, not here.
type Store struct {
	client  *red.Client
	timeout time.Duration
	logger  *zap.Logger
}

// NewStore wraps a Redis client with outage-absorbing semantics.
func NewStore(client *red.Client, opTimeout time.Duration, logger *zap.Logger) *Store {
	if opTimeout <= 0 {
		opTimeout = defaultOpTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{client: client, timeout: opTimeout, logger: logger}
}

// Get reads the value stored at key.
func (s *Store) Get(ctx context.Context, key string) ([]byte, port.Outcome) {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, red.Nil) {
			return nil, port.OutcomeAbsent
		}
		return nil, s.degrade("get", key, err)
	}
	return data, port.OutcomeOK
}

// Set writes value at key with the given TTL, overwriting unconditionally.
func (s *Store) Set(ctx context.Context, key string, value []byte, ttl time.Duration) port.Outcome {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	if err := s.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return s.degrade("set", key, err)
	}
	return port.OutcomeOK
}

// Delete removes key. Deleting an absent key is a no-op success.
func (s *Store) Delete(ctx context.Context, key string) port.Outcome {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	if err := s.client.Del(ctx, key).Err(); err != nil {
		return s.degrade("del", key, err)
	}
	return port.OutcomeOK
}

// Incr atomically increments the integer at key, creating it at 0 first
// when absent, and returns the post-increment value.
func (s *Store) Incr(ctx context.Context, key string) (int64, port.Outcome) {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	count, err := s.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, s.degrade("incr", key, err)
	}
	return count, port.OutcomeOK
}

// ExpireIfUnset sets a TTL on key only when no expiry is set yet. Two
// racing first-requests therefore cannot extend each other's window.
func (s *Store) ExpireIfUnset(ctx context.Context, key string, ttl time.Duration) port.Outcome {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	if err := s.client.ExpireNX(ctx, key, ttl).Err(); err != nil {
		return s.degrade("expire_nx", key, err)
	}
	return port.OutcomeOK
}

// PushDedupTrim prepends member to the list at key after removing any
// existing occurrence, truncates the list to maxLen, and resets its TTL.
// The four commands run in a single MULTI/EXEC so each call leaves the
// list deduplicated and bounded even under concurrent pushes.
func (s *Store) PushDedupTrim(ctx context.Context, key, member string, maxLen int64, ttl time.Duration) port.Outcome {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	_, err := s.client.TxPipelined(ctx, func(pipe red.Pipeliner) error {
		pipe.LRem(ctx, key, 0, member)
		pipe.LPush(ctx, key, member)
		pipe.LTrim(ctx, key, 0, maxLen-1)
		pipe.Expire(ctx, key, ttl)
		return nil
	})
	if err != nil {
		return s.degrade("push_dedup_trim", key, err)
	}
	return port.OutcomeOK
}

// ListRead returns up to n list members at key, head first. A missing key
// reads as an empty list.
func (s *Store) ListRead(ctx context.Context, key string, n int64) ([]string, port.Outcome) {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	values, err := s.client.LRange(ctx, key, 0, n-1).Result()
	if err != nil {
		return nil, s.degrade("lrange", key, err)
	}
	return values, port.OutcomeOK
}

func (s *Store) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.timeout)
}

func (s *Store) degrade(op, key string, err error) port.Outcome {
	s.logger.Warn("redis unavailable, degrading",
		zap.String("op", op),
		zap.String("key", key),
		zap.Error(err),
	)
	return port.OutcomeUnavailable
}
