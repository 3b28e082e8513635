package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/NgariMwangi/Notes-API/internal/core/port"
)

const defaultRecentKeyPrefix = "recent:ip"

// RecencyTracker keeps a per-client list of recently fetched note ids,
// most-recent-first, deduplicated and bounded. The whole list shares the
// rate limiter's window as its idle TTL so recency data and rate windows
// age out together.
type RecencyTracker struct {
	store  *Store
	prefix string
	limit  int64
	ttl    time.Duration
	logger *zap.Logger
}

// NewRecencyTracker builds a tracker keeping at most limit ids per client.
func NewRecencyTracker(store *Store, keyPrefix string, limit int, ttl time.Duration, logger *zap.Logger) *RecencyTracker {
	if keyPrefix == "" {
		keyPrefix = defaultRecentKeyPrefix
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RecencyTracker{store: store, prefix: keyPrefix, limit: int64(limit), ttl: ttl, logger: logger}
}

// RecordView moves noteID to the front of the client's list, trims the list
// to its bound, and resets the idle expiry. The underlying store runs the
// sequence atomically per call.
func (t *RecencyTracker) RecordView(ctx context.Context, identity string, noteID int64) port.Outcome {
	member := strconv.FormatInt(noteID, 10)
	return t.store.PushDedupTrim(ctx, t.key(identity), member, t.limit, t.ttl)
}

// RecentIDs returns the raw ordered id list for the client. Resolving ids to
// live, visible notes is the caller's responsibility.
func (t *RecencyTracker) RecentIDs(ctx context.Context, identity string) ([]int64, port.Outcome) {
	values, outcome := t.store.ListRead(ctx, t.key(identity), t.limit)
	if outcome == port.OutcomeUnavailable {
		return nil, outcome
	}

	ids := make([]int64, 0, len(values))
	for _, value := range values {
		id, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			t.logger.Warn("skipping malformed recency entry", zap.String("identity", identity), zap.String("value", value))
			continue
		}
		ids = append(ids, id)
	}

	return ids, port.OutcomeOK
}

func (t *RecencyTracker) key(identity string) string {
	return fmt.Sprintf("%s:%s", t.prefix, identity)
}

var _ port.RecencyTracker = (*RecencyTracker)(nil)
