package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/NgariMwangi/Notes-API/internal/core/domain"
	"github.com/NgariMwangi/Notes-API/internal/core/port"
)

const defaultNoteKeyPrefix = "note"

// NoteCache stores JSON snapshots of single notes keyed by identifier.
// Entries self-expire via TTL as a backstop; deletes invalidate them
// synchronously. An unavailable store reads as a miss.
type NoteCache struct {
	store  *Store
	prefix string
	ttl    time.Duration
	logger *zap.Logger
}

// NewNoteCache builds a note cache whose entries live for ttl.
func NewNoteCache(store *Store, keyPrefix string, ttl time.Duration, logger *zap.Logger) *NoteCache {
	if keyPrefix == "" {
		keyPrefix = defaultNoteKeyPrefix
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NoteCache{store: store, prefix: keyPrefix, ttl: ttl, logger: logger}
}

// Get returns the cached snapshot for id. Callers must re-verify visibility
// on hits; the snapshot can be stale with respect to a concurrent delete.
func (c *NoteCache) Get(ctx context.Context, id int64) (*domain.Note, port.Outcome) {
	key := c.key(id)

	data, outcome := c.store.Get(ctx, key)
	if outcome != port.OutcomeOK {
		return nil, outcome
	}

	var note domain.Note
	if err := json.Unmarshal(data, &note); err != nil {
		// Unreadable snapshot. Drop it and report a miss.
		c.logger.Warn("dropping corrupt note cache entry", zap.String("key", key), zap.Error(err))
		c.store.Delete(ctx, key)
		return nil, port.OutcomeAbsent
	}

	return &note, port.OutcomeOK
}

// Put overwrites the snapshot for note.ID unconditionally.
func (c *NoteCache) Put(ctx context.Context, note domain.Note) port.Outcome {
	data, err := json.Marshal(note)
	if err != nil {
		c.logger.Warn("marshal note for cache", zap.Int64("note_id", note.ID), zap.Error(err))
		return port.OutcomeUnavailable
	}
	return c.store.Set(ctx, c.key(note.ID), data, c.ttl)
}

// Invalidate removes the snapshot for id. Removing an absent entry succeeds.
func (c *NoteCache) Invalidate(ctx context.Context, id int64) port.Outcome {
	return c.store.Delete(ctx, c.key(id))
}

func (c *NoteCache) key(id int64) string {
	return fmt.Sprintf("%s:%d", c.prefix, id)
}

var _ port.NoteCache = (*NoteCache)(nil)
