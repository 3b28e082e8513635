package port

import (
	"context"

	"github.com/NgariMwangi/Notes-API/internal/core/domain"
)

// NoteCache keeps serialized single-note snapshots keyed by identifier.
// The cache is an optimization, never a correctness dependency: callers
// treat OutcomeUnavailable as a miss and fall through to the repository.
type NoteCache interface {
	Get(ctx context.Context, id int64) (*domain.Note, Outcome)
	Put(ctx context.Context, note domain.Note) Outcome
	Invalidate(ctx context.Context, id int64) Outcome
}
