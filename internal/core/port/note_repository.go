package port

import (
	"context"
	"time"

	"github.com/NgariMwangi/Notes-API/internal/core/domain"
)

// NoteFilter narrows List results. Zero values mean "no filter".
type NoteFilter struct {
	Tag            string
	TitleContains  string
	IncludeDeleted bool
}

// NoteRepository is the persistence gateway for notes. It owns identifier
// assignment and the soft-delete flag; absent rows surface as
// repository.ErrNotFound.
type NoteRepository interface {
	Create(ctx context.Context, note domain.Note) (*domain.Note, error)
	GetByID(ctx context.Context, id int64, includeDeleted bool) (*domain.Note, error)
	List(ctx context.Context, filter NoteFilter) ([]domain.Note, error)
	SoftDelete(ctx context.Context, id int64, at time.Time) (*domain.Note, error)
}
