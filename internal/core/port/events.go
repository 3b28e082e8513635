package port

import (
	"context"

	"github.com/NgariMwangi/Notes-API/internal/core/domain"
)

// EventPublisher publishes note lifecycle events to the message bus.
type EventPublisher interface {
	PublishNoteCreated(ctx context.Context, event domain.NoteCreatedEvent) error
	PublishNoteDeleted(ctx context.Context, event domain.NoteDeletedEvent) error
}
