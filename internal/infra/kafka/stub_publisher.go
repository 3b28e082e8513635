package kafka

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/NgariMwangi/Notes-API/internal/core/domain"
	"github.com/NgariMwangi/Notes-API/internal/core/port"
)

// StubPublisher logs events instead of sending them to Kafka. Used when no
// brokers are configured, typically in development.
type StubPublisher struct {
	logger *zap.Logger
}

// NewStubPublisher constructs a development-friendly event publisher.
func NewStubPublisher(logger *zap.Logger) *StubPublisher {
	return &StubPublisher{logger: logger}
}

func (p *StubPublisher) logEvent(eventType string, noteID int64, at time.Time, payload any) {
	if at.IsZero() {
		at = time.Now().UTC()
	}

	p.logger.Info("stub event published",
		zap.String("event_type", eventType),
		zap.Int64("note_id", noteID),
		zap.Time("timestamp", at.UTC()),
		zap.Any("payload", payload),
	)
}

// PublishNoteCreated logs note.created events.
func (p *StubPublisher) PublishNoteCreated(_ context.Context, event domain.NoteCreatedEvent) error {
	payload := map[string]any{
		"note_id":    event.NoteID,
		"title":      event.Title,
		"tags":       event.Tags,
		"created_at": event.CreatedAt,
	}
	p.logEvent(eventTypeNoteCreated, event.NoteID, event.CreatedAt, payload)
	return nil
}

// PublishNoteDeleted logs note.deleted events.
func (p *StubPublisher) PublishNoteDeleted(_ context.Context, event domain.NoteDeletedEvent) error {
	payload := map[string]any{
		"note_id":    event.NoteID,
		"deleted_at": event.DeletedAt,
	}
	p.logEvent(eventTypeNoteDeleted, event.NoteID, event.DeletedAt, payload)
	return nil
}

var _ port.EventPublisher = (*StubPublisher)(nil)
