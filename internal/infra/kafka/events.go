package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/NgariMwangi/Notes-API/internal/core/domain"
	"github.com/NgariMwangi/Notes-API/internal/core/port"
	"github.com/NgariMwangi/Notes-API/internal/infra/config"
)

const schemaVersion = "1.0"

const (
	eventTypeNoteCreated = "note.created"
	eventTypeNoteDeleted = "note.deleted"
)

// EventPublisher implements port.EventPublisher using Kafka.
type EventPublisher struct {
	producer *Producer
	logger   *zap.Logger
	appCfg   config.AppSettings
}

// NewEventPublisher constructs a Kafka-backed event publisher.
func NewEventPublisher(producer *Producer, appCfg config.AppSettings, logger *zap.Logger) *EventPublisher {
	return &EventPublisher{producer: producer, appCfg: appCfg, logger: logger}
}

type eventEnvelope struct {
	EventID   string            `json:"event_id"`
	EventType string            `json:"event_type"`
	NoteID    int64             `json:"note_id"`
	Timestamp time.Time         `json:"timestamp"`
	Version   string            `json:"version"`
	Payload   any               `json:"payload"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

func (p *EventPublisher) publish(ctx context.Context, eventID, eventType string, noteID int64, ts time.Time, payload any) error {
	if ts.IsZero() {
		ts = time.Now().UTC()
	}

	id := eventID
	if id == "" {
		id = uuid.NewString()
	}

	envelope := eventEnvelope{
		EventID:   id,
		EventType: eventType,
		NoteID:    noteID,
		Timestamp: ts.UTC(),
		Version:   schemaVersion,
		Payload:   payload,
		Metadata: map[string]string{
			"service":     p.appCfg.Name,
			"environment": p.appCfg.Env,
		},
	}

	bytes, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("marshal event envelope: %w", err)
	}

	message := &sarama.ProducerMessage{
		Topic: p.producer.TopicName(eventType),
		Key:   sarama.StringEncoder(fmt.Sprintf("%d", noteID)),
		Value: sarama.ByteEncoder(bytes),
	}

	select {
	case p.producer.Input() <- message:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// PublishNoteCreated publishes note.created events.
func (p *EventPublisher) PublishNoteCreated(ctx context.Context, event domain.NoteCreatedEvent) error {
	payload := struct {
		NoteID    int64     `json:"note_id"`
		Title     string    `json:"title"`
		Tags      []string  `json:"tags,omitempty"`
		CreatedAt time.Time `json:"created_at"`
	}{
		NoteID:    event.NoteID,
		Title:     event.Title,
		Tags:      event.Tags,
		CreatedAt: event.CreatedAt.UTC(),
	}

	return p.publish(ctx, event.EventID, eventTypeNoteCreated, event.NoteID, event.CreatedAt, payload)
}

// PublishNoteDeleted publishes note.deleted events.
func (p *EventPublisher) PublishNoteDeleted(ctx context.Context, event domain.NoteDeletedEvent) error {
	payload := struct {
		NoteID    int64     `json:"note_id"`
		DeletedAt time.Time `json:"deleted_at"`
	}{
		NoteID:    event.NoteID,
		DeletedAt: event.DeletedAt.UTC(),
	}

	return p.publish(ctx, event.EventID, eventTypeNoteDeleted, event.NoteID, event.DeletedAt, payload)
}

var _ port.EventPublisher = (*EventPublisher)(nil)
