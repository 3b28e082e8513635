package domain

import "time"

// NoteCreatedEvent captures the creation of a note for downstream consumers.
type NoteCreatedEvent struct {
	EventID   string
	NoteID    int64
	Title     string
	Tags      []string
	CreatedAt time.Time
}

// NoteDeletedEvent captures a soft delete of a note.
type NoteDeletedEvent struct {
	EventID   string
	NoteID    int64
	DeletedAt time.Time
}
