package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/NgariMwangi/Notes-API/internal/core/domain"
)

// ErrorResponse represents a generic error payload with trace ID for debugging.
type ErrorResponse struct {
	Error   string `json:"error"`
	TraceID string `json:"trace_id,omitempty"`
}

// NewErrorResponse creates an error response with trace ID from context
func NewErrorResponse(c *gin.Context, errorMsg string) ErrorResponse {
	traceID, _ := c.Get("trace_id")
	traceIDStr, _ := traceID.(string)

	return ErrorResponse{
		Error:   errorMsg,
		TraceID: traceIDStr,
	}
}

// NoteCreateRequest defines the payload for creating a note.
type NoteCreateRequest struct {
	Title   string   `json:"title" binding:"required,min=1,max=100"`
	Content string   `json:"content" binding:"required,min=1,max=5000"`
	Tags    []string `json:"tags" binding:"omitempty,dive,min=1,max=30"`
}

// NotePayload is the API view of a note.
type NotePayload struct {
	ID        int64      `json:"id"`
	Title     string     `json:"title"`
	Content   string     `json:"content"`
	Tags      []string   `json:"tags"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	IsDeleted bool       `json:"is_deleted"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
}

// NewNotePayload converts a domain note into its API representation.
func NewNotePayload(note domain.Note) NotePayload {
	tags := note.Tags
	if tags == nil {
		tags = []string{}
	}

	return NotePayload{
		ID:        note.ID,
		Title:     note.Title,
		Content:   note.Content,
		Tags:      tags,
		CreatedAt: note.CreatedAt,
		UpdatedAt: note.UpdatedAt,
		IsDeleted: note.IsDeleted,
		DeletedAt: note.DeletedAt,
	}
}

// NotesListResponse wraps a collection of notes.
type NotesListResponse struct {
	Total int           `json:"total"`
	Items []NotePayload `json:"items"`
}

// NewNotesListResponse converts domain notes into a list payload.
func NewNotesListResponse(notes []domain.Note) NotesListResponse {
	items := make([]NotePayload, 0, len(notes))
	for _, note := range notes {
		items = append(items, NewNotePayload(note))
	}
	return NotesListResponse{Total: len(items), Items: items}
}

// HealthResponse reports service liveness.
type HealthResponse struct {
	Status    string    `json:"status"`
	StartedAt time.Time `json:"started_at"`
}

// ReadinessResponse reports per-dependency readiness.
type ReadinessResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}
