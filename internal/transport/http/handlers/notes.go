package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/NgariMwangi/Notes-API/internal/core/port"
	"github.com/NgariMwangi/Notes-API/internal/usecase"
)

// NoteHandler exposes REST endpoints for note management.
type NoteHandler struct {
	notes *usecase.NoteService
}

// NewNoteHandler constructs a note handler.
func NewNoteHandler(notes *usecase.NoteService) *NoteHandler {
	return &NoteHandler{notes: notes}
}

// RegisterRoutes binds REST note routes to the provided router group.
func (h *NoteHandler) RegisterRoutes(r *gin.RouterGroup) {
	if r == nil {
		return
	}

	r.POST("", h.CreateNote)
	r.GET("", h.ListNotes)
	r.GET("/recent", h.RecentNotes)
	r.GET("/:note_id", h.GetNote)
	r.DELETE("/:note_id", h.DeleteNote)
}

// CreateNote godoc
// @Summary Create a note
// @Description Persists a new note and caches it for subsequent reads.
// @Tags Notes
// @Accept json
// @Produce json
// @Param request body NoteCreateRequest true "Note creation payload"
// @Success 201 {object} NotePayload
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/v1/notes [post]
func (h *NoteHandler) CreateNote(c *gin.Context) {
	var req NoteCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "title and content are required"))
		return
	}

	note, err := h.notes.CreateNote(c.Request.Context(), usecase.CreateNoteInput{
		Title:   req.Title,
		Content: req.Content,
		Tags:    req.Tags,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to create note"))
		return
	}

	c.JSON(http.StatusCreated, NewNotePayload(*note))
}

// ListNotes godoc
// @Summary List notes
// @Description Retrieves notes, newest first, with optional tag and title filters.
// @Tags Notes
// @Produce json
// @Param tag query string false "Only notes carrying this tag"
// @Param title_contains query string false "Case-insensitive title substring"
// @Param include_deleted query bool false "Include soft-deleted notes"
// @Success 200 {object} NotesListResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/v1/notes [get]
func (h *NoteHandler) ListNotes(c *gin.Context) {
	filter := port.NoteFilter{
		Tag:            c.Query("tag"),
		TitleContains:  c.Query("title_contains"),
		IncludeDeleted: boolQuery(c, "include_deleted"),
	}

	notes, err := h.notes.ListNotes(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to list notes"))
		return
	}

	c.JSON(http.StatusOK, NewNotesListResponse(notes))
}

// RecentNotes godoc
// @Summary Recently viewed notes
// @Description Returns the caller's most recently viewed notes, most recent first.
// @Tags Notes
// @Produce json
// @Success 200 {object} NotesListResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/v1/notes/recent [get]
func (h *NoteHandler) RecentNotes(c *gin.Context) {
	notes, err := h.notes.RecentNotes(c.Request.Context(), clientIdentity(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to load recent notes"))
		return
	}

	c.JSON(http.StatusOK, NewNotesListResponse(notes))
}

// GetNote godoc
// @Summary Fetch a note
// @Description Retrieves a single note by id, cache-first unless disabled.
// @Tags Notes
// @Produce json
// @Param note_id path int true "Note identifier"
// @Param use_cache query bool false "Serve from cache when possible (default true)"
// @Param include_deleted query bool false "Allow fetching a soft-deleted note"
// @Success 200 {object} NotePayload
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/v1/notes/{note_id} [get]
func (h *NoteHandler) GetNote(c *gin.Context) {
	id, ok := noteIDParam(c)
	if !ok {
		return
	}

	opts := usecase.GetNoteOptions{
		UseCache:       true,
		IncludeDeleted: boolQuery(c, "include_deleted"),
	}
	if raw := c.Query("use_cache"); raw != "" {
		if parsed, err := strconv.ParseBool(raw); err == nil {
			opts.UseCache = parsed
		}
	}

	note, err := h.notes.GetNote(c.Request.Context(), id, clientIdentity(c), opts)
	if err != nil {
		cases := []ErrorCase{{Err: usecase.ErrNoteNotFound, Status: http.StatusNotFound, Message: "Note not found"}}
		RespondWithMappedError(c, err, cases, http.StatusInternalServerError, "failed to fetch note")
		return
	}

	c.JSON(http.StatusOK, NewNotePayload(*note))
}

// DeleteNote godoc
// @Summary Delete a note
// @Description Soft-deletes a note. The record is retained but hidden from default reads.
// @Tags Notes
// @Produce json
// @Param note_id path int true "Note identifier"
// @Success 200 {object} NotePayload
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/v1/notes/{note_id} [delete]
func (h *NoteHandler) DeleteNote(c *gin.Context) {
	id, ok := noteIDParam(c)
	if !ok {
		return
	}

	note, err := h.notes.DeleteNote(c.Request.Context(), id)
	if err != nil {
		cases := []ErrorCase{{Err: usecase.ErrNoteNotFound, Status: http.StatusNotFound, Message: "Note not found"}}
		RespondWithMappedError(c, err, cases, http.StatusInternalServerError, "failed to delete note")
		return
	}

	c.JSON(http.StatusOK, NewNotePayload(*note))
}

func noteIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("note_id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "note_id must be a positive integer"))
		return 0, false
	}
	return id, true
}

func boolQuery(c *gin.Context, name string) bool {
	raw := c.Query(name)
	if raw == "" {
		return false
	}
	parsed, err := strconv.ParseBool(raw)
	return err == nil && parsed
}

func clientIdentity(c *gin.Context) string {
	if ip := c.ClientIP(); ip != "" {
		return ip
	}
	return "unknown"
}
