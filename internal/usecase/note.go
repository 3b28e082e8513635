package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/NgariMwangi/Notes-API/internal/core/domain"
	"github.com/NgariMwangi/Notes-API/internal/core/port"
	"github.com/NgariMwangi/Notes-API/internal/repository"
)

// ErrNoteNotFound indicates the requested note does not exist or is not
// visible to the caller.
var ErrNoteNotFound = errors.New("note not found")

// NoteService coordinates note CRUD with the cache, recency tracker, and
// event publisher. Cache and recency outcomes never fail a request: an
// unavailable store degrades each mechanism to its safe default.
type NoteService struct {
	notes  port.NoteRepository
	cache  port.NoteCache
	recent port.RecencyTracker
	events port.EventPublisher
	logger *zap.Logger
	now    func() time.Time
}

// NewNoteService constructs a NoteService.
func NewNoteService(notes port.NoteRepository, cache port.NoteCache, recent port.RecencyTracker, events port.EventPublisher, logger *zap.Logger) *NoteService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NoteService{
		notes:  notes,
		cache:  cache,
		recent: recent,
		events: events,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// WithClock overrides the internal clock for deterministic tests.
func (s *NoteService) WithClock(clock func() time.Time) *NoteService {
	if clock != nil {
		s.now = clock
	}
	return s
}

// CreateNoteInput carries validated note fields from the transport layer.
type CreateNoteInput struct {
	Title   string
	Content string
	Tags    []string
}

// CreateNote persists a new note and writes it through to the cache so the
// very next fetch is a hit.
func (s *NoteService) CreateNote(ctx context.Context, input CreateNoteInput) (*domain.Note, error) {
	note, err := s.notes.Create(ctx, domain.Note{
		Title:   input.Title,
		Content: input.Content,
		Tags:    input.Tags,
	})
	if err != nil {
		return nil, fmt.Errorf("create note: %w", err)
	}

	s.cache.Put(ctx, *note)

	if s.events != nil {
		event := domain.NoteCreatedEvent{
			EventID:   uuid.NewString(),
			NoteID:    note.ID,
			Title:     note.Title,
			Tags:      note.Tags,
			CreatedAt: note.CreatedAt,
		}
		if err := s.events.PublishNoteCreated(ctx, event); err != nil {
			s.logger.Warn("publish note.created", zap.Int64("note_id", note.ID), zap.Error(err))
		}
	}

	return note, nil
}

// GetNoteOptions controls a single fetch.
type GetNoteOptions struct {
	// UseCache permits serving the note from its cached snapshot.
	UseCache bool
	// IncludeDeleted makes soft-deleted notes visible to this call.
	IncludeDeleted bool
}

// GetNote fetches a note by identifier, cache-first, and records the view
// on the caller's recency list. Cached snapshots marked deleted are treated
// as misses: the repository stays authoritative for visibility.
func (s *NoteService) GetNote(ctx context.Context, id int64, viewer string, opts GetNoteOptions) (*domain.Note, error) {
	if opts.UseCache && !opts.IncludeDeleted {
		if note, outcome := s.cache.Get(ctx, id); outcome == port.OutcomeOK && note.Visible(false) {
			s.trackView(ctx, viewer, id)
			return note, nil
		}
	}

	note, err := s.notes.GetByID(ctx, id, opts.IncludeDeleted)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNoteNotFound
		}
		return nil, fmt.Errorf("get note: %w", err)
	}

	// Deleted snapshots never enter the cache; a delete's invalidation
	// must not be undone by a later include-deleted read.
	if !note.IsDeleted {
		s.cache.Put(ctx, *note)
	}
	s.trackView(ctx, viewer, id)

	return note, nil
}

// ListNotes returns notes matching the filter. List reads are uncached; the
// visibility filter is pushed down to the repository.
func (s *NoteService) ListNotes(ctx context.Context, filter port.NoteFilter) ([]domain.Note, error) {
	notes, err := s.notes.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	return notes, nil
}

// DeleteNote soft-deletes a note and invalidates its cache entry before
// returning, so no read initiated after this call completes can observe the
// stale present-record snapshot. Absent and already-deleted notes both
// surface as ErrNoteNotFound.
func (s *NoteService) DeleteNote(ctx context.Context, id int64) (*domain.Note, error) {
	existing, err := s.notes.GetByID(ctx, id, true)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNoteNotFound
		}
		return nil, fmt.Errorf("load note for delete: %w", err)
	}
	if existing.IsDeleted {
		return nil, ErrNoteNotFound
	}

	note, err := s.notes.SoftDelete(ctx, id, s.now())
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// Lost a race with a concurrent delete.
			return nil, ErrNoteNotFound
		}
		return nil, fmt.Errorf("soft delete note: %w", err)
	}

	s.cache.Invalidate(ctx, id)

	if s.events != nil {
		event := domain.NoteDeletedEvent{
			EventID:   uuid.NewString(),
			NoteID:    note.ID,
			DeletedAt: s.now(),
		}
		if note.DeletedAt != nil {
			event.DeletedAt = *note.DeletedAt
		}
		if err := s.events.PublishNoteDeleted(ctx, event); err != nil {
			s.logger.Warn("publish note.deleted", zap.Int64("note_id", note.ID), zap.Error(err))
		}
	}

	return note, nil
}

// RecentNotes materializes the viewer's recency list into visible notes,
// preserving most-recent-first order. Ids that no longer resolve to a live,
// visible note are silently dropped, not backfilled. An unavailable recency
// store yields an empty result.
func (s *NoteService) RecentNotes(ctx context.Context, viewer string) ([]domain.Note, error) {
	ids, outcome := s.recent.RecentIDs(ctx, viewer)
	if outcome == port.OutcomeUnavailable {
		return []domain.Note{}, nil
	}

	notes := make([]domain.Note, 0, len(ids))
	for _, id := range ids {
		note, err := s.resolveVisible(ctx, id)
		if err != nil {
			return nil, err
		}
		if note == nil {
			continue
		}
		notes = append(notes, *note)
	}

	return notes, nil
}

// resolveVisible looks a note up cache-first with default visibility.
// (nil, nil) means the id no longer resolves and should be dropped.
func (s *NoteService) resolveVisible(ctx context.Context, id int64) (*domain.Note, error) {
	if note, outcome := s.cache.Get(ctx, id); outcome == port.OutcomeOK && note.Visible(false) {
		return note, nil
	}

	note, err := s.notes.GetByID(ctx, id, false)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("resolve recent note %d: %w", id, err)
	}

	s.cache.Put(ctx, *note)
	return note, nil
}

func (s *NoteService) trackView(ctx context.Context, viewer string, id int64) {
	if viewer == "" {
		return
	}
	if outcome := s.recent.RecordView(ctx, viewer, id); outcome == port.OutcomeUnavailable {
		s.logger.Debug("recency store unavailable, view not recorded",
			zap.String("viewer", viewer),
			zap.Int64("note_id", id),
		)
	}
}
