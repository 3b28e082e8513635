package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/NgariMwangi/Notes-API/internal/core/domain"
	"github.com/NgariMwangi/Notes-API/internal/core/port"
	"github.com/NgariMwangi/Notes-API/internal/repository"
)

type stubNoteRepo struct {
	notes    map[int64]domain.Note
	nextID   int64
	getCalls []int64
}

func newStubNoteRepo(notes ...domain.Note) *stubNoteRepo {
	repo := &stubNoteRepo{notes: make(map[int64]domain.Note), nextID: 1}
	for _, note := range notes {
		repo.notes[note.ID] = note
		if note.ID >= repo.nextID {
			repo.nextID = note.ID + 1
		}
	}
	return repo
}

func (r *stubNoteRepo) Create(_ context.Context, note domain.Note) (*domain.Note, error) {
	note.ID = r.nextID
	r.nextID++
	note.CreatedAt = time.Date(2025, 11, 3, 9, 0, 0, 0, time.UTC)
	note.UpdatedAt = note.CreatedAt
	r.notes[note.ID] = note
	return &note, nil
}

func (r *stubNoteRepo) GetByID(_ context.Context, id int64, includeDeleted bool) (*domain.Note, error) {
	r.getCalls = append(r.getCalls, id)
	note, ok := r.notes[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if !note.Visible(includeDeleted) {
		return nil, repository.ErrNotFound
	}
	return &note, nil
}

func (r *stubNoteRepo) List(_ context.Context, filter port.NoteFilter) ([]domain.Note, error) {
	out := make([]domain.Note, 0, len(r.notes))
	for _, note := range r.notes {
		if note.Visible(filter.IncludeDeleted) {
			out = append(out, note)
		}
	}
	return out, nil
}

func (r *stubNoteRepo) SoftDelete(_ context.Context, id int64, at time.Time) (*domain.Note, error) {
	note, ok := r.notes[id]
	if !ok || note.IsDeleted {
		return nil, repository.ErrNotFound
	}
	note.IsDeleted = true
	note.DeletedAt = &at
	note.UpdatedAt = at
	r.notes[id] = note
	return &note, nil
}

type stubNoteCache struct {
	entries     map[int64]domain.Note
	unavailable bool
	ops         []string
}

func newStubNoteCache() *stubNoteCache {
	return &stubNoteCache{entries: make(map[int64]domain.Note)}
}

func (c *stubNoteCache) Get(_ context.Context, id int64) (*domain.Note, port.Outcome) {
	c.ops = append(c.ops, fmt.Sprintf("get:%d", id))
	if c.unavailable {
		return nil, port.OutcomeUnavailable
	}
	note, ok := c.entries[id]
	if !ok {
		return nil, port.OutcomeAbsent
	}
	return &note, port.OutcomeOK
}

func (c *stubNoteCache) Put(_ context.Context, note domain.Note) port.Outcome {
	c.ops = append(c.ops, fmt.Sprintf("put:%d", note.ID))
	if c.unavailable {
		return port.OutcomeUnavailable
	}
	c.entries[note.ID] = note
	return port.OutcomeOK
}

func (c *stubNoteCache) Invalidate(_ context.Context, id int64) port.Outcome {
	c.ops = append(c.ops, fmt.Sprintf("invalidate:%d", id))
	if c.unavailable {
		return port.OutcomeUnavailable
	}
	delete(c.entries, id)
	return port.OutcomeOK
}

type stubRecencyTracker struct {
	lists       map[string][]int64
	limit       int
	unavailable bool
}

func newStubRecencyTracker(limit int) *stubRecencyTracker {
	return &stubRecencyTracker{lists: make(map[string][]int64), limit: limit}
}

func (t *stubRecencyTracker) RecordView(_ context.Context, identity string, noteID int64) port.Outcome {
	if t.unavailable {
		return port.OutcomeUnavailable
	}
	list := make([]int64, 0, t.limit)
	list = append(list, noteID)
	for _, id := range t.lists[identity] {
		if id != noteID && len(list) < t.limit {
			list = append(list, id)
		}
	}
	t.lists[identity] = list
	return port.OutcomeOK
}

func (t *stubRecencyTracker) RecentIDs(_ context.Context, identity string) ([]int64, port.Outcome) {
	if t.unavailable {
		return nil, port.OutcomeUnavailable
	}
	return t.lists[identity], port.OutcomeOK
}

type stubEventPublisher struct {
	created []domain.NoteCreatedEvent
	deleted []domain.NoteDeletedEvent
}

func (p *stubEventPublisher) PublishNoteCreated(_ context.Context, event domain.NoteCreatedEvent) error {
	p.created = append(p.created, event)
	return nil
}

func (p *stubEventPublisher) PublishNoteDeleted(_ context.Context, event domain.NoteDeletedEvent) error {
	p.deleted = append(p.deleted, event)
	return nil
}
