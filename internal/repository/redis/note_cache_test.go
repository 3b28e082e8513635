package redis

import (
	"context"
	"reflect"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"github.com/NgariMwangi/Notes-API/internal/core/domain"
	"github.com/NgariMwangi/Notes-API/internal/core/port"
)

func testNote() domain.Note {
	created := time.Date(2025, 11, 3, 9, 30, 0, 0, time.UTC)
	return domain.Note{
		ID:        7,
		Title:     "groceries",
		Content:   "milk, eggs",
		Tags:      []string{"errands", "home"},
		CreatedAt: created,
		UpdatedAt: created,
	}
}

func TestNoteCachePutGetRoundtrip(t *testing.T) {
	store, _ := newTestStore(t)
	cache := NewNoteCache(store, "note", 5*time.Minute, zaptest.NewLogger(t))
	ctx := context.Background()

	note := testNote()
	if outcome := cache.Put(ctx, note); outcome != port.OutcomeOK {
		t.Fatalf("Put outcome = %v, want ok", outcome)
	}

	got, outcome := cache.Get(ctx, note.ID)
	if outcome != port.OutcomeOK {
		t.Fatalf("Get outcome = %v, want ok", outcome)
	}
	if !reflect.DeepEqual(*got, note) {
		t.Fatalf("Get returned %+v, want %+v", *got, note)
	}
}

func TestNoteCacheEntryExpires(t *testing.T) {
	store, server := newTestStore(t)
	cache := NewNoteCache(store, "note", 5*time.Second, zaptest.NewLogger(t))
	ctx := context.Background()

	if outcome := cache.Put(ctx, testNote()); outcome != port.OutcomeOK {
		t.Fatalf("Put failed")
	}

	server.FastForward(4 * time.Second)
	if _, outcome := cache.Get(ctx, 7); outcome != port.OutcomeOK {
		t.Fatalf("entry should still be live at t=4s")
	}

	server.FastForward(2 * time.Second)
	if _, outcome := cache.Get(ctx, 7); outcome != port.OutcomeAbsent {
		t.Fatalf("entry should have expired at t=6s")
	}
}

func TestNoteCacheInvalidate(t *testing.T) {
	store, _ := newTestStore(t)
	cache := NewNoteCache(store, "note", 5*time.Minute, zaptest.NewLogger(t))
	ctx := context.Background()

	if outcome := cache.Put(ctx, testNote()); outcome != port.OutcomeOK {
		t.Fatalf("Put failed")
	}
	if outcome := cache.Invalidate(ctx, 7); outcome != port.OutcomeOK {
		t.Fatalf("Invalidate failed")
	}
	if _, outcome := cache.Get(ctx, 7); outcome != port.OutcomeAbsent {
		t.Fatalf("expected miss after invalidation")
	}

	// Invalidating an absent entry is a no-op success.
	if outcome := cache.Invalidate(ctx, 7); outcome != port.OutcomeOK {
		t.Fatalf("repeat Invalidate should succeed")
	}
}

func TestNoteCacheDropsCorruptEntry(t *testing.T) {
	store, server := newTestStore(t)
	cache := NewNoteCache(store, "note", 5*time.Minute, zaptest.NewLogger(t))

	if err := server.Set("note:7", "{not json"); err != nil {
		t.Fatalf("seed corrupt entry: %v", err)
	}

	if _, outcome := cache.Get(context.Background(), 7); outcome != port.OutcomeAbsent {
		t.Fatalf("corrupt entry should read as a miss")
	}
	if server.Exists("note:7") {
		t.Fatalf("corrupt entry should have been dropped")
	}
}

func TestNoteCacheUnavailableStore(t *testing.T) {
	store, server := newTestStore(t)
	cache := NewNoteCache(store, "note", 5*time.Minute, zaptest.NewLogger(t))
	server.Close()

	if _, outcome := cache.Get(context.Background(), 7); outcome != port.OutcomeUnavailable {
		t.Fatalf("expected unavailable outcome on dead store")
	}
	if outcome := cache.Put(context.Background(), testNote()); outcome != port.OutcomeUnavailable {
		t.Fatalf("Put on dead store should report unavailable")
	}
}
