package redis

import (
	"bytes"
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	red "github.com/redis/go-redis/v9"
	"go.uber.org/zap/zaptest"

	"github.com/NgariMwangi/Notes-API/internal/core/port"
)

func newTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()

	server, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}

	client := red.NewClient(&red.Options{
		Addr:        server.Addr(),
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})

	t.Cleanup(func() {
		_ = client.Close()
		server.Close()
	})

	return NewStore(client, 200*time.Millisecond, zaptest.NewLogger(t)), server
}

func TestStoreSetGetRoundtrip(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	payload := []byte(`{"id":7,"title":"groceries"}`)
	if outcome := store.Set(ctx, "note:7", payload, time.Minute); outcome != port.OutcomeOK {
		t.Fatalf("Set outcome = %v, want ok", outcome)
	}

	data, outcome := store.Get(ctx, "note:7")
	if outcome != port.OutcomeOK {
		t.Fatalf("Get outcome = %v, want ok", outcome)
	}
	if !bytes.Equal(data, payload) {
		t.Fatalf("Get returned %q, want %q", data, payload)
	}
}

func TestStoreGetAbsent(t *testing.T) {
	store, _ := newTestStore(t)

	data, outcome := store.Get(context.Background(), "note:missing")
	if outcome != port.OutcomeAbsent {
		t.Fatalf("Get outcome = %v, want absent", outcome)
	}
	if data != nil {
		t.Fatalf("expected nil data, got %q", data)
	}
}

func TestStoreDeleteIsIdempotent(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	if outcome := store.Set(ctx, "note:1", []byte("x"), time.Minute); outcome != port.OutcomeOK {
		t.Fatalf("Set outcome = %v, want ok", outcome)
	}

	if outcome := store.Delete(ctx, "note:1"); outcome != port.OutcomeOK {
		t.Fatalf("first Delete outcome = %v, want ok", outcome)
	}
	if outcome := store.Delete(ctx, "note:1"); outcome != port.OutcomeOK {
		t.Fatalf("second Delete outcome = %v, want ok", outcome)
	}

	if _, outcome := store.Get(ctx, "note:1"); outcome != port.OutcomeAbsent {
		t.Fatalf("Get outcome after delete = %v, want absent", outcome)
	}
}

func TestStoreIncrCreatesAndCounts(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	for want := int64(1); want <= 3; want++ {
		count, outcome := store.Incr(ctx, "rate:ip:192.0.2.1")
		if outcome != port.OutcomeOK {
			t.Fatalf("Incr outcome = %v, want ok", outcome)
		}
		if count != want {
			t.Fatalf("Incr returned %d, want %d", count, want)
		}
	}
}

func TestStoreExpireIfUnsetDoesNotExtend(t *testing.T) {
	store, server := newTestStore(t)
	ctx := context.Background()

	if _, outcome := store.Incr(ctx, "rate:ip:a"); outcome != port.OutcomeOK {
		t.Fatalf("Incr failed")
	}
	if outcome := store.ExpireIfUnset(ctx, "rate:ip:a", 10*time.Second); outcome != port.OutcomeOK {
		t.Fatalf("first ExpireIfUnset failed")
	}

	server.FastForward(3 * time.Second)

	// A second NX expire must leave the running window untouched.
	if outcome := store.ExpireIfUnset(ctx, "rate:ip:a", 10*time.Second); outcome != port.OutcomeOK {
		t.Fatalf("second ExpireIfUnset failed")
	}

	if ttl := server.TTL("rate:ip:a"); ttl != 7*time.Second {
		t.Fatalf("TTL = %v, want 7s", ttl)
	}
}

func TestStorePushDedupTrim(t *testing.T) {
	store, server := newTestStore(t)
	ctx := context.Background()

	for _, member := range []string{"1", "2", "1", "3"} {
		if outcome := store.PushDedupTrim(ctx, "recent:ip:a", member, 5, time.Minute); outcome != port.OutcomeOK {
			t.Fatalf("PushDedupTrim(%s) failed", member)
		}
	}

	values, outcome := store.ListRead(ctx, "recent:ip:a", 5)
	if outcome != port.OutcomeOK {
		t.Fatalf("ListRead outcome = %v, want ok", outcome)
	}

	want := []string{"3", "1", "2"}
	if len(values) != len(want) {
		t.Fatalf("ListRead returned %v, want %v", values, want)
	}
	for i := range want {
		if values[i] != want[i] {
			t.Fatalf("ListRead returned %v, want %v", values, want)
		}
	}

	if ttl := server.TTL("recent:ip:a"); ttl != time.Minute {
		t.Fatalf("TTL = %v, want 1m", ttl)
	}
}

func TestStorePushDedupTrimBounds(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	for _, member := range []string{"1", "2", "3", "4"} {
		if outcome := store.PushDedupTrim(ctx, "recent:ip:b", member, 2, time.Minute); outcome != port.OutcomeOK {
			t.Fatalf("PushDedupTrim(%s) failed", member)
		}
	}

	values, outcome := store.ListRead(ctx, "recent:ip:b", 2)
	if outcome != port.OutcomeOK {
		t.Fatalf("ListRead outcome = %v, want ok", outcome)
	}
	if len(values) != 2 || values[0] != "4" || values[1] != "3" {
		t.Fatalf("ListRead returned %v, want [4 3]", values)
	}
}

func TestStoreReportsUnavailable(t *testing.T) {
	store, server := newTestStore(t)
	ctx := context.Background()
	server.Close()

	if _, outcome := store.Get(ctx, "k"); outcome != port.OutcomeUnavailable {
		t.Fatalf("Get outcome = %v, want unavailable", outcome)
	}
	if outcome := store.Set(ctx, "k", []byte("v"), time.Minute); outcome != port.OutcomeUnavailable {
		t.Fatalf("Set outcome = %v, want unavailable", outcome)
	}
	if outcome := store.Delete(ctx, "k"); outcome != port.OutcomeUnavailable {
		t.Fatalf("Delete outcome = %v, want unavailable", outcome)
	}
	if _, outcome := store.Incr(ctx, "k"); outcome != port.OutcomeUnavailable {
		t.Fatalf("Incr outcome = %v, want unavailable", outcome)
	}
	if outcome := store.PushDedupTrim(ctx, "k", "1", 5, time.Minute); outcome != port.OutcomeUnavailable {
		t.Fatalf("PushDedupTrim outcome = %v, want unavailable", outcome)
	}
	if _, outcome := store.ListRead(ctx, "k", 5); outcome != port.OutcomeUnavailable {
		t.Fatalf("ListRead outcome = %v, want unavailable", outcome)
	}
}
