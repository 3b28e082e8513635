package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.RateLimit.Limit != 100 {
		t.Fatalf("rate_limit.limit default = %d, want 100", cfg.RateLimit.Limit)
	}
	if cfg.RateLimit.Window != 10*time.Minute {
		t.Fatalf("rate_limit.window default = %v, want 10m", cfg.RateLimit.Window)
	}
	if cfg.Cache.NoteTTL != 5*time.Minute {
		t.Fatalf("cache.note_ttl default = %v, want 5m", cfg.Cache.NoteTTL)
	}
	if cfg.Recent.Limit != 5 {
		t.Fatalf("recent.limit default = %d, want 5", cfg.Recent.Limit)
	}
	if cfg.Redis.OpTimeout != 150*time.Millisecond {
		t.Fatalf("redis.op_timeout default = %v, want 150ms", cfg.Redis.OpTimeout)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("NOTES_RATE_LIMIT_LIMIT", "3")
	t.Setenv("NOTES_RATE_LIMIT_WINDOW", "10s")
	t.Setenv("NOTES_RECENT_LIMIT", "2")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.RateLimit.Limit != 3 {
		t.Fatalf("rate_limit.limit = %d, want 3", cfg.RateLimit.Limit)
	}
	if cfg.RateLimit.Window != 10*time.Second {
		t.Fatalf("rate_limit.window = %v, want 10s", cfg.RateLimit.Window)
	}
	if cfg.Recent.Limit != 2 {
		t.Fatalf("recent.limit = %d, want 2", cfg.Recent.Limit)
	}
}
