package utils

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis run failed: %v", err)
	}
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		_ = rdb.Close()
		mr.Close()
	})
	return mr, rdb
}

func TestAllowInWindow_EnforcesLimit(t *testing.T) {
	mr, rdb := newTestRedis(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		ok, err := AllowInWindow(ctx, rdb, "verify:alice", 3, time.Minute)
		if err != nil {
			t.Fatalf("allow: %v", err)
		}
		if !ok {
			t.Fatalf("hit %d: expected allowed", i+1)
		}
	}
	ok, err := AllowInWindow(ctx, rdb, "verify:alice", 3, time.Minute)
	if err != nil {
		t.Fatalf("allow: %v", err)
	}
	if ok {
		t.Fatalf("expected 4th hit rejected")
	}

	// Other keys have their own window.
	if ok, _ := AllowInWindow(ctx, rdb, "verify:bob", 3, time.Minute); !ok {
		t.Fatalf("expected bob allowed")
	}

	if ttl := mr.TTL("verify:alice"); ttl <= 0 || ttl > time.Minute {
		t.Fatalf("expected ttl within window, got %v", ttl)
	}

	mr.FastForward(time.Minute + time.Second)
	if ok, _ := AllowInWindow(ctx, rdb, "verify:alice", 3, time.Minute); !ok {
		t.Fatalf("expected allowed after window elapsed")
	}
}

func TestAllowInWindow_RestoresMissingTTL(t *testing.T) {
	mr, rdb := newTestRedis(t)

	if err := mr.Set("verify:carol", "1"); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if _, err := AllowInWindow(context.Background(), rdb, "verify:carol", 5, time.Minute); err != nil {
		t.Fatalf("allow: %v", err)
	}
	if ttl := mr.TTL("verify:carol"); ttl <= 0 {
		t.Fatalf("expected ttl restored, got %v", ttl)
	}
}

func TestAllowInWindow_ValidatesArguments(t *testing.T) {
	_, rdb := newTestRedis(t)
	ctx := context.Background()

	if _, err := AllowInWindow(ctx, nil, "k", 1, time.Second); err == nil {
		t.Fatalf("expected error for nil client")
	}
	if _, err := AllowInWindow(ctx, rdb, "", 1, time.Second); err == nil {
		t.Fatalf("expected error for empty key")
	}
	if _, err := AllowInWindow(ctx, rdb, "k", 0, time.Second); err == nil {
		t.Fatalf("expected error for zero limit")
	}
	if _, err := AllowInWindow(ctx, rdb, "k", 1, 0); err == nil {
		t.Fatalf("expected error for zero window")
	}
}

func TestOpenRedis_PingsServer(t *testing.T) {
	mr, _ := newTestRedis(t)

	rdb, err := OpenRedis(context.Background(), RedisConfig{Addr: mr.Addr()})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	_ = rdb.Close()

	if _, err := OpenRedis(context.Background(), RedisConfig{}); err == nil {
		t.Fatalf("expected error for empty addr")
	}
}
