package codestore

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

// newTestRedis starts an in-process miniredis and returns a store backed
// by it plus the miniredis handle for clock control.
func newTestRedis(t *testing.T) (*Redis, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewRedis(client), mr
}

func TestRedis_SetGetDelete(t *testing.T) {
	store, _ := newTestRedis(t)
	ctx := context.Background()

	if err := store.Set(ctx, "User@Example.com", "123456", 10*time.Minute); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Key is case-insensitive, read is non-consuming.
	for i := 0; i < 2; i++ {
		code, err := store.Get(ctx, "user@example.com")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if code != "123456" {
			t.Errorf("expected 123456, got %s", code)
		}
	}

	if err := store.Delete(ctx, "user@example.com"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := store.Get(ctx, "user@example.com"); err != ErrNoCode {
		t.Fatalf("expected ErrNoCode after delete, got %v", err)
	}
}

func TestRedis_Expiry(t *testing.T) {
	store, mr := newTestRedis(t)
	ctx := context.Background()

	if err := store.Set(ctx, "user@example.com", "123456", 10*time.Minute); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	mr.FastForward(11 * time.Minute)

	if _, err := store.Get(ctx, "user@example.com"); err != ErrNoCode {
		t.Fatalf("expected ErrNoCode after TTL, got %v", err)
	}
}

func TestRedis_Overwrite(t *testing.T) {
	store, _ := newTestRedis(t)
	ctx := context.Background()

	store.Set(ctx, "user@example.com", "111111", 10*time.Minute)
	store.Set(ctx, "user@example.com", "222222", 10*time.Minute)

	code, err := store.Get(ctx, "user@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if code != "222222" {
		t.Errorf("expected the newer code 222222, got %s", code)
	}
}
