package cache

import (
	"context"
	"errors"
	"testing"
)

func TestMemoryStore_SetGetRemove(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	if _, ok, err := s.Get(ctx, "local_teams"); err != nil || ok {
		t.Fatalf("expected miss on empty store, got ok=%v err=%v", ok, err)
	}

	if err := s.Set(ctx, "local_teams", `[{"name":"Windhoek Warriors"}]`); err != nil {
		t.Fatalf("set: %v", err)
	}
	value, ok, err := s.Get(ctx, "local_teams")
	if err != nil || !ok {
		t.Fatalf("expected hit, got ok=%v err=%v", ok, err)
	}
	if value != `[{"name":"Windhoek Warriors"}]` {
		t.Fatalf("unexpected value: %s", value)
	}

	if err := s.Remove(ctx, "local_teams"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, ok, _ := s.Get(ctx, "local_teams"); ok {
		t.Fatalf("expected miss after remove")
	}
	if err := s.Remove(ctx, "local_teams"); err != nil {
		t.Fatalf("remove of missing key should be a no-op: %v", err)
	}
}

func TestMemoryStore_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewMemoryStore().Set(ctx, "k", "v")

	var cacheErr *CacheError
	if !errors.As(err, &cacheErr) {
		t.Fatalf("expected CacheError, got %v", err)
	}
	if cacheErr.Op != OpSet || cacheErr.Key != "k" {
		t.Fatalf("unexpected cache error fields: %+v", cacheErr)
	}
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected wrapped context.Canceled, got %v", err)
	}
}
