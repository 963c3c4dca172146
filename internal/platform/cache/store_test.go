package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
)

func TestStore_GetOrLoad_SharesConcurrentLoads(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	var calls atomic.Int32
	release := make(chan struct{})
	loader := func(context.Context) (any, error) {
		calls.Add(1)
		<-release
		return []string{"W1", "E1"}, nil
	}

	results := make([]any, 16)
	var wg sync.WaitGroup
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := store.GetOrLoad(context.Background(), "matchup:round:1", loader)
			if err != nil {
				t.Errorf("GetOrLoad: %v", err)
			}
			results[i] = v
		}()
	}
	time.Sleep(10 * time.Millisecond)
	close(release)
	wg.Wait()

	if got := calls.Load(); got != 1 {
		t.Fatalf("loader called %d times, want 1", got)
	}
	for i, v := range results {
		if codes, _ := v.([]string); len(codes) != 2 {
			t.Fatalf("caller %d got %v", i, v)
		}
	}

	if _, err := store.GetOrLoad(context.Background(), "matchup:round:1", loader); err != nil {
		t.Fatalf("cached GetOrLoad: %v", err)
	}
	if got := calls.Load(); got != 1 {
		t.Fatalf("cached read must not call loader, got %d calls", got)
	}
}

func TestStore_ExpiresAfterTTL(t *testing.T) {
	t.Parallel()

	clock := clockwork.NewFakeClockAt(time.Date(2025, 4, 10, 0, 0, 0, 0, time.UTC))
	store := NewStoreWithClock(time.Minute, clock)
	ctx := context.Background()

	store.Set(ctx, "leaderboard:all", 42)
	clock.Advance(59 * time.Second)
	if v, ok := store.Get(ctx, "leaderboard:all"); !ok || v.(int) != 42 {
		t.Fatalf("expected cached value before ttl, got %v %v", v, ok)
	}

	clock.Advance(time.Second)
	if _, ok := store.Get(ctx, "leaderboard:all"); ok {
		t.Fatalf("expected entry to expire at ttl")
	}
}

func TestStore_DeletePrefix(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	ctx := context.Background()
	store.Set(ctx, "players:list:all", 1)
	store.Set(ctx, "players:ids:a", 2)
	store.Set(ctx, "teams:list", 3)

	store.DeletePrefix(ctx, "players:")
	if _, ok := store.Get(ctx, "players:list:all"); ok {
		t.Fatalf("expected players entries to be removed")
	}
	if _, ok := store.Get(ctx, "teams:list"); !ok {
		t.Fatalf("unrelated entry must survive")
	}
}

func TestStore_InvalidationDuringLoadIsNotStored(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	ctx := context.Background()

	v, err := store.GetOrLoad(ctx, "result:list", func(ctx context.Context) (any, error) {
		store.DeletePrefix(ctx, "result:")
		return "stale", nil
	})
	if err != nil || v != "stale" {
		t.Fatalf("expected loaded value to be returned, got %v %v", v, err)
	}
	if _, ok := store.Get(ctx, "result:list"); ok {
		t.Fatalf("value loaded across an invalidation must not be cached")
	}
}

func TestStore_LoaderErrorsAreNotCached(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	ctx := context.Background()
	errDown := errors.New("db down")

	if _, err := store.GetOrLoad(ctx, "team:list", func(context.Context) (any, error) { return nil, errDown }); !errors.Is(err, errDown) {
		t.Fatalf("expected loader error, got %v", err)
	}
	if store.Len() != 0 {
		t.Fatalf("failed load must not populate the cache")
	}
	if _, err := store.GetOrLoad(ctx, "team:list", nil); err == nil {
		t.Fatalf("expected error for nil loader")
	}
}

func TestLoad_Typed(t *testing.T) {
	t.Parallel()

	store := NewStore(0)
	ctx := context.Background()
	calls := 0
	loader := func(context.Context) ([]string, error) {
		calls++
		return []string{"WPG", "DAL"}, nil
	}

	for i := 0; i < 2; i++ {
		got, err := Load(ctx, store, "team:codes", loader)
		if err != nil {
			t.Fatalf("load: %v", err)
		}
		if len(got) != 2 || got[0] != "WPG" {
			t.Fatalf("unexpected value: %v", got)
		}
	}
	if calls != 1 {
		t.Fatalf("loader called %d times, want 1", calls)
	}
}
