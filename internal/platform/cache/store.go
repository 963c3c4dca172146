// Package cache is the in-process read-through cache behind the repository
// decorators.
package cache

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/singleflight"
)

var errNoLoader = errors.New("loader is required")

type item struct {
	value   any
	expires time.Time // zero means no expiry
}

// Store keeps values for a fixed TTL. Concurrent misses on one key share one
// loader call, and a load that overlaps an invalidation is returned to its
// callers but not stored.
type Store struct {
	ttl   time.Duration
	clock clockwork.Clock

	mu    sync.RWMutex
	items map[string]item
	epoch uint64

	flight singleflight.Group
}

func NewStore(ttl time.Duration) *Store {
	return NewStoreWithClock(ttl, clockwork.NewRealClock())
}

func NewStoreWithClock(ttl time.Duration, clock clockwork.Clock) *Store {
	return &Store{ttl: ttl, clock: clock, items: make(map[string]item)}
}

func (s *Store) Get(_ context.Context, key string) (any, bool) {
	if key == "" {
		return nil, false
	}
	s.mu.RLock()
	it, ok := s.items[key]
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if !it.expires.IsZero() && !s.clock.Now().Before(it.expires) {
		s.mu.Lock()
		if cur, ok := s.items[key]; ok && cur.expires.Equal(it.expires) {
			delete(s.items, key)
		}
		s.mu.Unlock()
		return nil, false
	}
	return it.value, true
}

func (s *Store) Set(_ context.Context, key string, value any) {
	if key == "" {
		return
	}
	s.mu.Lock()
	s.items[key] = s.newItem(value)
	s.mu.Unlock()
}

func (s *Store) Delete(_ context.Context, key string) {
	s.mu.Lock()
	delete(s.items, key)
	s.epoch++
	s.mu.Unlock()
}

func (s *Store) DeletePrefix(_ context.Context, prefix string) {
	if prefix == "" {
		return
	}
	s.mu.Lock()
	for key := range s.items {
		if strings.HasPrefix(key, prefix) {
			delete(s.items, key)
		}
	}
	s.epoch++
	s.mu.Unlock()
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// GetOrLoad returns the cached value for key or calls loader once to fill it.
// An empty key bypasses the cache. Loader errors are not cached.
func (s *Store) GetOrLoad(ctx context.Context, key string, loader func(context.Context) (any, error)) (any, error) {
	if loader == nil {
		return nil, errNoLoader
	}
	if key == "" {
		return loader(ctx)
	}
	if v, ok := s.Get(ctx, key); ok {
		return v, nil
	}

	v, err, _ := s.flight.Do(key, func() (any, error) {
		if v, ok := s.Get(ctx, key); ok {
			return v, nil
		}

		s.mu.RLock()
		epoch := s.epoch
		s.mu.RUnlock()

		v, err := loader(ctx)
		if err != nil {
			return nil, err
		}

		s.mu.Lock()
		if s.epoch == epoch {
			s.items[key] = s.newItem(v)
		}
		s.mu.Unlock()
		return v, nil
	})
	return v, err
}

func (s *Store) newItem(value any) item {
	it := item{value: value}
	if s.ttl > 0 {
		it.expires = s.clock.Now().Add(s.ttl)
	}
	return it
}

// Load is the typed form of GetOrLoad.
func Load[T any](ctx context.Context, s *Store, key string, loader func(context.Context) (T, error)) (T, error) {
	v, err := s.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		return loader(ctx)
	})
	if err != nil {
		var zero T
		return zero, err
	}
	out, _ := v.(T)
	return out, nil
}
