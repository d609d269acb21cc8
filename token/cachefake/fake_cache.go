package cachefake

import (
	"context"
	"sync"
	"time"

	"github.com/streamkit/go-twitch-client/token"
)

var _ token.Cache = (*FakeCache)(nil)

type entry struct {
	value     string
	expiresAt time.Time
	hasTTL    bool
}

// FakeCache is an in-memory token.Cache for tests.
type FakeCache struct {
	mu      sync.RWMutex
	entries map[string]entry
	nowFunc func() time.Time
	err     error
}

func New() *FakeCache {
	return &FakeCache{
		entries: make(map[string]entry),
		nowFunc: time.Now,
	}
}

// SetNowFunc overrides the clock used for TTL bookkeeping.
func (f *FakeCache) SetNowFunc(now func() time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nowFunc = now
}

// SetError makes every subsequent operation fail with err. Passing nil
// restores normal behaviour.
func (f *FakeCache) SetError(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

// Put seeds an entry directly, bypassing Set, with the given TTL.
func (f *FakeCache) Put(key, value string, ttl time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries[key] = entry{value: value, expiresAt: f.nowFunc().Add(ttl), hasTTL: true}
}

// PutWithoutTTL seeds an entry that has no recorded expiry, so TTL reports
// a miss for it.
func (f *FakeCache) PutWithoutTTL(key, value string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries[key] = entry{value: value}
}

func (f *FakeCache) Get(_ context.Context, key string) (string, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if f.err != nil {
		return "", f.err
	}
	e, ok := f.entries[key]
	if !ok || (e.hasTTL && f.nowFunc().After(e.expiresAt)) {
		return "", token.ErrCacheMiss
	}
	return e.value, nil
}

func (f *FakeCache) Set(_ context.Context, key, value string, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.err != nil {
		return f.err
	}
	f.entries[key] = entry{value: value, expiresAt: f.nowFunc().Add(ttl), hasTTL: true}
	return nil
}

func (f *FakeCache) TTL(_ context.Context, key string) (time.Duration, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if f.err != nil {
		return 0, f.err
	}
	e, ok := f.entries[key]
	if !ok || !e.hasTTL {
		return 0, token.ErrCacheMiss
	}
	remaining := e.expiresAt.Sub(f.nowFunc())
	if remaining <= 0 {
		return 0, token.ErrCacheMiss
	}
	return remaining, nil
}
