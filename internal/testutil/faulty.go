package testutil

import (
	"context"
	"errors"
	"sync"

	"autoparts.dev/storefront/internal/store"
)

// ErrInjected is the failure returned by FaultyStore.
var ErrInjected = errors.New("injected storage failure")

// FaultyStore wraps a store and fails selected keys, standing in for a quota
// exceeded or disabled browser storage.
type FaultyStore struct {
	store.Store

	mu       sync.Mutex
	failGet  map[string]bool
	failSet  map[string]bool
	failAll  bool
	SetCalls int
}

// NewFaultyStore wraps base. With no failures configured it behaves like base.
func NewFaultyStore(base store.Store) *FaultyStore {
	return &FaultyStore{Store: base, failGet: map[string]bool{}, failSet: map[string]bool{}}
}

// FailGet makes reads of key fail.
func (f *FaultyStore) FailGet(key string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failGet[key] = true
}

// FailSet makes writes of key fail.
func (f *FaultyStore) FailSet(key string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failSet[key] = true
}

// FailAll makes every operation fail.
func (f *FaultyStore) FailAll() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failAll = true
}

// Get implements store.Store.
func (f *FaultyStore) Get(ctx context.Context, key string) ([]byte, error) {
	f.mu.Lock()
	fail := f.failAll || f.failGet[key]
	f.mu.Unlock()
	if fail {
		return nil, ErrInjected
	}
	return f.Store.Get(ctx, key)
}

// Set implements store.Store.
func (f *FaultyStore) Set(ctx context.Context, key string, value []byte) error {
	f.mu.Lock()
	f.SetCalls++
	fail := f.failAll || f.failSet[key]
	f.mu.Unlock()
	if fail {
		return ErrInjected
	}
	return f.Store.Set(ctx, key, value)
}

// Remove implements store.Store.
func (f *FaultyStore) Remove(ctx context.Context, key string) error {
	f.mu.Lock()
	fail := f.failAll || f.failSet[key]
	f.mu.Unlock()
	if fail {
		return ErrInjected
	}
	return f.Store.Remove(ctx, key)
}

// Keys implements store.Store.
func (f *FaultyStore) Keys(ctx context.Context, prefix string) ([]string, error) {
	f.mu.Lock()
	fail := f.failAll
	f.mu.Unlock()
	if fail {
		return nil, ErrInjected
	}
	return f.Store.Keys(ctx, prefix)
}
