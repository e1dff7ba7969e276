package store

import (
	"context"
	"strings"
)

const contextPrefix = "ctx/"

// ContextPrefix returns the key prefix of a browser context namespace.
func ContextPrefix(contextID string) string {
	return contextPrefix + contextID + "/"
}

// ContextKey returns the absolute key of key inside a browser context.
func ContextKey(contextID, key string) string {
	return ContextPrefix(contextID) + key
}

// SplitContextKey is the inverse of ContextKey. ok is false for global keys.
func SplitContextKey(absKey string) (contextID, key string, ok bool) {
	rest, found := strings.CutPrefix(absKey, contextPrefix)
	if !found {
		return "", "", false
	}
	contextID, key, ok = strings.Cut(rest, "/")
	return contextID, key, ok
}

// Scoped is the namespaced view of one browser context, the equivalent of an
// origin's local storage. Keys passed to and returned from it are relative.
type Scoped struct {
	base      Store
	contextID string
	prefix    string
}

// NewScoped returns the view of contextID over base.
func NewScoped(base Store, contextID string) *Scoped {
	return &Scoped{base: base, contextID: contextID, prefix: ContextPrefix(contextID)}
}

// ContextID returns the browser context this view belongs to.
func (s *Scoped) ContextID() string {
	return s.contextID
}

// Get implements Store.
func (s *Scoped) Get(ctx context.Context, key string) ([]byte, error) {
	return s.base.Get(ctx, s.prefix+key)
}

// Set implements Store.
func (s *Scoped) Set(ctx context.Context, key string, value []byte) error {
	return s.base.Set(ctx, s.prefix+key, value)
}

// Remove implements Store.
func (s *Scoped) Remove(ctx context.Context, key string) error {
	return s.base.Remove(ctx, s.prefix+key)
}

// Keys implements Store; returned keys are relative to the namespace.
func (s *Scoped) Keys(ctx context.Context, prefix string) ([]string, error) {
	keys, err := s.base.Keys(ctx, s.prefix+prefix)
	if err != nil {
		return nil, err
	}
	for i, k := range keys {
		keys[i] = strings.TrimPrefix(k, s.prefix)
	}
	return keys, nil
}

// Close is a no-op; the base store is owned elsewhere.
func (s *Scoped) Close() error {
	return nil
}
