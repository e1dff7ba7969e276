package locale

import (
	"context"
	"encoding/json"
	"sync"

	"go.uber.org/zap"

	"autoparts.dev/storefront/internal/pkg/logger"
	"autoparts.dev/storefront/internal/store"
)

// Preferences is the language preference of one browser context.
//
// The preference lives under the context's "locale" key. Set writes through
// the store, whose bus tells every other view of the context; Watch is how
// such a view listens. When the store cannot be written the preference is
// still kept in memory.
type Preferences struct {
	scoped   *store.Scoped
	bus      *store.Bus
	fallback Lang

	mu      sync.RWMutex
	current Lang
}

// NewPreferences returns the preferences of the context scoped belongs to.
// bus may be nil when no other view needs to be told.
func NewPreferences(scoped *store.Scoped, bus *store.Bus, fallback Lang) *Preferences {
	if !fallback.Valid() {
		fallback = Default
	}
	return &Preferences{scoped: scoped, bus: bus, fallback: fallback}
}

// Stored returns the explicit preference, if any.
func (p *Preferences) Stored(ctx context.Context) (Lang, bool) {
	var s string
	if store.LoadJSON(ctx, p.scoped, store.KeyLocale, &s) {
		if l, ok := Parse(s); ok {
			p.mu.Lock()
			p.current = l
			p.mu.Unlock()
			return l, true
		}
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.current, p.current != ""
}

// Resolve returns the active language given the locale segment of the URL.
func (p *Preferences) Resolve(ctx context.Context, urlSegment string) Lang {
	stored, _ := p.Stored(ctx)
	return Resolve(string(stored), urlSegment, p.fallback)
}

// Set makes l the explicit preference.
func (p *Preferences) Set(ctx context.Context, l Lang) error {
	l, ok := Parse(string(l))
	if !ok {
		return ErrUnsupported
	}
	p.mu.Lock()
	p.current = l
	p.mu.Unlock()

	store.SaveJSON(ctx, p.scoped, store.KeyLocale, string(l))
	logger.Debug("Locale preference changed",
		zap.String("context_id", p.scoped.ContextID()),
		zap.String("lang", string(l)),
	)
	return nil
}

// Watch calls fn with the new language whenever the preference of this
// context is written, by this view or any other. The returned function stops
// watching.
func (p *Preferences) Watch(fn func(Lang)) func() {
	if p.bus == nil {
		return func() {}
	}
	key := store.ContextKey(p.scoped.ContextID(), store.KeyLocale)
	return p.bus.Subscribe(key, func(_ context.Context, ch store.Change) error {
		if ch.Key != key {
			return nil
		}
		if ch.Removed {
			p.mu.Lock()
			p.current = ""
			p.mu.Unlock()
			fn(p.fallback)
			return nil
		}
		var s string
		if err := json.Unmarshal(ch.Value, &s); err != nil {
			return err
		}
		l, ok := Parse(s)
		if !ok {
			return ErrUnsupported
		}
		p.mu.Lock()
		p.current = l
		p.mu.Unlock()
		fn(l)
		return nil
	})
}
