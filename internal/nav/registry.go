package nav

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"autoparts.dev/storefront/internal/pkg/logger"
	"autoparts.dev/storefront/internal/store"
)

// Registry keeps one Engine per browser context id. Engines are created on
// first use, rehydrated once, and dropped after IdleTimeout without use; a
// dropped context is rehydrated again from the store when it returns. An
// engine held through Acquire is never dropped by Sweep until released.
type Registry struct {
	base        store.Store
	opts        Options
	idleTimeout time.Duration
	now         func() time.Time

	mu      sync.Mutex
	engines map[string]*entry
}

type entry struct {
	engine   *Engine
	lastUsed time.Time
	pins     int
}

// NewRegistry creates a registry whose engines live in base. opts.Global
// defaults to base so stored profiles are shared by every context.
func NewRegistry(base store.Store, opts Options, idleTimeout time.Duration) *Registry {
	if opts.Global == nil {
		opts.Global = base
	}
	return &Registry{
		base:        base,
		opts:        opts,
		idleTimeout: idleTimeout,
		now:         time.Now,
		engines:     make(map[string]*entry),
	}
}

// Get returns the engine of contextID, creating and rehydrating it if needed.
func (r *Registry) Get(ctx context.Context, contextID string) *Engine {
	return r.lookup(ctx, contextID, false).engine
}

// Acquire is Get that also pins the engine against Sweep until release is
// called. release is safe to call more than once.
func (r *Registry) Acquire(ctx context.Context, contextID string) (e *Engine, release func()) {
	en := r.lookup(ctx, contextID, true)
	var once sync.Once
	return en.engine, func() {
		once.Do(func() {
			r.mu.Lock()
			defer r.mu.Unlock()
			en.pins--
			en.lastUsed = r.now()
		})
	}
}

func (r *Registry) lookup(ctx context.Context, contextID string, pin bool) *entry {
	if en := r.touch(contextID, pin); en != nil {
		return en
	}

	// Rehydration reads the store; other contexts are not held up by it.
	e := NewEngine(store.NewScoped(r.base, contextID), r.opts)
	e.Rehydrate(ctx)

	r.mu.Lock()
	defer r.mu.Unlock()
	en, ok := r.engines[contextID]
	if !ok {
		en = &entry{engine: e}
		r.engines[contextID] = en
	}
	en.lastUsed = r.now()
	if pin {
		en.pins++
	}
	return en
}

func (r *Registry) touch(contextID string, pin bool) *entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	en, ok := r.engines[contextID]
	if !ok {
		return nil
	}
	en.lastUsed = r.now()
	if pin {
		en.pins++
	}
	return en
}

// Len returns the number of live engines.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.engines)
}

// Forget drops the engine of contextID.
func (r *Registry) Forget(contextID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.engines, contextID)
}

// Sweep drops unpinned engines idle for longer than the idle timeout and
// returns how many were dropped. A non-positive timeout keeps every engine.
func (r *Registry) Sweep() int {
	if r.idleTimeout <= 0 {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := r.now().Add(-r.idleTimeout)
	dropped := 0
	for id, en := range r.engines {
		if en.pins == 0 && en.lastUsed.Before(cutoff) {
			delete(r.engines, id)
			dropped++
		}
	}
	if dropped > 0 {
		logger.Debug("Idle contexts dropped", zap.Int("count", dropped), zap.Int("remaining", len(r.engines)))
	}
	return dropped
}

// RunSweeper calls Sweep every interval until ctx is done.
func (r *Registry) RunSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 || r.idleTimeout <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Sweep()
		}
	}
}
