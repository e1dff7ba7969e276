package store

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"autoparts.dev/storefront/internal/pkg/logger"
)

// Change describes a committed write.
type Change struct {
	Key     string `json:"key"`
	Value   []byte `json:"value,omitempty"`
	Removed bool   `json:"removed,omitempty"`
	// Origin is the writer tag set with WithOrigin, if any.
	Origin string `json:"origin,omitempty"`
}

// Handler reacts to a change.
type Handler func(ctx context.Context, ch Change) error

type subscription struct {
	id      uint64
	prefix  string
	handler Handler
}

// Bus routes changes to subscribers whose prefix matches the changed key.
// It replaces the browser's cross-tab "storage" event.
type Bus struct {
	mu     sync.RWMutex
	subs   []subscription
	nextID uint64
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers handler for keys starting with prefix and returns a
// function that removes the subscription. The function is safe to call twice.
func (b *Bus) Subscribe(prefix string, handler Handler) func() {
	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.subs = append(b.subs, subscription{id: id, prefix: prefix, handler: handler})
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		for i, s := range b.subs {
			if s.id == id {
				b.subs = append(b.subs[:i:i], b.subs[i+1:]...)
				return
			}
		}
	}
}

// Subscribers returns the number of active subscriptions.
func (b *Bus) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// Publish delivers ch to every matching subscriber in registration order.
// Delivery is best-effort: a failing or panicking handler is logged and the
// remaining handlers still run. The first handler error is returned.
func (b *Bus) Publish(ctx context.Context, ch Change) error {
	b.mu.RLock()
	matched := make([]subscription, 0, len(b.subs))
	for _, s := range b.subs {
		if strings.HasPrefix(ch.Key, s.prefix) {
			matched = append(matched, s)
		}
	}
	b.mu.RUnlock()

	var firstErr error
	for _, s := range matched {
		if err := b.deliver(ctx, s, ch); err != nil {
			logger.Warn("Change handler failed",
				zap.String("key", ch.Key),
				zap.String("prefix", s.prefix),
				zap.Error(err),
			)
			if firstErr == nil {
				firstErr = fmt.Errorf("handler for %s failed: %w", ch.Key, err)
			}
		}
	}
	return firstErr
}

func (b *Bus) deliver(ctx context.Context, s subscription, ch Change) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panic: %v", r)
		}
	}()
	return s.handler(ctx, ch)
}

// Notifying wraps a Store so that successful writes are published on a Bus.
type Notifying struct {
	Store
	bus *Bus
}

// NewNotifying returns s with change notifications published on bus.
func NewNotifying(s Store, bus *Bus) *Notifying {
	return &Notifying{Store: s, bus: bus}
}

// Set implements Store and publishes the change after a successful write.
func (n *Notifying) Set(ctx context.Context, key string, value []byte) error {
	if err := n.Store.Set(ctx, key, value); err != nil {
		return err
	}
	_ = n.bus.Publish(ctx, Change{Key: key, Value: value, Origin: OriginFrom(ctx)})
	return nil
}

// Remove implements Store and publishes the removal after it succeeds.
func (n *Notifying) Remove(ctx context.Context, key string) error {
	if err := n.Store.Remove(ctx, key); err != nil {
		return err
	}
	_ = n.bus.Publish(ctx, Change{Key: key, Removed: true, Origin: OriginFrom(ctx)})
	return nil
}

// Bus returns the bus changes are published on.
func (n *Notifying) Bus() *Bus {
	return n.bus
}
