// Package audit keeps an append-only trail of account and marketplace actions.
//
// Records are grouped into one list per UTC day under store.AuditKey so a day
// can be read or archived on its own. Records are never edited or removed.
package audit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"autoparts.dev/storefront/internal/pkg/logger"
	"autoparts.dev/storefront/internal/store"
)

// Actions recorded by the API.
const (
	ActionLogin         = "auth.login"
	ActionLoginFailed   = "auth.login_failed"
	ActionRegister      = "auth.register"
	ActionLogout        = "auth.logout"
	ActionProfileUpdate = "profile.update"
	ActionOrderPlace    = "order.place"
	ActionRecordCreate  = "marketplace.create"
)

// Record is one audited action.
type Record struct {
	ID           string         `json:"id"`
	Action       string         `json:"action"`
	ResourceType string         `json:"resource_type"`
	ResourceID   string         `json:"resource_id,omitempty"`
	Actor        string         `json:"actor,omitempty"`
	Details      map[string]any `json:"details,omitempty"`
	At           time.Time      `json:"at"`
}

// Logger writes audit records to a store.
type Logger struct {
	store store.Store
	now   func() time.Time

	mu sync.Mutex
}

// NewLogger creates a new audit Logger.
func NewLogger(s store.Store) *Logger {
	return &Logger{store: s, now: time.Now}
}

// LogAction records an auditable action.
func (l *Logger) LogAction(ctx context.Context, action, resourceType, resourceID, actor string, details map[string]any) error {
	now := l.now().UTC()
	rec := Record{
		ID:           ulid.MustNew(ulid.Timestamp(now), ulid.DefaultEntropy()).String(),
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		Actor:        actor,
		Details:      details,
		At:           now,
	}
	key := store.AuditKey(now.Format(time.DateOnly))

	l.mu.Lock()
	defer l.mu.Unlock()

	day, err := l.day(ctx, key)
	if err != nil {
		return l.failed(rec, err)
	}
	raw, err := json.Marshal(append(day, rec))
	if err != nil {
		return l.failed(rec, err)
	}
	if err := l.store.Set(ctx, key, raw); err != nil {
		return l.failed(rec, err)
	}
	return nil
}

func (l *Logger) failed(rec Record, err error) error {
	logger.Error("Failed to write audit log",
		zap.String("action", rec.Action),
		zap.String("resource_type", rec.ResourceType),
		zap.String("resource_id", rec.ResourceID),
		zap.Error(err),
	)
	return fmt.Errorf("write audit log: %w", err)
}

// day reads the records under key; l.mu must be held.
func (l *Logger) day(ctx context.Context, key string) ([]Record, error) {
	raw, err := l.store.Get(ctx, key)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var recs []Record
	if err := json.Unmarshal(raw, &recs); err != nil {
		return nil, fmt.Errorf("decode %s: %w", key, err)
	}
	return recs, nil
}

// Recent returns up to limit records, newest first.
func (l *Logger) Recent(ctx context.Context, limit int) ([]Record, error) {
	keys, err := l.store.Keys(ctx, store.AuditPrefix)
	if err != nil {
		return nil, fmt.Errorf("list audit days: %w", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	var out []Record
	for i := len(keys) - 1; i >= 0 && len(out) < limit; i-- {
		day, err := l.day(ctx, keys[i])
		if err != nil {
			logger.Warn("Skipping unreadable audit day", zap.String("key", keys[i]), zap.Error(err))
			continue
		}
		slices.Reverse(day)
		out = append(out, day[:min(len(day), limit-len(out))]...)
	}
	return out, nil
}
