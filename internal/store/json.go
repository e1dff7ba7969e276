package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"autoparts.dev/storefront/internal/pkg/logger"
)

// LoadJSON decodes the value under key into v. It reports false, leaving v
// untouched, when the key is absent, the backend fails or the stored value is
// not valid JSON for v. Failures other than absence are logged, never returned.
func LoadJSON(ctx context.Context, s Store, key string, v any) bool {
	raw, err := s.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			logger.Warn("Persisted value unreadable, using default",
				zap.String("key", key),
				zap.Error(err),
			)
		}
		return false
	}
	if err := json.Unmarshal(raw, v); err != nil {
		logger.Warn("Persisted value corrupt, using default",
			zap.String("key", key),
			zap.Error(err),
		)
		return false
	}
	return true
}

// ErrUnreadable marks a stored value that exists but could not be read or
// decoded. Read-modify-write callers must not save over it.
var ErrUnreadable = errors.New("store: stored value unreadable")

// ReadJSON decodes the value under key into v ahead of a read-modify-write.
// An absent key reports false and a nil error. A backend failure or an
// undecodable value is returned wrapped in ErrUnreadable.
func ReadJSON(ctx context.Context, s Store, key string, v any) (bool, error) {
	raw, err := s.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: read %s: %w", ErrUnreadable, key, err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return false, fmt.Errorf("%w: decode %s: %w", ErrUnreadable, key, err)
	}
	return true, nil
}

// SaveJSON encodes v under key. Failures are logged and reported as false;
// in-memory state stays authoritative for the rest of the session.
func SaveJSON(ctx context.Context, s Store, key string, v any) bool {
	raw, err := json.Marshal(v)
	if err != nil {
		logger.Warn("Value not serialisable, skipping persistence",
			zap.String("key", key),
			zap.Error(err),
		)
		return false
	}
	if err := s.Set(ctx, key, raw); err != nil {
		logger.Warn("Persisting value failed",
			zap.String("key", key),
			zap.Error(err),
		)
		return false
	}
	return true
}

// RemoveQuiet removes key, logging instead of returning failures.
func RemoveQuiet(ctx context.Context, s Store, key string) {
	if err := s.Remove(ctx, key); err != nil {
		logger.Warn("Removing persisted value failed",
			zap.String("key", key),
			zap.Error(err),
		)
	}
}
