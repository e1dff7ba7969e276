package marketplace

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"autoparts.dev/storefront/internal/pkg/logger"
	"autoparts.dev/storefront/internal/store"
)

// envelope is the stored form of a record: its kind next to its fields.
type envelope struct {
	Kind   Kind            `json:"kind"`
	Record json.RawMessage `json:"record"`
}

// collection is a stored list of one record kind.
type collection[T Record] struct {
	key  string
	kind Kind
}

// load reads the collection for display; an unreadable collection is shown
// as empty.
func (c collection[T]) load(ctx context.Context, s store.Store) []T {
	var raw []envelope
	if !store.LoadJSON(ctx, s, c.key, &raw) {
		return []T{}
	}
	return c.decode(raw)
}

// read reads the collection ahead of an append. It fails, wrapping
// store.ErrUnreadable, when the stored list exists but cannot be read.
func (c collection[T]) read(ctx context.Context, s store.Store) ([]T, error) {
	var raw []envelope
	if _, err := store.ReadJSON(ctx, s, c.key, &raw); err != nil {
		logger.Error("Marketplace collection unreadable, write refused", zap.String("key", c.key), zap.Error(err))
		return nil, err
	}
	return c.decode(raw), nil
}

// decode keeps the valid entries of raw. Entries of another kind, entries
// that do not decode and entries that fail validation are dropped with a
// warning.
func (c collection[T]) decode(raw []envelope) []T {
	out := make([]T, 0, len(raw))
	for i, env := range raw {
		if env.Kind != c.kind {
			c.drop(i, "kind mismatch")
			continue
		}
		var rec T
		if err := json.Unmarshal(env.Record, &rec); err != nil {
			c.drop(i, err.Error())
			continue
		}
		if rec.RecordID() == "" || len(rec.Validate()) > 0 {
			c.drop(i, "invalid record")
			continue
		}
		out = append(out, rec)
	}
	return out
}

func (c collection[T]) drop(index int, reason string) {
	logger.Warn("Dropping stored marketplace record",
		zap.String("key", c.key),
		zap.Int("index", index),
		zap.String("reason", reason),
	)
}

func (c collection[T]) save(ctx context.Context, s store.Store, recs []T) {
	raw := make([]envelope, 0, len(recs))
	for _, r := range recs {
		b, err := json.Marshal(r)
		if err != nil {
			logger.Warn("Marketplace record not serialisable", zap.String("key", c.key), zap.Error(err))
			continue
		}
		raw = append(raw, envelope{Kind: c.kind, Record: b})
	}
	store.SaveJSON(ctx, s, c.key, raw)
}
