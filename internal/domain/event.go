package domain

import (
	"encoding/json"
	"time"

	"autoparts.dev/storefront/internal/store"
)

// EventType names a change pushed to the open tabs of a browser context.
type EventType string

const (
	EventLocaleChanged   EventType = "locale.changed"
	EventSessionChanged  EventType = "session.changed"
	EventCartChanged     EventType = "cart.changed"
	EventWishlistChanged EventType = "wishlist.changed"
	EventPageChanged     EventType = "page.changed"
)

var eventTypesByKey = map[string]EventType{
	store.KeyLocale:   EventLocaleChanged,
	store.KeySession:  EventSessionChanged,
	store.KeyCart:     EventCartChanged,
	store.KeyWishlist: EventWishlistChanged,
	store.KeyPage:     EventPageChanged,
}

// ContextEvent is the payload of the SSE and WebSocket streams.
type ContextEvent struct {
	Type      EventType       `json:"type"`
	ContextID string          `json:"context_id"`
	Key       string          `json:"key"`
	Value     json.RawMessage `json:"value,omitempty"`
	Removed   bool            `json:"removed,omitempty"`
	Origin    string          `json:"origin,omitempty"`
	At        time.Time       `json:"at"`
}

// EventFromChange maps a store change inside a browser context namespace to
// the event pushed to that context's tabs. ok is false for keys tabs do not
// track (previous_page, global collections).
func EventFromChange(ch store.Change, at time.Time) (ContextEvent, bool) {
	contextID, key, scoped := store.SplitContextKey(ch.Key)
	if !scoped {
		return ContextEvent{}, false
	}
	typ, tracked := eventTypesByKey[key]
	if !tracked {
		return ContextEvent{}, false
	}
	ev := ContextEvent{
		Type:      typ,
		ContextID: contextID,
		Key:       key,
		Removed:   ch.Removed,
		Origin:    ch.Origin,
		At:        at.UTC(),
	}
	if !ch.Removed && json.Valid(ch.Value) {
		ev.Value = json.RawMessage(ch.Value)
	}
	return ev, true
}
