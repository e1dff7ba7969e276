// Package store is the persistent key-value layer of the storefront.
//
// It plays the role browser local storage plays for a single page app: each
// browser context gets a namespaced view (Scoped), a few collections are
// global, and every write can be observed through a Bus so that other open
// views of the same context see it without reloading.
//
// Every operation is fallible. Callers that hold UI state use LoadJSON and
// SaveJSON, which log and swallow failures and fall back to defaults.
package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when the key is absent.
var ErrNotFound = errors.New("store: key not found")

// ErrClosed is returned by operations on a closed store.
var ErrClosed = errors.New("store: closed")

// Store is a byte-oriented key-value store.
type Store interface {
	// Get returns the value stored under key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)
	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key string, value []byte) error
	// Remove deletes key. Removing an absent key is not an error.
	Remove(ctx context.Context, key string) error
	// Keys lists keys starting with prefix in lexical order.
	Keys(ctx context.Context, prefix string) ([]string, error)
	// Close releases backend resources.
	Close() error
}

// Logical keys of the per-context namespace.
const (
	KeySession      = "session"
	KeyCart         = "cart"
	KeyWishlist     = "wishlist"
	KeyPage         = "page"
	KeyPreviousPage = "previous_page"
	KeyLocale       = "locale"
)

// Global keys.
const (
	KeyUsers              = "users"
	KeyProjects           = "projects"
	KeyServices           = "services"
	KeyProposals          = "proposals"
	KeyTechnicianRequests = "technician_requests"
)

// ProfileKey returns the key of the stored profile of a user identity.
func ProfileKey(userID string) string {
	return "profiles/" + userID
}

// OrdersKey returns the key of a user's order history.
func OrdersKey(userID string) string {
	return "orders/" + userID
}

// AuditPrefix is the common prefix of the daily audit logs.
const AuditPrefix = "audit/"

// AuditKey returns the key of the audit log of day (YYYY-MM-DD).
func AuditKey(day string) string {
	return AuditPrefix + day
}

type originKey struct{}

// WithOrigin tags writes made with ctx as coming from origin (typically a tab
// id). Subscribers receive it in Change.Origin and may skip their own echoes.
func WithOrigin(ctx context.Context, origin string) context.Context {
	return context.WithValue(ctx, originKey{}, origin)
}

// OriginFrom returns the origin set by WithOrigin, or "".
func OriginFrom(ctx context.Context) string {
	if v, ok := ctx.Value(originKey{}).(string); ok {
		return v
	}
	return ""
}
