package nav

import (
	"slices"

	"autoparts.dev/storefront/internal/domain"
	"autoparts.dev/storefront/internal/routes"
)

// Snapshot is everything a page renders from.
type Snapshot struct {
	ContextID  string               `json:"context_id"`
	Page       routes.Descriptor    `json:"page"`
	Navigation State                `json:"navigation"`
	Session    *domain.Session      `json:"session"`
	Cart       domain.Cart          `json:"cart"`
	CartTotals domain.CartTotals    `json:"cart_totals"`
	Wishlist   domain.Wishlist      `json:"wishlist"`
	Filters    domain.SearchFilters `json:"filters"`
}

// Snapshot returns a consistent copy of the engine state.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	page, _ := e.routes.Lookup(e.state.Current)
	return Snapshot{
		ContextID:  e.scoped.ContextID(),
		Page:       page,
		Navigation: e.state.clone(),
		Session:    copySession(e.session),
		Cart:       slices.Clone(e.cart),
		CartTotals: e.cart.Totals(),
		Wishlist:   slices.Clone(e.wishlist),
		Filters:    e.filters,
	}
}
