package nav

import (
	"context"
	"slices"

	"autoparts.dev/storefront/internal/domain"
	"autoparts.dev/storefront/internal/store"
)

// Cart returns a copy of the cart.
func (e *Engine) Cart() domain.Cart {
	e.mu.Lock()
	defer e.mu.Unlock()
	return slices.Clone(e.cart)
}

// CartTotals summarises the cart.
func (e *Engine) CartTotals() domain.CartTotals {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cart.Totals()
}

// AddToCart adds line, merging it into an existing line of the same item.
func (e *Engine) AddToCart(ctx context.Context, line domain.CartLine) domain.CartLine {
	e.mu.Lock()
	defer e.mu.Unlock()
	stored := e.cart.Add(line, e.maxQty)
	e.saveCartLocked(ctx)
	return stored
}

// SetQuantity changes the quantity of itemID, clamped to [1, cap].
func (e *Engine) SetQuantity(ctx context.Context, itemID string, quantity int) (domain.CartLine, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	line, ok := e.cart.SetQuantity(itemID, quantity, e.maxQty)
	if ok {
		e.saveCartLocked(ctx)
	}
	return line, ok
}

// RemoveFromCart drops the line of itemID.
func (e *Engine) RemoveFromCart(ctx context.Context, itemID string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	ok := e.cart.Remove(itemID)
	if ok {
		e.saveCartLocked(ctx)
	}
	return ok
}

// ClearCart empties the cart.
func (e *Engine) ClearCart(ctx context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cart = domain.Cart{}
	e.saveCartLocked(ctx)
}

func (e *Engine) saveCartLocked(ctx context.Context) {
	store.SaveJSON(ctx, e.scoped, store.KeyCart, e.cart)
}

// Wishlist returns a copy of the wishlist.
func (e *Engine) Wishlist() domain.Wishlist {
	e.mu.Lock()
	defer e.mu.Unlock()
	return slices.Clone(e.wishlist)
}

// AddToWishlist saves entry. Saving an item twice changes nothing; the
// result reports whether the wishlist changed.
func (e *Engine) AddToWishlist(ctx context.Context, entry domain.WishlistEntry) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.wishlist.Add(entry) {
		return false
	}
	store.SaveJSON(ctx, e.scoped, store.KeyWishlist, e.wishlist)
	return true
}

// RemoveFromWishlist drops itemID.
func (e *Engine) RemoveFromWishlist(ctx context.Context, itemID string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.wishlist.Remove(itemID) {
		return false
	}
	store.SaveJSON(ctx, e.scoped, store.KeyWishlist, e.wishlist)
	return true
}

// InWishlist reports whether itemID is saved.
func (e *Engine) InWishlist(itemID string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.wishlist.Contains(itemID)
}
