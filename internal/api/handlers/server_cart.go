package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"autoparts.dev/storefront/internal/domain"
	apperrors "autoparts.dev/storefront/internal/pkg/errors"
)

// CartView is the cart with its totals.
type CartView struct {
	Lines  domain.Cart       `json:"lines"`
	Totals domain.CartTotals `json:"totals"`
}

type addCartItemRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity"`
}

type setQuantityRequest struct {
	Quantity int `json:"quantity"`
}

type addWishlistItemRequest struct {
	ProductID string `json:"product_id" binding:"required"`
}

func errNotInCart(itemID string) *apperrors.AppError {
	return apperrors.NotFound(apperrors.CodeNotInCart, "item not in cart").
		WithParams(map[string]interface{}{"item_id": itemID})
}

// GetCart handles GET /cart.
func (s *Server) GetCart(c *gin.Context) {
	e := engine(c)
	c.JSON(http.StatusOK, CartView{Lines: e.Cart(), Totals: e.CartTotals()})
}

// AddCartItem handles POST /cart/items. The line is built from the catalog;
// adding a product already in the cart increases its quantity.
func (s *Server) AddCartItem(c *gin.Context) {
	var req addCartItemRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.Quantity <= 0 {
		req.Quantity = 1
	}
	e := engine(c)

	line, err := s.catalog.CartLine(req.ProductID, req.Quantity, string(lang(c)))
	if err != nil {
		fail(c, err)
		return
	}
	merged := e.AddToCart(c.Request.Context(), line)
	c.JSON(http.StatusOK, gin.H{
		"line": merged,
		"cart": CartView{Lines: e.Cart(), Totals: e.CartTotals()},
	})
}

// SetCartQuantity handles PUT /cart/items/:id. Quantities are clamped to
// the line's limits.
func (s *Server) SetCartQuantity(c *gin.Context) {
	var req setQuantityRequest
	if !bindJSON(c, &req) {
		return
	}
	e := engine(c)
	itemID := c.Param("id")

	line, ok := e.SetQuantity(c.Request.Context(), itemID, req.Quantity)
	if !ok {
		_ = c.Error(errNotInCart(itemID))
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"line": line,
		"cart": CartView{Lines: e.Cart(), Totals: e.CartTotals()},
	})
}

// RemoveCartItem handles DELETE /cart/items/:id.
func (s *Server) RemoveCartItem(c *gin.Context) {
	e := engine(c)
	itemID := c.Param("id")
	if !e.RemoveFromCart(c.Request.Context(), itemID) {
		_ = c.Error(errNotInCart(itemID))
		return
	}
	c.JSON(http.StatusOK, CartView{Lines: e.Cart(), Totals: e.CartTotals()})
}

// ClearCart handles DELETE /cart.
func (s *Server) ClearCart(c *gin.Context) {
	engine(c).ClearCart(c.Request.Context())
	c.Status(http.StatusNoContent)
}

// GetWishlist handles GET /wishlist.
func (s *Server) GetWishlist(c *gin.Context) {
	c.JSON(http.StatusOK, engine(c).Wishlist())
}

// AddWishlistItem handles POST /wishlist/items. Adding an entry twice keeps one.
func (s *Server) AddWishlistItem(c *gin.Context) {
	var req addWishlistItemRequest
	if !bindJSON(c, &req) {
		return
	}
	e := engine(c)

	entry, err := s.catalog.WishlistEntry(req.ProductID, string(lang(c)))
	if err != nil {
		fail(c, err)
		return
	}
	status := http.StatusOK
	if e.AddToWishlist(c.Request.Context(), entry) {
		status = http.StatusCreated
	}
	c.JSON(status, e.Wishlist())
}

// GetWishlistItem handles GET /wishlist/items/:id.
func (s *Server) GetWishlistItem(c *gin.Context) {
	itemID := c.Param("id")
	c.JSON(http.StatusOK, gin.H{"item_id": itemID, "in_wishlist": engine(c).InWishlist(itemID)})
}

// RemoveWishlistItem handles DELETE /wishlist/items/:id. Removing an absent
// entry is not an error.
func (s *Server) RemoveWishlistItem(c *gin.Context) {
	e := engine(c)
	removed := e.RemoveFromWishlist(c.Request.Context(), c.Param("id"))
	c.JSON(http.StatusOK, gin.H{"removed": removed, "wishlist": e.Wishlist()})
}
