package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"autoparts.dev/storefront/internal/api/middleware"
	"autoparts.dev/storefront/internal/audit"
	"autoparts.dev/storefront/internal/nav"
	"autoparts.dev/storefront/internal/orders"
	apperrors "autoparts.dev/storefront/internal/pkg/errors"
	"autoparts.dev/storefront/internal/routes"
)

// OrderView answers a checkout.
type OrderView struct {
	Order      *orders.Order  `json:"order"`
	Transition nav.Transition `json:"transition"`
	State      StateView      `json:"state"`
}

// PlaceOrder handles POST /orders: the cart is ordered, emptied and the
// order confirmation page is shown. Name and phone default to the profile.
func (s *Server) PlaceOrder(c *gin.Context) {
	var req orders.Shipping
	if !bindJSON(c, &req) {
		return
	}
	ctx := c.Request.Context()
	e := engine(c)
	session := middleware.CurrentSession(c)

	if req.FullName == "" {
		req.FullName = session.Name
	}
	if req.Phone == "" {
		req.Phone = session.Phone
	}
	if missing := req.Missing(); len(missing) > 0 {
		_ = c.Error(requiredFields(missing...))
		return
	}

	order, err := s.orders.Place(ctx, *session, e.Cart(), req)
	if err != nil {
		fail(c, err)
		return
	}
	s.record(ctx, audit.ActionOrderPlace, "order", order.ID, session.UserID, map[string]any{
		"items":    order.Totals.Items,
		"subtotal": order.Totals.Subtotal,
	})
	e.ClearCart(ctx)
	tr := e.Navigate(ctx, routes.OrderConfirmation)
	c.JSON(http.StatusCreated, OrderView{Order: order, Transition: tr, State: stateView(e, lang(c))})
}

// ListOrders handles GET /orders.
func (s *Server) ListOrders(c *gin.Context) {
	session := middleware.CurrentSession(c)
	c.JSON(http.StatusOK, s.orders.List(c.Request.Context(), session.UserID))
}

// GetOrder handles GET /orders/:id.
func (s *Server) GetOrder(c *gin.Context) {
	session := middleware.CurrentSession(c)
	order, ok := s.orders.Get(c.Request.Context(), session.UserID, c.Param("id"))
	if !ok {
		_ = c.Error(apperrors.NotFound(apperrors.CodeRecordNotFound, "order not found"))
		return
	}
	c.JSON(http.StatusOK, order)
}
