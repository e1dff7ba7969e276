// Package orders records checkouts in the signed-in user's order history.
// There is no payment step; an order is placed as soon as it is submitted.
package orders

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"autoparts.dev/storefront/internal/domain"
	"autoparts.dev/storefront/internal/pkg/logger"
	"autoparts.dev/storefront/internal/store"
)

var (
	// ErrCartEmpty is returned when checking out an empty cart.
	ErrCartEmpty = errors.New("orders: cart is empty")
	// ErrShippingIncomplete is returned when a required address field is missing.
	ErrShippingIncomplete = errors.New("orders: shipping details incomplete")
)

// Status of an order.
type Status string

const (
	StatusPlaced    Status = "placed"
	StatusShipped   Status = "shipped"
	StatusDelivered Status = "delivered"
)

// Shipping is the delivery address captured at checkout.
type Shipping struct {
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`
	City     string `json:"city"`
	Address  string `json:"address"`
	Notes    string `json:"notes,omitempty"`
}

// Missing returns the names of required fields left empty.
func (s Shipping) Missing() []string {
	var out []string
	for _, f := range []struct{ name, value string }{
		{"full_name", s.FullName},
		{"phone", s.Phone},
		{"city", s.City},
		{"address", s.Address},
	} {
		if strings.TrimSpace(f.value) == "" {
			out = append(out, f.name)
		}
	}
	return out
}

// Order is a placed checkout.
type Order struct {
	ID        string            `json:"id"`
	UserID    string            `json:"user_id"`
	Lines     []domain.CartLine `json:"lines"`
	Totals    domain.CartTotals `json:"totals"`
	Shipping  Shipping          `json:"shipping"`
	Status    Status            `json:"status"`
	CreatedAt time.Time         `json:"created_at"`
}

// Service stores order histories under orders/<userId>.
type Service struct {
	store store.Store
	now   func() time.Time

	mu sync.Mutex
}

// NewService creates the order service over s.
func NewService(s store.Store) *Service {
	return &Service{store: s, now: time.Now}
}

// Place records an order of lines for the user of session. An order history
// that exists but cannot be read is never overwritten: Place fails with an
// error wrapping store.ErrUnreadable. The write itself is best-effort; the
// returned order is valid even when it could not be persisted.
func (s *Service) Place(ctx context.Context, session domain.Session, lines domain.Cart, shipping Shipping) (*Order, error) {
	if len(lines) == 0 {
		return nil, ErrCartEmpty
	}
	if shipping.FullName == "" {
		shipping.FullName = session.Name
	}
	if shipping.Phone == "" {
		shipping.Phone = session.Phone
	}
	if len(shipping.Missing()) > 0 {
		return nil, ErrShippingIncomplete
	}

	now := s.now().UTC()
	order := Order{
		ID:        ulid.MustNew(ulid.Timestamp(now), ulid.DefaultEntropy()).String(),
		UserID:    session.UserID,
		Lines:     slices.Clone(lines),
		Totals:    lines.Totals(),
		Shipping:  shipping,
		Status:    StatusPlaced,
		CreatedAt: now,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	history, err := s.read(ctx, session.UserID)
	if err != nil {
		logger.Error("Order history unreadable, order refused",
			zap.String("user_id", session.UserID),
			zap.Error(err),
		)
		return nil, fmt.Errorf("load order history: %w", err)
	}
	history = append(history, order)
	store.SaveJSON(ctx, s.store, store.OrdersKey(session.UserID), history)

	logger.Info("Order placed",
		zap.String("order_id", order.ID),
		zap.String("user_id", order.UserID),
		zap.Int("items", order.Totals.Items),
		zap.Float64("subtotal", order.Totals.Subtotal),
	)
	return &order, nil
}

// List returns the orders of userID, newest first.
func (s *Service) List(ctx context.Context, userID string) []Order {
	s.mu.Lock()
	defer s.mu.Unlock()

	history := s.load(ctx, userID)
	slices.Reverse(history)
	return history
}

// Get returns one order of userID.
func (s *Service) Get(ctx context.Context, userID, orderID string) (*Order, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, o := range s.load(ctx, userID) {
		if o.ID == orderID {
			return &o, true
		}
	}
	return nil, false
}

// load reads the history of userID for display; an unreadable history is
// shown as empty.
func (s *Service) load(ctx context.Context, userID string) []Order {
	var history []Order
	if !store.LoadJSON(ctx, s.store, store.OrdersKey(userID), &history) {
		return []Order{}
	}
	return valid(userID, history)
}

// read reads the history of userID ahead of an append.
func (s *Service) read(ctx context.Context, userID string) ([]Order, error) {
	var history []Order
	if _, err := store.ReadJSON(ctx, s.store, store.OrdersKey(userID), &history); err != nil {
		return nil, err
	}
	return valid(userID, history), nil
}

func valid(userID string, history []Order) []Order {
	out := make([]Order, 0, len(history))
	for _, o := range history {
		if _, err := ulid.ParseStrict(o.ID); err != nil || o.UserID != userID {
			logger.Warn("Dropping malformed stored order", zap.String("user_id", userID), zap.String("order_id", o.ID))
			continue
		}
		out = append(out, o)
	}
	return out
}
