package checkout

import (
	"context"
	"fmt"

	"github.com/gaughey2000/ecommerce-project-sub000/internal/cart"
	"github.com/gaughey2000/ecommerce-project-sub000/internal/orders"
	"github.com/gaughey2000/ecommerce-project-sub000/internal/pricing"
)

type CartReader interface {
	Lines(ctx context.Context, userID string) ([]cart.Line, error)
}

type Store interface {
	PlaceOrder(ctx context.Context, userID string, ship orders.ShippingInfo) (orders.Order, error)
}

// Service gates the checkout transaction: validate the payload, authorize
// payment, then hand over to the transactional store. Resubmitting a
// checkout is not idempotent — a second identical request creates a second
// order.
type Service struct {
	Carts   CartReader
	Store   Store
	Gateway PaymentGateway
}

// Checkout validates, authorizes and places the order. Validation failures
// and payment declines happen before any write; after that the store's
// transaction guarantees all-or-nothing.
func (s *Service) Checkout(ctx context.Context, userID string, ship orders.ShippingInfo, pay PaymentInfo) (orders.Order, error) {
	if err := validateShipping(ship); err != nil {
		return orders.Order{}, err
	}
	if err := validatePayment(pay); err != nil {
		return orders.Order{}, err
	}

	// Pre-auth amount from a plain cart read. The authoritative total is
	// computed again inside the transaction against locked rows.
	lines, err := s.Carts.Lines(ctx, userID)
	if err != nil {
		return orders.Order{}, fmt.Errorf("read cart: %w", err)
	}
	if len(lines) == 0 {
		return orders.Order{}, ErrEmptyCart
	}
	amount := pricing.Total(pricing.SnapshotAll(lines))

	if err := s.Gateway.Authorize(ctx, userID, amount, pay); err != nil {
		return orders.Order{}, err
	}

	return s.Store.PlaceOrder(ctx, userID, ship)
}
