package repository

import (
	"context"

	"github.com/ecomstack/storefront-api/internal/domain/entity"
)

// OrderRepository lists and mutates orders. Listings come back with the
// buyer name populated and products in their original sequence.
type OrderRepository interface {
	ListByBuyer(ctx context.Context, buyerID string) ([]entity.Order, error)
	// ListAll returns every order, newest first.
	ListAll(ctx context.Context) ([]entity.Order, error)
	UpdateStatus(ctx context.Context, orderID, status string) (*entity.Order, error)
}
