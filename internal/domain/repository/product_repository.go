package repository

import (
	"context"

	"github.com/ecomstack/storefront-api/internal/domain/entity"
)

// ProductRepository covers the read-only catalog surface.
type ProductRepository interface {
	GetBySlug(ctx context.Context, slug string) (*entity.Product, error)
	// GetRelated returns up to limit products sharing categoryID, excluding
	// productID itself.
	GetRelated(ctx context.Context, productID, categoryID string, limit int) ([]entity.Product, error)
	// Search is the Postgres ILIKE fallback used when Elasticsearch is down.
	Search(ctx context.Context, q string, limit int) ([]entity.Product, error)
	List(ctx context.Context) ([]entity.Product, error)
}
