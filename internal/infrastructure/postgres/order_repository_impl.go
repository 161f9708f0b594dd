package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ecomstack/storefront-api/internal/domain/entity"
	"github.com/ecomstack/storefront-api/internal/domain/repository"
)

type OrderRepository struct {
	pool *pgxpool.Pool
}

func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

func (r *OrderRepository) ListByBuyer(ctx context.Context, buyerID string) ([]entity.Order, error) {
	return r.list(ctx, `
		SELECT o.id, o.buyer_id, u.name, o.status, o.payment_success, o.created_at, o.updated_at
		FROM orders o
		JOIN users u ON u.id = o.buyer_id
		WHERE o.buyer_id = $1
		ORDER BY o.created_at DESC
	`, buyerID)
}

func (r *OrderRepository) ListAll(ctx context.Context) ([]entity.Order, error) {
	return r.list(ctx, `
		SELECT o.id, o.buyer_id, u.name, o.status, o.payment_success, o.created_at, o.updated_at
		FROM orders o
		JOIN users u ON u.id = o.buyer_id
		ORDER BY o.created_at DESC
	`)
}

func (r *OrderRepository) UpdateStatus(ctx context.Context, orderID, status string) (*entity.Order, error) {
	o := entity.Order{}
	row := r.pool.QueryRow(ctx, `
		UPDATE orders o
		SET status = $1, updated_at = now()
		FROM users u
		WHERE o.id = $2 AND u.id = o.buyer_id
		RETURNING o.id, o.buyer_id, u.name, o.status, o.payment_success, o.created_at, o.updated_at
	`, status, orderID)
	if err := row.Scan(&o.ID, &o.Buyer.ID, &o.Buyer.Name, &o.Status,
		&o.PaymentSuccess, &o.CreatedAt, &o.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	orders := []entity.Order{o}
	if err := r.attachProducts(ctx, orders); err != nil {
		return nil, err
	}
	return &orders[0], nil
}

func (r *OrderRepository) list(ctx context.Context, sql string, args ...any) ([]entity.Order, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []entity.Order
	for rows.Next() {
		o := entity.Order{}
		if err := rows.Scan(&o.ID, &o.Buyer.ID, &o.Buyer.Name, &o.Status,
			&o.PaymentSuccess, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := r.attachProducts(ctx, orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// attachProducts loads each order's product sequence in position order.
// The photo column is intentionally left out of the projection.
func (r *OrderRepository) attachProducts(ctx context.Context, orders []entity.Order) error {
	if len(orders) == 0 {
		return nil
	}
	ids := make([]string, 0, len(orders))
	index := make(map[string]*entity.Order, len(orders))
	for i := range orders {
		orders[i].Products = []entity.OrderProduct{}
		ids = append(ids, orders[i].ID)
		index[orders[i].ID] = &orders[i]
	}

	rows, err := r.pool.Query(ctx, `
		SELECT op.order_id, p.id, p.name, p.slug, p.price
		FROM order_products op
		JOIN products p ON p.id = op.product_id
		WHERE op.order_id = ANY($1)
		ORDER BY op.order_id, op.position
	`, ids)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var orderID string
		var op entity.OrderProduct
		if err := rows.Scan(&orderID, &op.ID, &op.Name, &op.Slug, &op.Price); err != nil {
			return err
		}
		if o, ok := index[orderID]; ok {
			o.Products = append(o.Products, op)
		}
	}
	return rows.Err()
}

var _ repository.OrderRepository = (*OrderRepository)(nil)
