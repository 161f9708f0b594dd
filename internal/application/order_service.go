package application

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/ecomstack/storefront-api/internal/domain/entity"
	repo "github.com/ecomstack/storefront-api/internal/domain/repository"
)

var (
	ErrOrderNotFound = errors.New("order not found")
	ErrInvalidStatus = errors.New("invalid order status")
)

// OrderService exposes the order listings gated by the auth guards and the
// admin-only status transition.
type OrderService struct {
	Orders repo.OrderRepository
	Logger *logrus.Logger
}

func NewOrderService(orders repo.OrderRepository, logger *logrus.Logger) *OrderService {
	return &OrderService{Orders: orders, Logger: logger}
}

func (s *OrderService) ListMine(ctx context.Context, buyerID string) ([]entity.Order, error) {
	out, err := s.Orders.ListByBuyer(ctx, buyerID)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []entity.Order{}
	}
	return out, nil
}

func (s *OrderService) ListAll(ctx context.Context) ([]entity.Order, error) {
	out, err := s.Orders.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []entity.Order{}
	}
	return out, nil
}

func (s *OrderService) SetStatus(ctx context.Context, orderID, status string) (*entity.Order, error) {
	if !entity.ValidOrderStatus(status) {
		return nil, ErrInvalidStatus
	}
	o, err := s.Orders.UpdateStatus(ctx, orderID, status)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return o, nil
}
