package service

import (
	"context"

	"shop-service/internal/apperror"
	"shop-service/internal/model"
	"shop-service/internal/repository"
)

// OrderService exposes orders read-only
type OrderService struct {
	orders repository.OrderRepository
}

func NewOrderService(orders repository.OrderRepository) *OrderService {
	return &OrderService{orders: orders}
}

func (s *OrderService) ListMine(ctx context.Context, userID string) ([]model.Order, error) {
	orders, err := s.orders.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperror.Internal(err, "failed to list orders")
	}
	return orders, nil
}

func (s *OrderService) ListAll(ctx context.Context) ([]model.Order, error) {
	orders, err := s.orders.ListAll(ctx)
	if err != nil {
		return nil, apperror.Internal(err, "failed to list orders")
	}
	return orders, nil
}
