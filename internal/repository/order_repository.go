package repository

import (
	"context"

	"shop-service/internal/model"

	"gorm.io/gorm"
)

type OrderRepository interface {
	ListByUser(ctx context.Context, userID string) ([]model.Order, error)
	ListAll(ctx context.Context) ([]model.Order, error)
}

type GormOrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

func (r *GormOrderRepository) ListByUser(ctx context.Context, userID string) ([]model.Order, error) {
	orders := []model.Order{}
	err := r.db.WithContext(ctx).Preload("Items", orderByID).Where("user_id = ?", userID).Order("created_at DESC, id DESC").Find(&orders).Error
	return orders, err
}

func (r *GormOrderRepository) ListAll(ctx context.Context) ([]model.Order, error) {
	orders := []model.Order{}
	err := r.db.WithContext(ctx).Preload("Items", orderByID).Order("created_at DESC, id DESC").Find(&orders).Error
	return orders, err
}
