package repository

import (
	"context"

	"shop-service/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type WishlistRepository interface {
	Transaction(ctx context.Context, fn func(repo WishlistRepository) error) error
	EnsureWishlist(ctx context.Context, userID string) error
	Exists(ctx context.Context, userID string) (bool, error)
	HasProduct(ctx context.Context, userID string, productID uint) (bool, error)
	AddProduct(ctx context.Context, userID string, productID uint) (*model.WishlistProduct, error)
	RemoveProduct(ctx context.Context, userID string, productID uint) (bool, error)
	Clear(ctx context.Context, userID string) error
	Find(ctx context.Context, userID string) (*model.Wishlist, error)
}

type GormWishlistRepository struct {
	db *gorm.DB
}

func NewWishlistRepository(db *gorm.DB) *GormWishlistRepository {
	return &GormWishlistRepository{db: db}
}

func (r *GormWishlistRepository) Transaction(ctx context.Context, fn func(repo WishlistRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormWishlistRepository{db: tx})
	})
}

func (r *GormWishlistRepository) EnsureWishlist(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&model.Wishlist{UserID: userID}).Error
}

func (r *GormWishlistRepository) Exists(ctx context.Context, userID string) (bool, error) {
	return exists(r.db.WithContext(ctx).Model(&model.Wishlist{}).Where("user_id = ?", userID))
}

func (r *GormWishlistRepository) HasProduct(ctx context.Context, userID string, productID uint) (bool, error) {
	return exists(r.db.WithContext(ctx).Model(&model.WishlistProduct{}).
		Where("wishlist_id = ? AND product_id = ?", userID, productID))
}

// AddProduct returns ErrDuplicate when the pair already exists
func (r *GormWishlistRepository) AddProduct(ctx context.Context, userID string, productID uint) (*model.WishlistProduct, error) {
	item := &model.WishlistProduct{WishlistID: userID, ProductID: productID}
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(item).Error; err != nil {
		return nil, translate(err)
	}
	return item, nil
}

func (r *GormWishlistRepository) RemoveProduct(ctx context.Context, userID string, productID uint) (bool, error) {
	res := r.db.WithContext(ctx).Where("wishlist_id = ? AND product_id = ?", userID, productID).Delete(&model.WishlistProduct{})
	return res.RowsAffected > 0, res.Error
}

func (r *GormWishlistRepository) Clear(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).Where("wishlist_id = ?", userID).Delete(&model.WishlistProduct{}).Error
}

func (r *GormWishlistRepository) Find(ctx context.Context, userID string) (*model.Wishlist, error) {
	return first[model.Wishlist](r.db.WithContext(ctx).
		Preload("WishlistProducts", orderByID).
		Preload("WishlistProducts.Product").
		Preload("WishlistProducts.Product.Images", orderByID).
		Where("user_id = ?", userID))
}
