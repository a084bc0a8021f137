package repository

import (
	"context"

	"shop-service/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CartRepository interface {
	// Transaction runs fn with a repository bound to one database transaction
	Transaction(ctx context.Context, fn func(repo CartRepository) error) error
	EnsureCart(ctx context.Context, userID string) error
	CartExists(ctx context.Context, userID string) (bool, error)
	FindCart(ctx context.Context, userID string) (*model.Cart, error)
	FindLineItem(ctx context.Context, key model.LineItemKey) (*model.CartProduct, error)
	FindLineItemByID(ctx context.Context, userID string, id uint) (*model.CartProduct, error)
	CreateLineItem(ctx context.Context, item *model.CartProduct) error
	UpdateLineItem(ctx context.Context, item *model.CartProduct) error
	DeleteLineItem(ctx context.Context, id uint) error
	Clear(ctx context.Context, userID string) error
	ListLineItems(ctx context.Context, userID string) ([]model.CartProduct, error)
}

type GormCartRepository struct {
	db *gorm.DB
}

func NewCartRepository(db *gorm.DB) *GormCartRepository {
	return &GormCartRepository{db: db}
}

func (r *GormCartRepository) Transaction(ctx context.Context, fn func(repo CartRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormCartRepository{db: tx})
	})
}

// EnsureCart creates the cart if absent and locks its row for the rest of
// the surrounding transaction, serializing concurrent writers of one cart
func (r *GormCartRepository) EnsureCart(ctx context.Context, userID string) error {
	db := r.db.WithContext(ctx)
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&model.Cart{UserID: userID}).Error; err != nil {
		return err
	}
	var cart model.Cart
	return db.Clauses(clause.Locking{Strength: "UPDATE"}).Where("user_id = ?", userID).First(&cart).Error
}

func (r *GormCartRepository) CartExists(ctx context.Context, userID string) (bool, error) {
	return exists(r.db.WithContext(ctx).Model(&model.Cart{}).Where("user_id = ?", userID))
}

// FindCart loads the cart with line items and the prices they need
func (r *GormCartRepository) FindCart(ctx context.Context, userID string) (*model.Cart, error) {
	return first[model.Cart](r.db.WithContext(ctx).
		Preload("CartProducts", orderByID).
		Preload("CartProducts.Product").
		Where("user_id = ?", userID))
}

// FindLineItem matches the full identity tuple, treating NULL selectors as equal
func (r *GormCartRepository) FindLineItem(ctx context.Context, key model.LineItemKey) (*model.CartProduct, error) {
	q := r.db.WithContext(ctx).Where("cart_id = ? AND product_id = ?", key.CartID, key.ProductID)
	q = nullable(q, "product_configuration_id", key.ConfigurationID)
	q = nullable(q, "belt_size_id", key.BeltSizeID)
	q = nullable(q, "clothing_size_id", key.ClothingSizeID)
	q = nullable(q, "cup_size_id", key.CupSizeID)
	return first[model.CartProduct](q)
}

func (r *GormCartRepository) FindLineItemByID(ctx context.Context, userID string, id uint) (*model.CartProduct, error) {
	return first[model.CartProduct](r.db.WithContext(ctx).Where("id = ? AND cart_id = ?", id, userID))
}

func (r *GormCartRepository) CreateLineItem(ctx context.Context, item *model.CartProduct) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(item).Error
}

// UpdateLineItem writes the selectors and quantity, nil selectors included
func (r *GormCartRepository) UpdateLineItem(ctx context.Context, item *model.CartProduct) error {
	return r.db.WithContext(ctx).Model(&model.CartProduct{ID: item.ID}).
		Select("product_configuration_id", "belt_size_id", "clothing_size_id", "cup_size_id", "quantity").
		Updates(map[string]interface{}{
			"product_configuration_id": item.ProductConfigurationID,
			"belt_size_id":             item.BeltSizeID,
			"clothing_size_id":         item.ClothingSizeID,
			"cup_size_id":              item.CupSizeID,
			"quantity":                 item.Quantity,
		}).Error
}

func (r *GormCartRepository) DeleteLineItem(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.CartProduct{}).Error
}

func (r *GormCartRepository) Clear(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).Where("cart_id = ?", userID).Delete(&model.CartProduct{}).Error
}

func (r *GormCartRepository) ListLineItems(ctx context.Context, userID string) ([]model.CartProduct, error) {
	items := []model.CartProduct{}
	err := r.db.WithContext(ctx).
		Preload("Product").
		Preload("Product.Images", orderByID).
		Preload("Product.Configurations", orderByID).
		Preload("ProductConfiguration").
		Preload("BeltSize").
		Preload("ClothingSize").
		Preload("CupSize").
		Where("cart_id = ?", userID).
		Order("id").
		Find(&items).Error
	return items, err
}
