package repository

import (
	"context"

	"shop-service/internal/model"

	"gorm.io/gorm"
)

type CatalogRepository interface {
	ListCategories(ctx context.Context) ([]model.Category, error)
	FindCategory(ctx context.Context, id uint) (*model.Category, error)
	CreateCategory(ctx context.Context, c *model.Category) error
	UpdateCategory(ctx context.Context, c *model.Category) error
	DeleteCategory(ctx context.Context, id uint) (bool, error)
	CountCategoryProducts(ctx context.Context, id uint) (int64, error)

	ListSubCategories(ctx context.Context, categoryID *uint) ([]model.SubCategory, error)
	FindSubCategory(ctx context.Context, id uint) (*model.SubCategory, error)
	CreateSubCategory(ctx context.Context, sc *model.SubCategory) error
	UpdateSubCategory(ctx context.Context, sc *model.SubCategory) error
	DeleteSubCategory(ctx context.Context, id uint) (bool, error)
}

type GormCatalogRepository struct {
	db *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) *GormCatalogRepository {
	return &GormCatalogRepository{db: db}
}

func (r *GormCatalogRepository) ListCategories(ctx context.Context) ([]model.Category, error) {
	categories := []model.Category{}
	err := r.db.WithContext(ctx).Order("id").Find(&categories).Error
	return categories, err
}

func (r *GormCatalogRepository) FindCategory(ctx context.Context, id uint) (*model.Category, error) {
	return first[model.Category](r.db.WithContext(ctx).Where("id = ?", id))
}

func (r *GormCatalogRepository) CreateCategory(ctx context.Context, c *model.Category) error {
	return translate(r.db.WithContext(ctx).Create(c).Error)
}

func (r *GormCatalogRepository) UpdateCategory(ctx context.Context, c *model.Category) error {
	return translate(r.db.WithContext(ctx).Save(c).Error)
}

// DeleteCategory detaches its sub categories before removing it
func (r *GormCatalogRepository) DeleteCategory(ctx context.Context, id uint) (bool, error) {
	var deleted bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.SubCategory{}).Where("category_id = ?", id).Update("category_id", nil).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&model.Category{})
		deleted = res.RowsAffected > 0
		return res.Error
	})
	return deleted, err
}

func (r *GormCatalogRepository) CountCategoryProducts(ctx context.Context, id uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Product{}).Where("category_id = ?", id).Count(&count).Error
	return count, err
}

func (r *GormCatalogRepository) ListSubCategories(ctx context.Context, categoryID *uint) ([]model.SubCategory, error) {
	subCategories := []model.SubCategory{}
	q := r.db.WithContext(ctx).Order("id")
	if categoryID != nil {
		q = q.Where("category_id = ?", *categoryID)
	}
	err := q.Find(&subCategories).Error
	return subCategories, err
}

func (r *GormCatalogRepository) FindSubCategory(ctx context.Context, id uint) (*model.SubCategory, error) {
	return first[model.SubCategory](r.db.WithContext(ctx).Where("id = ?", id))
}

func (r *GormCatalogRepository) CreateSubCategory(ctx context.Context, sc *model.SubCategory) error {
	return r.db.WithContext(ctx).Omit("Category").Create(sc).Error
}

func (r *GormCatalogRepository) UpdateSubCategory(ctx context.Context, sc *model.SubCategory) error {
	return r.db.WithContext(ctx).Omit("Category").Save(sc).Error
}

// DeleteSubCategory removes it from every product first
func (r *GormCatalogRepository) DeleteSubCategory(ctx context.Context, id uint) (bool, error) {
	var deleted bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM product_sub_categories WHERE sub_category_id = ?", id).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&model.SubCategory{})
		deleted = res.RowsAffected > 0
		return res.Error
	})
	return deleted, err
}
