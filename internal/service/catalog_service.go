package service

import (
	"context"
	"errors"

	"shop-service/internal/apperror"
	"shop-service/internal/dto"
	"shop-service/internal/model"
	"shop-service/internal/repository"

	"go.uber.org/zap"
)

// CatalogService manages categories, sub categories and size lookups
type CatalogService struct {
	catalog repository.CatalogRepository
	sizes   repository.SizeRepository
	log     *zap.Logger
}

func NewCatalogService(catalog repository.CatalogRepository, sizes repository.SizeRepository, log *zap.Logger) *CatalogService {
	return &CatalogService{catalog: catalog, sizes: sizes, log: log}
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]model.Category, error) {
	categories, err := s.catalog.ListCategories(ctx)
	if err != nil {
		return nil, apperror.Internal(err, "failed to list categories")
	}
	return categories, nil
}

func (s *CatalogService) CreateCategory(ctx context.Context, req dto.CategoryRequest) (*model.Category, error) {
	category := &model.Category{Name: req.Name, Description: req.Description}
	if err := s.catalog.CreateCategory(ctx, category); err != nil {
		return nil, categoryWriteError(err)
	}
	return category, nil
}

func (s *CatalogService) UpdateCategory(ctx context.Context, id uint, req dto.CategoryRequest) (*model.Category, error) {
	category, err := s.catalog.FindCategory(ctx, id)
	if err != nil {
		return nil, apperror.Internal(err, "failed to load category")
	}
	if category == nil {
		return nil, apperror.NotFound("category not found")
	}
	category.Name = req.Name
	category.Description = req.Description
	if err := s.catalog.UpdateCategory(ctx, category); err != nil {
		return nil, categoryWriteError(err)
	}
	return category, nil
}

// DeleteCategory refuses while products still reference the category
func (s *CatalogService) DeleteCategory(ctx context.Context, id uint) error {
	count, err := s.catalog.CountCategoryProducts(ctx, id)
	if err != nil {
		return apperror.Internal(err, "failed to count category products")
	}
	if count > 0 {
		return apperror.Conflict("category has %d products", count)
	}
	deleted, err := s.catalog.DeleteCategory(ctx, id)
	if err != nil {
		return apperror.Internal(err, "failed to delete category")
	}
	if !deleted {
		return apperror.NotFound("category not found")
	}
	s.log.Info("Category deleted", zap.Uint("category_id", id))
	return nil
}

func (s *CatalogService) ListSubCategories(ctx context.Context, categoryID *uint) ([]model.SubCategory, error) {
	subCategories, err := s.catalog.ListSubCategories(ctx, categoryID)
	if err != nil {
		return nil, apperror.Internal(err, "failed to list sub categories")
	}
	return subCategories, nil
}

func (s *CatalogService) CreateSubCategory(ctx context.Context, req dto.SubCategoryRequest) (*model.SubCategory, error) {
	if err := s.requireCategory(ctx, req.CategoryID); err != nil {
		return nil, err
	}
	sc := &model.SubCategory{Name: req.Name, Description: req.Description, CategoryID: req.CategoryID}
	if err := s.catalog.CreateSubCategory(ctx, sc); err != nil {
		return nil, apperror.Internal(err, "failed to create sub category")
	}
	return sc, nil
}

func (s *CatalogService) UpdateSubCategory(ctx context.Context, id uint, req dto.SubCategoryRequest) (*model.SubCategory, error) {
	sc, err := s.catalog.FindSubCategory(ctx, id)
	if err != nil {
		return nil, apperror.Internal(err, "failed to load sub category")
	}
	if sc == nil {
		return nil, apperror.NotFound("sub category not found")
	}
	if err := s.requireCategory(ctx, req.CategoryID); err != nil {
		return nil, err
	}
	sc.Name = req.Name
	sc.Description = req.Description
	sc.CategoryID = req.CategoryID
	if err := s.catalog.UpdateSubCategory(ctx, sc); err != nil {
		return nil, apperror.Internal(err, "failed to update sub category")
	}
	return sc, nil
}

func (s *CatalogService) DeleteSubCategory(ctx context.Context, id uint) error {
	deleted, err := s.catalog.DeleteSubCategory(ctx, id)
	if err != nil {
		return apperror.Internal(err, "failed to delete sub category")
	}
	if !deleted {
		return apperror.NotFound("sub category not found")
	}
	return nil
}

func (s *CatalogService) ListSizes(ctx context.Context) (*model.SizeList, error) {
	sizes, err := s.sizes.ListAll(ctx)
	if err != nil {
		return nil, apperror.Internal(err, "failed to list sizes")
	}
	return sizes, nil
}

func (s *CatalogService) CreateSize(ctx context.Context, kind model.SizeKind, req dto.SizeRequest) (*model.Size, error) {
	if kind.Table() == "" {
		return nil, apperror.Validation("unknown size kind %q", kind)
	}
	size, err := s.sizes.Create(ctx, kind, req.Size)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperror.Conflict("%s size %q already exists", kind, req.Size)
		}
		return nil, apperror.Internal(err, "failed to create size")
	}
	return size, nil
}

func (s *CatalogService) DeleteSize(ctx context.Context, kind model.SizeKind, id uint) error {
	if kind.Table() == "" {
		return apperror.Validation("unknown size kind %q", kind)
	}
	deleted, err := s.sizes.Delete(ctx, kind, id)
	if err != nil {
		return apperror.Internal(err, "failed to delete size")
	}
	if !deleted {
		return apperror.NotFound("%s size not found", kind)
	}
	return nil
}

func (s *CatalogService) requireCategory(ctx context.Context, id *uint) error {
	if id == nil {
		return nil
	}
	category, err := s.catalog.FindCategory(ctx, *id)
	if err != nil {
		return apperror.Internal(err, "failed to load category")
	}
	if category == nil {
		return apperror.NotFound("category not found")
	}
	return nil
}

func categoryWriteError(err error) error {
	if errors.Is(err, repository.ErrDuplicate) {
		return apperror.Conflict("category with this name already exists")
	}
	return apperror.Internal(err, "failed to save category")
}
