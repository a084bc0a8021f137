package service

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"errors"
	"mime/multipart"
	"slices"
	"time"

	"shop-service/internal/apperror"
	"shop-service/internal/dto"
	"shop-service/internal/model"
	"shop-service/internal/repository"
	"shop-service/pkg/cache"
	"shop-service/prometheus"

	"go.uber.org/zap"
)

const productListCachePrefix = "products:list:"

var sortColumns = map[string]string{
	"id":        "id",
	"name":      "name",
	"sku":       "sku",
	"price":     "price",
	"discount":  "discount",
	"stock":     "stock",
	"createdAt": "created_at",
}

// FileStore keeps uploaded files addressed by their stored name
type FileStore interface {
	Save(fh *multipart.FileHeader) (string, error)
	Remove(filename string) (bool, error)
	PublicPath(filename string) string
}

// ProductPage is the listing envelope
type ProductPage struct {
	Data       []model.Product `json:"data"`
	Total      int64           `json:"total"`
	Page       int             `json:"page"`
	PageSize   int             `json:"pageSize"`
	TotalPages int             `json:"totalPages"`
}

type ProductService struct {
	products repository.ProductRepository
	catalog  repository.CatalogRepository
	files    FileStore
	cache    cache.Cache
	cacheTTL time.Duration
	metrics  *prometheus.Metrics
	log      *zap.Logger
}

func NewProductService(
	products repository.ProductRepository,
	catalog repository.CatalogRepository,
	files FileStore,
	listCache cache.Cache,
	cacheTTL time.Duration,
	metrics *prometheus.Metrics,
	log *zap.Logger,
) *ProductService {
	if listCache == nil {
		listCache = cache.Noop{}
	}
	return &ProductService{
		products: products,
		catalog:  catalog,
		files:    files,
		cache:    listCache,
		cacheTTL: cacheTTL,
		metrics:  metrics,
		log:      log,
	}
}

// List filters, sorts and pages the catalog. Results are memoised per
// parameter tuple until the TTL passes or a product is written.
func (s *ProductService) List(ctx context.Context, q dto.ProductListQuery) (*ProductPage, error) {
	if q.SortBy == "" {
		q.SortBy = "id"
	}
	column, ok := sortColumns[q.SortBy]
	if !ok {
		return nil, apperror.Validation("sortBy must be one of [id name sku price discount stock createdAt]")
	}
	if q.SortType == "" {
		q.SortType = "asc"
	}
	if q.SortType != "asc" && q.SortType != "desc" {
		return nil, apperror.Validation("sortType must be one of [asc desc]")
	}
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize < 0 {
		q.PageSize = 0
	}
	q.SubCategoryIDs = slices.Compact(slices.Sorted(slices.Values(q.SubCategoryIDs)))

	key := listCacheKey(q)
	if page, ok := s.cachedPage(ctx, key); ok {
		return page, nil
	}

	defer s.metrics.TrackDBOperation("product_list")(time.Now())

	filter := repository.ProductFilter{
		Name:           q.Name,
		SKU:            q.SKU,
		CategoryID:     q.CategoryID,
		SubCategoryIDs: q.SubCategoryIDs,
		SortColumn:     column,
		Desc:           q.SortType == "desc",
	}
	if q.PageSize > 0 {
		filter.Offset = (q.Page - 1) * q.PageSize
		filter.Limit = q.PageSize
	}

	products, total, err := s.products.List(ctx, filter)
	if err != nil {
		return nil, apperror.Internal(err, "failed to list products")
	}

	pageSize := q.PageSize
	if pageSize == 0 {
		// default page size is the whole result, so only page 1 has rows
		pageSize = int(total)
		if q.Page > 1 {
			products = []model.Product{}
		}
	}
	totalPages := 0
	if pageSize > 0 {
		totalPages = int((total + int64(pageSize) - 1) / int64(pageSize))
	}

	page := &ProductPage{
		Data:       products,
		Total:      total,
		Page:       q.Page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}
	s.storePage(ctx, key, page)
	return page, nil
}

func listCacheKey(q dto.ProductListQuery) string {
	raw, _ := json.Marshal(q)
	sum := md5.Sum(raw)
	return productListCachePrefix + hex.EncodeToString(sum[:])
}

func (s *ProductService) cachedPage(ctx context.Context, key string) (*ProductPage, bool) {
	raw, err := s.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, cache.ErrMiss) {
			s.log.Warn("Product list cache read failed", zap.Error(err))
		}
		s.metrics.RecordCacheLookup(false)
		return nil, false
	}
	var page ProductPage
	if err := json.Unmarshal(raw, &page); err != nil {
		s.log.Warn("Product list cache entry is corrupt", zap.String("key", key), zap.Error(err))
		s.metrics.RecordCacheLookup(false)
		return nil, false
	}
	s.metrics.RecordCacheLookup(true)
	return &page, true
}

func (s *ProductService) storePage(ctx context.Context, key string, page *ProductPage) {
	raw, err := json.Marshal(page)
	if err != nil {
		s.log.Warn("Failed to encode product list", zap.Error(err))
		return
	}
	if err := s.cache.Set(ctx, key, raw, s.cacheTTL); err != nil {
		s.log.Warn("Product list cache write failed", zap.Error(err))
	}
}

// InvalidateList drops every memoised listing
func (s *ProductService) InvalidateList(ctx context.Context) {
	if err := s.cache.DeletePrefix(ctx, productListCachePrefix); err != nil {
		s.log.Warn("Product list cache invalidation failed", zap.Error(err))
	}
}

func (s *ProductService) Get(ctx context.Context, id uint) (*model.Product, error) {
	product, err := s.products.FindDetail(ctx, id)
	if err != nil {
		return nil, apperror.Internal(err, "failed to load product")
	}
	if product == nil {
		return nil, apperror.NotFound("product not found")
	}
	return product, nil
}

// GetByIDs serves guest carts kept on the client
func (s *ProductService) GetByIDs(ctx context.Context, ids []uint) ([]model.Product, error) {
	products, err := s.products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, apperror.Internal(err, "failed to load products")
	}
	return products, nil
}

func (s *ProductService) Create(ctx context.Context, req dto.CreateProductRequest) (*model.Product, error) {
	if err := s.requireCategory(ctx, req.CategoryID); err != nil {
		return nil, err
	}
	if err := s.requireFreeSKU(ctx, req.SKU, 0); err != nil {
		return nil, err
	}

	product := &model.Product{
		Name:        req.Name,
		SKU:         req.SKU,
		Price:       req.Price,
		Discount:    req.Discount,
		Stock:       req.Stock,
		IsAvailable: req.IsAvailable == nil || *req.IsAvailable,
		CategoryID:  req.CategoryID,
	}
	for _, info := range req.Info {
		product.Info = append(product.Info, model.ProductInfo{Title: info.Title, Description: info.Description})
	}

	memberships := repository.Memberships{
		repository.RelationSubCategories:  req.SubCategoryIDs,
		repository.RelationCupSizes:       req.CupSizeIDs,
		repository.RelationClothingSizes:  req.ClothingSizeIDs,
		repository.RelationBeltSizes:      req.BeltSizeIDs,
		repository.RelationUnderbustSizes: req.UnderbustSizeIDs,
	}
	if err := s.products.Create(ctx, product, memberships); err != nil {
		return nil, productWriteError(err, "failed to create product")
	}

	s.InvalidateList(ctx)
	s.metrics.RecordProductOperation("create")
	s.log.Info("Product created", zap.Uint("product_id", product.ID), zap.String("sku", product.SKU))
	return s.Get(ctx, product.ID)
}

func (s *ProductService) Update(ctx context.Context, id uint, req dto.UpdateProductRequest) (*model.Product, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, apperror.Internal(err, "failed to load product")
	}
	if product == nil {
		return nil, apperror.NotFound("product not found")
	}

	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.SKU != nil && *req.SKU != product.SKU {
		if err := s.requireFreeSKU(ctx, *req.SKU, id); err != nil {
			return nil, err
		}
		product.SKU = *req.SKU
	}
	if req.Price != nil {
		product.Price = *req.Price
	}
	if req.Discount != nil {
		product.Discount = *req.Discount
	}
	if req.Stock != nil {
		product.Stock = *req.Stock
	}
	if req.IsAvailable != nil {
		product.IsAvailable = *req.IsAvailable
	}
	if req.CategoryID != nil && *req.CategoryID != product.CategoryID {
		if err := s.requireCategory(ctx, *req.CategoryID); err != nil {
			return nil, err
		}
		product.CategoryID = *req.CategoryID
	}

	memberships := repository.Memberships{}
	optional := map[repository.Relation]*[]uint{
		repository.RelationSubCategories:  req.SubCategoryIDs,
		repository.RelationCupSizes:       req.CupSizeIDs,
		repository.RelationClothingSizes:  req.ClothingSizeIDs,
		repository.RelationBeltSizes:      req.BeltSizeIDs,
		repository.RelationUnderbustSizes: req.UnderbustSizeIDs,
	}
	for rel, ids := range optional {
		if ids != nil {
			memberships[rel] = *ids
		}
	}

	if err := s.products.Update(ctx, product, memberships); err != nil {
		return nil, productWriteError(err, "failed to update product")
	}

	s.InvalidateList(ctx)
	s.metrics.RecordProductOperation("update")
	return s.Get(ctx, id)
}

// Delete removes the product and then its image files. Files that are
// already gone are skipped.
func (s *ProductService) Delete(ctx context.Context, id uint) error {
	product, err := s.products.FindWithImages(ctx, id)
	if err != nil {
		return apperror.Internal(err, "failed to load product")
	}
	if product == nil {
		return apperror.NotFound("product not found")
	}

	if _, err := s.products.Delete(ctx, id); err != nil {
		return apperror.Internal(err, "failed to delete product")
	}
	for _, img := range product.Images {
		removeFile(s.files, s.log, img.Filename)
	}

	s.InvalidateList(ctx)
	s.metrics.RecordProductOperation("delete")
	s.log.Info("Product deleted", zap.Uint("product_id", id), zap.Int("images", len(product.Images)))
	return nil
}

func (s *ProductService) ListConfigurations(ctx context.Context, productID uint) ([]model.ProductConfiguration, error) {
	if _, err := s.requireProduct(ctx, productID); err != nil {
		return nil, err
	}
	configs, err := s.products.ListConfigurations(ctx, productID)
	if err != nil {
		return nil, apperror.Internal(err, "failed to list configurations")
	}
	return configs, nil
}

func (s *ProductService) CreateConfiguration(ctx context.Context, productID uint, req dto.ConfigurationRequest) (*model.ProductConfiguration, error) {
	if _, err := s.requireProduct(ctx, productID); err != nil {
		return nil, err
	}
	if err := s.requireFreeConfigurationSKU(ctx, req.SKU, 0); err != nil {
		return nil, err
	}

	config := &model.ProductConfiguration{ProductID: productID, Name: req.Name, SKU: req.SKU, Price: req.Price}
	if err := s.products.CreateConfiguration(ctx, config); err != nil {
		return nil, productWriteError(err, "failed to create configuration")
	}
	s.InvalidateList(ctx)
	return config, nil
}

func (s *ProductService) UpdateConfiguration(ctx context.Context, productID, configID uint, req dto.ConfigurationRequest) (*model.ProductConfiguration, error) {
	config, err := s.ownedConfiguration(ctx, productID, configID)
	if err != nil {
		return nil, err
	}
	if req.SKU != config.SKU {
		if err := s.requireFreeConfigurationSKU(ctx, req.SKU, configID); err != nil {
			return nil, err
		}
	}

	config.Name = req.Name
	config.SKU = req.SKU
	config.Price = req.Price
	if err := s.products.UpdateConfiguration(ctx, config); err != nil {
		return nil, productWriteError(err, "failed to update configuration")
	}
	s.InvalidateList(ctx)
	return config, nil
}

func (s *ProductService) DeleteConfiguration(ctx context.Context, productID, configID uint) error {
	if _, err := s.ownedConfiguration(ctx, productID, configID); err != nil {
		return err
	}
	if _, err := s.products.DeleteConfiguration(ctx, configID); err != nil {
		return apperror.Internal(err, "failed to delete configuration")
	}
	s.InvalidateList(ctx)
	return nil
}

func (s *ProductService) AddInfo(ctx context.Context, productID uint, req dto.InfoRequest) (*model.ProductInfo, error) {
	if _, err := s.requireProduct(ctx, productID); err != nil {
		return nil, err
	}
	info := &model.ProductInfo{ProductID: productID, Title: req.Title, Description: req.Description}
	if err := s.products.AddInfo(ctx, info); err != nil {
		return nil, apperror.Internal(err, "failed to add product info")
	}
	return info, nil
}

func (s *ProductService) DeleteInfo(ctx context.Context, productID, infoID uint) error {
	deleted, err := s.products.DeleteInfo(ctx, productID, infoID)
	if err != nil {
		return apperror.Internal(err, "failed to delete product info")
	}
	if !deleted {
		return apperror.NotFound("product info not found")
	}
	return nil
}

func (s *ProductService) requireProduct(ctx context.Context, id uint) (*model.Product, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, apperror.Internal(err, "failed to load product")
	}
	if product == nil {
		return nil, apperror.NotFound("product not found")
	}
	return product, nil
}

func (s *ProductService) requireCategory(ctx context.Context, id uint) error {
	category, err := s.catalog.FindCategory(ctx, id)
	if err != nil {
		return apperror.Internal(err, "failed to load category")
	}
	if category == nil {
		return apperror.NotFound("category not found")
	}
	return nil
}

func (s *ProductService) requireFreeSKU(ctx context.Context, sku string, excludeID uint) error {
	taken, err := s.products.SKUExists(ctx, sku, excludeID)
	if err != nil {
		return apperror.Internal(err, "failed to check sku")
	}
	if taken {
		return apperror.Conflict("product with sku %q already exists", sku)
	}
	return nil
}

func (s *ProductService) requireFreeConfigurationSKU(ctx context.Context, sku string, excludeID uint) error {
	taken, err := s.products.ConfigurationSKUExists(ctx, sku, excludeID)
	if err != nil {
		return apperror.Internal(err, "failed to check sku")
	}
	if taken {
		return apperror.Conflict("configuration with sku %q already exists", sku)
	}
	return nil
}

func (s *ProductService) ownedConfiguration(ctx context.Context, productID, configID uint) (*model.ProductConfiguration, error) {
	config, err := s.products.FindConfiguration(ctx, configID)
	if err != nil {
		return nil, apperror.Internal(err, "failed to load configuration")
	}
	if config == nil {
		return nil, apperror.NotFound("configuration not found")
	}
	if config.ProductID != productID {
		return nil, apperror.Validation("configuration %d does not belong to product %d", configID, productID)
	}
	return config, nil
}

func productWriteError(err error, message string) error {
	if errors.Is(err, repository.ErrDuplicate) {
		return apperror.Conflict("sku already exists")
	}
	var missing *repository.MissingReferenceError
	if errors.As(err, &missing) {
		return apperror.NotFound("%s not found: %v", missing.Table, missing.IDs)
	}
	return apperror.Internal(err, message)
}

// removeFile deletes a stored file, logging instead of failing since the
// database row is already gone
func removeFile(files FileStore, log *zap.Logger, filename string) {
	removed, err := files.Remove(filename)
	switch {
	case err != nil:
		log.Error("Failed to remove file", zap.String("filename", filename), zap.Error(err))
	case !removed:
		log.Warn("File already missing", zap.String("filename", filename))
	}
}
