package service

import (
	"context"
	"testing"

	"shop-service/internal/apperror"
	"shop-service/internal/dto"
	"shop-service/internal/model"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateProductDuplicateSKU(t *testing.T) {
	env := newTestEnv(t)
	env.createProduct(t, braCategory, "X1", 10)

	_, err := env.products.Create(context.Background(), dto.CreateProductRequest{
		Name:       "Another",
		SKU:        "X1",
		Price:      decimal.NewFromInt(20),
		CategoryID: braCategory,
	})
	assert.True(t, apperror.Is(err, apperror.KindConflict))
	assert.Equal(t, int64(1), env.count(t, &model.Product{}))
}

func TestCreateProductWithMemberships(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	p, err := env.products.Create(ctx, dto.CreateProductRequest{
		Name:           "Lace set",
		SKU:            "L-1",
		Price:          decimal.NewFromInt(99),
		CategoryID:     model.SetsCategoryID,
		SubCategoryIDs: []uint{1, 3},
		SizeSelection:  dto.SizeSelection{CupSizeIDs: []uint{1, 2}, ClothingSizeIDs: []uint{4}},
		Info:           []dto.InfoRequest{{Title: "Care", Description: "Hand wash"}},
	})
	require.NoError(t, err)
	assert.Len(t, p.SubCategories, 2)
	assert.Len(t, p.CupSizes, 2)
	assert.Len(t, p.ClothingSizes, 1)
	require.Len(t, p.Info, 1)
	assert.Equal(t, "Care", p.Info[0].Title)
	assert.True(t, p.IsAvailable)
}

func TestCreateProductUnknownReferences(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.products.Create(ctx, dto.CreateProductRequest{Name: "n", SKU: "s", Price: decimal.NewFromInt(1), CategoryID: 99})
	assert.True(t, apperror.Is(err, apperror.KindNotFound))

	_, err = env.products.Create(ctx, dto.CreateProductRequest{
		Name:           "n",
		SKU:            "s",
		Price:          decimal.NewFromInt(1),
		CategoryID:     braCategory,
		SubCategoryIDs: []uint{1, 500},
	})
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
	assert.Zero(t, env.count(t, &model.Product{}))
}

func TestUpdateProductPartial(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p := env.createProduct(t, braCategory, "B-1", 10)
	other := env.createProduct(t, braCategory, "B-2", 10)

	name := "Renamed"
	subs := []uint{9}
	updated, err := env.products.Update(ctx, p.ID, dto.UpdateProductRequest{Name: &name, SubCategoryIDs: &subs})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)
	assert.Equal(t, "B-1", updated.SKU)
	require.Len(t, updated.SubCategories, 1)
	assert.Equal(t, uint(9), updated.SubCategories[0].ID)

	taken := other.SKU
	_, err = env.products.Update(ctx, p.ID, dto.UpdateProductRequest{SKU: &taken})
	assert.True(t, apperror.Is(err, apperror.KindConflict))

	_, err = env.products.Update(ctx, 999, dto.UpdateProductRequest{Name: &name})
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
}

func TestListPaging(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	for _, sku := range []string{"A", "B", "C", "D", "E"} {
		env.createProduct(t, braCategory, sku, 10)
	}

	page, err := env.products.List(ctx, dto.ProductListQuery{Page: 2, PageSize: 2, SortBy: "sku", SortType: "desc"})
	require.NoError(t, err)
	assert.Equal(t, int64(5), page.Total)
	assert.Equal(t, 3, page.TotalPages)
	require.Len(t, page.Data, 2)
	assert.Equal(t, "C", page.Data[0].SKU)
	assert.Equal(t, "B", page.Data[1].SKU)

	all, err := env.products.List(ctx, dto.ProductListQuery{})
	require.NoError(t, err)
	assert.Len(t, all.Data, 5)
	assert.Equal(t, 5, all.PageSize)
	assert.Equal(t, 1, all.TotalPages)

	beyond, err := env.products.List(ctx, dto.ProductListQuery{Page: 2})
	require.NoError(t, err)
	assert.Empty(t, beyond.Data)

	_, err = env.products.List(ctx, dto.ProductListQuery{SortBy: "password"})
	assert.True(t, apperror.Is(err, apperror.KindValidation))
}

func TestListEmptyCatalog(t *testing.T) {
	env := newTestEnv(t)
	page, err := env.products.List(context.Background(), dto.ProductListQuery{})
	require.NoError(t, err)
	assert.Zero(t, page.Total)
	assert.Zero(t, page.TotalPages)
	assert.Empty(t, page.Data)
}

func TestListIsCachedUntilWrite(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.createProduct(t, braCategory, "A", 10)
	q := dto.ProductListQuery{PageSize: 10, SubCategoryIDs: []uint{}}

	first, err := env.products.List(ctx, q)
	require.NoError(t, err)
	assert.Equal(t, int64(1), first.Total)

	// written behind the service, so a cached page stays stale
	require.NoError(t, env.db.Create(&model.Product{Name: "raw", SKU: "RAW", Price: decimal.NewFromInt(1), CategoryID: braCategory}).Error)

	second, err := env.products.List(ctx, q)
	require.NoError(t, err)
	assert.Equal(t, int64(1), second.Total)
	assert.Equal(t, 1.0, testutil.ToFloat64(env.metrics.CacheHitsCounter))

	env.createProduct(t, braCategory, "B", 10)

	third, err := env.products.List(ctx, q)
	require.NoError(t, err)
	assert.Equal(t, int64(3), third.Total)
}

func TestListCacheKeyIgnoresSubCategoryOrder(t *testing.T) {
	a := dto.ProductListQuery{SubCategoryIDs: []uint{1, 2}}
	b := dto.ProductListQuery{SubCategoryIDs: []uint{1, 3}}
	assert.NotEqual(t, listCacheKey(a), listCacheKey(b))

	env := newTestEnv(t)
	ctx := context.Background()
	_, err := env.products.List(ctx, dto.ProductListQuery{SubCategoryIDs: []uint{3, 1, 3}})
	require.NoError(t, err)
	_, err = env.products.List(ctx, dto.ProductListQuery{SubCategoryIDs: []uint{1, 3}})
	require.NoError(t, err)
	assert.Equal(t, 1.0, testutil.ToFloat64(env.metrics.CacheHitsCounter))
}

func TestDeleteProductRemovesFilesAndLines(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p := env.createProduct(t, braCategory, "B-1", 10)

	withImages, err := env.photos.Append(ctx, p.ID, fileHeaders(t, "a.png", "b.jpg"))
	require.NoError(t, err)
	require.Len(t, withImages.Images, 2)
	_, err = env.carts.AddOrIncrement(ctx, "user-1", p.ID, dto.CartItemRequest{Quantity: 1, CupSizeID: uintPtr(1)})
	require.NoError(t, err)
	_, err = env.wishlist.Add(ctx, "user-1", p.ID)
	require.NoError(t, err)

	require.NoError(t, env.products.Delete(ctx, p.ID))
	for _, img := range withImages.Images {
		assert.NoFileExists(t, env.storedFile(img.Filename))
	}
	assert.Zero(t, env.count(t, &model.ProductImage{}))
	assert.Zero(t, env.count(t, &model.CartProduct{}))
	assert.Zero(t, env.count(t, &model.WishlistProduct{}))

	_, err = env.products.Get(ctx, p.ID)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
	assert.True(t, apperror.Is(env.products.Delete(ctx, p.ID), apperror.KindNotFound))
}

func TestConfigurationLifecycle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p := env.createProduct(t, braCategory, "B-1", 10)
	other := env.createProduct(t, braCategory, "B-2", 10)
	c := env.addConfiguration(t, p.ID, "B-1-a", 12)

	_, err := env.products.CreateConfiguration(ctx, other.ID, dto.ConfigurationRequest{Name: "dup", SKU: "B-1-a", Price: decimal.NewFromInt(1)})
	assert.True(t, apperror.Is(err, apperror.KindConflict))

	_, err = env.products.UpdateConfiguration(ctx, other.ID, c.ID, dto.ConfigurationRequest{Name: "x", SKU: "x", Price: decimal.NewFromInt(1)})
	assert.True(t, apperror.Is(err, apperror.KindValidation))

	updated, err := env.products.UpdateConfiguration(ctx, p.ID, c.ID, dto.ConfigurationRequest{Name: "Push-up", SKU: "B-1-b", Price: decimal.NewFromInt(14)})
	require.NoError(t, err)
	assert.Equal(t, "B-1-b", updated.SKU)

	configs, err := env.products.ListConfigurations(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, configs, 1)
	assert.True(t, decimal.NewFromInt(14).Equal(configs[0].Price))

	_, err = env.carts.AddOrIncrement(ctx, "user-1", p.ID, dto.CartItemRequest{Quantity: 1, CupSizeID: uintPtr(1), ConfigurationID: &c.ID})
	require.NoError(t, err)

	require.NoError(t, env.products.DeleteConfiguration(ctx, p.ID, c.ID))
	assert.Zero(t, env.count(t, &model.CartProduct{}))
	assert.True(t, apperror.Is(env.products.DeleteConfiguration(ctx, p.ID, c.ID), apperror.KindNotFound))
}

func TestProductInfo(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p := env.createProduct(t, braCategory, "B-1", 10)

	info, err := env.products.AddInfo(ctx, p.ID, dto.InfoRequest{Title: "Fabric", Description: "Lace"})
	require.NoError(t, err)

	assert.True(t, apperror.Is(env.products.DeleteInfo(ctx, p.ID+1, info.ID), apperror.KindNotFound))
	require.NoError(t, env.products.DeleteInfo(ctx, p.ID, info.ID))

	_, err = env.products.AddInfo(ctx, 999, dto.InfoRequest{Title: "x"})
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
}

func TestGetByIDs(t *testing.T) {
	env := newTestEnv(t)
	a := env.createProduct(t, braCategory, "A", 10)
	b := env.createProduct(t, braCategory, "B", 10)

	products, err := env.products.GetByIDs(context.Background(), []uint{b.ID, a.ID, 999})
	require.NoError(t, err)
	assert.Len(t, products, 2)
}
