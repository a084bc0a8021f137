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

const braCategory uint = 2

func TestAddRejectsNonPositiveQuantity(t *testing.T) {
	env := newTestEnv(t)
	p := env.createProduct(t, braCategory, "B-1", 10)

	for _, q := range []int{0, -1, -50} {
		_, err := env.carts.AddOrIncrement(context.Background(), "user-1", p.ID, dto.CartItemRequest{Quantity: q, CupSizeID: uintPtr(1)})
		assert.True(t, apperror.Is(err, apperror.KindValidation), "quantity %d", q)
	}
	assert.Zero(t, env.count(t, &model.CartProduct{}))
	assert.Zero(t, env.count(t, &model.Cart{}))
}

func TestAddRequiresASize(t *testing.T) {
	env := newTestEnv(t)
	p := env.createProduct(t, braCategory, "B-1", 10)

	_, err := env.carts.AddOrIncrement(context.Background(), "user-1", p.ID, dto.CartItemRequest{Quantity: 1})
	assert.True(t, apperror.Is(err, apperror.KindValidation))
}

func TestAddUnknownProduct(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.carts.AddOrIncrement(context.Background(), "user-1", 404, dto.CartItemRequest{Quantity: 1, CupSizeID: uintPtr(1)})
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
}

func TestRepeatedAddsMergeIntoOneLine(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p := env.createProduct(t, braCategory, "B-1", 10)
	req := dto.CartItemRequest{CupSizeID: uintPtr(5), BeltSizeID: uintPtr(2)}

	total := 0
	for _, q := range []int{1, 4, 2, 7} {
		req.Quantity = q
		total += q
		_, err := env.carts.AddOrIncrement(ctx, "user-1", p.ID, req)
		require.NoError(t, err)
	}

	items, err := env.carts.List(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, total, items[0].Quantity)
	assert.Equal(t, 4.0, testutil.ToFloat64(env.metrics.CartOperationsCounter.WithLabelValues("add")))
}

func TestDifferentSelectionsAreDifferentLines(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p := env.createProduct(t, braCategory, "B-1", 10)

	_, err := env.carts.AddOrIncrement(ctx, "user-1", p.ID, dto.CartItemRequest{Quantity: 1, CupSizeID: uintPtr(5)})
	require.NoError(t, err)
	_, err = env.carts.AddOrIncrement(ctx, "user-1", p.ID, dto.CartItemRequest{Quantity: 1, CupSizeID: uintPtr(6)})
	require.NoError(t, err)
	_, err = env.carts.AddOrIncrement(ctx, "user-1", p.ID, dto.CartItemRequest{Quantity: 1, CupSizeID: uintPtr(5), ClothingSizeID: uintPtr(1)})
	require.NoError(t, err)

	items, err := env.carts.List(ctx, "user-1")
	require.NoError(t, err)
	assert.Len(t, items, 3)
}

func TestConfigurationRules(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p := env.createProduct(t, braCategory, "B-1", 10)
	other := env.createProduct(t, braCategory, "B-2", 10)
	env.addConfiguration(t, p.ID, "B-1-a", 12)
	foreign := env.addConfiguration(t, other.ID, "B-2-a", 15)

	_, err := env.carts.AddOrIncrement(ctx, "user-1", p.ID, dto.CartItemRequest{Quantity: 1, CupSizeID: uintPtr(1)})
	assert.True(t, apperror.Is(err, apperror.KindValidation))

	_, err = env.carts.AddOrIncrement(ctx, "user-1", p.ID, dto.CartItemRequest{Quantity: 1, CupSizeID: uintPtr(1), ConfigurationID: &foreign.ID})
	assert.True(t, apperror.Is(err, apperror.KindNotFound))

	assert.Zero(t, env.count(t, &model.CartProduct{}))
}

func TestConfigurationIgnoredWithoutConfigurations(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p := env.createProduct(t, braCategory, "B-1", 10)

	item, err := env.carts.AddOrIncrement(ctx, "user-1", p.ID, dto.CartItemRequest{Quantity: 1, CupSizeID: uintPtr(1), ConfigurationID: uintPtr(77)})
	require.NoError(t, err)
	assert.Nil(t, item.ProductConfigurationID)
}

func TestSetsRequireCupAndClothingSize(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p := env.createProduct(t, model.SetsCategoryID, "S-1", 40)

	cases := []dto.CartItemRequest{
		{Quantity: 1, CupSizeID: uintPtr(1)},
		{Quantity: 1, ClothingSizeID: uintPtr(1)},
		{Quantity: 1, CupSizeID: uintPtr(1), BeltSizeID: uintPtr(1)},
		{Quantity: 1, ClothingSizeID: uintPtr(1), BeltSizeID: uintPtr(1)},
	}
	for _, req := range cases {
		_, err := env.carts.AddOrIncrement(ctx, "user-1", p.ID, req)
		assert.True(t, apperror.Is(err, apperror.KindValidation))
	}

	_, err := env.carts.AddOrIncrement(ctx, "user-1", p.ID, dto.CartItemRequest{Quantity: 1, CupSizeID: uintPtr(1), ClothingSizeID: uintPtr(2)})
	assert.NoError(t, err)
}

func TestAddUnknownSize(t *testing.T) {
	env := newTestEnv(t)
	p := env.createProduct(t, braCategory, "B-1", 10)

	_, err := env.carts.AddOrIncrement(context.Background(), "user-1", p.ID, dto.CartItemRequest{Quantity: 1, CupSizeID: uintPtr(999)})
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
}

func TestSummaryScenario(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	a := env.createProduct(t, braCategory, "A", 25)

	_, err := env.carts.Summary(ctx, "user-1")
	assert.True(t, apperror.Is(err, apperror.KindNotFound))

	_, err = env.carts.AddOrIncrement(ctx, "user-1", a.ID, dto.CartItemRequest{Quantity: 2, CupSizeID: uintPtr(5)})
	require.NoError(t, err)

	summary, err := env.carts.Summary(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 2, summary.TotalQuantity)
	assert.True(t, a.Price.Mul(decimal.NewFromInt(2)).Equal(summary.TotalPrice), summary.TotalPrice.String())

	_, err = env.carts.AddOrIncrement(ctx, "user-1", a.ID, dto.CartItemRequest{Quantity: 1, CupSizeID: uintPtr(5)})
	require.NoError(t, err)

	items, err := env.carts.List(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 3, items[0].Quantity)
}

func TestSummaryUsesProductPrice(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p := env.createProduct(t, braCategory, "B-1", 10)
	c := env.addConfiguration(t, p.ID, "B-1-a", 18)
	plain := env.createProduct(t, braCategory, "B-2", 5)

	_, err := env.carts.AddOrIncrement(ctx, "user-1", p.ID, dto.CartItemRequest{Quantity: 2, CupSizeID: uintPtr(1), ConfigurationID: &c.ID})
	require.NoError(t, err)
	_, err = env.carts.AddOrIncrement(ctx, "user-1", plain.ID, dto.CartItemRequest{Quantity: 3, CupSizeID: uintPtr(1)})
	require.NoError(t, err)

	summary, err := env.carts.Summary(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 5, summary.TotalQuantity)
	assert.True(t, decimal.NewFromInt(35).Equal(summary.TotalPrice), summary.TotalPrice.String())
}

func TestUpdateMergesIntoMatchingLine(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p := env.createProduct(t, braCategory, "B-1", 10)

	first, err := env.carts.AddOrIncrement(ctx, "user-1", p.ID, dto.CartItemRequest{Quantity: 2, CupSizeID: uintPtr(1)})
	require.NoError(t, err)
	second, err := env.carts.AddOrIncrement(ctx, "user-1", p.ID, dto.CartItemRequest{Quantity: 3, CupSizeID: uintPtr(2)})
	require.NoError(t, err)

	merged, err := env.carts.Update(ctx, "user-1", second.ID, dto.CartItemRequest{Quantity: 4, CupSizeID: uintPtr(1)})
	require.NoError(t, err)
	assert.Equal(t, first.ID, merged.ID)
	assert.Equal(t, 6, merged.Quantity)

	items, err := env.carts.List(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 6, items[0].Quantity)
}

func TestUpdateRewritesLine(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p := env.createProduct(t, braCategory, "B-1", 10)

	line, err := env.carts.AddOrIncrement(ctx, "user-1", p.ID, dto.CartItemRequest{Quantity: 2, CupSizeID: uintPtr(1)})
	require.NoError(t, err)

	updated, err := env.carts.Update(ctx, "user-1", line.ID, dto.CartItemRequest{Quantity: 5, BeltSizeID: uintPtr(3)})
	require.NoError(t, err)
	assert.Equal(t, line.ID, updated.ID)

	items, err := env.carts.List(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 5, items[0].Quantity)
	assert.Nil(t, items[0].CupSizeID)
	require.NotNil(t, items[0].BeltSize)
	assert.Equal(t, uint(3), items[0].BeltSize.ID)

	_, err = env.carts.Update(ctx, "user-2", line.ID, dto.CartItemRequest{Quantity: 1, CupSizeID: uintPtr(1)})
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
}

func TestRemoveAndClear(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p := env.createProduct(t, braCategory, "B-1", 10)

	assert.True(t, apperror.Is(env.carts.Clear(ctx, "user-1"), apperror.KindNotFound))
	assert.True(t, apperror.Is(env.carts.Remove(ctx, "user-1", 1), apperror.KindNotFound))

	line, err := env.carts.AddOrIncrement(ctx, "user-1", p.ID, dto.CartItemRequest{Quantity: 1, CupSizeID: uintPtr(1)})
	require.NoError(t, err)
	_, err = env.carts.AddOrIncrement(ctx, "user-1", p.ID, dto.CartItemRequest{Quantity: 1, CupSizeID: uintPtr(2)})
	require.NoError(t, err)

	assert.True(t, apperror.Is(env.carts.Remove(ctx, "user-2", line.ID), apperror.KindNotFound))
	require.NoError(t, env.carts.Remove(ctx, "user-1", line.ID))
	assert.True(t, apperror.Is(env.carts.Remove(ctx, "user-1", line.ID), apperror.KindNotFound))

	require.NoError(t, env.carts.Clear(ctx, "user-1"))
	items, err := env.carts.List(ctx, "user-1")
	require.NoError(t, err)
	assert.Empty(t, items)

	summary, err := env.carts.Summary(ctx, "user-1")
	require.NoError(t, err)
	assert.Zero(t, summary.TotalQuantity)
	assert.True(t, summary.TotalPrice.IsZero())
}
