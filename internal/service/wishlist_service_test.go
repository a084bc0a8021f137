package service

import (
	"context"
	"testing"

	"shop-service/internal/apperror"
	"shop-service/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWishlistAddTwiceConflicts(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p := env.createProduct(t, braCategory, "B-1", 10)

	_, err := env.wishlist.Add(ctx, "user-1", p.ID)
	require.NoError(t, err)
	_, err = env.wishlist.Add(ctx, "user-1", p.ID)
	assert.True(t, apperror.Is(err, apperror.KindConflict))

	assert.Equal(t, int64(1), env.count(t, &model.WishlistProduct{}))

	_, err = env.wishlist.Add(ctx, "user-2", p.ID)
	assert.NoError(t, err)
}

func TestWishlistAddUnknownProduct(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.wishlist.Add(context.Background(), "user-1", 999)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
	assert.Zero(t, env.count(t, &model.Wishlist{}))
}

func TestWishlistGetRemoveClear(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	a := env.createProduct(t, braCategory, "A", 10)
	b := env.createProduct(t, braCategory, "B", 10)

	empty, err := env.wishlist.Get(ctx, "user-1")
	require.NoError(t, err)
	assert.NotNil(t, empty.WishlistProducts)
	assert.Empty(t, empty.WishlistProducts)

	assert.True(t, apperror.Is(env.wishlist.Clear(ctx, "user-1"), apperror.KindNotFound))

	for _, id := range []uint{a.ID, b.ID} {
		_, err := env.wishlist.Add(ctx, "user-1", id)
		require.NoError(t, err)
	}
	wishlist, err := env.wishlist.Get(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, wishlist.WishlistProducts, 2)
	assert.NotNil(t, wishlist.WishlistProducts[0].Product)

	require.NoError(t, env.wishlist.Remove(ctx, "user-1", a.ID))
	assert.True(t, apperror.Is(env.wishlist.Remove(ctx, "user-1", a.ID), apperror.KindNotFound))

	require.NoError(t, env.wishlist.Clear(ctx, "user-1"))
	wishlist, err = env.wishlist.Get(ctx, "user-1")
	require.NoError(t, err)
	assert.Empty(t, wishlist.WishlistProducts)
}
