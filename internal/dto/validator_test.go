package dto

import (
	"testing"

	"shop-service/internal/apperror"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateRegister(t *testing.T) {
	v := NewValidator()

	err := v.Validate(&RegisterRequest{Email: "a@b.co", Password: "secret1", PasswordRepeat: "secret2"})
	require.Error(t, err)
	assert.True(t, apperror.Is(err, apperror.KindValidation))
	assert.Equal(t, "passwordRepeat must match password", apperror.Message(err))

	err = v.Validate(&RegisterRequest{Email: "not-an-email", Password: "secret1", PasswordRepeat: "secret1"})
	assert.Equal(t, "email must be a valid email", apperror.Message(err))

	assert.NoError(t, v.Validate(&RegisterRequest{Email: "a@b.co", Password: "secret1", PasswordRepeat: "secret1"}))
}

func TestValidateCartItem(t *testing.T) {
	v := NewValidator()

	for _, q := range []int{0, -1, 100} {
		err := v.Validate(&CartItemRequest{Quantity: q})
		assert.True(t, apperror.Is(err, apperror.KindValidation), "quantity %d", q)
	}

	zero := uint(0)
	err := v.Validate(&CartItemRequest{Quantity: 1, CupSizeID: &zero})
	assert.Equal(t, "cupSizeId must be greater than 0", apperror.Message(err))

	assert.NoError(t, v.Validate(&CartItemRequest{Quantity: 3}))
}

func TestValidateProductList(t *testing.T) {
	v := NewValidator()

	err := v.Validate(&ProductListQuery{SortBy: "password"})
	assert.True(t, apperror.Is(err, apperror.KindValidation))

	err = v.Validate(&ProductListQuery{SortType: "up"})
	assert.True(t, apperror.Is(err, apperror.KindValidation))

	assert.NoError(t, v.Validate(&ProductListQuery{SortBy: "createdAt", SortType: "desc", Page: 2}))
}

func TestValidateProductPricing(t *testing.T) {
	v := NewValidator()

	req := &CreateProductRequest{Name: "Set", SKU: "X1", CategoryID: 1, Price: decimal.Zero}
	err := v.Validate(req)
	assert.Equal(t, "price must be greater than 0", apperror.Message(err))

	req.Price = decimal.NewFromInt(10)
	req.Discount = decimal.NewFromInt(120)
	err = v.Validate(req)
	assert.Equal(t, "discount must be between 0 and 100", apperror.Message(err))

	req.Discount = decimal.NewFromInt(15)
	assert.NoError(t, v.Validate(req))

	negative := decimal.NewFromInt(-1)
	assert.Error(t, v.Validate(&UpdateProductRequest{Price: &negative}))
	assert.NoError(t, v.Validate(&UpdateProductRequest{}))
}
