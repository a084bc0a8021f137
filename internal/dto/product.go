package dto

import (
	"shop-service/internal/apperror"

	"github.com/shopspring/decimal"
)

var maxDiscount = decimal.NewFromInt(100)

// ProductListQuery carries the catalog listing parameters. SubCategoryIDs is
// filled by the handler from a comma list or repeated parameters.
type ProductListQuery struct {
	Page           int    `query:"page" json:"page" validate:"omitempty,min=1"`
	PageSize       int    `query:"pageSize" json:"pageSize" validate:"omitempty,min=1"`
	SortBy         string `query:"sortBy" json:"sortBy" validate:"omitempty,oneof=id name sku price discount stock createdAt"`
	SortType       string `query:"sortType" json:"sortType" validate:"omitempty,oneof=asc desc"`
	Name           string `query:"name" json:"name" validate:"max=255"`
	SKU            string `query:"sku" json:"sku" validate:"max=100"`
	CategoryID     uint   `query:"categoryId" json:"categoryId"`
	SubCategoryIDs []uint `query:"-" json:"subCategoryIds"`
}

// SizeSelection lists size ids per dimension for product membership sets
type SizeSelection struct {
	CupSizeIDs       []uint `json:"cupSizeIds" validate:"omitempty,dive,gt=0"`
	ClothingSizeIDs  []uint `json:"clothingSizeIds" validate:"omitempty,dive,gt=0"`
	BeltSizeIDs      []uint `json:"beltSizeIds" validate:"omitempty,dive,gt=0"`
	UnderbustSizeIDs []uint `json:"underbustSizeIds" validate:"omitempty,dive,gt=0"`
}

type CreateProductRequest struct {
	Name           string          `json:"name" validate:"required,max=255"`
	SKU            string          `json:"sku" validate:"required,max=100"`
	Price          decimal.Decimal `json:"price"`
	Discount       decimal.Decimal `json:"discount"`
	Stock          int             `json:"stock" validate:"min=0"`
	IsAvailable    *bool           `json:"isAvailable"`
	CategoryID     uint            `json:"categoryId" validate:"required,gt=0"`
	SubCategoryIDs []uint          `json:"subCategoryIds" validate:"omitempty,dive,gt=0"`
	SizeSelection
	Info []InfoRequest `json:"info" validate:"omitempty,dive"`
}

func (r *CreateProductRequest) Check() error {
	return checkPricing(&r.Price, &r.Discount)
}

// UpdateProductRequest is a partial update. Nil fields are left unchanged and
// non-nil id lists replace the corresponding membership set.
type UpdateProductRequest struct {
	Name             *string          `json:"name" validate:"omitempty,min=1,max=255"`
	SKU              *string          `json:"sku" validate:"omitempty,min=1,max=100"`
	Price            *decimal.Decimal `json:"price"`
	Discount         *decimal.Decimal `json:"discount"`
	Stock            *int             `json:"stock" validate:"omitempty,min=0"`
	IsAvailable      *bool            `json:"isAvailable"`
	CategoryID       *uint            `json:"categoryId" validate:"omitempty,gt=0"`
	SubCategoryIDs   *[]uint          `json:"subCategoryIds"`
	CupSizeIDs       *[]uint          `json:"cupSizeIds"`
	ClothingSizeIDs  *[]uint          `json:"clothingSizeIds"`
	BeltSizeIDs      *[]uint          `json:"beltSizeIds"`
	UnderbustSizeIDs *[]uint          `json:"underbustSizeIds"`
}

func (r *UpdateProductRequest) Check() error {
	return checkPricing(r.Price, r.Discount)
}

type ConfigurationRequest struct {
	Name  string          `json:"name" validate:"required,max=255"`
	SKU   string          `json:"sku" validate:"required,max=100"`
	Price decimal.Decimal `json:"price"`
}

func (r *ConfigurationRequest) Check() error {
	return checkPricing(&r.Price, nil)
}

type InfoRequest struct {
	Title       string `json:"title" validate:"required,max=255"`
	Description string `json:"description"`
}

// IDsRequest is used where the body is a bare id array
type IDsRequest []uint

func checkPricing(price, discount *decimal.Decimal) error {
	if price != nil && !price.IsPositive() {
		return apperror.Validation("price must be greater than 0")
	}
	if discount != nil && (discount.IsNegative() || discount.GreaterThan(maxDiscount)) {
		return apperror.Validation("discount must be between 0 and 100")
	}
	return nil
}
