package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Cart is keyed by the owning user, so a user has at most one cart
type Cart struct {
	UserID       string        `json:"userId" gorm:"type:varchar(36);primaryKey"`
	CartProducts []CartProduct `json:"cartProducts,omitempty" gorm:"foreignKey:CartID;references:UserID;constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time     `json:"createdAt"`
	UpdatedAt    time.Time     `json:"updatedAt"`
}

// CartProduct is one line item. Its identity is the tuple
// (cart, product, configuration, belt size, clothing size, cup size).
type CartProduct struct {
	ID                     uint                  `json:"id" gorm:"primarykey"`
	CartID                 string                `json:"cartId" gorm:"type:varchar(36);index;not null"`
	ProductID              uint                  `json:"productId" gorm:"index;not null"`
	Product                *Product              `json:"product,omitempty" gorm:"constraint:OnDelete:CASCADE"`
	ProductConfigurationID *uint                 `json:"productConfigurationId"`
	ProductConfiguration   *ProductConfiguration `json:"productConfiguration,omitempty" gorm:"constraint:OnDelete:CASCADE"`
	BeltSizeID             *uint                 `json:"beltSizeId"`
	BeltSize               *BeltSize             `json:"beltSize,omitempty"`
	ClothingSizeID         *uint                 `json:"clothingSizeId"`
	ClothingSize           *ClothingSize         `json:"clothingSize,omitempty"`
	CupSizeID              *uint                 `json:"cupSizeId"`
	CupSize                *CupSize              `json:"cupSize,omitempty"`
	Quantity               int                   `json:"quantity" gorm:"not null"`
	CreatedAt              time.Time             `json:"createdAt"`
	UpdatedAt              time.Time             `json:"updatedAt"`
}

// Subtotal is the referenced product price times the quantity
func (cp *CartProduct) Subtotal() decimal.Decimal {
	if cp.Product == nil {
		return decimal.Zero
	}
	return cp.Product.Price.Mul(decimal.NewFromInt(int64(cp.Quantity)))
}

// LineItemKey is the identity tuple of a cart line
type LineItemKey struct {
	CartID          string
	ProductID       uint
	ConfigurationID *uint
	BeltSizeID      *uint
	ClothingSizeID  *uint
	CupSizeID       *uint
}

// Key returns the identity tuple of the line
func (cp *CartProduct) Key() LineItemKey {
	return LineItemKey{
		CartID:          cp.CartID,
		ProductID:       cp.ProductID,
		ConfigurationID: cp.ProductConfigurationID,
		BeltSizeID:      cp.BeltSizeID,
		ClothingSizeID:  cp.ClothingSizeID,
		CupSizeID:       cp.CupSizeID,
	}
}

// CartSummary is the folded total of a cart
type CartSummary struct {
	TotalPrice    decimal.Decimal `json:"totalPrice"`
	TotalQuantity int             `json:"totalQuantity"`
}
