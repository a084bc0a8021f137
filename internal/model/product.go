package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product represents a catalog item with its variant selectors
type Product struct {
	ID             uint                   `json:"id" gorm:"primarykey"`
	Name           string                 `json:"name" gorm:"type:varchar(255);not null"`
	SKU            string                 `json:"sku" gorm:"type:varchar(100);uniqueIndex;not null"`
	Price          decimal.Decimal        `json:"price" gorm:"type:decimal(12,2);not null"`
	Discount       decimal.Decimal        `json:"discount" gorm:"type:decimal(5,2);not null;default:0"`
	Stock          int                    `json:"stock" gorm:"not null;default:0"`
	IsAvailable    bool                   `json:"isAvailable" gorm:"not null;default:true"`
	CategoryID     uint                   `json:"categoryId" gorm:"index;not null"`
	Category       *Category              `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	SubCategories  []SubCategory          `json:"subCategories,omitempty" gorm:"many2many:product_sub_categories"`
	CupSizes       []CupSize              `json:"cupSizes,omitempty" gorm:"many2many:product_cup_sizes"`
	ClothingSizes  []ClothingSize         `json:"clothingSizes,omitempty" gorm:"many2many:product_clothing_sizes"`
	BeltSizes      []BeltSize             `json:"beltSizes,omitempty" gorm:"many2many:product_belt_sizes"`
	UnderbustSizes []UnderbustSize        `json:"underbustSizes,omitempty" gorm:"many2many:product_underbust_sizes"`
	Images         []ProductImage         `json:"images" gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	Configurations []ProductConfiguration `json:"productConfigurations,omitempty" gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	Info           []ProductInfo          `json:"info,omitempty" gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt      time.Time              `json:"createdAt"`
	UpdatedAt      time.Time              `json:"updatedAt"`
}

// HasConfiguration reports whether id is one of the product's own configurations
func (p *Product) HasConfiguration(id uint) bool {
	for _, c := range p.Configurations {
		if c.ID == id {
			return true
		}
	}
	return false
}

// FindImage returns the product image with the given id
func (p *Product) FindImage(id uint) *ProductImage {
	for i := range p.Images {
		if p.Images[i].ID == id {
			return &p.Images[i]
		}
	}
	return nil
}

// ProductImage references an uploaded file by name
type ProductImage struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	ProductID uint      `json:"-" gorm:"index;not null"`
	Filename  string    `json:"filename" gorm:"type:varchar(255);not null"`
	CreatedAt time.Time `json:"-"`
}

// ProductConfiguration is a named variant with its own SKU and price
type ProductConfiguration struct {
	ID        uint            `json:"id" gorm:"primarykey"`
	ProductID uint            `json:"productId" gorm:"index;not null"`
	Name      string          `json:"name" gorm:"type:varchar(255);not null"`
	SKU       string          `json:"sku" gorm:"type:varchar(100);uniqueIndex;not null"`
	Price     decimal.Decimal `json:"price" gorm:"type:decimal(12,2);not null"`
	CreatedAt time.Time       `json:"-"`
	UpdatedAt time.Time       `json:"-"`
}

// ProductInfo is a free-text block shown on the product page
type ProductInfo struct {
	ID          uint   `json:"id" gorm:"primarykey"`
	ProductID   uint   `json:"-" gorm:"index;not null"`
	Title       string `json:"title" gorm:"type:varchar(255);not null"`
	Description string `json:"description" gorm:"type:text"`
}
