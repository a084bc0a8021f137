package model

import "time"

// Wishlist is keyed by the owning user
type Wishlist struct {
	UserID           string            `json:"userId" gorm:"type:varchar(36);primaryKey"`
	WishlistProducts []WishlistProduct `json:"wishlistProducts" gorm:"foreignKey:WishlistID;references:UserID;constraint:OnDelete:CASCADE"`
	CreatedAt        time.Time         `json:"createdAt"`
	UpdatedAt        time.Time         `json:"updatedAt"`
}

// WishlistProduct is unique per (wishlist, product)
type WishlistProduct struct {
	ID         uint      `json:"id" gorm:"primarykey"`
	WishlistID string    `json:"wishlistId" gorm:"type:varchar(36);not null;uniqueIndex:idx_wishlist_product"`
	ProductID  uint      `json:"productId" gorm:"not null;uniqueIndex:idx_wishlist_product"`
	Product    *Product  `json:"product,omitempty" gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt  time.Time `json:"createdAt"`
}
