package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusPaid      OrderStatus = "PAID"
	OrderStatusShipped   OrderStatus = "SHIPPED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

// Order is read-only in this service
type Order struct {
	ID         uint            `json:"id" gorm:"primarykey"`
	UserID     string          `json:"userId" gorm:"type:varchar(36);index;not null"`
	Status     OrderStatus     `json:"status" gorm:"type:varchar(20);not null;default:'PENDING'"`
	TotalPrice decimal.Decimal `json:"totalPrice" gorm:"type:decimal(12,2);not null"`
	Items      []OrderItem     `json:"items" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt  time.Time       `json:"createdAt"`
	UpdatedAt  time.Time       `json:"updatedAt"`
}

type OrderItem struct {
	ID        uint            `json:"id" gorm:"primarykey"`
	OrderID   uint            `json:"-" gorm:"index;not null"`
	ProductID uint            `json:"productId" gorm:"not null"`
	Name      string          `json:"name" gorm:"type:varchar(255)"`
	Quantity  int             `json:"quantity" gorm:"not null"`
	Price     decimal.Decimal `json:"price" gorm:"type:decimal(12,2);not null"`
}
