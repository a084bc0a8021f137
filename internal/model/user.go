package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// Valid reports whether r is a known role
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

type Provider string

const (
	ProviderLocal  Provider = "LOCAL"
	ProviderGoogle Provider = "GOOGLE"
)

// User represents an account. Users are soft-deleted so carts and wishlists
// keyed by the user id stay consistent.
type User struct {
	ID                 string         `json:"id" gorm:"type:varchar(36);primaryKey"`
	Email              string         `json:"email" gorm:"type:varchar(255);uniqueIndex;not null"`
	Password           string         `json:"-" gorm:"type:varchar(255)"`
	Role               Role           `json:"role" gorm:"type:varchar(20);not null;default:'USER'"`
	Provider           Provider       `json:"provider" gorm:"type:varchar(20);not null;default:'LOCAL'"`
	HashedRefreshToken *string        `json:"-" gorm:"type:varchar(255)"`
	CreatedAt          time.Time      `json:"createdAt"`
	UpdatedAt          time.Time      `json:"updatedAt"`
	DeletedAt          gorm.DeletedAt `json:"-" gorm:"index"`
}

// BeforeCreate assigns a UUID when none was provided
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.Role == "" {
		u.Role = RoleUser
	}
	if u.Provider == "" {
		u.Provider = ProviderLocal
	}
	return nil
}
