package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"shop-service/internal/model"

	"gorm.io/gorm"
)

type UserRepository interface {
	FindByID(ctx context.Context, id string) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByIDOrEmail(ctx context.Context, idOrEmail string) (*model.User, error)
	List(ctx context.Context) ([]model.User, error)
	Create(ctx context.Context, user *model.User) error
	UpsertByEmail(ctx context.Context, user *model.User) (*model.User, error)
	UpdateRole(ctx context.Context, id string, role model.Role) (bool, error)
	SetRefreshHash(ctx context.Context, id string, hash *string) error
	Delete(ctx context.Context, id string) (bool, error)
}

type GormUserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

func (r *GormUserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	return first[model.User](r.db.WithContext(ctx).Where("id = ?", id))
}

func (r *GormUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return first[model.User](r.db.WithContext(ctx).Where("email = ?", normalizeEmail(email)))
}

// FindByIDOrEmail treats values containing "@" as emails
func (r *GormUserRepository) FindByIDOrEmail(ctx context.Context, idOrEmail string) (*model.User, error) {
	if strings.Contains(idOrEmail, "@") {
		return r.FindByEmail(ctx, idOrEmail)
	}
	return r.FindByID(ctx, idOrEmail)
}

func (r *GormUserRepository) List(ctx context.Context) ([]model.User, error) {
	var users []model.User
	err := r.db.WithContext(ctx).Order("created_at").Find(&users).Error
	return users, err
}

func (r *GormUserRepository) Create(ctx context.Context, user *model.User) error {
	user.Email = normalizeEmail(user.Email)
	return translate(r.db.WithContext(ctx).Create(user).Error)
}

// UpsertByEmail returns the existing user with the email or creates one. A
// concurrent insert of the same email makes this call return the winner.
func (r *GormUserRepository) UpsertByEmail(ctx context.Context, user *model.User) (*model.User, error) {
	existing, err := r.FindByEmail(ctx, user.Email)
	if err != nil || existing != nil {
		return existing, err
	}

	err = r.Create(ctx, user)
	if errors.Is(err, ErrDuplicate) {
		// Lost the insert race, read the row that won
		existing, err = r.FindByEmail(ctx, user.Email)
		if err == nil && existing == nil {
			return nil, fmt.Errorf("%w: email %s", ErrDuplicate, user.Email)
		}
		return existing, err
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *GormUserRepository) UpdateRole(ctx context.Context, id string, role model.Role) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Update("role", role)
	return res.RowsAffected > 0, res.Error
}

func (r *GormUserRepository) SetRefreshHash(ctx context.Context, id string, hash *string) error {
	return r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Update("hashed_refresh_token", hash).Error
}

// Delete soft-deletes the user and drops the stored refresh token
func (r *GormUserRepository) Delete(ctx context.Context, id string) (bool, error) {
	var deleted bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.User{}).Where("id = ?", id).Update("hashed_refresh_token", nil).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&model.User{})
		deleted = res.RowsAffected > 0
		return res.Error
	})
	return deleted, err
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
