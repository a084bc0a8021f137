package service

import (
	"context"

	"shop-service/internal/apperror"
	"shop-service/internal/model"
	"shop-service/internal/repository"

	"go.uber.org/zap"
)

type UserService struct {
	users repository.UserRepository
	log   *zap.Logger
}

func NewUserService(users repository.UserRepository, log *zap.Logger) *UserService {
	return &UserService{users: users, log: log}
}

func (s *UserService) List(ctx context.Context) ([]model.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, apperror.Internal(err, "failed to list users")
	}
	return users, nil
}

// Find accepts either a user id or an email
func (s *UserService) Find(ctx context.Context, idOrEmail string) (*model.User, error) {
	user, err := s.users.FindByIDOrEmail(ctx, idOrEmail)
	if err != nil {
		return nil, apperror.Internal(err, "failed to look up user")
	}
	if user == nil {
		return nil, apperror.NotFound("user not found")
	}
	return user, nil
}

func (s *UserService) UpdateRole(ctx context.Context, id string, role model.Role) (*model.User, error) {
	if !role.Valid() {
		return nil, apperror.Validation("role must be one of [USER ADMIN]")
	}
	updated, err := s.users.UpdateRole(ctx, id, role)
	if err != nil {
		return nil, apperror.Internal(err, "failed to update role")
	}
	if !updated {
		return nil, apperror.NotFound("user not found")
	}
	s.log.Info("User role updated", zap.String("user_id", id), zap.String("role", string(role)))
	return s.Find(ctx, id)
}

func (s *UserService) Delete(ctx context.Context, id string) error {
	deleted, err := s.users.Delete(ctx, id)
	if err != nil {
		return apperror.Internal(err, "failed to delete user")
	}
	if !deleted {
		return apperror.NotFound("user not found")
	}
	s.log.Info("User deleted", zap.String("user_id", id))
	return nil
}
