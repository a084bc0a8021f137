package service

import (
	"context"
	"errors"

	"shop-service/internal/apperror"
	"shop-service/internal/model"
	"shop-service/internal/repository"
	"shop-service/prometheus"

	"go.uber.org/zap"
)

type WishlistService struct {
	wishlists repository.WishlistRepository
	products  repository.ProductRepository
	metrics   *prometheus.Metrics
	log       *zap.Logger
}

func NewWishlistService(wishlists repository.WishlistRepository, products repository.ProductRepository, metrics *prometheus.Metrics, log *zap.Logger) *WishlistService {
	return &WishlistService{wishlists: wishlists, products: products, metrics: metrics, log: log}
}

// Add puts the product on the user's wishlist, creating the wishlist on
// first use. A product can be on a wishlist once.
func (s *WishlistService) Add(ctx context.Context, userID string, productID uint) (*model.WishlistProduct, error) {
	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return nil, apperror.Internal(err, "failed to load product")
	}
	if product == nil {
		return nil, apperror.NotFound("product not found")
	}

	var item *model.WishlistProduct
	errDuplicate := apperror.Conflict("product is already in the wishlist")
	err = s.wishlists.Transaction(ctx, func(tx repository.WishlistRepository) error {
		if err := tx.EnsureWishlist(ctx, userID); err != nil {
			return err
		}
		present, err := tx.HasProduct(ctx, userID, productID)
		if err != nil {
			return err
		}
		if present {
			return errDuplicate
		}
		item, err = tx.AddProduct(ctx, userID, productID)
		return err
	})
	switch {
	case err == nil:
	case errors.Is(err, errDuplicate), errors.Is(err, repository.ErrDuplicate):
		return nil, errDuplicate
	default:
		return nil, apperror.Internal(err, "failed to add product to wishlist")
	}

	s.metrics.RecordWishlistOperation("add")
	return item, nil
}

func (s *WishlistService) Remove(ctx context.Context, userID string, productID uint) error {
	if err := s.requireWishlist(ctx, userID); err != nil {
		return err
	}
	removed, err := s.wishlists.RemoveProduct(ctx, userID, productID)
	if err != nil {
		return apperror.Internal(err, "failed to remove product from wishlist")
	}
	if !removed {
		return apperror.NotFound("product is not in the wishlist")
	}
	s.metrics.RecordWishlistOperation("remove")
	return nil
}

func (s *WishlistService) Clear(ctx context.Context, userID string) error {
	if err := s.requireWishlist(ctx, userID); err != nil {
		return err
	}
	if err := s.wishlists.Clear(ctx, userID); err != nil {
		return apperror.Internal(err, "failed to clear wishlist")
	}
	s.metrics.RecordWishlistOperation("clear")
	return nil
}

// Get returns the wishlist, empty when the user has none yet
func (s *WishlistService) Get(ctx context.Context, userID string) (*model.Wishlist, error) {
	wishlist, err := s.wishlists.Find(ctx, userID)
	if err != nil {
		return nil, apperror.Internal(err, "failed to load wishlist")
	}
	if wishlist == nil {
		wishlist = &model.Wishlist{UserID: userID}
	}
	if wishlist.WishlistProducts == nil {
		wishlist.WishlistProducts = []model.WishlistProduct{}
	}
	return wishlist, nil
}

func (s *WishlistService) requireWishlist(ctx context.Context, userID string) error {
	ok, err := s.wishlists.Exists(ctx, userID)
	if err != nil {
		return apperror.Internal(err, "failed to load wishlist")
	}
	if !ok {
		return apperror.NotFound("wishlist not found")
	}
	return nil
}
