package service

import (
	"context"

	"shop-service/internal/apperror"
	"shop-service/internal/dto"
	"shop-service/internal/model"
	"shop-service/internal/repository"
	"shop-service/prometheus"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type CartService struct {
	carts    repository.CartRepository
	products repository.ProductRepository
	sizes    repository.SizeRepository
	metrics  *prometheus.Metrics
	log      *zap.Logger
}

func NewCartService(carts repository.CartRepository, products repository.ProductRepository, sizes repository.SizeRepository, metrics *prometheus.Metrics, log *zap.Logger) *CartService {
	return &CartService{carts: carts, products: products, sizes: sizes, metrics: metrics, log: log}
}

// AddOrIncrement adds quantity of the selected variant to the user's cart,
// merging into an existing line with the same identity tuple.
func (s *CartService) AddOrIncrement(ctx context.Context, userID string, productID uint, req dto.CartItemRequest) (*model.CartProduct, error) {
	configID, err := s.checkSelection(ctx, productID, req)
	if err != nil {
		return nil, err
	}

	key := model.LineItemKey{
		CartID:          userID,
		ProductID:       productID,
		ConfigurationID: configID,
		BeltSizeID:      req.BeltSizeID,
		ClothingSizeID:  req.ClothingSizeID,
		CupSizeID:       req.CupSizeID,
	}

	var item *model.CartProduct
	err = s.carts.Transaction(ctx, func(tx repository.CartRepository) error {
		if err := tx.EnsureCart(ctx, userID); err != nil {
			return err
		}
		existing, err := tx.FindLineItem(ctx, key)
		if err != nil {
			return err
		}
		if existing != nil {
			existing.Quantity += req.Quantity
			item = existing
			return tx.UpdateLineItem(ctx, existing)
		}
		item = newLineItem(key, req.Quantity)
		return tx.CreateLineItem(ctx, item)
	})
	if err != nil {
		return nil, apperror.Internal(err, "failed to add product to cart")
	}

	s.metrics.RecordCartOperation("add")
	return item, nil
}

// Update rewrites a line to a new selection and quantity. When the new
// selection equals another line of the cart the two lines are merged.
func (s *CartService) Update(ctx context.Context, userID string, lineID uint, req dto.CartItemRequest) (*model.CartProduct, error) {
	if err := checkQuantityAndSizes(req); err != nil {
		return nil, err
	}
	line, err := s.carts.FindLineItemByID(ctx, userID, lineID)
	if err != nil {
		return nil, apperror.Internal(err, "failed to load cart product")
	}
	if line == nil {
		return nil, apperror.NotFound("cart product not found")
	}

	configID, err := s.checkSelection(ctx, line.ProductID, req)
	if err != nil {
		return nil, err
	}
	key := model.LineItemKey{
		CartID:          userID,
		ProductID:       line.ProductID,
		ConfigurationID: configID,
		BeltSizeID:      req.BeltSizeID,
		ClothingSizeID:  req.ClothingSizeID,
		CupSizeID:       req.CupSizeID,
	}

	var result *model.CartProduct
	var missing bool
	err = s.carts.Transaction(ctx, func(tx repository.CartRepository) error {
		if err := tx.EnsureCart(ctx, userID); err != nil {
			return err
		}
		current, err := tx.FindLineItemByID(ctx, userID, lineID)
		if err != nil {
			return err
		}
		if current == nil {
			missing = true
			return nil
		}

		other, err := tx.FindLineItem(ctx, key)
		if err != nil {
			return err
		}
		if other != nil && other.ID != current.ID {
			other.Quantity += req.Quantity
			result = other
			if err := tx.UpdateLineItem(ctx, other); err != nil {
				return err
			}
			return tx.DeleteLineItem(ctx, current.ID)
		}

		updated := newLineItem(key, req.Quantity)
		updated.ID = current.ID
		updated.CreatedAt = current.CreatedAt
		result = updated
		return tx.UpdateLineItem(ctx, updated)
	})
	if err != nil {
		return nil, apperror.Internal(err, "failed to update cart product")
	}
	if missing {
		return nil, apperror.NotFound("cart product not found")
	}

	s.metrics.RecordCartOperation("update")
	return result, nil
}

func (s *CartService) Remove(ctx context.Context, userID string, lineID uint) error {
	if err := s.requireCart(ctx, userID); err != nil {
		return err
	}
	line, err := s.carts.FindLineItemByID(ctx, userID, lineID)
	if err != nil {
		return apperror.Internal(err, "failed to load cart product")
	}
	if line == nil {
		return apperror.NotFound("cart product not found")
	}
	if err := s.carts.DeleteLineItem(ctx, lineID); err != nil {
		return apperror.Internal(err, "failed to remove cart product")
	}
	s.metrics.RecordCartOperation("remove")
	return nil
}

func (s *CartService) Clear(ctx context.Context, userID string) error {
	if err := s.requireCart(ctx, userID); err != nil {
		return err
	}
	if err := s.carts.Clear(ctx, userID); err != nil {
		return apperror.Internal(err, "failed to clear cart")
	}
	s.metrics.RecordCartOperation("clear")
	return nil
}

// List returns the line items with their product, configuration and sizes.
// A user without a cart gets an empty list.
func (s *CartService) List(ctx context.Context, userID string) ([]model.CartProduct, error) {
	items, err := s.carts.ListLineItems(ctx, userID)
	if err != nil {
		return nil, apperror.Internal(err, "failed to list cart products")
	}
	return items, nil
}

// Summary folds the cart into its total price and quantity, pricing every
// line at its product price. It fails with not found when the user has never
// had a cart.
func (s *CartService) Summary(ctx context.Context, userID string) (*model.CartSummary, error) {
	cart, err := s.carts.FindCart(ctx, userID)
	if err != nil {
		return nil, apperror.Internal(err, "failed to load cart")
	}
	if cart == nil {
		return nil, apperror.NotFound("cart not found")
	}

	summary := &model.CartSummary{TotalPrice: decimal.Zero}
	for i := range cart.CartProducts {
		line := &cart.CartProducts[i]
		summary.TotalPrice = summary.TotalPrice.Add(line.Subtotal())
		summary.TotalQuantity += line.Quantity
	}
	return summary, nil
}

// checkSelection applies the add-to-cart preconditions in order and returns
// the configuration id to store
func (s *CartService) checkSelection(ctx context.Context, productID uint, req dto.CartItemRequest) (*uint, error) {
	if err := checkQuantityAndSizes(req); err != nil {
		return nil, err
	}

	product, err := s.products.FindWithConfigurations(ctx, productID)
	if err != nil {
		return nil, apperror.Internal(err, "failed to load product")
	}
	if product == nil {
		return nil, apperror.NotFound("product not found")
	}

	if product.CategoryID == model.SetsCategoryID && (req.CupSizeID == nil || req.ClothingSizeID == nil) {
		return nil, apperror.Validation("cup size and clothing size are required for sets")
	}

	var configID *uint
	if len(product.Configurations) > 0 {
		if req.ConfigurationID == nil {
			return nil, apperror.Validation("configuration is required for this product")
		}
		if !product.HasConfiguration(*req.ConfigurationID) {
			return nil, apperror.NotFound("configuration not found")
		}
		configID = req.ConfigurationID
	}

	if err := s.checkSizes(ctx, req); err != nil {
		return nil, err
	}
	return configID, nil
}

func checkQuantityAndSizes(req dto.CartItemRequest) error {
	if req.Quantity <= 0 {
		return apperror.Validation("quantity must be a positive integer")
	}
	if req.BeltSizeID == nil && req.ClothingSizeID == nil && req.CupSizeID == nil {
		return apperror.Validation("at least one size must be selected")
	}
	return nil
}

func (s *CartService) checkSizes(ctx context.Context, req dto.CartItemRequest) error {
	selected := []struct {
		kind model.SizeKind
		id   *uint
	}{
		{model.SizeKindBelt, req.BeltSizeID},
		{model.SizeKindClothing, req.ClothingSizeID},
		{model.SizeKindCup, req.CupSizeID},
	}
	for _, sel := range selected {
		if sel.id == nil {
			continue
		}
		ok, err := s.sizes.Exists(ctx, sel.kind, *sel.id)
		if err != nil {
			return apperror.Internal(err, "failed to load size")
		}
		if !ok {
			return apperror.NotFound("%s size not found", sel.kind)
		}
	}
	return nil
}

func (s *CartService) requireCart(ctx context.Context, userID string) error {
	ok, err := s.carts.CartExists(ctx, userID)
	if err != nil {
		return apperror.Internal(err, "failed to load cart")
	}
	if !ok {
		return apperror.NotFound("cart not found")
	}
	return nil
}

func newLineItem(key model.LineItemKey, quantity int) *model.CartProduct {
	return &model.CartProduct{
		CartID:                 key.CartID,
		ProductID:              key.ProductID,
		ProductConfigurationID: key.ConfigurationID,
		BeltSizeID:             key.BeltSizeID,
		ClothingSizeID:         key.ClothingSizeID,
		CupSizeID:              key.CupSizeID,
		Quantity:               quantity,
	}
}
