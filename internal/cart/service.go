package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fahrurrzl/be-sayur-segar/internal/products"
	"github.com/fahrurrzl/be-sayur-segar/pkg/db/models"
	pkgerrors "github.com/fahrurrzl/be-sayur-segar/pkg/errors"
)

// Service defines the behavior needed by the cart controller.
type Service interface {
	AddItem(ctx context.Context, userID uuid.UUID, req AddItemRequest) (*CartResponse, error)
	Get(ctx context.Context, userID uuid.UUID) (*CartResponse, error)
	DecreaseItem(ctx context.Context, userID, itemID uuid.UUID) (*CartResponse, error)
	Clear(ctx context.Context, userID uuid.UUID) error
}

// ServiceParams bundles the dependencies required to build a cart service.
type ServiceParams struct {
	Repo     *Repository
	Products *products.Repository
}

type service struct {
	repo     *Repository
	products *products.Repository
}

// NewService constructs a cart service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("cart repository is required")
	}
	if params.Products == nil {
		return nil, fmt.Errorf("products repository is required")
	}
	return &service{repo: params.Repo, products: params.Products}, nil
}

// AddItem upserts a cart line: an existing line for the product gets its
// quantity incremented and price re-snapshotted, otherwise a new line is
// created. Quantity is capped by live stock.
func (s *service) AddItem(ctx context.Context, userID uuid.UUID, req AddItemRequest) (*CartResponse, error) {
	product, err := s.products.FindByID(ctx, req.ProductID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup product")
	}

	cart, err := s.repo.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart")
	}

	existing, err := s.repo.FindItemByProduct(ctx, cart.ID, product.ID)
	switch {
	case err == nil:
		newQuantity := existing.Quantity + req.Quantity
		if newQuantity > product.Stock {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity exceeds available stock")
		}
		if err := s.repo.UpdateItemQuantity(ctx, existing.ID, newQuantity, product.Price); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update cart item")
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		if req.Quantity > product.Stock {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity exceeds available stock")
		}
		item := &models.CartItem{
			CartID:    cart.ID,
			ProductID: product.ID,
			Quantity:  req.Quantity,
			Price:     product.Price,
		}
		if _, err := s.repo.CreateItem(ctx, item); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create cart item")
		}
	default:
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup cart item")
	}

	return s.Get(ctx, userID)
}

// Get returns the cart with items and product details. An absent cart reads as
// an empty one.
func (s *service) Get(ctx context.Context, userID uuid.UUID) (*CartResponse, error) {
	cart, err := s.repo.FindWithItems(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &CartResponse{Items: []CartItemResponse{}}, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart")
	}
	resp := FromModel(cart)
	return &resp, nil
}

// DecreaseItem drops the line's quantity by one, deleting the line when it
// reaches zero.
func (s *service) DecreaseItem(ctx context.Context, userID, itemID uuid.UUID) (*CartResponse, error) {
	cart, err := s.repo.FindWithItems(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart")
	}

	item, err := s.repo.FindItem(ctx, cart.ID, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup cart item")
	}

	if item.Quantity <= 1 {
		if err := s.repo.DeleteItem(ctx, item.ID); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete cart item")
		}
	} else {
		if err := s.repo.UpdateItemQuantity(ctx, item.ID, item.Quantity-1, item.Price); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update cart item")
		}
	}

	return s.Get(ctx, userID)
}

// Clear removes every line from the user's cart.
func (s *service) Clear(ctx context.Context, userID uuid.UUID) error {
	cart, err := s.repo.FindWithItems(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart")
	}
	if err := s.repo.ClearItems(ctx, cart.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "clear cart")
	}
	return nil
}
