package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fahrurrzl/be-sayur-segar/internal/sellers"
	"github.com/fahrurrzl/be-sayur-segar/pkg/enums"
	pkgerrors "github.com/fahrurrzl/be-sayur-segar/pkg/errors"
)

// Service defines the behavior needed by the orders controller.
type Service interface {
	List(ctx context.Context) ([]OrderResponse, error)
	ListMine(ctx context.Context, userID uuid.UUID) ([]OrderResponse, error)
	ListForSeller(ctx context.Context, userID uuid.UUID) ([]OrderResponse, error)
	GetByCode(ctx context.Context, code string, userID uuid.UUID, role enums.UserRole) (*OrderResponse, error)
}

// ServiceParams bundles the dependencies required to build an orders service.
type ServiceParams struct {
	Repo    Repository
	Sellers *sellers.Repository
}

type service struct {
	repo    Repository
	sellers *sellers.Repository
}

// NewService constructs an orders service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("orders repository is required")
	}
	if params.Sellers == nil {
		return nil, fmt.Errorf("sellers repository is required")
	}
	return &service{repo: params.Repo, sellers: params.Sellers}, nil
}

func (s *service) List(ctx context.Context) ([]OrderResponse, error) {
	orders, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list orders")
	}
	return FromModels(orders), nil
}

func (s *service) ListMine(ctx context.Context, userID uuid.UUID) ([]OrderResponse, error) {
	orders, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list user orders")
	}
	return FromModels(orders), nil
}

func (s *service) ListForSeller(ctx context.Context, userID uuid.UUID) ([]OrderResponse, error) {
	seller, err := s.sellers.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeForbidden, "seller profile required")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup seller")
	}

	orders, err := s.repo.ListBySeller(ctx, seller.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list seller orders")
	}
	return FromModels(orders), nil
}

// GetByCode returns the order when the caller is the buyer, the selling
// storefront's owner, or a superadmin.
func (s *service) GetByCode(ctx context.Context, code string, userID uuid.UUID, role enums.UserRole) (*OrderResponse, error) {
	order, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup order")
	}

	if role != enums.UserRoleSuperadmin && order.UserID != userID {
		seller, err := s.sellers.FindByUserID(ctx, userID)
		if err != nil || seller.ID != order.SellerID {
			return nil, pkgerrors.New(pkgerrors.CodeForbidden, "order belongs to another user")
		}
	}

	resp := FromModel(order)
	return &resp, nil
}
