package sellers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fahrurrzl/be-sayur-segar/internal/users"
	"github.com/fahrurrzl/be-sayur-segar/pkg/db"
	"github.com/fahrurrzl/be-sayur-segar/pkg/db/models"
	"github.com/fahrurrzl/be-sayur-segar/pkg/enums"
	pkgerrors "github.com/fahrurrzl/be-sayur-segar/pkg/errors"
)

// Service defines the behavior needed by the sellers controller.
type Service interface {
	Create(ctx context.Context, userID uuid.UUID, req CreateSellerRequest) (*SellerResponse, error)
	List(ctx context.Context) ([]SellerResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*SellerResponse, error)
	GetMine(ctx context.Context, userID uuid.UUID) (*SellerResponse, error)
	Update(ctx context.Context, userID uuid.UUID, req UpdateSellerRequest) (*SellerResponse, error)
	Delete(ctx context.Context, userID uuid.UUID) error
}

// ServiceParams bundles the dependencies required to build a sellers service.
type ServiceParams struct {
	DB   *db.Client
	Repo *Repository
}

type service struct {
	db   *db.Client
	repo *Repository
}

// NewService constructs a sellers service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.DB == nil {
		return nil, fmt.Errorf("database client is required")
	}
	if params.Repo == nil {
		return nil, fmt.Errorf("sellers repository is required")
	}
	return &service{db: params.DB, repo: params.Repo}, nil
}

// Create opens a storefront for the user and promotes them to the seller role.
// Both writes commit together.
func (s *service) Create(ctx context.Context, userID uuid.UUID, req CreateSellerRequest) (*SellerResponse, error) {
	if _, err := s.repo.FindByUserID(ctx, userID); err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "seller already exists for this user")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check existing seller")
	}

	seller := &models.Seller{
		UserID:        userID,
		StoreName:     strings.TrimSpace(req.StoreName),
		StoreLocation: strings.TrimSpace(req.StoreLocation),
		BankName:      strings.TrimSpace(req.BankName),
		BankAccount:   strings.TrimSpace(req.BankAccount),
	}

	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		if _, err := s.repo.WithTx(tx).Create(ctx, seller); err != nil {
			if db.IsUniqueViolation(err, "") {
				return pkgerrors.New(pkgerrors.CodeConflict, "seller already exists for this user")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create seller")
		}
		if err := users.NewRepository(tx).UpdateRole(ctx, userID, enums.UserRoleSeller); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "promote user to seller")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	resp := FromModel(seller)
	return &resp, nil
}

func (s *service) List(ctx context.Context) ([]SellerResponse, error) {
	sellers, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list sellers")
	}
	return FromModels(sellers), nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*SellerResponse, error) {
	seller, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "seller not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup seller")
	}
	resp := FromModel(seller)
	return &resp, nil
}

func (s *service) GetMine(ctx context.Context, userID uuid.UUID) (*SellerResponse, error) {
	seller, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "seller not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup seller")
	}
	resp := FromModel(seller)
	return &resp, nil
}

func (s *service) Update(ctx context.Context, userID uuid.UUID, req UpdateSellerRequest) (*SellerResponse, error) {
	seller, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "seller not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup seller")
	}

	updates := map[string]any{
		"store_name":     strings.TrimSpace(req.StoreName),
		"store_location": strings.TrimSpace(req.StoreLocation),
		"bank_name":      strings.TrimSpace(req.BankName),
		"bank_account":   strings.TrimSpace(req.BankAccount),
	}
	if err := s.repo.Update(ctx, seller.ID, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update seller")
	}

	return s.GetByID(ctx, seller.ID)
}

// Delete removes the storefront and demotes the owner back to customer.
func (s *service) Delete(ctx context.Context, userID uuid.UUID) error {
	seller, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "seller not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup seller")
	}

	return s.db.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).Delete(ctx, seller.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete seller")
		}
		if err := users.NewRepository(tx).UpdateRole(ctx, userID, enums.UserRoleCustomer); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "demote user")
		}
		return nil
	})
}
