package products

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fahrurrzl/be-sayur-segar/internal/categories"
	"github.com/fahrurrzl/be-sayur-segar/internal/sellers"
	"github.com/fahrurrzl/be-sayur-segar/pkg/db/models"
	pkgerrors "github.com/fahrurrzl/be-sayur-segar/pkg/errors"
)

// Service defines the behavior needed by the products controller.
type Service interface {
	Create(ctx context.Context, userID uuid.UUID, req CreateProductRequest) (*ProductResponse, error)
	List(ctx context.Context, filters ListFilters) ([]ProductResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*ProductResponse, error)
	Update(ctx context.Context, userID, productID uuid.UUID, req UpdateProductRequest) (*ProductResponse, error)
	Delete(ctx context.Context, userID, productID uuid.UUID) error
}

// ServiceParams bundles the dependencies required to build a products service.
type ServiceParams struct {
	Repo       *Repository
	Sellers    *sellers.Repository
	Categories *categories.Repository
}

type service struct {
	repo       *Repository
	sellers    *sellers.Repository
	categories *categories.Repository
}

// NewService constructs a products service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("products repository is required")
	}
	if params.Sellers == nil {
		return nil, fmt.Errorf("sellers repository is required")
	}
	if params.Categories == nil {
		return nil, fmt.Errorf("categories repository is required")
	}
	return &service{
		repo:       params.Repo,
		sellers:    params.Sellers,
		categories: params.Categories,
	}, nil
}

func (s *service) Create(ctx context.Context, userID uuid.UUID, req CreateProductRequest) (*ProductResponse, error) {
	seller, err := s.requireSeller(ctx, userID)
	if err != nil {
		return nil, err
	}
	if _, err := s.categories.FindByID(ctx, req.CategoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "category not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup category")
	}

	product := &models.Product{
		SellerID:    seller.ID,
		CategoryID:  req.CategoryID,
		Name:        strings.TrimSpace(req.Name),
		Description: strings.TrimSpace(req.Description),
		Price:       req.Price,
		Stock:       req.Stock,
		ImageURL:    strings.TrimSpace(req.ImageURL),
	}
	if _, err := s.repo.Create(ctx, product); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create product")
	}

	return s.GetByID(ctx, product.ID)
}

func (s *service) List(ctx context.Context, filters ListFilters) ([]ProductResponse, error) {
	products, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list products")
	}
	return FromModels(products), nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup product")
	}
	resp := FromModel(product)
	return &resp, nil
}

func (s *service) Update(ctx context.Context, userID, productID uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	product, err := s.requireOwnedProduct(ctx, userID, productID)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{
		"category_id": req.CategoryID,
		"name":        strings.TrimSpace(req.Name),
		"description": strings.TrimSpace(req.Description),
		"price":       req.Price,
		"stock":       req.Stock,
		"image_url":   strings.TrimSpace(req.ImageURL),
	}
	if err := s.repo.Update(ctx, product.ID, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update product")
	}

	return s.GetByID(ctx, product.ID)
}

func (s *service) Delete(ctx context.Context, userID, productID uuid.UUID) error {
	product, err := s.requireOwnedProduct(ctx, userID, productID)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, product.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete product")
	}
	return nil
}

func (s *service) requireSeller(ctx context.Context, userID uuid.UUID) (*models.Seller, error) {
	seller, err := s.sellers.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeForbidden, "seller profile required")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup seller")
	}
	return seller, nil
}

func (s *service) requireOwnedProduct(ctx context.Context, userID, productID uuid.UUID) (*models.Product, error) {
	seller, err := s.requireSeller(ctx, userID)
	if err != nil {
		return nil, err
	}
	product, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup product")
	}
	if product.SellerID != seller.ID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "product belongs to another seller")
	}
	return product, nil
}
