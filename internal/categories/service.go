package categories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fahrurrzl/be-sayur-segar/pkg/db"
	"github.com/fahrurrzl/be-sayur-segar/pkg/db/models"
	pkgerrors "github.com/fahrurrzl/be-sayur-segar/pkg/errors"
)

// Service defines the behavior needed by the categories controller.
type Service interface {
	Create(ctx context.Context, req CategoryRequest) (*CategoryResponse, error)
	List(ctx context.Context) ([]CategoryResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*CategoryResponse, error)
	Update(ctx context.Context, id uuid.UUID, req CategoryRequest) (*CategoryResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo *Repository
}

// NewService constructs a categories service.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("categories repository is required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, req CategoryRequest) (*CategoryResponse, error) {
	category := &models.Category{Name: strings.TrimSpace(req.Name)}
	if _, err := s.repo.Create(ctx, category); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "category already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create category")
	}
	resp := FromModel(category)
	return &resp, nil
}

func (s *service) List(ctx context.Context) ([]CategoryResponse, error) {
	categories, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list categories")
	}
	return FromModels(categories), nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*CategoryResponse, error) {
	category, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup category")
	}
	resp := FromModel(category)
	return &resp, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, req CategoryRequest) (*CategoryResponse, error) {
	if _, err := s.GetByID(ctx, id); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateName(ctx, id, strings.TrimSpace(req.Name)); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "category already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update category")
	}
	return s.GetByID(ctx, id)
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete category")
	}
	return nil
}
