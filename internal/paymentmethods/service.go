package paymentmethods

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fahrurrzl/be-sayur-segar/pkg/db/models"
	pkgerrors "github.com/fahrurrzl/be-sayur-segar/pkg/errors"
)

// Service defines the behavior needed by the payment methods controller.
type Service interface {
	Create(ctx context.Context, req PaymentMethodRequest) (*PaymentMethodResponse, error)
	List(ctx context.Context) ([]PaymentMethodResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*PaymentMethodResponse, error)
	Update(ctx context.Context, id uuid.UUID, req PaymentMethodRequest) (*PaymentMethodResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo *Repository
}

// NewService constructs a payment methods service.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("payment methods repository is required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, req PaymentMethodRequest) (*PaymentMethodResponse, error) {
	if !req.Type.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment method type")
	}
	method := &models.PaymentMethod{Name: strings.TrimSpace(req.Name), Type: req.Type}
	if _, err := s.repo.Create(ctx, method); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create payment method")
	}
	resp := FromModel(method)
	return &resp, nil
}

func (s *service) List(ctx context.Context) ([]PaymentMethodResponse, error) {
	methods, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list payment methods")
	}
	return FromModels(methods), nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*PaymentMethodResponse, error) {
	method, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "payment method not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup payment method")
	}
	resp := FromModel(method)
	return &resp, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, req PaymentMethodRequest) (*PaymentMethodResponse, error) {
	if !req.Type.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment method type")
	}
	if _, err := s.GetByID(ctx, id); err != nil {
		return nil, err
	}
	updates := map[string]any{"name": strings.TrimSpace(req.Name), "type": req.Type}
	if err := s.repo.Update(ctx, id, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update payment method")
	}
	return s.GetByID(ctx, id)
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete payment method")
	}
	return nil
}
