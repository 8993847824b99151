package wallets

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fahrurrzl/be-sayur-segar/internal/sellers"
	"github.com/fahrurrzl/be-sayur-segar/pkg/db"
	"github.com/fahrurrzl/be-sayur-segar/pkg/db/models"
	pkgerrors "github.com/fahrurrzl/be-sayur-segar/pkg/errors"
)

// Service defines the behavior needed by the wallet controller.
type Service interface {
	Create(ctx context.Context, userID uuid.UUID) (*WalletResponse, error)
	GetMine(ctx context.Context, userID uuid.UUID) (*WalletResponse, error)
	Withdraw(ctx context.Context, userID uuid.UUID, req WithdrawRequest) (*WalletResponse, error)
	Transactions(ctx context.Context, userID uuid.UUID) ([]TransactionResponse, error)
}

// ServiceParams bundles the dependencies required to build a wallet service.
type ServiceParams struct {
	DB      *db.Client
	Repo    *Repository
	Sellers *sellers.Repository
}

type service struct {
	db      *db.Client
	repo    *Repository
	sellers *sellers.Repository
}

// NewService constructs a wallet service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.DB == nil {
		return nil, fmt.Errorf("database client is required")
	}
	if params.Repo == nil {
		return nil, fmt.Errorf("wallets repository is required")
	}
	if params.Sellers == nil {
		return nil, fmt.Errorf("sellers repository is required")
	}
	return &service{db: params.DB, repo: params.Repo, sellers: params.Sellers}, nil
}

func (s *service) Create(ctx context.Context, userID uuid.UUID) (*WalletResponse, error) {
	seller, err := s.requireSeller(ctx, userID)
	if err != nil {
		return nil, err
	}

	if _, err := s.repo.FindBySellerID(ctx, seller.ID); err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "wallet already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check existing wallet")
	}

	wallet := &models.Wallet{ID: uuid.New(), SellerID: seller.ID}
	if _, err := s.repo.Create(ctx, wallet); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "wallet already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create wallet")
	}

	resp := FromModel(wallet)
	return &resp, nil
}

func (s *service) GetMine(ctx context.Context, userID uuid.UUID) (*WalletResponse, error) {
	wallet, err := s.findMine(ctx, userID)
	if err != nil {
		return nil, err
	}
	resp := FromModel(wallet)
	return &resp, nil
}

// Withdraw debits the wallet and records the outcome ledger entry atomically.
// A debit that would push the balance negative is rejected.
func (s *service) Withdraw(ctx context.Context, userID uuid.UUID, req WithdrawRequest) (*WalletResponse, error) {
	if req.Amount <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "withdrawal amount must be positive")
	}

	wallet, err := s.findMine(ctx, userID)
	if err != nil {
		return nil, err
	}

	err = s.db.WithTx(ctx, func(tx *gorm.DB) error {
		affected, err := s.repo.WithTx(tx).Debit(ctx, wallet.ID, req.Amount, "withdrawal")
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "debit wallet")
		}
		if affected == 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "insufficient balance")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetMine(ctx, userID)
}

func (s *service) Transactions(ctx context.Context, userID uuid.UUID) ([]TransactionResponse, error) {
	wallet, err := s.findMine(ctx, userID)
	if err != nil {
		return nil, err
	}
	txns, err := s.repo.ListTransactions(ctx, wallet.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list wallet transactions")
	}
	return TransactionsFromModels(txns), nil
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

func (s *service) findMine(ctx context.Context, userID uuid.UUID) (*models.Wallet, error) {
	seller, err := s.requireSeller(ctx, userID)
	if err != nil {
		return nil, err
	}
	wallet, err := s.repo.FindBySellerID(ctx, seller.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "wallet not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup wallet")
	}
	return wallet, nil
}
