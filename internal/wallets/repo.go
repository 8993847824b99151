package wallets

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fahrurrzl/be-sayur-segar/pkg/db/models"
	"github.com/fahrurrzl/be-sayur-segar/pkg/enums"
)

// Repository exposes wallet persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a wallets repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx rebinds the repository to the provided transaction handle.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// Create inserts a zero-balance wallet for the seller.
func (r *Repository) Create(ctx context.Context, wallet *models.Wallet) (*models.Wallet, error) {
	if err := r.db.WithContext(ctx).Create(wallet).Error; err != nil {
		return nil, err
	}
	return wallet, nil
}

// FindBySellerID loads the wallet owned by the seller.
func (r *Repository) FindBySellerID(ctx context.Context, sellerID uuid.UUID) (*models.Wallet, error) {
	var wallet models.Wallet
	if err := r.db.WithContext(ctx).First(&wallet, "seller_id = ?", sellerID).Error; err != nil {
		return nil, err
	}
	return &wallet, nil
}

// Credit adds amount to the wallet balance and appends an income ledger entry.
// Callers run this inside the settlement transaction.
func (r *Repository) Credit(ctx context.Context, walletID uuid.UUID, amount int, note string) error {
	err := r.db.WithContext(ctx).
		Model(&models.Wallet{}).
		Where("id = ?", walletID).
		UpdateColumn("balance", gorm.Expr("balance + ?", amount)).Error
	if err != nil {
		return err
	}
	entry := &models.WalletTransaction{
		ID:       uuid.New(),
		WalletID: walletID,
		Amount:   amount,
		Type:     enums.WalletTransactionTypeIncome,
		Status:   enums.WalletTransactionStatusCompleted,
		Note:     &note,
	}
	return r.db.WithContext(ctx).Create(entry).Error
}

// Debit subtracts amount from the wallet balance and appends an outcome ledger
// entry. The WHERE guard keeps the balance from going negative; zero rows
// affected means insufficient funds.
func (r *Repository) Debit(ctx context.Context, walletID uuid.UUID, amount int, note string) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Wallet{}).
		Where("id = ? AND balance >= ?", walletID, amount).
		UpdateColumn("balance", gorm.Expr("balance - ?", amount))
	if result.Error != nil {
		return 0, result.Error
	}
	if result.RowsAffected == 0 {
		return 0, nil
	}
	entry := &models.WalletTransaction{
		ID:       uuid.New(),
		WalletID: walletID,
		Amount:   amount,
		Type:     enums.WalletTransactionTypeOutcome,
		Status:   enums.WalletTransactionStatusCompleted,
		Note:     &note,
	}
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return 0, err
	}
	return result.RowsAffected, nil
}

// ListTransactions returns the wallet's ledger, newest first.
func (r *Repository) ListTransactions(ctx context.Context, walletID uuid.UUID) ([]models.WalletTransaction, error) {
	var txns []models.WalletTransaction
	err := r.db.WithContext(ctx).
		Where("wallet_id = ?", walletID).
		Order("created_at DESC").
		Find(&txns).Error
	if err != nil {
		return nil, err
	}
	return txns, nil
}
