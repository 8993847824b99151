package wallets

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/fahrurrzl/be-sayur-segar/pkg/db/models"
	"github.com/fahrurrzl/be-sayur-segar/pkg/enums"
)

func setupWalletsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:wallets_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	walletsDDL := `
CREATE TABLE IF NOT EXISTS wallets (
  id TEXT PRIMARY KEY,
  seller_id TEXT NOT NULL UNIQUE,
  balance INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`
	transactionsDDL := `
CREATE TABLE IF NOT EXISTS wallet_transactions (
  id TEXT PRIMARY KEY,
  wallet_id TEXT NOT NULL,
  amount INTEGER NOT NULL,
  type TEXT NOT NULL,
  status TEXT NOT NULL,
  note TEXT,
  created_at DATETIME
);`
	require.NoError(t, db.Exec(walletsDDL).Error)
	require.NoError(t, db.Exec(transactionsDDL).Error)
	return db
}

func newTestWallet(t *testing.T, repo *Repository, balance int) *models.Wallet {
	t.Helper()
	wallet := &models.Wallet{ID: uuid.New(), SellerID: uuid.New(), Balance: balance}
	_, err := repo.Create(context.Background(), wallet)
	require.NoError(t, err)
	return wallet
}

func TestRepositoryCreateRejectsSecondWalletPerSeller(t *testing.T) {
	repo := NewRepository(setupWalletsTestDB(t))
	wallet := newTestWallet(t, repo, 0)

	_, err := repo.Create(context.Background(), &models.Wallet{ID: uuid.New(), SellerID: wallet.SellerID})
	require.Error(t, err)
}

func TestRepositoryCreditAppendsLedgerEntry(t *testing.T) {
	repo := NewRepository(setupWalletsTestDB(t))
	ctx := context.Background()
	wallet := newTestWallet(t, repo, 0)

	require.NoError(t, repo.Credit(ctx, wallet.ID, 40000, "order ORD20250101AAAAA settled"))
	require.NoError(t, repo.Credit(ctx, wallet.ID, 70000, "order ORD20250101BBBBB settled"))

	loaded, err := repo.FindBySellerID(ctx, wallet.SellerID)
	require.NoError(t, err)
	assert.Equal(t, 110000, loaded.Balance)

	txns, err := repo.ListTransactions(ctx, wallet.ID)
	require.NoError(t, err)
	require.Len(t, txns, 2)
	for _, txn := range txns {
		assert.Equal(t, enums.WalletTransactionTypeIncome, txn.Type)
		assert.Equal(t, enums.WalletTransactionStatusCompleted, txn.Status)
	}
}

func TestRepositoryDebitFloorsAtZero(t *testing.T) {
	repo := NewRepository(setupWalletsTestDB(t))
	ctx := context.Background()
	wallet := newTestWallet(t, repo, 50000)

	affected, err := repo.Debit(ctx, wallet.ID, 30000, "withdrawal")
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	// Balance is 20000 now; a 30000 debit must be refused and leave no ledger entry.
	affected, err = repo.Debit(ctx, wallet.ID, 30000, "withdrawal")
	require.NoError(t, err)
	assert.Zero(t, affected)

	loaded, err := repo.FindBySellerID(ctx, wallet.SellerID)
	require.NoError(t, err)
	assert.Equal(t, 20000, loaded.Balance)

	txns, err := repo.ListTransactions(ctx, wallet.ID)
	require.NoError(t, err)
	require.Len(t, txns, 1)
	assert.Equal(t, enums.WalletTransactionTypeOutcome, txns[0].Type)
	assert.Equal(t, 30000, txns[0].Amount)
}
