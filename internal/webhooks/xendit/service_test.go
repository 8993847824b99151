package xenditwebhook

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/fahrurrzl/be-sayur-segar/internal/orders"
	"github.com/fahrurrzl/be-sayur-segar/internal/products"
	"github.com/fahrurrzl/be-sayur-segar/internal/wallets"
	"github.com/fahrurrzl/be-sayur-segar/pkg/db/models"
	"github.com/fahrurrzl/be-sayur-segar/pkg/enums"
	pkgerrors "github.com/fahrurrzl/be-sayur-segar/pkg/errors"
	"github.com/fahrurrzl/be-sayur-segar/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Level: zerolog.Disabled, Output: os.Stderr})
}

func setupSettlementTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:settlement_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	statements := []string{
		`CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY,
  order_code TEXT NOT NULL UNIQUE,
  user_id TEXT NOT NULL,
  seller_id TEXT NOT NULL,
  address TEXT NOT NULL,
  shipping_fee INTEGER NOT NULL,
  total_price INTEGER NOT NULL,
  status TEXT NOT NULL DEFAULT 'PENDING',
  invoice_id TEXT,
  payment_url TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS order_items (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  product_name TEXT NOT NULL,
  quantity INTEGER NOT NULL,
  price INTEGER NOT NULL,
  created_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS wallets (
  id TEXT PRIMARY KEY,
  seller_id TEXT NOT NULL UNIQUE,
  balance INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS wallet_transactions (
  id TEXT PRIMARY KEY,
  wallet_id TEXT NOT NULL,
  amount INTEGER NOT NULL,
  type TEXT NOT NULL,
  status TEXT NOT NULL,
  note TEXT,
  created_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  seller_id TEXT NOT NULL,
  category_id TEXT NOT NULL,
  name TEXT NOT NULL,
  description TEXT NOT NULL,
  price INTEGER NOT NULL,
  stock INTEGER NOT NULL DEFAULT 0,
  image_url TEXT NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`,
	}
	for _, ddl := range statements {
		require.NoError(t, db.Exec(ddl).Error)
	}
	return db
}

type testTxRunner struct {
	db *gorm.DB
}

func (r testTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(tx)
	})
}

type settlementFixture struct {
	svc      *Service
	db       *gorm.DB
	orders   orders.Repository
	wallets  *wallets.Repository
	products *products.Repository
}

func newSettlementFixture(t *testing.T, dedup dedupStore) *settlementFixture {
	t.Helper()

	db := setupSettlementTestDB(t)
	ordersRepo := orders.NewRepository(db)
	walletsRepo := wallets.NewRepository(db)
	productsRepo := products.NewRepository(db)

	svc, err := NewService(ServiceParams{
		DB:       testTxRunner{db: db},
		Orders:   ordersRepo,
		Wallets:  walletsRepo,
		Products: productsRepo,
		Dedup:    dedup,
		Logger:   testLogger(),
	})
	require.NoError(t, err)
	return &settlementFixture{svc: svc, db: db, orders: ordersRepo, wallets: walletsRepo, products: productsRepo}
}

type settledOrder struct {
	order   *models.Order
	product *models.Product
	wallet  *models.Wallet
}

func (f *settlementFixture) seedPendingOrder(t *testing.T, invoiceID string, code string, price, quantity, fee, stock int) settledOrder {
	t.Helper()
	ctx := context.Background()

	sellerID := uuid.New()
	product := &models.Product{
		ID:          uuid.New(),
		SellerID:    sellerID,
		CategoryID:  uuid.New(),
		Name:        "Kangkung",
		Description: "Sayur segar",
		Price:       price,
		Stock:       stock,
		ImageURL:    "https://img.test/kangkung.jpg",
	}
	require.NoError(t, f.db.Create(product).Error)

	wallet := &models.Wallet{ID: uuid.New(), SellerID: sellerID}
	_, err := f.wallets.Create(ctx, wallet)
	require.NoError(t, err)

	order := &models.Order{
		ID:          uuid.New(),
		OrderCode:   code,
		UserID:      uuid.New(),
		SellerID:    sellerID,
		Address:     "Jl. Pasar Baru 5",
		ShippingFee: fee,
		TotalPrice:  price*quantity + fee,
		Status:      enums.OrderStatusPending,
		Items: []models.OrderItem{
			{
				ID:          uuid.New(),
				ProductID:   product.ID,
				ProductName: product.Name,
				Quantity:    quantity,
				Price:       price,
			},
		},
	}
	_, err = f.orders.CreateWithItems(ctx, order)
	require.NoError(t, err)
	require.NoError(t, f.orders.AttachInvoice(ctx, []uuid.UUID{order.ID}, invoiceID, "https://pay.test/"+invoiceID))

	return settledOrder{order: order, product: product, wallet: wallet}
}

func TestHandleInvoiceCallbackSettlesPendingOrders(t *testing.T) {
	fx := newSettlementFixture(t, nil)
	ctx := context.Background()

	first := fx.seedPendingOrder(t, "inv-1", "ORD20250101AAAAA", 10000, 2, 20000, 10)
	second := fx.seedPendingOrder(t, "inv-1", "ORD20250101BBBBB", 50000, 1, 20000, 5)

	err := fx.svc.HandleInvoiceCallback(ctx, InvoiceCallback{ID: "inv-1", Status: "PAID"})
	require.NoError(t, err)

	for _, seeded := range []settledOrder{first, second} {
		loaded, err := fx.orders.FindByID(ctx, seeded.order.ID)
		require.NoError(t, err)
		assert.Equal(t, enums.OrderStatusPaid, loaded.Status)

		wallet, err := fx.wallets.FindBySellerID(ctx, seeded.order.SellerID)
		require.NoError(t, err)
		assert.Equal(t, seeded.order.TotalPrice, wallet.Balance)

		txns, err := fx.wallets.ListTransactions(ctx, wallet.ID)
		require.NoError(t, err)
		require.Len(t, txns, 1)
		assert.Equal(t, enums.WalletTransactionTypeIncome, txns[0].Type)
	}

	var stock int
	require.NoError(t, fx.db.Model(&models.Product{}).Where("id = ?", first.product.ID).Select("stock").Scan(&stock).Error)
	assert.Equal(t, 8, stock)
	require.NoError(t, fx.db.Model(&models.Product{}).Where("id = ?", second.product.ID).Select("stock").Scan(&stock).Error)
	assert.Equal(t, 4, stock)
}

func TestHandleInvoiceCallbackIdempotentUnderReplay(t *testing.T) {
	fx := newSettlementFixture(t, nil)
	ctx := context.Background()

	seeded := fx.seedPendingOrder(t, "inv-2", "ORD20250101CCCCC", 10000, 2, 20000, 10)

	require.NoError(t, fx.svc.HandleInvoiceCallback(ctx, InvoiceCallback{ID: "inv-2", Status: "PAID"}))
	require.NoError(t, fx.svc.HandleInvoiceCallback(ctx, InvoiceCallback{ID: "inv-2", Status: "PAID"}))
	require.NoError(t, fx.svc.HandleInvoiceCallback(ctx, InvoiceCallback{ID: "inv-2", Status: "PAID"}))

	wallet, err := fx.wallets.FindBySellerID(ctx, seeded.order.SellerID)
	require.NoError(t, err)
	assert.Equal(t, seeded.order.TotalPrice, wallet.Balance, "wallet must be credited exactly once")

	txns, err := fx.wallets.ListTransactions(ctx, wallet.ID)
	require.NoError(t, err)
	assert.Len(t, txns, 1)

	var stock int
	require.NoError(t, fx.db.Model(&models.Product{}).Where("id = ?", seeded.product.ID).Select("stock").Scan(&stock).Error)
	assert.Equal(t, 8, stock, "stock must be decremented exactly once")
}

func TestHandleInvoiceCallbackIgnoresNonPaidStatus(t *testing.T) {
	fx := newSettlementFixture(t, nil)
	ctx := context.Background()

	seeded := fx.seedPendingOrder(t, "inv-3", "ORD20250101DDDDD", 10000, 1, 20000, 10)

	for _, status := range []string{"PENDING", "EXPIRED", "paid", ""} {
		require.NoError(t, fx.svc.HandleInvoiceCallback(ctx, InvoiceCallback{ID: "inv-3", Status: status}))
	}

	loaded, err := fx.orders.FindByID(ctx, seeded.order.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusPending, loaded.Status)

	wallet, err := fx.wallets.FindBySellerID(ctx, seeded.order.SellerID)
	require.NoError(t, err)
	assert.Zero(t, wallet.Balance)
}

func TestHandleInvoiceCallbackUnknownInvoiceIsNoop(t *testing.T) {
	fx := newSettlementFixture(t, nil)
	err := fx.svc.HandleInvoiceCallback(context.Background(), InvoiceCallback{ID: "inv-unknown", Status: "PAID"})
	require.NoError(t, err)
}

func TestHandleInvoiceCallbackRequiresInvoiceID(t *testing.T) {
	fx := newSettlementFixture(t, nil)
	err := fx.svc.HandleInvoiceCallback(context.Background(), InvoiceCallback{Status: "PAID"})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestHandleInvoiceCallbackDedupShortCircuits(t *testing.T) {
	dedup := &stubDedup{fresh: false}
	fx := newSettlementFixture(t, dedup)
	ctx := context.Background()

	seeded := fx.seedPendingOrder(t, "inv-4", "ORD20250101EEEEE", 10000, 1, 20000, 10)

	require.NoError(t, fx.svc.HandleInvoiceCallback(ctx, InvoiceCallback{ID: "inv-4", Status: "PAID"}))

	loaded, err := fx.orders.FindByID(ctx, seeded.order.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusPending, loaded.Status, "duplicate notification must not touch orders")
	assert.Equal(t, 1, dedup.setCalls)
}

// staleOrdersRepo serves order snapshots that always read PENDING, mimicking a
// load taken before a concurrent settlement committed its status flip.
type staleOrdersRepo struct {
	orders.Repository
}

func (s staleOrdersRepo) WithTx(tx *gorm.DB) orders.Repository {
	return staleOrdersRepo{Repository: s.Repository.WithTx(tx)}
}

func (s staleOrdersRepo) FindByInvoiceID(ctx context.Context, invoiceID string) ([]models.Order, error) {
	loaded, err := s.Repository.FindByInvoiceID(ctx, invoiceID)
	for i := range loaded {
		loaded[i].Status = enums.OrderStatusPending
	}
	return loaded, err
}

func TestHandleInvoiceCallbackSkipsOrdersSettledConcurrently(t *testing.T) {
	fx := newSettlementFixture(t, nil)
	ctx := context.Background()

	seeded := fx.seedPendingOrder(t, "inv-6", "ORD20250101GGGGG", 10000, 2, 20000, 10)
	// Another delivery settled the order after our snapshot was taken.
	require.NoError(t, fx.db.Model(&models.Order{}).
		Where("id = ?", seeded.order.ID).
		Update("status", enums.OrderStatusPaid).Error)

	svc, err := NewService(ServiceParams{
		DB:       testTxRunner{db: fx.db},
		Orders:   staleOrdersRepo{Repository: fx.orders},
		Wallets:  fx.wallets,
		Products: fx.products,
		Logger:   testLogger(),
	})
	require.NoError(t, err)

	require.NoError(t, svc.HandleInvoiceCallback(ctx, InvoiceCallback{ID: "inv-6", Status: "PAID"}))

	wallet, err := fx.wallets.FindBySellerID(ctx, seeded.order.SellerID)
	require.NoError(t, err)
	assert.Zero(t, wallet.Balance, "losing delivery must not credit the wallet")

	txns, err := fx.wallets.ListTransactions(ctx, wallet.ID)
	require.NoError(t, err)
	assert.Empty(t, txns)

	var stock int
	require.NoError(t, fx.db.Model(&models.Product{}).Where("id = ?", seeded.product.ID).Select("stock").Scan(&stock).Error)
	assert.Equal(t, 10, stock, "losing delivery must not decrement stock")
}

func TestHandleInvoiceCallbackCreatesWalletWhenMissing(t *testing.T) {
	fx := newSettlementFixture(t, nil)
	ctx := context.Background()

	seeded := fx.seedPendingOrder(t, "inv-5", "ORD20250101FFFFF", 10000, 1, 20000, 10)
	// Simulate a seller who never opened a wallet.
	require.NoError(t, fx.db.Delete(&models.Wallet{}, "id = ?", seeded.wallet.ID).Error)

	require.NoError(t, fx.svc.HandleInvoiceCallback(ctx, InvoiceCallback{ID: "inv-5", Status: "PAID"}))

	wallet, err := fx.wallets.FindBySellerID(ctx, seeded.order.SellerID)
	require.NoError(t, err)
	assert.Equal(t, seeded.order.TotalPrice, wallet.Balance)
}

type stubDedup struct {
	fresh    bool
	setCalls int
	deleted  []string
}

func (s *stubDedup) SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error) {
	s.setCalls++
	return s.fresh, nil
}

func (s *stubDedup) IdempotencyKey(scope, id string) string {
	return "sayur:idempotency:" + scope + ":" + id
}

func (s *stubDedup) Del(ctx context.Context, keys ...string) error {
	s.deleted = append(s.deleted, keys...)
	return nil
}
