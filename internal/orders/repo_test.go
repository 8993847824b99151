package orders

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

func setupOrdersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:orders_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	ordersDDL := `
CREATE TABLE IF NOT EXISTS orders (
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
);`
	orderItemsDDL := `
CREATE TABLE IF NOT EXISTS order_items (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  product_name TEXT NOT NULL,
  quantity INTEGER NOT NULL,
  price INTEGER NOT NULL,
  created_at DATETIME
);`
	require.NoError(t, db.Exec(ordersDDL).Error)
	require.NoError(t, db.Exec(orderItemsDDL).Error)
	return db
}

func newTestOrder(userID, sellerID uuid.UUID, code string, total int) *models.Order {
	return &models.Order{
		ID:          uuid.New(),
		OrderCode:   code,
		UserID:      userID,
		SellerID:    sellerID,
		Address:     "Jl. Pasar Baru 5",
		ShippingFee: 20000,
		TotalPrice:  total,
		Status:      enums.OrderStatusPending,
		Items: []models.OrderItem{
			{
				ID:          uuid.New(),
				ProductID:   uuid.New(),
				ProductName: "Bayam Segar",
				Quantity:    2,
				Price:       (total - 20000) / 2,
			},
		},
	}
}

func TestRepositoryCreateWithItems(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	order := newTestOrder(uuid.New(), uuid.New(), "ORD20250101AAAAA", 40000)
	created, err := repo.CreateWithItems(ctx, order)
	require.NoError(t, err)

	loaded, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "ORD20250101AAAAA", loaded.OrderCode)
	assert.Equal(t, enums.OrderStatusPending, loaded.Status)
	require.Len(t, loaded.Items, 1)
	assert.Equal(t, "Bayam Segar", loaded.Items[0].ProductName)
}

func TestRepositoryCreateWithItemsRejectsDuplicateCode(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	first := newTestOrder(uuid.New(), uuid.New(), "ORD20250101BBBBB", 40000)
	_, err := repo.CreateWithItems(ctx, first)
	require.NoError(t, err)

	dup := newTestOrder(uuid.New(), uuid.New(), "ORD20250101BBBBB", 70000)
	_, err = repo.CreateWithItems(ctx, dup)
	require.Error(t, err)
}

func TestRepositoryAttachInvoice(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	first := newTestOrder(userID, uuid.New(), "ORD20250101CCCCC", 40000)
	second := newTestOrder(userID, uuid.New(), "ORD20250101DDDDD", 70000)
	_, err := repo.CreateWithItems(ctx, first)
	require.NoError(t, err)
	_, err = repo.CreateWithItems(ctx, second)
	require.NoError(t, err)

	err = repo.AttachInvoice(ctx, []uuid.UUID{first.ID, second.ID}, "inv-1", "https://pay.test/inv-1")
	require.NoError(t, err)

	byInvoice, err := repo.FindByInvoiceID(ctx, "inv-1")
	require.NoError(t, err)
	require.Len(t, byInvoice, 2)
	for _, order := range byInvoice {
		require.NotNil(t, order.PaymentURL)
		assert.Equal(t, "https://pay.test/inv-1", *order.PaymentURL)
	}

	// Unknown invoice resolves to an empty set, not an error.
	none, err := repo.FindByInvoiceID(ctx, "inv-unknown")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestRepositoryFindPendingWithoutInvoice(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	orphan := newTestOrder(userID, uuid.New(), "ORD20250101EEEEE", 40000)
	_, err := repo.CreateWithItems(ctx, orphan)
	require.NoError(t, err)

	invoiced := newTestOrder(userID, uuid.New(), "ORD20250101FFFFF", 70000)
	_, err = repo.CreateWithItems(ctx, invoiced)
	require.NoError(t, err)
	require.NoError(t, repo.AttachInvoice(ctx, []uuid.UUID{invoiced.ID}, "inv-2", "https://pay.test/inv-2"))

	pending, err := repo.FindPendingWithoutInvoice(ctx, userID)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, orphan.ID, pending[0].ID)
}

func TestRepositoryTransitionStatusGuardsCurrentStatus(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	order := newTestOrder(uuid.New(), uuid.New(), "ORD20250101GGGGG", 40000)
	_, err := repo.CreateWithItems(ctx, order)
	require.NoError(t, err)

	flipped, err := repo.TransitionStatus(ctx, order.ID, enums.OrderStatusPending, enums.OrderStatusPaid)
	require.NoError(t, err)
	assert.Equal(t, int64(1), flipped)

	loaded, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusPaid, loaded.Status)

	// The order already left PENDING; a second flip must match nothing.
	flipped, err = repo.TransitionStatus(ctx, order.ID, enums.OrderStatusPending, enums.OrderStatusPaid)
	require.NoError(t, err)
	assert.Zero(t, flipped)

	loaded, err = repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusPaid, loaded.Status)
}

func TestRepositoryListScopes(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	sellerID := uuid.New()
	mine := newTestOrder(userID, sellerID, "ORD20250101HHHHH", 40000)
	other := newTestOrder(uuid.New(), uuid.New(), "ORD20250101IIIII", 70000)
	_, err := repo.CreateWithItems(ctx, mine)
	require.NoError(t, err)
	_, err = repo.CreateWithItems(ctx, other)
	require.NoError(t, err)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	byUser, err := repo.ListByUser(ctx, userID)
	require.NoError(t, err)
	require.Len(t, byUser, 1)
	assert.Equal(t, mine.ID, byUser[0].ID)

	bySeller, err := repo.ListBySeller(ctx, sellerID)
	require.NoError(t, err)
	require.Len(t, bySeller, 1)
	assert.Equal(t, mine.ID, bySeller[0].ID)

	byCode, err := repo.FindByCode(ctx, "ORD20250101HHHHH")
	require.NoError(t, err)
	assert.Equal(t, mine.ID, byCode.ID)
}
