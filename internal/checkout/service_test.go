package checkout

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/fahrurrzl/be-sayur-segar/internal/orders"
	"github.com/fahrurrzl/be-sayur-segar/pkg/config"
	"github.com/fahrurrzl/be-sayur-segar/pkg/db/models"
	"github.com/fahrurrzl/be-sayur-segar/pkg/enums"
	pkgerrors "github.com/fahrurrzl/be-sayur-segar/pkg/errors"
	"github.com/fahrurrzl/be-sayur-segar/pkg/logger"
	"github.com/fahrurrzl/be-sayur-segar/pkg/xendit"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Level: zerolog.Disabled, Output: os.Stderr})
}

func testFeeCalculator(t *testing.T) FeeCalculator {
	t.Helper()
	calc, err := NewFlatFeeCalculator(config.ShippingConfig{FlatFee: 20000})
	if err != nil {
		t.Fatalf("build fee calculator: %v", err)
	}
	return calc
}

type checkoutFixture struct {
	svc      Service
	cart     *stubCartRepo
	orders   *stubOrdersRepo
	invoices *stubInvoiceClient
	userID   uuid.UUID
}

func newCheckoutFixture(t *testing.T, items []models.CartItem) *checkoutFixture {
	t.Helper()

	userID := uuid.New()
	cartRepo := &stubCartRepo{
		cart: &models.Cart{ID: uuid.New(), UserID: userID, Items: items},
	}
	ordersRepo := &stubOrdersRepo{}
	invoices := &stubInvoiceClient{
		invoice: &xendit.Invoice{ID: "inv-1", InvoiceURL: "https://pay.test/inv-1"},
	}

	svc, err := NewService(ServiceParams{
		DB:       stubTxRunner{},
		Cart:     cartRepo,
		Orders:   ordersRepo,
		Users:    stubUserFinder{user: &models.User{ID: userID, Email: "budi@example.com"}},
		Invoices: invoices,
		Fees:     testFeeCalculator(t),
		Logger:   testLogger(),
	})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	return &checkoutFixture{svc: svc, cart: cartRepo, orders: ordersRepo, invoices: invoices, userID: userID}
}

func TestExecuteSplitsCartIntoOrderPerSeller(t *testing.T) {
	sellerA := uuid.New()
	sellerB := uuid.New()
	fx := newCheckoutFixture(t, []models.CartItem{
		cartItem(sellerA, 10000, 2),
		cartItem(sellerB, 50000, 1),
	})

	resp, err := fx.svc.Execute(context.Background(), fx.userID, CheckoutRequest{Address: "Jl. Pasar Baru 5"})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}

	if len(resp.Orders) != 2 {
		t.Fatalf("expected 2 orders for 2 sellers, got %d", len(resp.Orders))
	}
	if resp.Orders[0].TotalPrice != 40000 {
		t.Fatalf("seller A order: expected 40000, got %d", resp.Orders[0].TotalPrice)
	}
	if resp.Orders[1].TotalPrice != 70000 {
		t.Fatalf("seller B order: expected 70000, got %d", resp.Orders[1].TotalPrice)
	}
	if resp.GrandTotal != 110000 {
		t.Fatalf("expected grand total 110000, got %d", resp.GrandTotal)
	}
	if fx.invoices.lastAmount != 110000 {
		t.Fatalf("invoice amount should equal grand total, got %d", fx.invoices.lastAmount)
	}

	for _, order := range resp.Orders {
		if len(order.Items) == 0 {
			t.Fatalf("every order must carry at least one item")
		}
		if order.Status != enums.OrderStatusPending {
			t.Fatalf("orders must start PENDING, got %s", order.Status)
		}
		itemsTotal := 0
		for _, item := range order.Items {
			itemsTotal += item.Price * item.Quantity
		}
		if order.TotalPrice != order.ShippingFee+itemsTotal {
			t.Fatalf("total invariant violated for %s", order.OrderCode)
		}
		if order.InvoiceID == nil || *order.InvoiceID != "inv-1" {
			t.Fatalf("order missing shared invoice id")
		}
	}

	if !fx.cart.cleared {
		t.Fatalf("cart should be cleared after successful checkout")
	}
	if len(fx.orders.attachedIDs) != 2 {
		t.Fatalf("invoice should be attached to both orders")
	}
}

func TestExecuteInvoiceReferenceIsNotAnOrderCode(t *testing.T) {
	fx := newCheckoutFixture(t, []models.CartItem{cartItem(uuid.New(), 10000, 1)})

	_, err := fx.svc.Execute(context.Background(), fx.userID, CheckoutRequest{Address: "Jl. Pasar Baru 5"})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if fx.invoices.lastExternalID == "" {
		t.Fatalf("invoice external id missing")
	}
	for _, created := range fx.orders.created {
		if created.OrderCode == fx.invoices.lastExternalID {
			t.Fatalf("invoice reference must differ from order codes")
		}
	}
}

func TestExecuteEmptyCart(t *testing.T) {
	fx := newCheckoutFixture(t, nil)

	_, err := fx.svc.Execute(context.Background(), fx.userID, CheckoutRequest{Address: "Jl. Pasar Baru 5"})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for empty cart, got %v", err)
	}
	if len(fx.orders.created) != 0 {
		t.Fatalf("empty cart must create zero orders")
	}
	if fx.invoices.calls != 0 {
		t.Fatalf("empty cart must create zero invoices")
	}
}

func TestExecuteMissingAddress(t *testing.T) {
	fx := newCheckoutFixture(t, []models.CartItem{cartItem(uuid.New(), 10000, 1)})

	_, err := fx.svc.Execute(context.Background(), fx.userID, CheckoutRequest{Address: "   "})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestExecuteInvoiceFailureLeavesOrdersForRetry(t *testing.T) {
	fx := newCheckoutFixture(t, []models.CartItem{cartItem(uuid.New(), 10000, 1)})
	fx.invoices.err = pkgerrors.New(pkgerrors.CodeDependency, "xendit unavailable")

	_, err := fx.svc.Execute(context.Background(), fx.userID, CheckoutRequest{Address: "Jl. Pasar Baru 5"})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}

	if len(fx.orders.created) != 1 {
		t.Fatalf("orders must survive invoice failure")
	}
	if fx.orders.created[0].Status != enums.OrderStatusPending {
		t.Fatalf("orders must stay PENDING after invoice failure")
	}
	if len(fx.orders.attachedIDs) != 0 {
		t.Fatalf("no invoice should be attached on failure")
	}
	if fx.cart.cleared {
		t.Fatalf("cart must not be cleared when the invoice fails")
	}
}

func TestExecuteRetriesCartClearOnce(t *testing.T) {
	fx := newCheckoutFixture(t, []models.CartItem{cartItem(uuid.New(), 10000, 1)})
	fx.cart.clearFails = 1

	resp, err := fx.svc.Execute(context.Background(), fx.userID, CheckoutRequest{Address: "Jl. Pasar Baru 5"})
	if err != nil {
		t.Fatalf("a transient clear failure must not fail the checkout: %v", err)
	}
	if len(resp.Orders) != 1 {
		t.Fatalf("expected 1 order, got %d", len(resp.Orders))
	}
	if fx.cart.clearCalls != 2 {
		t.Fatalf("expected one clear retry, got %d calls", fx.cart.clearCalls)
	}
	if !fx.cart.cleared {
		t.Fatalf("retry should have cleared the cart")
	}
}

func TestExecuteChecksOutDespitePersistentClearFailure(t *testing.T) {
	fx := newCheckoutFixture(t, []models.CartItem{cartItem(uuid.New(), 10000, 1)})
	fx.cart.clearFails = 2

	resp, err := fx.svc.Execute(context.Background(), fx.userID, CheckoutRequest{Address: "Jl. Pasar Baru 5"})
	if err != nil {
		t.Fatalf("orders and invoice exist, checkout must still succeed: %v", err)
	}
	if len(resp.Orders) != 1 {
		t.Fatalf("expected 1 order, got %d", len(resp.Orders))
	}
	if fx.cart.cleared {
		t.Fatalf("clear failed twice, cart should remain populated")
	}
}

func TestExecuteRetriesOrderCodeCollision(t *testing.T) {
	fx := newCheckoutFixture(t, []models.CartItem{cartItem(uuid.New(), 10000, 1)})
	fx.orders.failCreates = 1

	resp, err := fx.svc.Execute(context.Background(), fx.userID, CheckoutRequest{Address: "Jl. Pasar Baru 5"})
	if err != nil {
		t.Fatalf("execute should retry past one collision: %v", err)
	}
	if len(resp.Orders) != 1 {
		t.Fatalf("expected 1 order, got %d", len(resp.Orders))
	}
}

func TestExecuteGivesUpAfterRepeatedCollisions(t *testing.T) {
	fx := newCheckoutFixture(t, []models.CartItem{cartItem(uuid.New(), 10000, 1)})
	fx.orders.failCreates = maxCodeAttempts

	_, err := fx.svc.Execute(context.Background(), fx.userID, CheckoutRequest{Address: "Jl. Pasar Baru 5"})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict after repeated collisions, got %v", err)
	}
}

func TestRetryInvoiceReinvoicesPendingOrders(t *testing.T) {
	fx := newCheckoutFixture(t, nil)
	fx.orders.pendingWithoutInvoice = []models.Order{
		{ID: uuid.New(), OrderCode: "ORD20250101AAAAA", UserID: fx.userID, TotalPrice: 40000, Status: enums.OrderStatusPending},
		{ID: uuid.New(), OrderCode: "ORD20250101BBBBB", UserID: fx.userID, TotalPrice: 70000, Status: enums.OrderStatusPending},
	}

	resp, err := fx.svc.RetryInvoice(context.Background(), fx.userID)
	if err != nil {
		t.Fatalf("retry invoice: %v", err)
	}
	if len(resp.Orders) != 2 {
		t.Fatalf("retry must not create or drop orders")
	}
	if fx.invoices.lastAmount != 110000 {
		t.Fatalf("retry invoice amount should cover all pending orders, got %d", fx.invoices.lastAmount)
	}
	if len(fx.orders.attachedIDs) != 2 {
		t.Fatalf("retry must attach the invoice to every pending order")
	}
	if len(fx.orders.created) != 0 {
		t.Fatalf("retry must not create new orders")
	}
}

func TestRetryInvoiceNothingPending(t *testing.T) {
	fx := newCheckoutFixture(t, nil)

	_, err := fx.svc.RetryInvoice(context.Background(), fx.userID)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
	if fx.invoices.calls != 0 {
		t.Fatalf("no invoice should be created when nothing is pending")
	}
}

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type stubCartRepo struct {
	cart       *models.Cart
	cleared    bool
	clearCalls int
	clearFails int
}

func (s *stubCartRepo) FindWithItems(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	if s.cart == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return s.cart, nil
}

func (s *stubCartRepo) ClearItems(ctx context.Context, cartID uuid.UUID) error {
	s.clearCalls++
	if s.clearFails > 0 {
		s.clearFails--
		return errors.New("clear items failed")
	}
	s.cleared = true
	return nil
}

type stubUserFinder struct {
	user *models.User
}

func (s stubUserFinder) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if s.user == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return s.user, nil
}

type stubInvoiceClient struct {
	invoice        *xendit.Invoice
	err            error
	calls          int
	lastAmount     int
	lastExternalID string
}

func (s *stubInvoiceClient) CreateInvoice(ctx context.Context, params xendit.InvoiceCreateParams) (*xendit.Invoice, error) {
	s.calls++
	s.lastAmount = params.Amount
	s.lastExternalID = params.ExternalID
	if s.err != nil {
		return nil, s.err
	}
	return s.invoice, nil
}

type stubOrdersRepo struct {
	created               []models.Order
	attachedIDs           []uuid.UUID
	pendingWithoutInvoice []models.Order
	failCreates           int
}

func (s *stubOrdersRepo) WithTx(tx *gorm.DB) orders.Repository {
	return s
}

func (s *stubOrdersRepo) CreateWithItems(ctx context.Context, order *models.Order) (*models.Order, error) {
	if s.failCreates > 0 {
		s.failCreates--
		return nil, errDuplicateCode
	}
	s.created = append(s.created, *order)
	return order, nil
}

func (s *stubOrdersRepo) AttachInvoice(ctx context.Context, orderIDs []uuid.UUID, invoiceID, paymentURL string) error {
	s.attachedIDs = append([]uuid.UUID{}, orderIDs...)
	return nil
}

func (s *stubOrdersRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	panic("not implemented")
}

func (s *stubOrdersRepo) FindByCode(ctx context.Context, code string) (*models.Order, error) {
	panic("not implemented")
}

func (s *stubOrdersRepo) FindByInvoiceID(ctx context.Context, invoiceID string) ([]models.Order, error) {
	panic("not implemented")
}

func (s *stubOrdersRepo) FindPendingWithoutInvoice(ctx context.Context, userID uuid.UUID) ([]models.Order, error) {
	return s.pendingWithoutInvoice, nil
}

func (s *stubOrdersRepo) List(ctx context.Context) ([]models.Order, error) {
	panic("not implemented")
}

func (s *stubOrdersRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Order, error) {
	panic("not implemented")
}

func (s *stubOrdersRepo) ListBySeller(ctx context.Context, sellerID uuid.UUID) ([]models.Order, error) {
	panic("not implemented")
}

func (s *stubOrdersRepo) TransitionStatus(ctx context.Context, id uuid.UUID, from, to enums.OrderStatus) (int64, error) {
	panic("not implemented")
}

var errDuplicateCode = errors.New(`ERROR: duplicate key value violates unique constraint "idx_orders_order_code" (SQLSTATE 23505)`)
