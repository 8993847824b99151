package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fahrurrzl/be-sayur-segar/internal/orders"
	"github.com/fahrurrzl/be-sayur-segar/pkg/db"
	"github.com/fahrurrzl/be-sayur-segar/pkg/db/models"
	"github.com/fahrurrzl/be-sayur-segar/pkg/enums"
	pkgerrors "github.com/fahrurrzl/be-sayur-segar/pkg/errors"
	"github.com/fahrurrzl/be-sayur-segar/pkg/logger"
	"github.com/fahrurrzl/be-sayur-segar/pkg/metrics"
	"github.com/fahrurrzl/be-sayur-segar/pkg/xendit"
)

const (
	invoiceRefPrefix = "CHK-"
	maxCodeAttempts  = 3
)

// Service defines the behavior needed by the checkout controller.
type Service interface {
	Execute(ctx context.Context, userID uuid.UUID, req CheckoutRequest) (*CheckoutResponse, error)
	RetryInvoice(ctx context.Context, userID uuid.UUID) (*CheckoutResponse, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type cartRepository interface {
	FindWithItems(ctx context.Context, userID uuid.UUID) (*models.Cart, error)
	ClearItems(ctx context.Context, cartID uuid.UUID) error
}

type userFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type invoiceClient interface {
	CreateInvoice(ctx context.Context, params xendit.InvoiceCreateParams) (*xendit.Invoice, error)
}

// ServiceParams bundles the dependencies required to build a checkout service.
type ServiceParams struct {
	DB       txRunner
	Cart     cartRepository
	Orders   orders.Repository
	Users    userFinder
	Invoices invoiceClient
	Fees     FeeCalculator
	Metrics  *metrics.CheckoutMetrics
	Logger   *logger.Logger
}

type service struct {
	db       txRunner
	cart     cartRepository
	orders   orders.Repository
	users    userFinder
	invoices invoiceClient
	fees     FeeCalculator
	metrics  *metrics.CheckoutMetrics
	logger   *logger.Logger
}

// NewService constructs a checkout service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.DB == nil {
		return nil, fmt.Errorf("database client is required")
	}
	if params.Cart == nil {
		return nil, fmt.Errorf("cart repository is required")
	}
	if params.Orders == nil {
		return nil, fmt.Errorf("orders repository is required")
	}
	if params.Users == nil {
		return nil, fmt.Errorf("users repository is required")
	}
	if params.Invoices == nil {
		return nil, fmt.Errorf("invoice client is required")
	}
	if params.Fees == nil {
		return nil, fmt.Errorf("fee calculator is required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &service{
		db:       params.DB,
		cart:     params.Cart,
		orders:   params.Orders,
		users:    params.Users,
		invoices: params.Invoices,
		fees:     params.Fees,
		metrics:  params.Metrics,
		logger:   params.Logger,
	}, nil
}

// Execute converts the user's cart into one PENDING order per seller, bills the
// grand total through a single invoice, stamps every order with it, and clears
// the cart. Invoice failure leaves the orders PENDING and invoice-less; they are
// picked up by RetryInvoice.
func (s *service) Execute(ctx context.Context, userID uuid.UUID, req CheckoutRequest) (*CheckoutResponse, error) {
	address := strings.TrimSpace(req.Address)
	if address == "" {
		s.metrics.IncCheckout("invalid_address")
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "address is required")
	}

	cart, err := s.cart.FindWithItems(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.metrics.IncCheckout("empty_cart")
			return nil, ErrEmptyCart
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart")
	}

	groups, err := groupBySeller(cart.Items)
	if err != nil {
		s.metrics.IncCheckout("empty_cart")
		return nil, err
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
	}

	created, grandTotal, err := s.createOrders(ctx, userID, address, groups)
	if err != nil {
		s.metrics.IncCheckout("order_create_failed")
		return nil, err
	}
	s.metrics.AddOrdersCreated(len(created))

	ctx = s.logger.WithFields(ctx, map[string]any{
		"order_count": len(created),
		"grand_total": grandTotal,
	})
	s.logger.Info(ctx, "checkout orders created")

	invoice, err := s.issueInvoice(ctx, user.Email, grandTotal, created)
	if err != nil {
		s.metrics.IncCheckout("invoice_failed")
		s.logger.Error(ctx, "invoice creation failed, orders await retry", err)
		return nil, err
	}

	if err := s.cart.ClearItems(ctx, cart.ID); err != nil {
		s.logger.Warn(ctx, "clearing cart after checkout failed, retrying")
		if err := s.cart.ClearItems(ctx, cart.ID); err != nil {
			// Orders and invoice already exist; a stale cart is recoverable by
			// the user, so log instead of failing the checkout.
			s.logger.Error(ctx, "clearing cart after checkout failed", err)
		}
	}

	s.metrics.IncCheckout("success")
	return s.buildResponse(created, invoice), nil
}

// RetryInvoice re-bills the user's PENDING orders that never received an
// invoice. No new orders are created.
func (s *service) RetryInvoice(ctx context.Context, userID uuid.UUID) (*CheckoutResponse, error) {
	pending, err := s.orders.FindPendingWithoutInvoice(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load pending orders")
	}
	if len(pending) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no orders awaiting invoice")
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
	}

	grandTotal := 0
	for _, order := range pending {
		grandTotal += order.TotalPrice
	}

	invoice, err := s.issueInvoice(ctx, user.Email, grandTotal, pending)
	if err != nil {
		return nil, err
	}

	return s.buildResponse(pending, invoice), nil
}

// createOrders writes one PENDING order per seller group atomically. An order
// code collision aborts the transaction; the whole batch is retried with fresh
// codes up to maxCodeAttempts times.
func (s *service) createOrders(ctx context.Context, userID uuid.UUID, address string, groups []sellerGroup) ([]models.Order, int, error) {
	var lastErr error
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		batch, grandTotal, err := s.buildOrderBatch(ctx, userID, address, groups)
		if err != nil {
			return nil, 0, err
		}

		err = s.db.WithTx(ctx, func(tx *gorm.DB) error {
			repo := s.orders.WithTx(tx)
			for i := range batch {
				if _, err := repo.CreateWithItems(ctx, &batch[i]); err != nil {
					return err
				}
			}
			return nil
		})
		if err == nil {
			return batch, grandTotal, nil
		}
		if !db.IsUniqueViolation(err, "") {
			return nil, 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create orders")
		}
		lastErr = err
	}
	return nil, 0, pkgerrors.Wrap(pkgerrors.CodeConflict, lastErr, "order code collision persisted")
}

func (s *service) buildOrderBatch(ctx context.Context, userID uuid.UUID, address string, groups []sellerGroup) ([]models.Order, int, error) {
	now := time.Now().UTC()
	batch := make([]models.Order, 0, len(groups))
	grandTotal := 0

	for _, group := range groups {
		fee, err := s.fees.ShippingFee(ctx, group.SellerID, address)
		if err != nil {
			return nil, 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "price shipping")
		}
		if fee < 0 {
			return nil, 0, pkgerrors.New(pkgerrors.CodeInternal, "negative shipping fee")
		}

		code, err := newOrderCode(now)
		if err != nil {
			return nil, 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate order code")
		}

		total := subtotal(group.Items) + fee
		order := models.Order{
			ID:          uuid.New(),
			OrderCode:   code,
			UserID:      userID,
			SellerID:    group.SellerID,
			Address:     address,
			ShippingFee: fee,
			TotalPrice:  total,
			Status:      enums.OrderStatusPending,
			Items:       make([]models.OrderItem, 0, len(group.Items)),
		}
		for _, item := range group.Items {
			order.Items = append(order.Items, models.OrderItem{
				ID:          uuid.New(),
				ProductID:   item.ProductID,
				ProductName: item.Product.Name,
				Quantity:    item.Quantity,
				Price:       item.Product.Price,
			})
		}

		batch = append(batch, order)
		grandTotal += total
	}
	return batch, grandTotal, nil
}

// issueInvoice creates one invoice covering every order in the set and stamps
// the orders with its id and payment URL. The external reference is minted
// fresh per attempt and is distinct from order codes.
func (s *service) issueInvoice(ctx context.Context, payerEmail string, amount int, orderSet []models.Order) (*xendit.Invoice, error) {
	codes := make([]string, 0, len(orderSet))
	ids := make([]uuid.UUID, 0, len(orderSet))
	for _, order := range orderSet {
		codes = append(codes, order.OrderCode)
		ids = append(ids, order.ID)
	}

	invoice, err := s.invoices.CreateInvoice(ctx, xendit.InvoiceCreateParams{
		ExternalID:  invoiceRefPrefix + uuid.NewString(),
		Amount:      amount,
		PayerEmail:  payerEmail,
		Description: "Pembayaran pesanan " + strings.Join(codes, ", "),
	})
	if err != nil {
		return nil, err
	}

	if err := s.orders.AttachInvoice(ctx, ids, invoice.ID, invoice.InvoiceURL); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "attach invoice to orders")
	}
	return invoice, nil
}

func (s *service) buildResponse(orderSet []models.Order, invoice *xendit.Invoice) *CheckoutResponse {
	grandTotal := 0
	for i := range orderSet {
		orderSet[i].InvoiceID = &invoice.ID
		orderSet[i].PaymentURL = &invoice.InvoiceURL
		grandTotal += orderSet[i].TotalPrice
	}
	return &CheckoutResponse{
		Orders:     orders.FromModels(orderSet),
		InvoiceID:  invoice.ID,
		PaymentURL: invoice.InvoiceURL,
		GrandTotal: grandTotal,
	}
}
