package xenditwebhook

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fahrurrzl/be-sayur-segar/internal/orders"
	"github.com/fahrurrzl/be-sayur-segar/internal/products"
	"github.com/fahrurrzl/be-sayur-segar/internal/wallets"
	"github.com/fahrurrzl/be-sayur-segar/pkg/db/models"
	"github.com/fahrurrzl/be-sayur-segar/pkg/enums"
	pkgerrors "github.com/fahrurrzl/be-sayur-segar/pkg/errors"
	"github.com/fahrurrzl/be-sayur-segar/pkg/logger"
	"github.com/fahrurrzl/be-sayur-segar/pkg/metrics"
	"github.com/fahrurrzl/be-sayur-segar/pkg/xendit"
)

const dedupScope = "xendit-invoice"

// InvoiceCallback is the notification payload sent when an invoice changes
// state. Only id and status drive settlement.
type InvoiceCallback struct {
	ID         string `json:"id"`
	ExternalID string `json:"external_id"`
	Status     string `json:"status"`
	Amount     int    `json:"amount"`
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type dedupStore interface {
	SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error)
	IdempotencyKey(scope, id string) string
	Del(ctx context.Context, keys ...string) error
}

// ServiceParams bundles the dependencies required to build the settlement service.
type ServiceParams struct {
	DB       txRunner
	Orders   orders.Repository
	Wallets  *wallets.Repository
	Products *products.Repository
	Dedup    dedupStore
	DedupTTL time.Duration
	Metrics  *metrics.CheckoutMetrics
	Logger   *logger.Logger
}

// Service settles orders when the payment provider reports an invoice as paid.
type Service struct {
	db       txRunner
	orders   orders.Repository
	wallets  *wallets.Repository
	products *products.Repository
	dedup    dedupStore
	dedupTTL time.Duration
	metrics  *metrics.CheckoutMetrics
	logger   *logger.Logger
}

// NewService constructs the settlement service with the provided dependencies.
func NewService(params ServiceParams) (*Service, error) {
	if params.DB == nil {
		return nil, fmt.Errorf("database client is required")
	}
	if params.Orders == nil {
		return nil, fmt.Errorf("orders repository is required")
	}
	if params.Wallets == nil {
		return nil, fmt.Errorf("wallets repository is required")
	}
	if params.Products == nil {
		return nil, fmt.Errorf("products repository is required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	ttl := params.DedupTTL
	if ttl <= 0 {
		ttl = 30 * 24 * time.Hour
	}
	return &Service{
		db:       params.DB,
		orders:   params.Orders,
		wallets:  params.Wallets,
		products: params.Products,
		dedup:    params.Dedup,
		dedupTTL: ttl,
		metrics:  params.Metrics,
		logger:   params.Logger,
	}, nil
}

// HandleInvoiceCallback settles every PENDING order attached to a paid invoice:
// status flips to PAID, the seller wallet is credited with the order total, and
// stock is decremented by the snapshot quantities, all in one transaction.
// Non-PAID statuses and unknown invoices are acknowledged without effect.
// Replays are harmless: the Redis guard short-circuits known notification ids,
// and the conditional PENDING to PAID flip is the authoritative at-most-once
// check, so concurrent deliveries cannot settle the same order twice.
func (s *Service) HandleInvoiceCallback(ctx context.Context, callback InvoiceCallback) error {
	invoiceID := strings.TrimSpace(callback.ID)
	if invoiceID == "" {
		s.metrics.IncSettlement("invalid_payload")
		return pkgerrors.New(pkgerrors.CodeValidation, "invoice id is required")
	}

	ctx = s.logger.WithFields(ctx, map[string]any{
		"invoice_id": invoiceID,
		"status":     callback.Status,
	})

	if callback.Status != xendit.StatusPaid {
		s.logger.Info(ctx, "ignoring non-paid invoice notification")
		s.metrics.IncSettlement("ignored_status")
		return nil
	}

	dedupKey, fresh, err := s.claimNotification(ctx, invoiceID)
	if err != nil {
		s.logger.Error(ctx, "idempotency guard unavailable, relying on status filter", err)
	} else if !fresh {
		s.logger.Info(ctx, "duplicate notification short-circuited")
		s.metrics.IncSettlement("duplicate")
		return nil
	}

	settled := 0
	err = s.db.WithTx(ctx, func(tx *gorm.DB) error {
		count, err := s.settle(ctx, tx, invoiceID)
		settled = count
		return err
	})
	if err != nil {
		// Release the claim so the provider's retry can settle.
		if dedupKey != "" && s.dedup != nil {
			_ = s.dedup.Del(ctx, dedupKey)
		}
		s.metrics.IncSettlement("failed")
		return err
	}

	if settled == 0 {
		s.logger.Info(ctx, "no pending orders for invoice, acknowledging")
		s.metrics.IncSettlement("noop")
		return nil
	}

	ctx = s.logger.WithField(ctx, "orders_settled", settled)
	s.logger.Info(ctx, "invoice settled")
	s.metrics.IncSettlement("success")
	return nil
}

func (s *Service) claimNotification(ctx context.Context, invoiceID string) (string, bool, error) {
	if s.dedup == nil {
		return "", true, nil
	}
	key := s.dedup.IdempotencyKey(dedupScope, invoiceID)
	fresh, err := s.dedup.SetNX(ctx, key, time.Now().UTC().Format(time.RFC3339), s.dedupTTL)
	if err != nil {
		return "", true, err
	}
	return key, fresh, nil
}

func (s *Service) settle(ctx context.Context, tx *gorm.DB, invoiceID string) (int, error) {
	ordersRepo := s.orders.WithTx(tx)
	walletRepo := s.wallets.WithTx(tx)
	productRepo := s.products.WithTx(tx)

	attached, err := ordersRepo.FindByInvoiceID(ctx, invoiceID)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load orders for invoice")
	}

	settled := 0
	for _, order := range attached {
		if order.Status != enums.OrderStatusPending {
			continue
		}

		// The conditional flip is the authoritative at-most-once guard. A
		// concurrent settlement that moved the order off PENDING after our
		// snapshot matches zero rows here, and the side effects are skipped.
		flipped, err := ordersRepo.TransitionStatus(ctx, order.ID, enums.OrderStatusPending, enums.OrderStatusPaid)
		if err != nil {
			return 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mark order paid")
		}
		if flipped == 0 {
			orderCtx := s.logger.WithField(ctx, "order_code", order.OrderCode)
			s.logger.Info(orderCtx, "order already settled, skipping")
			continue
		}

		if err := s.creditSeller(ctx, walletRepo, &order); err != nil {
			return 0, err
		}
		for _, item := range order.Items {
			affected, err := productRepo.DecrementStock(ctx, item.ProductID, item.Quantity)
			if err != nil {
				return 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decrement stock")
			}
			if affected == 0 {
				// Oversold between checkout and settlement; the payment already
				// cleared, so settle anyway and let stock read zero.
				itemCtx := s.logger.WithField(ctx, "product_id", item.ProductID.String())
				s.logger.Warn(itemCtx, "stock underflow at settlement, skipping decrement")
			}
		}
		settled++
	}
	return settled, nil
}

func (s *Service) creditSeller(ctx context.Context, walletRepo *wallets.Repository, order *models.Order) error {
	wallet, err := walletRepo.FindBySellerID(ctx, order.SellerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Seller never opened a wallet; create one so settlement funds land.
			wallet = &models.Wallet{ID: uuid.New(), SellerID: order.SellerID}
			if _, err := walletRepo.Create(ctx, wallet); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create wallet")
			}
		} else {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup wallet")
		}
	}
	note := "order " + order.OrderCode + " settled"
	if err := walletRepo.Credit(ctx, wallet.ID, order.TotalPrice, note); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "credit wallet")
	}
	return nil
}
