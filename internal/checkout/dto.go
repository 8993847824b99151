package checkout

import (
	"github.com/fahrurrzl/be-sayur-segar/internal/orders"
)

// CheckoutRequest captures the payload for converting a cart into orders.
type CheckoutRequest struct {
	Address string `json:"address" validate:"required"`
}

// CheckoutResponse reports the orders created by one checkout and the shared
// invoice covering all of them.
type CheckoutResponse struct {
	Orders     []orders.OrderResponse `json:"orders"`
	InvoiceID  string                 `json:"invoice_id"`
	PaymentURL string                 `json:"payment_url"`
	GrandTotal int                    `json:"grand_total"`
}
