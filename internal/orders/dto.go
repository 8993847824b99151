package orders

import (
	"time"

	"github.com/google/uuid"

	"github.com/fahrurrzl/be-sayur-segar/pkg/db/models"
	"github.com/fahrurrzl/be-sayur-segar/pkg/enums"
)

// OrderItemResponse is the public projection of an order line snapshot.
type OrderItemResponse struct {
	ID          uuid.UUID `json:"id"`
	ProductID   uuid.UUID `json:"product_id"`
	ProductName string    `json:"product_name"`
	Quantity    int       `json:"quantity"`
	Price       int       `json:"price"`
	Subtotal    int       `json:"subtotal"`
}

// OrderResponse is the public projection of a seller-scoped order.
type OrderResponse struct {
	ID          uuid.UUID           `json:"id"`
	OrderCode   string              `json:"order_code"`
	UserID      uuid.UUID           `json:"user_id"`
	SellerID    uuid.UUID           `json:"seller_id"`
	Address     string              `json:"address"`
	ShippingFee int                 `json:"shipping_fee"`
	TotalPrice  int                 `json:"total_price"`
	Status      enums.OrderStatus   `json:"status"`
	InvoiceID   *string             `json:"invoice_id,omitempty"`
	PaymentURL  *string             `json:"payment_url,omitempty"`
	Items       []OrderItemResponse `json:"items"`
	CreatedAt   time.Time           `json:"created_at"`
}

// FromModel converts a persisted order into its public projection.
func FromModel(order *models.Order) OrderResponse {
	if order == nil {
		return OrderResponse{}
	}
	resp := OrderResponse{
		ID:          order.ID,
		OrderCode:   order.OrderCode,
		UserID:      order.UserID,
		SellerID:    order.SellerID,
		Address:     order.Address,
		ShippingFee: order.ShippingFee,
		TotalPrice:  order.TotalPrice,
		Status:      order.Status,
		InvoiceID:   order.InvoiceID,
		PaymentURL:  order.PaymentURL,
		Items:       make([]OrderItemResponse, 0, len(order.Items)),
		CreatedAt:   order.CreatedAt,
	}
	for i := range order.Items {
		item := &order.Items[i]
		resp.Items = append(resp.Items, OrderItemResponse{
			ID:          item.ID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			Price:       item.Price,
			Subtotal:    item.Price * item.Quantity,
		})
	}
	return resp
}

// FromModels maps a slice of orders into public projections.
func FromModels(orders []models.Order) []OrderResponse {
	out := make([]OrderResponse, 0, len(orders))
	for i := range orders {
		out = append(out, FromModel(&orders[i]))
	}
	return out
}
