package cart

import (
	"github.com/google/uuid"

	"github.com/fahrurrzl/be-sayur-segar/pkg/db/models"
)

// AddItemRequest captures the payload for putting a product into the cart.
type AddItemRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,gt=0"`
}

// CartItemResponse is the public projection of a cart line.
type CartItemResponse struct {
	ID        uuid.UUID `json:"id"`
	ProductID uuid.UUID `json:"product_id"`
	Name      string    `json:"name"`
	Quantity  int       `json:"quantity"`
	Price     int       `json:"price"`
	Subtotal  int       `json:"subtotal"`
	SellerID  uuid.UUID `json:"seller_id"`
	StoreName string    `json:"store_name"`
}

// CartResponse is the public projection of a user's cart.
type CartResponse struct {
	ID    uuid.UUID          `json:"id"`
	Items []CartItemResponse `json:"items"`
	Total int                `json:"total"`
}

// FromModel converts a persisted cart into its public projection.
func FromModel(cart *models.Cart) CartResponse {
	if cart == nil {
		return CartResponse{}
	}
	resp := CartResponse{ID: cart.ID, Items: make([]CartItemResponse, 0, len(cart.Items))}
	for i := range cart.Items {
		item := &cart.Items[i]
		line := CartItemResponse{
			ID:        item.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price,
			Subtotal:  item.Price * item.Quantity,
		}
		if item.Product != nil {
			line.Name = item.Product.Name
			line.SellerID = item.Product.SellerID
			if item.Product.Seller != nil {
				line.StoreName = item.Product.Seller.StoreName
			}
		}
		resp.Items = append(resp.Items, line)
		resp.Total += line.Subtotal
	}
	return resp
}
