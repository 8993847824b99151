package sellers

import (
	"time"

	"github.com/google/uuid"

	"github.com/fahrurrzl/be-sayur-segar/pkg/db/models"
)

// CreateSellerRequest captures the payload for opening a storefront.
type CreateSellerRequest struct {
	StoreName     string `json:"store_name" validate:"required"`
	StoreLocation string `json:"store_location" validate:"required"`
	BankName      string `json:"bank_name" validate:"required"`
	BankAccount   string `json:"bank_account" validate:"required"`
}

// UpdateSellerRequest captures mutable storefront fields.
type UpdateSellerRequest struct {
	StoreName     string `json:"store_name" validate:"required"`
	StoreLocation string `json:"store_location" validate:"required"`
	BankName      string `json:"bank_name" validate:"required"`
	BankAccount   string `json:"bank_account" validate:"required"`
}

// SellerResponse is the public projection of a storefront.
type SellerResponse struct {
	ID            uuid.UUID `json:"id"`
	UserID        uuid.UUID `json:"user_id"`
	StoreName     string    `json:"store_name"`
	StoreLocation string    `json:"store_location"`
	BankName      string    `json:"bank_name"`
	BankAccount   string    `json:"bank_account"`
	CreatedAt     time.Time `json:"created_at"`
}

// FromModel converts a persisted seller into its public projection.
func FromModel(seller *models.Seller) SellerResponse {
	if seller == nil {
		return SellerResponse{}
	}
	return SellerResponse{
		ID:            seller.ID,
		UserID:        seller.UserID,
		StoreName:     seller.StoreName,
		StoreLocation: seller.StoreLocation,
		BankName:      seller.BankName,
		BankAccount:   seller.BankAccount,
		CreatedAt:     seller.CreatedAt,
	}
}

// FromModels maps a slice of sellers into public projections.
func FromModels(sellers []models.Seller) []SellerResponse {
	out := make([]SellerResponse, 0, len(sellers))
	for i := range sellers {
		out = append(out, FromModel(&sellers[i]))
	}
	return out
}
