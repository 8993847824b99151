package products

import (
	"time"

	"github.com/google/uuid"

	"github.com/fahrurrzl/be-sayur-segar/pkg/db/models"
)

// CreateProductRequest captures the payload for listing a product.
type CreateProductRequest struct {
	CategoryID  uuid.UUID `json:"category_id" validate:"required"`
	Name        string    `json:"name" validate:"required"`
	Description string    `json:"description" validate:"required"`
	Price       int       `json:"price" validate:"required,gt=0"`
	Stock       int       `json:"stock" validate:"gte=0"`
	ImageURL    string    `json:"image_url" validate:"required,url"`
}

// UpdateProductRequest captures the mutable listing fields.
type UpdateProductRequest struct {
	CategoryID  uuid.UUID `json:"category_id" validate:"required"`
	Name        string    `json:"name" validate:"required"`
	Description string    `json:"description" validate:"required"`
	Price       int       `json:"price" validate:"required,gt=0"`
	Stock       int       `json:"stock" validate:"gte=0"`
	ImageURL    string    `json:"image_url" validate:"required,url"`
}

// ListFilters narrows the catalog listing.
type ListFilters struct {
	CategoryID *uuid.UUID
	SellerID   *uuid.UUID
	Search     string
}

// ProductSeller is the storefront summary embedded in product responses.
type ProductSeller struct {
	ID        uuid.UUID `json:"id"`
	StoreName string    `json:"store_name"`
}

// ProductCategory is the category summary embedded in product responses.
type ProductCategory struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// ProductResponse is the public projection of a listing.
type ProductResponse struct {
	ID          uuid.UUID        `json:"id"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Price       int              `json:"price"`
	Stock       int              `json:"stock"`
	ImageURL    string           `json:"image_url"`
	Seller      *ProductSeller   `json:"seller,omitempty"`
	Category    *ProductCategory `json:"category,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
}

// FromModel converts a persisted product into its public projection.
func FromModel(product *models.Product) ProductResponse {
	if product == nil {
		return ProductResponse{}
	}
	resp := ProductResponse{
		ID:          product.ID,
		Name:        product.Name,
		Description: product.Description,
		Price:       product.Price,
		Stock:       product.Stock,
		ImageURL:    product.ImageURL,
		CreatedAt:   product.CreatedAt,
	}
	if product.Seller != nil {
		resp.Seller = &ProductSeller{ID: product.Seller.ID, StoreName: product.Seller.StoreName}
	}
	if product.Category != nil {
		resp.Category = &ProductCategory{ID: product.Category.ID, Name: product.Category.Name}
	}
	return resp
}

// FromModels maps a slice of products into public projections.
func FromModels(products []models.Product) []ProductResponse {
	out := make([]ProductResponse, 0, len(products))
	for i := range products {
		out = append(out, FromModel(&products[i]))
	}
	return out
}
