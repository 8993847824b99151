package categories

import (
	"time"

	"github.com/google/uuid"

	"github.com/fahrurrzl/be-sayur-segar/pkg/db/models"
)

// CategoryRequest captures the payload for creating or renaming a category.
type CategoryRequest struct {
	Name string `json:"name" validate:"required"`
}

// CategoryResponse is the public projection of a category.
type CategoryResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// FromModel converts a persisted category into its public projection.
func FromModel(category *models.Category) CategoryResponse {
	if category == nil {
		return CategoryResponse{}
	}
	return CategoryResponse{
		ID:        category.ID,
		Name:      category.Name,
		CreatedAt: category.CreatedAt,
	}
}

// FromModels maps a slice of categories into public projections.
func FromModels(categories []models.Category) []CategoryResponse {
	out := make([]CategoryResponse, 0, len(categories))
	for i := range categories {
		out = append(out, FromModel(&categories[i]))
	}
	return out
}
