package paymentmethods

import (
	"time"

	"github.com/google/uuid"

	"github.com/fahrurrzl/be-sayur-segar/pkg/db/models"
	"github.com/fahrurrzl/be-sayur-segar/pkg/enums"
)

// PaymentMethodRequest captures the payload for creating or updating a rail.
type PaymentMethodRequest struct {
	Name string                  `json:"name" validate:"required"`
	Type enums.PaymentMethodType `json:"type" validate:"required"`
}

// PaymentMethodResponse is the public projection of a payment rail.
type PaymentMethodResponse struct {
	ID        uuid.UUID               `json:"id"`
	Name      string                  `json:"name"`
	Type      enums.PaymentMethodType `json:"type"`
	CreatedAt time.Time               `json:"created_at"`
}

// FromModel converts a persisted payment method into its public projection.
func FromModel(method *models.PaymentMethod) PaymentMethodResponse {
	if method == nil {
		return PaymentMethodResponse{}
	}
	return PaymentMethodResponse{
		ID:        method.ID,
		Name:      method.Name,
		Type:      method.Type,
		CreatedAt: method.CreatedAt,
	}
}

// FromModels maps a slice of payment methods into public projections.
func FromModels(methods []models.PaymentMethod) []PaymentMethodResponse {
	out := make([]PaymentMethodResponse, 0, len(methods))
	for i := range methods {
		out = append(out, FromModel(&methods[i]))
	}
	return out
}
