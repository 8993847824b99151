package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/fahrurrzl/be-sayur-segar/pkg/enums"
)

// PaymentMethod lists the payment rails shown at checkout.
type PaymentMethod struct {
	ID        uuid.UUID               `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name      string                  `gorm:"column:name;not null"`
	Type      enums.PaymentMethodType `gorm:"column:type;type:text;not null"`
	CreatedAt time.Time               `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time               `gorm:"column:updated_at;autoUpdateTime"`
}
