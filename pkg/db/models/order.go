package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/fahrurrzl/be-sayur-segar/pkg/enums"
)

// Order is the seller-scoped aggregate created from one seller's portion of a
// checkout. Every order has at least one item and
// TotalPrice = ShippingFee + sum(item.Price * item.Quantity).
type Order struct {
	ID          uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderCode   string            `gorm:"column:order_code;not null;uniqueIndex"`
	UserID      uuid.UUID         `gorm:"column:user_id;type:uuid;not null;index"`
	SellerID    uuid.UUID         `gorm:"column:seller_id;type:uuid;not null;index"`
	Address     string            `gorm:"column:address;not null"`
	ShippingFee int               `gorm:"column:shipping_fee;not null"`
	TotalPrice  int               `gorm:"column:total_price;not null"`
	Status      enums.OrderStatus `gorm:"column:status;type:text;not null;default:'PENDING'"`
	InvoiceID   *string           `gorm:"column:invoice_id;index"`
	PaymentURL  *string           `gorm:"column:payment_url"`
	Items       []OrderItem       `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
