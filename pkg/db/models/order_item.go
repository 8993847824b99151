package models

import (
	"time"

	"github.com/google/uuid"
)

// OrderItem is an immutable snapshot of a product, quantity and unit price at
// order-creation time. It never tracks the live product price.
type OrderItem struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID     uuid.UUID `gorm:"column:order_id;type:uuid;not null;index"`
	ProductID   uuid.UUID `gorm:"column:product_id;type:uuid;not null"`
	ProductName string    `gorm:"column:product_name;not null"`
	Quantity    int       `gorm:"column:quantity;not null"`
	Price       int       `gorm:"column:price;not null"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
}
