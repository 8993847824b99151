package models

import (
	"time"

	"github.com/google/uuid"
)

// Product represents a seller listing. Price and stock are live values; order
// items snapshot them at checkout time. Stock is decremented only at payment
// settlement, never at order creation.
type Product struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	SellerID    uuid.UUID `gorm:"column:seller_id;type:uuid;not null;index"`
	CategoryID  uuid.UUID `gorm:"column:category_id;type:uuid;not null;index"`
	Name        string    `gorm:"column:name;not null"`
	Description string    `gorm:"column:description;not null"`
	Price       int       `gorm:"column:price;not null"`
	Stock       int       `gorm:"column:stock;not null;default:0"`
	ImageURL    string    `gorm:"column:image_url;not null"`
	Seller      *Seller   `gorm:"foreignKey:SellerID"`
	Category    *Category `gorm:"foreignKey:CategoryID"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
