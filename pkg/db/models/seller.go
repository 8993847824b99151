package models

import (
	"time"

	"github.com/google/uuid"
)

// Seller is the storefront entity owned by exactly one user.
type Seller struct {
	ID            uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID        uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex"`
	StoreName     string    `gorm:"column:store_name;not null"`
	StoreLocation string    `gorm:"column:store_location;not null"`
	BankName      string    `gorm:"column:bank_name;not null"`
	BankAccount   string    `gorm:"column:bank_account;not null"`
	Products      []Product `gorm:"foreignKey:SellerID;constraint:OnDelete:CASCADE"`
	Wallet        *Wallet   `gorm:"foreignKey:SellerID;constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
