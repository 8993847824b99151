package models

import (
	"time"

	"github.com/google/uuid"
)

// Wallet holds one seller's payout balance in rupiah. Credited on settlement,
// debited on withdrawal.
type Wallet struct {
	ID           uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	SellerID     uuid.UUID           `gorm:"column:seller_id;type:uuid;not null;uniqueIndex"`
	Balance      int                 `gorm:"column:balance;not null;default:0"`
	Transactions []WalletTransaction `gorm:"foreignKey:WalletID;constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
