package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/fahrurrzl/be-sayur-segar/pkg/enums"
)

// WalletTransaction is an append-only ledger entry recording a balance change.
type WalletTransaction struct {
	ID        uuid.UUID                     `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	WalletID  uuid.UUID                     `gorm:"column:wallet_id;type:uuid;not null;index"`
	Amount    int                           `gorm:"column:amount;not null"`
	Type      enums.WalletTransactionType   `gorm:"column:type;type:text;not null"`
	Status    enums.WalletTransactionStatus `gorm:"column:status;type:text;not null"`
	Note      *string                       `gorm:"column:note"`
	CreatedAt time.Time                     `gorm:"column:created_at;autoCreateTime"`
}
