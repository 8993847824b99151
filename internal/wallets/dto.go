package wallets

import (
	"time"

	"github.com/google/uuid"

	"github.com/fahrurrzl/be-sayur-segar/pkg/db/models"
	"github.com/fahrurrzl/be-sayur-segar/pkg/enums"
)

// WithdrawRequest captures the payload for debiting a wallet.
type WithdrawRequest struct {
	Amount int `json:"amount" validate:"required,gt=0"`
}

// WalletResponse is the public projection of a seller wallet.
type WalletResponse struct {
	ID        uuid.UUID `json:"id"`
	SellerID  uuid.UUID `json:"seller_id"`
	Balance   int       `json:"balance"`
	CreatedAt time.Time `json:"created_at"`
}

// TransactionResponse is the public projection of a ledger entry.
type TransactionResponse struct {
	ID        uuid.UUID                     `json:"id"`
	Amount    int                           `json:"amount"`
	Type      enums.WalletTransactionType   `json:"type"`
	Status    enums.WalletTransactionStatus `json:"status"`
	Note      *string                       `json:"note,omitempty"`
	CreatedAt time.Time                     `json:"created_at"`
}

// FromModel converts a persisted wallet into its public projection.
func FromModel(wallet *models.Wallet) WalletResponse {
	if wallet == nil {
		return WalletResponse{}
	}
	return WalletResponse{
		ID:        wallet.ID,
		SellerID:  wallet.SellerID,
		Balance:   wallet.Balance,
		CreatedAt: wallet.CreatedAt,
	}
}

// TransactionsFromModels maps ledger entries into public projections.
func TransactionsFromModels(txns []models.WalletTransaction) []TransactionResponse {
	out := make([]TransactionResponse, 0, len(txns))
	for i := range txns {
		t := &txns[i]
		out = append(out, TransactionResponse{
			ID:        t.ID,
			Amount:    t.Amount,
			Type:      t.Type,
			Status:    t.Status,
			Note:      t.Note,
			CreatedAt: t.CreatedAt,
		})
	}
	return out
}
