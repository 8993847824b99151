package checkout

import (
	"context"

	"github.com/google/uuid"

	"github.com/fahrurrzl/be-sayur-segar/pkg/config"
	pkgerrors "github.com/fahrurrzl/be-sayur-segar/pkg/errors"
)

// FeeCalculator prices shipping for one seller group. Implementations must
// return a non-negative fee.
type FeeCalculator interface {
	ShippingFee(ctx context.Context, sellerID uuid.UUID, address string) (int, error)
}

// FlatFeeCalculator charges the same configured fee for every seller group.
type FlatFeeCalculator struct {
	fee int
}

// NewFlatFeeCalculator builds the calculator from shipping configuration.
func NewFlatFeeCalculator(cfg config.ShippingConfig) (*FlatFeeCalculator, error) {
	if cfg.FlatFee < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "shipping flat fee must be non-negative")
	}
	return &FlatFeeCalculator{fee: cfg.FlatFee}, nil
}

// ShippingFee returns the flat per-seller fee regardless of destination.
func (c *FlatFeeCalculator) ShippingFee(ctx context.Context, sellerID uuid.UUID, address string) (int, error) {
	return c.fee, nil
}
