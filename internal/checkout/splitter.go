package checkout

import (
	"github.com/google/uuid"

	"github.com/fahrurrzl/be-sayur-segar/pkg/db/models"
	pkgerrors "github.com/fahrurrzl/be-sayur-segar/pkg/errors"
)

// ErrEmptyCart is returned before any write when the cart has no items.
var ErrEmptyCart = pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")

// sellerGroup keeps one seller's slice of the cart in insertion order.
type sellerGroup struct {
	SellerID uuid.UUID
	Items    []models.CartItem
}

// groupBySeller partitions cart items by the owning seller of each item's
// product. Group order follows first appearance in the cart, item order within
// a group is preserved.
func groupBySeller(items []models.CartItem) ([]sellerGroup, error) {
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	index := make(map[uuid.UUID]int, len(items))
	groups := make([]sellerGroup, 0, len(items))
	for _, item := range items {
		if item.Product == nil {
			return nil, pkgerrors.New(pkgerrors.CodeInternal, "cart item missing product")
		}
		sellerID := item.Product.SellerID
		pos, ok := index[sellerID]
		if !ok {
			pos = len(groups)
			index[sellerID] = pos
			groups = append(groups, sellerGroup{SellerID: sellerID})
		}
		groups[pos].Items = append(groups[pos].Items, item)
	}
	return groups, nil
}

// subtotal prices a seller group using the live product price at read time.
func subtotal(items []models.CartItem) int {
	total := 0
	for _, item := range items {
		total += item.Product.Price * item.Quantity
	}
	return total
}
