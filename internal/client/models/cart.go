package models

import "github.com/shopspring/decimal"

// CartItem is one line of the in-progress cart. The cart is local-first by
// design: it never exists on the backend and only materializes into a Sale
// at checkout.
type CartItem struct {
	// CartItemID is a synthetic id unique within the cart's lifetime.
	CartItemID string `json:"cartItemId"`

	ProductID string `json:"productId"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`

	// Price is the unit price: the product's standard price, or the
	// operator-entered one for custom lines.
	Price decimal.Decimal `json:"price"`

	// Custom marks an operator-priced line. Custom lines never merge and
	// contribute Price (not Price×Quantity) to the total.
	Custom bool `json:"custom"`
}

// LineTotal returns the amount this line contributes to the cart total.
func (i CartItem) LineTotal() decimal.Decimal {
	if i.Custom {
		return i.Price
	}
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
