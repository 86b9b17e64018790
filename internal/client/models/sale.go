package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleItem is one line of a completed sale.
type SaleItem struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`

	// Custom marks a line whose price was entered by the operator. Custom
	// lines contribute their price as-is to the sale total, without
	// multiplying by quantity.
	Custom bool `json:"custom,omitempty"`
}

// LineTotal returns the amount this line contributes to the sale total.
func (i SaleItem) LineTotal() decimal.Decimal {
	if i.Custom {
		return i.UnitPrice
	}
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Sale is a completed checkout, committed locally first and synced to the
// backend when possible.
type Sale struct {
	ID            string          `json:"id"`
	Items         []SaleItem      `json:"items"`
	Total         decimal.Decimal `json:"total"`
	PaymentMethod string          `json:"paymentMethod"`
	StaffID       string          `json:"staffId,omitempty"`

	IsLocal bool `json:"isLocal,omitempty"`
	Synced  bool `json:"synced,omitempty"`

	CreatedAt time.Time `json:"createdAt,omitempty"`
}

func (s Sale) EntityID() string { return s.ID }

func (s Sale) WithEntityID(id string) Sale {
	s.ID = id
	return s
}

func (s Sale) WithSyncState(isLocal, synced bool) Sale {
	s.IsLocal = isLocal
	s.Synced = synced
	return s
}
