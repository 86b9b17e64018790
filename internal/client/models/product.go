// Package models defines client-side data models persisted in the local
// store and exchanged with the backend.
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a sellable item. A product created while offline carries a
// placeholder id ("temp-...") until the backend assigns the canonical one.
type Product struct {
	// ID is the canonical identity once assigned by the backend; before
	// reconciliation it may hold a locally generated placeholder.
	ID string `json:"id"`

	Name     string `json:"name"`
	Category string `json:"category,omitempty"`
	Barcode  string `json:"barcode,omitempty"`
	SKU      string `json:"sku,omitempty"`

	// SellingPrice is the standard unit price.
	SellingPrice decimal.Decimal `json:"sellingPrice"`

	// TrackStock enables quantity bookkeeping for this product.
	TrackStock bool `json:"trackStock"`

	// NeedsCustomPrice marks products whose price is entered by the
	// operator at sale time (weighted goods, services).
	NeedsCustomPrice bool `json:"needsCustomPrice"`

	Quantity int `json:"quantity"`

	// IsLocal is true while the record exists only locally and has no
	// confirmed backend counterpart.
	IsLocal bool `json:"isLocal,omitempty"`

	// Synced is true once the backend has accepted the current version.
	Synced bool `json:"synced,omitempty"`

	CreatedAt time.Time `json:"createdAt,omitempty"`
	UpdatedAt time.Time `json:"updatedAt,omitempty"`
}

func (p Product) EntityID() string { return p.ID }

func (p Product) WithEntityID(id string) Product {
	p.ID = id
	return p
}

func (p Product) WithSyncState(isLocal, synced bool) Product {
	p.IsLocal = isLocal
	p.Synced = synced
	return p
}
