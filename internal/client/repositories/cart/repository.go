// Package cart persists the in-progress cart so an interrupted session
// survives a restart. The cart never leaves the terminal.
package cart

import (
	"context"

	"github.com/avolkovs/tillpoint/internal/client/models"
)

// Repository is the local-store surface for the cart.
type Repository interface {
	// List returns the cart lines in the order they were added.
	List(ctx context.Context) ([]models.CartItem, error)

	// Save replaces the stored cart with items.
	Save(ctx context.Context, items []models.CartItem) error

	Clear(ctx context.Context) error
}
