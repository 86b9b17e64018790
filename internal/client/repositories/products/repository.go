// Package products persists the product catalogue in the local SQLite
// store. Rows carry the sync bookkeeping columns (is_local, synced,
// revision) the entity sync policy relies on.
package products

import (
	"context"

	"github.com/avolkovs/tillpoint/internal/client/models"
)

// Repository is the local-store surface for products.
type Repository interface {
	GetAll(ctx context.Context) ([]models.Product, error)
	GetByID(ctx context.Context, id string) (models.Product, error)
	Search(ctx context.Context, query string) ([]models.Product, error)

	// ReplaceAll discards every cached row and installs recs as the new
	// cache (replace-all read path, no merge).
	ReplaceAll(ctx context.Context, recs []models.Product) error

	Insert(ctx context.Context, rec models.Product) error
	Update(ctx context.Context, id string, rec models.Product) error

	// DeleteByID soft-deletes the row; PurgeByID removes it for good after
	// the backend confirmed the delete.
	DeleteByID(ctx context.Context, id string) error
	PurgeByID(ctx context.Context, id string) error

	// ReplaceID swaps a placeholder id for the canonical one assigned by
	// the backend.
	ReplaceID(ctx context.Context, oldID, newID string) error

	MarkSynced(ctx context.Context, id string, synced bool) error

	// Revision returns the row's local revision counter. Every local write
	// bumps it; the replay drain uses it to detect stale queued payloads.
	Revision(ctx context.Context, id string) (int64, error)
}
