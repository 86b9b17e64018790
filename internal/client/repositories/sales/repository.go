// Package sales persists the sale history in the local SQLite store.
package sales

import (
	"context"

	"github.com/avolkovs/tillpoint/internal/client/models"
)

// Repository is the local-store surface for sales. The method set mirrors
// the products repository so sales ride the same sync policy.
type Repository interface {
	GetAll(ctx context.Context) ([]models.Sale, error)
	GetByID(ctx context.Context, id string) (models.Sale, error)
	ReplaceAll(ctx context.Context, recs []models.Sale) error
	Insert(ctx context.Context, rec models.Sale) error
	Update(ctx context.Context, id string, rec models.Sale) error
	DeleteByID(ctx context.Context, id string) error
	PurgeByID(ctx context.Context, id string) error
	ReplaceID(ctx context.Context, oldID, newID string) error
	MarkSynced(ctx context.Context, id string, synced bool) error
	Revision(ctx context.Context, id string) (int64, error)
}
