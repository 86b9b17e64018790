// Package staff persists operator accounts in the local SQLite store.
package staff

import (
	"context"

	"github.com/avolkovs/tillpoint/internal/client/models"
)

// Repository is the local-store surface for staff members.
type Repository interface {
	GetAll(ctx context.Context) ([]models.StaffMember, error)
	GetByID(ctx context.Context, id string) (models.StaffMember, error)

	ReplaceAll(ctx context.Context, recs []models.StaffMember) error

	Insert(ctx context.Context, rec models.StaffMember) error
	Update(ctx context.Context, id string, rec models.StaffMember) error

	DeleteByID(ctx context.Context, id string) error
	PurgeByID(ctx context.Context, id string) error

	ReplaceID(ctx context.Context, oldID, newID string) error
	MarkSynced(ctx context.Context, id string, synced bool) error
	Revision(ctx context.Context, id string) (int64, error)
}
