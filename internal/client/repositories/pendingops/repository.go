// Package pendingops persists the outbox of writes awaiting backend
// confirmation.
package pendingops

import (
	"context"

	"github.com/avolkovs/tillpoint/internal/client/models"
)

// Repository is the local-store surface for the pending-operation queue.
type Repository interface {
	// Append adds op to the tail of the queue.
	Append(ctx context.Context, op models.PendingOperation) error

	// ListAll returns every queued operation in creation order.
	ListAll(ctx context.Context) ([]models.PendingOperation, error)

	// ListByEntity returns queued operations for one entity type, in
	// creation order.
	ListByEntity(ctx context.Context, entity string) ([]models.PendingOperation, error)

	// Remove deletes one operation by id. Removing an id that is no
	// longer queued is not an error; that is what makes replay
	// idempotent.
	Remove(ctx context.Context, id string) error

	Count(ctx context.Context) (int, error)
}
