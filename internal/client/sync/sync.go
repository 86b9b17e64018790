// Package sync implements the offline-first access policy shared by every
// synced entity: cached reads that fall back to the local store, optimistic
// local writes, and a pending-operation queue replayed when connectivity
// returns.
package sync

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/avolkovs/tillpoint/internal/client/models"
	"github.com/avolkovs/tillpoint/internal/common"
)

// Entity is the contract a record type must satisfy to be driven by a
// Policy. Methods use value receivers and return the modified copy.
type Entity[T any] interface {
	EntityID() string
	WithEntityID(id string) T
	WithSyncState(isLocal, synced bool) T
}

// LocalStore is the slice of a repository the policy needs. The concrete
// repositories satisfy it structurally.
type LocalStore[T any] interface {
	GetAll(ctx context.Context) ([]T, error)
	GetByID(ctx context.Context, id string) (T, error)
	ReplaceAll(ctx context.Context, recs []T) error
	Insert(ctx context.Context, rec T) error
	Update(ctx context.Context, id string, rec T) error
	DeleteByID(ctx context.Context, id string) error
	PurgeByID(ctx context.Context, id string) error
	ReplaceID(ctx context.Context, oldID, newID string) error
	MarkSynced(ctx context.Context, id string, synced bool) error
	Revision(ctx context.Context, id string) (int64, error)
}

// Remote is the backend endpoint set for one entity.
type Remote[T any] interface {
	List(ctx context.Context) ([]T, error)
	Create(ctx context.Context, rec T) (T, error)
	Update(ctx context.Context, id string, rec T) (T, error)
	Delete(ctx context.Context, id string) error
}

// Queue is the pending-operation outbox.
type Queue interface {
	Append(ctx context.Context, op models.PendingOperation) error
	ListByEntity(ctx context.Context, entity string) ([]models.PendingOperation, error)
	Remove(ctx context.Context, id string) error
}

// Online reports the connectivity monitor's last known state.
type Online interface {
	IsOnline() bool
}

// NewID produces a unique op or entity id.
type NewID func() string

// TempID returns a placeholder id for a record created while the backend
// is unreachable. The backend assigns the canonical id at replay.
func TempID() string {
	suffix, err := common.MakeRandHexString(4)
	if err != nil {
		// crypto/rand failing is not survivable in any useful way
		panic(fmt.Sprintf("rand: %v", err))
	}
	return fmt.Sprintf("temp-%d-%s", time.Now().UnixMilli(), suffix)
}

// IsTempID reports whether id is a locally assigned placeholder.
func IsTempID(id string) bool {
	return len(id) > 5 && id[:5] == "temp-"
}

func marshalPayload(rec any) (json.RawMessage, error) {
	b, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to encode payload: %v", common.ErrLocalStore, err)
	}
	return b, nil
}
