package sync

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/avolkovs/tillpoint/internal/client/models"
	"github.com/avolkovs/tillpoint/internal/common"
	"github.com/avolkovs/tillpoint/internal/logging"
	"github.com/google/uuid"
)

// Policy drives one entity type through the offline-first protocol:
// remote-first reads with a cache fallback, optimistic local writes with a
// pending-operation queue for the calls the backend never confirmed.
type Policy[T Entity[T]] struct {
	entity string
	local  LocalStore[T]
	remote Remote[T]
	queue  Queue
	online Online
	log    logging.Logger

	newOpID NewID
	tempID  NewID
	now     func() time.Time
}

// NewPolicy wires a policy for one entity. entity is the queue tag
// ("product", "sale", "staff").
func NewPolicy[T Entity[T]](entity string, local LocalStore[T], remote Remote[T], queue Queue, online Online, log logging.Logger) *Policy[T] {
	if log == nil {
		log = logging.Nop{}
	}
	return &Policy[T]{
		entity:  entity,
		local:   local,
		remote:  remote,
		queue:   queue,
		online:  online,
		log:     log.With("entity", entity),
		newOpID: uuid.NewString,
		tempID:  TempID,
		now:     time.Now,
	}
}

// Entity returns the queue tag this policy serves.
func (p *Policy[T]) Entity() string { return p.entity }

// FetchAll returns the entity list. Online it asks the backend and installs
// the response as the new cache; offline, or when the backend call fails
// for any reason, it serves the cache. A read fails only when there is
// nothing cached to serve.
func (p *Policy[T]) FetchAll(ctx context.Context) ([]T, error) {
	if p.online.IsOnline() {
		recs, err := p.remote.List(ctx)
		if err == nil {
			if err := p.local.ReplaceAll(ctx, recs); err != nil {
				p.log.Warn(ctx, "failed to refresh cache", "error", err)
			}
			return recs, nil
		}
		// any remote failure, including an explicit rejection, is
		// swallowed in favor of the cache; only an empty cache fails
		p.log.Debug(ctx, "remote list failed, serving cache", "error", err)
	}

	cached, err := p.local.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrLocalStore, err)
	}
	if len(cached) == 0 {
		return nil, common.ErrNoCachedData
	}
	return cached, nil
}

// Create commits rec locally first, then tries to confirm it with the
// backend. Unreachable backends queue the create for replay; only a local
// store failure or an explicit backend rejection surfaces to the caller.
// The returned record carries the canonical id when the backend confirmed,
// the placeholder otherwise.
func (p *Policy[T]) Create(ctx context.Context, rec T) (T, error) {
	var zero T

	tempID := p.tempID()
	local := rec.WithEntityID(tempID).WithSyncState(true, false)
	if err := p.local.Insert(ctx, local); err != nil {
		return zero, fmt.Errorf("%w: %v", common.ErrLocalStore, err)
	}

	if !p.online.IsOnline() {
		if err := p.enqueue(ctx, tempID, models.OpCreate, local); err != nil {
			return zero, err
		}
		return local, nil
	}

	confirmed, err := p.remote.Create(ctx, rec)
	if err != nil {
		if common.IsDeferrable(err) {
			p.log.Warn(ctx, "create not confirmed, queueing", "id", tempID, "error", err)
			if qErr := p.enqueue(ctx, tempID, models.OpCreate, local); qErr != nil {
				return zero, qErr
			}
			return local, nil
		}
		// rejected: keep the local row so nothing typed in is lost, but
		// surface the refusal and queue nothing
		return zero, err
	}

	canonical := confirmed.EntityID()
	if canonical != "" && canonical != tempID {
		if err := p.local.ReplaceID(ctx, tempID, canonical); err != nil {
			return zero, fmt.Errorf("%w: %v", common.ErrLocalStore, err)
		}
	} else {
		canonical = tempID
	}
	if err := p.local.MarkSynced(ctx, canonical, true); err != nil {
		return zero, fmt.Errorf("%w: %v", common.ErrLocalStore, err)
	}
	return confirmed.WithSyncState(false, true), nil
}

// Update commits the change locally first, then confirms it remotely with
// the same queue-on-unreachable split as Create.
func (p *Policy[T]) Update(ctx context.Context, id string, rec T) (T, error) {
	var zero T

	local := rec.WithEntityID(id).WithSyncState(IsTempID(id), false)
	if err := p.local.Update(ctx, id, local); err != nil {
		return zero, fmt.Errorf("%w: %v", common.ErrLocalStore, err)
	}

	if !p.online.IsOnline() || IsTempID(id) {
		// temp-id records have no remote counterpart yet; their queued
		// create carries the latest payload after a fresh enqueue
		if err := p.enqueue(ctx, id, models.OpUpdate, local); err != nil {
			return zero, err
		}
		return local, nil
	}

	confirmed, err := p.remote.Update(ctx, id, rec)
	if err != nil {
		if common.IsDeferrable(err) {
			p.log.Warn(ctx, "update not confirmed, queueing", "id", id, "error", err)
			if qErr := p.enqueue(ctx, id, models.OpUpdate, local); qErr != nil {
				return zero, qErr
			}
			return local, nil
		}
		return zero, err
	}

	if err := p.local.MarkSynced(ctx, id, true); err != nil {
		return zero, fmt.Errorf("%w: %v", common.ErrLocalStore, err)
	}
	return confirmed.WithSyncState(false, true), nil
}

// Delete soft-deletes locally first. A confirmed remote delete purges the
// row for good; an unreachable backend queues the delete.
func (p *Policy[T]) Delete(ctx context.Context, id string) error {
	if err := p.local.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("%w: %v", common.ErrLocalStore, err)
	}

	if !p.online.IsOnline() || IsTempID(id) {
		return p.enqueueDelete(ctx, id)
	}

	if err := p.remote.Delete(ctx, id); err != nil {
		if common.IsDeferrable(err) {
			p.log.Warn(ctx, "delete not confirmed, queueing", "id", id, "error", err)
			return p.enqueueDelete(ctx, id)
		}
		return err
	}

	if err := p.local.PurgeByID(ctx, id); err != nil {
		return fmt.Errorf("%w: %v", common.ErrLocalStore, err)
	}
	return nil
}

func (p *Policy[T]) enqueue(ctx context.Context, id string, kind models.OperationKind, rec T) error {
	payload, err := marshalPayload(rec)
	if err != nil {
		return err
	}
	rev, err := p.local.Revision(ctx, id)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrLocalStore, err)
	}
	op := models.PendingOperation{
		ID:        p.newOpID(),
		Entity:    p.entity,
		EntityID:  id,
		Kind:      kind,
		Payload:   payload,
		Revision:  rev,
		CreatedAt: p.now(),
	}
	if err := p.queue.Append(ctx, op); err != nil {
		return fmt.Errorf("%w: %v", common.ErrLocalStore, err)
	}
	p.log.Info(ctx, "queued pending operation", "kind", kind, "id", id, "op", op.ID)
	return nil
}

func (p *Policy[T]) enqueueDelete(ctx context.Context, id string) error {
	rev, err := p.local.Revision(ctx, id)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrLocalStore, err)
	}
	op := models.PendingOperation{
		ID:        p.newOpID(),
		Entity:    p.entity,
		EntityID:  id,
		Kind:      models.OpDelete,
		Revision:  rev,
		CreatedAt: p.now(),
	}
	if err := p.queue.Append(ctx, op); err != nil {
		return fmt.Errorf("%w: %v", common.ErrLocalStore, err)
	}
	p.log.Info(ctx, "queued pending operation", "kind", models.OpDelete, "id", id, "op", op.ID)
	return nil
}

// errStaleOp marks a queued payload whose record advanced after enqueue.
var errStaleOp = errors.New("stale pending operation")
