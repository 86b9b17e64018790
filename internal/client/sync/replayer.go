package sync

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/avolkovs/tillpoint/internal/client/models"
	"github.com/avolkovs/tillpoint/internal/common"
	"github.com/avolkovs/tillpoint/internal/logging"
	"github.com/sethvargo/go-retry"
)

// entityReplayer is the per-entity half of the drain. Each Policy[T]
// implements it for its own record type.
type entityReplayer interface {
	Entity() string
	replayOp(ctx context.Context, op models.PendingOperation, ids map[string]string) error
}

// DrainQueue is the outbox surface the replayer consumes.
type DrainQueue interface {
	ListAll(ctx context.Context) ([]models.PendingOperation, error)
	Remove(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
}

// Replayer drains the pending-operation queue in creation order once
// connectivity returns. An operation leaves the queue only after the
// backend confirmed it (or it was found stale or rejected), so a drain
// interrupted mid-way resumes where it stopped.
type Replayer struct {
	queue    DrainQueue
	log      logging.Logger
	policies map[string]entityReplayer

	draining atomic.Bool

	maxRetries   uint64
	retryBase    time.Duration
	retryMaxWait time.Duration
}

func NewReplayer(queue DrainQueue, log logging.Logger) *Replayer {
	if log == nil {
		log = logging.Nop{}
	}
	return &Replayer{
		queue:        queue,
		log:          log,
		policies:     make(map[string]entityReplayer),
		maxRetries:   3,
		retryBase:    500 * time.Millisecond,
		retryMaxWait: 5 * time.Second,
	}
}

// Register adds a policy to the drain. Must be called before Drain.
func (r *Replayer) Register(p entityReplayer) {
	r.policies[p.Entity()] = p
}

// Pending returns the current queue length.
func (r *Replayer) Pending(ctx context.Context) (int, error) {
	return r.queue.Count(ctx)
}

// Drain replays every queued operation in creation order. It returns the
// number of operations confirmed and dropped. When the backend turns
// unreachable mid-drain the remaining operations stay queued and the drain
// stops without error; the next connectivity transition picks them up.
// Concurrent drains are collapsed into one.
func (r *Replayer) Drain(ctx context.Context) (replayed, dropped int, err error) {
	if !r.draining.CompareAndSwap(false, true) {
		return 0, 0, nil
	}
	defer r.draining.Store(false)

	ops, err := r.queue.ListAll(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %v", common.ErrLocalStore, err)
	}
	if len(ops) == 0 {
		return 0, 0, nil
	}
	r.log.Info(ctx, "replaying pending operations", "count", len(ops))

	// ids maps placeholder ids to the canonical ones assigned during this
	// drain, so updates and deletes queued behind a create follow it to
	// the record's real identity.
	ids := make(map[string]string)

	for _, op := range ops {
		policy, ok := r.policies[op.Entity]
		if !ok {
			r.log.Error(ctx, "no policy registered for queued entity, dropping", "entity", op.Entity, "op", op.ID)
			if err := r.queue.Remove(ctx, op.ID); err != nil {
				return replayed, dropped, fmt.Errorf("%w: %v", common.ErrLocalStore, err)
			}
			dropped++
			continue
		}

		err := r.replayWithRetry(ctx, policy, op, ids)
		switch {
		case err == nil:
			if err := r.queue.Remove(ctx, op.ID); err != nil {
				return replayed, dropped, fmt.Errorf("%w: %v", common.ErrLocalStore, err)
			}
			replayed++

		case errors.Is(err, errStaleOp):
			r.log.Warn(ctx, "dropping stale operation, record changed after enqueue",
				"entity", op.Entity, "id", op.EntityID, "op", op.ID)
			if err := r.queue.Remove(ctx, op.ID); err != nil {
				return replayed, dropped, fmt.Errorf("%w: %v", common.ErrLocalStore, err)
			}
			dropped++

		case common.IsDeferrable(err):
			// backend gone again: leave this op and everything behind it
			// for the next sweep
			r.log.Warn(ctx, "backend unreachable mid-drain, stopping", "op", op.ID, "error", err)
			return replayed, dropped, nil

		default:
			r.log.Error(ctx, "replay rejected, dropping operation",
				"entity", op.Entity, "id", op.EntityID, "op", op.ID, "error", err)
			if err := r.queue.Remove(ctx, op.ID); err != nil {
				return replayed, dropped, fmt.Errorf("%w: %v", common.ErrLocalStore, err)
			}
			dropped++
		}
	}

	r.log.Info(ctx, "drain finished", "replayed", replayed, "dropped", dropped)
	return replayed, dropped, nil
}

func (r *Replayer) replayWithRetry(ctx context.Context, policy entityReplayer, op models.PendingOperation, ids map[string]string) error {
	backoff := retry.WithMaxRetries(r.maxRetries,
		retry.WithCappedDuration(r.retryMaxWait, retry.NewExponential(r.retryBase)))

	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		err := policy.replayOp(ctx, op, ids)
		if common.IsDeferrable(err) {
			return retry.RetryableError(err)
		}
		return err
	})
}

// replayOp applies one queued operation against the backend and reconciles
// the local row. ids carries the temp-to-canonical id mapping for this
// drain.
func (p *Policy[T]) replayOp(ctx context.Context, op models.PendingOperation, ids map[string]string) error {
	id := op.EntityID
	if canonical, ok := ids[id]; ok {
		id = canonical
	}

	switch op.Kind {
	case models.OpCreate:
		// replay the row as it stands now, not the enqueue-time snapshot:
		// updates made offline after the create are folded in, and a row
		// deleted offline drops its create outright
		rec, err := p.local.GetByID(ctx, id)
		if errors.Is(err, common.ErrNotFound) {
			return errStaleOp
		}
		if err != nil {
			return fmt.Errorf("%w: %v", common.ErrLocalStore, err)
		}
		confirmed, err := p.remote.Create(ctx, rec.WithSyncState(false, false))
		if err != nil {
			return err
		}
		canonical := confirmed.EntityID()
		if canonical != "" && canonical != id {
			if err := p.local.ReplaceID(ctx, id, canonical); err != nil {
				return fmt.Errorf("%w: %v", common.ErrLocalStore, err)
			}
			ids[op.EntityID] = canonical
			id = canonical
		}
		if err := p.local.MarkSynced(ctx, id, true); err != nil {
			return fmt.Errorf("%w: %v", common.ErrLocalStore, err)
		}
		return nil

	case models.OpUpdate:
		if IsTempID(id) {
			// the record never reached the backend and its create is no
			// longer queued; nothing to update remotely
			return errStaleOp
		}
		// revision guard: the payload was captured at enqueue time and is
		// stale if the record was written again since
		rev, err := p.local.Revision(ctx, id)
		if errors.Is(err, common.ErrNotFound) {
			return errStaleOp
		}
		if err != nil {
			return fmt.Errorf("%w: %v", common.ErrLocalStore, err)
		}
		if rev != op.Revision {
			return errStaleOp
		}
		rec, err := p.decodePayload(op.Payload)
		if err != nil {
			return err
		}
		if _, err := p.remote.Update(ctx, id, rec.WithEntityID(id)); err != nil {
			return err
		}
		if err := p.local.MarkSynced(ctx, id, true); err != nil {
			return fmt.Errorf("%w: %v", common.ErrLocalStore, err)
		}
		return nil

	case models.OpDelete:
		if !IsTempID(id) {
			if err := p.remote.Delete(ctx, id); err != nil {
				return err
			}
		}
		if err := p.local.PurgeByID(ctx, id); err != nil && !errors.Is(err, common.ErrNotFound) {
			return fmt.Errorf("%w: %v", common.ErrLocalStore, err)
		}
		return nil

	default:
		return fmt.Errorf("unknown operation kind %q", op.Kind)
	}
}

func (p *Policy[T]) decodePayload(payload json.RawMessage) (T, error) {
	var rec T
	if err := json.Unmarshal(payload, &rec); err != nil {
		return rec, fmt.Errorf("%w: bad queued payload: %v", common.ErrLocalStore, err)
	}
	return rec, nil
}
