package pendingops

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/avolkovs/tillpoint/internal/client/models"
)

// SQLiteRepository implements Repository over a *sql.DB. Ordering relies on
// created_at with the rowid as a tiebreaker, so operations enqueued within
// the same timestamp still replay in insertion order.
type SQLiteRepository struct {
	db *sql.DB
}

// createdAtLayout keeps the fractional seconds fixed-width so the text
// timestamps compare correctly under ORDER BY.
const createdAtLayout = "2006-01-02T15:04:05.000000000Z07:00"

func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Append adds op to the tail of the queue.
func (r *SQLiteRepository) Append(ctx context.Context, op models.PendingOperation) error {
	created := op.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	query := `INSERT INTO pending_operations (id, entity, entity_id, kind, payload, revision, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		op.ID, op.Entity, op.EntityID, string(op.Kind), string(op.Payload), op.Revision,
		created.UTC().Format(createdAtLayout))
	if err != nil {
		return fmt.Errorf("failed to enqueue operation: %w", err)
	}
	return nil
}

// ListAll returns the queue in creation order.
func (r *SQLiteRepository) ListAll(ctx context.Context) ([]models.PendingOperation, error) {
	query := `SELECT id, entity, entity_id, kind, payload, revision, created_at
		FROM pending_operations ORDER BY created_at, rowid`
	return r.list(ctx, query)
}

// ListByEntity returns the queue for one entity type, in creation order.
func (r *SQLiteRepository) ListByEntity(ctx context.Context, entity string) ([]models.PendingOperation, error) {
	query := `SELECT id, entity, entity_id, kind, payload, revision, created_at
		FROM pending_operations WHERE entity = ? ORDER BY created_at, rowid`
	return r.list(ctx, query, entity)
}

func (r *SQLiteRepository) list(ctx context.Context, query string, args ...any) ([]models.PendingOperation, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select pending operations: %w", err)
	}
	defer rows.Close()

	var result []models.PendingOperation
	for rows.Next() {
		var (
			op      models.PendingOperation
			kind    string
			payload sql.NullString
			created string
		)
		if err := rows.Scan(&op.ID, &op.Entity, &op.EntityID, &kind, &payload, &op.Revision, &created); err != nil {
			return nil, err
		}
		op.Kind = models.OperationKind(kind)
		if payload.Valid && payload.String != "" {
			op.Payload = []byte(payload.String)
		}
		if t, err := time.Parse(time.RFC3339Nano, created); err == nil {
			op.CreatedAt = t
		}
		result = append(result, op)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Remove deletes one operation. Missing ids are ignored.
func (r *SQLiteRepository) Remove(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM pending_operations WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to remove pending operation: %w", err)
	}
	return nil
}

// Count returns the queue length.
func (r *SQLiteRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM pending_operations`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count pending operations: %w", err)
	}
	return n, nil
}
