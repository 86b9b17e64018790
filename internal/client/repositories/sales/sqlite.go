package sales

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/avolkovs/tillpoint/internal/client/models"
	"github.com/avolkovs/tillpoint/internal/common"
	"github.com/avolkovs/tillpoint/internal/dbx"
	"github.com/shopspring/decimal"
)

// SQLiteRepository implements Repository over a *sql.DB. Sale items are
// stored as a JSON column: the terminal never queries into individual lines,
// it only replays whole sales.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

const saleColumns = `id, items, total, payment_method, staff_id, is_local, synced, created_at`

func scanSale(row interface{ Scan(...any) error }) (models.Sale, error) {
	var (
		s       models.Sale
		items   string
		total   string
		isLocal int
		synced  int
		created sql.NullString
	)
	err := row.Scan(&s.ID, &items, &total, &s.PaymentMethod, &s.StaffID, &isLocal, &synced, &created)
	if err != nil {
		return models.Sale{}, err
	}
	if err := json.Unmarshal([]byte(items), &s.Items); err != nil {
		return models.Sale{}, fmt.Errorf("bad items payload: %w", err)
	}
	s.Total, err = decimal.NewFromString(total)
	if err != nil {
		return models.Sale{}, fmt.Errorf("bad total %q: %w", total, err)
	}
	s.IsLocal = isLocal == 1
	s.Synced = synced == 1
	if created.Valid && created.String != "" {
		if t, err := time.Parse(time.RFC3339Nano, created.String); err == nil {
			s.CreatedAt = t
		}
	}
	return s, nil
}

// GetAll lists all non-deleted sales, newest first.
func (r *SQLiteRepository) GetAll(ctx context.Context) ([]models.Sale, error) {
	query := `SELECT ` + saleColumns + ` FROM sales WHERE deleted = 0 ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select sales: %w", err)
	}
	defer rows.Close()

	var result []models.Sale
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// GetByID returns a single non-deleted sale.
func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (models.Sale, error) {
	query := `SELECT ` + saleColumns + ` FROM sales WHERE deleted = 0 AND id = ?`
	s, err := scanSale(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Sale{}, common.ErrNotFound
	}
	return s, err
}

// ReplaceAll wipes the table and installs recs as the new cache.
func (r *SQLiteRepository) ReplaceAll(ctx context.Context, recs []models.Sale) error {
	return dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM sales`); err != nil {
			return fmt.Errorf("failed to clear sales: %w", err)
		}
		for _, s := range recs {
			if err := insertSale(ctx, tx, s.WithSyncState(false, true)); err != nil {
				return err
			}
		}
		return nil
	})
}

func insertSale(ctx context.Context, db dbx.DBTX, s models.Sale) error {
	items, err := json.Marshal(s.Items)
	if err != nil {
		return fmt.Errorf("failed to encode sale items: %w", err)
	}
	var created any
	if !s.CreatedAt.IsZero() {
		created = s.CreatedAt.UTC().Format(time.RFC3339Nano)
	}
	query := `INSERT INTO sales (` + saleColumns + `, deleted, revision)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, 0, 1)`
	_, err = db.ExecContext(ctx, query,
		s.ID, string(items), s.Total.String(), s.PaymentMethod, s.StaffID,
		bi(s.IsLocal), bi(s.Synced), created)
	if err != nil {
		return fmt.Errorf("failed to insert sale: %w", err)
	}
	return nil
}

func bi(b bool) int {
	if b {
		return 1
	}
	return 0
}

// Insert adds a single sale row.
func (r *SQLiteRepository) Insert(ctx context.Context, s models.Sale) error {
	return insertSale(ctx, r.db, s)
}

// Update rewrites the sale and bumps the revision counter.
func (r *SQLiteRepository) Update(ctx context.Context, id string, s models.Sale) error {
	items, err := json.Marshal(s.Items)
	if err != nil {
		return fmt.Errorf("failed to encode sale items: %w", err)
	}
	query := `UPDATE sales SET items = ?, total = ?, payment_method = ?, staff_id = ?,
		synced = ?, revision = revision + 1
		WHERE id = ? AND deleted = 0`
	res, err := r.db.ExecContext(ctx, query,
		string(items), s.Total.String(), s.PaymentMethod, s.StaffID, bi(s.Synced), id)
	if err != nil {
		return fmt.Errorf("failed to update sale: %w", err)
	}
	return oneRow(res)
}

// DeleteByID soft-deletes (voids) the row.
func (r *SQLiteRepository) DeleteByID(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE sales SET deleted = 1, synced = 0, revision = revision + 1 WHERE id = ? AND deleted = 0`, id)
	if err != nil {
		return fmt.Errorf("failed to delete sale: %w", err)
	}
	return oneRow(res)
}

// PurgeByID removes the row permanently.
func (r *SQLiteRepository) PurgeByID(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM sales WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to purge sale: %w", err)
	}
	return nil
}

// ReplaceID swaps a placeholder id for the canonical one.
func (r *SQLiteRepository) ReplaceID(ctx context.Context, oldID, newID string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE sales SET id = ?, is_local = 0 WHERE id = ?`, newID, oldID)
	if err != nil {
		return fmt.Errorf("failed to replace sale id: %w", err)
	}
	return oneRow(res)
}

// MarkSynced records backend confirmation.
func (r *SQLiteRepository) MarkSynced(ctx context.Context, id string, synced bool) error {
	var res sql.Result
	var err error
	if synced {
		res, err = r.db.ExecContext(ctx, `UPDATE sales SET synced = 1, is_local = 0 WHERE id = ?`, id)
	} else {
		res, err = r.db.ExecContext(ctx, `UPDATE sales SET synced = 0 WHERE id = ?`, id)
	}
	if err != nil {
		return fmt.Errorf("failed to mark sale synced: %w", err)
	}
	return oneRow(res)
}

// Revision returns the row's local revision counter.
func (r *SQLiteRepository) Revision(ctx context.Context, id string) (int64, error) {
	var rev int64
	err := r.db.QueryRowContext(ctx, `SELECT revision FROM sales WHERE id = ?`, id).Scan(&rev)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, common.ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read sale revision: %w", err)
	}
	return rev, nil
}

func oneRow(res sql.Result) error {
	ra, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if ra == 0 {
		return common.ErrNotFound
	}
	return nil
}
