package products

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/avolkovs/tillpoint/internal/client/models"
	"github.com/avolkovs/tillpoint/internal/common"
	"github.com/avolkovs/tillpoint/internal/dbx"
	"github.com/shopspring/decimal"
)

// SQLiteRepository implements Repository over a *sql.DB.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository returns a repository bound to the given database.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

const productColumns = `id, name, category, barcode, sku, selling_price,
	track_stock, needs_custom_price, quantity, is_local, synced,
	created_at, updated_at`

func scanProduct(row interface{ Scan(...any) error }) (models.Product, error) {
	var (
		p          models.Product
		price      string
		created    sql.NullString
		updated    sql.NullString
		trackStock int
		custom     int
		isLocal    int
		synced     int
	)
	err := row.Scan(&p.ID, &p.Name, &p.Category, &p.Barcode, &p.SKU, &price,
		&trackStock, &custom, &p.Quantity, &isLocal, &synced, &created, &updated)
	if err != nil {
		return models.Product{}, err
	}
	p.SellingPrice, err = decimal.NewFromString(price)
	if err != nil {
		return models.Product{}, fmt.Errorf("bad selling_price %q: %w", price, err)
	}
	p.TrackStock = trackStock == 1
	p.NeedsCustomPrice = custom == 1
	p.IsLocal = isLocal == 1
	p.Synced = synced == 1
	p.CreatedAt = parseTime(created)
	p.UpdatedAt = parseTime(updated)
	return p, nil
}

func parseTime(s sql.NullString) time.Time {
	if !s.Valid || s.String == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, s.String)
	if err != nil {
		return time.Time{}
	}
	return t
}

func formatTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// GetAll lists all non-deleted products.
func (r *SQLiteRepository) GetAll(ctx context.Context) ([]models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE deleted = 0 ORDER BY name`
	return r.queryProducts(ctx, query)
}

// Search matches the query as a substring of name, barcode or SKU.
func (r *SQLiteRepository) Search(ctx context.Context, q string) ([]models.Product, error) {
	pattern := "%" + q + "%"
	query := `SELECT ` + productColumns + ` FROM products
		WHERE deleted = 0 AND (name LIKE ? OR barcode LIKE ? OR sku LIKE ?)
		ORDER BY name`
	return r.queryProducts(ctx, query, pattern, pattern, pattern)
}

func (r *SQLiteRepository) queryProducts(ctx context.Context, query string, args ...any) ([]models.Product, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select products: %w", err)
	}
	defer rows.Close()

	var result []models.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// GetByID returns a single non-deleted product.
func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE deleted = 0 AND id = ?`
	p, err := scanProduct(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Product{}, common.ErrNotFound
	}
	return p, err
}

// ReplaceAll wipes the table and installs recs as the new cache. Records
// arriving here come from a successful remote list, so they are stored as
// synced and not local.
func (r *SQLiteRepository) ReplaceAll(ctx context.Context, recs []models.Product) error {
	return dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM products`); err != nil {
			return fmt.Errorf("failed to clear products: %w", err)
		}
		for _, p := range recs {
			if err := insertProduct(ctx, tx, p.WithSyncState(false, true)); err != nil {
				return err
			}
		}
		return nil
	})
}

func insertProduct(ctx context.Context, db dbx.DBTX, p models.Product) error {
	query := `INSERT INTO products (` + productColumns + `, deleted, revision)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 0, 1)`
	_, err := db.ExecContext(ctx, query,
		p.ID, p.Name, p.Category, p.Barcode, p.SKU, p.SellingPrice.String(),
		boolInt(p.TrackStock), boolInt(p.NeedsCustomPrice), p.Quantity,
		boolInt(p.IsLocal), boolInt(p.Synced),
		formatTime(p.CreatedAt), formatTime(p.UpdatedAt))
	if err != nil {
		return fmt.Errorf("failed to insert product: %w", err)
	}
	return nil
}

// Insert adds a single product row.
func (r *SQLiteRepository) Insert(ctx context.Context, p models.Product) error {
	return insertProduct(ctx, r.db, p)
}

// Update rewrites the mutable fields and bumps the revision counter.
func (r *SQLiteRepository) Update(ctx context.Context, id string, p models.Product) error {
	query := `UPDATE products SET name = ?, category = ?, barcode = ?, sku = ?,
		selling_price = ?, track_stock = ?, needs_custom_price = ?, quantity = ?,
		synced = ?, updated_at = ?, revision = revision + 1
		WHERE id = ? AND deleted = 0`
	res, err := r.db.ExecContext(ctx, query,
		p.Name, p.Category, p.Barcode, p.SKU, p.SellingPrice.String(),
		boolInt(p.TrackStock), boolInt(p.NeedsCustomPrice), p.Quantity,
		boolInt(p.Synced), formatTime(time.Now()), id)
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}
	return requireOneRow(res)
}

// DeleteByID soft-deletes the row, keeping it for the pending delete replay.
func (r *SQLiteRepository) DeleteByID(ctx context.Context, id string) error {
	query := `UPDATE products SET deleted = 1, synced = 0, revision = revision + 1
		WHERE id = ? AND deleted = 0`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	return requireOneRow(res)
}

// PurgeByID removes the row permanently.
func (r *SQLiteRepository) PurgeByID(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to purge product: %w", err)
	}
	return nil
}

// ReplaceID swaps a placeholder id for the canonical one. Valid only while
// the record is local-only; applied as a single statement so every local
// reference moves at once.
func (r *SQLiteRepository) ReplaceID(ctx context.Context, oldID, newID string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE products SET id = ?, is_local = 0 WHERE id = ?`, newID, oldID)
	if err != nil {
		return fmt.Errorf("failed to replace product id: %w", err)
	}
	return requireOneRow(res)
}

// MarkSynced records backend confirmation; a synced record is no longer
// local-only.
func (r *SQLiteRepository) MarkSynced(ctx context.Context, id string, synced bool) error {
	var res sql.Result
	var err error
	if synced {
		res, err = r.db.ExecContext(ctx,
			`UPDATE products SET synced = 1, is_local = 0 WHERE id = ?`, id)
	} else {
		res, err = r.db.ExecContext(ctx,
			`UPDATE products SET synced = 0 WHERE id = ?`, id)
	}
	if err != nil {
		return fmt.Errorf("failed to mark product synced: %w", err)
	}
	return requireOneRow(res)
}

// Revision returns the row's local revision counter.
func (r *SQLiteRepository) Revision(ctx context.Context, id string) (int64, error) {
	var rev int64
	err := r.db.QueryRowContext(ctx,
		`SELECT revision FROM products WHERE id = ?`, id).Scan(&rev)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, common.ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read product revision: %w", err)
	}
	return rev, nil
}

func requireOneRow(res sql.Result) error {
	ra, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if ra == 0 {
		return common.ErrNotFound
	}
	return nil
}
