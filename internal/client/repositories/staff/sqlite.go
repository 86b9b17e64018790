package staff

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/avolkovs/tillpoint/internal/client/models"
	"github.com/avolkovs/tillpoint/internal/common"
	"github.com/avolkovs/tillpoint/internal/dbx"
)

// SQLiteRepository implements Repository over a *sql.DB.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

const staffColumns = `id, name, role, active, is_local, synced, created_at`

func scanStaff(row interface{ Scan(...any) error }) (models.StaffMember, error) {
	var (
		m       models.StaffMember
		active  int
		isLocal int
		synced  int
		created sql.NullString
	)
	err := row.Scan(&m.ID, &m.Name, &m.Role, &active, &isLocal, &synced, &created)
	if err != nil {
		return models.StaffMember{}, err
	}
	m.Active = active == 1
	m.IsLocal = isLocal == 1
	m.Synced = synced == 1
	if created.Valid && created.String != "" {
		if t, err := time.Parse(time.RFC3339Nano, created.String); err == nil {
			m.CreatedAt = t
		}
	}
	return m, nil
}

// GetAll lists all non-deleted staff members, by name.
func (r *SQLiteRepository) GetAll(ctx context.Context) ([]models.StaffMember, error) {
	query := `SELECT ` + staffColumns + ` FROM staff WHERE deleted = 0 ORDER BY name`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select staff: %w", err)
	}
	defer rows.Close()

	var result []models.StaffMember
	for rows.Next() {
		m, err := scanStaff(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (models.StaffMember, error) {
	query := `SELECT ` + staffColumns + ` FROM staff WHERE deleted = 0 AND id = ?`
	m, err := scanStaff(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.StaffMember{}, common.ErrNotFound
	}
	return m, err
}

// ReplaceAll wipes the table and installs recs as the new cache.
func (r *SQLiteRepository) ReplaceAll(ctx context.Context, recs []models.StaffMember) error {
	return dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM staff`); err != nil {
			return fmt.Errorf("failed to clear staff: %w", err)
		}
		for _, m := range recs {
			if err := insertStaff(ctx, tx, m.WithSyncState(false, true)); err != nil {
				return err
			}
		}
		return nil
	})
}

func insertStaff(ctx context.Context, db dbx.DBTX, m models.StaffMember) error {
	var created any
	if !m.CreatedAt.IsZero() {
		created = m.CreatedAt.UTC().Format(time.RFC3339Nano)
	}
	query := `INSERT INTO staff (` + staffColumns + `, deleted, revision)
		VALUES (?, ?, ?, ?, ?, ?, ?, 0, 1)`
	_, err := db.ExecContext(ctx, query,
		m.ID, m.Name, m.Role, bi(m.Active), bi(m.IsLocal), bi(m.Synced), created)
	if err != nil {
		return fmt.Errorf("failed to insert staff member: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) Insert(ctx context.Context, m models.StaffMember) error {
	return insertStaff(ctx, r.db, m)
}

// Update rewrites the member and bumps the revision counter.
func (r *SQLiteRepository) Update(ctx context.Context, id string, m models.StaffMember) error {
	query := `UPDATE staff SET name = ?, role = ?, active = ?, synced = ?,
		revision = revision + 1
		WHERE id = ? AND deleted = 0`
	res, err := r.db.ExecContext(ctx, query, m.Name, m.Role, bi(m.Active), bi(m.Synced), id)
	if err != nil {
		return fmt.Errorf("failed to update staff member: %w", err)
	}
	return oneRow(res)
}

// DeleteByID soft-deletes the row.
func (r *SQLiteRepository) DeleteByID(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE staff SET deleted = 1, synced = 0, revision = revision + 1 WHERE id = ? AND deleted = 0`, id)
	if err != nil {
		return fmt.Errorf("failed to delete staff member: %w", err)
	}
	return oneRow(res)
}

// PurgeByID removes the row permanently.
func (r *SQLiteRepository) PurgeByID(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM staff WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to purge staff member: %w", err)
	}
	return nil
}

// ReplaceID swaps a placeholder id for the canonical one.
func (r *SQLiteRepository) ReplaceID(ctx context.Context, oldID, newID string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE staff SET id = ?, is_local = 0 WHERE id = ?`, newID, oldID)
	if err != nil {
		return fmt.Errorf("failed to replace staff id: %w", err)
	}
	return oneRow(res)
}

// MarkSynced records backend confirmation.
func (r *SQLiteRepository) MarkSynced(ctx context.Context, id string, synced bool) error {
	var res sql.Result
	var err error
	if synced {
		res, err = r.db.ExecContext(ctx, `UPDATE staff SET synced = 1, is_local = 0 WHERE id = ?`, id)
	} else {
		res, err = r.db.ExecContext(ctx, `UPDATE staff SET synced = 0 WHERE id = ?`, id)
	}
	if err != nil {
		return fmt.Errorf("failed to mark staff member synced: %w", err)
	}
	return oneRow(res)
}

// Revision returns the row's local revision counter.
func (r *SQLiteRepository) Revision(ctx context.Context, id string) (int64, error) {
	var rev int64
	err := r.db.QueryRowContext(ctx, `SELECT revision FROM staff WHERE id = ?`, id).Scan(&rev)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, common.ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read staff revision: %w", err)
	}
	return rev, nil
}

func bi(b bool) int {
	if b {
		return 1
	}
	return 0
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
