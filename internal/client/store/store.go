// Package store opens the terminal's SQLite database, applies embedded
// migrations and wires up the repositories.
package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/avolkovs/tillpoint/internal/client/migrations"
	"github.com/avolkovs/tillpoint/internal/client/repositories/analyticscache"
	"github.com/avolkovs/tillpoint/internal/client/repositories/cart"
	"github.com/avolkovs/tillpoint/internal/client/repositories/metadata"
	"github.com/avolkovs/tillpoint/internal/client/repositories/pendingops"
	"github.com/avolkovs/tillpoint/internal/client/repositories/products"
	"github.com/avolkovs/tillpoint/internal/client/repositories/sales"
	"github.com/avolkovs/tillpoint/internal/client/repositories/staff"
	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite"
)

// Repositories bundles every local-store surface the services need.
type Repositories struct {
	Products  products.Repository
	Sales     sales.Repository
	Staff     staff.Repository
	Pending   pendingops.Repository
	Analytics analyticscache.Repository
	Cart      cart.Repository
	Metadata  metadata.Repository

	DB *sql.DB
}

func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	return goose.UpContext(ctx, db, ".")
}

// InitDatabase opens dsn, migrates it and returns wired repositories.
func InitDatabase(ctx context.Context, dsn string) (*Repositories, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &Repositories{
		Products:  products.NewSQLiteRepository(db),
		Sales:     sales.NewSQLiteRepository(db),
		Staff:     staff.NewSQLiteRepository(db),
		Pending:   pendingops.NewSQLiteRepository(db),
		Analytics: analyticscache.NewSQLiteRepository(db),
		Cart:      cart.NewSQLiteRepository(db),
		Metadata:  metadata.NewSQLiteRepository(db),
		DB:        db,
	}, nil
}

// Close releases the underlying database handle.
func (r *Repositories) Close() error {
	if r.DB == nil {
		return nil
	}
	return r.DB.Close()
}
