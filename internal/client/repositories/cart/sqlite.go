package cart

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/avolkovs/tillpoint/internal/client/models"
	"github.com/avolkovs/tillpoint/internal/dbx"
	"github.com/shopspring/decimal"
)

// SQLiteRepository implements Repository over a *sql.DB. The position
// column keeps lines in the order the operator added them.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// List returns the cart lines in insertion order.
func (r *SQLiteRepository) List(ctx context.Context) ([]models.CartItem, error) {
	query := `SELECT cart_item_id, product_id, name, quantity, price, custom
		FROM cart_items ORDER BY position`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select cart items: %w", err)
	}
	defer rows.Close()

	var result []models.CartItem
	for rows.Next() {
		var (
			item   models.CartItem
			price  string
			custom int
		)
		if err := rows.Scan(&item.CartItemID, &item.ProductID, &item.Name, &item.Quantity, &price, &custom); err != nil {
			return nil, err
		}
		item.Price, err = decimal.NewFromString(price)
		if err != nil {
			return nil, fmt.Errorf("bad cart price %q: %w", price, err)
		}
		item.Custom = custom == 1
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Save replaces the stored cart with items.
func (r *SQLiteRepository) Save(ctx context.Context, items []models.CartItem) error {
	return dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM cart_items`); err != nil {
			return fmt.Errorf("failed to clear cart: %w", err)
		}
		query := `INSERT INTO cart_items (cart_item_id, product_id, name, quantity, price, custom, position)
			VALUES (?, ?, ?, ?, ?, ?, ?)`
		for pos, item := range items {
			custom := 0
			if item.Custom {
				custom = 1
			}
			_, err := tx.ExecContext(ctx, query,
				item.CartItemID, item.ProductID, item.Name, item.Quantity,
				item.Price.String(), custom, pos)
			if err != nil {
				return fmt.Errorf("failed to insert cart item: %w", err)
			}
		}
		return nil
	})
}

// Clear empties the stored cart.
func (r *SQLiteRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM cart_items`); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}
