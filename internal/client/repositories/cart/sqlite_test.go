package cart

import (
	"context"
	"database/sql"
	"testing"

	"github.com/avolkovs/tillpoint/internal/client/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE cart_items (
  cart_item_id TEXT PRIMARY KEY,
  product_id TEXT NOT NULL,
  name TEXT NOT NULL,
  quantity INTEGER NOT NULL,
  price TEXT NOT NULL,
  custom INTEGER NOT NULL DEFAULT 0,
  position INTEGER NOT NULL
);
`)
	require.NoError(t, err)

	return db
}

func TestSaveListPreservesOrder(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	items := []models.CartItem{
		{CartItemID: "c2", ProductID: "p2", Name: "Tea", Quantity: 1, Price: decimal.RequireFromString("2.10")},
		{CartItemID: "c1", ProductID: "p1", Name: "Coffee", Quantity: 3, Price: decimal.RequireFromString("3.50")},
		{CartItemID: "c3", ProductID: "", Name: "Misc", Quantity: 1, Price: decimal.RequireFromString("5.00"), Custom: true},
	}
	require.NoError(t, r.Save(ctx, items))

	got, err := r.List(ctx)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "c2", got[0].CartItemID)
	assert.Equal(t, "c1", got[1].CartItemID)
	assert.True(t, got[2].Custom)
	assert.True(t, got[1].Price.Equal(decimal.RequireFromString("3.50")))
}

func TestSaveReplacesPreviousCart(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, r.Save(ctx, []models.CartItem{
		{CartItemID: "c1", ProductID: "p1", Name: "Coffee", Quantity: 1, Price: decimal.RequireFromString("3.50")},
	}))
	require.NoError(t, r.Save(ctx, []models.CartItem{
		{CartItemID: "c9", ProductID: "p9", Name: "Cake", Quantity: 2, Price: decimal.RequireFromString("4.00")},
	}))

	got, err := r.List(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "c9", got[0].CartItemID)
}

func TestClear(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, r.Save(ctx, []models.CartItem{
		{CartItemID: "c1", ProductID: "p1", Name: "Coffee", Quantity: 1, Price: decimal.RequireFromString("3.50")},
	}))
	require.NoError(t, r.Clear(ctx))

	got, err := r.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)
}
