package pendingops

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/avolkovs/tillpoint/internal/client/models"
	"github.com/google/uuid"
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
CREATE TABLE pending_operations (
  id TEXT PRIMARY KEY,
  entity TEXT NOT NULL,
  entity_id TEXT NOT NULL,
  kind TEXT NOT NULL,
  payload TEXT,
  revision INTEGER NOT NULL DEFAULT 0,
  created_at TIMESTAMP NOT NULL
);
`)
	require.NoError(t, err)

	return db
}

func op(entity, entityID string, kind models.OperationKind, at time.Time) models.PendingOperation {
	return models.PendingOperation{
		ID:        uuid.NewString(),
		Entity:    entity,
		EntityID:  entityID,
		Kind:      kind,
		Payload:   []byte(`{"name":"x"}`),
		Revision:  1,
		CreatedAt: at,
	}
}

func TestAppendPreservesCreationOrder(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	base := time.Now().UTC()
	first := op("product", "p1", models.OpCreate, base)
	second := op("sale", "s1", models.OpCreate, base)
	third := op("product", "p1", models.OpUpdate, base.Add(time.Millisecond))

	require.NoError(t, r.Append(ctx, first))
	require.NoError(t, r.Append(ctx, second))
	require.NoError(t, r.Append(ctx, third))

	all, err := r.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, first.ID, all[0].ID)
	assert.Equal(t, second.ID, all[1].ID)
	assert.Equal(t, third.ID, all[2].ID)
}

func TestOrderHoldsAcrossFractionWidths(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	// fractions whose nanosecond digits would compare wrong as
	// variable-width text (".5" sorts after ".52")
	base := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	first := op("product", "p1", models.OpCreate, base.Add(500*time.Millisecond))
	second := op("product", "p2", models.OpCreate, base.Add(520*time.Millisecond))

	require.NoError(t, r.Append(ctx, first))
	require.NoError(t, r.Append(ctx, second))

	all, err := r.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, first.ID, all[0].ID)
	assert.Equal(t, second.ID, all[1].ID)

	products, err := r.ListByEntity(ctx, "product")
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, models.OpCreate, products[0].Kind)
	assert.Equal(t, models.OpUpdate, products[1].Kind)
}

func TestRemoveIsIdempotent(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	o := op("product", "p1", models.OpDelete, time.Now())
	o.Payload = nil
	require.NoError(t, r.Append(ctx, o))

	n, err := r.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	require.NoError(t, r.Remove(ctx, o.ID))
	require.NoError(t, r.Remove(ctx, o.ID))

	n, err = r.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestPayloadRoundTrip(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	o := op("staff", "m1", models.OpUpdate, time.Now())
	o.Revision = 4
	require.NoError(t, r.Append(ctx, o))

	all, err := r.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.JSONEq(t, `{"name":"x"}`, string(all[0].Payload))
	assert.Equal(t, int64(4), all[0].Revision)
}
