package services

import (
	"context"
	"testing"

	"github.com/avolkovs/tillpoint/internal/client/models"
	"github.com/avolkovs/tillpoint/internal/client/sync"
	"github.com/avolkovs/tillpoint/internal/common"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memSaleStore is an in-memory sync.LocalStore[models.Sale].
type memSaleStore struct {
	rows map[string]models.Sale
	revs map[string]int64
}

func newMemSaleStore() *memSaleStore {
	return &memSaleStore{rows: map[string]models.Sale{}, revs: map[string]int64{}}
}

func (m *memSaleStore) GetAll(ctx context.Context) ([]models.Sale, error) {
	out := make([]models.Sale, 0, len(m.rows))
	for _, s := range m.rows {
		out = append(out, s)
	}
	return out, nil
}

func (m *memSaleStore) GetByID(ctx context.Context, id string) (models.Sale, error) {
	s, ok := m.rows[id]
	if !ok {
		return models.Sale{}, common.ErrNotFound
	}
	return s, nil
}

func (m *memSaleStore) ReplaceAll(ctx context.Context, recs []models.Sale) error {
	m.rows = map[string]models.Sale{}
	for _, s := range recs {
		m.rows[s.ID] = s
	}
	return nil
}

func (m *memSaleStore) Insert(ctx context.Context, rec models.Sale) error {
	m.rows[rec.ID] = rec
	m.revs[rec.ID] = 1
	return nil
}

func (m *memSaleStore) Update(ctx context.Context, id string, rec models.Sale) error {
	if _, ok := m.rows[id]; !ok {
		return common.ErrNotFound
	}
	m.rows[id] = rec
	m.revs[id]++
	return nil
}

func (m *memSaleStore) DeleteByID(ctx context.Context, id string) error {
	delete(m.rows, id)
	m.revs[id]++
	return nil
}

func (m *memSaleStore) PurgeByID(ctx context.Context, id string) error {
	delete(m.rows, id)
	delete(m.revs, id)
	return nil
}

func (m *memSaleStore) ReplaceID(ctx context.Context, oldID, newID string) error {
	s, ok := m.rows[oldID]
	if !ok {
		return common.ErrNotFound
	}
	delete(m.rows, oldID)
	s.ID = newID
	m.rows[newID] = s
	m.revs[newID] = m.revs[oldID]
	delete(m.revs, oldID)
	return nil
}

func (m *memSaleStore) MarkSynced(ctx context.Context, id string, synced bool) error {
	s, ok := m.rows[id]
	if !ok {
		return common.ErrNotFound
	}
	s.Synced = synced
	m.rows[id] = s
	m.revs[id]++
	return nil
}

func (m *memSaleStore) Revision(ctx context.Context, id string) (int64, error) {
	rev, ok := m.revs[id]
	if !ok {
		return 0, common.ErrNotFound
	}
	return rev, nil
}

// unreachableSaleRemote fails every call; the terminal is offline.
type unreachableSaleRemote struct{}

func (unreachableSaleRemote) List(ctx context.Context) ([]models.Sale, error) {
	return nil, common.ErrRemoteUnreachable
}

func (unreachableSaleRemote) Create(ctx context.Context, s models.Sale) (models.Sale, error) {
	return models.Sale{}, common.ErrRemoteUnreachable
}

func (unreachableSaleRemote) Update(ctx context.Context, id string, s models.Sale) (models.Sale, error) {
	return models.Sale{}, common.ErrRemoteUnreachable
}

func (unreachableSaleRemote) Delete(ctx context.Context, id string) error {
	return common.ErrRemoteUnreachable
}

type memQueue struct {
	ops []models.PendingOperation
}

func (q *memQueue) Append(ctx context.Context, op models.PendingOperation) error {
	q.ops = append(q.ops, op)
	return nil
}

func (q *memQueue) ListByEntity(ctx context.Context, entity string) ([]models.PendingOperation, error) {
	var out []models.PendingOperation
	for _, op := range q.ops {
		if op.Entity == entity {
			out = append(out, op)
		}
	}
	return out, nil
}

func (q *memQueue) Remove(ctx context.Context, id string) error {
	for i, op := range q.ops {
		if op.ID == id {
			q.ops = append(q.ops[:i], q.ops[i+1:]...)
			return nil
		}
	}
	return nil
}

// A checkout while the terminal is offline must commit the sale locally
// under a placeholder id, queue exactly one create, and empty the cart.
func TestCheckout_OfflineCommitsLocallyAndQueues(t *testing.T) {
	ctx := context.Background()

	store := newMemSaleStore()
	queue := &memQueue{}
	policy := sync.NewPolicy[models.Sale]("sale", store, unreachableSaleRemote{}, queue, onlineFlag(false), nil)

	svc := NewCartService(&memCart{}, policy)

	lamp := models.Product{ID: "P-7", Name: "Desk lamp", SellingPrice: decimal.NewFromInt(60)}
	require.NoError(t, svc.AddProduct(ctx, lamp, 2))

	sale, err := svc.Checkout(ctx, "cash", "M-1")
	require.NoError(t, err, "connectivity loss must not fail a checkout")

	assert.True(t, sync.IsTempID(sale.ID))
	assert.True(t, sale.Total.Equal(decimal.NewFromInt(120)))

	stored, err := store.GetByID(ctx, sale.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsLocal)
	assert.False(t, stored.Synced)

	require.Len(t, queue.ops, 1)
	assert.Equal(t, "sale", queue.ops[0].Entity)
	assert.Equal(t, models.OpCreate, queue.ops[0].Kind)
	assert.Equal(t, sale.ID, queue.ops[0].EntityID)

	items, err := svc.Items(ctx)
	require.NoError(t, err)
	assert.Empty(t, items, "cart must be empty after a recorded sale")
}
