package services

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/avolkovs/tillpoint/internal/client/models"
	"github.com/avolkovs/tillpoint/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memAnalyticsCache struct {
	entries map[string]models.AnalyticsEntry
}

func newMemAnalyticsCache() *memAnalyticsCache {
	return &memAnalyticsCache{entries: make(map[string]models.AnalyticsEntry)}
}

func (m *memAnalyticsCache) Get(ctx context.Context, typ, period string) (models.AnalyticsEntry, error) {
	e, ok := m.entries[typ+"/"+period]
	if !ok {
		return models.AnalyticsEntry{}, common.ErrNoCachedData
	}
	return e, nil
}

func (m *memAnalyticsCache) Put(ctx context.Context, e models.AnalyticsEntry) error {
	m.entries[e.Type+"/"+e.Period] = e
	return nil
}

type fakeAnalyticsAPI struct {
	data json.RawMessage
	err  error
}

func (f *fakeAnalyticsAPI) Dashboard(ctx context.Context, period string) (json.RawMessage, error) {
	return f.data, f.err
}

func (f *fakeAnalyticsAPI) Comprehensive(ctx context.Context, period string) (json.RawMessage, error) {
	return f.data, f.err
}

func (f *fakeAnalyticsAPI) LowStock(ctx context.Context, threshold int) (json.RawMessage, error) {
	return f.data, f.err
}

type onlineFlag bool

func (o onlineFlag) IsOnline() bool { return bool(o) }

func TestDashboard_OnlineRefreshesCache(t *testing.T) {
	cache := newMemAnalyticsCache()
	remote := &fakeAnalyticsAPI{data: []byte(`{"revenue":"120"}`)}
	svc := NewAnalyticsService(remote, cache, onlineFlag(true))

	res, err := svc.Dashboard(context.Background(), "today")
	require.NoError(t, err)
	assert.False(t, res.Cached)
	assert.JSONEq(t, `{"revenue":"120"}`, string(res.Data))

	cached, err := cache.Get(context.Background(), "dashboard", "today")
	require.NoError(t, err)
	assert.JSONEq(t, `{"revenue":"120"}`, string(cached.Data))
}

func TestDashboard_UnreachableServesCache(t *testing.T) {
	cache := newMemAnalyticsCache()
	require.NoError(t, cache.Put(context.Background(), models.AnalyticsEntry{
		Type: "dashboard", Period: "today", Data: []byte(`{"revenue":"80"}`),
	}))

	remote := &fakeAnalyticsAPI{err: common.ErrRemoteUnreachable}
	svc := NewAnalyticsService(remote, cache, onlineFlag(true))

	res, err := svc.Dashboard(context.Background(), "today")
	require.NoError(t, err)
	assert.True(t, res.Cached)
	assert.JSONEq(t, `{"revenue":"80"}`, string(res.Data))
}

func TestDashboard_OfflineNoCacheFails(t *testing.T) {
	svc := NewAnalyticsService(&fakeAnalyticsAPI{}, newMemAnalyticsCache(), onlineFlag(false))

	_, err := svc.Dashboard(context.Background(), "today")
	assert.ErrorIs(t, err, common.ErrNoCachedData)
}

func TestDashboard_RejectedServesCache(t *testing.T) {
	cache := newMemAnalyticsCache()
	require.NoError(t, cache.Put(context.Background(), models.AnalyticsEntry{
		Type: "dashboard", Period: "today", Data: []byte(`{"revenue":"0"}`),
	}))

	remote := &fakeAnalyticsAPI{err: common.ErrRemoteRejected}
	svc := NewAnalyticsService(remote, cache, onlineFlag(true))

	res, err := svc.Dashboard(context.Background(), "today")
	require.NoError(t, err, "a cached copy must absorb a backend refusal")
	assert.True(t, res.Cached)
	assert.JSONEq(t, `{"revenue":"0"}`, string(res.Data))
}

func TestDashboard_RejectedNoCacheFails(t *testing.T) {
	remote := &fakeAnalyticsAPI{err: common.ErrRemoteRejected}
	svc := NewAnalyticsService(remote, newMemAnalyticsCache(), onlineFlag(true))

	_, err := svc.Dashboard(context.Background(), "today")
	assert.ErrorIs(t, err, common.ErrNoCachedData)
}

func TestLowStock_KeyedByThreshold(t *testing.T) {
	cache := newMemAnalyticsCache()
	remote := &fakeAnalyticsAPI{data: []byte(`{"items":[]}`)}
	svc := NewAnalyticsService(remote, cache, onlineFlag(true))

	_, err := svc.LowStock(context.Background(), 5)
	require.NoError(t, err)

	_, err = cache.Get(context.Background(), "low-stock", "5")
	require.NoError(t, err)
}
