package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/avolkovs/tillpoint/internal/client/models"
	"github.com/avolkovs/tillpoint/internal/client/repositories/analyticscache"
	"github.com/avolkovs/tillpoint/internal/client/sync"
)

// SaleService exposes the sale history and aggregated figures.
type SaleService interface {
	List(ctx context.Context) ([]models.Sale, error)
	Create(ctx context.Context, s models.Sale) (models.Sale, error)
	Void(ctx context.Context, id string) error

	// Summary returns the aggregated sales for a period, served from the
	// backend when possible and from the analytics cache otherwise.
	Summary(ctx context.Context, period string) (CachedResult, error)
}

// CachedResult is an opaque analytics payload plus its provenance: fresh
// from the backend, or the last cached copy and when it was taken.
type CachedResult struct {
	Data     json.RawMessage
	Cached   bool
	CachedAt time.Time
}

type summaryFetcher interface {
	SalesSummary(ctx context.Context, period string) (json.RawMessage, error)
}

type saleService struct {
	policy *sync.Policy[models.Sale]
	remote summaryFetcher
	cache  analyticscache.Repository
	online sync.Online
}

func NewSaleService(policy *sync.Policy[models.Sale], remote summaryFetcher, cache analyticscache.Repository, online sync.Online) SaleService {
	return &saleService{policy: policy, remote: remote, cache: cache, online: online}
}

func (s *saleService) List(ctx context.Context) ([]models.Sale, error) {
	return s.policy.FetchAll(ctx)
}

func (s *saleService) Create(ctx context.Context, sale models.Sale) (models.Sale, error) {
	return s.policy.Create(ctx, sale)
}

func (s *saleService) Void(ctx context.Context, id string) error {
	return s.policy.Delete(ctx, id)
}

const summaryCacheType = "sales-summary"

func (s *saleService) Summary(ctx context.Context, period string) (CachedResult, error) {
	return cachedFetch(ctx, s.cache, s.online, summaryCacheType, period, func(ctx context.Context) (json.RawMessage, error) {
		return s.remote.SalesSummary(ctx, period)
	})
}

// cachedFetch is the cache-of-last-resort read shared by the sale and
// analytics services: fresh data refreshes the cache, any backend failure
// falls back to the last cached copy. A read fails only when nothing is
// cached for the key.
func cachedFetch(ctx context.Context, cache analyticscache.Repository, online sync.Online, typ, period string, fetch func(context.Context) (json.RawMessage, error)) (CachedResult, error) {
	if online.IsOnline() {
		data, err := fetch(ctx)
		if err == nil {
			_ = cache.Put(ctx, models.AnalyticsEntry{Type: typ, Period: period, Data: data})
			return CachedResult{Data: data}, nil
		}
	}

	entry, err := cache.Get(ctx, typ, period)
	if err != nil {
		return CachedResult{}, err
	}
	return CachedResult{Data: entry.Data, Cached: true, CachedAt: entry.CachedAt}, nil
}
