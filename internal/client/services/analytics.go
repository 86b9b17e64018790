package services

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/avolkovs/tillpoint/internal/client/repositories/analyticscache"
	"github.com/avolkovs/tillpoint/internal/client/sync"
)

// AnalyticsService serves reporting datasets with the cache-of-last-resort
// policy: fresh while online, the last good copy otherwise.
type AnalyticsService interface {
	Dashboard(ctx context.Context, period string) (CachedResult, error)
	Comprehensive(ctx context.Context, period string) (CachedResult, error)
	LowStock(ctx context.Context, threshold int) (CachedResult, error)
}

type analyticsFetcher interface {
	Dashboard(ctx context.Context, period string) (json.RawMessage, error)
	Comprehensive(ctx context.Context, period string) (json.RawMessage, error)
	LowStock(ctx context.Context, threshold int) (json.RawMessage, error)
}

type analyticsService struct {
	remote analyticsFetcher
	cache  analyticscache.Repository
	online sync.Online
}

func NewAnalyticsService(remote analyticsFetcher, cache analyticscache.Repository, online sync.Online) AnalyticsService {
	return &analyticsService{remote: remote, cache: cache, online: online}
}

func (s *analyticsService) Dashboard(ctx context.Context, period string) (CachedResult, error) {
	return cachedFetch(ctx, s.cache, s.online, "dashboard", period, func(ctx context.Context) (json.RawMessage, error) {
		return s.remote.Dashboard(ctx, period)
	})
}

func (s *analyticsService) Comprehensive(ctx context.Context, period string) (CachedResult, error) {
	return cachedFetch(ctx, s.cache, s.online, "comprehensive", period, func(ctx context.Context) (json.RawMessage, error) {
		return s.remote.Comprehensive(ctx, period)
	})
}

func (s *analyticsService) LowStock(ctx context.Context, threshold int) (CachedResult, error) {
	key := strconv.Itoa(threshold)
	return cachedFetch(ctx, s.cache, s.online, "low-stock", key, func(ctx context.Context) (json.RawMessage, error) {
		return s.remote.LowStock(ctx, threshold)
	})
}
