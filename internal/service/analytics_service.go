package service

import (
	"context"
	"fmt"
	"time"

	"storefront-service/internal/analytics"
	"storefront-service/internal/redisclient"
	"storefront-service/internal/store"
	"storefront-service/internal/util"

	"go.uber.org/zap"
)

const dashboardTTL = 5 * time.Minute

// AnalyticsService builds dashboard snapshots from the order history and
// caches them per window key. Aggregation itself is pure; this service owns
// fetching, timing and caching around it.
type AnalyticsService struct {
	store      *store.Store
	redis      *redisclient.Client
	aggregator *analytics.Aggregator
	now        func() time.Time
	logger     *zap.Logger
}

// NewAnalyticsService creates a new analytics service. The clock is taken as
// a parameter so windowing is deterministic under test.
func NewAnalyticsService(store *store.Store, redis *redisclient.Client, aggregator *analytics.Aggregator, now func() time.Time) *AnalyticsService {
	if now == nil {
		now = time.Now
	}
	return &AnalyticsService{
		store:      store,
		redis:      redis,
		aggregator: aggregator,
		now:        now,
		logger:     util.GetLogger(),
	}
}

// Dashboard returns the aggregated metrics for a window key, from cache when
// a fresh snapshot exists.
func (as *AnalyticsService) Dashboard(ctx context.Context, windowKey string) (*analytics.Summary, error) {
	ctx, span := util.StartSpan(ctx, "AnalyticsService.Dashboard")
	defer span.End()

	var cached analytics.Summary
	hit, err := as.redis.GetDashboard(ctx, windowKey, &cached)
	if err != nil {
		as.logger.Warn("Dashboard cache read failed", zap.Error(err))
	}
	if hit {
		util.AnalyticsCacheHits.WithLabelValues("hit").Inc()
		return &cached, nil
	}
	util.AnalyticsCacheHits.WithLabelValues("miss").Inc()

	orders, err := as.store.GetOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load orders for analytics: %w", err)
	}

	start := time.Now()
	summary := as.aggregator.Aggregate(orders, windowKey, as.now())
	util.AnalyticsBuildLatency.Observe(time.Since(start).Seconds())

	if err := as.redis.SetDashboard(ctx, windowKey, summary, dashboardTTL); err != nil {
		as.logger.Warn("Failed to cache dashboard snapshot", zap.Error(err))
	}

	return summary, nil
}

// InvalidateSnapshots drops every cached dashboard snapshot. Called by the
// worker when order events arrive.
func (as *AnalyticsService) InvalidateSnapshots(ctx context.Context) error {
	return as.redis.InvalidateDashboards(ctx)
}
