package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/wacatalog-backend/internal/catalog"
	"github.com/yungbote/wacatalog-backend/internal/catalog/entitlement"
	"github.com/yungbote/wacatalog-backend/internal/data/repos"
	types "github.com/yungbote/wacatalog-backend/internal/domain"
	"github.com/yungbote/wacatalog-backend/internal/platform/dbctx"
	"github.com/yungbote/wacatalog-backend/internal/platform/logger"
)

const (
	DefaultAnalyticsDays = 30
	MaxAnalyticsDays     = 90
)

// ViewStats reads the counters written through ViewRecorder.
type ViewStats interface {
	Total(ctx context.Context, storeID uuid.UUID) (int64, error)
	Daily(ctx context.Context, storeID uuid.UUID, until time.Time, days int) ([]types.DailyViews, error)
}

type StoreAnalytics struct {
	// Enabled is false when no view counter is configured; the counts are
	// then zero.
	Enabled    bool               `json:"enabled"`
	TotalViews int64              `json:"total_views"`
	Daily      []types.DailyViews `json:"daily"`
}

type AnalyticsService interface {
	// Views returns the owner's storefront view counts for the last days
	// UTC days. It requires the analytics capability.
	Views(dbc dbctx.Context, days int) (*StoreAnalytics, error)
}

type analyticsService struct {
	log    *logger.Logger
	stores repos.StoreRepo
	stats  ViewStats
	now    func() time.Time
}

func NewAnalyticsService(baseLog *logger.Logger, stores repos.StoreRepo, stats ViewStats) AnalyticsService {
	return &analyticsService{
		log:    baseLog.With("service", "AnalyticsService"),
		stores: stores,
		stats:  stats,
		now:    time.Now,
	}
}

func (s *analyticsService) Views(dbc dbctx.Context, days int) (*StoreAnalytics, error) {
	if days == 0 {
		days = DefaultAnalyticsDays
	}
	if days < 0 || days > MaxAnalyticsDays {
		return nil, fmt.Errorf("%w: days must be between 1 and %d", catalog.ErrValidation, MaxAnalyticsDays)
	}
	store, err := ownerStore(dbc, s.stores)
	if err != nil {
		return nil, err
	}
	now := s.now()
	if err := requireCapability(capabilities(store, now), entitlement.Analytics); err != nil {
		return nil, err
	}
	if s.stats == nil {
		return &StoreAnalytics{Daily: []types.DailyViews{}}, nil
	}

	total, err := s.stats.Total(dbc.Ctx, store.ID)
	if err != nil {
		return nil, fmt.Errorf("read total views: %w", err)
	}
	daily, err := s.stats.Daily(dbc.Ctx, store.ID, now, days)
	if err != nil {
		return nil, fmt.Errorf("read daily views: %w", err)
	}
	return &StoreAnalytics{Enabled: true, TotalViews: total, Daily: daily}, nil
}
