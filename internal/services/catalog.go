package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/wacatalog-backend/internal/catalog/aggregate"
	"github.com/yungbote/wacatalog-backend/internal/data/repos"
	types "github.com/yungbote/wacatalog-backend/internal/domain"
	"github.com/yungbote/wacatalog-backend/internal/platform/ctxutil"
	"github.com/yungbote/wacatalog-backend/internal/platform/dbctx"
	"github.com/yungbote/wacatalog-backend/internal/platform/logger"
)

// ViewRecorder receives one call per public storefront view. Failures are
// logged and never reach the viewer.
type ViewRecorder interface {
	RecordView(ctx context.Context, storeID uuid.UUID, at time.Time) error
}

type CatalogService interface {
	GetCatalog(ctx context.Context, storeURL string) (*aggregate.Snapshot, error)
}

type catalogService struct {
	log        *logger.Logger
	aggregator *aggregate.Aggregator
	views      ViewRecorder
	now        func() time.Time
}

func NewCatalogService(
	baseLog *logger.Logger,
	stores repos.StoreRepo,
	products repos.ProductRepo,
	categories repos.CategoryRepo,
	links repos.CustomLinkRepo,
	views ViewRecorder,
) CatalogService {
	serviceLog := baseLog.With("service", "CatalogService")
	reader := &catalogReader{stores: stores, products: products, categories: categories, links: links}
	return &catalogService{
		log:        serviceLog,
		aggregator: aggregate.New(serviceLog, reader, time.Now),
		views:      views,
		now:        time.Now,
	}
}

func (s *catalogService) GetCatalog(ctx context.Context, storeURL string) (*aggregate.Snapshot, error) {
	viewer := ctxutil.OwnerID(ctx)
	snap, err := s.aggregator.Compose(ctx, storeURL, viewer)
	if err != nil {
		return nil, err
	}
	if s.views != nil && !snap.Meta.OwnerPreview {
		s.recordView(ctx, snap.Store.ID)
	}
	return snap, nil
}

func (s *catalogService) recordView(ctx context.Context, storeID uuid.UUID) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 500*time.Millisecond)
	defer cancel()
	if err := s.views.RecordView(ctx, storeID, s.now()); err != nil {
		s.log.Warn("Record catalog view failed", "store_id", storeID, "error", err)
	}
}

// catalogReader adapts the repos to the aggregator's read interface.
type catalogReader struct {
	stores     repos.StoreRepo
	products   repos.ProductRepo
	categories repos.CategoryRepo
	links      repos.CustomLinkRepo
}

func (r *catalogReader) StoreByURL(ctx context.Context, storeURL string) (*types.Store, error) {
	return r.stores.GetByURL(dbctx.Context{Ctx: ctx}, storeURL)
}

func (r *catalogReader) Categories(ctx context.Context, storeID uuid.UUID) ([]*types.Category, error) {
	return r.categories.ListByStore(dbctx.Context{Ctx: ctx}, storeID)
}

func (r *catalogReader) CustomLinks(ctx context.Context, storeID uuid.UUID) ([]*types.CustomLink, error) {
	return r.links.ListByStore(dbctx.Context{Ctx: ctx}, storeID)
}

func (r *catalogReader) ActiveProducts(ctx context.Context, storeID uuid.UUID) ([]*types.Product, error) {
	return r.products.ListActiveByStore(dbctx.Context{Ctx: ctx}, storeID)
}
