// Package aggregate composes the public catalog read model.
package aggregate

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"

	"github.com/yungbote/wacatalog-backend/internal/catalog"
	"github.com/yungbote/wacatalog-backend/internal/catalog/entitlement"
	"github.com/yungbote/wacatalog-backend/internal/catalog/pricing"
	types "github.com/yungbote/wacatalog-backend/internal/domain"
	"github.com/yungbote/wacatalog-backend/internal/platform/logger"
)

const (
	DefaultTheme  = "default"
	DefaultLayout = "list"
)

// Reader is the read side of storage. StoreByURL returns (nil, nil) when no
// store exists. ActiveProducts may be unordered; Compose sorts.
type Reader interface {
	StoreByURL(ctx context.Context, storeURL string) (*types.Store, error)
	Categories(ctx context.Context, storeID uuid.UUID) ([]*types.Category, error)
	CustomLinks(ctx context.Context, storeID uuid.UUID) ([]*types.CustomLink, error)
	ActiveProducts(ctx context.Context, storeID uuid.UUID) ([]*types.Product, error)
}

// Aggregator holds no mutable state and is safe for concurrent use.
type Aggregator struct {
	log    *logger.Logger
	reader Reader
	now    func() time.Time
}

func New(baseLog *logger.Logger, reader Reader, now func() time.Time) *Aggregator {
	if now == nil {
		now = time.Now
	}
	return &Aggregator{
		log:    baseLog.With("component", "CatalogAggregator"),
		reader: reader,
		now:    now,
	}
}

// Compose builds the snapshot for storeURL. viewer is the authenticated
// owner id or uuid.Nil. A missing store, or a hidden catalog seen by anyone
// but its owner, is reported as catalog.ErrNotFound so existence never leaks.
func (a *Aggregator) Compose(ctx context.Context, storeURL string, viewer uuid.UUID) (*Snapshot, error) {
	ctx, span := otel.Tracer("wacatalog/aggregate").Start(ctx, "catalog.compose")
	defer span.End()
	span.SetAttributes(attribute.String("catalog.store_url", storeURL))

	store, err := a.reader.StoreByURL(ctx, storeURL)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "store lookup failed")
		return nil, fmt.Errorf("load store %q: %w", storeURL, err)
	}
	if store == nil {
		return nil, fmt.Errorf("store %q: %w", storeURL, catalog.ErrNotFound)
	}
	isOwner := viewer != uuid.Nil && viewer == store.OwnerID
	if !store.CatalogVisible && !isOwner {
		return nil, fmt.Errorf("store %q: %w", storeURL, catalog.ErrNotFound)
	}

	var (
		categories []*types.Category
		links      []*types.CustomLink
		products   []*types.Product
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := a.reader.Categories(gctx, store.ID)
		if err != nil {
			a.log.Warn("Categories unavailable, serving catalog without them", "store_id", store.ID, "error", err)
			return nil
		}
		categories = rows
		return nil
	})
	g.Go(func() error {
		rows, err := a.reader.CustomLinks(gctx, store.ID)
		if err != nil {
			a.log.Warn("Custom links unavailable, serving catalog without them", "store_id", store.ID, "error", err)
			return nil
		}
		links = rows
		return nil
	})
	g.Go(func() error {
		rows, err := a.reader.ActiveProducts(gctx, store.ID)
		if err != nil {
			return fmt.Errorf("load products: %w", err)
		}
		products = rows
		return nil
	})
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "compose failed")
		return nil, err
	}

	now := a.now().UTC()
	caps := entitlement.Resolve(entitlement.Plan(store.SubscriptionPlan), store.IsVerified, store.SubscriptionExpiresAt, now)

	all := activeSorted(products)
	allViews := make([]ProductView, 0, len(all))
	feedViews := make([]ProductView, 0, len(all))
	perCategory := map[uuid.UUID]int{}
	for _, p := range all {
		v := productView(p)
		allViews = append(allViews, v)
		if store.ShowAllProductsInFeed || p.Uncategorized() {
			feedViews = append(feedViews, v)
		}
		if !p.Uncategorized() {
			perCategory[*p.CategoryID]++
		}
	}

	snap := &Snapshot{
		Store:       storeView(store, caps),
		Products:    feedViews,
		AllProducts: allViews,
		Categories:  categoryViews(categories, perCategory),
	}
	if caps.Has(entitlement.CustomLinks) {
		snap.CustomLinks = linkViews(links)
	} else {
		snap.CustomLinks = []LinkView{}
	}
	snap.Meta = Meta{
		TotalProducts:    len(snap.Products),
		TotalAllProducts: len(snap.AllProducts),
		TotalCustomLinks: len(snap.CustomLinks),
		TotalCategories:  len(snap.Categories),
		GeneratedAt:      now,
		OwnerPreview:     isOwner,
	}
	span.SetAttributes(
		attribute.Int("catalog.products", snap.Meta.TotalProducts),
		attribute.Int("catalog.all_products", snap.Meta.TotalAllProducts),
	)
	return snap, nil
}

// activeSorted drops anything not active and orders by display_order,
// newest first on ties.
func activeSorted(rows []*types.Product) []*types.Product {
	out := make([]*types.Product, 0, len(rows))
	for _, p := range rows {
		if p.IsActive() {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].DisplayOrder != out[j].DisplayOrder {
			return out[i].DisplayOrder < out[j].DisplayOrder
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func productView(p *types.Product) ProductView {
	prices := pricing.ComputePrices(p.Price, p.Discount)
	return ProductView{
		ID:           p.ID,
		Name:         p.Name,
		Description:  p.Description,
		ImageURL:     p.ImageURL,
		CategoryID:   p.CategoryID,
		DisplayOrder: p.DisplayOrder,
		Status:       p.Status,
		Price:        prices.OriginalPrice,
		Prices:       prices,
		CreatedAt:    p.CreatedAt,
	}
}

// storeView only surfaces customization the store is currently entitled to,
// so a lapsed plan falls back to defaults without rewriting settings.
func storeView(s *types.Store, caps entitlement.CapabilitySet) StoreView {
	v := StoreView{
		ID:                    s.ID,
		StoreURL:              s.StoreURL,
		StoreName:             s.StoreName,
		WhatsAppNumber:        s.WhatsAppNumber,
		AvatarURL:             s.AvatarURL,
		VerifiedBadge:         caps.Has(entitlement.VerifiedBadge),
		ShowAllProductsInFeed: s.ShowAllProductsInFeed,
		CatalogTheme:          DefaultTheme,
		CatalogLayout:         DefaultLayout,
		Features:              caps.Map(),
	}
	if caps.Has(entitlement.CustomWhatsAppMessage) {
		v.WhatsAppMessage = s.WhatsAppMsg
	}
	if caps.Has(entitlement.BioMessage) {
		v.Bio = s.Bio
	}
	if caps.Has(entitlement.CatalogTheme) && s.CatalogTheme != "" {
		v.CatalogTheme = s.CatalogTheme
	}
	if caps.Has(entitlement.GridLayout) && s.CatalogLayout != "" {
		v.CatalogLayout = s.CatalogLayout
	}
	if caps.Has(entitlement.CustomBackground) && len(s.CustomBackground) > 0 {
		v.CustomBackground = append([]byte(nil), s.CustomBackground...)
	}
	if caps.Has(entitlement.HideFooter) {
		v.HideFooter = s.HideFooter
	}
	return v
}

func categoryViews(rows []*types.Category, counts map[uuid.UUID]int) []CategoryView {
	out := make([]CategoryView, 0, len(rows))
	for _, c := range rows {
		if c == nil || !c.IsActive {
			continue
		}
		out = append(out, CategoryView{
			ID:           c.ID,
			Name:         c.Name,
			DisplayOrder: c.DisplayOrder,
			ProductCount: counts[c.ID],
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].DisplayOrder < out[j].DisplayOrder })
	return out
}

func linkViews(rows []*types.CustomLink) []LinkView {
	out := make([]LinkView, 0, len(rows))
	for _, l := range rows {
		if l == nil {
			continue
		}
		out = append(out, LinkView{ID: l.ID, Title: l.Title, URL: l.URL, DisplayOrder: l.DisplayOrder})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].DisplayOrder < out[j].DisplayOrder })
	return out
}
