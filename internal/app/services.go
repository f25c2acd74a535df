package app

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/yungbote/wacatalog-backend/internal/catalog/ordering"
	"github.com/yungbote/wacatalog-backend/internal/platform/logger"
	"github.com/yungbote/wacatalog-backend/internal/services"
)

type Services struct {
	Auth        services.AuthService
	Editor      services.EditorService
	Store       services.StoreService
	Product     services.ProductService
	Category    services.CategoryService
	CustomLink  services.CustomLinkService
	Reorder     services.ReorderService
	Catalog     services.CatalogService
	Export      services.ExportService
	PlanPricing services.PlanPricingService
	Analytics   services.AnalyticsService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, reposet Repos, clients Clients) (Services, error) {
	log.Info("Wiring services...")

	auth, err := services.NewAuthService(log, cfg.Auth)
	if err != nil {
		return Services{}, fmt.Errorf("init auth service: %w", err)
	}

	// Typed nils must not leak into the interfaces below.
	var editorState services.EditorStateStore
	if clients.EditorState != nil {
		editorState = clients.EditorState
	}
	var views services.ViewRecorder
	var viewStats services.ViewStats
	if clients.ViewCounter != nil {
		views = clients.ViewCounter
		viewStats = clients.ViewCounter
	}
	var priceCache services.PlanPriceCache
	if clients.PriceCache != nil {
		priceCache = clients.PriceCache
	}

	editorSvc := services.NewEditorService(log, reposet.Store, editorState)
	planPricing, err := services.NewPlanPricingService(log, clients.Billing, priceCache)
	if err != nil {
		return Services{}, fmt.Errorf("init plan pricing service: %w", err)
	}

	return Services{
		Auth:   auth,
		Editor: editorSvc,
		Store:  services.NewStoreService(db, log, reposet.Store, editorSvc),
		Product: services.NewProductService(db, log,
			reposet.Store, reposet.Product, reposet.Category, reposet.CollectionVersion),
		Category: services.NewCategoryService(db, log,
			reposet.Store, reposet.Category, reposet.Product, reposet.CollectionVersion),
		CustomLink: services.NewCustomLinkService(db, log,
			reposet.Store, reposet.CustomLink, reposet.CollectionVersion),
		Reorder: services.NewReorderService(db, log,
			reposet.Store, reposet.Product, reposet.Category, reposet.CustomLink, reposet.CollectionVersion,
			editorSvc, ordering.NewCoordinator(log)),
		Catalog: services.NewCatalogService(log,
			reposet.Store, reposet.Product, reposet.Category, reposet.CustomLink, views),
		Export:      services.NewExportService(db, log, reposet.Store, reposet.Product, reposet.Category),
		PlanPricing: planPricing,
		Analytics:   services.NewAnalyticsService(log, reposet.Store, viewStats),
	}, nil
}
