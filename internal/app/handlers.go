package app

import (
	"context"

	"gorm.io/gorm"

	httpH "github.com/yungbote/wacatalog-backend/internal/http/handlers"
	"github.com/yungbote/wacatalog-backend/internal/platform/logger"
)

type Handlers struct {
	Health     *httpH.HealthHandler
	Catalog    *httpH.CatalogHandler
	Store      *httpH.StoreHandler
	Analytics  *httpH.AnalyticsHandler
	Editor     *httpH.EditorHandler
	Product    *httpH.ProductHandler
	Category   *httpH.CategoryHandler
	CustomLink *httpH.CustomLinkHandler
	Plan       *httpH.PlanHandler
}

func wireHandlers(log *logger.Logger, db *gorm.DB, clients Clients, svc Services) Handlers {
	log.Info("Wiring handlers...")
	checks := map[string]httpH.Pinger{
		"postgres": func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	}
	if clients.Redis != nil {
		checks["redis"] = func(ctx context.Context) error {
			return clients.Redis.Ping(ctx).Err()
		}
	}
	return Handlers{
		Health:     httpH.NewHealthHandler(checks),
		Catalog:    httpH.NewCatalogHandler(log, svc.Catalog),
		Store:      httpH.NewStoreHandler(svc.Store),
		Analytics:  httpH.NewAnalyticsHandler(svc.Analytics),
		Editor:     httpH.NewEditorHandler(svc.Editor),
		Product:    httpH.NewProductHandler(log, svc.Product, svc.Reorder, svc.Export),
		Category:   httpH.NewCategoryHandler(svc.Category, svc.Reorder),
		CustomLink: httpH.NewCustomLinkHandler(svc.CustomLink, svc.Reorder),
		Plan:       httpH.NewPlanHandler(svc.PlanPricing),
	}
}
