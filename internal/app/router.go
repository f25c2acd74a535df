package app

import (
	"github.com/gin-gonic/gin"

	server "github.com/yungbote/wacatalog-backend/internal/http"
	"github.com/yungbote/wacatalog-backend/internal/platform/logger"
)

func wireRouter(log *logger.Logger, cfg Config, handlers Handlers, middleware Middleware) *gin.Engine {
	log.Info("Wiring router...")
	serviceName := ""
	if cfg.Otel.Enabled {
		serviceName = cfg.Otel.ServiceName
	}
	return server.NewRouter(server.RouterConfig{
		Log:               log,
		ServiceName:       serviceName,
		CORSOrigins:       cfg.CORSOrigins,
		AuthMiddleware:    middleware.Auth,
		HealthHandler:     handlers.Health,
		CatalogHandler:    handlers.Catalog,
		StoreHandler:      handlers.Store,
		AnalyticsHandler:  handlers.Analytics,
		EditorHandler:     handlers.Editor,
		ProductHandler:    handlers.Product,
		CategoryHandler:   handlers.Category,
		CustomLinkHandler: handlers.CustomLink,
		PlanHandler:       handlers.Plan,
	})
}
