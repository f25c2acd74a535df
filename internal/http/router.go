package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/wacatalog-backend/internal/http/handlers"
	httpMW "github.com/yungbote/wacatalog-backend/internal/http/middleware"
	"github.com/yungbote/wacatalog-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log            *logger.Logger
	ServiceName    string
	CORSOrigins    []string
	AuthMiddleware *httpMW.AuthMiddleware

	HealthHandler     *httpH.HealthHandler
	CatalogHandler    *httpH.CatalogHandler
	StoreHandler      *httpH.StoreHandler
	AnalyticsHandler  *httpH.AnalyticsHandler
	EditorHandler     *httpH.EditorHandler
	ProductHandler    *httpH.ProductHandler
	CategoryHandler   *httpH.CategoryHandler
	CustomLinkHandler *httpH.CustomLinkHandler
	PlanHandler       *httpH.PlanHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.CORS(cfg.CORSOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
		r.GET("/readyz", cfg.HealthHandler.Ready)
	}

	// Public storefront
	if cfg.CatalogHandler != nil {
		public := r.Group("/catalog")
		if cfg.AuthMiddleware != nil {
			public.Use(cfg.AuthMiddleware.OptionalAuth())
		}
		public.GET("/:storeUrl", cfg.CatalogHandler.GetCatalog)
	}

	api := r.Group("/api")
	{
		if cfg.PlanHandler != nil {
			api.GET("/plans", cfg.PlanHandler.ListPlans)
		}
	}

	protected := api.Group("/")
	{
		if cfg.AuthMiddleware != nil {
			protected.Use(cfg.AuthMiddleware.RequireAuth())
		}

		// Store
		if cfg.StoreHandler != nil {
			protected.GET("/store", cfg.StoreHandler.GetStore)
			protected.PATCH("/store/settings", cfg.StoreHandler.UpdateSettings)
			protected.GET("/store/features/:key", cfg.StoreHandler.GetFeature)
		}
		if cfg.AnalyticsHandler != nil {
			protected.GET("/store/analytics", cfg.AnalyticsHandler.GetViews)
		}

		// Editor
		if cfg.EditorHandler != nil {
			protected.PUT("/editor/mode", cfg.EditorHandler.SetMode)
		}

		// Products
		if cfg.ProductHandler != nil {
			protected.GET("/products", cfg.ProductHandler.List)
			protected.POST("/products", cfg.ProductHandler.Create)
			protected.POST("/products/reorder", cfg.ProductHandler.Reorder)
			protected.GET("/products/export.csv", cfg.ProductHandler.ExportCSV)
			protected.PATCH("/products/:id", cfg.ProductHandler.Update)
			protected.DELETE("/products/:id", cfg.ProductHandler.Delete)
		}

		// Categories
		if cfg.CategoryHandler != nil {
			protected.GET("/categories", cfg.CategoryHandler.List)
			protected.POST("/categories", cfg.CategoryHandler.Create)
			protected.POST("/categories/reorder", cfg.CategoryHandler.Reorder)
			protected.PATCH("/categories/:id", cfg.CategoryHandler.Update)
			protected.DELETE("/categories/:id", cfg.CategoryHandler.Delete)
		}

		// Custom links
		if cfg.CustomLinkHandler != nil {
			protected.GET("/links", cfg.CustomLinkHandler.List)
			protected.POST("/links", cfg.CustomLinkHandler.Create)
			protected.POST("/links/reorder", cfg.CustomLinkHandler.Reorder)
			protected.PATCH("/links/:id", cfg.CustomLinkHandler.Update)
			protected.DELETE("/links/:id", cfg.CustomLinkHandler.Delete)
		}
	}

	return r
}
