package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/wacatalog-backend/internal/catalog"
	"github.com/yungbote/wacatalog-backend/internal/http/response"
	"github.com/yungbote/wacatalog-backend/internal/platform/logger"
	"github.com/yungbote/wacatalog-backend/internal/services"
)

type CatalogHandler struct {
	log     *logger.Logger
	catalog services.CatalogService
}

func NewCatalogHandler(log *logger.Logger, catalogService services.CatalogService) *CatalogHandler {
	return &CatalogHandler{log: log.With("handler", "CatalogHandler"), catalog: catalogService}
}

// GET /catalog/:storeUrl
func (h *CatalogHandler) GetCatalog(c *gin.Context) {
	storeURL := strings.ToLower(strings.TrimSpace(c.Param("storeUrl")))
	snap, err := h.catalog.GetCatalog(c.Request.Context(), storeURL)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error":   "Store not found",
				"message": "This catalog does not exist or is not public.",
			})
			return
		}
		h.log.Error("Compose catalog failed", "store_url", storeURL, "error", err)
		response.RespondServiceError(c, err)
		return
	}
	c.Header("Cache-Control", "no-store")
	response.RespondOK(c, snap)
}
