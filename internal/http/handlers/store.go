package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/wacatalog-backend/internal/http/response"
	"github.com/yungbote/wacatalog-backend/internal/services"
)

type StoreHandler struct {
	stores services.StoreService
}

func NewStoreHandler(stores services.StoreService) *StoreHandler {
	return &StoreHandler{stores: stores}
}

// GET /api/store
func (h *StoreHandler) GetStore(c *gin.Context) {
	profile, err := h.stores.Profile(dbcFrom(c))
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, profile)
}

// PATCH /api/store/settings
// body: any subset of StoreSettingsPatch; explicit null resets a field.
func (h *StoreHandler) UpdateSettings(c *gin.Context) {
	var patch services.StoreSettingsPatch
	if !bindJSON(c, &patch) {
		return
	}
	profile, err := h.stores.UpdateSettings(dbcFrom(c), patch)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, profile)
}

// GET /api/store/features/:key
func (h *StoreHandler) GetFeature(c *gin.Context) {
	key := c.Param("key")
	allowed, err := h.stores.CanAccessFeature(dbcFrom(c), key)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"feature": key, "allowed": allowed})
}
