package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	types "github.com/yungbote/wacatalog-backend/internal/domain"
	"github.com/yungbote/wacatalog-backend/internal/http/response"
	"github.com/yungbote/wacatalog-backend/internal/services"
)

type CustomLinkHandler struct {
	links   services.CustomLinkService
	reorder services.ReorderService
}

func NewCustomLinkHandler(links services.CustomLinkService, reorderService services.ReorderService) *CustomLinkHandler {
	return &CustomLinkHandler{links: links, reorder: reorderService}
}

// GET /api/links
func (h *CustomLinkHandler) List(c *gin.Context) {
	rows, err := h.links.List(dbcFrom(c))
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"links": rows})
}

// POST /api/links
func (h *CustomLinkHandler) Create(c *gin.Context) {
	var in services.CustomLinkInput
	if !bindJSON(c, &in) {
		return
	}
	row, err := h.links.Create(dbcFrom(c), in)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondCreated(c, row)
}

// PATCH /api/links/:id
func (h *CustomLinkHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var patch services.CustomLinkPatch
	if !bindJSON(c, &patch) {
		return
	}
	row, err := h.links.Update(dbcFrom(c), id, patch)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, row)
}

// DELETE /api/links/:id
func (h *CustomLinkHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.links.Delete(dbcFrom(c), id); err != nil {
		response.RespondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// POST /api/links/reorder
func (h *CustomLinkHandler) Reorder(c *gin.Context) {
	reorder(c, h.reorder, types.CollectionCustomLinks)
}
