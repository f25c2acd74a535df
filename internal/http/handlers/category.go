package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	types "github.com/yungbote/wacatalog-backend/internal/domain"
	"github.com/yungbote/wacatalog-backend/internal/http/response"
	"github.com/yungbote/wacatalog-backend/internal/services"
)

type CategoryHandler struct {
	categories services.CategoryService
	reorder    services.ReorderService
}

func NewCategoryHandler(categories services.CategoryService, reorderService services.ReorderService) *CategoryHandler {
	return &CategoryHandler{categories: categories, reorder: reorderService}
}

// GET /api/categories
func (h *CategoryHandler) List(c *gin.Context) {
	rows, err := h.categories.List(dbcFrom(c))
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": rows})
}

// POST /api/categories
func (h *CategoryHandler) Create(c *gin.Context) {
	var in services.CategoryInput
	if !bindJSON(c, &in) {
		return
	}
	row, err := h.categories.Create(dbcFrom(c), in)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondCreated(c, row)
}

// PATCH /api/categories/:id
func (h *CategoryHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var patch services.CategoryPatch
	if !bindJSON(c, &patch) {
		return
	}
	row, err := h.categories.Update(dbcFrom(c), id, patch)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, row)
}

// DELETE /api/categories/:id
// Products of the category move to the uncategorized scope.
func (h *CategoryHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.categories.Delete(dbcFrom(c), id); err != nil {
		response.RespondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// POST /api/categories/reorder
func (h *CategoryHandler) Reorder(c *gin.Context) {
	reorder(c, h.reorder, types.CollectionCategories)
}
