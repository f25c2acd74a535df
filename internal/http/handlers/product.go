package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	types "github.com/yungbote/wacatalog-backend/internal/domain"
	"github.com/yungbote/wacatalog-backend/internal/http/response"
	"github.com/yungbote/wacatalog-backend/internal/platform/logger"
	"github.com/yungbote/wacatalog-backend/internal/services"
)

type ProductHandler struct {
	log      *logger.Logger
	products services.ProductService
	reorder  services.ReorderService
	export   services.ExportService
}

func NewProductHandler(
	log *logger.Logger,
	products services.ProductService,
	reorderService services.ReorderService,
	exportService services.ExportService,
) *ProductHandler {
	return &ProductHandler{
		log:      log.With("handler", "ProductHandler"),
		products: products,
		reorder:  reorderService,
		export:   exportService,
	}
}

// GET /api/products
func (h *ProductHandler) List(c *gin.Context) {
	items, err := h.products.List(dbcFrom(c))
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": items})
}

// POST /api/products
func (h *ProductHandler) Create(c *gin.Context) {
	var in services.ProductInput
	if !bindJSON(c, &in) {
		return
	}
	item, err := h.products.Create(dbcFrom(c), in)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondCreated(c, item)
}

// PATCH /api/products/:id
func (h *ProductHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var patch services.ProductPatch
	if !bindJSON(c, &patch) {
		return
	}
	item, err := h.products.Update(dbcFrom(c), id, patch)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, item)
}

// DELETE /api/products/:id
func (h *ProductHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.products.Delete(dbcFrom(c), id); err != nil {
		response.RespondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// POST /api/products/reorder
func (h *ProductHandler) Reorder(c *gin.Context) {
	reorder(c, h.reorder, types.CollectionProducts)
}

// GET /api/products/export.csv
func (h *ProductHandler) ExportCSV(c *gin.Context) {
	var buf bytes.Buffer
	n, err := h.export.WriteProductsCSV(dbcFrom(c), &buf)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	h.log.Debug("Products exported", "rows", n)
	filename := fmt.Sprintf("produtos-%s.csv", time.Now().UTC().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}
