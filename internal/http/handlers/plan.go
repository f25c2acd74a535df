package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/wacatalog-backend/internal/http/response"
	"github.com/yungbote/wacatalog-backend/internal/services"
)

type PlanHandler struct {
	pricing services.PlanPricingService
}

func NewPlanHandler(pricing services.PlanPricingService) *PlanHandler {
	return &PlanHandler{pricing: pricing}
}

// GET /api/plans
func (h *PlanHandler) ListPlans(c *gin.Context) {
	table, err := h.pricing.Prices(c.Request.Context())
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	if table.Degraded {
		c.Header("Warning", `110 - "plan prices served from fallback"`)
	}
	response.RespondOK(c, table)
}
