package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/wacatalog-backend/internal/http/response"
	"github.com/yungbote/wacatalog-backend/internal/services"
)

// reorder binds {ids, category_id?, version?} and submits it for the given
// collection. The response carries the new version token.
func reorder(c *gin.Context, svc services.ReorderService, collection string) {
	var req services.ReorderRequest
	if !bindJSON(c, &req) {
		return
	}
	req.Collection = collection
	res, err := svc.Reorder(dbcFrom(c), req)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, res)
}
