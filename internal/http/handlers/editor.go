package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/wacatalog-backend/internal/http/response"
	"github.com/yungbote/wacatalog-backend/internal/services"
)

type EditorHandler struct {
	editor services.EditorService
}

func NewEditorHandler(editor services.EditorService) *EditorHandler {
	return &EditorHandler{editor: editor}
}

// PUT /api/editor/mode
// body: { "editing": true | false }
func (h *EditorHandler) SetMode(c *gin.Context) {
	var req struct {
		Editing *bool `json:"editing"`
	}
	if !bindJSON(c, &req) {
		return
	}
	if req.Editing == nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", errors.New("editing is required"))
		return
	}
	mode, err := h.editor.SetEditing(dbcFrom(c), *req.Editing)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"mode": mode})
}
