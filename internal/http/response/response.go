package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/wacatalog-backend/internal/catalog"
	"github.com/yungbote/wacatalog-backend/internal/platform/apierr"
)

type APIError struct {
	Message   string `json:"message"`
	Code      string `json:"code,omitempty"`
	Retryable bool   `json:"retryable,omitempty"`
	Details   any    `json:"details,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	c.JSON(status, envelope(code, err))
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

func RespondCreated(c *gin.Context, payload any) {
	c.JSON(http.StatusCreated, payload)
}

// Abort writes the error envelope and stops the handler chain.
func Abort(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, ErrorEnvelope{Error: APIError{Message: message, Code: code}})
}

// RespondServiceError maps a service error onto a status and code. Internal
// failures never echo the underlying message.
func RespondServiceError(c *gin.Context, err error) {
	status, code := Classify(err)
	env := envelope(code, err)
	if status >= http.StatusInternalServerError {
		env.Error.Message = "operation failed"
	}
	if ae, ok := apierr.As(err); ok {
		env.Error.Retryable = ae.Retryable
		env.Error.Details = ae.Details
	}
	c.JSON(status, env)
}

// Classify returns the HTTP status and error code for err.
func Classify(err error) (int, string) {
	if ae, ok := apierr.As(err); ok && ae.Status != 0 {
		return ae.Status, ae.Code
	}
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, catalog.ErrValidation):
		return http.StatusBadRequest, "validation_failed"
	case errors.Is(err, catalog.ErrForbidden):
		return http.StatusForbidden, "forbidden"
	case errors.Is(err, catalog.ErrConflict):
		return http.StatusConflict, "stale_version"
	case errors.Is(err, catalog.ErrSuperseded):
		return http.StatusConflict, "superseded"
	default:
		return http.StatusInternalServerError, "operation_failed"
	}
}

func envelope(code string, err error) ErrorEnvelope {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	return ErrorEnvelope{Error: APIError{Message: msg, Code: code}}
}
