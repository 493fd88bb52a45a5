package httpapi

import (
	"net/http"

	"timeclock/internal/errors"

	"github.com/gin-gonic/gin"
)

type errorBody struct {
	Error   string                 `json:"error"`
	Code    string                 `json:"code"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// statusFor maps an error type onto an HTTP status
func statusFor(err error) int {
	appErr, ok := errors.AsAppError(err)
	if !ok {
		return http.StatusInternalServerError
	}
	switch appErr.Type {
	case errors.ErrorTypeValidation, errors.ErrorTypeInvalidInput, errors.ErrorTypeImport, errors.ErrorTypeMalformedTimestamp:
		return http.StatusBadRequest
	case errors.ErrorTypeNotFound:
		return http.StatusNotFound
	case errors.ErrorTypePunchNotAllowed:
		return http.StatusConflict
	case errors.ErrorTypeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) fail(c *gin.Context, err error) {
	status := statusFor(err)
	if errors.ShouldLogError(err) {
		h.logger.Error("request failed", "path", c.FullPath(), "status", status, "error", err)
	}

	body := errorBody{Error: errors.GetUserMessage(err), Code: errors.GetErrorCode(err)}
	if appErr, ok := errors.AsAppError(err); ok && appErr.Type == errors.ErrorTypePunchNotAllowed {
		body.Details = make(map[string]interface{})
		for _, key := range []string{"last", "allowed"} {
			if v, ok := appErr.GetContext(key); ok {
				body.Details[key] = v
			}
		}
	}
	c.AbortWithStatusJSON(status, body)
}
