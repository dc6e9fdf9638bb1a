package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Error bodies follow the OMP shape: the machine-readable code derives from
// the status, the status is duplicated inside the body, details are optional
// diagnostics.
type errorBody struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Status  int            `json:"status"`
	Details map[string]any `json:"details,omitempty"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

func codeForStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "bad_request"
	case http.StatusUnauthorized:
		return "unauthorized"
	case http.StatusForbidden:
		return "forbidden"
	case http.StatusNotFound:
		return "not_found"
	case http.StatusConflict:
		return "conflict"
	case http.StatusUnprocessableEntity:
		return "unprocessable_entity"
	case http.StatusTooManyRequests:
		return "rate_limited"
	case http.StatusInternalServerError:
		return "internal_error"
	case http.StatusServiceUnavailable:
		return "unavailable"
	}
	return "error"
}

func writeError(c *gin.Context, status int, message string) {
	writeErrorDetails(c, status, message, nil)
}

func writeErrorDetails(c *gin.Context, status int, message string, details map[string]any) {
	c.AbortWithStatusJSON(status, errorResponse{Error: errorBody{
		Code:    codeForStatus(status),
		Message: message,
		Status:  status,
		Details: details,
	}})
}
