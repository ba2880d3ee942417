// Package response centralizes HTTP response shapes and helpers.
// Handlers and middleware rely on it to keep controllers thin and uniform.
package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/maxviazov/openapi-skeleton/internal/auth"
	"github.com/maxviazov/openapi-skeleton/internal/openapi"
	"github.com/maxviazov/openapi-skeleton/internal/repository"
	"github.com/maxviazov/openapi-skeleton/internal/service"
)

// ErrorPayload is the canonical error envelope returned by the API.
type ErrorPayload struct {
	Error       string                `json:"error"`
	Status      int                   `json:"status"`
	Message     string                `json:"message,omitempty"`
	FieldErrors []service.FieldError  `json:"field_errors,omitempty"`
	Details     []openapi.SchemaError `json:"details,omitempty"`
}

// MapError converts a domain / infrastructure error into an HTTP status and payload.
// Extend here as new domain error categories emerge.
func MapError(err error) (int, ErrorPayload) {
	if err == nil {
		return http.StatusOK, ErrorPayload{Error: "ok", Status: http.StatusOK}
	}

	if errors.Is(err, service.ErrInvalidInput) {
		return http.StatusBadRequest, ErrorPayload{
			Error:       "invalid_input",
			Status:      http.StatusBadRequest,
			Message:     "one or more fields are invalid",
			FieldErrors: service.FieldErrors(err),
		}
	}

	var verr *openapi.ValidationError
	if errors.As(err, &verr) {
		return http.StatusInternalServerError, ErrorPayload{
			Error:   "invalid_response",
			Status:  http.StatusInternalServerError,
			Message: verr.Message,
			Details: verr.Errors,
		}
	}

	switch {
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound, ErrorPayload{Error: "not_found", Status: http.StatusNotFound, Message: "Resource not found."}
	case errors.Is(err, auth.ErrUnauthorized):
		return http.StatusUnauthorized, ErrorPayload{Error: "unauthorized", Status: http.StatusUnauthorized}
	case errors.Is(err, repository.ErrUnavailable):
		return http.StatusServiceUnavailable, ErrorPayload{Error: "unavailable", Status: http.StatusServiceUnavailable}
	default:
		return http.StatusInternalServerError, ErrorPayload{Error: "internal_error", Status: http.StatusInternalServerError}
	}
}

// WriteError writes an error response and aborts the context.
func WriteError(c *gin.Context, err error) {
	status, payload := MapError(err)
	if err != nil {
		_ = c.Error(err)
	}
	c.AbortWithStatusJSON(status, payload)
}

// WriteData writes a successful JSON response.
func WriteData(c *gin.Context, status int, data any) {
	c.JSON(status, data)
}
