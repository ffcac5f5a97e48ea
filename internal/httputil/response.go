// Package httputil writes JSON error responses for gin handlers and maps application errors to
// HTTP status codes.
package httputil

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/allisson/formseal/internal/errors"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

type errorMapping struct {
	target  error
	status  int
	code    string
	message string // empty means err.Error() is exposed
}

// errorMappings is checked in order; the first sentinel matched by errors.Is wins.
var errorMappings = []errorMapping{
	{apperrors.ErrNotFound, http.StatusNotFound, "not_found", "The requested resource was not found"},
	{apperrors.ErrConflict, http.StatusConflict, "conflict", "A conflict occurred with existing data"},
	{apperrors.ErrInvalidInput, http.StatusUnprocessableEntity, "invalid_input", ""},
	{apperrors.ErrUnauthorized, http.StatusUnauthorized, "unauthorized", "Authentication is required"},
	{apperrors.ErrForbidden, http.StatusForbidden, "forbidden", "You don't have permission to access this resource"},
	{apperrors.ErrTooManyRequests, http.StatusTooManyRequests, "rate_limit_exceeded", "Too many requests, please try again later"},
	{apperrors.ErrUnavailable, http.StatusServiceUnavailable, "unavailable", "The service is temporarily unavailable"},
}

// HandleErrorGin writes the response for err. Unknown errors become a 500 without details; the
// full chain is always logged.
func HandleErrorGin(c *gin.Context, err error, logger *slog.Logger) {
	if err == nil {
		return
	}

	statusCode := http.StatusInternalServerError
	response := ErrorResponse{Error: "internal_error", Message: "An internal error occurred"}

	for _, m := range errorMappings {
		if apperrors.Is(err, m.target) {
			statusCode = m.status
			response = ErrorResponse{Error: m.code, Message: m.message}
			if m.message == "" {
				response.Message = err.Error()
			}
			break
		}
	}

	if logger != nil {
		logger.ErrorContext(c.Request.Context(), "request failed",
			slog.Int("status_code", statusCode),
			slog.String("error_code", response.Error),
			slog.Any("error", err),
		)
	}

	c.JSON(statusCode, response)
}

// HandleBadRequestGin writes a 400 response for a body or parameter that could not be parsed.
func HandleBadRequestGin(c *gin.Context, err error, logger *slog.Logger) {
	if logger != nil {
		logger.WarnContext(c.Request.Context(), "bad request", slog.Any("error", err))
	}

	c.JSON(http.StatusBadRequest, ErrorResponse{
		Error:   "bad_request",
		Message: err.Error(),
	})
}

// HandleValidationErrorGin writes a 422 response for a request that parsed but failed validation.
func HandleValidationErrorGin(c *gin.Context, err error, logger *slog.Logger) {
	if logger != nil {
		logger.WarnContext(c.Request.Context(), "validation failed", slog.Any("error", err))
	}

	c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
		Error:   "validation_error",
		Message: err.Error(),
	})
}
