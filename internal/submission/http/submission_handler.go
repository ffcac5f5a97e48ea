// Package http provides HTTP handlers for application submission and encryption status.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	fieldcryptDomain "github.com/allisson/formseal/internal/fieldcrypt/domain"
	"github.com/allisson/formseal/internal/httputil"
	"github.com/allisson/formseal/internal/submission/http/dto"
	"github.com/allisson/formseal/internal/submission/usecase"
	customValidation "github.com/allisson/formseal/internal/validation"
)

// SubmissionHandler handles HTTP requests for application submission.
type SubmissionHandler struct {
	submissionUseCase usecase.SubmissionUseCase
	logger            *slog.Logger
}

// NewSubmissionHandler creates a new submission handler with required dependencies.
func NewSubmissionHandler(submissionUseCase usecase.SubmissionUseCase, logger *slog.Logger) *SubmissionHandler {
	return &SubmissionHandler{
		submissionUseCase: submissionUseCase,
		logger:            logger,
	}
}

// SubmitHandler encrypts the sensitive fields of a form and submits it.
// POST /v1/applications - Returns 201 Created with a receipt.
func (h *SubmissionHandler) SubmitHandler(c *gin.Context) {
	var req dto.SubmitApplicationRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	form, err := fieldcryptDomain.Parse(req.Form)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	receipt, err := h.submissionUseCase.Submit(c.Request.Context(), form)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapReceiptToResponse(receipt))
}

// VerifyHandler decrypts a submitted payload with the server session key.
// POST /v1/applications/verify - Returns 200 OK with the decrypted form.
func (h *SubmissionHandler) VerifyHandler(c *gin.Context) {
	var req dto.VerifyApplicationRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	payload, err := fieldcryptDomain.Parse(req.Payload)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	form, err := h.submissionUseCase.Verify(c.Request.Context(), payload)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.VerifyResponse{
		Form:            form,
		RemainingSealed: fieldcryptDomain.CountEnvelopes(form),
	})
}

// StatusHandler reports the encryption capability and policy.
// GET /v1/encryption/status - Returns 200 OK.
func (h *SubmissionHandler) StatusHandler(c *gin.Context) {
	status := h.submissionUseCase.Status(c.Request.Context())
	c.JSON(http.StatusOK, dto.MapEncryptionStatusToResponse(status))
}
