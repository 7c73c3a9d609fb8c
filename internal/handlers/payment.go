// internal/handlers/payment.go
package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/cvtravel/visa-backend/internal/i18n"
	"github.com/cvtravel/visa-backend/internal/services"
	"github.com/cvtravel/visa-backend/internal/utils"
)

type PaymentHandler struct {
	applicationService *services.ApplicationService
}

func NewPaymentHandler(applicationService *services.ApplicationService) *PaymentHandler {
	return &PaymentHandler{
		applicationService: applicationService,
	}
}

type PaymentCallbackRequest struct {
	Reference string `json:"reference" validate:"required"`
	Outcome   string `json:"outcome" validate:"required,oneof=paid failed"`
}

// POST /v1/payments/callback
// The payment gateway reports the outcome here, out-of-band from the
// applicant's browser redirect.
func (h *PaymentHandler) PaymentCallback(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req PaymentCallbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	// Validate request
	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	c.Set("reference_number", req.Reference)

	app, err := h.applicationService.ConfirmPayment(c.Request.Context(), req.Reference, req.Outcome == "paid")
	if err != nil {
		if errors.Is(err, services.ErrApplicationNotFound) {
			utils.NotFoundResponse(c, "payment")
			return
		}
		utils.InternalErrorResponse(c, "")
		return
	}

	messageKey := i18n.KeyPaymentConfirmed
	if req.Outcome == "failed" {
		messageKey = i18n.KeyPaymentFailed
	}

	utils.SuccessResponse(c, gin.H{
		"message":        i18n.T(lang, messageKey),
		"reference":      app.ReferenceNumber,
		"status":         app.Status,
		"payment_status": app.PaymentStatus,
	})
}
