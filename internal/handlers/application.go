// internal/handlers/application.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cvtravel/visa-backend/internal/i18n"
	"github.com/cvtravel/visa-backend/internal/services"
	"github.com/cvtravel/visa-backend/internal/utils"
)

type ApplicationHandler struct {
	applicationService *services.ApplicationService
}

func NewApplicationHandler(applicationService *services.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{
		applicationService: applicationService,
	}
}

// GET /v1/services
func (h *ApplicationHandler) GetServices(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	utils.SuccessResponse(c, gin.H{
		"services": services.ServiceCatalog(lang),
	})
}

// POST /v1/applications/tourist
func (h *ApplicationHandler) SubmitTourist(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var form services.TouristForm
	if err := c.ShouldBind(&form); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	// Validate request
	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&form)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	doc, err := h.passportCopy(c)
	if err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "passport copy"), err.Error())
		return
	}

	result, err := h.applicationService.SubmitTourist(c.Request.Context(), &form, doc, lang)
	if err != nil {
		h.submissionErrorResponse(c, lang, err)
		return
	}

	c.Set("reference_number", result.Reference)
	utils.CreatedResponse(c, gin.H{
		"message":     i18n.T(lang, i18n.KeyApplicationSubmitted),
		"reference":   result.Reference,
		"payment_url": result.PaymentURL,
	})
}

// POST /v1/applications/agency
func (h *ApplicationHandler) SubmitAgency(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var form services.AgencyForm
	if err := c.ShouldBind(&form); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	// Validate request
	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&form)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	doc, err := h.passportCopy(c)
	if err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "passport copy"), err.Error())
		return
	}

	result, err := h.applicationService.SubmitAgency(c.Request.Context(), &form, doc, lang)
	if err != nil {
		h.submissionErrorResponse(c, lang, err)
		return
	}

	c.Set("reference_number", result.Reference)
	utils.CreatedResponse(c, gin.H{
		"message":     i18n.T(lang, i18n.KeyApplicationSubmitted),
		"reference":   result.Reference,
		"payment_url": result.PaymentURL,
	})
}

// GET /v1/applications/:reference
func (h *ApplicationHandler) GetStatus(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	reference := c.Param("reference")
	c.Set("reference_number", reference)

	app, err := h.applicationService.GetByReference(c.Request.Context(), reference)
	if err != nil {
		if errors.Is(err, services.ErrApplicationNotFound) {
			utils.NotFoundResponse(c, "application")
			return
		}
		utils.InternalErrorResponse(c, "")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"application":  app,
		"status_label": i18n.T(lang, "status."+string(app.Status)),
	})
}

// passportCopy extracts the optional uploaded document. A submission without
// a file is valid; the upload step is simply skipped.
func (h *ApplicationHandler) passportCopy(c *gin.Context) (*services.DocumentUpload, error) {
	fileHeader, err := c.FormFile("passport_copy")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil
		}
		return nil, err
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, err
	}

	return &services.DocumentUpload{
		Filename:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Body:        file,
	}, nil
}

// submissionErrorResponse maps a workflow failure to the generic localized
// message. The stage only shows up in the error code and the logs.
func (h *ApplicationHandler) submissionErrorResponse(c *gin.Context, lang string, err error) {
	var subErr *services.SubmissionError
	if errors.As(err, &subErr) {
		if subErr.Reference != "" {
			c.Set("reference_number", subErr.Reference)
		}
		utils.ErrorResponse(c, http.StatusInternalServerError, subErr.Stage.Code(),
			i18n.T(lang, i18n.KeyApplicationSubmitFailed), nil)
		return
	}
	utils.ErrorResponse(c, http.StatusInternalServerError, "SUBMISSION_FAILED",
		i18n.T(lang, i18n.KeyApplicationSubmitFailed), nil)
}
