// internal/services/application_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/cvtravel/visa-backend/internal/config"
	"github.com/cvtravel/visa-backend/internal/database"
	"github.com/cvtravel/visa-backend/internal/i18n"
	"github.com/cvtravel/visa-backend/internal/models"
)

// TouristForm is the validated payload for an EASE pre-registration.
// Validation is all-or-nothing: every rule below must pass before the
// submission workflow starts.
type TouristForm struct {
	Email            string `form:"email" json:"email" validate:"required,email"`
	GivenNames       string `form:"given_names" json:"given_names" validate:"required,min=2"`
	LastNames        string `form:"last_names" json:"last_names" validate:"required,min=2"`
	Sex              string `form:"sex" json:"sex" validate:"required,oneof=M F"`
	BirthDate        string `form:"birth_date" json:"birth_date" validate:"required,datetime=2006-01-02"`
	BirthPlace       string `form:"birth_place" json:"birth_place" validate:"required,min=2"`
	ResidenceCountry string `form:"residence_country" json:"residence_country" validate:"required,min=2"`
	Nationality      string `form:"nationality" json:"nationality" validate:"required,min=2"`

	PassportNumber   string `form:"passport_number" json:"passport_number" validate:"required,min=4"`
	PassportValidity string `form:"passport_validity" json:"passport_validity" validate:"required,datetime=2006-01-02"`
	PassportIssuer   string `form:"passport_issuer" json:"passport_issuer" validate:"required,min=2"`

	FlightNumber  string `form:"flight_number" json:"flight_number" validate:"required,min=2"`
	ArrivalDate   string `form:"arrival_date" json:"arrival_date" validate:"required,datetime=2006-01-02"`
	DepartureDate string `form:"departure_date" json:"departure_date" validate:"required,datetime=2006-01-02"`
	ArrivalCity   string `form:"arrival_city" json:"arrival_city" validate:"required,min=2"`

	HasExistingVisa      bool   `form:"has_existing_visa" json:"has_existing_visa"`
	AccommodationName    string `form:"accommodation_name" json:"accommodation_name" validate:"required,min=2"`
	AccommodationAddress string `form:"accommodation_address" json:"accommodation_address" validate:"required,min=5"`
	AccommodationCity    string `form:"accommodation_city" json:"accommodation_city" validate:"required,min=2"`

	AcceptedTerms bool `form:"accepted_terms" json:"accepted_terms" validate:"eq=true"`
}

// AgencyForm is the tourist payload plus the five mandatory agency fields.
type AgencyForm struct {
	TouristForm
	AgencyName    string `form:"agency_name" json:"agency_name" validate:"required,min=2"`
	AgencyContact string `form:"agency_contact" json:"agency_contact" validate:"required,min=2"`
	AgencyEmail   string `form:"agency_email" json:"agency_email" validate:"required,email"`
	AgencyPhone   string `form:"agency_phone" json:"agency_phone" validate:"required,min=6"`
	AgencyAddress string `form:"agency_address" json:"agency_address" validate:"required,min=5"`
}

// DocumentUpload is the optional passport copy attached to a submission.
type DocumentUpload struct {
	Filename    string
	ContentType string
	Body        io.Reader
}

type SubmissionResult struct {
	Reference  string `json:"reference"`
	PaymentURL string `json:"payment_url"`
}

type ApplicationService struct {
	db      *gorm.DB
	config  *config.Config
	gateway PaymentGateway
	store   DocumentStore
	mailer  Mailer
}

func NewApplicationService(db *gorm.DB, cfg *config.Config, gateway PaymentGateway, store DocumentStore, mailer Mailer) *ApplicationService {
	return &ApplicationService{
		db:      db,
		config:  cfg,
		gateway: gateway,
		store:   store,
		mailer:  mailer,
	}
}

// SubmitTourist runs the submission workflow for an EASE pre-registration.
func (s *ApplicationService) SubmitTourist(ctx context.Context, form *TouristForm, doc *DocumentUpload, lang string) (*SubmissionResult, error) {
	app := applicationFromForm(form, models.ApplicationTypeTourist, form.Email)
	return s.submit(ctx, app, nil, doc, lang)
}

// SubmitAgency runs the submission workflow for an agency visa application.
// The agency record shares the application's identity and is created in the
// same database transaction, so a failed agency insert leaves no orphan.
func (s *ApplicationService) SubmitAgency(ctx context.Context, form *AgencyForm, doc *DocumentUpload, lang string) (*SubmissionResult, error) {
	app := applicationFromForm(&form.TouristForm, models.ApplicationTypeAgency, form.AgencyEmail)
	agency := &models.AgencyApplication{
		AgencyName:    form.AgencyName,
		AgencyContact: form.AgencyContact,
		AgencyEmail:   form.AgencyEmail,
		AgencyPhone:   form.AgencyPhone,
		AgencyAddress: form.AgencyAddress,
	}
	return s.submit(ctx, app, agency, doc, lang)
}

// submit executes the ordered workflow: persist -> upload -> payment session
// -> confirmation email. Once the application row exists it is never deleted;
// later failures are reported with their stage and the reference number.
func (s *ApplicationService) submit(ctx context.Context, app *models.Application, agency *models.AgencyApplication, doc *DocumentUpload, lang string) (*SubmissionResult, error) {
	fees := CalculateFees(BaseAmountFor(app.Type))
	app.PaymentAmount = fees.Total

	err := database.WithTransaction(s.db, func(tx *gorm.DB) error {
		if err := tx.Create(app).Error; err != nil {
			return err
		}
		if agency != nil {
			agency.ApplicationID = app.ID
			return tx.Create(agency).Error
		}
		return nil
	})
	if err != nil {
		return nil, &SubmissionError{Stage: StagePersistence, Err: err}
	}

	log := logrus.WithFields(logrus.Fields{
		"reference": app.ReferenceNumber,
		"type":      app.Type,
	})
	log.Info("Application persisted")

	if doc != nil {
		if err := s.uploadDocument(ctx, app, doc); err != nil {
			log.WithError(err).Error("Passport copy upload failed")
			return nil, &SubmissionError{Stage: StageUpload, Reference: app.ReferenceNumber, Err: err}
		}
	}

	paymentURL, err := s.createPaymentSession(ctx, app, lang)
	if err != nil {
		log.WithError(err).Error("Payment session creation failed")
		return nil, &SubmissionError{Stage: StagePaymentSession, Reference: app.ReferenceNumber, Err: err}
	}

	// Notification failure must not lose an application that already exists
	// and has a payment session; log and move on.
	if err := s.sendConfirmation(app, agency, fees.Total, lang); err != nil {
		log.WithError(err).Warn("Confirmation email dispatch failed")
	}

	return &SubmissionResult{
		Reference:  app.ReferenceNumber,
		PaymentURL: paymentURL,
	}, nil
}

func (s *ApplicationService) uploadDocument(ctx context.Context, app *models.Application, doc *DocumentUpload) error {
	ctx, cancel := context.WithTimeout(ctx, s.stepTimeout())
	defer cancel()

	ext := strings.ToLower(filepath.Ext(doc.Filename))
	key := fmt.Sprintf("%s/passport%s", app.ID, ext)

	if err := s.store.Upload(ctx, key, doc.Body, doc.ContentType); err != nil {
		return err
	}

	return s.db.Model(app).Update("document_key", key).Error
}

func (s *ApplicationService) createPaymentSession(ctx context.Context, app *models.Application, lang string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.stepTimeout())
	defer cancel()

	serviceKey := i18n.KeyServiceEaseName
	if app.Type == models.ApplicationTypeAgency {
		serviceKey = i18n.KeyServiceVisaName
	}

	base := s.config.Frontend.BaseURL
	return s.gateway.CreateSession(ctx, PaymentRequest{
		Amount:      app.PaymentAmount,
		Currency:    s.config.Payment.Currency,
		Reference:   app.ReferenceNumber,
		Description: fmt.Sprintf("%s - %s", i18n.T(lang, serviceKey), app.ReferenceNumber),
		ReturnURL:   fmt.Sprintf("%s/payment/result?reference=%s", base, app.ReferenceNumber),
		CancelURL:   fmt.Sprintf("%s/payment/result?reference=%s&cancelled=true", base, app.ReferenceNumber),
	})
}

func (s *ApplicationService) sendConfirmation(app *models.Application, agency *models.AgencyApplication, amount float64, lang string) error {
	name := app.TravelerName()
	if agency != nil {
		name = agency.AgencyContact
	}

	return s.mailer.SendConfirmation(ConfirmationEmail{
		To:        app.Email,
		Name:      name,
		Reference: app.ReferenceNumber,
		Amount:    amount,
		Type:      app.Type,
		Lang:      lang,
	})
}

// GetByReference returns the application and its agency extension, always
// reflecting current database state. No caching.
func (s *ApplicationService) GetByReference(ctx context.Context, reference string) (*models.Application, error) {
	var app models.Application
	err := s.db.WithContext(ctx).
		Preload("Agency").
		Where("reference_number = ?", reference).
		First(&app).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrApplicationNotFound
		}
		return nil, fmt.Errorf("failed to fetch application: %w", err)
	}
	return &app, nil
}

// ConfirmPayment records the out-of-band payment outcome reported by the
// gateway. Paid is sticky and the call is idempotent; a failed outcome never
// reverts a paid application.
func (s *ApplicationService) ConfirmPayment(ctx context.Context, reference string, succeeded bool) (*models.Application, error) {
	app, err := s.GetByReference(ctx, reference)
	if err != nil {
		return nil, err
	}

	if app.PaymentStatus == models.PaymentStatusPaid {
		return app, nil
	}

	if !succeeded {
		if err := app.SetPaymentStatus(models.PaymentStatusFailed); err != nil {
			return nil, err
		}
	} else {
		if err := app.SetPaymentStatus(models.PaymentStatusPaid); err != nil {
			return nil, err
		}
		if app.Status == models.StatusPendingPayment {
			if err := app.AdvanceStatus(models.StatusPaymentReceived); err != nil {
				return nil, err
			}
		}
	}

	err = s.db.WithContext(ctx).Model(app).
		Select("payment_status", "status").
		Updates(map[string]interface{}{
			"payment_status": app.PaymentStatus,
			"status":         app.Status,
		}).Error
	if err != nil {
		return nil, fmt.Errorf("failed to update payment status: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"reference":      reference,
		"payment_status": app.PaymentStatus,
		"status":         app.Status,
	}).Info("Payment outcome recorded")

	return app, nil
}

func (s *ApplicationService) stepTimeout() time.Duration {
	seconds := s.config.Payment.TimeoutSeconds
	if seconds <= 0 {
		seconds = 15
	}
	return time.Duration(seconds) * time.Second
}

func applicationFromForm(form *TouristForm, appType models.ApplicationType, email string) *models.Application {
	return &models.Application{
		Type:                 appType,
		Email:                email,
		GivenNames:           form.GivenNames,
		LastNames:            form.LastNames,
		Sex:                  form.Sex,
		BirthDate:            form.BirthDate,
		BirthPlace:           form.BirthPlace,
		ResidenceCountry:     form.ResidenceCountry,
		Nationality:          form.Nationality,
		PassportNumber:       form.PassportNumber,
		PassportValidity:     form.PassportValidity,
		PassportIssuer:       form.PassportIssuer,
		FlightNumber:         form.FlightNumber,
		ArrivalDate:          form.ArrivalDate,
		DepartureDate:        form.DepartureDate,
		ArrivalCity:          form.ArrivalCity,
		HasExistingVisa:      form.HasExistingVisa,
		AccommodationName:    form.AccommodationName,
		AccommodationAddress: form.AccommodationAddress,
		AccommodationCity:    form.AccommodationCity,
		Status:               models.StatusPendingPayment,
		PaymentStatus:        models.PaymentStatusUnpaid,
	}
}
