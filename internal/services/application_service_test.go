// internal/services/application_service_test.go
package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/cvtravel/visa-backend/internal/config"
	"github.com/cvtravel/visa-backend/internal/models"
)

type fakeGateway struct {
	err     error
	calls   int
	lastReq PaymentRequest
}

func (f *fakeGateway) CreateSession(ctx context.Context, req PaymentRequest) (string, error) {
	f.calls++
	f.lastReq = req
	if f.err != nil {
		return "", f.err
	}
	return "https://pay.example.com/session?reference=" + req.Reference, nil
}

type fakeStore struct {
	err  error
	keys []string
}

func (f *fakeStore) Upload(ctx context.Context, key string, body io.Reader, contentType string) error {
	if f.err != nil {
		return f.err
	}
	if _, err := io.Copy(io.Discard, body); err != nil {
		return err
	}
	f.keys = append(f.keys, key)
	return nil
}

type fakeMailer struct {
	err  error
	sent []ConfirmationEmail
}

func (f *fakeMailer) SendConfirmation(email ConfirmationEmail) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, email)
	return nil
}

type ApplicationServiceSuite struct {
	suite.Suite
	db      *gorm.DB
	gateway *fakeGateway
	store   *fakeStore
	mailer  *fakeMailer
	service *ApplicationService
}

func (s *ApplicationServiceSuite) SetupTest() {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	s.Require().NoError(err)
	s.Require().NoError(db.AutoMigrate(&models.Application{}, &models.AgencyApplication{}))

	s.db = db
	s.gateway = &fakeGateway{}
	s.store = &fakeStore{}
	s.mailer = &fakeMailer{}

	cfg := &config.Config{
		Payment:  config.PaymentConfig{Currency: "EUR", TimeoutSeconds: 5},
		Frontend: config.FrontendConfig{BaseURL: "https://cvpretravel.example"},
	}
	s.service = NewApplicationService(db, cfg, s.gateway, s.store, s.mailer)
}

func validTouristForm() *TouristForm {
	return &TouristForm{
		Email:                "maria.santos@example.com",
		GivenNames:           "Maria",
		LastNames:            "Santos",
		Sex:                  "F",
		BirthDate:            "1990-04-12",
		BirthPlace:           "Lisbon",
		ResidenceCountry:     "Portugal",
		Nationality:          "Portuguese",
		PassportNumber:       "P1234567",
		PassportValidity:     "2030-01-01",
		PassportIssuer:       "Portugal",
		FlightNumber:         "TP1553",
		ArrivalDate:          "2026-10-01",
		DepartureDate:        "2026-10-15",
		ArrivalCity:          "Sal",
		AccommodationName:    "Hotel Morabeza",
		AccommodationAddress: "Rua da Praia 1, Santa Maria",
		AccommodationCity:    "Santa Maria",
		AcceptedTerms:        true,
	}
}

func validAgencyForm() *AgencyForm {
	return &AgencyForm{
		TouristForm:   *validTouristForm(),
		AgencyName:    "Atlantic Travel",
		AgencyContact: "Carlos Mendes",
		AgencyEmail:   "bookings@atlantictravel.example.com",
		AgencyPhone:   "+238 2601234",
		AgencyAddress: "Avenida Amilcar Cabral 22, Praia",
	}
}

func (s *ApplicationServiceSuite) TestTouristSubmission() {
	result, err := s.service.SubmitTourist(context.Background(), validTouristForm(), nil, "en")
	s.Require().NoError(err)

	s.True(strings.HasPrefix(result.Reference, "CV-"))
	s.Contains(result.PaymentURL, result.Reference)

	var app models.Application
	s.Require().NoError(s.db.Where("reference_number = ?", result.Reference).First(&app).Error)
	s.Equal(models.ApplicationTypeTourist, app.Type)
	s.Equal(36.70, app.PaymentAmount)
	s.Equal(models.StatusPendingPayment, app.Status)
	s.Equal(models.PaymentStatusUnpaid, app.PaymentStatus)
	s.Empty(app.DocumentKey)

	// Gateway saw the total, the reference and localized return URLs.
	s.Equal(1, s.gateway.calls)
	s.Equal(36.70, s.gateway.lastReq.Amount)
	s.Equal("EUR", s.gateway.lastReq.Currency)
	s.Contains(s.gateway.lastReq.ReturnURL, "reference="+result.Reference)
	s.Contains(s.gateway.lastReq.CancelURL, "cancelled=true")

	// One confirmation email to the traveler.
	s.Require().Len(s.mailer.sent, 1)
	s.Equal("maria.santos@example.com", s.mailer.sent[0].To)
	s.Equal("Maria Santos", s.mailer.sent[0].Name)
	s.Equal(result.Reference, s.mailer.sent[0].Reference)
	s.Equal(36.70, s.mailer.sent[0].Amount)
}

func (s *ApplicationServiceSuite) TestAgencySubmission() {
	result, err := s.service.SubmitAgency(context.Background(), validAgencyForm(), nil, "pt")
	s.Require().NoError(err)

	app, err := s.service.GetByReference(context.Background(), result.Reference)
	s.Require().NoError(err)
	s.Equal(models.ApplicationTypeAgency, app.Type)
	s.Equal(63.55, app.PaymentAmount)
	s.Equal("bookings@atlantictravel.example.com", app.Email)

	// The agency record shares the application's identity.
	s.Require().NotNil(app.Agency)
	s.Equal(app.ID, app.Agency.ApplicationID)
	s.Equal("Atlantic Travel", app.Agency.AgencyName)

	// Confirmation goes to the agency, addressed to the contact person.
	s.Require().Len(s.mailer.sent, 1)
	s.Equal("bookings@atlantictravel.example.com", s.mailer.sent[0].To)
	s.Equal("Carlos Mendes", s.mailer.sent[0].Name)
	s.Equal("pt", s.mailer.sent[0].Lang)
}

func (s *ApplicationServiceSuite) TestSubmissionWithDocument() {
	doc := &DocumentUpload{
		Filename:    "Passport.PDF",
		ContentType: "application/pdf",
		Body:        strings.NewReader("%PDF-1.4 fake"),
	}

	result, err := s.service.SubmitTourist(context.Background(), validTouristForm(), doc, "en")
	s.Require().NoError(err)

	var app models.Application
	s.Require().NoError(s.db.Where("reference_number = ?", result.Reference).First(&app).Error)

	s.Require().Len(s.store.keys, 1)
	s.Equal(fmt.Sprintf("%s/passport.pdf", app.ID), s.store.keys[0])
	s.Equal(s.store.keys[0], app.DocumentKey)
}

func (s *ApplicationServiceSuite) TestUploadFailureKeepsApplication() {
	s.store.err = errors.New("bucket unavailable")
	doc := &DocumentUpload{
		Filename:    "passport.jpg",
		ContentType: "image/jpeg",
		Body:        strings.NewReader("not really a jpeg"),
	}

	_, err := s.service.SubmitTourist(context.Background(), validTouristForm(), doc, "en")
	s.Require().Error(err)

	var subErr *SubmissionError
	s.Require().ErrorAs(err, &subErr)
	s.Equal(StageUpload, subErr.Stage)
	s.NotEmpty(subErr.Reference)

	// The application survives the failed upload and stays queryable.
	app, err := s.service.GetByReference(context.Background(), subErr.Reference)
	s.Require().NoError(err)
	s.Empty(app.DocumentKey)
	s.Empty(s.mailer.sent)
	s.Equal(0, s.gateway.calls)
}

func (s *ApplicationServiceSuite) TestPaymentSessionFailureKeepsApplication() {
	s.gateway.err = errors.New("gateway timeout")

	_, err := s.service.SubmitTourist(context.Background(), validTouristForm(), nil, "en")
	s.Require().Error(err)

	var subErr *SubmissionError
	s.Require().ErrorAs(err, &subErr)
	s.Equal(StagePaymentSession, subErr.Stage)
	s.Equal("PAYMENT_SESSION_FAILED", subErr.Stage.Code())
	s.NotEmpty(subErr.Reference)

	app, err := s.service.GetByReference(context.Background(), subErr.Reference)
	s.Require().NoError(err)
	s.Equal(models.StatusPendingPayment, app.Status)
	s.Empty(s.mailer.sent)
}

func (s *ApplicationServiceSuite) TestMailerFailureDoesNotFailSubmission() {
	s.mailer.err = errors.New("smtp refused")

	result, err := s.service.SubmitTourist(context.Background(), validTouristForm(), nil, "en")
	s.Require().NoError(err)
	s.NotEmpty(result.PaymentURL)
}

func (s *ApplicationServiceSuite) TestGetByReferenceNotFound() {
	_, err := s.service.GetByReference(context.Background(), "CV-20260101-DEADBEEF")
	s.ErrorIs(err, ErrApplicationNotFound)
}

func (s *ApplicationServiceSuite) TestConfirmPaymentSuccess() {
	result, err := s.service.SubmitTourist(context.Background(), validTouristForm(), nil, "en")
	s.Require().NoError(err)

	app, err := s.service.ConfirmPayment(context.Background(), result.Reference, true)
	s.Require().NoError(err)
	s.Equal(models.PaymentStatusPaid, app.PaymentStatus)
	s.Equal(models.StatusPaymentReceived, app.Status)

	// Idempotent: a repeat success changes nothing.
	app, err = s.service.ConfirmPayment(context.Background(), result.Reference, true)
	s.Require().NoError(err)
	s.Equal(models.PaymentStatusPaid, app.PaymentStatus)
	s.Equal(models.StatusPaymentReceived, app.Status)

	// Paid is sticky: a late failure report never reverts it.
	app, err = s.service.ConfirmPayment(context.Background(), result.Reference, false)
	s.Require().NoError(err)
	s.Equal(models.PaymentStatusPaid, app.PaymentStatus)
	s.Equal(models.StatusPaymentReceived, app.Status)
}

func (s *ApplicationServiceSuite) TestConfirmPaymentFailureThenRetry() {
	result, err := s.service.SubmitTourist(context.Background(), validTouristForm(), nil, "en")
	s.Require().NoError(err)

	app, err := s.service.ConfirmPayment(context.Background(), result.Reference, false)
	s.Require().NoError(err)
	s.Equal(models.PaymentStatusFailed, app.PaymentStatus)
	// A failed payment leaves the application awaiting payment.
	s.Equal(models.StatusPendingPayment, app.Status)

	// The traveler can retry and succeed.
	app, err = s.service.ConfirmPayment(context.Background(), result.Reference, true)
	s.Require().NoError(err)
	s.Equal(models.PaymentStatusPaid, app.PaymentStatus)
	s.Equal(models.StatusPaymentReceived, app.Status)
}

func (s *ApplicationServiceSuite) TestConfirmPaymentUnknownReference() {
	_, err := s.service.ConfirmPayment(context.Background(), "CV-20260101-00000000", true)
	s.ErrorIs(err, ErrApplicationNotFound)
}

func TestApplicationServiceSuite(t *testing.T) {
	suite.Run(t, new(ApplicationServiceSuite))
}
