// internal/models/application.go
package models

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrInvalidStatusTransition = errors.New("invalid status transition")
	ErrPaymentStatusFinal      = errors.New("payment status can no longer change")
)

// Application is one traveler's visa/EASE pre-registration request.
// The ID and reference number are assigned here, once, at creation; callers
// must treat both as opaque.
type Application struct {
	BaseModel
	Type            ApplicationType `json:"type" gorm:"type:varchar(20);not null;index"`
	ReferenceNumber string          `json:"reference_number" gorm:"size:24;uniqueIndex;not null"`
	Email           string          `json:"email" gorm:"size:255;not null"`

	GivenNames       string `json:"given_names" gorm:"size:100;not null"`
	LastNames        string `json:"last_names" gorm:"size:100;not null"`
	Sex              string `json:"sex" gorm:"size:1;not null"`
	BirthDate        string `json:"birth_date" gorm:"size:10;not null"`
	BirthPlace       string `json:"birth_place" gorm:"size:100;not null"`
	ResidenceCountry string `json:"residence_country" gorm:"size:100;not null"`
	Nationality      string `json:"nationality" gorm:"size:100;not null"`

	PassportNumber   string `json:"passport_number" gorm:"size:50;not null"`
	PassportValidity string `json:"passport_validity" gorm:"size:10;not null"`
	PassportIssuer   string `json:"passport_issuer" gorm:"size:100;not null"`

	FlightNumber  string `json:"flight_number" gorm:"size:20;not null"`
	ArrivalDate   string `json:"arrival_date" gorm:"size:10;not null"`
	DepartureDate string `json:"departure_date" gorm:"size:10;not null"`
	ArrivalCity   string `json:"arrival_city" gorm:"size:100;not null"`

	HasExistingVisa      bool   `json:"has_existing_visa" gorm:"not null"`
	AccommodationName    string `json:"accommodation_name" gorm:"size:150;not null"`
	AccommodationAddress string `json:"accommodation_address" gorm:"size:255;not null"`
	AccommodationCity    string `json:"accommodation_city" gorm:"size:100;not null"`

	// Total fee in euros, computed at submission and never recomputed.
	PaymentAmount float64           `json:"payment_amount" gorm:"type:decimal(10,2);not null"`
	Status        ApplicationStatus `json:"status" gorm:"type:varchar(20);default:'pending_payment';index"`
	PaymentStatus PaymentStatus     `json:"payment_status" gorm:"type:varchar(10);default:'unpaid'"`

	// Storage key of the uploaded passport copy, empty until upload succeeds.
	DocumentKey string `json:"document_key,omitempty" gorm:"size:255"`

	Agency *AgencyApplication `json:"agency,omitempty" gorm:"foreignKey:ApplicationID"`
}

// AgencyApplication extends an Application of type agency 1:1, sharing its
// identity as foreign key.
type AgencyApplication struct {
	ApplicationID uuid.UUID `json:"application_id" gorm:"type:uuid;primaryKey"`
	AgencyName    string    `json:"agency_name" gorm:"size:150;not null"`
	AgencyContact string    `json:"agency_contact" gorm:"size:100;not null"`
	AgencyEmail   string    `json:"agency_email" gorm:"size:255;not null"`
	AgencyPhone   string    `json:"agency_phone" gorm:"size:30;not null"`
	AgencyAddress string    `json:"agency_address" gorm:"size:255;not null"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// BeforeCreate assigns identity and the shareable reference number exactly
// once. Both are immutable afterwards.
func (a *Application) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.ReferenceNumber == "" {
		ref, err := newReferenceNumber()
		if err != nil {
			return err
		}
		a.ReferenceNumber = ref
	}
	if a.Status == "" {
		a.Status = StatusPendingPayment
	}
	if a.PaymentStatus == "" {
		a.PaymentStatus = PaymentStatusUnpaid
	}
	return nil
}

// AdvanceStatus moves the application forward along the lifecycle. Backward
// or skipping transitions are rejected.
func (a *Application) AdvanceStatus(next ApplicationStatus) error {
	if !a.Status.CanTransitionTo(next) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidStatusTransition, a.Status, next)
	}
	a.Status = next
	return nil
}

// SetPaymentStatus records a payment outcome. Paid is sticky: once an
// application is paid it never reverts.
func (a *Application) SetPaymentStatus(next PaymentStatus) error {
	if a.PaymentStatus == PaymentStatusPaid && next != PaymentStatusPaid {
		return ErrPaymentStatusFinal
	}
	a.PaymentStatus = next
	return nil
}

// TravelerName is the full name used in confirmation messages.
func (a *Application) TravelerName() string {
	return strings.TrimSpace(a.GivenNames + " " + a.LastNames)
}

func newReferenceNumber() (string, error) {
	buf := make([]byte, 4)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate reference number: %w", err)
	}
	date := time.Now().UTC().Format("20060102")
	return fmt.Sprintf("CV-%s-%s", date, strings.ToUpper(hex.EncodeToString(buf))), nil
}
