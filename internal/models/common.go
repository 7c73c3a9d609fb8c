// internal/models/common.go
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base model with common fields
type BaseModel struct {
	ID        uuid.UUID      `json:"id" gorm:"type:uuid;primary_key"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

// Enums
type ApplicationType string

const (
	ApplicationTypeTourist ApplicationType = "tourist"
	ApplicationTypeAgency  ApplicationType = "agency"
)

type ApplicationStatus string

const (
	StatusPendingPayment  ApplicationStatus = "pending_payment"
	StatusPaymentReceived ApplicationStatus = "payment_received"
	StatusProcessing      ApplicationStatus = "processing"
	StatusApproved        ApplicationStatus = "approved"
	StatusRejected        ApplicationStatus = "rejected"
)

type PaymentStatus string

const (
	PaymentStatusUnpaid PaymentStatus = "unpaid"
	PaymentStatusPaid   PaymentStatus = "paid"
	PaymentStatusFailed PaymentStatus = "failed"
)

// statusTransitions describes the forward-only application lifecycle:
// pending_payment -> payment_received -> processing -> approved | rejected.
// Approved and rejected are terminal.
var statusTransitions = map[ApplicationStatus][]ApplicationStatus{
	StatusPendingPayment:  {StatusPaymentReceived},
	StatusPaymentReceived: {StatusProcessing},
	StatusProcessing:      {StatusApproved, StatusRejected},
	StatusApproved:        {},
	StatusRejected:        {},
}

// CanTransitionTo reports whether the lifecycle allows moving from s to next.
func (s ApplicationStatus) CanTransitionTo(next ApplicationStatus) bool {
	for _, allowed := range statusTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further status transitions are allowed.
func (s ApplicationStatus) IsTerminal() bool {
	return len(statusTransitions[s]) == 0
}

// Valid reports whether s is one of the five defined statuses.
func (s ApplicationStatus) Valid() bool {
	_, ok := statusTransitions[s]
	return ok
}
