// internal/models/application_test.go
package models

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusTransitionsForwardOnly(t *testing.T) {
	assert.True(t, StatusPendingPayment.CanTransitionTo(StatusPaymentReceived))
	assert.True(t, StatusPaymentReceived.CanTransitionTo(StatusProcessing))
	assert.True(t, StatusProcessing.CanTransitionTo(StatusApproved))
	assert.True(t, StatusProcessing.CanTransitionTo(StatusRejected))

	// No skipping ahead
	assert.False(t, StatusPendingPayment.CanTransitionTo(StatusProcessing))
	assert.False(t, StatusPendingPayment.CanTransitionTo(StatusApproved))
	assert.False(t, StatusPaymentReceived.CanTransitionTo(StatusApproved))

	// No going backward
	assert.False(t, StatusPaymentReceived.CanTransitionTo(StatusPendingPayment))
	assert.False(t, StatusProcessing.CanTransitionTo(StatusPaymentReceived))
}

func TestTerminalStatusesAllowNothing(t *testing.T) {
	for _, terminal := range []ApplicationStatus{StatusApproved, StatusRejected} {
		assert.True(t, terminal.IsTerminal())
		for _, next := range []ApplicationStatus{
			StatusPendingPayment, StatusPaymentReceived, StatusProcessing, StatusApproved, StatusRejected,
		} {
			assert.False(t, terminal.CanTransitionTo(next), "%s -> %s", terminal, next)
		}
	}
}

func TestAdvanceStatusRejectsInvalidTransition(t *testing.T) {
	app := &Application{Status: StatusPendingPayment}

	err := app.AdvanceStatus(StatusApproved)
	assert.ErrorIs(t, err, ErrInvalidStatusTransition)
	assert.Equal(t, StatusPendingPayment, app.Status)

	assert.NoError(t, app.AdvanceStatus(StatusPaymentReceived))
	assert.Equal(t, StatusPaymentReceived, app.Status)
}

func TestPaymentStatusPaidIsSticky(t *testing.T) {
	app := &Application{PaymentStatus: PaymentStatusUnpaid}

	assert.NoError(t, app.SetPaymentStatus(PaymentStatusPaid))
	assert.Equal(t, PaymentStatusPaid, app.PaymentStatus)

	err := app.SetPaymentStatus(PaymentStatusUnpaid)
	assert.ErrorIs(t, err, ErrPaymentStatusFinal)
	assert.Equal(t, PaymentStatusPaid, app.PaymentStatus)

	err = app.SetPaymentStatus(PaymentStatusFailed)
	assert.ErrorIs(t, err, ErrPaymentStatusFinal)
	assert.Equal(t, PaymentStatusPaid, app.PaymentStatus)
}

func TestStatusValid(t *testing.T) {
	for _, s := range []ApplicationStatus{
		StatusPendingPayment, StatusPaymentReceived, StatusProcessing, StatusApproved, StatusRejected,
	} {
		assert.True(t, s.Valid())
	}
	assert.False(t, ApplicationStatus("cancelled").Valid())
}

func TestNewReferenceNumberShape(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		ref, err := newReferenceNumber()
		assert.NoError(t, err)
		assert.True(t, strings.HasPrefix(ref, "CV-"))
		assert.Len(t, ref, 20)
		assert.False(t, seen[ref], "duplicate reference %s", ref)
		seen[ref] = true
	}
}

func TestTravelerName(t *testing.T) {
	app := &Application{GivenNames: "Maria", LastNames: "Santos"}
	assert.Equal(t, "Maria Santos", app.TravelerName())
}
