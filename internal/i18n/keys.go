// internal/i18n/keys.go
package i18n

// Translation keys constants
const (
	// Common
	KeySuccess = "success"
	KeyError   = "error"

	// Authentication (admin API)
	KeyAuthRequired           = "auth.required"
	KeyAuthInvalidToken       = "auth.invalid_token"
	KeyAuthTokenExpired       = "auth.token_expired"
	KeyAuthInvalidCredentials = "auth.invalid_credentials"
	KeyAuthLoginSuccess       = "auth.login_success"
	KeyAdminAccessDenied      = "admin.access_denied"

	// Applications
	KeyApplicationSubmitted     = "application.submitted"
	KeyApplicationSubmitFailed  = "application.submit_failed"
	KeyApplicationNotFound      = "application.not_found"
	KeyApplicationStatusUpdated = "application.status_updated"
	KeyApplicationBadTransition = "application.bad_transition"

	// Application statuses
	KeyStatusPendingPayment  = "status.pending_payment"
	KeyStatusPaymentReceived = "status.payment_received"
	KeyStatusProcessing      = "status.processing"
	KeyStatusApproved        = "status.approved"
	KeyStatusRejected        = "status.rejected"

	// Payments
	KeyPaymentConfirmed = "payment.confirmed"
	KeyPaymentFailed    = "payment.failed"
	KeyPaymentNotFound  = "payment.not_found"

	// Services
	KeyServiceEaseName        = "service.ease.name"
	KeyServiceEaseDescription = "service.ease.description"
	KeyServiceVisaName        = "service.visa.name"
	KeyServiceVisaDescription = "service.visa.description"

	// Email
	KeyEmailConfirmationSubject = "email.confirmation_subject"

	// Validation
	KeyValidationRequired = "validation.required"
	KeyValidationInvalid  = "validation.invalid"
)
