// internal/services/errors.go
package services

import (
	"errors"
	"fmt"
)

var (
	ErrApplicationNotFound = errors.New("application not found")
)

// WorkflowStage names the submission step that failed. The stages exist for
// logging and error codes, not for differentiated user messaging: the user
// always sees the generic localized submit-failed message.
type WorkflowStage string

const (
	StagePersistence    WorkflowStage = "persistence"
	StageUpload         WorkflowStage = "upload"
	StagePaymentSession WorkflowStage = "payment_session"
	StageNotification   WorkflowStage = "notification"
)

// Code is the machine-readable error code surfaced in API responses.
func (s WorkflowStage) Code() string {
	switch s {
	case StagePersistence:
		return "PERSISTENCE_FAILED"
	case StageUpload:
		return "UPLOAD_FAILED"
	case StagePaymentSession:
		return "PAYMENT_SESSION_FAILED"
	case StageNotification:
		return "NOTIFICATION_FAILED"
	default:
		return "SUBMISSION_FAILED"
	}
}

// SubmissionError wraps a failure in one step of the submission workflow.
// Reference is empty when the failure happened before a row was persisted.
type SubmissionError struct {
	Stage     WorkflowStage
	Reference string
	Err       error
}

func (e *SubmissionError) Error() string {
	if e.Reference != "" {
		return fmt.Sprintf("submission failed at %s stage (reference %s): %v", e.Stage, e.Reference, e.Err)
	}
	return fmt.Sprintf("submission failed at %s stage: %v", e.Stage, e.Err)
}

func (e *SubmissionError) Unwrap() error {
	return e.Err
}
