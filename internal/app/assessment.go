package app

import (
	"errors"
	"strings"

	"github.com/alexanderramin/gradebook/internal/domain"
)

// PersistAssessmentRequest is the desired state of one grading cell.
type PersistAssessmentRequest struct {
	EnrollmentID     string  `validate:"required,gb_id"`
	PlanItemID       string  `validate:"required,gb_id"`
	ContentGroupID   string  `validate:"required,gb_id"`
	ContentPointID   *string `validate:"omitempty,gb_id"`
	GradeScaleID     string  `validate:"required,gb_id"`
	Notes            *string `validate:"omitempty,max=4000"`
	ExistingRecordID *string `validate:"omitempty,gb_id"`
}

// Key returns the assessment key the request targets.
func (r PersistAssessmentRequest) Key() domain.AssessmentKey {
	return domain.AssessmentKey{
		EnrollmentID:   r.EnrollmentID,
		ContentGroupID: r.ContentGroupID,
		ContentPointID: domain.StrFromPtrWithDefault("", r.ContentPointID),
	}
}

// ClearAssessmentRequest removes the current record at a key.
type ClearAssessmentRequest struct {
	EnrollmentID   string  `validate:"required,gb_id"`
	PlanItemID     string  `validate:"omitempty,gb_id"`
	ContentGroupID string  `validate:"required,gb_id"`
	ContentPointID *string `validate:"omitempty,gb_id"`
}

// Key returns the assessment key the request targets.
func (r ClearAssessmentRequest) Key() domain.AssessmentKey {
	return domain.AssessmentKey{
		EnrollmentID:   r.EnrollmentID,
		ContentGroupID: r.ContentGroupID,
		ContentPointID: domain.StrFromPtrWithDefault("", r.ContentPointID),
	}
}

type PersistErrorCode string

const (
	PersistErrValidation       PersistErrorCode = "VALIDATION"
	PersistErrDuplicate        PersistErrorCode = "DUPLICATE"
	PersistErrInvalidReference PersistErrorCode = "INVALID_REFERENCE"
	PersistErrNotFound         PersistErrorCode = "NOT_FOUND"
	PersistErrUnavailable      PersistErrorCode = "UNAVAILABLE"
)

// FieldError names one rejected field of a request.
type FieldError struct {
	Field   string
	Message string
}

// PersistError is the failure reported by the persist and clear operations.
type PersistError struct {
	Code    PersistErrorCode
	Message string
	Fields  []FieldError
	Err     error
}

func (e *PersistError) Error() string {
	msg := string(e.Code) + ": " + e.Message
	if len(e.Fields) > 0 {
		parts := make([]string, 0, len(e.Fields))
		for _, f := range e.Fields {
			parts = append(parts, f.Field+" "+f.Message)
		}
		msg += " (" + strings.Join(parts, "; ") + ")"
	}
	return msg
}

func (e *PersistError) Unwrap() error {
	return e.Err
}

// PersistErrorCodeOf returns the code of a *PersistError in err's chain, or
// PersistErrUnavailable for any other error.
func PersistErrorCodeOf(err error) PersistErrorCode {
	var pe *PersistError
	if errors.As(err, &pe) {
		return pe.Code
	}
	return PersistErrUnavailable
}

// UserMessage renders err for display in the grading surface.
func UserMessage(err error) string {
	var pe *PersistError
	if !errors.As(err, &pe) {
		return "could not save: " + err.Error()
	}
	switch pe.Code {
	case PersistErrValidation:
		return "invalid grade: " + pe.Error()
	case PersistErrDuplicate:
		return "an assessment already exists for this cell"
	case PersistErrInvalidReference:
		return "unknown student, plan item or grade: " + pe.Message
	case PersistErrNotFound:
		return "assessment no longer exists"
	default:
		return "storage unavailable: " + pe.Message
	}
}
