package app

import "github.com/alexanderramin/gradebook/internal/grading"

// ReportRequest selects the students of a class to report on.
type ReportRequest struct {
	ClassID string
	// EnrollmentIDs narrows the report; empty means every enrollment.
	EnrollmentIDs []string
	TopN          int
}

func NewReportRequest(classID string) ReportRequest {
	return ReportRequest{
		ClassID: classID,
		TopN:    grading.DefaultRankSize,
	}
}

type ReportResponse struct {
	ClassID   string
	ClassName string
	StageID   string
	Students  []grading.StudentReport
}

type ReportErrorCode string

const (
	ReportErrInvalidScope ReportErrorCode = "INVALID_SCOPE"
)

type ReportError struct {
	Code    ReportErrorCode
	Message string
}

func (e *ReportError) Error() string {
	return string(e.Code) + ": " + e.Message
}
