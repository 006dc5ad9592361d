package app

import (
	"context"

	"github.com/alexanderramin/gradebook/internal/domain"
)

type ReportUseCase interface {
	BuildReports(ctx context.Context, req ReportRequest) (*ReportResponse, error)
}

// PersistAssessmentUseCase is the write boundary the grading surface talks to.
type PersistAssessmentUseCase interface {
	PersistAssessment(ctx context.Context, req PersistAssessmentRequest) (*domain.GradeRecord, error)
	ClearAssessment(ctx context.Context, req ClearAssessmentRequest) error
}

type LoadGridUseCase interface {
	LoadGrid(ctx context.Context, classID string) (*Grid, error)
}
