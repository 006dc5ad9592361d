package service

import (
	"context"

	"github.com/alexanderramin/gradebook/internal/app"
	"github.com/alexanderramin/gradebook/internal/domain"
)

// ReportService computes per-student curriculum reports for a class.
type ReportService interface {
	app.ReportUseCase
}

// AssessmentService is the single write path for grade records.
type AssessmentService interface {
	app.PersistAssessmentUseCase
}

// GridService loads the state a grading grid starts from.
type GridService interface {
	app.LoadGridUseCase
}

type GradeScaleService interface {
	List(ctx context.Context) ([]domain.GradeScale, error)
	// Resolve finds a scale by id, or by case-insensitive name.
	Resolve(ctx context.Context, idOrName string) (*domain.GradeScale, error)
}

type ClassService interface {
	GetByID(ctx context.Context, id string) (*domain.Class, error)
	List(ctx context.Context) ([]*domain.Class, error)
	ListEnrollments(ctx context.Context, classID string) ([]*domain.Enrollment, error)
	ListPlanItems(ctx context.Context, classID string) ([]*domain.PlanItem, error)
	GetPlanItem(ctx context.Context, id string) (*domain.PlanItem, error)
}
