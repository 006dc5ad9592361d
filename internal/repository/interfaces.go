package repository

import (
	"context"

	"github.com/alexanderramin/gradebook/internal/domain"
)

type CurriculumRepo interface {
	CreateStage(ctx context.Context, s *domain.Stage) error
	GetStage(ctx context.Context, id string) (*domain.Stage, error)
	CreateItem(ctx context.Context, item *domain.CurriculumItem) error
	// ListHierarchyRows returns the flattened hierarchy of a stage in
	// display order. Levels below the deepest stored node are empty.
	ListHierarchyRows(ctx context.Context, stageID string) ([]domain.HierarchyRow, error)
	ContentGroupName(ctx context.Context, id string) (string, error)
	// ContentPointGroup returns the content group a content point belongs to.
	ContentPointGroup(ctx context.Context, contentPointID string) (string, error)
}

type GradeScaleRepo interface {
	Create(ctx context.Context, s *domain.GradeScale) error
	GetByID(ctx context.Context, id string) (*domain.GradeScale, error)
	List(ctx context.Context) ([]domain.GradeScale, error)
}

type ClassRepo interface {
	Create(ctx context.Context, c *domain.Class) error
	GetByID(ctx context.Context, id string) (*domain.Class, error)
	List(ctx context.Context) ([]*domain.Class, error)
}

type EnrollmentRepo interface {
	Create(ctx context.Context, e *domain.Enrollment) error
	GetByID(ctx context.Context, id string) (*domain.Enrollment, error)
	ListByClass(ctx context.Context, classID string) ([]*domain.Enrollment, error)
}

type PlanItemRepo interface {
	Create(ctx context.Context, p *domain.PlanItem) error
	GetByID(ctx context.Context, id string) (*domain.PlanItem, error)
	ListByClass(ctx context.Context, classID string) ([]*domain.PlanItem, error)
}

type AssessmentRepo interface {
	Create(ctx context.Context, r *domain.GradeRecord) error
	Update(ctx context.Context, r *domain.GradeRecord) error
	GetByID(ctx context.Context, id string) (*domain.GradeRecord, error)
	GetByKey(ctx context.Context, key domain.AssessmentKey) (*domain.GradeRecord, error)
	ListByEnrollments(ctx context.Context, enrollmentIDs []string) ([]*domain.GradeRecord, error)
	// DeleteByKey removes the record at key and reports whether one existed.
	DeleteByKey(ctx context.Context, key domain.AssessmentKey) (bool, error)
}
