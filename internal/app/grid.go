package app

import "github.com/alexanderramin/gradebook/internal/domain"

// GridColumn is one plan item of the grading grid.
type GridColumn struct {
	PlanItem         domain.PlanItem
	ContentGroupName string
}

// Grid is the state a grading surface starts from.
type Grid struct {
	Class       domain.Class
	Enrollments []*domain.Enrollment
	Columns     []GridColumn
	Assessments []*domain.GradeRecord
	Scales      []domain.GradeScale
}
