package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/gradebook/internal/app"
	"github.com/alexanderramin/gradebook/internal/repository"
)

type gridService struct {
	classes     repository.ClassRepo
	enrollments repository.EnrollmentRepo
	planItems   repository.PlanItemRepo
	curriculum  repository.CurriculumRepo
	scales      repository.GradeScaleRepo
	assessments repository.AssessmentRepo
	observer    UseCaseObserver
}

func NewGridService(
	classes repository.ClassRepo,
	enrollments repository.EnrollmentRepo,
	planItems repository.PlanItemRepo,
	curriculum repository.CurriculumRepo,
	scales repository.GradeScaleRepo,
	assessments repository.AssessmentRepo,
	observers ...UseCaseObserver,
) GridService {
	return &gridService{
		classes:     classes,
		enrollments: enrollments,
		planItems:   planItems,
		curriculum:  curriculum,
		scales:      scales,
		assessments: assessments,
		observer:    useCaseObserverOrNoop(observers),
	}
}

func (s *gridService) LoadGrid(ctx context.Context, classID string) (grid *app.Grid, err error) {
	startedAt := time.Now()
	fields := map[string]any{"class_id": classID}
	defer func() {
		observe(ctx, s.observer, useCaseLoadGrid, startedAt, err, fields)
	}()

	class, err := s.classes.GetByID(ctx, classID)
	if err != nil {
		return nil, fmt.Errorf("loading class: %w", err)
	}
	enrollments, err := s.enrollments.ListByClass(ctx, class.ID)
	if err != nil {
		return nil, fmt.Errorf("loading enrollments: %w", err)
	}
	items, err := s.planItems.ListByClass(ctx, class.ID)
	if err != nil {
		return nil, fmt.Errorf("loading plan items: %w", err)
	}

	names := make(map[string]string)
	columns := make([]app.GridColumn, 0, len(items))
	for _, item := range items {
		name, ok := names[item.ContentGroupID]
		if !ok {
			name, err = s.curriculum.ContentGroupName(ctx, item.ContentGroupID)
			if err != nil {
				return nil, fmt.Errorf("loading content group for plan item %s: %w", item.ID, err)
			}
			names[item.ContentGroupID] = name
		}
		columns = append(columns, app.GridColumn{PlanItem: *item, ContentGroupName: name})
	}

	ids := make([]string, len(enrollments))
	for i, e := range enrollments {
		ids[i] = e.ID
	}
	records, err := s.assessments.ListByEnrollments(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("loading assessments: %w", err)
	}
	scales, err := s.scales.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading grade scales: %w", err)
	}

	fields["students"] = len(enrollments)
	fields["columns"] = len(columns)
	return &app.Grid{
		Class:       *class,
		Enrollments: enrollments,
		Columns:     columns,
		Assessments: records,
		Scales:      scales,
	}, nil
}
