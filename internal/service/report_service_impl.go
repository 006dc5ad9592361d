package service

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/alexanderramin/gradebook/internal/app"
	"github.com/alexanderramin/gradebook/internal/curriculum"
	"github.com/alexanderramin/gradebook/internal/domain"
	"github.com/alexanderramin/gradebook/internal/grading"
	"github.com/alexanderramin/gradebook/internal/repository"
	"golang.org/x/sync/errgroup"
)

type reportService struct {
	classes     repository.ClassRepo
	enrollments repository.EnrollmentRepo
	curriculum  repository.CurriculumRepo
	scales      repository.GradeScaleRepo
	assessments repository.AssessmentRepo
	observer    UseCaseObserver
}

func NewReportService(
	classes repository.ClassRepo,
	enrollments repository.EnrollmentRepo,
	curriculum repository.CurriculumRepo,
	scales repository.GradeScaleRepo,
	assessments repository.AssessmentRepo,
	observers ...UseCaseObserver,
) ReportService {
	return &reportService{
		classes:     classes,
		enrollments: enrollments,
		curriculum:  curriculum,
		scales:      scales,
		assessments: assessments,
		observer:    useCaseObserverOrNoop(observers),
	}
}

// BuildReports loads one snapshot of the class's curriculum, scales and
// grade records, then aggregates each student independently.
func (s *reportService) BuildReports(ctx context.Context, req app.ReportRequest) (resp *app.ReportResponse, err error) {
	startedAt := time.Now()
	fields := map[string]any{"class_id": req.ClassID}
	defer func() {
		observe(ctx, s.observer, useCaseBuildReports, startedAt, err, fields)
	}()

	if req.ClassID == "" {
		return nil, &app.ReportError{Code: app.ReportErrInvalidScope, Message: "class id is required"}
	}
	if req.TopN < 0 {
		return nil, &app.ReportError{Code: app.ReportErrInvalidScope, Message: "top must not be negative"}
	}

	class, err := s.classes.GetByID(ctx, req.ClassID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &app.ReportError{Code: app.ReportErrInvalidScope, Message: "class " + req.ClassID + " not found"}
		}
		return nil, fmt.Errorf("loading class: %w", err)
	}

	enrollments, err := s.enrollments.ListByClass(ctx, class.ID)
	if err != nil {
		return nil, fmt.Errorf("loading enrollments: %w", err)
	}
	enrollments, err = selectEnrollments(enrollments, req.EnrollmentIDs)
	if err != nil {
		return nil, err
	}

	rows, err := s.curriculum.ListHierarchyRows(ctx, class.StageID)
	if err != nil {
		return nil, fmt.Errorf("loading curriculum: %w", err)
	}
	tree := curriculum.Build(rows)

	scales, err := s.scales.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading grade scales: %w", err)
	}
	resolver := grading.NewScaleResolver(scales)

	ids := make([]string, len(enrollments))
	for i, e := range enrollments {
		ids[i] = e.ID
	}
	records, err := s.assessments.ListByEnrollments(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("loading assessments: %w", err)
	}
	indexes := grading.IndexByEnrollment(records)

	fields["students"] = len(enrollments)
	fields["curriculum_nodes"] = tree.Len()
	fields["assessments"] = len(records)

	reports := make([]grading.StudentReport, len(enrollments))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, e := range enrollments {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			reports[i] = grading.BuildStudentReport(*e, tree, indexes[e.ID], resolver, req.TopN)
			return nil
		})
	}
	if err = g.Wait(); err != nil {
		return nil, fmt.Errorf("building reports: %w", err)
	}

	return &app.ReportResponse{
		ClassID:   class.ID,
		ClassName: class.Name,
		StageID:   class.StageID,
		Students:  reports,
	}, nil
}

// selectEnrollments keeps the enrollments named in ids, in class order. An
// empty ids keeps all of them.
func selectEnrollments(all []*domain.Enrollment, ids []string) ([]*domain.Enrollment, error) {
	if len(ids) == 0 {
		return all, nil
	}
	wanted := make(map[string]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}
	var out []*domain.Enrollment
	for _, e := range all {
		if wanted[e.ID] {
			out = append(out, e)
			delete(wanted, e.ID)
		}
	}
	for _, id := range ids {
		if wanted[id] {
			return nil, &app.ReportError{Code: app.ReportErrInvalidScope, Message: "enrollment " + id + " is not in this class"}
		}
	}
	return out, nil
}
