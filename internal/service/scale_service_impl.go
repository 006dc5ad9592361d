package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/alexanderramin/gradebook/internal/domain"
	"github.com/alexanderramin/gradebook/internal/repository"
)

type gradeScaleService struct {
	scales repository.GradeScaleRepo
}

func NewGradeScaleService(scales repository.GradeScaleRepo) GradeScaleService {
	return &gradeScaleService{scales: scales}
}

func (s *gradeScaleService) List(ctx context.Context) ([]domain.GradeScale, error) {
	return s.scales.List(ctx)
}

func (s *gradeScaleService) Resolve(ctx context.Context, idOrName string) (*domain.GradeScale, error) {
	scale, err := s.scales.GetByID(ctx, idOrName)
	if err == nil {
		return scale, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	all, err := s.scales.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range all {
		if strings.EqualFold(all[i].Name, idOrName) {
			return &all[i], nil
		}
	}
	return nil, fmt.Errorf("grade scale %q: %w", idOrName, repository.ErrNotFound)
}

type classService struct {
	classes     repository.ClassRepo
	enrollments repository.EnrollmentRepo
	planItems   repository.PlanItemRepo
}

func NewClassService(classes repository.ClassRepo, enrollments repository.EnrollmentRepo, planItems repository.PlanItemRepo) ClassService {
	return &classService{classes: classes, enrollments: enrollments, planItems: planItems}
}

func (s *classService) GetByID(ctx context.Context, id string) (*domain.Class, error) {
	return s.classes.GetByID(ctx, id)
}

func (s *classService) List(ctx context.Context) ([]*domain.Class, error) {
	return s.classes.List(ctx)
}

func (s *classService) ListEnrollments(ctx context.Context, classID string) ([]*domain.Enrollment, error) {
	return s.enrollments.ListByClass(ctx, classID)
}

func (s *classService) ListPlanItems(ctx context.Context, classID string) ([]*domain.PlanItem, error) {
	return s.planItems.ListByClass(ctx, classID)
}

func (s *classService) GetPlanItem(ctx context.Context, id string) (*domain.PlanItem, error) {
	return s.planItems.GetByID(ctx, id)
}
