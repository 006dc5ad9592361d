package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/gradebook/internal/app"
	"github.com/alexanderramin/gradebook/internal/db"
	"github.com/alexanderramin/gradebook/internal/domain"
	"github.com/alexanderramin/gradebook/internal/repository"
	"github.com/google/uuid"
)

type assessmentService struct {
	uow       db.UnitOfWork
	validator *requestValidator
	observer  UseCaseObserver
	now       func() time.Time
}

func NewAssessmentService(uow db.UnitOfWork, observers ...UseCaseObserver) AssessmentService {
	return &assessmentService{
		uow:       uow,
		validator: newRequestValidator(),
		observer:  useCaseObserverOrNoop(observers),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// PersistAssessment makes req the current record at its key: the record
// named by ExistingRecordID, else the one already stored at the key, is
// updated; otherwise a new record is created.
func (s *assessmentService) PersistAssessment(ctx context.Context, req app.PersistAssessmentRequest) (saved *domain.GradeRecord, err error) {
	startedAt := time.Now()
	fields := map[string]any{
		"enrollment_id":    req.EnrollmentID,
		"content_group_id": req.ContentGroupID,
	}
	defer func() {
		observe(ctx, s.observer, useCasePersistAssessment, startedAt, err, fields)
	}()

	if err = s.validator.check(req); err != nil {
		return nil, err
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if err := checkReferences(ctx, tx, req); err != nil {
			return err
		}

		assessments := repository.NewSQLiteAssessmentRepo(tx)
		current, err := findCurrent(ctx, assessments, req)
		if err != nil {
			return err
		}

		now := s.now()
		if current == nil {
			rec := &domain.GradeRecord{
				ID:             uuid.New().String(),
				EnrollmentID:   req.EnrollmentID,
				PlanItemID:     domain.StrPtr(req.PlanItemID),
				ContentGroupID: req.ContentGroupID,
				ContentPointID: req.ContentPointID,
				CreatedAt:      now,
			}
			rec.ApplyGrade(req.GradeScaleID, req.Notes, now)
			if err := assessments.Create(ctx, rec); err != nil {
				return err
			}
			saved = rec
			fields["created"] = true
			return nil
		}

		current.PlanItemID = domain.StrPtr(req.PlanItemID)
		current.ApplyGrade(req.GradeScaleID, req.Notes, now)
		if err := assessments.Update(ctx, current); err != nil {
			return err
		}
		saved = current
		fields["created"] = false
		return nil
	})
	if err != nil {
		return nil, classifyStorageError(err)
	}
	return saved, nil
}

// ClearAssessment deletes the record at req's key. Clearing a key with no
// record succeeds.
func (s *assessmentService) ClearAssessment(ctx context.Context, req app.ClearAssessmentRequest) (err error) {
	startedAt := time.Now()
	fields := map[string]any{
		"enrollment_id":    req.EnrollmentID,
		"content_group_id": req.ContentGroupID,
	}
	defer func() {
		observe(ctx, s.observer, useCaseClearAssessment, startedAt, err, fields)
	}()

	if err = s.validator.check(req); err != nil {
		return err
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		deleted, err := repository.NewSQLiteAssessmentRepo(tx).DeleteByKey(ctx, req.Key())
		if err != nil {
			return err
		}
		fields["deleted"] = deleted
		return nil
	})
	if err != nil {
		return classifyStorageError(err)
	}
	return nil
}

// checkReferences verifies that the plan item, enrollment, content point and
// grade scale exist and agree with each other.
func checkReferences(ctx context.Context, tx db.DBTX, req app.PersistAssessmentRequest) error {
	plan, err := repository.NewSQLitePlanItemRepo(tx).GetByID(ctx, req.PlanItemID)
	if err != nil {
		return referenceError(err, "plan item "+req.PlanItemID)
	}
	if plan.ContentGroupID != req.ContentGroupID {
		return &app.PersistError{
			Code:    app.PersistErrValidation,
			Message: fmt.Sprintf("plan item %s schedules content group %s, not %s", plan.ID, plan.ContentGroupID, req.ContentGroupID),
		}
	}

	enrollment, err := repository.NewSQLiteEnrollmentRepo(tx).GetByID(ctx, req.EnrollmentID)
	if err != nil {
		return referenceError(err, "enrollment "+req.EnrollmentID)
	}
	if enrollment.ClassID != plan.ClassID {
		return &app.PersistError{
			Code:    app.PersistErrValidation,
			Message: fmt.Sprintf("enrollment %s is not in the class of plan item %s", enrollment.ID, plan.ID),
		}
	}

	if req.ContentPointID != nil {
		groupID, err := repository.NewSQLiteCurriculumRepo(tx).ContentPointGroup(ctx, *req.ContentPointID)
		if err != nil {
			return referenceError(err, "content point "+*req.ContentPointID)
		}
		if groupID != req.ContentGroupID {
			return &app.PersistError{
				Code:    app.PersistErrValidation,
				Message: fmt.Sprintf("content point %s belongs to content group %s", *req.ContentPointID, groupID),
			}
		}
	}

	if _, err := repository.NewSQLiteGradeScaleRepo(tx).GetByID(ctx, req.GradeScaleID); err != nil {
		return referenceError(err, "grade scale "+req.GradeScaleID)
	}
	return nil
}

// findCurrent returns the record req replaces, or nil when it creates one.
func findCurrent(ctx context.Context, assessments repository.AssessmentRepo, req app.PersistAssessmentRequest) (*domain.GradeRecord, error) {
	if req.ExistingRecordID != nil {
		rec, err := assessments.GetByID(ctx, *req.ExistingRecordID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, &app.PersistError{
					Code:    app.PersistErrNotFound,
					Message: "assessment " + *req.ExistingRecordID + " no longer exists",
					Err:     err,
				}
			}
			return nil, err
		}
		if rec.Key() != req.Key() {
			return nil, &app.PersistError{
				Code:    app.PersistErrValidation,
				Message: "assessment " + rec.ID + " belongs to a different cell",
			}
		}
		return rec, nil
	}

	rec, err := assessments.GetByKey(ctx, req.Key())
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	return rec, err
}

func referenceError(err error, what string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return &app.PersistError{Code: app.PersistErrInvalidReference, Message: what + " does not exist", Err: err}
	}
	return err
}

// classifyStorageError maps a storage failure to a *PersistError.
func classifyStorageError(err error) error {
	var pe *app.PersistError
	if errors.As(err, &pe) {
		return err
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "UNIQUE constraint failed"):
		return &app.PersistError{Code: app.PersistErrDuplicate, Message: "an assessment already exists for this key", Err: err}
	case strings.Contains(msg, "FOREIGN KEY constraint failed"):
		return &app.PersistError{Code: app.PersistErrInvalidReference, Message: "a referenced record does not exist", Err: err}
	case errors.Is(err, repository.ErrNotFound):
		return &app.PersistError{Code: app.PersistErrNotFound, Message: "record not found", Err: err}
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return &app.PersistError{Code: app.PersistErrUnavailable, Message: "request cancelled", Err: err}
	default:
		return &app.PersistError{Code: app.PersistErrUnavailable, Message: "storage error", Err: err}
	}
}
