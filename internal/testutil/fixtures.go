package testutil

import (
	"time"

	"github.com/alexanderramin/gradebook/internal/domain"
	"github.com/google/uuid"
)

func NewTestStage(name string) *domain.Stage {
	return &domain.Stage{ID: uuid.New().String(), Name: name}
}

func NewTestClass(stageID, name string) *domain.Class {
	now := time.Now().UTC()
	return &domain.Class{
		ID:        uuid.New().String(),
		Name:      name,
		StageID:   stageID,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func NewTestEnrollment(classID, studentName string) *domain.Enrollment {
	return &domain.Enrollment{
		ID:          uuid.New().String(),
		ClassID:     classID,
		StudentName: studentName,
		CreatedAt:   time.Now().UTC(),
	}
}

// PlanItem options
type PlanItemOption func(*domain.PlanItem)

func WithWeek(week int) PlanItemOption {
	return func(p *domain.PlanItem) {
		p.Week = week
	}
}

func NewTestPlanItem(classID, contentGroupID string, opts ...PlanItemOption) *domain.PlanItem {
	p := &domain.PlanItem{
		ID:             uuid.New().String(),
		ClassID:        classID,
		ContentGroupID: contentGroupID,
		Week:           1,
		CreatedAt:      time.Now().UTC(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// GradeRecord options
type GradeRecordOption func(*domain.GradeRecord)

func WithContentPoint(id string) GradeRecordOption {
	return func(r *domain.GradeRecord) {
		r.ContentPointID = &id
	}
}

func WithPlanItem(id string) GradeRecordOption {
	return func(r *domain.GradeRecord) {
		r.PlanItemID = &id
	}
}

func WithNotes(notes string) GradeRecordOption {
	return func(r *domain.GradeRecord) {
		r.Notes = &notes
	}
}

func WithAssessedAt(t time.Time) GradeRecordOption {
	return func(r *domain.GradeRecord) {
		r.AssessedAt = t
	}
}

func NewTestGradeRecord(enrollmentID, contentGroupID, gradeScaleID string, opts ...GradeRecordOption) *domain.GradeRecord {
	now := time.Now().UTC()
	r := &domain.GradeRecord{
		ID:             uuid.New().String(),
		EnrollmentID:   enrollmentID,
		ContentGroupID: contentGroupID,
		GradeScaleID:   gradeScaleID,
		AssessedAt:     now,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// CurriculumChain is one Subject→…→ContentPoint path of test curriculum.
type CurriculumChain struct {
	Subject      *domain.CurriculumItem
	Outcome      *domain.CurriculumItem
	FocusArea    *domain.CurriculumItem
	FocusGroup   *domain.CurriculumItem
	ContentGroup *domain.CurriculumItem
	ContentPoint *domain.CurriculumItem
}

// Items returns the chain root first, the order they must be stored in.
func (c CurriculumChain) Items() []*domain.CurriculumItem {
	return []*domain.CurriculumItem{c.Subject, c.Outcome, c.FocusArea, c.FocusGroup, c.ContentGroup, c.ContentPoint}
}

// NewCurriculumChain builds a full hierarchy path for stageID whose ids and
// names are prefixed with prefix.
func NewCurriculumChain(stageID, prefix string) CurriculumChain {
	item := func(kind domain.NodeKind, parentID string) *domain.CurriculumItem {
		return &domain.CurriculumItem{
			Kind:     kind,
			ID:       prefix + "-" + string(kind),
			ParentID: parentID,
			Name:     prefix + " " + kind.Label(),
		}
	}
	c := CurriculumChain{}
	c.Subject = item(domain.KindSubject, "")
	c.Outcome = item(domain.KindOutcome, c.Subject.ID)
	c.Outcome.StageID = stageID
	c.FocusArea = item(domain.KindFocusArea, c.Outcome.ID)
	c.FocusGroup = item(domain.KindFocusGroup, c.FocusArea.ID)
	c.ContentGroup = item(domain.KindContentGroup, c.FocusGroup.ID)
	c.ContentPoint = item(domain.KindContentPoint, c.ContentGroup.ID)
	c.ContentPoint.Description = prefix + " point description"
	return c
}
