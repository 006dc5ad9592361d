package domain

import (
	"strings"
	"time"
)

// TempIDPrefix marks identifiers minted locally for optimistic records that
// storage has not confirmed yet.
const TempIDPrefix = "tmp-"

// GradeRecord is one recorded evaluation of a student enrollment against a
// content group, or against one content point inside it.
type GradeRecord struct {
	ID             string
	EnrollmentID   string
	PlanItemID     *string
	ContentGroupID string
	ContentPointID *string
	GradeScaleID   string
	Notes          *string
	AssessedAt     time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// AssessmentKey identifies the single current record for an enrollment at a
// content group or content point.
type AssessmentKey struct {
	EnrollmentID   string
	ContentGroupID string
	ContentPointID string // empty for group-level records
}

// Key returns the uniqueness key of the record.
func (r *GradeRecord) Key() AssessmentKey {
	return AssessmentKey{
		EnrollmentID:   r.EnrollmentID,
		ContentGroupID: r.ContentGroupID,
		ContentPointID: StrFromPtrWithDefault("", r.ContentPointID),
	}
}

// IsGroupLevel reports whether the record grades the content group itself.
func (r *GradeRecord) IsGroupLevel() bool {
	return r.ContentPointID == nil || *r.ContentPointID == ""
}

// IsTemporary reports whether the record carries a locally minted id.
func (r *GradeRecord) IsTemporary() bool {
	return r.ID == "" || strings.HasPrefix(r.ID, TempIDPrefix)
}

// NotesText returns the notes, or "" when none were recorded.
func (r *GradeRecord) NotesText() string {
	return StrFromPtrWithDefault("", r.Notes)
}

// Clone returns a deep copy so snapshots never alias live state.
func (r *GradeRecord) Clone() *GradeRecord {
	if r == nil {
		return nil
	}
	c := *r
	if r.PlanItemID != nil {
		c.PlanItemID = StrPtr(*r.PlanItemID)
	}
	if r.ContentPointID != nil {
		c.ContentPointID = StrPtr(*r.ContentPointID)
	}
	if r.Notes != nil {
		c.Notes = StrPtr(*r.Notes)
	}
	return &c
}

// ApplyGrade replaces the grade and notes and stamps the update time.
func (r *GradeRecord) ApplyGrade(gradeScaleID string, notes *string, now time.Time) {
	r.GradeScaleID = gradeScaleID
	r.Notes = notes
	r.AssessedAt = now
	r.UpdatedAt = now
}
