package grading

import "github.com/alexanderramin/gradebook/internal/domain"

// AssessmentIndex maps content nodes to the grade-scale id currently
// recorded for one enrollment.
type AssessmentIndex struct {
	byPoint map[string]indexed
	byGroup map[string]indexed
}

type indexed struct {
	gradeScaleID string
	record       *domain.GradeRecord
}

// NewAssessmentIndex builds the lookups in a single pass. Callers pass the
// current records of one enrollment; if a key repeats, the record with the
// later assessment date wins and ties go to the record supplied last.
func NewAssessmentIndex(records []*domain.GradeRecord) *AssessmentIndex {
	idx := &AssessmentIndex{
		byPoint: make(map[string]indexed),
		byGroup: make(map[string]indexed),
	}
	for _, r := range records {
		idx.add(r)
	}
	return idx
}

func (idx *AssessmentIndex) add(r *domain.GradeRecord) {
	target, key := idx.byGroup, r.ContentGroupID
	if !r.IsGroupLevel() {
		target, key = idx.byPoint, *r.ContentPointID
	}
	if prev, ok := target[key]; ok && prev.record.AssessedAt.After(r.AssessedAt) {
		return
	}
	target[key] = indexed{gradeScaleID: r.GradeScaleID, record: r}
}

// IndexByEnrollment partitions records by enrollment and indexes each part.
func IndexByEnrollment(records []*domain.GradeRecord) map[string]*AssessmentIndex {
	parts := make(map[string][]*domain.GradeRecord)
	for _, r := range records {
		parts[r.EnrollmentID] = append(parts[r.EnrollmentID], r)
	}
	out := make(map[string]*AssessmentIndex, len(parts))
	for id, recs := range parts {
		out[id] = NewAssessmentIndex(recs)
	}
	return out
}

// PointGrade returns the grade-scale id recorded at a content point.
func (idx *AssessmentIndex) PointGrade(contentPointID string) (string, bool) {
	if idx == nil {
		return "", false
	}
	v, ok := idx.byPoint[contentPointID]
	return v.gradeScaleID, ok
}

// GroupGrade returns the grade-scale id recorded at a content group itself.
func (idx *AssessmentIndex) GroupGrade(contentGroupID string) (string, bool) {
	if idx == nil {
		return "", false
	}
	v, ok := idx.byGroup[contentGroupID]
	return v.gradeScaleID, ok
}

// Len returns the number of indexed records.
func (idx *AssessmentIndex) Len() int {
	if idx == nil {
		return 0
	}
	return len(idx.byPoint) + len(idx.byGroup)
}
