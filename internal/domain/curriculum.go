package domain

// HierarchyRow is one flattened Subject×Outcome×FocusArea×FocusGroup×
// ContentGroup×ContentPoint combination for a stage. Trailing levels are
// empty when the hierarchy stops early.
type HierarchyRow struct {
	StageID string

	SubjectID   string
	SubjectName string

	OutcomeID   string
	OutcomeName string

	FocusAreaID   string
	FocusAreaName string

	FocusGroupID   string
	FocusGroupName string

	ContentGroupID   string
	ContentGroupName string

	ContentPointID          string
	ContentPointName        string
	ContentPointDescription string
}

// Level returns the id and name stored on the row for kind.
func (r HierarchyRow) Level(kind NodeKind) (id, name string) {
	switch kind {
	case KindSubject:
		return r.SubjectID, r.SubjectName
	case KindOutcome:
		return r.OutcomeID, r.OutcomeName
	case KindFocusArea:
		return r.FocusAreaID, r.FocusAreaName
	case KindFocusGroup:
		return r.FocusGroupID, r.FocusGroupName
	case KindContentGroup:
		return r.ContentGroupID, r.ContentGroupName
	case KindContentPoint:
		return r.ContentPointID, r.ContentPointName
	}
	return "", ""
}

// CurriculumItem is one stored node of the hierarchy. ParentID names the
// node one level up; subjects have none. StageID is only set on outcomes,
// which is where the hierarchy is scoped to a stage.
type CurriculumItem struct {
	Kind        NodeKind
	ID          string
	ParentID    string
	StageID     string
	Name        string
	Description string
	Position    int
}
