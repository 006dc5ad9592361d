package reconcile

import (
	"github.com/alexanderramin/gradebook/internal/domain"
)

// CellKey identifies one cell of the grading grid.
type CellKey struct {
	EnrollmentID   string
	PlanItemID     string
	ContentGroupID string
}

// responseKey is what a write completion is matched back to a cell by.
type responseKey struct {
	EnrollmentID   string
	PlanItemID     string
	ContentPointID string
}

// Cell is the live state of one grid cell. Cells are owned by the
// Controller's goroutine; callers must not mutate them.
type Cell struct {
	Key            CellKey
	ContentPointID *string

	// Record is the visible record: the last confirmed one, or an optimistic
	// guess while a write is outstanding. Nil when the cell has no grade.
	Record *domain.GradeRecord
	// Notes is the editor text after the last flush; nil until edited.
	Notes *string
	// InFlight counts writes issued for this cell and not yet applied.
	InFlight int
	// Generation increases with every write issued for this cell.
	Generation uint64
	// Err is the last write failure surfaced for this cell.
	Err error
}

// GradeScaleID returns the visible grade, or "" when ungraded.
func (c *Cell) GradeScaleID() string {
	if c.Record == nil {
		return ""
	}
	return c.Record.GradeScaleID
}

// VisibleNotes returns the editor text, falling back to the record's notes.
func (c *Cell) VisibleNotes() string {
	if c.Notes != nil {
		return *c.Notes
	}
	if c.Record != nil {
		return c.Record.NotesText()
	}
	return ""
}

func (c *Cell) responseKey() responseKey {
	return responseKey{
		EnrollmentID:   c.Key.EnrollmentID,
		PlanItemID:     c.Key.PlanItemID,
		ContentPointID: domain.StrFromPtrWithDefault("", c.ContentPointID),
	}
}

// snapshot is the pre-edit state a failed write rolls back to.
type snapshot struct {
	record *domain.GradeRecord
	notes  *string
}

func (c *Cell) snapshot() snapshot {
	s := snapshot{record: c.Record.Clone()}
	if c.Notes != nil {
		s.notes = domain.StrPtr(*c.Notes)
	}
	return s
}

func (c *Cell) restore(s snapshot) {
	c.Record = s.record.Clone()
	c.Notes = nil
	if s.notes != nil {
		c.Notes = domain.StrPtr(*s.notes)
	}
}
