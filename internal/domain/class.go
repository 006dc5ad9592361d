package domain

import "time"

// Stage scopes the curriculum hierarchy, e.g. a year-group band.
type Stage struct {
	ID   string
	Name string
}

// Class is a group of students taught one stage's curriculum.
type Class struct {
	ID        string
	Name      string
	StageID   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Enrollment is a student's membership in one class. Grade records attach
// to enrollments, not to students directly.
type Enrollment struct {
	ID          string
	ClassID     string
	StudentName string
	CreatedAt   time.Time
}

// PlanItem places one content group into one week of a class's term. Plan
// items are the columns of the grading grid.
type PlanItem struct {
	ID             string
	ClassID        string
	ContentGroupID string
	Week           int
	CreatedAt      time.Time
}
