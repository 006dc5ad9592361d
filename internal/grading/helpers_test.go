package grading

import (
	"fmt"
	"time"

	"github.com/alexanderramin/gradebook/internal/curriculum"
	"github.com/alexanderramin/gradebook/internal/domain"
)

var testNow = time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)

// testScales defines grade "gN" with numeric value N for N in 1..10.
func testScales() *ScaleResolver {
	var scales []domain.GradeScale
	for i := 1; i <= 10; i++ {
		scales = append(scales, domain.GradeScale{
			ID:           fmt.Sprintf("g%d", i),
			Name:         fmt.Sprintf("Level %d", i),
			NumericValue: float64(i),
		})
	}
	return NewScaleResolver(scales)
}

// hrow builds a hierarchy row under Maths/Number/Counting.
func hrow(focusGroup, contentGroup, contentPoint string) domain.HierarchyRow {
	return domain.HierarchyRow{
		SubjectID:        "maths",
		SubjectName:      "Maths",
		OutcomeID:        "number",
		OutcomeName:      "Number",
		FocusAreaID:      "counting",
		FocusAreaName:    "Counting",
		FocusGroupID:     focusGroup,
		FocusGroupName:   focusGroup,
		ContentGroupID:   contentGroup,
		ContentGroupName: contentGroup,
		ContentPointID:   contentPoint,
		ContentPointName: contentPoint,
	}
}

// subjectRow builds a row under its own subject, outcome and focus area.
// Levels are identified by id alone, so rows that should not share the Maths
// subtree must not reuse its ids.
func subjectRow(subject, subjectName, outcome, outcomeName, contentGroup string) domain.HierarchyRow {
	r := hrow("fg-"+subject, contentGroup, "")
	r.SubjectID, r.SubjectName = subject, subjectName
	r.OutcomeID, r.OutcomeName = outcome, outcomeName
	r.FocusAreaID, r.FocusAreaName = "fa-"+subject, subjectName+" focus"
	return r
}

func groupGrade(contentGroup, grade string) *domain.GradeRecord {
	return &domain.GradeRecord{
		ID:             "r-" + contentGroup,
		EnrollmentID:   "e1",
		ContentGroupID: contentGroup,
		GradeScaleID:   grade,
		AssessedAt:     testNow,
	}
}

func pointGrade(contentGroup, contentPoint, grade string) *domain.GradeRecord {
	r := groupGrade(contentGroup, grade)
	r.ID = "r-" + contentPoint
	r.ContentPointID = domain.StrPtr(contentPoint)
	return r
}

func aggregateRows(rows []domain.HierarchyRow, records ...*domain.GradeRecord) *Result {
	return Aggregate(curriculum.Build(rows), NewAssessmentIndex(records), testScales())
}

func avg(res *Result, kind domain.NodeKind, id string) *float64 {
	n, ok := res.Node(kind, id)
	if !ok {
		panic("missing node " + id)
	}
	return n.Average
}
