package grading

import (
	"testing"

	"github.com/alexanderramin/gradebook/internal/curriculum"
	"github.com/alexanderramin/gradebook/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregate_UngradedSubtreeIsAbsentAndExcluded(t *testing.T) {
	rows := []domain.HierarchyRow{
		hrow("fg1", "cg-empty", "cp-empty"),
		hrow("fg1", "cg-graded", ""),
	}
	res := aggregateRows(rows, groupGrade("cg-graded", "g8"))

	assert.Nil(t, avg(res, domain.KindContentPoint, "cp-empty"))
	assert.Nil(t, avg(res, domain.KindContentGroup, "cg-empty"), "no grade means absent, never zero")

	fg := avg(res, domain.KindFocusGroup, "fg1")
	require.NotNil(t, fg)
	assert.Equal(t, 8.0, *fg, "mean over {absent, 8} must be 8, not 4")
}

func TestAggregate_DirectGroupGradeOverridesPoints(t *testing.T) {
	rows := []domain.HierarchyRow{hrow("fg1", "cg1", "cp1")}
	res := aggregateRows(rows,
		groupGrade("cg1", "g9"),
		pointGrade("cg1", "cp1", "g2"),
	)

	cg, ok := res.Node(domain.KindContentGroup, "cg1")
	require.True(t, ok)
	require.NotNil(t, cg.Average)
	assert.Equal(t, 9.0, *cg.Average)
	assert.Equal(t, 9.0, *cg.DirectGrade)
	assert.Equal(t, "Level 9", cg.GradeName)

	cp := avg(res, domain.KindContentPoint, "cp1")
	require.NotNil(t, cp)
	assert.Equal(t, 2.0, *cp, "point detail is still reported on the point itself")
}

func TestAggregate_ContentGroupAveragesGradedPoints(t *testing.T) {
	rows := []domain.HierarchyRow{
		hrow("fg1", "cg1", "cp1"),
		hrow("fg1", "cg1", "cp2"),
		hrow("fg1", "cg1", "cp3"),
	}
	res := aggregateRows(rows,
		pointGrade("cg1", "cp1", "g4"),
		pointGrade("cg1", "cp3", "g7"),
	)

	cg, _ := res.Node(domain.KindContentGroup, "cg1")
	require.NotNil(t, cg.Average)
	assert.Equal(t, 5.5, *cg.Average)
	assert.Nil(t, cg.DirectGrade)
	assert.Empty(t, cg.GradeName)
}

func TestAggregate_UnweightedMeanOfDirectChildren(t *testing.T) {
	rows := []domain.HierarchyRow{
		hrow("fg1", "cg-six", "p1"),
		hrow("fg1", "cg-six", "p2"),
		hrow("fg1", "cg-six", "p3"),
		hrow("fg1", "cg-eight", ""),
		hrow("fg1", "cg-ten", "p4"),
	}
	res := aggregateRows(rows,
		pointGrade("cg-six", "p1", "g6"),
		pointGrade("cg-six", "p2", "g6"),
		pointGrade("cg-six", "p3", "g6"),
		groupGrade("cg-eight", "g8"),
		pointGrade("cg-ten", "p4", "g10"),
	)

	fg := avg(res, domain.KindFocusGroup, "fg1")
	require.NotNil(t, fg)
	assert.Equal(t, 8.0, *fg, "children {6, 8, 10} average to 8 regardless of their own fan-in")
}

func TestAggregate_IsIdempotent(t *testing.T) {
	rows := []domain.HierarchyRow{
		hrow("fg1", "cg1", "cp1"),
		hrow("fg1", "cg1", "cp2"),
		hrow("fg2", "cg2", ""),
	}
	tree := curriculum.Build(rows)
	idx := NewAssessmentIndex([]*domain.GradeRecord{
		pointGrade("cg1", "cp1", "g3"),
		groupGrade("cg2", "g6"),
	})
	scales := testScales()

	first := Aggregate(tree, idx, scales)
	second := Aggregate(tree, idx, scales)
	assert.Equal(t, first, second)
}

func TestAggregate_Scenario_CountsObjects(t *testing.T) {
	rows := []domain.HierarchyRow{{
		SubjectID:        "maths",
		SubjectName:      "Maths",
		OutcomeID:        "number",
		OutcomeName:      "Number",
		FocusAreaID:      "counting",
		FocusAreaName:    "Counting",
		FocusGroupID:     "to10",
		FocusGroupName:   "Counting to 10",
		ContentGroupID:   "counts-objects",
		ContentGroupName: "Counts objects",
		ContentPointID:   "counts-to-5",
		ContentPointName: "Counts to 5",
	}}
	res := aggregateRows(rows, groupGrade("counts-objects", "g8"))

	for _, tc := range []struct {
		kind domain.NodeKind
		id   string
	}{
		{domain.KindContentGroup, "counts-objects"},
		{domain.KindFocusGroup, "to10"},
		{domain.KindFocusArea, "counting"},
		{domain.KindOutcome, "number"},
		{domain.KindSubject, "maths"},
	} {
		a := avg(res, tc.kind, tc.id)
		require.NotNil(t, a, "%s %s", tc.kind, tc.id)
		assert.Equal(t, 8.0, *a, "%s %s", tc.kind, tc.id)
	}
	assert.Nil(t, avg(res, domain.KindContentPoint, "counts-to-5"))
	require.NotNil(t, res.Overall())
	assert.Equal(t, 8.0, *res.Overall())
}

func TestAggregate_OverallIsMeanOfGradedSubjects(t *testing.T) {
	res := aggregateRows(
		[]domain.HierarchyRow{
			hrow("fg1", "cg1", ""),
			subjectRow("english", "English", "reading", "Reading", "cg-e"),
			subjectRow("history", "History", "past", "The Past", "cg-h"),
		},
		groupGrade("cg1", "g4"),
		groupGrade("cg-e", "g9"),
	)

	require.Len(t, res.Subjects(), 3)
	assert.Equal(t, 4.0, *res.Subjects()[0].Average)
	assert.Equal(t, 9.0, *res.Subjects()[1].Average)
	assert.Nil(t, res.Subjects()[2].Average)
	require.NotNil(t, res.Overall())
	assert.Equal(t, 6.5, *res.Overall())
}

func TestAggregate_FocusAreaSharedByIDCountsUnderEachOutcome(t *testing.T) {
	reading := hrow("fg-r", "cg-r", "")
	reading.SubjectID, reading.SubjectName = "english", "English"
	reading.OutcomeID = "reading"

	res := aggregateRows(
		[]domain.HierarchyRow{hrow("fg1", "cg1", ""), reading},
		groupGrade("cg1", "g4"),
	)

	// "counting" is one node linked under both outcomes, so its graded
	// subtree reaches the English subject too.
	require.Len(t, res.Subjects(), 2)
	require.NotNil(t, res.Subjects()[1].Average)
	assert.Equal(t, 4.0, *res.Subjects()[1].Average)
	assert.Equal(t, 4.0, *res.Overall())
}

func TestAggregate_NothingGraded(t *testing.T) {
	res := aggregateRows([]domain.HierarchyRow{hrow("fg1", "cg1", "cp1")})
	assert.Nil(t, res.Overall())
	assert.Len(t, res.ContentGroups(), 1)
	assert.Len(t, res.Outcomes(), 1)
}

func TestAggregate_UnknownScaleIsAbsent(t *testing.T) {
	res := aggregateRows([]domain.HierarchyRow{hrow("fg1", "cg1", "")}, groupGrade("cg1", "g-unknown"))
	assert.Nil(t, avg(res, domain.KindContentGroup, "cg1"))
}

func TestAggregate_SharedGroupComputedOnce(t *testing.T) {
	rows := []domain.HierarchyRow{
		hrow("fg1", "shared", ""),
		hrow("fg2", "shared", ""),
	}
	res := aggregateRows(rows, groupGrade("shared", "g5"))

	assert.Len(t, res.ContentGroups(), 1)
	assert.Equal(t, 5.0, *avg(res, domain.KindFocusGroup, "fg1"))
	assert.Equal(t, 5.0, *avg(res, domain.KindFocusGroup, "fg2"))
}

func TestResult_ChildrenFollowTreeOrder(t *testing.T) {
	res := aggregateRows([]domain.HierarchyRow{
		hrow("fg1", "b", ""),
		hrow("fg1", "a", ""),
	})
	fg, _ := res.Node(domain.KindFocusGroup, "fg1")
	children := res.Children(fg)
	require.Len(t, children, 2)
	assert.Equal(t, "b", children[0].ID)
	assert.Equal(t, "a", children[1].ID)
}

func TestAggregate_DoesNotMutateInputs(t *testing.T) {
	rows := []domain.HierarchyRow{hrow("fg1", "cg1", "cp1")}
	tree := curriculum.Build(rows)
	res := Aggregate(tree, NewAssessmentIndex(nil), testScales())

	cg, _ := res.Node(domain.KindContentGroup, "cg1")
	cg.ChildIDs[0] = "changed"

	orig, _ := tree.Node(domain.KindContentGroup, "cg1")
	assert.Equal(t, "cp1", orig.ChildIDs[0])
}
