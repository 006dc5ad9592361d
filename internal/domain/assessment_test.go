package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

func TestGradeRecord_Key_GroupLevel(t *testing.T) {
	r := &GradeRecord{EnrollmentID: "e1", ContentGroupID: "cg1"}
	assert.Equal(t, AssessmentKey{EnrollmentID: "e1", ContentGroupID: "cg1"}, r.Key())
	assert.True(t, r.IsGroupLevel())
}

func TestGradeRecord_Key_PointLevel(t *testing.T) {
	r := &GradeRecord{EnrollmentID: "e1", ContentGroupID: "cg1", ContentPointID: StrPtr("cp1")}
	assert.Equal(t, "cp1", r.Key().ContentPointID)
	assert.False(t, r.IsGroupLevel())
}

func TestGradeRecord_EmptyPointIsGroupLevel(t *testing.T) {
	r := &GradeRecord{ContentPointID: StrPtr("")}
	assert.True(t, r.IsGroupLevel())
}

func TestGradeRecord_IsTemporary(t *testing.T) {
	assert.True(t, (&GradeRecord{}).IsTemporary())
	assert.True(t, (&GradeRecord{ID: TempIDPrefix + "abc"}).IsTemporary())
	assert.False(t, (&GradeRecord{ID: "5b0c"}).IsTemporary())
}

func TestGradeRecord_CloneDoesNotAlias(t *testing.T) {
	orig := &GradeRecord{
		ID:             "r1",
		PlanItemID:     StrPtr("p1"),
		ContentPointID: StrPtr("cp1"),
		Notes:          StrPtr("first"),
	}
	c := orig.Clone()
	require.NotNil(t, c)
	*c.Notes = "changed"
	*c.PlanItemID = "p2"

	assert.Equal(t, "first", *orig.Notes)
	assert.Equal(t, "p1", *orig.PlanItemID)
	assert.Nil(t, (*GradeRecord)(nil).Clone())
}

func TestGradeRecord_ApplyGrade(t *testing.T) {
	r := &GradeRecord{GradeScaleID: "g1"}
	r.ApplyGrade("g2", StrPtr("better"), testNow)
	assert.Equal(t, "g2", r.GradeScaleID)
	assert.Equal(t, "better", r.NotesText())
	assert.Equal(t, testNow, r.UpdatedAt)
	assert.Equal(t, testNow, r.AssessedAt)
}

func TestNodeKind_ChildKind(t *testing.T) {
	child, ok := KindSubject.ChildKind()
	require.True(t, ok)
	assert.Equal(t, KindOutcome, child)

	child, ok = KindContentGroup.ChildKind()
	require.True(t, ok)
	assert.Equal(t, KindContentPoint, child)

	_, ok = KindContentPoint.ChildKind()
	assert.False(t, ok, "content points are leaves")
}

func TestNodeKind_Depth(t *testing.T) {
	assert.Equal(t, 0, KindSubject.Depth())
	assert.Equal(t, 5, KindContentPoint.Depth())
	assert.Equal(t, -1, NodeKind("bogus").Depth())
}

func TestEqualStrPtr(t *testing.T) {
	assert.True(t, EqualStrPtr(nil, StrPtr("")))
	assert.True(t, EqualStrPtr(StrPtr("a"), StrPtr("a")))
	assert.False(t, EqualStrPtr(StrPtr("a"), nil))
}
