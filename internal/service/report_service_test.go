package service

import (
	"context"
	"errors"
	"testing"

	"github.com/alexanderramin/gradebook/internal/app"
	"github.com/alexanderramin/gradebook/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildReports_AggregatesPerStudent(t *testing.T) {
	f := newGradebookFixture(t, testutil.NewTestDB(t))
	ctx := context.Background()

	f.grade(t, f.ana.ID, f.maths.ContentGroup.ID, "scale-advanced")
	f.grade(t, f.ana.ID, f.maths.ContentGroup.ID, "scale-beginning", testutil.WithContentPoint(f.maths.ContentPoint.ID))
	f.grade(t, f.ana.ID, f.english.ContentGroup.ID, "scale-developing", testutil.WithContentPoint(f.english.ContentPoint.ID))

	obs := &captureObserver{}
	resp, err := f.reportService(obs).BuildReports(ctx, app.NewReportRequest(f.class.ID))
	require.NoError(t, err)

	assert.Equal(t, f.class.ID, resp.ClassID)
	assert.Equal(t, "2B", resp.ClassName)
	assert.Equal(t, f.stage.ID, resp.StageID)
	require.Len(t, resp.Students, 2)

	ana := resp.Students[0]
	assert.Equal(t, "Ana", ana.StudentName)
	require.NotNil(t, ana.Overall)
	assert.InDelta(t, 3.0, *ana.Overall, 1e-9)

	require.Len(t, ana.Subjects, 2)
	assert.Equal(t, f.maths.Subject.ID, ana.Subjects[0].ID)
	assert.InDelta(t, 4.0, *ana.Subjects[0].Average, 1e-9, "group-level grade overrides its points")
	assert.InDelta(t, 2.0, *ana.Subjects[1].Average, 1e-9)

	require.Len(t, ana.OutcomeOrder, 2)
	assert.Equal(t, f.maths.Outcome.ID, ana.OutcomeOrder[0])
	assert.Equal(t, "m Outcome", ana.Outcomes[f.maths.Outcome.ID].Name)

	require.Len(t, ana.Top, 2)
	assert.Equal(t, f.maths.ContentGroup.ID, ana.Top[0].ContentGroupID)
	assert.Equal(t, "Advanced", ana.Top[0].GradeName)
	require.Len(t, ana.Bottom, 2)
	assert.Equal(t, f.english.ContentGroup.ID, ana.Bottom[0].ContentGroupID)

	ben := resp.Students[1]
	assert.Nil(t, ben.Overall)
	assert.Empty(t, ben.Top)
	assert.Empty(t, ben.Bottom)

	require.Len(t, obs.events, 1)
	assert.Equal(t, useCaseBuildReports, obs.events[0].Name)
	assert.True(t, obs.events[0].Success)
	assert.Equal(t, 2, obs.events[0].Fields["students"])
}

func TestBuildReports_SelectedStudentAndTopN(t *testing.T) {
	f := newGradebookFixture(t, testutil.NewTestDB(t))
	ctx := context.Background()

	f.grade(t, f.ben.ID, f.maths.ContentGroup.ID, "scale-proficient")
	f.grade(t, f.ben.ID, f.english.ContentGroup.ID, "scale-advanced")

	req := app.NewReportRequest(f.class.ID)
	req.EnrollmentIDs = []string{f.ben.ID}
	req.TopN = 1
	resp, err := f.reportService().BuildReports(ctx, req)
	require.NoError(t, err)

	require.Len(t, resp.Students, 1)
	ben := resp.Students[0]
	assert.Equal(t, f.ben.ID, ben.EnrollmentID)
	require.Len(t, ben.Top, 1)
	assert.Equal(t, f.english.ContentGroup.ID, ben.Top[0].ContentGroupID)
	require.Len(t, ben.Bottom, 1)
	assert.Equal(t, f.maths.ContentGroup.ID, ben.Bottom[0].ContentGroupID)
}

func TestBuildReports_InvalidScope(t *testing.T) {
	f := newGradebookFixture(t, testutil.NewTestDB(t))
	ctx := context.Background()
	svc := f.reportService()

	cases := map[string]app.ReportRequest{
		"missing class":   {},
		"unknown class":   {ClassID: "nope"},
		"foreign student": {ClassID: f.class.ID, EnrollmentIDs: []string{"someone-else"}},
		"negative top":    {ClassID: f.class.ID, TopN: -1},
	}
	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.BuildReports(ctx, req)
			var re *app.ReportError
			require.True(t, errors.As(err, &re), "got %v", err)
			assert.Equal(t, app.ReportErrInvalidScope, re.Code)
		})
	}
}

func TestBuildReports_DoesNotMixStudents(t *testing.T) {
	f := newGradebookFixture(t, testutil.NewTestDB(t))
	ctx := context.Background()

	f.grade(t, f.ana.ID, f.maths.ContentGroup.ID, "scale-beginning")
	f.grade(t, f.ben.ID, f.maths.ContentGroup.ID, "scale-advanced")

	resp, err := f.reportService().BuildReports(ctx, app.NewReportRequest(f.class.ID))
	require.NoError(t, err)
	require.Len(t, resp.Students, 2)
	assert.InDelta(t, 1.0, *resp.Students[0].Overall, 1e-9)
	assert.InDelta(t, 4.0, *resp.Students[1].Overall, 1e-9)
}
