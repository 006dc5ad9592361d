package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/alexanderramin/gradebook/internal/domain"
	"github.com/alexanderramin/gradebook/internal/repository"
	"github.com/alexanderramin/gradebook/internal/testutil"
	"github.com/stretchr/testify/require"
)

// gradebookFixture is a stored class of two students graded against one
// stage with two subjects:
//
//	maths: outcome → area → group → cg "m-content_group" → point "m-content_point"
//	english: outcome → area → group → cg "e-content_group" → point "e-content_point"
type gradebookFixture struct {
	db      *sql.DB
	stage   *domain.Stage
	class   *domain.Class
	maths   testutil.CurriculumChain
	english testutil.CurriculumChain
	ana     *domain.Enrollment
	ben     *domain.Enrollment
	mathsPI *domain.PlanItem
	engPI   *domain.PlanItem

	classes     *repository.SQLiteClassRepo
	enrollments *repository.SQLiteEnrollmentRepo
	planItems   *repository.SQLitePlanItemRepo
	curriculum  *repository.SQLiteCurriculumRepo
	scales      *repository.SQLiteGradeScaleRepo
	assessments *repository.SQLiteAssessmentRepo
}

func newGradebookFixture(t *testing.T, database *sql.DB) *gradebookFixture {
	t.Helper()
	ctx := context.Background()
	f := &gradebookFixture{
		db:          database,
		classes:     repository.NewSQLiteClassRepo(database),
		enrollments: repository.NewSQLiteEnrollmentRepo(database),
		planItems:   repository.NewSQLitePlanItemRepo(database),
		curriculum:  repository.NewSQLiteCurriculumRepo(database),
		scales:      repository.NewSQLiteGradeScaleRepo(database),
		assessments: repository.NewSQLiteAssessmentRepo(database),
	}

	f.stage = testutil.NewTestStage("Stage 2")
	require.NoError(t, f.curriculum.CreateStage(ctx, f.stage))

	f.maths = testutil.NewCurriculumChain(f.stage.ID, "m")
	f.maths.Subject.Position = 1
	f.english = testutil.NewCurriculumChain(f.stage.ID, "e")
	f.english.Subject.Position = 2
	for _, chain := range []testutil.CurriculumChain{f.maths, f.english} {
		for _, item := range chain.Items() {
			require.NoError(t, f.curriculum.CreateItem(ctx, item))
		}
	}

	f.class = testutil.NewTestClass(f.stage.ID, "2B")
	require.NoError(t, f.classes.Create(ctx, f.class))
	f.ana = testutil.NewTestEnrollment(f.class.ID, "Ana")
	f.ben = testutil.NewTestEnrollment(f.class.ID, "Ben")
	require.NoError(t, f.enrollments.Create(ctx, f.ana))
	require.NoError(t, f.enrollments.Create(ctx, f.ben))

	f.mathsPI = testutil.NewTestPlanItem(f.class.ID, f.maths.ContentGroup.ID, testutil.WithWeek(1))
	f.engPI = testutil.NewTestPlanItem(f.class.ID, f.english.ContentGroup.ID, testutil.WithWeek(2))
	require.NoError(t, f.planItems.Create(ctx, f.mathsPI))
	require.NoError(t, f.planItems.Create(ctx, f.engPI))
	return f
}

func (f *gradebookFixture) reportService(observers ...UseCaseObserver) ReportService {
	return NewReportService(f.classes, f.enrollments, f.curriculum, f.scales, f.assessments, observers...)
}

func (f *gradebookFixture) gridService() GridService {
	return NewGridService(f.classes, f.enrollments, f.planItems, f.curriculum, f.scales, f.assessments)
}

func (f *gradebookFixture) assessmentService(observers ...UseCaseObserver) AssessmentService {
	return NewAssessmentService(testutil.NewTestUoW(f.db), observers...)
}

func (f *gradebookFixture) grade(t *testing.T, enrollmentID, contentGroupID, scaleID string, opts ...testutil.GradeRecordOption) *domain.GradeRecord {
	t.Helper()
	rec := testutil.NewTestGradeRecord(enrollmentID, contentGroupID, scaleID, opts...)
	require.NoError(t, f.assessments.Create(context.Background(), rec))
	return rec
}

// captureObserver records every event it sees.
type captureObserver struct {
	events []UseCaseEvent
}

func (c *captureObserver) ObserveUseCase(_ context.Context, e UseCaseEvent) {
	c.events = append(c.events, e)
}
