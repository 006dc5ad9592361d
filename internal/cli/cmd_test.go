package cli

import (
	"bytes"
	"context"
	"errors"
	"testing"

	contract "github.com/alexanderramin/gradebook/internal/app"
	"github.com/alexanderramin/gradebook/internal/config"
	"github.com/alexanderramin/gradebook/internal/db"
	"github.com/alexanderramin/gradebook/internal/domain"
	"github.com/alexanderramin/gradebook/internal/repository"
	"github.com/alexanderramin/gradebook/internal/service"
	"github.com/alexanderramin/gradebook/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seeded names the stored records testApp creates.
type seeded struct {
	classID  string
	ana, ben string
	mathsPI  string
	engPI    string
	mathsCG  string
	mathsCP  string
	records  *repository.SQLiteAssessmentRepo
}

// testApp wires a full App backed by an in-memory DB for CLI integration
// tests: class 2B with Ana and Ben, and a maths and an english plan item.
func testApp(t *testing.T) (*App, seeded) {
	t.Helper()
	ctx := context.Background()
	database := testutil.NewTestDB(t)

	classes := repository.NewSQLiteClassRepo(database)
	enrollments := repository.NewSQLiteEnrollmentRepo(database)
	planItems := repository.NewSQLitePlanItemRepo(database)
	curriculum := repository.NewSQLiteCurriculumRepo(database)
	scales := repository.NewSQLiteGradeScaleRepo(database)
	assessments := repository.NewSQLiteAssessmentRepo(database)

	stage := testutil.NewTestStage("Stage 2")
	require.NoError(t, curriculum.CreateStage(ctx, stage))
	maths := testutil.NewCurriculumChain(stage.ID, "m")
	english := testutil.NewCurriculumChain(stage.ID, "e")
	english.Subject.Position = 1
	for _, chain := range []testutil.CurriculumChain{maths, english} {
		for _, item := range chain.Items() {
			require.NoError(t, curriculum.CreateItem(ctx, item))
		}
	}

	class := testutil.NewTestClass(stage.ID, "2B")
	require.NoError(t, classes.Create(ctx, class))
	ana := testutil.NewTestEnrollment(class.ID, "Ana")
	ben := testutil.NewTestEnrollment(class.ID, "Ben")
	require.NoError(t, enrollments.Create(ctx, ana))
	require.NoError(t, enrollments.Create(ctx, ben))
	mathsPI := testutil.NewTestPlanItem(class.ID, maths.ContentGroup.ID, testutil.WithWeek(1))
	engPI := testutil.NewTestPlanItem(class.ID, english.ContentGroup.ID, testutil.WithWeek(2))
	require.NoError(t, planItems.Create(ctx, mathsPI))
	require.NoError(t, planItems.Create(ctx, engPI))

	app := &App{
		Reports:     service.NewReportService(classes, enrollments, curriculum, scales, assessments),
		Assessments: service.NewAssessmentService(db.NewSQLiteUnitOfWork(database)),
		Grid:        service.NewGridService(classes, enrollments, planItems, curriculum, scales, assessments),
		Scales:      service.NewGradeScaleService(scales),
		Classes:     service.NewClassService(classes, enrollments, planItems),
		Config: config.Config{
			Report: config.ReportConfig{TopN: 3},
			Grid:   config.GridConfig{IdleDelayMS: 1},
		},
	}
	return app, seeded{
		classID: class.ID,
		ana:     ana.ID,
		ben:     ben.ID,
		mathsPI: mathsPI.ID,
		engPI:   engPI.ID,
		mathsCG: maths.ContentGroup.ID,
		mathsCP: maths.ContentPoint.ID,
		records: assessments,
	}
}

// executeCmd runs a cobra command and captures stdout/stderr.
func executeCmd(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(app)
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

func storedRecords(t *testing.T, s seeded, enrollmentID string) []*domain.GradeRecord {
	t.Helper()
	recs, err := s.records.ListByEnrollments(context.Background(), []string{enrollmentID})
	require.NoError(t, err)
	return recs
}

func TestGradeSet_ByNameWithNotes(t *testing.T) {
	app, s := testApp(t)

	out, err := executeCmd(t, app, "grade", "set",
		"--enrollment", s.ana, "--plan-item", s.mathsPI, "--grade", "advanced", "--notes", "counts to 100")
	require.NoError(t, err)
	assert.Contains(t, out, "Advanced")
	assert.Contains(t, out, "notes: counts to 100")

	recs := storedRecords(t, s, s.ana)
	require.Len(t, recs, 1)
	assert.Equal(t, "scale-advanced", recs[0].GradeScaleID)
	assert.Equal(t, s.mathsCG, recs[0].ContentGroupID)
	assert.Equal(t, s.mathsPI, domain.StrFromPtrWithDefault("", recs[0].PlanItemID))
}

func TestGradeSet_PointLevel(t *testing.T) {
	app, s := testApp(t)

	out, err := executeCmd(t, app, "grade", "set",
		"--enrollment", s.ben, "--plan-item", s.mathsPI, "--point", s.mathsCP, "--grade", "scale-developing")
	require.NoError(t, err)
	assert.Contains(t, out, s.mathsCG+"/"+s.mathsCP)

	recs := storedRecords(t, s, s.ben)
	require.Len(t, recs, 1)
	assert.False(t, recs[0].IsGroupLevel())
}

func TestGradeSet_NeedsGradeWithoutTerminal(t *testing.T) {
	app, s := testApp(t)
	app.IsInteractive = func() bool { return false }

	_, err := executeCmd(t, app, "grade", "set", "--enrollment", s.ana, "--plan-item", s.mathsPI)
	assert.ErrorIs(t, err, errGradeRequired)
	assert.Empty(t, storedRecords(t, s, s.ana))
}

func TestGradeSet_Failures(t *testing.T) {
	app, s := testApp(t)

	_, err := executeCmd(t, app, "grade", "set", "--enrollment", s.ana, "--plan-item", s.mathsPI, "--grade", "Excellent")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	_, err = executeCmd(t, app, "grade", "set", "--enrollment", s.ana, "--plan-item", "missing", "--grade", "Advanced")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	_, err = executeCmd(t, app, "grade", "set", "--enrollment", "nobody", "--plan-item", s.mathsPI, "--grade", "Advanced")
	require.Error(t, err)
	var pe *contract.PersistError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, contract.PersistErrInvalidReference, pe.Code)
	assert.Contains(t, err.Error(), "unknown student")

	_, err = executeCmd(t, app, "grade", "set", "--plan-item", s.mathsPI, "--grade", "Advanced")
	assert.Error(t, err, "enrollment flag is required")
}

func TestGradeClear(t *testing.T) {
	app, s := testApp(t)

	_, err := executeCmd(t, app, "grade", "set", "--enrollment", s.ana, "--plan-item", s.mathsPI, "--grade", "Proficient")
	require.NoError(t, err)
	require.Len(t, storedRecords(t, s, s.ana), 1)

	out, err := executeCmd(t, app, "grade", "clear", "--enrollment", s.ana, "--plan-item", s.mathsPI)
	require.NoError(t, err)
	assert.Contains(t, out, "cleared "+s.mathsCG)
	assert.Empty(t, storedRecords(t, s, s.ana))

	_, err = executeCmd(t, app, "grade", "clear", "--enrollment", s.ana, "--plan-item", s.mathsPI)
	assert.NoError(t, err, "clearing again is not an error")
}

func TestReportCmd(t *testing.T) {
	app, s := testApp(t)
	for _, args := range [][]string{
		{"--enrollment", s.ana, "--plan-item", s.mathsPI, "--grade", "Advanced"},
		{"--enrollment", s.ana, "--plan-item", s.engPI, "--grade", "Developing"},
		{"--enrollment", s.ben, "--plan-item", s.mathsPI, "--grade", "Beginning"},
	} {
		_, err := executeCmd(t, app, append([]string{"grade", "set"}, args...)...)
		require.NoError(t, err)
	}

	out, err := executeCmd(t, app, "report", "--class", s.classID)
	require.NoError(t, err)
	assert.Contains(t, out, "CLASS REPORT: 2B")
	assert.Contains(t, out, "Ana")
	assert.Contains(t, out, "Ben")
	assert.Contains(t, out, "3.00", "Ana's overall is the mean of 4 and 2")
	assert.Contains(t, out, "Strongest")

	out, err = executeCmd(t, app, "report", "--class", s.classID, "--student", s.ben, "--tree", "--top", "1")
	require.NoError(t, err)
	assert.NotContains(t, out, "Ana")
	assert.Contains(t, out, "m Content Point")

	_, err = executeCmd(t, app, "report", "--class", "nope")
	var re *contract.ReportError
	assert.True(t, errors.As(err, &re))

	_, err = executeCmd(t, app, "report")
	assert.Error(t, err, "class flag is required")
}

func TestScalesAndClassesCmd(t *testing.T) {
	app, s := testApp(t)

	out, err := executeCmd(t, app, "scales")
	require.NoError(t, err)
	for _, name := range []string{"Beginning", "Developing", "Proficient", "Advanced"} {
		assert.Contains(t, out, name)
	}

	out, err = executeCmd(t, app, "classes")
	require.NoError(t, err)
	assert.Contains(t, out, "2B")

	out, err = executeCmd(t, app, "classes", "--class", s.classID)
	require.NoError(t, err)
	assert.Contains(t, out, "Ana")
	assert.Contains(t, out, s.mathsPI)
}
