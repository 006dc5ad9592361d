package repository

import (
	"context"
	"testing"

	"github.com/alexanderramin/gradebook/internal/db"
	"github.com/alexanderramin/gradebook/internal/domain"
	"github.com/alexanderramin/gradebook/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGradeScaleRepo_ListOrderedByValue(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()
	repo := NewSQLiteGradeScaleRepo(database)

	require.NoError(t, repo.Create(ctx, &domain.GradeScale{ID: "s-half", Name: "Emerging", NumericValue: 0.5}))

	scales, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, scales, len(db.DefaultGradeScales)+1)
	assert.Equal(t, "s-half", scales[0].ID)
	for i := 1; i < len(scales); i++ {
		assert.LessOrEqual(t, scales[i-1].NumericValue, scales[i].NumericValue)
	}

	got, err := repo.GetByID(ctx, "scale-advanced")
	require.NoError(t, err)
	assert.Equal(t, 4.0, got.NumericValue)

	_, err = repo.GetByID(ctx, "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

// classFixture stores a stage, a class, two enrollments and one plan item.
type classFixture struct {
	stage    *domain.Stage
	class    *domain.Class
	chain    testutil.CurriculumChain
	ana, ben *domain.Enrollment
	plan     *domain.PlanItem
}

func setupClass(t *testing.T, database db.DBTX) classFixture {
	t.Helper()
	ctx := context.Background()
	cur := NewSQLiteCurriculumRepo(database)

	f := classFixture{stage: testutil.NewTestStage("Stage 2")}
	require.NoError(t, cur.CreateStage(ctx, f.stage))
	f.chain = testutil.NewCurriculumChain(f.stage.ID, "m")
	for _, item := range f.chain.Items() {
		require.NoError(t, cur.CreateItem(ctx, item))
	}

	f.class = testutil.NewTestClass(f.stage.ID, "2B")
	require.NoError(t, NewSQLiteClassRepo(database).Create(ctx, f.class))

	enrollments := NewSQLiteEnrollmentRepo(database)
	f.ben = testutil.NewTestEnrollment(f.class.ID, "Ben")
	f.ana = testutil.NewTestEnrollment(f.class.ID, "Ana")
	require.NoError(t, enrollments.Create(ctx, f.ben))
	require.NoError(t, enrollments.Create(ctx, f.ana))

	f.plan = testutil.NewTestPlanItem(f.class.ID, f.chain.ContentGroup.ID, testutil.WithWeek(3))
	require.NoError(t, NewSQLitePlanItemRepo(database).Create(ctx, f.plan))
	return f
}

func TestClassRepo_CreateGetList(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()
	f := setupClass(t, database)
	repo := NewSQLiteClassRepo(database)

	got, err := repo.GetByID(ctx, f.class.ID)
	require.NoError(t, err)
	assert.Equal(t, "2B", got.Name)
	assert.Equal(t, f.stage.ID, got.StageID)
	assert.WithinDuration(t, f.class.CreatedAt, got.CreatedAt, 0)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	_, err = repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestEnrollmentRepo_ListByClassOrderedByName(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()
	f := setupClass(t, database)
	repo := NewSQLiteEnrollmentRepo(database)

	list, err := repo.ListByClass(ctx, f.class.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Ana", list[0].StudentName)
	assert.Equal(t, "Ben", list[1].StudentName)

	got, err := repo.GetByID(ctx, f.ben.ID)
	require.NoError(t, err)
	assert.Equal(t, f.class.ID, got.ClassID)

	_, err = repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPlanItemRepo_ListByClassInWeekOrder(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()
	f := setupClass(t, database)
	repo := NewSQLitePlanItemRepo(database)

	early := testutil.NewTestPlanItem(f.class.ID, f.chain.ContentGroup.ID, testutil.WithWeek(1))
	require.NoError(t, repo.Create(ctx, early))

	items, err := repo.ListByClass(ctx, f.class.ID)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, early.ID, items[0].ID)
	assert.Equal(t, f.plan.ID, items[1].ID)
	assert.Equal(t, 3, items[1].Week)

	_, err = repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}
