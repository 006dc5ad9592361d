package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/gradebook/internal/db"
	"github.com/alexanderramin/gradebook/internal/domain"
)

const assessmentColumns = `id, enrollment_id, plan_item_id, content_group_id, content_point_id,
	grade_scale_id, notes, assessed_at, created_at, updated_at`

// SQLiteAssessmentRepo implements AssessmentRepo using a SQLite database.
// The key (enrollment, content group, content point or none) is unique in
// storage; a second Create for a key fails with a constraint error.
type SQLiteAssessmentRepo struct {
	db db.DBTX
}

func NewSQLiteAssessmentRepo(db db.DBTX) *SQLiteAssessmentRepo {
	return &SQLiteAssessmentRepo{db: db}
}

func (r *SQLiteAssessmentRepo) Create(ctx context.Context, a *domain.GradeRecord) error {
	query := `INSERT INTO assessments (` + assessmentColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		a.ID,
		a.EnrollmentID,
		nullableString(a.PlanItemID),
		a.ContentGroupID,
		nullableString(a.ContentPointID),
		a.GradeScaleID,
		nullableString(a.Notes),
		formatTime(a.AssessedAt),
		formatTime(a.CreatedAt),
		formatTime(a.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting assessment: %w", err)
	}
	return nil
}

// Update replaces the grade, notes, plan item and timestamps of an existing
// record. The key columns are not changed.
func (r *SQLiteAssessmentRepo) Update(ctx context.Context, a *domain.GradeRecord) error {
	query := `UPDATE assessments
		SET plan_item_id = ?, grade_scale_id = ?, notes = ?, assessed_at = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		nullableString(a.PlanItemID),
		a.GradeScaleID,
		nullableString(a.Notes),
		formatTime(a.AssessedAt),
		formatTime(a.UpdatedAt),
		a.ID,
	)
	if err != nil {
		return fmt.Errorf("updating assessment: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking updated assessment: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("assessment %s: %w", a.ID, ErrNotFound)
	}
	return nil
}

func (r *SQLiteAssessmentRepo) GetByID(ctx context.Context, id string) (*domain.GradeRecord, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+assessmentColumns+` FROM assessments WHERE id = ?`, id)
	a, err := scanAssessment(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("assessment %s: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return a, nil
}

func (r *SQLiteAssessmentRepo) GetByKey(ctx context.Context, key domain.AssessmentKey) (*domain.GradeRecord, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+assessmentColumns+` FROM assessments
		WHERE enrollment_id = ? AND content_group_id = ? AND IFNULL(content_point_id, '') = ?`,
		key.EnrollmentID, key.ContentGroupID, key.ContentPointID)
	a, err := scanAssessment(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("assessment for %s/%s: %w", key.EnrollmentID, key.ContentGroupID, ErrNotFound)
		}
		return nil, err
	}
	return a, nil
}

// ListByEnrollments returns every record of the given enrollments.
func (r *SQLiteAssessmentRepo) ListByEnrollments(ctx context.Context, enrollmentIDs []string) ([]*domain.GradeRecord, error) {
	if len(enrollmentIDs) == 0 {
		return nil, nil
	}
	args := make([]any, len(enrollmentIDs))
	for i, id := range enrollmentIDs {
		args[i] = id
	}
	query := `SELECT ` + assessmentColumns + ` FROM assessments
		WHERE enrollment_id IN (` + placeholders(len(enrollmentIDs)) + `)
		ORDER BY enrollment_id, assessed_at, id`
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing assessments by enrollments: %w", err)
	}
	defer rows.Close()

	var out []*domain.GradeRecord
	for rows.Next() {
		a, err := scanAssessment(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating assessments: %w", err)
	}
	return out, nil
}

func (r *SQLiteAssessmentRepo) DeleteByKey(ctx context.Context, key domain.AssessmentKey) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM assessments
		WHERE enrollment_id = ? AND content_group_id = ? AND IFNULL(content_point_id, '') = ?`,
		key.EnrollmentID, key.ContentGroupID, key.ContentPointID)
	if err != nil {
		return false, fmt.Errorf("deleting assessment: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("checking deleted assessment: %w", err)
	}
	return n > 0, nil
}

func scanAssessment(scan func(dest ...any) error) (*domain.GradeRecord, error) {
	var (
		a                              domain.GradeRecord
		planItemID, pointID, notes     sql.NullString
		assessedAt, createdAt, updated string
	)
	err := scan(&a.ID, &a.EnrollmentID, &planItemID, &a.ContentGroupID, &pointID,
		&a.GradeScaleID, &notes, &assessedAt, &createdAt, &updated)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning assessment: %w", err)
	}
	return populateAssessment(&a, planItemID, pointID, notes, assessedAt, createdAt, updated)
}

func populateAssessment(a *domain.GradeRecord, planItemID, pointID, notes sql.NullString, assessedAt, createdAt, updatedAt string) (*domain.GradeRecord, error) {
	a.PlanItemID = stringPtr(planItemID)
	a.ContentPointID = stringPtr(pointID)
	a.Notes = stringPtr(notes)

	var err error
	if a.AssessedAt, err = parseTime("assessed_at", assessedAt); err != nil {
		return nil, err
	}
	if a.CreatedAt, err = parseTime("created_at", createdAt); err != nil {
		return nil, err
	}
	if a.UpdatedAt, err = parseTime("updated_at", updatedAt); err != nil {
		return nil, err
	}
	return a, nil
}
