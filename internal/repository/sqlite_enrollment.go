package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/gradebook/internal/db"
	"github.com/alexanderramin/gradebook/internal/domain"
)

// SQLiteEnrollmentRepo implements EnrollmentRepo using a SQLite database.
type SQLiteEnrollmentRepo struct {
	db db.DBTX
}

func NewSQLiteEnrollmentRepo(db db.DBTX) *SQLiteEnrollmentRepo {
	return &SQLiteEnrollmentRepo{db: db}
}

func (r *SQLiteEnrollmentRepo) Create(ctx context.Context, e *domain.Enrollment) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO enrollments (id, class_id, student_name, created_at) VALUES (?, ?, ?, ?)`,
		e.ID, e.ClassID, e.StudentName, formatTime(e.CreatedAt))
	if err != nil {
		return fmt.Errorf("inserting enrollment: %w", err)
	}
	return nil
}

func (r *SQLiteEnrollmentRepo) GetByID(ctx context.Context, id string) (*domain.Enrollment, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, class_id, student_name, created_at FROM enrollments WHERE id = ?`, id)
	e, err := scanEnrollment(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("enrollment %s: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return e, nil
}

// ListByClass returns a class's enrollments ordered by student name.
func (r *SQLiteEnrollmentRepo) ListByClass(ctx context.Context, classID string) ([]*domain.Enrollment, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, class_id, student_name, created_at FROM enrollments
		WHERE class_id = ? ORDER BY student_name, id`, classID)
	if err != nil {
		return nil, fmt.Errorf("listing enrollments by class: %w", err)
	}
	defer rows.Close()

	var out []*domain.Enrollment
	for rows.Next() {
		e, err := scanEnrollment(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating enrollments: %w", err)
	}
	return out, nil
}

func scanEnrollment(scan func(dest ...any) error) (*domain.Enrollment, error) {
	var e domain.Enrollment
	var createdAt string
	if err := scan(&e.ID, &e.ClassID, &e.StudentName, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning enrollment: %w", err)
	}
	var err error
	if e.CreatedAt, err = parseTime("created_at", createdAt); err != nil {
		return nil, err
	}
	return &e, nil
}
