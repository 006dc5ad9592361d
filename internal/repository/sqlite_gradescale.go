package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/gradebook/internal/db"
	"github.com/alexanderramin/gradebook/internal/domain"
)

// SQLiteGradeScaleRepo implements GradeScaleRepo using a SQLite database.
type SQLiteGradeScaleRepo struct {
	db db.DBTX
}

func NewSQLiteGradeScaleRepo(db db.DBTX) *SQLiteGradeScaleRepo {
	return &SQLiteGradeScaleRepo{db: db}
}

func (r *SQLiteGradeScaleRepo) Create(ctx context.Context, s *domain.GradeScale) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO grade_scales (id, name, numeric_value, created_at) VALUES (?, ?, ?, ?)`,
		s.ID, s.Name, s.NumericValue, formatTime(time.Now()))
	if err != nil {
		return fmt.Errorf("inserting grade scale: %w", err)
	}
	return nil
}

func (r *SQLiteGradeScaleRepo) GetByID(ctx context.Context, id string) (*domain.GradeScale, error) {
	var s domain.GradeScale
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, numeric_value FROM grade_scales WHERE id = ?`, id).
		Scan(&s.ID, &s.Name, &s.NumericValue)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("grade scale %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("scanning grade scale: %w", err)
	}
	return &s, nil
}

// List returns every scale ordered by numeric value.
func (r *SQLiteGradeScaleRepo) List(ctx context.Context) ([]domain.GradeScale, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, numeric_value FROM grade_scales ORDER BY numeric_value, name`)
	if err != nil {
		return nil, fmt.Errorf("listing grade scales: %w", err)
	}
	defer rows.Close()

	var scales []domain.GradeScale
	for rows.Next() {
		var s domain.GradeScale
		if err := rows.Scan(&s.ID, &s.Name, &s.NumericValue); err != nil {
			return nil, fmt.Errorf("scanning grade scale row: %w", err)
		}
		scales = append(scales, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating grade scales: %w", err)
	}
	return scales, nil
}
