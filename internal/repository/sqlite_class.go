package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/gradebook/internal/db"
	"github.com/alexanderramin/gradebook/internal/domain"
)

// SQLiteClassRepo implements ClassRepo using a SQLite database.
type SQLiteClassRepo struct {
	db db.DBTX
}

func NewSQLiteClassRepo(db db.DBTX) *SQLiteClassRepo {
	return &SQLiteClassRepo{db: db}
}

func (r *SQLiteClassRepo) Create(ctx context.Context, c *domain.Class) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO classes (id, name, stage_id, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		c.ID, c.Name, c.StageID, formatTime(c.CreatedAt), formatTime(c.UpdatedAt))
	if err != nil {
		return fmt.Errorf("inserting class: %w", err)
	}
	return nil
}

func (r *SQLiteClassRepo) GetByID(ctx context.Context, id string) (*domain.Class, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, name, stage_id, created_at, updated_at FROM classes WHERE id = ?`, id)
	c, err := scanClass(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("class %s: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return c, nil
}

func (r *SQLiteClassRepo) List(ctx context.Context) ([]*domain.Class, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, stage_id, created_at, updated_at FROM classes ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("listing classes: %w", err)
	}
	defer rows.Close()

	var classes []*domain.Class
	for rows.Next() {
		c, err := scanClass(rows.Scan)
		if err != nil {
			return nil, err
		}
		classes = append(classes, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating classes: %w", err)
	}
	return classes, nil
}

func scanClass(scan func(dest ...any) error) (*domain.Class, error) {
	var c domain.Class
	var createdAt, updatedAt string
	if err := scan(&c.ID, &c.Name, &c.StageID, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning class: %w", err)
	}
	var err error
	if c.CreatedAt, err = parseTime("created_at", createdAt); err != nil {
		return nil, err
	}
	if c.UpdatedAt, err = parseTime("updated_at", updatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}
