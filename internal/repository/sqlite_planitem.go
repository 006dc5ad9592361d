package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/gradebook/internal/db"
	"github.com/alexanderramin/gradebook/internal/domain"
)

// SQLitePlanItemRepo implements PlanItemRepo using a SQLite database.
type SQLitePlanItemRepo struct {
	db db.DBTX
}

func NewSQLitePlanItemRepo(db db.DBTX) *SQLitePlanItemRepo {
	return &SQLitePlanItemRepo{db: db}
}

func (r *SQLitePlanItemRepo) Create(ctx context.Context, p *domain.PlanItem) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO plan_items (id, class_id, content_group_id, week, created_at) VALUES (?, ?, ?, ?, ?)`,
		p.ID, p.ClassID, p.ContentGroupID, p.Week, formatTime(p.CreatedAt))
	if err != nil {
		return fmt.Errorf("inserting plan item: %w", err)
	}
	return nil
}

func (r *SQLitePlanItemRepo) GetByID(ctx context.Context, id string) (*domain.PlanItem, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, class_id, content_group_id, week, created_at FROM plan_items WHERE id = ?`, id)
	p, err := scanPlanItem(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("plan item %s: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return p, nil
}

// ListByClass returns a class's plan items in week order.
func (r *SQLitePlanItemRepo) ListByClass(ctx context.Context, classID string) ([]*domain.PlanItem, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, class_id, content_group_id, week, created_at FROM plan_items
		WHERE class_id = ? ORDER BY week, created_at, id`, classID)
	if err != nil {
		return nil, fmt.Errorf("listing plan items by class: %w", err)
	}
	defer rows.Close()

	var out []*domain.PlanItem
	for rows.Next() {
		p, err := scanPlanItem(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating plan items: %w", err)
	}
	return out, nil
}

func scanPlanItem(scan func(dest ...any) error) (*domain.PlanItem, error) {
	var p domain.PlanItem
	var createdAt string
	if err := scan(&p.ID, &p.ClassID, &p.ContentGroupID, &p.Week, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning plan item: %w", err)
	}
	var err error
	if p.CreatedAt, err = parseTime("created_at", createdAt); err != nil {
		return nil, err
	}
	return &p, nil
}
