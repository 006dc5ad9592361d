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

// SQLiteCurriculumRepo implements CurriculumRepo using a SQLite database.
type SQLiteCurriculumRepo struct {
	db db.DBTX
}

// NewSQLiteCurriculumRepo creates a new SQLiteCurriculumRepo.
func NewSQLiteCurriculumRepo(db db.DBTX) *SQLiteCurriculumRepo {
	return &SQLiteCurriculumRepo{db: db}
}

func (r *SQLiteCurriculumRepo) CreateStage(ctx context.Context, s *domain.Stage) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO stages (id, name, created_at) VALUES (?, ?, ?)`,
		s.ID, s.Name, formatTime(time.Now()))
	if err != nil {
		return fmt.Errorf("inserting stage: %w", err)
	}
	return nil
}

func (r *SQLiteCurriculumRepo) GetStage(ctx context.Context, id string) (*domain.Stage, error) {
	var s domain.Stage
	err := r.db.QueryRowContext(ctx, `SELECT id, name FROM stages WHERE id = ?`, id).Scan(&s.ID, &s.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("stage %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("scanning stage: %w", err)
	}
	return &s, nil
}

// CreateItem stores one hierarchy node in the table for its kind.
func (r *SQLiteCurriculumRepo) CreateItem(ctx context.Context, item *domain.CurriculumItem) error {
	var (
		query string
		args  []any
	)
	switch item.Kind {
	case domain.KindSubject:
		query = `INSERT INTO subjects (id, name, position) VALUES (?, ?, ?)`
		args = []any{item.ID, item.Name, item.Position}
	case domain.KindOutcome:
		query = `INSERT INTO outcomes (id, stage_id, subject_id, name, position) VALUES (?, ?, ?, ?, ?)`
		args = []any{item.ID, item.StageID, item.ParentID, item.Name, item.Position}
	case domain.KindFocusArea:
		query = `INSERT INTO focus_areas (id, outcome_id, name, position) VALUES (?, ?, ?, ?)`
		args = []any{item.ID, item.ParentID, item.Name, item.Position}
	case domain.KindFocusGroup:
		query = `INSERT INTO focus_groups (id, focus_area_id, name, position) VALUES (?, ?, ?, ?)`
		args = []any{item.ID, item.ParentID, item.Name, item.Position}
	case domain.KindContentGroup:
		query = `INSERT INTO content_groups (id, focus_group_id, name, position) VALUES (?, ?, ?, ?)`
		args = []any{item.ID, item.ParentID, item.Name, item.Position}
	case domain.KindContentPoint:
		query = `INSERT INTO content_points (id, content_group_id, name, description, position) VALUES (?, ?, ?, ?, ?)`
		args = []any{item.ID, item.ParentID, item.Name, item.Description, item.Position}
	default:
		return fmt.Errorf("inserting curriculum item: unknown kind %q", item.Kind)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("inserting %s: %w", item.Kind.Label(), err)
	}
	return nil
}

func (r *SQLiteCurriculumRepo) ListHierarchyRows(ctx context.Context, stageID string) ([]domain.HierarchyRow, error) {
	query := `SELECT o.stage_id,
			s.id, s.name,
			o.id, o.name,
			fa.id, fa.name,
			fg.id, fg.name,
			cg.id, cg.name,
			cp.id, cp.name, cp.description
		FROM outcomes o
		JOIN subjects s ON s.id = o.subject_id
		LEFT JOIN focus_areas fa ON fa.outcome_id = o.id
		LEFT JOIN focus_groups fg ON fg.focus_area_id = fa.id
		LEFT JOIN content_groups cg ON cg.focus_group_id = fg.id
		LEFT JOIN content_points cp ON cp.content_group_id = cg.id
		WHERE o.stage_id = ?
		ORDER BY s.position, s.name, o.position, o.name,
			fa.position, fa.name, fg.position, fg.name,
			cg.position, cg.name, cp.position, cp.name`
	rows, err := r.db.QueryContext(ctx, query, stageID)
	if err != nil {
		return nil, fmt.Errorf("listing hierarchy rows: %w", err)
	}
	defer rows.Close()

	var out []domain.HierarchyRow
	for rows.Next() {
		var (
			row                        domain.HierarchyRow
			faID, faName, fgID, fgName sql.NullString
			cgID, cgName               sql.NullString
			cpID, cpName, cpDesc       sql.NullString
		)
		if err := rows.Scan(
			&row.StageID,
			&row.SubjectID, &row.SubjectName,
			&row.OutcomeID, &row.OutcomeName,
			&faID, &faName,
			&fgID, &fgName,
			&cgID, &cgName,
			&cpID, &cpName, &cpDesc,
		); err != nil {
			return nil, fmt.Errorf("scanning hierarchy row: %w", err)
		}
		row.FocusAreaID, row.FocusAreaName = faID.String, faName.String
		row.FocusGroupID, row.FocusGroupName = fgID.String, fgName.String
		row.ContentGroupID, row.ContentGroupName = cgID.String, cgName.String
		row.ContentPointID, row.ContentPointName = cpID.String, cpName.String
		row.ContentPointDescription = cpDesc.String
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating hierarchy rows: %w", err)
	}
	return out, nil
}

func (r *SQLiteCurriculumRepo) ContentGroupName(ctx context.Context, id string) (string, error) {
	var name string
	err := r.db.QueryRowContext(ctx, `SELECT name FROM content_groups WHERE id = ?`, id).Scan(&name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("content group %s: %w", id, ErrNotFound)
		}
		return "", fmt.Errorf("loading content group: %w", err)
	}
	return name, nil
}

func (r *SQLiteCurriculumRepo) ContentPointGroup(ctx context.Context, contentPointID string) (string, error) {
	var groupID string
	err := r.db.QueryRowContext(ctx,
		`SELECT content_group_id FROM content_points WHERE id = ?`, contentPointID).Scan(&groupID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("content point %s: %w", contentPointID, ErrNotFound)
		}
		return "", fmt.Errorf("loading content point: %w", err)
	}
	return groupID, nil
}
