package db

import (
	"context"
	"database/sql"
	"fmt"
)

// Migrate runs all schema migrations. Every statement is idempotent.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	if err := seedGradeScales(db); err != nil {
		return fmt.Errorf("seeding grade scales: %w", err)
	}
	return nil
}

// DefaultGradeScales is the scale a fresh database starts with.
var DefaultGradeScales = []struct {
	ID    string
	Name  string
	Value float64
}{
	{"scale-beginning", "Beginning", 1},
	{"scale-developing", "Developing", 2},
	{"scale-proficient", "Proficient", 3},
	{"scale-advanced", "Advanced", 4},
}

// seedGradeScales inserts the default scale only into an empty table, so
// scales an operator has edited are left alone.
func seedGradeScales(db *sql.DB) error {
	ctx := context.Background()

	var count int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM grade_scales`).Scan(&count); err != nil {
		return fmt.Errorf("counting grade scales: %w", err)
	}
	if count > 0 {
		return nil
	}
	for _, s := range DefaultGradeScales {
		if _, err := db.ExecContext(ctx,
			`INSERT INTO grade_scales (id, name, numeric_value, created_at) VALUES (?, ?, ?, datetime('now'))`,
			s.ID, s.Name, s.Value); err != nil {
			return fmt.Errorf("inserting grade scale %s: %w", s.Name, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS stages (
		id         TEXT PRIMARY KEY,
		name       TEXT NOT NULL UNIQUE,
		position   INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS subjects (
		id       TEXT PRIMARY KEY,
		name     TEXT NOT NULL,
		position INTEGER NOT NULL DEFAULT 0
	)`,

	`CREATE TABLE IF NOT EXISTS outcomes (
		id         TEXT PRIMARY KEY,
		stage_id   TEXT NOT NULL REFERENCES stages(id) ON DELETE CASCADE,
		subject_id TEXT NOT NULL REFERENCES subjects(id) ON DELETE CASCADE,
		name       TEXT NOT NULL,
		position   INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE INDEX IF NOT EXISTS idx_outcomes_stage ON outcomes(stage_id)`,

	`CREATE TABLE IF NOT EXISTS focus_areas (
		id         TEXT PRIMARY KEY,
		outcome_id TEXT NOT NULL REFERENCES outcomes(id) ON DELETE CASCADE,
		name       TEXT NOT NULL,
		position   INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE INDEX IF NOT EXISTS idx_focus_areas_outcome ON focus_areas(outcome_id)`,

	`CREATE TABLE IF NOT EXISTS focus_groups (
		id            TEXT PRIMARY KEY,
		focus_area_id TEXT NOT NULL REFERENCES focus_areas(id) ON DELETE CASCADE,
		name          TEXT NOT NULL,
		position      INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE INDEX IF NOT EXISTS idx_focus_groups_area ON focus_groups(focus_area_id)`,

	`CREATE TABLE IF NOT EXISTS content_groups (
		id             TEXT PRIMARY KEY,
		focus_group_id TEXT NOT NULL REFERENCES focus_groups(id) ON DELETE CASCADE,
		name           TEXT NOT NULL,
		position       INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE INDEX IF NOT EXISTS idx_content_groups_focus_group ON content_groups(focus_group_id)`,

	`CREATE TABLE IF NOT EXISTS content_points (
		id               TEXT PRIMARY KEY,
		content_group_id TEXT NOT NULL REFERENCES content_groups(id) ON DELETE CASCADE,
		name             TEXT NOT NULL,
		description      TEXT NOT NULL DEFAULT '',
		position         INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE INDEX IF NOT EXISTS idx_content_points_group ON content_points(content_group_id)`,

	`CREATE TABLE IF NOT EXISTS grade_scales (
		id            TEXT PRIMARY KEY,
		name          TEXT NOT NULL UNIQUE,
		numeric_value REAL NOT NULL,
		created_at    TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS classes (
		id         TEXT PRIMARY KEY,
		name       TEXT NOT NULL,
		stage_id   TEXT NOT NULL REFERENCES stages(id),
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS enrollments (
		id           TEXT PRIMARY KEY,
		class_id     TEXT NOT NULL REFERENCES classes(id) ON DELETE CASCADE,
		student_name TEXT NOT NULL,
		created_at   TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_enrollments_class ON enrollments(class_id)`,

	`CREATE TABLE IF NOT EXISTS plan_items (
		id               TEXT PRIMARY KEY,
		class_id         TEXT NOT NULL REFERENCES classes(id) ON DELETE CASCADE,
		content_group_id TEXT NOT NULL REFERENCES content_groups(id),
		week             INTEGER NOT NULL DEFAULT 0 CHECK(week >= 0),
		created_at       TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_plan_items_class ON plan_items(class_id)`,

	`CREATE TABLE IF NOT EXISTS assessments (
		id               TEXT PRIMARY KEY,
		enrollment_id    TEXT NOT NULL REFERENCES enrollments(id) ON DELETE CASCADE,
		plan_item_id     TEXT REFERENCES plan_items(id) ON DELETE SET NULL,
		content_group_id TEXT NOT NULL REFERENCES content_groups(id),
		content_point_id TEXT REFERENCES content_points(id),
		grade_scale_id   TEXT NOT NULL REFERENCES grade_scales(id),
		notes            TEXT,
		assessed_at      TEXT NOT NULL,
		created_at       TEXT NOT NULL,
		updated_at       TEXT NOT NULL
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_assessments_key
		ON assessments(enrollment_id, content_group_id, IFNULL(content_point_id, ''))`,
	`CREATE INDEX IF NOT EXISTS idx_assessments_enrollment ON assessments(enrollment_id)`,
}
