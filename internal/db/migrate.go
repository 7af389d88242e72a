package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// ALTER TABLE statements are re-run on every start.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	if err := migrateBackfillArchivedStatus(db); err != nil {
		return fmt.Errorf("backfilling archived status: %w", err)
	}
	return nil
}

// migrateBackfillArchivedStatus aligns status with archived_at for rows
// written before the status column existed.
func migrateBackfillArchivedStatus(db *sql.DB) error {
	_, err := db.Exec(`UPDATE projects SET status = 'archived'
		WHERE archived_at IS NOT NULL AND status <> 'archived'`)
	return err
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS projects (
		id          TEXT PRIMARY KEY,
		name        TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		address     TEXT NOT NULL DEFAULT '',
		archived_at TEXT,
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL
	)`,
	`ALTER TABLE projects ADD COLUMN status TEXT NOT NULL DEFAULT 'active'
		CHECK(status IN ('active','archived'))`,
	`CREATE TABLE IF NOT EXISTS tasks (
		id                     TEXT PRIMARY KEY,
		project_id             TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		code                   TEXT NOT NULL,
		name                   TEXT NOT NULL,
		unit                   TEXT,
		is_section             INTEGER NOT NULL DEFAULT 0,
		level                  INTEGER NOT NULL DEFAULT 0 CHECK(level >= 0),
		parent_code            TEXT,
		sort_order             INTEGER NOT NULL DEFAULT 0,
		is_custom              INTEGER NOT NULL DEFAULT 0,
		volume_plan            REAL,
		volume_fact            REAL NOT NULL DEFAULT 0,
		start_date             TEXT,
		end_date               TEXT,
		plan_start             TEXT,
		plan_end               TEXT,
		unit_price             TEXT,
		labor_per_unit         REAL,
		machine_hours_per_unit REAL,
		created_at             TEXT NOT NULL,
		updated_at             TEXT NOT NULL,
		UNIQUE(project_id, code)
	)`,
	`ALTER TABLE tasks ADD COLUMN executor TEXT`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_project_order ON tasks(project_id, sort_order, code)`,
	`CREATE TABLE IF NOT EXISTS daily_works (
		id          TEXT PRIMARY KEY,
		project_id  TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		task_id     TEXT REFERENCES tasks(id) ON DELETE SET NULL,
		work_date   TEXT NOT NULL,
		volume      REAL NOT NULL DEFAULT 0,
		description TEXT NOT NULL DEFAULT '',
		created_at  TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_daily_works_task ON daily_works(task_id)`,
	`CREATE INDEX IF NOT EXISTS idx_daily_works_project_date ON daily_works(project_id, work_date)`,
	`CREATE TABLE IF NOT EXISTS monthly_plans (
		id          TEXT PRIMARY KEY,
		project_id  TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		task_id     TEXT REFERENCES tasks(id) ON DELETE SET NULL,
		month       TEXT NOT NULL,
		volume_plan REAL NOT NULL DEFAULT 0,
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL,
		UNIQUE(task_id, month)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_monthly_plans_project_month ON monthly_plans(project_id, month)`,
}
