package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// ALTER TABLE statements fail on re-run once the column exists.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	if err := migrateBackfillProjectCounts(db); err != nil {
		return fmt.Errorf("backfilling run project counts: %w", err)
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS analysis_runs (
		id            TEXT PRIMARY KEY,
		file          TEXT NOT NULL,
		version       TEXT NOT NULL DEFAULT '',
		export_date   TEXT,
		exported_by   TEXT NOT NULL DEFAULT '',
		currency      TEXT NOT NULL DEFAULT '',
		strict        INTEGER NOT NULL DEFAULT 0,
		finding_count INTEGER NOT NULL DEFAULT 0 CHECK(finding_count >= 0),
		created_at    TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_runs_file ON analysis_runs(file)`,
	`CREATE INDEX IF NOT EXISTS idx_runs_created ON analysis_runs(created_at)`,

	`CREATE TABLE IF NOT EXISTS run_projects (
		run_id             TEXT NOT NULL REFERENCES analysis_runs(id) ON DELETE CASCADE,
		short_name         TEXT NOT NULL,
		name               TEXT NOT NULL DEFAULT '',
		data_date          TEXT NOT NULL,
		finish_date        TEXT NOT NULL,
		task_count         INTEGER NOT NULL DEFAULT 0,
		relationship_count INTEGER NOT NULL DEFAULT 0,
		critical_count     INTEGER NOT NULL DEFAULT 0,
		task_percent       REAL NOT NULL DEFAULT 0,
		duration_percent   REAL,
		budget_cost        REAL NOT NULL DEFAULT 0,
		actual_cost        REAL NOT NULL DEFAULT 0,
		remaining_cost     REAL NOT NULL DEFAULT 0,
		PRIMARY KEY (run_id, short_name)
	)`,

	`CREATE TABLE IF NOT EXISTS run_tasks (
		run_id      TEXT NOT NULL REFERENCES analysis_runs(id) ON DELETE CASCADE,
		project     TEXT NOT NULL,
		code        TEXT NOT NULL,
		name        TEXT NOT NULL DEFAULT '',
		status      TEXT NOT NULL
		            CHECK(status IN ('TK_NotStart','TK_Active','TK_Complete')),
		total_float INTEGER,
		start       TEXT,
		finish      TEXT,
		percent     REAL NOT NULL DEFAULT 0,
		critical    INTEGER NOT NULL DEFAULT 0
	)`,

	`CREATE INDEX IF NOT EXISTS idx_run_tasks_project ON run_tasks(run_id, project)`,

	`CREATE TABLE IF NOT EXISTS run_findings (
		run_id  TEXT NOT NULL REFERENCES analysis_runs(id) ON DELETE CASCADE,
		seq     INTEGER NOT NULL,
		code    TEXT NOT NULL,
		message TEXT NOT NULL,
		PRIMARY KEY (run_id, seq)
	)`,

	// project_count was added after the first release
	`ALTER TABLE analysis_runs ADD COLUMN project_count INTEGER NOT NULL DEFAULT 0`,
}

// migrateBackfillProjectCounts sets project_count on runs stored before the
// column existed. Runs that already have a count are left alone.
func migrateBackfillProjectCounts(db *sql.DB) error {
	ctx := context.Background()
	query := `UPDATE analysis_runs
		SET project_count = (SELECT COUNT(*) FROM run_projects p WHERE p.run_id = analysis_runs.id)
		WHERE project_count = 0
		  AND EXISTS (SELECT 1 FROM run_projects p WHERE p.run_id = analysis_runs.id)`
	if _, err := db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("updating project_count: %w", err)
	}
	return nil
}
