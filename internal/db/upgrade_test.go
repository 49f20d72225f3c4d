package db

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// A database written before analysis_runs had a project_count column keeps
// its rows and gets the count backfilled from run_projects.
func TestMigrate_UpgradeBackfillsProjectCount(t *testing.T) {
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	legacy := []string{
		`CREATE TABLE analysis_runs (
			id            TEXT PRIMARY KEY,
			file          TEXT NOT NULL,
			version       TEXT NOT NULL DEFAULT '',
			export_date   TEXT,
			exported_by   TEXT NOT NULL DEFAULT '',
			currency      TEXT NOT NULL DEFAULT '',
			strict        INTEGER NOT NULL DEFAULT 0,
			finding_count INTEGER NOT NULL DEFAULT 0,
			created_at    TEXT NOT NULL
		)`,
		`CREATE TABLE run_projects (
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
		`INSERT INTO analysis_runs (id, file, created_at) VALUES ('old', 'a.xer', '2024-06-01T00:00:00Z')`,
		`INSERT INTO analysis_runs (id, file, created_at) VALUES ('empty', 'b.xer', '2024-06-02T00:00:00Z')`,
		`INSERT INTO run_projects (run_id, short_name, data_date, finish_date) VALUES ('old', 'P1', '2024-01-01 08:00', '2024-02-01 16:00')`,
		`INSERT INTO run_projects (run_id, short_name, data_date, finish_date) VALUES ('old', 'P2', '2024-01-01 08:00', '2024-02-01 16:00')`,
	}
	for i, stmt := range legacy {
		_, err := db.Exec(stmt)
		require.NoError(t, err, "legacy statement %d failed", i)
	}

	require.NoError(t, Migrate(db))

	var file string
	var count int
	require.NoError(t, db.QueryRow(`SELECT file, project_count FROM analysis_runs WHERE id = 'old'`).Scan(&file, &count))
	assert.Equal(t, "a.xer", file)
	assert.Equal(t, 2, count)

	require.NoError(t, db.QueryRow(`SELECT project_count FROM analysis_runs WHERE id = 'empty'`).Scan(&count))
	assert.Equal(t, 0, count)

	// Tables added later are created alongside the legacy ones.
	var name string
	require.NoError(t, db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name='run_findings'`).Scan(&name))

	// A second run leaves counts untouched.
	require.NoError(t, Migrate(db))
	require.NoError(t, db.QueryRow(`SELECT project_count FROM analysis_runs WHERE id = 'old'`).Scan(&count))
	assert.Equal(t, 2, count)
}
