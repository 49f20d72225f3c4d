package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/xerkit/internal/db"
	"github.com/alexanderramin/xerkit/internal/domain"
)

// SQLiteRunRepo implements RunRepo using a SQLite database.
type SQLiteRunRepo struct {
	db db.DBTX
}

// NewSQLiteRunRepo creates a new SQLiteRunRepo. conn may be a *sql.Tx.
func NewSQLiteRunRepo(conn db.DBTX) *SQLiteRunRepo {
	return &SQLiteRunRepo{db: conn}
}

const runColumns = `id, file, version, export_date, exported_by, currency, strict, finding_count, project_count, created_at`

func (r *SQLiteRunRepo) Create(ctx context.Context, run *domain.AnalysisRun) error {
	query := `INSERT INTO analysis_runs (` + runColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		run.ID,
		run.File,
		run.Version,
		nullableTimeToString(run.ExportDate, time.DateOnly),
		run.ExportedBy,
		run.Currency,
		boolToInt(run.Strict),
		run.FindingCount,
		run.ProjectCount,
		run.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting analysis run: %w", err)
	}
	return nil
}

func (r *SQLiteRunRepo) AddProject(ctx context.Context, p *domain.RunProject) error {
	query := `INSERT INTO run_projects (run_id, short_name, name, data_date, finish_date,
		task_count, relationship_count, critical_count, task_percent, duration_percent,
		budget_cost, actual_cost, remaining_cost)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		p.RunID,
		p.ShortName,
		p.Name,
		p.DataDate.Format(dateTimeLayout),
		p.FinishDate.Format(dateTimeLayout),
		p.TaskCount,
		p.RelationshipCount,
		p.CriticalCount,
		p.TaskPercent,
		nullableFloatToValue(p.DurationPercent),
		p.BudgetCost,
		p.ActualCost,
		p.RemainingCost,
	)
	if err != nil {
		return fmt.Errorf("inserting run project %s: %w", p.ShortName, err)
	}
	return nil
}

func (r *SQLiteRunRepo) AddTask(ctx context.Context, t *domain.RunTask) error {
	query := `INSERT INTO run_tasks (run_id, project, code, name, status, total_float, start, finish, percent, critical)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		t.RunID,
		t.Project,
		t.Code,
		t.Name,
		string(t.Status),
		nullableIntToValue(t.TotalFloat),
		nullableTimeToString(t.Start, dateTimeLayout),
		nullableTimeToString(t.Finish, dateTimeLayout),
		t.Percent,
		boolToInt(t.Critical),
	)
	if err != nil {
		return fmt.Errorf("inserting run task %s: %w", t.Code, err)
	}
	return nil
}

func (r *SQLiteRunRepo) AddFinding(ctx context.Context, f *domain.RunFinding) error {
	query := `INSERT INTO run_findings (run_id, seq, code, message) VALUES (?, ?, ?, ?)`
	if _, err := r.db.ExecContext(ctx, query, f.RunID, f.Seq, f.Code, f.Message); err != nil {
		return fmt.Errorf("inserting run finding: %w", err)
	}
	return nil
}

func (r *SQLiteRunRepo) GetByID(ctx context.Context, id string) (*domain.AnalysisRun, error) {
	query := `SELECT ` + runColumns + ` FROM analysis_runs WHERE id = ?`
	run, err := scanRun(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("analysis run %s: %w", id, ErrNotFound)
	}
	return run, err
}

// List returns runs newest first.
func (r *SQLiteRunRepo) List(ctx context.Context, filter RunFilter) ([]*domain.AnalysisRun, error) {
	var (
		where []string
		args  []any
	)
	if filter.File != "" {
		where = append(where, "file = ?")
		args = append(args, filter.File)
	}
	query := `SELECT ` + runColumns + ` FROM analysis_runs`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC, id"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing analysis runs: %w", err)
	}
	defer rows.Close()

	var runs []*domain.AnalysisRun
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating analysis runs: %w", err)
	}
	return runs, nil
}

func (r *SQLiteRunRepo) ListProjects(ctx context.Context, runID string) ([]*domain.RunProject, error) {
	query := `SELECT run_id, short_name, name, data_date, finish_date, task_count, relationship_count,
		critical_count, task_percent, duration_percent, budget_cost, actual_cost, remaining_cost
		FROM run_projects WHERE run_id = ? ORDER BY short_name`
	rows, err := r.db.QueryContext(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("listing run projects: %w", err)
	}
	defer rows.Close()

	var out []*domain.RunProject
	for rows.Next() {
		var (
			p                domain.RunProject
			dataDate, finish string
			durationPercent  sql.NullFloat64
		)
		err := rows.Scan(
			&p.RunID, &p.ShortName, &p.Name, &dataDate, &finish,
			&p.TaskCount, &p.RelationshipCount, &p.CriticalCount,
			&p.TaskPercent, &durationPercent,
			&p.BudgetCost, &p.ActualCost, &p.RemainingCost,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning run project row: %w", err)
		}
		if p.DataDate, err = parseTime(dateTimeLayout, dataDate, "data_date"); err != nil {
			return nil, err
		}
		if p.FinishDate, err = parseTime(dateTimeLayout, finish, "finish_date"); err != nil {
			return nil, err
		}
		p.DurationPercent = nullFloatToPtr(durationPercent)
		out = append(out, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating run projects: %w", err)
	}
	return out, nil
}

// ListTasks returns the tasks of a run ordered by project and code. An
// empty project lists every project.
func (r *SQLiteRunRepo) ListTasks(ctx context.Context, runID, project string) ([]*domain.RunTask, error) {
	query := `SELECT run_id, project, code, name, status, total_float, start, finish, percent, critical
		FROM run_tasks WHERE run_id = ? AND (? = '' OR project = ?)
		ORDER BY project, code`
	rows, err := r.db.QueryContext(ctx, query, runID, project, project)
	if err != nil {
		return nil, fmt.Errorf("listing run tasks: %w", err)
	}
	defer rows.Close()

	var out []*domain.RunTask
	for rows.Next() {
		var (
			t             domain.RunTask
			status        string
			totalFloat    sql.NullInt64
			start, finish sql.NullString
			critical      int
		)
		err := rows.Scan(&t.RunID, &t.Project, &t.Code, &t.Name, &status,
			&totalFloat, &start, &finish, &t.Percent, &critical)
		if err != nil {
			return nil, fmt.Errorf("scanning run task row: %w", err)
		}
		t.Status = domain.TaskStatus(status)
		t.TotalFloat = nullIntToPtr(totalFloat)
		t.Start = parseNullableTime(start, dateTimeLayout)
		t.Finish = parseNullableTime(finish, dateTimeLayout)
		t.Critical = intToBool(critical)
		out = append(out, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating run tasks: %w", err)
	}
	return out, nil
}

func (r *SQLiteRunRepo) ListFindings(ctx context.Context, runID string) ([]*domain.RunFinding, error) {
	query := `SELECT run_id, seq, code, message FROM run_findings WHERE run_id = ? ORDER BY seq`
	rows, err := r.db.QueryContext(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("listing run findings: %w", err)
	}
	defer rows.Close()

	var out []*domain.RunFinding
	for rows.Next() {
		var f domain.RunFinding
		if err := rows.Scan(&f.RunID, &f.Seq, &f.Code, &f.Message); err != nil {
			return nil, fmt.Errorf("scanning run finding row: %w", err)
		}
		out = append(out, &f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating run findings: %w", err)
	}
	return out, nil
}

// Delete removes a run and, through the foreign keys, everything stored
// with it.
func (r *SQLiteRunRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM analysis_runs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting analysis run: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("analysis run %s: %w", id, ErrNotFound)
	}
	return nil
}

func scanRun(row scanner) (*domain.AnalysisRun, error) {
	var (
		run        domain.AnalysisRun
		exportDate sql.NullString
		strict     int
		createdAt  string
	)
	err := row.Scan(
		&run.ID, &run.File, &run.Version, &exportDate,
		&run.ExportedBy, &run.Currency, &strict,
		&run.FindingCount, &run.ProjectCount, &createdAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning analysis run: %w", err)
	}
	run.ExportDate = parseNullableTime(exportDate, time.DateOnly)
	run.Strict = intToBool(strict)
	if run.CreatedAt, err = parseTime(time.RFC3339, createdAt, "created_at"); err != nil {
		return nil, err
	}
	return &run, nil
}
