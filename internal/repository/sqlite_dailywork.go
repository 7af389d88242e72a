package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/sitebook/internal/db"
	"github.com/alexanderramin/sitebook/internal/domain"
)

const dailyWorkColumns = `id, project_id, task_id, work_date, volume, description, created_at`

// SQLiteDailyWorkRepo implements DailyWorkRepo using a SQLite database.
type SQLiteDailyWorkRepo struct {
	db db.DBTX
}

func NewSQLiteDailyWorkRepo(db db.DBTX) *SQLiteDailyWorkRepo {
	return &SQLiteDailyWorkRepo{db: db}
}

func (r *SQLiteDailyWorkRepo) Create(ctx context.Context, w *domain.DailyWork) error {
	query := `INSERT INTO daily_works (` + dailyWorkColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		w.ID,
		w.ProjectID,
		w.TaskID,
		w.Date.Format(dateLayout),
		w.Volume,
		w.Description,
		w.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting daily work: %w", err)
	}
	return nil
}

func (r *SQLiteDailyWorkRepo) GetByID(ctx context.Context, projectID, id string) (*domain.DailyWork, error) {
	query := `SELECT ` + dailyWorkColumns + ` FROM daily_works WHERE project_id = ? AND id = ?`
	w, err := scanDailyWork(r.db.QueryRowContext(ctx, query, projectID, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("daily work %s: %w", id, ErrNotFound)
	}
	return w, err
}

func (r *SQLiteDailyWorkRepo) ListByDate(ctx context.Context, projectID string, day time.Time) ([]*domain.DailyWork, error) {
	query := `SELECT ` + dailyWorkColumns + ` FROM daily_works
		WHERE project_id = ? AND work_date = ? ORDER BY created_at, id`
	return r.list(ctx, query, projectID, day.Format(dateLayout))
}

func (r *SQLiteDailyWorkRepo) ListByTask(ctx context.Context, taskID string) ([]*domain.DailyWork, error) {
	query := `SELECT ` + dailyWorkColumns + ` FROM daily_works
		WHERE task_id = ? ORDER BY work_date, created_at, id`
	return r.list(ctx, query, taskID)
}

// SumVolumeByTask returns the executed volume recorded against a task.
func (r *SQLiteDailyWorkRepo) SumVolumeByTask(ctx context.Context, taskID string) (float64, error) {
	var total float64
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(volume), 0) FROM daily_works WHERE task_id = ?`, taskID).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("summing daily volume: %w", err)
	}
	return total, nil
}

func (r *SQLiteDailyWorkRepo) Delete(ctx context.Context, projectID, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM daily_works WHERE project_id = ? AND id = ?`, projectID, id)
	if err != nil {
		return fmt.Errorf("deleting daily work: %w", err)
	}
	return expectAffected(res, "daily work", id)
}

func (r *SQLiteDailyWorkRepo) list(ctx context.Context, query string, args ...any) ([]*domain.DailyWork, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing daily works: %w", err)
	}
	defer rows.Close()

	var works []*domain.DailyWork
	for rows.Next() {
		w, err := scanDailyWork(rows)
		if err != nil {
			return nil, err
		}
		works = append(works, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating daily works: %w", err)
	}
	return works, nil
}

func scanDailyWork(row rowScanner) (*domain.DailyWork, error) {
	var w domain.DailyWork
	var taskID sql.NullString
	var dateStr, createdAtStr string

	err := row.Scan(&w.ID, &w.ProjectID, &taskID, &dateStr, &w.Volume, &w.Description, &createdAtStr)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning daily work: %w", err)
	}
	if taskID.Valid {
		w.TaskID = &taskID.String
	}

	var parseErr error
	if w.Date, parseErr = time.Parse(dateLayout, dateStr); parseErr != nil {
		return nil, fmt.Errorf("parsing work_date: %w", parseErr)
	}
	if w.CreatedAt, parseErr = time.Parse(time.RFC3339, createdAtStr); parseErr != nil {
		return nil, fmt.Errorf("parsing created_at: %w", parseErr)
	}
	return &w, nil
}
