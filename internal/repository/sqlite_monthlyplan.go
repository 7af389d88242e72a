package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alexanderramin/sitebook/internal/db"
	"github.com/alexanderramin/sitebook/internal/domain"
)

const monthlyPlanColumns = `id, project_id, task_id, month, volume_plan, created_at, updated_at`

// SQLiteMonthlyPlanRepo implements MonthlyPlanRepo using a SQLite database.
type SQLiteMonthlyPlanRepo struct {
	db db.DBTX
}

func NewSQLiteMonthlyPlanRepo(db db.DBTX) *SQLiteMonthlyPlanRepo {
	return &SQLiteMonthlyPlanRepo{db: db}
}

// Upsert stores the plan for (task, month), replacing the volume of an
// existing row. On conflict p.ID is updated to the surviving row's id.
func (r *SQLiteMonthlyPlanRepo) Upsert(ctx context.Context, p *domain.MonthlyPlan) error {
	query := `INSERT INTO monthly_plans (` + monthlyPlanColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(task_id, month) DO UPDATE SET volume_plan = excluded.volume_plan, updated_at = excluded.updated_at
		RETURNING id`
	err := r.db.QueryRowContext(ctx, query,
		p.ID,
		p.ProjectID,
		p.TaskID,
		domain.MonthStart(p.Month).Format(dateLayout),
		p.VolumePlan,
		p.CreatedAt.Format(time.RFC3339),
		p.UpdatedAt.Format(time.RFC3339),
	).Scan(&p.ID)
	if err != nil {
		return fmt.Errorf("saving monthly plan: %w", err)
	}
	return nil
}

func (r *SQLiteMonthlyPlanRepo) ListByMonth(ctx context.Context, projectID string, month time.Time) ([]*domain.MonthlyPlan, error) {
	query := `SELECT ` + monthlyPlanColumns + ` FROM monthly_plans
		WHERE project_id = ? AND month = ? ORDER BY created_at, id`
	rows, err := r.db.QueryContext(ctx, query, projectID, domain.MonthStart(month).Format(dateLayout))
	if err != nil {
		return nil, fmt.Errorf("listing monthly plans: %w", err)
	}
	defer rows.Close()

	var plans []*domain.MonthlyPlan
	for rows.Next() {
		var p domain.MonthlyPlan
		var taskID sql.NullString
		var monthStr, createdAtStr, updatedAtStr string
		if err := rows.Scan(&p.ID, &p.ProjectID, &taskID, &monthStr, &p.VolumePlan, &createdAtStr, &updatedAtStr); err != nil {
			return nil, fmt.Errorf("scanning monthly plan: %w", err)
		}
		if taskID.Valid {
			p.TaskID = &taskID.String
		}
		var parseErr error
		if p.Month, parseErr = time.Parse(dateLayout, monthStr); parseErr != nil {
			return nil, fmt.Errorf("parsing month: %w", parseErr)
		}
		if p.CreatedAt, parseErr = time.Parse(time.RFC3339, createdAtStr); parseErr != nil {
			return nil, fmt.Errorf("parsing created_at: %w", parseErr)
		}
		if p.UpdatedAt, parseErr = time.Parse(time.RFC3339, updatedAtStr); parseErr != nil {
			return nil, fmt.Errorf("parsing updated_at: %w", parseErr)
		}
		plans = append(plans, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating monthly plans: %w", err)
	}
	return plans, nil
}

func (r *SQLiteMonthlyPlanRepo) Delete(ctx context.Context, projectID, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM monthly_plans WHERE project_id = ? AND id = ?`, projectID, id)
	if err != nil {
		return fmt.Errorf("deleting monthly plan: %w", err)
	}
	return expectAffected(res, "monthly plan", id)
}
