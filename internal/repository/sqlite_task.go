package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/sitebook/internal/db"
	"github.com/alexanderramin/sitebook/internal/domain"
	"github.com/alexanderramin/sitebook/internal/ordering"
)

// taskColumns is the canonical SELECT column list for tasks.
const taskColumns = `id, project_id, code, name, unit, is_section, level, parent_code,
		sort_order, is_custom, volume_plan, volume_fact, start_date, end_date,
		plan_start, plan_end, unit_price, labor_per_unit, machine_hours_per_unit,
		executor, created_at, updated_at`

// setOrdersChunk keeps each CASE update well under SQLite's variable limit.
const setOrdersChunk = 400

// SQLiteTaskRepo implements TaskRepo and ordering.Store using a SQLite database.
type SQLiteTaskRepo struct {
	db db.DBTX
}

var _ ordering.Store = (*SQLiteTaskRepo)(nil)

// NewSQLiteTaskRepo creates a new SQLiteTaskRepo.
func NewSQLiteTaskRepo(db db.DBTX) *SQLiteTaskRepo {
	return &SQLiteTaskRepo{db: db}
}

func (r *SQLiteTaskRepo) Create(ctx context.Context, t *domain.Task) error {
	query := `INSERT INTO tasks (` + taskColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		t.ID,
		t.ProjectID,
		t.Code,
		t.Name,
		nullableString(t.Unit),
		boolToInt(t.IsSection),
		t.Level,
		t.ParentCode,
		t.SortOrder,
		boolToInt(t.IsCustom),
		nullableFloat(t.VolumePlan),
		t.VolumeFact,
		nullableTimeToString(t.StartDate, dateLayout),
		nullableTimeToString(t.EndDate, dateLayout),
		nullableTimeToString(t.PlanStart, dateLayout),
		nullableTimeToString(t.PlanEnd, dateLayout),
		nullableDecimal(t.UnitPrice),
		nullableFloat(t.LaborPerUnit),
		nullableFloat(t.MachineHoursPerUnit),
		t.Executor,
		t.CreatedAt.Format(time.RFC3339),
		t.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("task %q: %w", t.Code, ErrDuplicateCode)
		}
		return fmt.Errorf("inserting task: %w", err)
	}
	return nil
}

func (r *SQLiteTaskRepo) GetByID(ctx context.Context, projectID, id string) (*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE project_id = ? AND id = ?`
	t, err := scanTask(r.db.QueryRowContext(ctx, query, projectID, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("task %s: %w", id, ErrNotFound)
	}
	return t, err
}

func (r *SQLiteTaskRepo) GetByCode(ctx context.Context, projectID, code string) (*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE project_id = ? AND code = ?`
	t, err := scanTask(r.db.QueryRowContext(ctx, query, projectID, code))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("task code %q: %w", code, ErrNotFound)
	}
	return t, err
}

// ListOrdered returns the project's tasks in canonical (sort_order, code) order.
func (r *SQLiteTaskRepo) ListOrdered(ctx context.Context, projectID string) ([]*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE project_id = ? ORDER BY sort_order, code`
	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*domain.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tasks: %w", err)
	}
	return tasks, nil
}

func (r *SQLiteTaskRepo) Update(ctx context.Context, t *domain.Task) error {
	query := `UPDATE tasks SET code = ?, name = ?, unit = ?, is_section = ?, level = ?,
		parent_code = ?, sort_order = ?, volume_plan = ?, start_date = ?, end_date = ?,
		plan_start = ?, plan_end = ?, unit_price = ?, labor_per_unit = ?,
		machine_hours_per_unit = ?, executor = ?, updated_at = ?
		WHERE project_id = ? AND id = ?`
	res, err := r.db.ExecContext(ctx, query,
		t.Code,
		t.Name,
		nullableString(t.Unit),
		boolToInt(t.IsSection),
		t.Level,
		t.ParentCode,
		t.SortOrder,
		nullableFloat(t.VolumePlan),
		nullableTimeToString(t.StartDate, dateLayout),
		nullableTimeToString(t.EndDate, dateLayout),
		nullableTimeToString(t.PlanStart, dateLayout),
		nullableTimeToString(t.PlanEnd, dateLayout),
		nullableDecimal(t.UnitPrice),
		nullableFloat(t.LaborPerUnit),
		nullableFloat(t.MachineHoursPerUnit),
		t.Executor,
		t.UpdatedAt.Format(time.RFC3339),
		t.ProjectID,
		t.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("task %q: %w", t.Code, ErrDuplicateCode)
		}
		return fmt.Errorf("updating task: %w", err)
	}
	return expectAffected(res, "task", t.ID)
}

// UpdatePosition is the write behind a move: only sort_order, level and
// parent_code change.
func (r *SQLiteTaskRepo) UpdatePosition(ctx context.Context, projectID, id string, sortOrder, level int, parentCode *string) error {
	query := `UPDATE tasks SET sort_order = ?, level = ?, parent_code = ?, updated_at = ?
		WHERE project_id = ? AND id = ?`
	res, err := r.db.ExecContext(ctx, query, sortOrder, level, parentCode, nowUTC(), projectID, id)
	if err != nil {
		return fmt.Errorf("moving task: %w", err)
	}
	return expectAffected(res, "task", id)
}

func (r *SQLiteTaskRepo) SetVolumeFact(ctx context.Context, projectID, id string, volume float64) error {
	query := `UPDATE tasks SET volume_fact = ?, updated_at = ? WHERE project_id = ? AND id = ?`
	res, err := r.db.ExecContext(ctx, query, volume, nowUTC(), projectID, id)
	if err != nil {
		return fmt.Errorf("updating volume fact: %w", err)
	}
	return expectAffected(res, "task", id)
}

// Delete removes one task after detaching the daily works and monthly plans
// that reference it. Children keep their parent_code.
func (r *SQLiteTaskRepo) Delete(ctx context.Context, projectID, id string) error {
	if err := r.detachReferences(ctx, `task_id = ?`, id); err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE project_id = ? AND id = ?`, projectID, id)
	if err != nil {
		return fmt.Errorf("deleting task: %w", err)
	}
	return expectAffected(res, "task", id)
}

// DeleteMany removes the listed tasks of a project. Ids from other projects
// or unknown ids are ignored.
func (r *SQLiteTaskRepo) DeleteMany(ctx context.Context, projectID string, ids []string) (TaskWipe, error) {
	if len(ids) == 0 {
		return TaskWipe{}, nil
	}
	scope := `project_id = ? AND id IN (` + placeholders(len(ids)) + `)`
	args := append([]any{projectID}, stringsToArgs(ids)...)
	return r.wipe(ctx, scope, args)
}

// DeleteByProject removes every task of a project.
func (r *SQLiteTaskRepo) DeleteByProject(ctx context.Context, projectID string) (TaskWipe, error) {
	return r.wipe(ctx, `project_id = ?`, []any{projectID})
}

func (r *SQLiteTaskRepo) wipe(ctx context.Context, scope string, args []any) (TaskWipe, error) {
	var w TaskWipe
	countQuery := `SELECT COUNT(*), COALESCE(SUM(is_custom), 0) FROM tasks WHERE ` + scope
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&w.Deleted, &w.Custom); err != nil {
		return TaskWipe{}, fmt.Errorf("counting tasks: %w", err)
	}
	if w.Deleted == 0 {
		return w, nil
	}

	if err := r.detachReferences(ctx, `task_id IN (SELECT id FROM tasks WHERE `+scope+`)`, args...); err != nil {
		return TaskWipe{}, err
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE `+scope, args...); err != nil {
		return TaskWipe{}, fmt.Errorf("deleting tasks: %w", err)
	}
	return w, nil
}

func (r *SQLiteTaskRepo) detachReferences(ctx context.Context, where string, args ...any) error {
	for _, table := range []string{"daily_works", "monthly_plans"} {
		query := `UPDATE ` + table + ` SET task_id = NULL WHERE ` + where
		if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("detaching %s: %w", table, err)
		}
	}
	return nil
}

// --- ordering.Store ---

func (r *SQLiteTaskRepo) MaxOrder(ctx context.Context, s ordering.Scope) (int, bool, error) {
	return r.aggregateOrder(ctx, `SELECT MAX(sort_order) FROM tasks WHERE project_id = ? AND id <> ?`,
		s.ProjectID, s.ExcludeID)
}

func (r *SQLiteTaskRepo) OrderBelow(ctx context.Context, s ordering.Scope, order int) (int, bool, error) {
	return r.aggregateOrder(ctx, `SELECT MAX(sort_order) FROM tasks
		WHERE project_id = ? AND id <> ? AND sort_order < ?`, s.ProjectID, s.ExcludeID, order)
}

func (r *SQLiteTaskRepo) OrderAbove(ctx context.Context, s ordering.Scope, order int) (int, bool, error) {
	return r.aggregateOrder(ctx, `SELECT MIN(sort_order) FROM tasks
		WHERE project_id = ? AND id <> ? AND sort_order > ?`, s.ProjectID, s.ExcludeID, order)
}

func (r *SQLiteTaskRepo) CountAtOrder(ctx context.Context, s ordering.Scope, order int) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tasks
		WHERE project_id = ? AND id <> ? AND sort_order = ?`, s.ProjectID, s.ExcludeID, order).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting tasks at order: %w", err)
	}
	return n, nil
}

func (r *SQLiteTaskRepo) aggregateOrder(ctx context.Context, query string, args ...any) (int, bool, error) {
	var v sql.NullInt64
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&v); err != nil {
		return 0, false, fmt.Errorf("reading sort order: %w", err)
	}
	if !v.Valid {
		return 0, false, nil
	}
	return int(v.Int64), true, nil
}

func (r *SQLiteTaskRepo) Positions(ctx context.Context, projectID string) ([]ordering.Position, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, code, sort_order FROM tasks
		WHERE project_id = ? ORDER BY sort_order, code`, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing positions: %w", err)
	}
	defer rows.Close()

	var out []ordering.Position
	for rows.Next() {
		var p ordering.Position
		if err := rows.Scan(&p.ID, &p.Code, &p.SortOrder); err != nil {
			return nil, fmt.Errorf("scanning position: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating positions: %w", err)
	}
	return out, nil
}

// SetOrders writes all assignments with CASE updates, one statement per
// chunk. Callers run it inside a transaction for atomicity across chunks.
func (r *SQLiteTaskRepo) SetOrders(ctx context.Context, projectID string, orders map[string]int) error {
	ids := make([]string, 0, len(orders))
	for id := range orders {
		ids = append(ids, id)
	}
	now := nowUTC()

	for start := 0; start < len(ids); start += setOrdersChunk {
		end := min(start+setOrdersChunk, len(ids))
		chunk := ids[start:end]

		var b strings.Builder
		args := make([]any, 0, len(chunk)*3+2)
		b.WriteString(`UPDATE tasks SET sort_order = CASE id`)
		for _, id := range chunk {
			b.WriteString(` WHEN ? THEN ?`)
			args = append(args, id, orders[id])
		}
		b.WriteString(` END, updated_at = ? WHERE project_id = ? AND id IN (`)
		b.WriteString(placeholders(len(chunk)))
		b.WriteString(`)`)
		args = append(args, now, projectID)
		args = append(args, stringsToArgs(chunk)...)

		if _, err := r.db.ExecContext(ctx, b.String(), args...); err != nil {
			return fmt.Errorf("writing sort orders: %w", err)
		}
	}
	return nil
}

func scanTask(row rowScanner) (*domain.Task, error) {
	var t domain.Task
	var unit, parentCode, executor sql.NullString
	var startStr, endStr, planStartStr, planEndStr, priceStr sql.NullString
	var volumePlan, labor, machine sql.NullFloat64
	var isSection, isCustom int
	var createdAtStr, updatedAtStr string

	err := row.Scan(
		&t.ID, &t.ProjectID, &t.Code, &t.Name, &unit, &isSection, &t.Level, &parentCode,
		&t.SortOrder, &isCustom, &volumePlan, &t.VolumeFact, &startStr, &endStr,
		&planStartStr, &planEndStr, &priceStr, &labor, &machine,
		&executor, &createdAtStr, &updatedAtStr,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning task: %w", err)
	}

	t.Unit = unit.String
	t.IsSection = isSection != 0
	t.IsCustom = isCustom != 0
	if parentCode.Valid {
		t.ParentCode = &parentCode.String
	}
	if executor.Valid {
		t.Executor = &executor.String
	}
	t.VolumePlan = parseNullableFloat(volumePlan)
	t.LaborPerUnit = parseNullableFloat(labor)
	t.MachineHoursPerUnit = parseNullableFloat(machine)
	t.StartDate = parseNullableTime(startStr, dateLayout)
	t.EndDate = parseNullableTime(endStr, dateLayout)
	t.PlanStart = parseNullableTime(planStartStr, dateLayout)
	t.PlanEnd = parseNullableTime(planEndStr, dateLayout)

	var parseErr error
	if t.UnitPrice, parseErr = parseNullableDecimal(priceStr); parseErr != nil {
		return nil, parseErr
	}
	if t.CreatedAt, parseErr = time.Parse(time.RFC3339, createdAtStr); parseErr != nil {
		return nil, fmt.Errorf("parsing created_at: %w", parseErr)
	}
	if t.UpdatedAt, parseErr = time.Parse(time.RFC3339, updatedAtStr); parseErr != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", parseErr)
	}
	return &t, nil
}
