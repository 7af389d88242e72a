package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/alexanderramin/sitebook/internal/contract"
	"github.com/alexanderramin/sitebook/internal/db"
	"github.com/alexanderramin/sitebook/internal/domain"
	"github.com/alexanderramin/sitebook/internal/ordering"
	"github.com/alexanderramin/sitebook/internal/repository"
	"github.com/google/uuid"
)

type taskService struct {
	tasks    repository.TaskRepo
	writer   *db.ProjectWriter
	notifier Notifier
	observer UseCaseObserver
}

// NewTaskService builds the task use cases. Reads go through tasks; every
// write runs in writer's per-project transaction on tx-scoped repositories.
func NewTaskService(tasks repository.TaskRepo, writer *db.ProjectWriter, notifier Notifier, observers ...UseCaseObserver) TaskService {
	if notifier == nil {
		notifier = NoopNotifier{}
	}
	return &taskService{
		tasks:    tasks,
		writer:   writer,
		notifier: notifier,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *taskService) Create(ctx context.Context, in CreateTaskInput) (pl *Placement, err error) {
	if in.Task == nil {
		return nil, invalidf("task is required")
	}
	t := in.Task
	fields := map[string]any{
		"project_id": t.ProjectID,
		"where":      string(in.Where),
		"anchor_id":  in.AnchorID,
	}
	ctx, done := useCase(ctx, s.observer, "create-task", fields)
	defer func() { done(err) }()

	if err = checkAnchor(in.Where); err != nil {
		return nil, err
	}
	t.Code = strings.TrimSpace(t.Code)
	if t.IsCustom && t.Code == "" {
		t.Code = customCode()
	}
	t.Name = strings.TrimSpace(t.Name)
	t.Unit = strings.TrimSpace(t.Unit)
	t.IsSection = t.Unit == ""
	if errs := validateTask(t); len(errs) > 0 {
		return nil, formatValidationErrors(errs)
	}
	t.ParentCode = domain.StrPtr(strings.TrimSpace(domain.StrFromPtr(t.ParentCode)))
	explicitParent := t.ParentCode != nil
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	now := nowUTC()
	t.CreatedAt = now
	t.UpdatedAt = now
	t.VolumeFact = 0

	var renumbered int
	err = s.writer.WithinProjectTx(ctx, t.ProjectID, func(ctx context.Context, tx db.DBTX) error {
		r := reposFor(tx)
		if _, err := r.projects.GetByID(ctx, t.ProjectID); err != nil {
			return err
		}
		anchor, err := lookupAnchor(ctx, r.tasks, t.ProjectID, in.Where, in.AnchorID)
		if err != nil {
			return err
		}

		var pos *ordering.Position
		if anchor != nil {
			// A row dropped next to another joins its branch unless the
			// caller placed it explicitly.
			if t.ParentCode == nil && t.Level == 0 {
				t.Level = anchor.Level
				t.ParentCode = anchor.ParentCode
			}
			p := ordering.PositionOf(anchor)
			pos = &p
		}
		if explicitParent {
			if err := checkParent(ctx, r.tasks, t, true); err != nil {
				return err
			}
		}

		alloc, err := ordering.NewEngine(r.tasks).Place(ctx, ordering.Scope{ProjectID: t.ProjectID}, in.Where, pos)
		if err != nil {
			return fmt.Errorf("placing task %q: %w", t.Code, err)
		}
		t.SortOrder = alloc.Order
		renumbered = alloc.Renumbered

		if err := r.tasks.Create(ctx, t); err != nil {
			return err
		}
		return r.projects.Touch(ctx, t.ProjectID)
	})
	if err != nil {
		return nil, err
	}

	fields["renumbered"] = renumbered
	pl = &Placement{Task: t, Renumbered: renumbered}
	s.notifier.Notify(ctx, contract.Change{
		Type:      contract.TaskCreated,
		Topic:     contract.TopicTasks,
		ProjectID: t.ProjectID,
		Data:      contract.TaskPlaced{Task: contract.FromTask(t), Renumbered: renumbered},
	})
	return pl, nil
}

func (s *taskService) GetByID(ctx context.Context, projectID, id string) (*domain.Task, error) {
	return s.tasks.GetByID(ctx, projectID, id)
}

func (s *taskService) ListOrdered(ctx context.Context, projectID string) ([]*domain.Task, error) {
	return s.tasks.ListOrdered(ctx, projectID)
}

func (s *taskService) Update(ctx context.Context, projectID, id string, patch domain.TaskPatch) (task *domain.Task, err error) {
	ctx, done := useCase(ctx, s.observer, "update-task", map[string]any{"project_id": projectID, "task_id": id})
	defer func() { done(err) }()

	if patch.Code != nil {
		code := strings.TrimSpace(*patch.Code)
		patch.Code = &code
	}
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		patch.Name = &name
	}
	if patch.ParentCode != nil {
		parent := strings.TrimSpace(*patch.ParentCode)
		patch.ParentCode = &parent
	}

	err = s.writer.WithinProjectTx(ctx, projectID, func(ctx context.Context, tx db.DBTX) error {
		r := reposFor(tx)
		var err error
		task, err = r.tasks.GetByID(ctx, projectID, id)
		if err != nil {
			return err
		}
		patch.Apply(task)
		if errs := validateTask(task); len(errs) > 0 {
			return formatValidationErrors(errs)
		}
		if patch.ParentCode != nil || patch.Level != nil || patch.Code != nil {
			if err := checkParent(ctx, r.tasks, task, patch.ParentCode != nil); err != nil {
				return err
			}
		}
		task.UpdatedAt = nowUTC()
		if err := r.tasks.Update(ctx, task); err != nil {
			return err
		}
		return r.projects.Touch(ctx, projectID)
	})
	if err != nil {
		return nil, err
	}

	s.notifier.Notify(ctx, contract.Change{
		Type:      contract.TaskUpdated,
		Topic:     contract.TopicTasks,
		ProjectID: projectID,
		Data:      contract.FromTask(task),
	})
	return task, nil
}

func (s *taskService) Move(ctx context.Context, projectID, id string, in MoveTaskInput) (pl *Placement, err error) {
	fields := map[string]any{
		"project_id": projectID,
		"task_id":    id,
		"where":      string(in.Where),
		"anchor_id":  in.AnchorID,
	}
	ctx, done := useCase(ctx, s.observer, "move-task", fields)
	defer func() { done(err) }()

	if err = checkAnchor(in.Where); err != nil {
		return nil, err
	}
	if in.AnchorID == id {
		return nil, invalidf("task cannot be placed relative to itself")
	}
	if in.Level != nil && *in.Level < 0 {
		return nil, invalidf("level must be >= 0")
	}

	var task *domain.Task
	var renumbered int
	err = s.writer.WithinProjectTx(ctx, projectID, func(ctx context.Context, tx db.DBTX) error {
		r := reposFor(tx)
		var err error
		task, err = r.tasks.GetByID(ctx, projectID, id)
		if err != nil {
			return err
		}
		anchor, err := lookupAnchor(ctx, r.tasks, projectID, in.Where, in.AnchorID)
		if err != nil {
			return err
		}
		var pos *ordering.Position
		if anchor != nil {
			p := ordering.PositionOf(anchor)
			pos = &p
		}

		scope := ordering.Scope{ProjectID: projectID, ExcludeID: id}
		alloc, err := ordering.NewEngine(r.tasks).Place(ctx, scope, in.Where, pos)
		if err != nil {
			return fmt.Errorf("moving task %q: %w", task.Code, err)
		}
		renumbered = alloc.Renumbered

		task.SortOrder = alloc.Order
		if in.Level != nil {
			task.Level = *in.Level
		}
		if in.ParentCode != nil {
			task.ParentCode = domain.StrPtr(strings.TrimSpace(*in.ParentCode))
		}
		if in.ParentCode != nil || in.Level != nil {
			if err := checkParent(ctx, r.tasks, task, in.ParentCode != nil); err != nil {
				return err
			}
		}
		task.UpdatedAt = nowUTC()
		if err := r.tasks.UpdatePosition(ctx, projectID, id, task.SortOrder, task.Level, task.ParentCode); err != nil {
			return err
		}
		return r.projects.Touch(ctx, projectID)
	})
	if err != nil {
		return nil, err
	}

	fields["renumbered"] = renumbered
	pl = &Placement{Task: task, Renumbered: renumbered}
	s.notifier.Notify(ctx, contract.Change{
		Type:      contract.TaskMoved,
		Topic:     contract.TopicTasks,
		ProjectID: projectID,
		Data:      contract.TaskPlaced{Task: contract.FromTask(task), Renumbered: renumbered},
	})
	return pl, nil
}

func (s *taskService) Delete(ctx context.Context, projectID, id string) (err error) {
	ctx, done := useCase(ctx, s.observer, "delete-task", map[string]any{"project_id": projectID, "task_id": id})
	defer func() { done(err) }()

	var code string
	err = s.writer.WithinProjectTx(ctx, projectID, func(ctx context.Context, tx db.DBTX) error {
		r := reposFor(tx)
		task, err := r.tasks.GetByID(ctx, projectID, id)
		if err != nil {
			return err
		}
		code = task.Code
		if err := r.tasks.Delete(ctx, projectID, id); err != nil {
			return err
		}
		return r.projects.Touch(ctx, projectID)
	})
	if err != nil {
		return err
	}

	s.notifier.Notify(ctx, contract.Change{
		Type:      contract.TaskDeleted,
		Topic:     contract.TopicTasks,
		ProjectID: projectID,
		Data:      contract.TaskRef{ID: id, Code: code},
	})
	return nil
}

func (s *taskService) BulkDelete(ctx context.Context, projectID string, ids []string) (wipe repository.TaskWipe, err error) {
	ctx, done := useCase(ctx, s.observer, "bulk-delete-tasks", map[string]any{"project_id": projectID, "requested": len(ids)})
	defer func() { done(err) }()

	ids = uniqueNonEmpty(ids)
	if len(ids) == 0 {
		return wipe, invalidf("at least one task id is required")
	}

	err = s.writer.WithinProjectTx(ctx, projectID, func(ctx context.Context, tx db.DBTX) error {
		r := reposFor(tx)
		var err error
		if wipe, err = r.tasks.DeleteMany(ctx, projectID, ids); err != nil {
			return err
		}
		if wipe.Deleted == 0 {
			return nil
		}
		return r.projects.Touch(ctx, projectID)
	})
	if err != nil {
		return repository.TaskWipe{}, err
	}

	if wipe.Deleted > 0 {
		s.notifier.Notify(ctx, contract.Change{
			Type:      contract.TasksDeleted,
			Topic:     contract.TopicTasks,
			ProjectID: projectID,
			Data:      contract.WipeResult{DeletedCount: wipe.Deleted, CustomCount: wipe.Custom},
		})
	}
	return wipe, nil
}

func (s *taskService) Clear(ctx context.Context, projectID string) (wipe repository.TaskWipe, err error) {
	ctx, done := useCase(ctx, s.observer, "clear-schedule", map[string]any{"project_id": projectID})
	defer func() { done(err) }()

	err = s.writer.WithinProjectTx(ctx, projectID, func(ctx context.Context, tx db.DBTX) error {
		r := reposFor(tx)
		if _, err := r.projects.GetByID(ctx, projectID); err != nil {
			return err
		}
		var err error
		if wipe, err = r.tasks.DeleteByProject(ctx, projectID); err != nil {
			return err
		}
		return r.projects.Touch(ctx, projectID)
	})
	if err != nil {
		return repository.TaskWipe{}, err
	}

	s.notifier.Notify(ctx, contract.Change{
		Type:      contract.ScheduleCleared,
		Topic:     contract.TopicTasks,
		ProjectID: projectID,
		Data:      contract.WipeResult{DeletedCount: wipe.Deleted, CustomCount: wipe.Custom},
	})
	return wipe, nil
}

func (s *taskService) Renumber(ctx context.Context, projectID string) (changed int, err error) {
	ctx, done := useCase(ctx, s.observer, "renumber-tasks", map[string]any{"project_id": projectID})
	defer func() { done(err) }()

	err = s.writer.WithinProjectTx(ctx, projectID, func(ctx context.Context, tx db.DBTX) error {
		r := reposFor(tx)
		if _, err := r.projects.GetByID(ctx, projectID); err != nil {
			return err
		}
		var err error
		if _, changed, err = ordering.NewEngine(r.tasks).Renumber(ctx, projectID); err != nil {
			return err
		}
		if changed == 0 {
			return nil
		}
		return r.projects.Touch(ctx, projectID)
	})
	if err != nil {
		return 0, err
	}

	if changed > 0 {
		s.notifier.Notify(ctx, contract.Change{
			Type:      contract.TasksRenumbered,
			Topic:     contract.TopicTasks,
			ProjectID: projectID,
			Data:      contract.RenumberResult{Changed: changed},
		})
	}
	return changed, nil
}

func checkAnchor(where domain.Anchor) error {
	switch where {
	case "", domain.AnchorEnd, domain.AnchorBefore, domain.AnchorAfter:
		return nil
	default:
		return invalidf("unknown placement %q (want end, before or after)", where)
	}
}

// lookupAnchor resolves the anchor task. A missing anchor is not an error:
// the caller falls back to appending.
func lookupAnchor(ctx context.Context, tasks *repository.SQLiteTaskRepo, projectID string, where domain.Anchor, anchorID string) (*domain.Task, error) {
	if anchorID == "" || where == "" || where == domain.AnchorEnd {
		return nil, nil
	}
	anchor, err := tasks.GetByID(ctx, projectID, anchorID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading anchor task: %w", err)
	}
	return anchor, nil
}

// checkParent requires t's parent to be a shallower task of the same project.
// A stored parent that no longer resolves is tolerated unless the caller is
// setting it now.
func checkParent(ctx context.Context, tasks *repository.SQLiteTaskRepo, t *domain.Task, settingParent bool) error {
	if t.ParentCode == nil {
		return nil
	}
	code := *t.ParentCode
	if code == t.Code {
		return invalidf("task %q cannot be its own parent", t.Code)
	}
	parent, err := tasks.GetByCode(ctx, t.ProjectID, code)
	if errors.Is(err, repository.ErrNotFound) {
		if settingParent {
			return invalidf("parent_code %q does not name a task in this project", code)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("loading parent task: %w", err)
	}
	if parent.ID == t.ID {
		return invalidf("task %q cannot be its own parent", t.Code)
	}
	if parent.Level >= t.Level {
		return invalidf("parent %q has level %d; task level %d must be deeper", code, parent.Level, t.Level)
	}
	return nil
}

func validateTask(t *domain.Task) []error {
	var errs []error
	if err := domain.ValidateTaskCode(t.Code); err != nil {
		errs = append(errs, err)
	}
	if strings.TrimSpace(t.Name) == "" {
		errs = append(errs, fmt.Errorf("name is required"))
	}
	if t.Level < 0 {
		errs = append(errs, fmt.Errorf("level must be >= 0"))
	}
	if t.VolumePlan != nil && *t.VolumePlan < 0 {
		errs = append(errs, fmt.Errorf("volume_plan must be >= 0"))
	}
	if t.UnitPrice != nil && t.UnitPrice.IsNegative() {
		errs = append(errs, fmt.Errorf("unit_price must be >= 0"))
	}
	if t.StartDate != nil && t.EndDate != nil && t.EndDate.Before(*t.StartDate) {
		errs = append(errs, fmt.Errorf("end_date is before start_date"))
	}
	if t.PlanStart != nil && t.PlanEnd != nil && t.PlanEnd.Before(*t.PlanStart) {
		errs = append(errs, fmt.Errorf("plan_end is before plan_start"))
	}
	return errs
}

func customCode() string {
	return "custom-" + uuid.New().String()[:8]
}

func uniqueNonEmpty(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
