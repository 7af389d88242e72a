package service

import (
	"context"
	"time"

	"github.com/alexanderramin/sitebook/internal/contract"
	"github.com/alexanderramin/sitebook/internal/db"
	"github.com/alexanderramin/sitebook/internal/domain"
	"github.com/alexanderramin/sitebook/internal/repository"
	"github.com/google/uuid"
)

type monthlyPlanService struct {
	tasks    repository.TaskRepo
	plans    repository.MonthlyPlanRepo
	writer   *db.ProjectWriter
	notifier Notifier
	observer UseCaseObserver
}

func NewMonthlyPlanService(tasks repository.TaskRepo, plans repository.MonthlyPlanRepo, writer *db.ProjectWriter, notifier Notifier, observers ...UseCaseObserver) MonthlyPlanService {
	if notifier == nil {
		notifier = NoopNotifier{}
	}
	return &monthlyPlanService{
		tasks:    tasks,
		plans:    plans,
		writer:   writer,
		notifier: notifier,
		observer: useCaseObserverOrNoop(observers),
	}
}

// View lists every section plus the tasks whose contract period overlaps
// the month, in schedule order. A saved monthly plan overrides the task's
// own volume_plan.
func (s *monthlyPlanService) View(ctx context.Context, projectID string, month time.Time) ([]domain.MonthlyLine, error) {
	start := domain.MonthStart(month)

	tasks, err := s.tasks.ListOrdered(ctx, projectID)
	if err != nil {
		return nil, err
	}
	plans, err := s.plans.ListByMonth(ctx, projectID, start)
	if err != nil {
		return nil, err
	}
	byTask := make(map[string]*domain.MonthlyPlan, len(plans))
	for _, p := range plans {
		if p.TaskID != nil {
			byTask[*p.TaskID] = p
		}
	}

	lines := make([]domain.MonthlyLine, 0, len(tasks))
	for _, t := range tasks {
		if !t.IsSection && !t.OverlapsMonth(start) {
			continue
		}
		line := domain.MonthlyLine{Task: t, VolumePlan: t.VolumePlan}
		if p, ok := byTask[t.ID]; ok {
			id, v := p.ID, p.VolumePlan
			line.PlanID = &id
			line.VolumePlan = &v
		}
		lines = append(lines, line)
	}
	return lines, nil
}

// Save creates or overwrites the plan for (task, month).
func (s *monthlyPlanService) Save(ctx context.Context, p *domain.MonthlyPlan) (err error) {
	ctx, done := useCase(ctx, s.observer, "save-monthly-plan", map[string]any{
		"project_id": p.ProjectID,
		"task_id":    domain.StrFromPtr(p.TaskID),
	})
	defer func() { done(err) }()

	if p.TaskID == nil || *p.TaskID == "" {
		return invalidf("task_id is required")
	}
	if p.Month.IsZero() {
		return invalidf("month is required")
	}
	if p.VolumePlan < 0 {
		return invalidf("volume_plan must be >= 0")
	}
	p.Month = domain.MonthStart(p.Month)
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	now := nowUTC()
	p.CreatedAt = now
	p.UpdatedAt = now

	err = s.writer.WithinProjectTx(ctx, p.ProjectID, func(ctx context.Context, tx db.DBTX) error {
		r := reposFor(tx)
		if _, err := r.tasks.GetByID(ctx, p.ProjectID, *p.TaskID); err != nil {
			return err
		}
		if err := r.monthly.Upsert(ctx, p); err != nil {
			return err
		}
		return r.projects.Touch(ctx, p.ProjectID)
	})
	if err != nil {
		return err
	}

	s.notifier.Notify(ctx, contract.Change{
		Type:      contract.MonthlyPlanSaved,
		Topic:     contract.TopicMonthlyPlans,
		ProjectID: p.ProjectID,
		Data:      contract.FromMonthlyPlan(p),
	})
	return nil
}
