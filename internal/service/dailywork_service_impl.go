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

type dailyWorkService struct {
	works    repository.DailyWorkRepo
	writer   *db.ProjectWriter
	notifier Notifier
	observer UseCaseObserver
}

func NewDailyWorkService(works repository.DailyWorkRepo, writer *db.ProjectWriter, notifier Notifier, observers ...UseCaseObserver) DailyWorkService {
	if notifier == nil {
		notifier = NoopNotifier{}
	}
	return &dailyWorkService{works: works, writer: writer, notifier: notifier, observer: useCaseObserverOrNoop(observers)}
}

// Record stores one day's volume and recomputes the task's volume_fact.
func (s *dailyWorkService) Record(ctx context.Context, w *domain.DailyWork) (err error) {
	ctx, done := useCase(ctx, s.observer, "record-daily-work", map[string]any{
		"project_id": w.ProjectID,
		"task_id":    domain.StrFromPtr(w.TaskID),
	})
	defer func() { done(err) }()

	if w.TaskID == nil || *w.TaskID == "" {
		return invalidf("task_id is required")
	}
	if w.Date.IsZero() {
		return invalidf("date is required")
	}
	if w.Volume < 0 {
		return invalidf("volume must be >= 0")
	}
	if w.ID == "" {
		w.ID = uuid.New().String()
	}
	w.CreatedAt = nowUTC()

	var fact float64
	err = s.writer.WithinProjectTx(ctx, w.ProjectID, func(ctx context.Context, tx db.DBTX) error {
		r := reposFor(tx)
		if _, err := r.tasks.GetByID(ctx, w.ProjectID, *w.TaskID); err != nil {
			return err
		}
		if err := r.daily.Create(ctx, w); err != nil {
			return err
		}
		var err error
		if fact, err = recomputeVolumeFact(ctx, r, w.ProjectID, *w.TaskID); err != nil {
			return err
		}
		return r.projects.Touch(ctx, w.ProjectID)
	})
	if err != nil {
		return err
	}

	s.notifier.Notify(ctx, contract.Change{
		Type:      contract.DailyWorkCreated,
		Topic:     contract.TopicDailyWorks,
		ProjectID: w.ProjectID,
		Data:      contract.DailyWorkChange{Work: contract.FromDailyWork(w), VolumeFact: &fact},
	})
	return nil
}

func (s *dailyWorkService) ListByDate(ctx context.Context, projectID string, day time.Time) ([]*domain.DailyWork, error) {
	return s.works.ListByDate(ctx, projectID, day)
}

func (s *dailyWorkService) Delete(ctx context.Context, projectID, id string) (err error) {
	ctx, done := useCase(ctx, s.observer, "delete-daily-work", map[string]any{"project_id": projectID, "work_id": id})
	defer func() { done(err) }()

	var work *domain.DailyWork
	var fact *float64
	err = s.writer.WithinProjectTx(ctx, projectID, func(ctx context.Context, tx db.DBTX) error {
		r := reposFor(tx)
		var err error
		if work, err = r.daily.GetByID(ctx, projectID, id); err != nil {
			return err
		}
		if err := r.daily.Delete(ctx, projectID, id); err != nil {
			return err
		}
		// Records of a deleted task have no task left to update.
		if work.TaskID != nil {
			v, err := recomputeVolumeFact(ctx, r, projectID, *work.TaskID)
			if err != nil {
				return err
			}
			fact = &v
		}
		return r.projects.Touch(ctx, projectID)
	})
	if err != nil {
		return err
	}

	s.notifier.Notify(ctx, contract.Change{
		Type:      contract.DailyWorkDeleted,
		Topic:     contract.TopicDailyWorks,
		ProjectID: projectID,
		Data:      contract.DailyWorkChange{Work: contract.FromDailyWork(work), VolumeFact: fact},
	})
	return nil
}

func recomputeVolumeFact(ctx context.Context, r txRepos, projectID, taskID string) (float64, error) {
	sum, err := r.daily.SumVolumeByTask(ctx, taskID)
	if err != nil {
		return 0, err
	}
	if err := r.tasks.SetVolumeFact(ctx, projectID, taskID, sum); err != nil {
		return 0, err
	}
	return sum, nil
}
