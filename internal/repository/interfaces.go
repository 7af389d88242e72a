package repository

import (
	"context"
	"time"

	"github.com/alexanderramin/sitebook/internal/domain"
	"github.com/alexanderramin/sitebook/internal/ordering"
)

type ProjectRepo interface {
	Create(ctx context.Context, p *domain.Project) error
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	List(ctx context.Context, includeArchived bool) ([]*domain.Project, error)
	Update(ctx context.Context, p *domain.Project) error
	Archive(ctx context.Context, id string) error
	Unarchive(ctx context.Context, id string) error
	Touch(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

// TaskWipe reports what a bulk task deletion removed.
type TaskWipe struct {
	Deleted int
	Custom  int
}

type TaskRepo interface {
	ordering.Store

	Create(ctx context.Context, t *domain.Task) error
	GetByID(ctx context.Context, projectID, id string) (*domain.Task, error)
	GetByCode(ctx context.Context, projectID, code string) (*domain.Task, error)
	ListOrdered(ctx context.Context, projectID string) ([]*domain.Task, error)
	Update(ctx context.Context, t *domain.Task) error
	UpdatePosition(ctx context.Context, projectID, id string, sortOrder, level int, parentCode *string) error
	SetVolumeFact(ctx context.Context, projectID, id string, volume float64) error
	Delete(ctx context.Context, projectID, id string) error
	DeleteMany(ctx context.Context, projectID string, ids []string) (TaskWipe, error)
	DeleteByProject(ctx context.Context, projectID string) (TaskWipe, error)
}

type DailyWorkRepo interface {
	Create(ctx context.Context, w *domain.DailyWork) error
	GetByID(ctx context.Context, projectID, id string) (*domain.DailyWork, error)
	ListByDate(ctx context.Context, projectID string, day time.Time) ([]*domain.DailyWork, error)
	ListByTask(ctx context.Context, taskID string) ([]*domain.DailyWork, error)
	SumVolumeByTask(ctx context.Context, taskID string) (float64, error)
	Delete(ctx context.Context, projectID, id string) error
}

type MonthlyPlanRepo interface {
	Upsert(ctx context.Context, p *domain.MonthlyPlan) error
	ListByMonth(ctx context.Context, projectID string, month time.Time) ([]*domain.MonthlyPlan, error)
	Delete(ctx context.Context, projectID, id string) error
}
