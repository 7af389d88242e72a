package service

import (
	"context"
	"io"
	"time"

	"github.com/alexanderramin/sitebook/internal/contract"
	"github.com/alexanderramin/sitebook/internal/domain"
	"github.com/alexanderramin/sitebook/internal/importer"
	"github.com/alexanderramin/sitebook/internal/repository"
)

// Notifier receives committed changes. Implementations must not block.
type Notifier interface {
	Notify(ctx context.Context, change contract.Change)
}

// NoopNotifier drops every change.
type NoopNotifier struct{}

func (NoopNotifier) Notify(context.Context, contract.Change) {}

// ProjectPatch is a partial project update; nil fields are left untouched.
type ProjectPatch struct {
	Name        *string
	Description *string
	Address     *string
	Archived    *bool
}

type ProjectService interface {
	Create(ctx context.Context, p *domain.Project) error
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	List(ctx context.Context, includeArchived bool) ([]*domain.Project, error)
	Update(ctx context.Context, id string, patch ProjectPatch) (*domain.Project, error)
	Delete(ctx context.Context, id string, force bool) error
}

// CreateTaskInput places Task relative to AnchorID. An empty or unknown
// anchor appends the task at the end of the schedule.
type CreateTaskInput struct {
	Task     *domain.Task
	Where    domain.Anchor
	AnchorID string
}

// MoveTaskInput repositions a task; Level and ParentCode optionally
// re-parent it in the same write.
type MoveTaskInput struct {
	Where      domain.Anchor
	AnchorID   string
	Level      *int
	ParentCode *string
}

// Placement is a task after create or move. Renumbered counts other rows
// whose order changed to make room.
type Placement struct {
	Task       *domain.Task
	Renumbered int
}

type TaskService interface {
	Create(ctx context.Context, in CreateTaskInput) (*Placement, error)
	GetByID(ctx context.Context, projectID, id string) (*domain.Task, error)
	ListOrdered(ctx context.Context, projectID string) ([]*domain.Task, error)
	Update(ctx context.Context, projectID, id string, patch domain.TaskPatch) (*domain.Task, error)
	Move(ctx context.Context, projectID, id string, in MoveTaskInput) (*Placement, error)
	Delete(ctx context.Context, projectID, id string) error
	BulkDelete(ctx context.Context, projectID string, ids []string) (repository.TaskWipe, error)
	Clear(ctx context.Context, projectID string) (repository.TaskWipe, error)
	Renumber(ctx context.Context, projectID string) (int, error)
}

type ImportService interface {
	ImportFile(ctx context.Context, projectID, path string) (*contract.ImportResult, error)
	ImportReader(ctx context.Context, projectID string, r io.Reader, format importer.Format) (*contract.ImportResult, error)
	ImportSchedule(ctx context.Context, projectID string, file *importer.ScheduleFile) (*contract.ImportResult, error)
}

type DailyWorkService interface {
	Record(ctx context.Context, w *domain.DailyWork) error
	ListByDate(ctx context.Context, projectID string, day time.Time) ([]*domain.DailyWork, error)
	Delete(ctx context.Context, projectID, id string) error
}

type MonthlyPlanService interface {
	View(ctx context.Context, projectID string, month time.Time) ([]domain.MonthlyLine, error)
	Save(ctx context.Context, p *domain.MonthlyPlan) error
}
