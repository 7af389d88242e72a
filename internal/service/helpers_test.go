package service

import (
	"context"
	"database/sql"
	"sync"
	"testing"

	"github.com/alexanderramin/sitebook/internal/contract"
	"github.com/alexanderramin/sitebook/internal/db"
	"github.com/alexanderramin/sitebook/internal/domain"
	"github.com/alexanderramin/sitebook/internal/repository"
	"github.com/alexanderramin/sitebook/internal/testutil"
	"github.com/stretchr/testify/require"
)

type recordingNotifier struct {
	mu      sync.Mutex
	changes []contract.Change
}

func (n *recordingNotifier) Notify(_ context.Context, c contract.Change) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.changes = append(n.changes, c)
}

func (n *recordingNotifier) types() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, len(n.changes))
	for i, c := range n.changes {
		out[i] = c.Type
	}
	return out
}

func (n *recordingNotifier) last() contract.Change {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.changes[len(n.changes)-1]
}

type recordingObserver struct {
	mu     sync.Mutex
	events []UseCaseEvent
}

func (o *recordingObserver) ObserveUseCase(_ context.Context, e UseCaseEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, e)
}

type fixture struct {
	db       *sql.DB
	projects *repository.SQLiteProjectRepo
	tasks    *repository.SQLiteTaskRepo
	daily    *repository.SQLiteDailyWorkRepo
	monthly  *repository.SQLiteMonthlyPlanRepo
	writer   *db.ProjectWriter
	notes    *recordingNotifier
	events   *recordingObserver
}

func newFixture(t *testing.T, database *sql.DB) *fixture {
	t.Helper()
	return &fixture{
		db:       database,
		projects: repository.NewSQLiteProjectRepo(database),
		tasks:    repository.NewSQLiteTaskRepo(database),
		daily:    repository.NewSQLiteDailyWorkRepo(database),
		monthly:  repository.NewSQLiteMonthlyPlanRepo(database),
		writer:   db.NewProjectWriter(testutil.NewTestUoW(database), db.NewProjectLocks()),
		notes:    &recordingNotifier{},
		events:   &recordingObserver{},
	}
}

func setupServices(t *testing.T) *fixture {
	return newFixture(t, testutil.NewTestDB(t))
}

func (f *fixture) project(t *testing.T, opts ...testutil.ProjectOption) *domain.Project {
	t.Helper()
	p := testutil.NewTestProject("Tower A", opts...)
	require.NoError(t, f.projects.Create(context.Background(), p))
	return p
}

func (f *fixture) taskService() TaskService {
	return NewTaskService(f.tasks, f.writer, f.notes, f.events)
}

func (f *fixture) importService() ImportService {
	return NewImportService(f.writer, f.notes, f.events)
}

func (f *fixture) codes(t *testing.T, projectID string) []string {
	t.Helper()
	tasks, err := f.tasks.ListOrdered(context.Background(), projectID)
	require.NoError(t, err)
	out := make([]string, len(tasks))
	for i, task := range tasks {
		out[i] = task.Code
	}
	return out
}

func (f *fixture) orders(t *testing.T, projectID string) []int {
	t.Helper()
	tasks, err := f.tasks.ListOrdered(context.Background(), projectID)
	require.NoError(t, err)
	out := make([]int, len(tasks))
	for i, task := range tasks {
		out[i] = task.SortOrder
	}
	return out
}

func floatPtr(v float64) *float64 { return &v }
func strPtr(s string) *string     { return &s }
func intPtr(i int) *int           { return &i }
