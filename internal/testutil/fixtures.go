package testutil

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/alexanderramin/sitebook/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Project options
type ProjectOption func(*domain.Project)

func WithDescription(d string) ProjectOption {
	return func(p *domain.Project) {
		p.Description = d
	}
}

func WithArchived() ProjectOption {
	return func(p *domain.Project) {
		now := time.Now().UTC()
		p.Status = domain.ProjectArchived
		p.ArchivedAt = &now
	}
}

func NewTestProject(name string, opts ...ProjectOption) *domain.Project {
	now := time.Now().UTC()
	p := &domain.Project{
		ID:        uuid.New().String(),
		Name:      name,
		Address:   "1 Test Street",
		Status:    domain.ProjectActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Task options
type TaskOption func(*domain.Task)

func WithSortOrder(o int) TaskOption {
	return func(t *domain.Task) {
		t.SortOrder = o
	}
}

func WithUnit(u string) TaskOption {
	return func(t *domain.Task) {
		t.Unit = u
		t.IsSection = u == ""
	}
}

// AsSection clears the unit so the task groups others.
func AsSection() TaskOption {
	return WithUnit("")
}

func WithLevel(l int) TaskOption {
	return func(t *domain.Task) {
		t.Level = l
	}
}

func WithParentCode(c string) TaskOption {
	return func(t *domain.Task) {
		t.ParentCode = &c
	}
}

func WithCustom() TaskOption {
	return func(t *domain.Task) {
		t.IsCustom = true
	}
}

func WithVolumePlan(v float64) TaskOption {
	return func(t *domain.Task) {
		t.VolumePlan = &v
	}
}

func WithPeriod(start, end time.Time) TaskOption {
	return func(t *domain.Task) {
		t.StartDate = &start
		t.EndDate = &end
	}
}

func WithUnitPrice(s string) TaskOption {
	return func(t *domain.Task) {
		d := decimal.RequireFromString(s)
		t.UnitPrice = &d
	}
}

// NewTestTask builds a work task (unit "m3") unless options say otherwise.
func NewTestTask(projectID, code, name string, opts ...TaskOption) *domain.Task {
	now := time.Now().UTC()
	t := &domain.Task{
		ID:        uuid.New().String(),
		ProjectID: projectID,
		Code:      code,
		Name:      name,
		Unit:      "m3",
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// TaskCreator is the slice of a task repository SeedTasks needs.
type TaskCreator interface {
	Create(ctx context.Context, t *domain.Task) error
}

// SeedTasks inserts one work task per order, coded "1", "2", ... and returns
// them in input order.
func SeedTasks(t *testing.T, repo TaskCreator, projectID string, orders ...int) []*domain.Task {
	t.Helper()
	tasks := make([]*domain.Task, len(orders))
	for i, o := range orders {
		code := strconv.Itoa(i + 1)
		tasks[i] = NewTestTask(projectID, code, "Task "+code, WithSortOrder(o))
		if err := repo.Create(context.Background(), tasks[i]); err != nil {
			t.Fatalf("seeding task %s: %v", code, err)
		}
	}
	return tasks
}

// MustDate parses a YYYY-MM-DD date or panics.
func MustDate(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}
