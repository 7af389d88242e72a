package service

import (
	"context"
	"testing"

	"github.com/alexanderramin/sitebook/internal/contract"
	"github.com/alexanderramin/sitebook/internal/domain"
	"github.com/alexanderramin/sitebook/internal/repository"
	"github.com/alexanderramin/sitebook/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectService_CreateDefaults(t *testing.T) {
	f := setupServices(t)
	ctx := context.Background()
	svc := NewProjectService(f.projects, f.notes)

	p := &domain.Project{Name: "  Riverside Block C  ", Address: "12 Quay St"}
	require.NoError(t, svc.Create(ctx, p))
	assert.NotEmpty(t, p.ID, "UUID should be generated")
	assert.Equal(t, "Riverside Block C", p.Name)
	assert.Equal(t, domain.ProjectActive, p.Status)

	fetched, err := svc.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "12 Quay St", fetched.Address)
	assert.Equal(t, contract.ProjectCreated, f.notes.last().Type)

	assert.ErrorIs(t, svc.Create(ctx, &domain.Project{Name: " "}), ErrInvalidInput)
}

func TestProjectService_ArchiveThroughUpdate(t *testing.T) {
	f := setupServices(t)
	ctx := context.Background()
	svc := NewProjectService(f.projects, nil)
	p := f.project(t)

	archived := true
	updated, err := svc.Update(ctx, p.ID, ProjectPatch{Name: strPtr("Tower A (phase 2)"), Archived: &archived})
	require.NoError(t, err)
	assert.Equal(t, "Tower A (phase 2)", updated.Name)
	assert.True(t, updated.IsArchived())

	visible, err := svc.List(ctx, false)
	require.NoError(t, err)
	assert.Empty(t, visible)

	all, err := svc.List(ctx, true)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	archived = false
	updated, err = svc.Update(ctx, p.ID, ProjectPatch{Archived: &archived})
	require.NoError(t, err)
	assert.False(t, updated.IsArchived())

	_, err = svc.Update(ctx, p.ID, ProjectPatch{Name: strPtr("")})
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = svc.Update(ctx, "missing", ProjectPatch{})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestProjectService_DeleteRequiresArchiveUnlessForced(t *testing.T) {
	f := setupServices(t)
	ctx := context.Background()
	svc := NewProjectService(f.projects, nil)

	active := f.project(t)
	assert.ErrorIs(t, svc.Delete(ctx, active.ID, false), ErrInvalidInput)
	require.NoError(t, svc.Delete(ctx, active.ID, true))

	archived := f.project(t, testutil.WithArchived())
	testutil.SeedTasks(t, f.tasks, archived.ID, 10, 20)
	require.NoError(t, svc.Delete(ctx, archived.ID, false))

	_, err := svc.GetByID(ctx, archived.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	tasks, err := f.tasks.ListOrdered(ctx, archived.ID)
	require.NoError(t, err)
	assert.Empty(t, tasks, "tasks cascade with their project")
}
