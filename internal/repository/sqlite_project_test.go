package repository

import (
	"context"
	"testing"

	"github.com/alexanderramin/sitebook/internal/domain"
	"github.com/alexanderramin/sitebook/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectRepo_CreateAndGet(t *testing.T) {
	repo := NewSQLiteProjectRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	p := testutil.NewTestProject("Tower A", testutil.WithDescription("12 floors"))
	require.NoError(t, repo.Create(ctx, p))

	got, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Tower A", got.Name)
	assert.Equal(t, "12 floors", got.Description)
	assert.Equal(t, domain.ProjectActive, got.Status)
	assert.Nil(t, got.ArchivedAt)
}

func TestProjectRepo_GetMissing(t *testing.T) {
	repo := NewSQLiteProjectRepo(testutil.NewTestDB(t))

	_, err := repo.GetByID(context.Background(), "nope")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestProjectRepo_ArchiveHidesFromDefaultList(t *testing.T) {
	repo := NewSQLiteProjectRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	live := testutil.NewTestProject("Live")
	old := testutil.NewTestProject("Old")
	require.NoError(t, repo.Create(ctx, live))
	require.NoError(t, repo.Create(ctx, old))
	require.NoError(t, repo.Archive(ctx, old.ID))

	visible, err := repo.List(ctx, false)
	require.NoError(t, err)
	require.Len(t, visible, 1)
	assert.Equal(t, live.ID, visible[0].ID)

	all, err := repo.List(ctx, true)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	archived, err := repo.GetByID(ctx, old.ID)
	require.NoError(t, err)
	assert.True(t, archived.IsArchived())

	require.NoError(t, repo.Unarchive(ctx, old.ID))
	restored, err := repo.GetByID(ctx, old.ID)
	require.NoError(t, err)
	assert.False(t, restored.IsArchived())
}

func TestProjectRepo_UpdateMissing(t *testing.T) {
	repo := NewSQLiteProjectRepo(testutil.NewTestDB(t))

	err := repo.Update(context.Background(), testutil.NewTestProject("Ghost"))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestProjectRepo_DeleteCascadesTasks(t *testing.T) {
	database := testutil.NewTestDB(t)
	projects := NewSQLiteProjectRepo(database)
	tasks := NewSQLiteTaskRepo(database)
	ctx := context.Background()

	p := testutil.NewTestProject("Doomed")
	require.NoError(t, projects.Create(ctx, p))
	testutil.SeedTasks(t, tasks, p.ID, 10, 20)

	require.NoError(t, projects.Delete(ctx, p.ID))

	list, err := tasks.ListOrdered(ctx, p.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}
