package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/sitebook/internal/domain"
	"github.com/alexanderramin/sitebook/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDailyWorkRepo_ListAndSum(t *testing.T) {
	database, tasks, p := setupTaskRepo(t)
	repo := NewSQLiteDailyWorkRepo(database)
	ctx := context.Background()

	seeded := testutil.SeedTasks(t, tasks, p.ID, 10, 20)
	now := time.Now().UTC()
	day1 := testutil.MustDate("2026-05-04")
	day2 := testutil.MustDate("2026-05-05")

	for i, w := range []*domain.DailyWork{
		{ID: "a", TaskID: &seeded[0].ID, Date: day1, Volume: 2.5},
		{ID: "b", TaskID: &seeded[0].ID, Date: day2, Volume: 4},
		{ID: "c", TaskID: &seeded[1].ID, Date: day1, Volume: 1, Description: "night shift"},
	} {
		w.ProjectID = p.ID
		w.CreatedAt = now.Add(time.Duration(i) * time.Second)
		require.NoError(t, repo.Create(ctx, w))
	}

	onDay1, err := repo.ListByDate(ctx, p.ID, day1)
	require.NoError(t, err)
	require.Len(t, onDay1, 2)
	assert.Equal(t, "a", onDay1[0].ID)
	assert.Equal(t, "night shift", onDay1[1].Description)

	byTask, err := repo.ListByTask(ctx, seeded[0].ID)
	require.NoError(t, err)
	assert.Len(t, byTask, 2)

	total, err := repo.SumVolumeByTask(ctx, seeded[0].ID)
	require.NoError(t, err)
	assert.InDelta(t, 6.5, total, 1e-9)

	none, err := repo.SumVolumeByTask(ctx, "no-such-task")
	require.NoError(t, err)
	assert.Zero(t, none)
}

func TestDailyWorkRepo_Delete(t *testing.T) {
	database, _, p := setupTaskRepo(t)
	repo := NewSQLiteDailyWorkRepo(database)
	ctx := context.Background()

	w := &domain.DailyWork{ID: "x", ProjectID: p.ID, Date: testutil.MustDate("2026-05-04"), Volume: 1, CreatedAt: time.Now().UTC()}
	require.NoError(t, repo.Create(ctx, w))

	require.NoError(t, repo.Delete(ctx, p.ID, "x"))
	assert.ErrorIs(t, repo.Delete(ctx, p.ID, "x"), ErrNotFound)

	_, err := repo.GetByID(ctx, p.ID, "x")
	assert.ErrorIs(t, err, ErrNotFound)
}
