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

func TestDailyWorkService_RecordRecomputesVolumeFact(t *testing.T) {
	f := setupServices(t)
	ctx := context.Background()
	p := f.project(t)
	task := testutil.SeedTasks(t, f.tasks, p.ID, 10)[0]
	svc := NewDailyWorkService(f.daily, f.writer, f.notes, f.events)

	day := testutil.MustDate("2025-03-03")
	first := &domain.DailyWork{ProjectID: p.ID, TaskID: &task.ID, Date: day, Volume: 5, Description: "north wall"}
	second := &domain.DailyWork{ProjectID: p.ID, TaskID: &task.ID, Date: day, Volume: 2.5}
	require.NoError(t, svc.Record(ctx, first))
	require.NoError(t, svc.Record(ctx, second))

	stored, err := f.tasks.GetByID(ctx, p.ID, task.ID)
	require.NoError(t, err)
	assert.InDelta(t, 7.5, stored.VolumeFact, 1e-9)

	works, err := svc.ListByDate(ctx, p.ID, day)
	require.NoError(t, err)
	assert.Len(t, works, 2)

	change := f.notes.last()
	assert.Equal(t, contract.DailyWorkCreated, change.Type)
	assert.Equal(t, contract.TopicDailyWorks, change.Topic)
	payload, ok := change.Data.(contract.DailyWorkChange)
	require.True(t, ok)
	assert.InDelta(t, 7.5, *payload.VolumeFact, 1e-9)

	require.NoError(t, svc.Delete(ctx, p.ID, first.ID))
	stored, err = f.tasks.GetByID(ctx, p.ID, task.ID)
	require.NoError(t, err)
	assert.InDelta(t, 2.5, stored.VolumeFact, 1e-9)
	assert.Equal(t, contract.DailyWorkDeleted, f.notes.last().Type)

	assert.ErrorIs(t, svc.Delete(ctx, p.ID, first.ID), repository.ErrNotFound)
}

func TestDailyWorkService_DeleteDetachedRecord(t *testing.T) {
	f := setupServices(t)
	ctx := context.Background()
	p := f.project(t)
	task := testutil.SeedTasks(t, f.tasks, p.ID, 10)[0]
	svc := NewDailyWorkService(f.daily, f.writer, f.notes)

	work := &domain.DailyWork{ProjectID: p.ID, TaskID: &task.ID, Date: testutil.MustDate("2025-03-03"), Volume: 1}
	require.NoError(t, svc.Record(ctx, work))
	require.NoError(t, f.taskService().Delete(ctx, p.ID, task.ID))

	require.NoError(t, svc.Delete(ctx, p.ID, work.ID))
	payload := f.notes.last().Data.(contract.DailyWorkChange)
	assert.Nil(t, payload.VolumeFact)
	assert.Nil(t, payload.Work.TaskID)
}

func TestDailyWorkService_RecordValidation(t *testing.T) {
	f := setupServices(t)
	ctx := context.Background()
	p := f.project(t)
	task := testutil.SeedTasks(t, f.tasks, p.ID, 10)[0]
	svc := NewDailyWorkService(f.daily, f.writer, nil)
	day := testutil.MustDate("2025-03-03")

	assert.ErrorIs(t, svc.Record(ctx, &domain.DailyWork{ProjectID: p.ID, Date: day, Volume: 1}), ErrInvalidInput)
	assert.ErrorIs(t, svc.Record(ctx, &domain.DailyWork{ProjectID: p.ID, TaskID: &task.ID, Volume: 1}), ErrInvalidInput)
	assert.ErrorIs(t, svc.Record(ctx, &domain.DailyWork{ProjectID: p.ID, TaskID: &task.ID, Date: day, Volume: -1}), ErrInvalidInput)

	missing := "missing"
	assert.ErrorIs(t, svc.Record(ctx, &domain.DailyWork{ProjectID: p.ID, TaskID: &missing, Date: day, Volume: 1}), repository.ErrNotFound)
}
