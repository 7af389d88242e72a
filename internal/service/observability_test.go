package service

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLogUseCaseObserver_WritesOutcome(t *testing.T) {
	var buf bytes.Buffer
	obs := NewLogUseCaseObserver(slog.New(slog.NewTextHandler(&buf, nil)))

	obs.ObserveUseCase(context.Background(), UseCaseEvent{
		Name:     "create-task",
		Duration: 3 * time.Millisecond,
		Success:  true,
		Fields:   map[string]any{"project_id": "p1"},
	})
	assert.Contains(t, buf.String(), "service_use_case")
	assert.Contains(t, buf.String(), "use_case=create-task")
	assert.Contains(t, buf.String(), "project_id=p1")

	buf.Reset()
	obs.ObserveUseCase(context.Background(), UseCaseEvent{Name: "move-task", Err: errors.New("boom")})
	assert.Contains(t, buf.String(), "level=ERROR")
	assert.Contains(t, buf.String(), "error=boom")
}

func TestNewLogUseCaseObserver_NilLogger(t *testing.T) {
	assert.IsType(t, NoopUseCaseObserver{}, NewLogUseCaseObserver(nil))
}

func TestUseCaseObserverOrNoop(t *testing.T) {
	assert.IsType(t, NoopUseCaseObserver{}, useCaseObserverOrNoop(nil))
	assert.IsType(t, NoopUseCaseObserver{}, useCaseObserverOrNoop([]UseCaseObserver{nil}))

	a, b := &recordingObserver{}, &recordingObserver{}
	assert.Same(t, a, useCaseObserverOrNoop([]UseCaseObserver{nil, a}))

	multi := useCaseObserverOrNoop([]UseCaseObserver{a, b})
	multi.ObserveUseCase(context.Background(), UseCaseEvent{Name: "x"})
	assert.Len(t, a.events, 1)
	assert.Len(t, b.events, 1)
}

func TestUseCase_ReportsFailure(t *testing.T) {
	obs := &recordingObserver{}
	_, done := useCase(context.Background(), obs, "renumber-tasks", map[string]any{"project_id": "p", "n": 3})
	done(errors.New("db down"))

	assert.Len(t, obs.events, 1)
	assert.False(t, obs.events[0].Success)
	assert.EqualError(t, obs.events[0].Err, "db down")
	assert.GreaterOrEqual(t, obs.events[0].Duration, time.Duration(0))
}
