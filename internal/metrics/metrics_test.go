package metrics

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alexanderramin/sitebook/internal/service"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveUseCase_CountsOutcomesAndRenumbers(t *testing.T) {
	m := New()
	ctx := context.Background()

	m.ObserveUseCase(ctx, service.UseCaseEvent{Name: "create-task", Success: true, Duration: 3 * time.Millisecond,
		Fields: map[string]any{"renumbered": 4}})
	m.ObserveUseCase(ctx, service.UseCaseEvent{Name: "create-task", Success: true, Fields: map[string]any{"renumbered": 0}})
	m.ObserveUseCase(ctx, service.UseCaseEvent{Name: "create-task", Err: errors.New("boom")})

	assert.Equal(t, 2.0, testutil.ToFloat64(m.useCaseTotal.WithLabelValues("create-task", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.useCaseTotal.WithLabelValues("create-task", "error")))
	assert.Equal(t, 4.0, testutil.ToFloat64(m.renumbersTotal.WithLabelValues("create-task")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.useCaseDuration))
}

func TestObserveHTTP(t *testing.T) {
	m := New()
	m.ObserveHTTP(http.MethodGet, "/api/projects/:id/tasks", 200, 10*time.Millisecond)
	m.ObserveHTTP(http.MethodGet, "/api/projects/:id/tasks", 404, time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "/api/projects/:id/tasks", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "/api/projects/:id/tasks", "404")))
}

func TestHandler_ExposesLiveClientGauge(t *testing.T) {
	m := New()
	clients := 3
	m.TrackLiveClients(func() int { return clients })

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "sitebook_live_clients 3")
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}
