package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alexanderramin/sitebook/internal/contract"
	"github.com/alexanderramin/sitebook/internal/db"
	"github.com/alexanderramin/sitebook/internal/metrics"
	"github.com/alexanderramin/sitebook/internal/repository"
	"github.com/alexanderramin/sitebook/internal/service"
	"github.com/alexanderramin/sitebook/internal/testutil"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testServer struct {
	handler http.Handler
	metrics *metrics.Metrics
}

func newTestServer(t *testing.T, requireRoles bool) *testServer {
	t.Helper()
	database := testutil.NewTestDB(t)

	projects := repository.NewSQLiteProjectRepo(database)
	tasks := repository.NewSQLiteTaskRepo(database)
	writer := db.NewProjectWriter(testutil.NewTestUoW(database), db.NewProjectLocks())
	m := metrics.New()
	notifier := service.NoopNotifier{}

	srv := NewServer(Deps{
		Projects:     service.NewProjectService(projects, notifier, m),
		Tasks:        service.NewTaskService(tasks, writer, notifier, m),
		Imports:      service.NewImportService(writer, notifier, m),
		Daily:        service.NewDailyWorkService(repository.NewSQLiteDailyWorkRepo(database), writer, notifier, m),
		Monthly:      service.NewMonthlyPlanService(tasks, repository.NewSQLiteMonthlyPlanRepo(database), writer, notifier, m),
		Metrics:      m,
		RequireRoles: requireRoles,
	})
	return &testServer{handler: srv.Handler(), metrics: m}
}

type caller struct {
	admin bool
}

var (
	asAdmin  = caller{admin: true}
	asViewer = caller{}
)

func (s *testServer) do(t *testing.T, who caller, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if who.admin {
		req.Header.Set(RoleHeader, "admin")
	} else {
		req.Header.Set(RoleHeader, "viewer")
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func (s *testServer) createProject(t *testing.T, name string) contract.Project {
	t.Helper()
	rec := s.do(t, asAdmin, http.MethodPost, "/api/v1/projects", map[string]any{"name": name})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[contract.Project](t, rec)
}

func (s *testServer) createTask(t *testing.T, projectID string, body map[string]any) contract.TaskPlaced {
	t.Helper()
	rec := s.do(t, asViewer, http.MethodPost, "/api/v1/projects/"+projectID+"/tasks", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[contract.TaskPlaced](t, rec)
}

func (s *testServer) listCodes(t *testing.T, projectID string) []string {
	t.Helper()
	rec := s.do(t, asViewer, http.MethodGet, "/api/v1/projects/"+projectID+"/tasks", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	tasks := decode[[]contract.Task](t, rec)
	codes := make([]string, len(tasks))
	for i, task := range tasks {
		codes[i] = task.Code
	}
	return codes
}
