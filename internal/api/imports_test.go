package api

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alexanderramin/sitebook/internal/contract"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImport_JSONBody(t *testing.T) {
	s := newTestServer(t, true)
	p := s.createProject(t, "Tower")
	path := "/api/v1/projects/" + p.ID + "/import"

	body := map[string]any{
		"tasks": []map[string]any{
			{"code": "1", "name": "Foundations"},
			{"code": "1.1", "name": "  Excavation", "unit": "m3", "volume_plan": 120},
			{"code": "1.2", "name": "  Concrete", "unit": "m3", "start_date": "2025-05-10", "end_date": "2025-05-01"},
		},
	}

	rec := s.do(t, asViewer, http.MethodPost, path, body)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.do(t, asAdmin, http.MethodPost, path, body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	res := decode[contract.ImportResult](t, rec)
	assert.Equal(t, 2, res.Processed)
	require.Len(t, res.Skipped, 1)
	assert.Equal(t, 3, res.Skipped[0].Row)
	assert.Equal(t, "1.2", res.Skipped[0].Code)
	assert.Equal(t, []string{"1", "1.1"}, s.listCodes(t, p.ID))
}

func TestImport_NothingImportable(t *testing.T) {
	s := newTestServer(t, true)
	p := s.createProject(t, "Tower")
	s.createTask(t, p.ID, map[string]any{"code": "keep", "name": "Existing"})

	rec := s.do(t, asAdmin, http.MethodPost, "/api/v1/projects/"+p.ID+"/import", map[string]any{"tasks": []any{}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, []string{"keep"}, s.listCodes(t, p.ID))
}

func upload(t *testing.T, s *testServer, path, filename, content string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set(RoleHeader, "admin")
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func TestImport_MultipartCSV(t *testing.T) {
	s := newTestServer(t, true)
	p := s.createProject(t, "Tower")
	path := "/api/v1/projects/" + p.ID + "/import"

	csv := "code,name,unit,volume_plan\n1,Walls,,\n1.1,  Masonry,m2,\"40,5\"\n"
	rec := upload(t, s, path, "schedule.csv", csv)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 2, decode[contract.ImportResult](t, rec).Processed)

	rec = s.do(t, asViewer, http.MethodGet, "/api/v1/projects/"+p.ID+"/tasks", nil)
	tasks := decode[[]contract.Task](t, rec)
	require.Len(t, tasks, 2)
	require.NotNil(t, tasks[1].ParentCode)
	assert.Equal(t, "1", *tasks[1].ParentCode)
	require.NotNil(t, tasks[1].VolumePlan)
	assert.InDelta(t, 40.5, *tasks[1].VolumePlan, 1e-9)
}

func TestImport_RejectsSpreadsheet(t *testing.T) {
	s := newTestServer(t, true)
	p := s.createProject(t, "Tower")

	rec := upload(t, s, "/api/v1/projects/"+p.ID+"/import", "schedule.xlsx", "PK...")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode[contract.ErrorResponse](t, rec).Error, "export the sheet as CSV")
}
