package contract

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/alexanderramin/sitebook/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromTask_FormatsDatesAndMoney(t *testing.T) {
	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	price := decimal.RequireFromString("12.50")
	volume := 4.0
	parent := "1"
	created := time.Date(2025, 2, 1, 8, 30, 0, 0, time.UTC)

	task := &domain.Task{
		ID: "t1", ProjectID: "p1", Code: "1.1", Name: "Dig", Unit: "m3",
		Level: 1, ParentCode: &parent, SortOrder: 20,
		VolumePlan: &volume, StartDate: &start, UnitPrice: &price,
		CreatedAt: created, UpdatedAt: created,
	}

	out := FromTask(task)
	require.NotNil(t, out.StartDate)
	assert.Equal(t, "2025-03-01", *out.StartDate)
	assert.Nil(t, out.EndDate)
	require.NotNil(t, out.UnitPrice)
	assert.Equal(t, "12.5", *out.UnitPrice)
	assert.Equal(t, "50.00", out.PlannedCost)
	assert.Equal(t, "2025-02-01T08:30:00Z", out.CreatedAt)
	assert.Equal(t, "1", *out.ParentCode)
}

func TestFromTask_JSONKeepsNullsExplicit(t *testing.T) {
	out := FromTask(&domain.Task{ID: "s", Code: "1", Name: "Section", IsSection: true})

	raw, err := json.Marshal(out)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(raw, &m))
	assert.Contains(t, m, "parent_code")
	assert.Nil(t, m["parent_code"])
	assert.NotContains(t, m, "unit")
	assert.Equal(t, true, m["is_section"])
	assert.Equal(t, "0.00", m["planned_cost"])
}

func TestFromProject_Archived(t *testing.T) {
	archived := time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC)
	out := FromProject(&domain.Project{ID: "p", Name: "Tower", Status: domain.ProjectArchived, ArchivedAt: &archived})

	assert.Equal(t, "archived", out.Status)
	require.NotNil(t, out.ArchivedAt)
	assert.Equal(t, "2025-01-05T00:00:00Z", *out.ArchivedAt)
}

func TestChange_JSONShape(t *testing.T) {
	raw, err := json.Marshal(Change{Type: TaskDeleted, Topic: TopicTasks, ProjectID: "p", Data: TaskRef{ID: "t", Code: "1"}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"task_deleted","event":"tasks","project_id":"p","data":{"id":"t","code":"1"}}`, string(raw))
}

func TestFromMonthlyPlan_MonthFormat(t *testing.T) {
	out := FromMonthlyPlan(&domain.MonthlyPlan{ID: "m", Month: time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC), VolumePlan: 3})
	assert.Equal(t, "2025-04", out.Month)
}
