package domain

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(s string) *time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return &t
}

func TestValidateTaskCode(t *testing.T) {
	assert.NoError(t, ValidateTaskCode("1.2.3"))
	assert.NoError(t, ValidateTaskCode("custom-1a2b3c4d"))

	err := ValidateTaskCode("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required")

	assert.Error(t, ValidateTaskCode("1 2"))
	assert.Error(t, ValidateTaskCode(strings.Repeat("9", MaxCodeLength+1)))
}

func TestTask_PlannedCost(t *testing.T) {
	price := decimal.RequireFromString("12.50")
	vol := 4.0
	task := &Task{UnitPrice: &price, VolumePlan: &vol}
	assert.True(t, task.PlannedCost().Equal(decimal.RequireFromString("50")), "got %s", task.PlannedCost())

	assert.True(t, (&Task{VolumePlan: &vol}).PlannedCost().IsZero())
}

func TestTask_Progress(t *testing.T) {
	plan := 200.0
	assert.InDelta(t, 0.25, (&Task{VolumePlan: &plan, VolumeFact: 50}).Progress(), 1e-9)
	assert.Zero(t, (&Task{VolumeFact: 50}).Progress())
}

func TestTask_OverlapsMonth(t *testing.T) {
	feb := *date("2026-02-01")

	cases := []struct {
		name       string
		start, end *time.Time
		want       bool
	}{
		{"inside", date("2026-02-05"), date("2026-02-20"), true},
		{"spans", date("2026-01-10"), date("2026-03-10"), true},
		{"ends on first day", date("2026-01-10"), date("2026-02-01"), true},
		{"starts on last day", date("2026-02-28"), date("2026-04-01"), true},
		{"before", date("2026-01-01"), date("2026-01-31"), false},
		{"after", date("2026-03-01"), date("2026-03-31"), false},
		{"no dates", nil, nil, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			task := &Task{StartDate: tc.start, EndDate: tc.end}
			assert.Equal(t, tc.want, task.OverlapsMonth(feb))
		})
	}
}

func TestTaskPatch_Apply(t *testing.T) {
	parent := "1"
	task := &Task{Code: "1.1", Name: "Old", Unit: "m3", ParentCode: &parent}

	name := "New"
	blank := ""
	TaskPatch{Name: &name, Unit: &blank, ParentCode: &blank}.Apply(task)

	assert.Equal(t, "New", task.Name)
	assert.Equal(t, "1.1", task.Code, "unset fields untouched")
	assert.True(t, task.IsSection, "blank unit makes a section")
	assert.Nil(t, task.ParentCode)
}

func TestMonthStart(t *testing.T) {
	got := MonthStart(time.Date(2026, 2, 17, 13, 4, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), got)
}
