package domain

import "time"

type MonthlyPlan struct {
	ID         string
	ProjectID  string
	TaskID     *string
	Month      time.Time
	VolumePlan float64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// MonthlyLine is one row of a project's month view.
type MonthlyLine struct {
	Task       *Task
	PlanID     *string
	VolumePlan *float64
}

// MonthStart truncates t to the first day of its month in UTC.
func MonthStart(t time.Time) time.Time {
	y, m, _ := t.Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
}
