// Package contract holds the JSON shapes shared by the HTTP API, the live
// update stream and the CLI.
package contract

import (
	"time"

	"github.com/alexanderramin/sitebook/internal/domain"
)

const dateLayout = "2006-01-02"

type Task struct {
	ID                  string   `json:"id"`
	ProjectID           string   `json:"project_id"`
	Code                string   `json:"code"`
	Name                string   `json:"name"`
	Unit                string   `json:"unit,omitempty"`
	IsSection           bool     `json:"is_section"`
	Level               int      `json:"level"`
	ParentCode          *string  `json:"parent_code"`
	SortOrder           int      `json:"sort_order"`
	IsCustom            bool     `json:"is_custom"`
	VolumePlan          *float64 `json:"volume_plan"`
	VolumeFact          float64  `json:"volume_fact"`
	StartDate           *string  `json:"start_date"`
	EndDate             *string  `json:"end_date"`
	PlanStart           *string  `json:"plan_start"`
	PlanEnd             *string  `json:"plan_end"`
	UnitPrice           *string  `json:"unit_price"`
	PlannedCost         string   `json:"planned_cost"`
	LaborPerUnit        *float64 `json:"labor_per_unit"`
	MachineHoursPerUnit *float64 `json:"machine_hours_per_unit"`
	Executor            *string  `json:"executor"`
	CreatedAt           string   `json:"created_at"`
	UpdatedAt           string   `json:"updated_at"`
}

func FromTask(t *domain.Task) Task {
	out := Task{
		ID:                  t.ID,
		ProjectID:           t.ProjectID,
		Code:                t.Code,
		Name:                t.Name,
		Unit:                t.Unit,
		IsSection:           t.IsSection,
		Level:               t.Level,
		ParentCode:          t.ParentCode,
		SortOrder:           t.SortOrder,
		IsCustom:            t.IsCustom,
		VolumePlan:          t.VolumePlan,
		VolumeFact:          t.VolumeFact,
		StartDate:           formatDate(t.StartDate),
		EndDate:             formatDate(t.EndDate),
		PlanStart:           formatDate(t.PlanStart),
		PlanEnd:             formatDate(t.PlanEnd),
		PlannedCost:         t.PlannedCost().StringFixed(2),
		LaborPerUnit:        t.LaborPerUnit,
		MachineHoursPerUnit: t.MachineHoursPerUnit,
		Executor:            t.Executor,
		CreatedAt:           t.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:           t.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if t.UnitPrice != nil {
		s := t.UnitPrice.String()
		out.UnitPrice = &s
	}
	return out
}

func FromTasks(tasks []*domain.Task) []Task {
	out := make([]Task, len(tasks))
	for i, t := range tasks {
		out[i] = FromTask(t)
	}
	return out
}

// TaskRef identifies a removed task.
type TaskRef struct {
	ID   string `json:"id"`
	Code string `json:"code"`
}

// TaskPlaced is the payload of task_created and task_moved.
type TaskPlaced struct {
	Task       Task `json:"task"`
	Renumbered int  `json:"renumbered"`
}

type RenumberResult struct {
	Changed int `json:"changed"`
}

type WipeResult struct {
	DeletedCount int `json:"deleted_count"`
	CustomCount  int `json:"custom_count"`
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(dateLayout)
	return &s
}
