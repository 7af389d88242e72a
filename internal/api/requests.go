package api

import (
	"strings"
	"time"

	"github.com/alexanderramin/sitebook/internal/domain"
	"github.com/shopspring/decimal"
)

const dayLayout = "2006-01-02"

type createProjectRequest struct {
	Name        string `json:"name" binding:"required,max=200"`
	Description string `json:"description" binding:"max=2000"`
	Address     string `json:"address" binding:"max=500"`
}

type updateProjectRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=200"`
	Description *string `json:"description" binding:"omitempty,max=2000"`
	Address     *string `json:"address" binding:"omitempty,max=500"`
	Archived    *bool   `json:"archived"`
}

// taskFields are the editable task attributes shared by create and patch.
type taskFields struct {
	Name                *string          `json:"name" binding:"omitempty,max=500"`
	Unit                *string          `json:"unit" binding:"omitempty,max=32"`
	Level               *int             `json:"level" binding:"omitempty,min=0"`
	ParentCode          *string          `json:"parent_code"`
	VolumePlan          *float64         `json:"volume_plan" binding:"omitempty,gte=0"`
	StartDate           *string          `json:"start_date" binding:"omitempty,datetime=2006-01-02"`
	EndDate             *string          `json:"end_date" binding:"omitempty,datetime=2006-01-02"`
	PlanStart           *string          `json:"plan_start" binding:"omitempty,datetime=2006-01-02"`
	PlanEnd             *string          `json:"plan_end" binding:"omitempty,datetime=2006-01-02"`
	UnitPrice           *decimal.Decimal `json:"unit_price"`
	LaborPerUnit        *float64         `json:"labor_per_unit" binding:"omitempty,gte=0"`
	MachineHoursPerUnit *float64         `json:"machine_hours_per_unit" binding:"omitempty,gte=0"`
	Executor            *string          `json:"executor" binding:"omitempty,max=200"`
}

type createTaskRequest struct {
	Code     string `json:"code" binding:"omitempty,taskcode"`
	IsCustom bool   `json:"is_custom"`
	BeforeID string `json:"before_id"`
	AfterID  string `json:"after_id"`
	taskFields
}

type updateTaskRequest struct {
	Code *string `json:"code" binding:"omitempty,taskcode"`
	taskFields
}

type moveTaskRequest struct {
	BeforeID   string  `json:"before_id"`
	AfterID    string  `json:"after_id"`
	Level      *int    `json:"level" binding:"omitempty,min=0"`
	ParentCode *string `json:"parent_code"`
}

type bulkDeleteRequest struct {
	IDs []string `json:"ids" binding:"required,min=1,dive,required"`
}

type recordDailyWorkRequest struct {
	TaskID      string  `json:"task_id" binding:"required"`
	Date        string  `json:"date" binding:"required,datetime=2006-01-02"`
	Volume      float64 `json:"volume" binding:"gte=0"`
	Description string  `json:"description" binding:"max=2000"`
}

type saveMonthlyPlanRequest struct {
	TaskID     string  `json:"task_id" binding:"required"`
	Month      string  `json:"month" binding:"required,datetime=2006-01"`
	VolumePlan float64 `json:"volume_plan" binding:"gte=0"`
}

// placement turns before_id / after_id into an anchor. Neither means append.
func placement(beforeID, afterID string) (domain.Anchor, string, error) {
	switch {
	case beforeID != "" && afterID != "":
		return "", "", badRequestf("before_id and after_id are mutually exclusive")
	case beforeID != "":
		return domain.AnchorBefore, beforeID, nil
	case afterID != "":
		return domain.AnchorAfter, afterID, nil
	default:
		return domain.AnchorEnd, "", nil
	}
}

func (r createTaskRequest) toTask(projectID string) (*domain.Task, error) {
	t := &domain.Task{
		ProjectID: projectID,
		Code:      r.Code,
		IsCustom:  r.IsCustom,
	}
	patch, err := r.taskFields.patch()
	if err != nil {
		return nil, err
	}
	patch.Apply(t)
	return t, nil
}

func (r updateTaskRequest) toPatch() (domain.TaskPatch, error) {
	patch, err := r.taskFields.patch()
	if err != nil {
		return domain.TaskPatch{}, err
	}
	if r.Code != nil {
		code := strings.TrimSpace(*r.Code)
		patch.Code = &code
	}
	return patch, nil
}

func (f taskFields) patch() (domain.TaskPatch, error) {
	p := domain.TaskPatch{
		Name:                f.Name,
		Unit:                f.Unit,
		Level:               f.Level,
		ParentCode:          f.ParentCode,
		VolumePlan:          f.VolumePlan,
		UnitPrice:           f.UnitPrice,
		LaborPerUnit:        f.LaborPerUnit,
		MachineHoursPerUnit: f.MachineHoursPerUnit,
		Executor:            f.Executor,
	}
	var err error
	if p.StartDate, err = dayPtr("start_date", f.StartDate); err != nil {
		return p, err
	}
	if p.EndDate, err = dayPtr("end_date", f.EndDate); err != nil {
		return p, err
	}
	if p.PlanStart, err = dayPtr("plan_start", f.PlanStart); err != nil {
		return p, err
	}
	if p.PlanEnd, err = dayPtr("plan_end", f.PlanEnd); err != nil {
		return p, err
	}
	return p, nil
}

func dayPtr(field string, s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	d, err := time.Parse(dayLayout, *s)
	if err != nil {
		return nil, badRequestf("%s must be a date in %s format", field, dayLayout)
	}
	return &d, nil
}
