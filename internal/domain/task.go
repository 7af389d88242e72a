package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// MaxCodeLength bounds task codes accepted from imports and the API.
const MaxCodeLength = 64

type Task struct {
	ID        string
	ProjectID string
	Code      string
	Name      string
	Unit      string // empty for sections

	IsSection  bool
	Level      int
	ParentCode *string
	SortOrder  int
	IsCustom   bool

	VolumePlan *float64
	VolumeFact float64
	StartDate  *time.Time
	EndDate    *time.Time
	PlanStart  *time.Time
	PlanEnd    *time.Time

	UnitPrice           *decimal.Decimal
	LaborPerUnit        *float64
	MachineHoursPerUnit *float64
	Executor            *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ValidateTaskCode rejects empty, oversized, or whitespace-bearing codes.
func ValidateTaskCode(code string) error {
	if code == "" {
		return fmt.Errorf("code is required")
	}
	if len(code) > MaxCodeLength {
		return fmt.Errorf("code %q exceeds %d characters", code, MaxCodeLength)
	}
	if strings.ContainsAny(code, " \t\r\n") {
		return fmt.Errorf("code %q must not contain whitespace", code)
	}
	return nil
}

// PlannedCost is unit price times planned volume; zero when either is unset.
func (t *Task) PlannedCost() decimal.Decimal {
	if t.UnitPrice == nil || t.VolumePlan == nil {
		return decimal.Zero
	}
	return t.UnitPrice.Mul(decimal.NewFromFloat(*t.VolumePlan)).Round(2)
}

// Progress returns volume_fact / volume_plan in [0, +inf), or 0 without a plan.
func (t *Task) Progress() float64 {
	if t.VolumePlan == nil || *t.VolumePlan <= 0 {
		return 0
	}
	return t.VolumeFact / *t.VolumePlan
}

// OverlapsMonth reports whether the contract period intersects the month
// starting at monthStart. Tasks without both dates never overlap.
func (t *Task) OverlapsMonth(monthStart time.Time) bool {
	if t.StartDate == nil || t.EndDate == nil {
		return false
	}
	next := monthStart.AddDate(0, 1, 0)
	return t.StartDate.Before(next) && !t.EndDate.Before(monthStart)
}

// TaskPatch is a partial update; nil fields are left untouched.
type TaskPatch struct {
	Code                *string
	Name                *string
	Unit                *string
	VolumePlan          *float64
	StartDate           *time.Time
	EndDate             *time.Time
	PlanStart           *time.Time
	PlanEnd             *time.Time
	UnitPrice           *decimal.Decimal
	LaborPerUnit        *float64
	MachineHoursPerUnit *float64
	Executor            *string
	Level               *int
	ParentCode          *string
}

// Apply copies the set fields of p onto t. Changing Unit re-derives IsSection.
func (p TaskPatch) Apply(t *Task) {
	if p.Code != nil {
		t.Code = *p.Code
	}
	if p.Name != nil {
		t.Name = *p.Name
	}
	if p.Unit != nil {
		t.Unit = strings.TrimSpace(*p.Unit)
		t.IsSection = t.Unit == ""
	}
	if p.VolumePlan != nil {
		t.VolumePlan = p.VolumePlan
	}
	if p.StartDate != nil {
		t.StartDate = p.StartDate
	}
	if p.EndDate != nil {
		t.EndDate = p.EndDate
	}
	if p.PlanStart != nil {
		t.PlanStart = p.PlanStart
	}
	if p.PlanEnd != nil {
		t.PlanEnd = p.PlanEnd
	}
	if p.UnitPrice != nil {
		t.UnitPrice = p.UnitPrice
	}
	if p.LaborPerUnit != nil {
		t.LaborPerUnit = p.LaborPerUnit
	}
	if p.MachineHoursPerUnit != nil {
		t.MachineHoursPerUnit = p.MachineHoursPerUnit
	}
	if p.Executor != nil {
		t.Executor = p.Executor
	}
	if p.Level != nil {
		t.Level = *p.Level
	}
	if p.ParentCode != nil {
		if *p.ParentCode == "" {
			t.ParentCode = nil
		} else {
			t.ParentCode = p.ParentCode
		}
	}
}
