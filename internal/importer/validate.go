package importer

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/alexanderramin/sitebook/internal/domain"
	"github.com/alexanderramin/sitebook/internal/ordering"
	"github.com/shopspring/decimal"
)

var dateLayouts = []string{"2006-01-02", "02.01.2006"}

// parseDate accepts ISO and day-first dotted dates. Blank means unset.
func parseDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("invalid date %q (want YYYY-MM-DD or DD.MM.YYYY)", s)
}

func parseDecimal(s string) (*decimal.Decimal, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	if s == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid unit_price %q", s)
	}
	return &d, nil
}

// ValidateFile checks every row's field values and returns one RowError per
// offending row, in row order. Structural problems (missing code or name,
// duplicates, bad levels) are reported by hierarchy reconstruction instead.
func ValidateFile(file *ScheduleFile) []ordering.RowError {
	var errs []ordering.RowError
	for _, row := range file.Tasks {
		if problems := validateRow(row); len(problems) > 0 {
			errs = append(errs, ordering.RowError{
				Row:    row.Row,
				Code:   strings.TrimSpace(row.Code),
				Reason: strings.Join(problems, "; "),
			})
		}
	}
	return errs
}

func validateRow(row TaskRow) []string {
	var problems []string
	if row.cellErr != "" {
		problems = append(problems, row.cellErr)
	}

	if code := strings.TrimSpace(row.Code); code != "" {
		if err := domain.ValidateTaskCode(code); err != nil {
			problems = append(problems, err.Error())
		}
	}

	start, err := parseDate(row.StartDate)
	if err != nil {
		problems = append(problems, "start_date: "+err.Error())
	}
	end, err := parseDate(row.EndDate)
	if err != nil {
		problems = append(problems, "end_date: "+err.Error())
	}
	if start != nil && end != nil && end.Before(*start) {
		problems = append(problems, "end_date is before start_date")
	}

	planStart, err := parseDate(row.PlanStart)
	if err != nil {
		problems = append(problems, "plan_start: "+err.Error())
	}
	planEnd, err := parseDate(row.PlanEnd)
	if err != nil {
		problems = append(problems, "plan_end: "+err.Error())
	}
	if planStart != nil && planEnd != nil && planEnd.Before(*planStart) {
		problems = append(problems, "plan_end is before plan_start")
	}

	price, err := parseDecimal(row.UnitPrice)
	if err != nil {
		problems = append(problems, err.Error())
	} else if price != nil && price.IsNegative() {
		problems = append(problems, "unit_price must be >= 0")
	}

	nonNegative := []struct {
		name string
		v    *float64
	}{
		{"volume_plan", row.VolumePlan},
		{"labor_per_unit", row.LaborPerUnit},
		{"machine_hours_per_unit", row.MachineHoursPerUnit},
	}
	for _, f := range nonNegative {
		if f.v != nil && *f.v < 0 {
			problems = append(problems, fmt.Sprintf("%s must be >= 0", f.name))
		}
	}
	return problems
}

func sortRowErrors(errs []ordering.RowError) {
	sort.SliceStable(errs, func(i, j int) bool { return errs[i].Row < errs[j].Row })
}
