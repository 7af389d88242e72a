package importer

import (
	"fmt"
	"time"

	"github.com/alexanderramin/sitebook/internal/domain"
	"github.com/alexanderramin/sitebook/internal/ordering"
	"github.com/google/uuid"
)

// ConvertResult holds the tasks built from an import and the rows skipped
// on the way, sorted by row.
type ConvertResult struct {
	Tasks   []*domain.Task
	Skipped []ordering.RowError
}

// Convert validates file, reconstructs its hierarchy and builds tasks for
// projectID in file order. Accepted rows get sort orders Step, 2*Step, ...
// A malformed level_mode fails the whole file; anything else only skips the
// offending row.
func Convert(file *ScheduleFile, projectID string, now time.Time) (*ConvertResult, error) {
	mode, err := ordering.ParseLevelMode(file.LevelMode)
	if err != nil {
		return nil, fmt.Errorf("import: %w", err)
	}

	file.numberRows()
	skipped := ValidateFile(file)
	rejected := make(map[int]bool, len(skipped))
	for _, e := range skipped {
		rejected[e.Row] = true
	}

	byRow := make(map[int]TaskRow, len(file.Tasks))
	rows := make([]ordering.Row, 0, len(file.Tasks))
	for _, tr := range file.Tasks {
		if rejected[tr.Row] {
			continue
		}
		byRow[tr.Row] = tr
		rows = append(rows, ordering.Row{
			Index: tr.Row,
			Code:  tr.Code,
			Name:  tr.Name,
			Unit:  tr.Unit,
			Level: tr.Level,
		})
	}

	nodes, structural := ordering.Reconstruct(rows, mode)
	skipped = append(skipped, structural...)
	sortRowErrors(skipped)

	tasks := make([]*domain.Task, 0, len(nodes))
	for i, n := range nodes {
		tr := byRow[n.Index]
		// Values were checked by ValidateFile; parse errors cannot recur.
		start, _ := parseDate(tr.StartDate)
		end, _ := parseDate(tr.EndDate)
		planStart, _ := parseDate(tr.PlanStart)
		planEnd, _ := parseDate(tr.PlanEnd)
		price, _ := parseDecimal(tr.UnitPrice)

		task := &domain.Task{
			ID:                  uuid.New().String(),
			ProjectID:           projectID,
			Code:                n.Code,
			Name:                n.Name,
			Unit:                n.Unit,
			IsSection:           n.IsSection,
			Level:               n.Level,
			SortOrder:           (i + 1) * ordering.Step,
			VolumePlan:          tr.VolumePlan,
			StartDate:           start,
			EndDate:             end,
			PlanStart:           planStart,
			PlanEnd:             planEnd,
			UnitPrice:           price,
			LaborPerUnit:        tr.LaborPerUnit,
			MachineHoursPerUnit: tr.MachineHoursPerUnit,
			Executor:            domain.StrPtr(tr.Executor),
			CreatedAt:           now,
			UpdatedAt:           now,
		}
		if n.ParentCode != "" {
			task.ParentCode = domain.StrPtr(n.ParentCode)
		}
		tasks = append(tasks, task)
	}

	return &ConvertResult{Tasks: tasks, Skipped: skipped}, nil
}
