package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// csvHeaders maps accepted header spellings to TaskRow fields. Russian
// headers match the spreadsheet template sites already use.
var csvHeaders = map[string]string{
	"code":                   "code",
	"шифр":                   "code",
	"name":                   "name",
	"наименование работ":     "name",
	"unit":                   "unit",
	"ед. изм.":               "unit",
	"level":                  "level",
	"volume_plan":            "volume_plan",
	"объем план":             "volume_plan",
	"start_date":             "start_date",
	"дата начала":            "start_date",
	"end_date":               "end_date",
	"дата окончания":         "end_date",
	"plan_start":             "plan_start",
	"plan_end":               "plan_end",
	"unit_price":             "unit_price",
	"labor_per_unit":         "labor_per_unit",
	"machine_hours_per_unit": "machine_hours_per_unit",
	"executor":               "executor",
}

// decodeCSV reads a header row followed by data rows. Row numbers count the
// header as row 1, matching what a spreadsheet shows.
func decodeCSV(r io.Reader) ([]TaskRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("parsing import CSV: empty file")
		}
		return nil, fmt.Errorf("parsing import CSV header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if field, ok := csvHeaders[key]; ok {
			columns[field] = i
		}
	}
	for _, required := range []string{"code", "name"} {
		if _, ok := columns[required]; !ok {
			return nil, fmt.Errorf("parsing import CSV: missing %q column", required)
		}
	}

	var rows []TaskRow
	line := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("parsing import CSV row %d: %w", line, err)
		}
		if blankRecord(record) {
			continue
		}
		rows = append(rows, csvRow(record, columns, line))
	}
	return rows, nil
}

func csvRow(record []string, columns map[string]int, line int) TaskRow {
	cell := func(field string) string {
		i, ok := columns[field]
		if !ok || i >= len(record) {
			return ""
		}
		return record[i]
	}
	trimmed := func(field string) string { return strings.TrimSpace(cell(field)) }

	row := TaskRow{
		Row:       line,
		Code:      trimmed("code"),
		Name:      strings.TrimRight(cell("name"), " \t"),
		Unit:      trimmed("unit"),
		StartDate: trimmed("start_date"),
		EndDate:   trimmed("end_date"),
		PlanStart: trimmed("plan_start"),
		PlanEnd:   trimmed("plan_end"),
		UnitPrice: trimmed("unit_price"),
		Executor:  trimmed("executor"),
	}

	var bad []string
	parseFloat := func(field string) *float64 {
		s := strings.ReplaceAll(trimmed(field), ",", ".")
		if s == "" {
			return nil
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			bad = append(bad, fmt.Sprintf("%s %q is not a number", field, trimmed(field)))
			return nil
		}
		return &v
	}
	row.VolumePlan = parseFloat("volume_plan")
	row.LaborPerUnit = parseFloat("labor_per_unit")
	row.MachineHoursPerUnit = parseFloat("machine_hours_per_unit")

	if s := trimmed("level"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			bad = append(bad, fmt.Sprintf("level %q is not an integer", s))
		} else {
			row.Level = &v
		}
	}
	if len(bad) > 0 {
		row.cellErr = strings.Join(bad, "; ")
	}
	return row
}

func blankRecord(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
