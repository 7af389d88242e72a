package importer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ScheduleFile is the decoded import document: a flat list of schedule rows
// in display order.
type ScheduleFile struct {
	// LevelMode is "indent" (default) or "code"; see ordering.LevelMode.
	LevelMode string    `json:"level_mode,omitempty" yaml:"level_mode,omitempty"`
	Tasks     []TaskRow `json:"tasks" yaml:"tasks"`
}

// TaskRow is one schedule line. Name may carry leading indentation that
// encodes depth. Dates are YYYY-MM-DD or DD.MM.YYYY.
type TaskRow struct {
	Code                string   `json:"code" yaml:"code"`
	Name                string   `json:"name" yaml:"name"`
	Unit                string   `json:"unit,omitempty" yaml:"unit,omitempty"`
	Level               *int     `json:"level,omitempty" yaml:"level,omitempty"`
	VolumePlan          *float64 `json:"volume_plan,omitempty" yaml:"volume_plan,omitempty"`
	StartDate           string   `json:"start_date,omitempty" yaml:"start_date,omitempty"`
	EndDate             string   `json:"end_date,omitempty" yaml:"end_date,omitempty"`
	PlanStart           string   `json:"plan_start,omitempty" yaml:"plan_start,omitempty"`
	PlanEnd             string   `json:"plan_end,omitempty" yaml:"plan_end,omitempty"`
	UnitPrice           string   `json:"unit_price,omitempty" yaml:"unit_price,omitempty"`
	LaborPerUnit        *float64 `json:"labor_per_unit,omitempty" yaml:"labor_per_unit,omitempty"`
	MachineHoursPerUnit *float64 `json:"machine_hours_per_unit,omitempty" yaml:"machine_hours_per_unit,omitempty"`
	Executor            string   `json:"executor,omitempty" yaml:"executor,omitempty"`

	// Row is the 1-based source row reported in errors. Decoders fill it
	// when it is zero.
	Row int `json:"-" yaml:"-"`
	// cellErr holds a decode problem confined to this row (CSV cells).
	cellErr string
}

// Format names a supported import encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatCSV  Format = "csv"
)

// FormatFromName picks a format from a file name's extension.
func FormatFromName(name string) (Format, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".csv":
		return FormatCSV, nil
	case ".xlsx", ".xls":
		return "", fmt.Errorf("%s: spreadsheet import is not supported; export the sheet as CSV", name)
	default:
		return "", fmt.Errorf("%s: unknown import format (want .json, .yaml or .csv)", name)
	}
}

// LoadFile reads and decodes the import file at path.
func LoadFile(path string) (*ScheduleFile, error) {
	format, err := FormatFromName(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading import file: %w", err)
	}
	return Decode(bytes.NewReader(data), format)
}

// Decode parses r in the given format.
func Decode(r io.Reader, format Format) (*ScheduleFile, error) {
	var file ScheduleFile
	switch format {
	case FormatJSON:
		if err := json.NewDecoder(r).Decode(&file); err != nil {
			return nil, fmt.Errorf("parsing import JSON: %w", err)
		}
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&file); err != nil && err != io.EOF {
			return nil, fmt.Errorf("parsing import YAML: %w", err)
		}
	case FormatCSV:
		rows, err := decodeCSV(r)
		if err != nil {
			return nil, err
		}
		file.Tasks = rows
	default:
		return nil, fmt.Errorf("unsupported import format %q", format)
	}

	file.numberRows()
	return &file, nil
}

// numberRows gives rows without a source row their 1-based position.
func (f *ScheduleFile) numberRows() {
	for i := range f.Tasks {
		if f.Tasks[i].Row == 0 {
			f.Tasks[i].Row = i + 1
		}
	}
}
