package contract

import "github.com/alexanderramin/sitebook/internal/ordering"

// ImportResult reports a schedule import. Replaced and DroppedCustom count
// rows destroyed by the replace so callers can see what was lost.
type ImportResult struct {
	Processed     int                 `json:"processed"`
	Skipped       []ordering.RowError `json:"skipped"`
	Replaced      int                 `json:"replaced"`
	DroppedCustom int                 `json:"dropped_custom"`
}
