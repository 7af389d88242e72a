package ordering

import (
	"context"
	"fmt"
	"slices"
)

// Assignment records one row's order before and after a renumber.
type Assignment struct {
	ID   string
	Code string
	Old  int
	New  int
}

// Plan assigns (rank+1)*Step to positions ranked by (sort_order, code).
// The input need not be sorted and is not modified.
func Plan(positions []Position) []Assignment {
	sorted := slices.Clone(positions)
	SortPositions(sorted)

	plan := make([]Assignment, len(sorted))
	for i, p := range sorted {
		plan[i] = Assignment{ID: p.ID, Code: p.Code, Old: p.SortOrder, New: (i + 1) * Step}
	}
	return plan
}

// Renumber rewrites every task of the project to multiples of Step in one
// SetOrders call, preserving the (sort_order, code) order. Rows already at
// their target are not written, so a second call changes nothing.
func (e *Engine) Renumber(ctx context.Context, projectID string) (plan []Assignment, changed int, err error) {
	positions, err := e.store.Positions(ctx, projectID)
	if err != nil {
		return nil, 0, fmt.Errorf("loading positions: %w", err)
	}

	plan = Plan(positions)
	orders := make(map[string]int)
	for _, a := range plan {
		if a.Old != a.New {
			orders[a.ID] = a.New
		}
	}
	if len(orders) == 0 {
		return plan, 0, nil
	}
	if err := e.store.SetOrders(ctx, projectID, orders); err != nil {
		return nil, 0, fmt.Errorf("writing renumbered orders: %w", err)
	}
	return plan, len(orders), nil
}
