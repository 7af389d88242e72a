package ordering

import (
	"cmp"
	"slices"

	"github.com/alexanderramin/sitebook/internal/domain"
)

// Compare orders by sort_order, then code. Codes compare as plain strings,
// so "1.10" sorts before "1.2" when both share an order.
func Compare(orderA int, codeA string, orderB int, codeB string) int {
	if c := cmp.Compare(orderA, orderB); c != 0 {
		return c
	}
	return cmp.Compare(codeA, codeB)
}

// SortPositions sorts ps in place into canonical order.
func SortPositions(ps []Position) {
	slices.SortStableFunc(ps, func(a, b Position) int {
		return Compare(a.SortOrder, a.Code, b.SortOrder, b.Code)
	})
}

// SortTasks sorts tasks in place into canonical order.
func SortTasks(tasks []*domain.Task) {
	slices.SortStableFunc(tasks, func(a, b *domain.Task) int {
		return Compare(a.SortOrder, a.Code, b.SortOrder, b.Code)
	})
}

// PositionOf projects a task onto its ordering fields.
func PositionOf(t *domain.Task) Position {
	return Position{ID: t.ID, Code: t.Code, SortOrder: t.SortOrder}
}
