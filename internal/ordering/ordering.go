// Package ordering positions tasks inside a project's schedule.
//
// Tasks carry a gapped integer sort_order. New rows are placed midway
// between their neighbours; when two neighbours are adjacent integers the
// whole project is renumbered to multiples of Step once and the placement
// retried. The total read order is (sort_order, code).
package ordering

import (
	"context"
	"errors"
)

// Step is the spacing between consecutive sort orders after a renumber and
// between trailing appends.
const Step = 10

// ErrNoRoom is returned when no integer fits next to the anchor even after
// a renumber. A correct Store never produces it.
var ErrNoRoom = errors.New("no free sort order next to anchor after renumber")

// Scope names the rows an operation considers: every task of ProjectID
// except ExcludeID, which is the task being moved, if any.
type Scope struct {
	ProjectID string
	ExcludeID string
}

// Position is the ordering-relevant projection of a task.
type Position struct {
	ID        string
	Code      string
	SortOrder int
}

// Store is the persistence the allocator needs. Implementations are expected
// to be transaction-scoped so a read of neighbours and the following write
// are atomic against other writers of the same project.
type Store interface {
	// MaxOrder returns the greatest sort order in scope; ok is false when
	// the scope is empty.
	MaxOrder(ctx context.Context, s Scope) (max int, ok bool, err error)
	// OrderBelow returns the greatest sort order strictly below order.
	OrderBelow(ctx context.Context, s Scope, order int) (prev int, ok bool, err error)
	// OrderAbove returns the smallest sort order strictly above order.
	OrderAbove(ctx context.Context, s Scope, order int) (next int, ok bool, err error)
	// CountAtOrder counts rows in scope sharing exactly order.
	CountAtOrder(ctx context.Context, s Scope, order int) (int, error)
	// Positions lists every row of the project ordered by (sort_order, code).
	// A renumber always covers the whole project, moving task included.
	Positions(ctx context.Context, projectID string) ([]Position, error)
	// SetOrders writes the given id -> sort order assignments.
	SetOrders(ctx context.Context, projectID string, orders map[string]int) error
}
