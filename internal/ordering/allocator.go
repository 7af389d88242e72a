package ordering

import (
	"context"
	"fmt"

	"github.com/alexanderramin/sitebook/internal/domain"
)

// Allocation is the outcome of a placement.
type Allocation struct {
	Order int
	// Renumbered is the number of rows whose order changed because the
	// anchor had no free neighbour slot; zero when no renumber ran.
	Renumbered int
}

// Engine allocates sort orders against a Store.
type Engine struct {
	store Store
}

// NewEngine creates an Engine over store.
func NewEngine(store Store) *Engine {
	return &Engine{store: store}
}

// NextTrailingOrder returns max+Step, or Step for an empty scope.
func (e *Engine) NextTrailingOrder(ctx context.Context, s Scope) (int, error) {
	max, ok, err := e.store.MaxOrder(ctx, s)
	if err != nil {
		return 0, fmt.Errorf("reading max sort order: %w", err)
	}
	if !ok {
		return Step, nil
	}
	return max + Step, nil
}

// Place allocates an order relative to anchor. A nil anchor, or AnchorEnd,
// appends after the last row.
func (e *Engine) Place(ctx context.Context, s Scope, where domain.Anchor, anchor *Position) (Allocation, error) {
	if anchor == nil || where == domain.AnchorEnd || where == "" {
		order, err := e.NextTrailingOrder(ctx, s)
		return Allocation{Order: order}, err
	}
	switch where {
	case domain.AnchorBefore:
		return e.InsertBefore(ctx, s, *anchor)
	case domain.AnchorAfter:
		return e.InsertAfter(ctx, s, *anchor)
	default:
		return Allocation{}, fmt.Errorf("unknown anchor placement %q", where)
	}
}

// InsertBefore returns an order strictly between the anchor and the row
// immediately before it. Only when there is no integer between them is the
// project renumbered, at most once.
func (e *Engine) InsertBefore(ctx context.Context, s Scope, anchor Position) (Allocation, error) {
	order, ok, err := e.between(ctx, s, anchor, true)
	if err != nil || ok {
		return Allocation{Order: order}, err
	}

	changed, moved, err := e.renumberForAnchor(ctx, s, anchor, true)
	if err != nil {
		return Allocation{}, err
	}
	if moved == nil {
		order, err := e.NextTrailingOrder(ctx, s)
		return Allocation{Order: order, Renumbered: changed}, err
	}

	order, ok, err = e.between(ctx, s, *moved, true)
	if err != nil {
		return Allocation{}, err
	}
	if !ok {
		return Allocation{}, fmt.Errorf("inserting before order %d: %w", moved.SortOrder, ErrNoRoom)
	}
	return Allocation{Order: order, Renumbered: changed}, nil
}

// InsertAfter mirrors InsertBefore on the following neighbour. Without a
// following row the sentinel is anchor+Step.
func (e *Engine) InsertAfter(ctx context.Context, s Scope, anchor Position) (Allocation, error) {
	order, ok, err := e.between(ctx, s, anchor, false)
	if err != nil || ok {
		return Allocation{Order: order}, err
	}

	changed, moved, err := e.renumberForAnchor(ctx, s, anchor, false)
	if err != nil {
		return Allocation{}, err
	}
	if moved == nil {
		order, err := e.NextTrailingOrder(ctx, s)
		return Allocation{Order: order, Renumbered: changed}, err
	}

	order, ok, err = e.between(ctx, s, *moved, false)
	if err != nil {
		return Allocation{}, err
	}
	if !ok {
		return Allocation{}, fmt.Errorf("inserting after order %d: %w", moved.SortOrder, ErrNoRoom)
	}
	return Allocation{Order: order, Renumbered: changed}, nil
}

// between finds the midpoint on one side of anchor. ok is false when the gap
// is too small or when another row shares the anchor's order, since a tie
// leaves no slot adjacent to the anchor in (sort_order, code) order.
func (e *Engine) between(ctx context.Context, s Scope, anchor Position, before bool) (int, bool, error) {
	ties, err := e.store.CountAtOrder(ctx, s, anchor.SortOrder)
	if err != nil {
		return 0, false, fmt.Errorf("counting rows at order %d: %w", anchor.SortOrder, err)
	}
	if ties > 1 {
		return 0, false, nil
	}

	if before {
		prev, ok, err := e.store.OrderBelow(ctx, s, anchor.SortOrder)
		if err != nil {
			return 0, false, fmt.Errorf("reading order below %d: %w", anchor.SortOrder, err)
		}
		if !ok {
			prev = 0
		}
		gap := anchor.SortOrder - prev
		if gap <= 1 {
			return 0, false, nil
		}
		return prev + gap/2, true, nil
	}

	next, ok, err := e.store.OrderAbove(ctx, s, anchor.SortOrder)
	if err != nil {
		return 0, false, fmt.Errorf("reading order above %d: %w", anchor.SortOrder, err)
	}
	if !ok {
		next = anchor.SortOrder + Step
	}
	gap := next - anchor.SortOrder
	if gap <= 1 {
		return 0, false, nil
	}
	return anchor.SortOrder + gap/2, true, nil
}

// renumberForAnchor renumbers the project and reports where the anchor ended
// up. An anchor with an ID is tracked by identity; otherwise by the first row
// at or above its order (before) or the last row at or below it (after).
// A nil position means no row matched.
func (e *Engine) renumberForAnchor(ctx context.Context, s Scope, anchor Position, before bool) (int, *Position, error) {
	plan, changed, err := e.Renumber(ctx, s.ProjectID)
	if err != nil {
		return 0, nil, err
	}

	var match *Position
	for _, a := range plan {
		if a.ID == s.ExcludeID {
			continue
		}
		if anchor.ID != "" {
			if a.ID == anchor.ID {
				match = &Position{ID: a.ID, Code: a.Code, SortOrder: a.New}
				break
			}
			continue
		}
		if before && a.Old >= anchor.SortOrder {
			match = &Position{ID: a.ID, Code: a.Code, SortOrder: a.New}
			break
		}
		if !before && a.Old <= anchor.SortOrder {
			match = &Position{ID: a.ID, Code: a.Code, SortOrder: a.New}
		}
	}
	return changed, match, nil
}
