package ordering

import (
	"context"
	"fmt"
)

// memStore is an in-memory Store for a single project.
type memStore struct {
	rows        map[string]Position
	setCalls    int
	collapseSet bool // SetOrders piles every row onto one order
	failWith    error
}

func newMemStore(orders ...int) *memStore {
	m := &memStore{rows: make(map[string]Position)}
	for i, o := range orders {
		m.add(fmt.Sprintf("t%d", i+1), fmt.Sprintf("%d", i+1), o)
	}
	return m
}

func (m *memStore) add(id, code string, order int) {
	m.rows[id] = Position{ID: id, Code: code, SortOrder: order}
}

func (m *memStore) get(id string) Position {
	return m.rows[id]
}

func (m *memStore) inScope(s Scope) []Position {
	out := make([]Position, 0, len(m.rows))
	for id, p := range m.rows {
		if id == s.ExcludeID {
			continue
		}
		out = append(out, p)
	}
	return out
}

func (m *memStore) ordered() []Position {
	out := m.inScope(Scope{})
	SortPositions(out)
	return out
}

func (m *memStore) ids() []string {
	var ids []string
	for _, p := range m.ordered() {
		ids = append(ids, p.ID)
	}
	return ids
}

func (m *memStore) MaxOrder(_ context.Context, s Scope) (int, bool, error) {
	if m.failWith != nil {
		return 0, false, m.failWith
	}
	max, ok := 0, false
	for _, p := range m.inScope(s) {
		if !ok || p.SortOrder > max {
			max, ok = p.SortOrder, true
		}
	}
	return max, ok, nil
}

func (m *memStore) OrderBelow(_ context.Context, s Scope, order int) (int, bool, error) {
	if m.failWith != nil {
		return 0, false, m.failWith
	}
	best, ok := 0, false
	for _, p := range m.inScope(s) {
		if p.SortOrder < order && (!ok || p.SortOrder > best) {
			best, ok = p.SortOrder, true
		}
	}
	return best, ok, nil
}

func (m *memStore) OrderAbove(_ context.Context, s Scope, order int) (int, bool, error) {
	if m.failWith != nil {
		return 0, false, m.failWith
	}
	best, ok := 0, false
	for _, p := range m.inScope(s) {
		if p.SortOrder > order && (!ok || p.SortOrder < best) {
			best, ok = p.SortOrder, true
		}
	}
	return best, ok, nil
}

func (m *memStore) CountAtOrder(_ context.Context, s Scope, order int) (int, error) {
	if m.failWith != nil {
		return 0, m.failWith
	}
	n := 0
	for _, p := range m.inScope(s) {
		if p.SortOrder == order {
			n++
		}
	}
	return n, nil
}

func (m *memStore) Positions(_ context.Context, _ string) ([]Position, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	return m.ordered(), nil
}

func (m *memStore) SetOrders(_ context.Context, _ string, orders map[string]int) error {
	m.setCalls++
	if m.collapseSet {
		for id, p := range m.rows {
			p.SortOrder = 20
			m.rows[id] = p
		}
		return nil
	}
	for id, o := range orders {
		p := m.rows[id]
		p.SortOrder = o
		m.rows[id] = p
	}
	return nil
}
