package ordering

import (
	"context"
	"fmt"
	"math/rand"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestInsert_Invariants_NewRowAdjacentToAnchor property-tests placement:
// whatever the starting orders (ties and adjacent integers included), a new
// row lands immediately before or after its anchor and the existing rows
// keep their relative order.
func TestInsert_Invariants_NewRowAdjacentToAnchor(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	ctx := context.Background()

	for trial := 0; trial < 200; trial++ {
		store := newMemStore()
		n := rng.Intn(8) + 1
		for i := 0; i < n; i++ {
			store.add(fmt.Sprintf("t%d", i), fmt.Sprintf("c%03d", i), rng.Intn(40))
		}
		engine := NewEngine(store)

		for step := 0; step < 30; step++ {
			before := store.ids()
			anchorID := before[rng.Intn(len(before))]
			insertBefore := rng.Intn(2) == 0

			var alloc Allocation
			var err error
			if insertBefore {
				alloc, err = engine.InsertBefore(ctx, testScope, store.get(anchorID))
			} else {
				alloc, err = engine.InsertAfter(ctx, testScope, store.get(anchorID))
			}
			require.NoError(t, err, "trial %d step %d", trial, step)

			assert.Equal(t, before, store.ids(),
				"trial %d step %d: renumber must not reorder existing rows", trial, step)

			id := fmt.Sprintf("n%d", step)
			store.add(id, fmt.Sprintf("n%03d", step), alloc.Order)
			ids := store.ids()
			idx := slices.Index(ids, id)
			if insertBefore {
				require.Less(t, idx+1, len(ids))
				assert.Equal(t, anchorID, ids[idx+1], "trial %d step %d: new row must precede anchor", trial, step)
			} else {
				require.Greater(t, idx, 0)
				assert.Equal(t, anchorID, ids[idx-1], "trial %d step %d: new row must follow anchor", trial, step)
			}
		}
	}
}

// TestRenumber_Invariants_OrderPreservedAndIdempotent property-tests
// renumbering: relative order is unchanged, values are Step, 2*Step, ...,
// and a second pass writes nothing.
func TestRenumber_Invariants_OrderPreservedAndIdempotent(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	ctx := context.Background()

	for trial := 0; trial < 200; trial++ {
		store := newMemStore()
		n := rng.Intn(12)
		for i := 0; i < n; i++ {
			store.add(fmt.Sprintf("t%d", i), fmt.Sprintf("c%03d", rng.Intn(1000)*100+i), rng.Intn(30)-5)
		}
		before := store.ids()
		engine := NewEngine(store)

		_, _, err := engine.Renumber(ctx, "p1")
		require.NoError(t, err)

		assert.Equal(t, before, store.ids(), "trial %d: order changed", trial)
		for i, p := range store.ordered() {
			assert.Equal(t, (i+1)*Step, p.SortOrder, "trial %d rank %d", trial, i)
		}

		calls := store.setCalls
		_, changed, err := engine.Renumber(ctx, "p1")
		require.NoError(t, err)
		assert.Zero(t, changed, "trial %d: second renumber changed rows", trial)
		assert.Equal(t, calls, store.setCalls, "trial %d: second renumber wrote", trial)
	}
}
