package reorder_test

import (
	"math/rand"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corkboard/corkboard/internal/reorder"
)

// scopes models the store: parent -> entity -> position.
type scopes map[uuid.UUID]map[uuid.UUID]int

func (s scopes) add(parent uuid.UUID, entities ...uuid.UUID) {
	if s[parent] == nil {
		s[parent] = map[uuid.UUID]int{}
	}
	for i, e := range entities {
		s[parent][e] = i
	}
}

func (s scopes) slotOf(entity uuid.UUID) reorder.Slot {
	for parent, members := range s {
		if pos, ok := members[entity]; ok {
			return reorder.Slot{Parent: parent, Index: pos}
		}
	}
	panic("entity not in any scope")
}

// move plans a reposition and applies it the way the store would: remove the
// entity, run the shifts, place the entity at its final slot.
func (s scopes) move(entity, dstParent uuid.UUID, dstIndex int) bool {
	cur := s.slotOf(entity)
	shifts, final, ok := reorder.Plan(cur, dstParent, dstIndex, len(s[dstParent]))
	if !ok {
		return false
	}

	delete(s[cur.Parent], entity)
	for _, sh := range shifts {
		for e, p := range s[sh.Parent] {
			if p >= sh.Lo && p <= sh.Hi {
				s[sh.Parent][e] = p + sh.Delta
			}
		}
	}
	if s[final.Parent] == nil {
		s[final.Parent] = map[uuid.UUID]int{}
	}
	s[final.Parent][entity] = final.Index
	return true
}

// order returns the entities of a scope sorted by position, failing the test
// if positions are not exactly {0..n-1}.
func (s scopes) order(t *testing.T, parent uuid.UUID) []uuid.UUID {
	t.Helper()

	members := s[parent]
	out := make([]uuid.UUID, len(members))
	seen := make([]bool, len(members))
	for e, p := range members {
		require.GreaterOrEqual(t, p, 0, "negative position in scope %s", parent)
		require.Less(t, p, len(members), "position gap or overflow in scope %s", parent)
		require.False(t, seen[p], "duplicate position %d in scope %s", p, parent)
		seen[p] = true
		out[p] = e
	}
	return out
}

func TestPlanSameScope(t *testing.T) {
	t.Parallel()

	col := uuid.New()
	a, b, c, d := uuid.New(), uuid.New(), uuid.New(), uuid.New()

	t.Run("move head down", func(t *testing.T) {
		t.Parallel()

		s := scopes{}
		s.add(col, a, b, c, d)

		require.True(t, s.move(a, col, 2))
		assert.Equal(t, []uuid.UUID{b, c, a, d}, s.order(t, col))
	})

	t.Run("move tail up", func(t *testing.T) {
		t.Parallel()

		s := scopes{}
		s.add(col, a, b, c, d)

		require.True(t, s.move(d, col, 0))
		assert.Equal(t, []uuid.UUID{d, a, b, c}, s.order(t, col))
	})

	t.Run("adjacent swap", func(t *testing.T) {
		t.Parallel()

		s := scopes{}
		s.add(col, a, b, c, d)

		require.True(t, s.move(b, col, 2))
		assert.Equal(t, []uuid.UUID{a, c, b, d}, s.order(t, col))
	})
}

func TestPlanCrossScope(t *testing.T) {
	t.Parallel()

	x, y := uuid.New(), uuid.New()
	a, b, c, d, e := uuid.New(), uuid.New(), uuid.New(), uuid.New(), uuid.New()

	t.Run("into middle", func(t *testing.T) {
		t.Parallel()

		s := scopes{}
		s.add(x, a, b, c)
		s.add(y, d, e)

		require.True(t, s.move(b, y, 1))
		assert.Equal(t, []uuid.UUID{a, c}, s.order(t, x))
		assert.Equal(t, []uuid.UUID{d, b, e}, s.order(t, y))
	})

	t.Run("into empty scope", func(t *testing.T) {
		t.Parallel()

		s := scopes{}
		s.add(x, a, b)
		s.add(y)

		require.True(t, s.move(a, y, 0))
		assert.Equal(t, []uuid.UUID{b}, s.order(t, x))
		assert.Equal(t, []uuid.UUID{a}, s.order(t, y))
	})

	t.Run("append at end", func(t *testing.T) {
		t.Parallel()

		s := scopes{}
		s.add(x, a, b)
		s.add(y, c, d)

		require.True(t, s.move(a, y, 2))
		assert.Equal(t, []uuid.UUID{b}, s.order(t, x))
		assert.Equal(t, []uuid.UUID{c, d, a}, s.order(t, y))
	})
}

func TestPlanNoOp(t *testing.T) {
	t.Parallel()

	col := uuid.New()
	cur := reorder.Slot{Parent: col, Index: 1}

	shifts, final, ok := reorder.Plan(cur, col, 1, 3)
	assert.False(t, ok, "moving onto the current slot must be a no-op")
	assert.Nil(t, shifts)
	assert.Equal(t, cur, final)
}

func TestPlanClamping(t *testing.T) {
	t.Parallel()

	col, other := uuid.New(), uuid.New()

	t.Run("same scope beyond end", func(t *testing.T) {
		t.Parallel()

		_, final, ok := reorder.Plan(reorder.Slot{Parent: col, Index: 0}, col, 99, 3)
		require.True(t, ok)
		assert.Equal(t, 2, final.Index)
	})

	t.Run("same scope clamp makes no-op", func(t *testing.T) {
		t.Parallel()

		_, _, ok := reorder.Plan(reorder.Slot{Parent: col, Index: 2}, col, 99, 3)
		assert.False(t, ok, "last element moved past the end stays put")
	})

	t.Run("negative index", func(t *testing.T) {
		t.Parallel()

		_, final, ok := reorder.Plan(reorder.Slot{Parent: col, Index: 2}, col, -5, 3)
		require.True(t, ok)
		assert.Equal(t, 0, final.Index)
	})

	t.Run("cross scope beyond end", func(t *testing.T) {
		t.Parallel()

		_, final, ok := reorder.Plan(reorder.Slot{Parent: col, Index: 0}, other, 99, 2)
		require.True(t, ok)
		assert.Equal(t, 2, final.Index, "cross-scope index clamps to sibling count")
	})

	t.Run("single element same scope", func(t *testing.T) {
		t.Parallel()

		_, _, ok := reorder.Plan(reorder.Slot{Parent: col, Index: 0}, col, 5, 1)
		assert.False(t, ok)
	})
}

// TestPlanDensityRandom drives a long random move sequence across three
// scopes and checks after every step that each scope's positions are exactly
// {0..n-1} with no duplicates.
func TestPlanDensityRandom(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(42))

	parents := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}
	var entities []uuid.UUID
	s := scopes{}
	for _, p := range parents {
		members := make([]uuid.UUID, 5)
		for i := range members {
			members[i] = uuid.New()
		}
		s.add(p, members...)
		entities = append(entities, members...)
	}

	for i := 0; i < 500; i++ {
		entity := entities[rng.Intn(len(entities))]
		dst := parents[rng.Intn(len(parents))]
		idx := rng.Intn(8) - 1 // deliberately includes -1 and out-of-range

		s.move(entity, dst, idx)

		total := 0
		for _, p := range parents {
			total += len(s.order(t, p))
		}
		require.Equal(t, len(entities), total, "entities must never be lost or duplicated")
	}
}

func TestRemoval(t *testing.T) {
	t.Parallel()

	col := uuid.New()
	sh := reorder.Removal(reorder.Slot{Parent: col, Index: 2})

	assert.Equal(t, col, sh.Parent)
	assert.Equal(t, 3, sh.Lo)
	assert.Equal(t, reorder.Unbounded, sh.Hi)
	assert.Equal(t, -1, sh.Delta)
}
