// Package reorder plans position reindexing for ordered collections.
//
// Columns on a board and cards in a column carry a dense zero-based position
// within their parent scope: the positions of a parent's n children are
// exactly {0..n-1}. Moving one entity shifts a contiguous range of its
// siblings by one so that the invariant holds afterwards. The planning here
// is pure; the postgres store executes a plan's shifts inside a single
// serializable transaction.
package reorder

import (
	"math"

	"github.com/google/uuid"
)

// Unbounded marks a shift range with no upper limit ("every sibling at or
// above Lo").
const Unbounded = math.MaxInt

// Slot is an entity's place in the ordering: its parent scope and its index
// within that scope.
type Slot struct {
	Parent uuid.UUID
	Index  int
}

// Shift instructs the store to add Delta to the position of every sibling of
// scope Parent whose position lies in [Lo, Hi], both bounds inclusive.
type Shift struct {
	Parent uuid.UUID
	Lo     int
	Hi     int
	Delta  int
}

// Plan computes the sibling shifts required to move one entity from cur to
// index dstIndex under dstParent.
//
// dstCount is the number of entities currently in the destination scope,
// counting the moved entity itself when the destination is its current
// scope. The requested index is clamped to the valid range rather than
// rejected: drag-and-drop clients routinely report an index one past the end
// of a list mid-mutation, and last-write-wins reconciliation expects the
// server to settle on a canonical slot.
//
// The returned Slot is where the entity ends up. ok is false when the move
// is a no-op (already in place); callers must then perform no writes.
func Plan(cur Slot, dstParent uuid.UUID, dstIndex, dstCount int) (shifts []Shift, final Slot, ok bool) {
	if dstIndex < 0 {
		dstIndex = 0
	}

	if dstParent == cur.Parent {
		// Same scope: the entity occupies one of the dstCount slots already,
		// so the highest reachable index is dstCount-1.
		if max := dstCount - 1; dstIndex > max {
			dstIndex = max
		}
		if dstIndex < 0 {
			dstIndex = 0
		}

		final = Slot{Parent: cur.Parent, Index: dstIndex}
		if dstIndex == cur.Index {
			return nil, final, false
		}

		if dstIndex > cur.Index {
			// Moving down: siblings in (cur, dst] step up one slot.
			shifts = []Shift{{Parent: cur.Parent, Lo: cur.Index + 1, Hi: dstIndex, Delta: -1}}
		} else {
			// Moving up: siblings in [dst, cur) step down one slot.
			shifts = []Shift{{Parent: cur.Parent, Lo: dstIndex, Hi: cur.Index - 1, Delta: +1}}
		}
		return shifts, final, true
	}

	// Cross scope: the entity may land after the destination's last child.
	if dstIndex > dstCount {
		dstIndex = dstCount
	}

	final = Slot{Parent: dstParent, Index: dstIndex}
	shifts = []Shift{
		// Close the gap left behind in the old scope.
		{Parent: cur.Parent, Lo: cur.Index + 1, Hi: Unbounded, Delta: -1},
		// Open a slot in the destination scope.
		{Parent: dstParent, Lo: dstIndex, Hi: Unbounded, Delta: +1},
	}
	return shifts, final, true
}

// Removal returns the shift that closes the gap after deleting the entity at
// the given slot: every sibling above it steps down one.
func Removal(s Slot) Shift {
	return Shift{Parent: s.Parent, Lo: s.Index + 1, Hi: Unbounded, Delta: -1}
}
