package solver

import (
	"testing"

	"github.com/crillab/bvsat/dd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestViableSetPushStartsFullDomain is spec.md §4.2's push(v): a freshly
// pushed PVar's viable set must be the entire ℤ/2^w domain.
func TestViableSetPushStartsFullDomain(t *testing.T) {
	ddEnv := NewDDEnv()
	vs := newViableSet(ddEnv)
	vs.push(2)

	for k := uint64(0); k < 4; k++ {
		assert.True(t, vs.IsViable(0, Value(k)))
	}
}

// TestIntersectNarrowsAndCanEmpty exercises Intersect's two outcomes: a
// non-emptying refinement returns true and narrows membership; a
// refinement to the empty set returns false.
func TestIntersectNarrowsAndCanEmpty(t *testing.T) {
	ddEnv := NewDDEnv()
	vs := newViableSet(ddEnv)
	vs.push(2)
	trail := newTrail()

	ok := vs.Intersect(trail, 0, ddEnv.Get(2).NotPoint(3))
	require.True(t, ok)
	assert.False(t, vs.IsViable(0, 3))
	assert.True(t, vs.IsViable(0, 0))

	// Narrow down to exactly {0}, then intersect with "not 0" to empty it.
	require.True(t, vs.Intersect(trail, 0, ddEnv.Get(2).Point(0)))
	ok = vs.Intersect(trail, 0, ddEnv.Get(2).NotPoint(0))
	assert.False(t, ok)
}

// TestFindReportsEmptySingletonMultiple exercises the three FindKind
// outcomes Decide and Narrow both dispatch on.
func TestFindReportsEmptySingletonMultiple(t *testing.T) {
	ddEnv := NewDDEnv()
	vs := newViableSet(ddEnv)
	vs.push(2)
	trail := newTrail()

	res := vs.Find(0, 0)
	assert.Equal(t, dd.Multiple, res.Kind)

	require.True(t, vs.Intersect(trail, 0, ddEnv.Get(2).Point(2)))
	res = vs.Find(0, 0)
	assert.Equal(t, dd.Singleton, res.Kind)
	assert.EqualValues(t, 2, res.Value)

	require.False(t, vs.Intersect(trail, 0, ddEnv.Get(2).NotPoint(2)))
	res = vs.Find(0, 0)
	assert.Equal(t, dd.Empty, res.Kind)
}

// TestPopViableRestoresPriorPredicate confirms popViable (as driven by
// trail undo) restores exactly the snapshot taken before the Intersect
// call that narrowed it, per spec.md §4.3's pop_levels contract.
func TestPopViableRestoresPriorPredicate(t *testing.T) {
	ddEnv := NewDDEnv()
	vs := newViableSet(ddEnv)
	vs.push(2)
	trail := newTrail()

	full := vs.pred[0]
	vs.Intersect(trail, 0, ddEnv.Get(2).Point(1))
	assert.False(t, vs.IsViable(0, 0))

	vs.popViable(0, full)
	assert.True(t, vs.IsViable(0, 0))
}

// TestCjustSnapshotIsDefensiveCopy confirms CjustSnapshot returns a copy
// that later mutation of the live cjust slice does not retroactively
// change, per the Open Question decision recorded in DESIGN.md.
func TestCjustSnapshotIsDefensiveCopy(t *testing.T) {
	ddEnv := NewDDEnv()
	vs := newViableSet(ddEnv)
	vs.push(2)
	trail := newTrail()

	sc1 := SignedConstraint{ID: 1}
	vs.AppendCjust(trail, 0, sc1)
	snap := vs.CjustSnapshot(0)
	require.Len(t, snap, 1)

	sc2 := SignedConstraint{ID: 2}
	vs.AppendCjust(trail, 0, sc2)
	assert.Len(t, snap, 1, "snapshot must not observe later appends")
	assert.Len(t, vs.cjust[0], 2)
}
