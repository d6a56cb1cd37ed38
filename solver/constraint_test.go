package solver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore() (*ConstraintStore, *PolyEnv) {
	polyEnv := NewPolyEnv()
	ddEnv := NewDDEnv()
	boolSt := newBoolState()
	depMgr := NewDepManager()
	return newConstraintStore(polyEnv, ddEnv, boolSt, depMgr), polyEnv
}

// TestInternDeduplicatesEqualPolynomials is spec.md §4.1's de-duplication
// requirement: interning the same equality twice must yield the same
// ConstraintID and store only one constraint.
func TestInternDeduplicatesEqualPolynomials(t *testing.T) {
	cs, polyEnv := newTestStore()
	m := polyEnv.Get(4)
	p := m.Add(m.MkVar(0), m.MkVal(1))

	sc1 := cs.Eq(0, 4, p)
	sc2 := cs.Eq(0, 4, p)

	assert.Equal(t, sc1.ID, sc2.ID)
	assert.Equal(t, 1, len(cs.constraints))
}

// TestEqDiseqShareConstraintOppositeSign confirms AddDiseq's Negate() on an
// already-interned Eq constraint refers to the very same ConstraintID with
// a flipped sign, per spec.md §4.1.
func TestEqDiseqShareConstraintOppositeSign(t *testing.T) {
	cs, polyEnv := newTestStore()
	m := polyEnv.Get(4)
	p := m.Add(m.MkVar(0), m.MkVal(1))

	sc := cs.Eq(0, 4, p)
	diseq := cs.Eq(0, 4, p).Negate()
	require.Equal(t, sc.ID, diseq.ID)
	assert.False(t, sc.Sign)
	assert.True(t, diseq.Sign)
}

// TestULTReducesToNegatedULE exercises spec.md §4.1's a<b ≡ ¬(b≤a)
// reduction: the underlying constraint must be the ULE(q,p) one, negated.
func TestULTReducesToNegatedULE(t *testing.T) {
	cs, polyEnv := newTestStore()
	m := polyEnv.Get(4)
	p := m.MkVar(0)
	q := m.MkVar(1)

	ult := cs.ULT(0, 4, p, q)
	ule := cs.ULE(0, 4, q, p)

	require.Equal(t, ule.ID, ult.ID)
	assert.True(t, ult.Sign)
	assert.False(t, ule.Sign)
}

// TestLookupRoundTripsSign confirms Lookup(l) reconstructs the same
// SignedConstraint that boolVar-ed literal was built to represent, for
// both polarities of the literal — spec.md §8 invariant 5.
func TestLookupRoundTripsSign(t *testing.T) {
	cs, polyEnv := newTestStore()
	m := polyEnv.Get(4)
	p := m.MkVar(0)

	sc := cs.Eq(0, 4, p)
	c := cs.Constraint(sc.ID)

	posLookup := cs.Lookup(mkSignedLit(c.boolVar, false))
	negLookup := cs.Lookup(mkSignedLit(c.boolVar, true))

	assert.Equal(t, sc.ID, posLookup.ID)
	assert.False(t, posLookup.Sign)
	assert.Equal(t, sc.ID, negLookup.ID)
	assert.True(t, negLookup.Sign)
}

// TestReleaseLevelFreesKeyButKeepsConstraint confirms release_level drops
// the constraint's key from the dedup table (so a future re-assertion
// interns a fresh constraint) without reusing any index, per spec.md
// §4.1's "arena, typed indices, never reused" Design Note.
func TestReleaseLevelFreesKeyButKeepsConstraint(t *testing.T) {
	cs, polyEnv := newTestStore()
	m := polyEnv.Get(4)
	p := m.Add(m.MkVar(0), m.MkVal(1))

	sc1 := cs.Eq(1, 4, p)
	cs.ReleaseLevel(1)
	sc2 := cs.Eq(1, 4, p)

	assert.NotEqual(t, sc1.ID, sc2.ID)
}

// TestRegisterExternalJoinsIntoDepOf confirms multiple RegisterExternal
// calls on the same constraint accumulate into a single joined dependency
// node, rather than overwriting one another.
func TestRegisterExternalJoinsIntoDepOf(t *testing.T) {
	cs, polyEnv := newTestStore()
	m := polyEnv.Get(4)
	sc := cs.Eq(0, 4, m.MkVar(0))

	cs.RegisterExternal(sc, DepTag(7))
	cs.RegisterExternal(sc, DepTag(9))

	got := Linearize(cs.DepOf(sc.ID))
	assert.ElementsMatch(t, []DepTag{7, 9}, got)
}
