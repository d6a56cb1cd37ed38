package solver

import (
	"testing"

	"github.com/crillab/bvsat/poly"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestBuildEqualityPredicateMatchesEnumeration confirms the general-degree
// equality predicate accepts exactly the values that make p(x)==0 hold,
// for a non-unilinear polynomial (spec.md §8 scenario 6's shape: degree 4
// in a single variable). Equalities never use the dd.Compare fast path,
// which serves only ule constraints.
func TestBuildEqualityPredicateMatchesEnumeration(t *testing.T) {
	s := New()
	width := Width(2)
	m := s.polyEnv.Get(width)

	x := poly.Var(0)
	xv := m.MkVar(x)
	xx := m.Mul(xv, xv)
	// x*x*(x*x-1)+1, which is 1 for every x mod 4 (see search_test.go's
	// scenario 6) — the predicate must therefore be False everywhere.
	p := m.Add(m.Mul(xx, m.Add(xx, m.Neg(m.MkVal(1)))), m.MkVal(1))

	pred := s.buildEqualityPredicate(width, p, x)
	for k := uint64(0); k < 4; k++ {
		assert.False(t, pred.Contains(k))
	}
}

// TestBuildEqualityPredicateWithSolutions confirms a satisfiable quadratic
// narrows to exactly its solution set.
func TestBuildEqualityPredicateWithSolutions(t *testing.T) {
	s := New()
	width := Width(2)
	m := s.polyEnv.Get(width)
	x := poly.Var(0)

	// x*x - 1 = 0 mod 4: x in {1, 3} (1*1=1, 3*3=9 mod4=1).
	xv := m.MkVar(x)
	p := m.Add(m.Mul(xv, xv), m.Neg(m.MkVal(1)))

	pred := s.buildEqualityPredicate(width, p, x)
	assert.False(t, pred.Contains(0))
	assert.True(t, pred.Contains(1))
	assert.False(t, pred.Contains(2))
	assert.True(t, pred.Contains(3))
}

// TestCoeffOfExtractsLinearShape confirms coeffOf's fast-path extraction
// for a genuinely linear polynomial, and its ok=false rejection for a
// higher-degree one.
func TestCoeffOfExtractsLinearShape(t *testing.T) {
	s := New()
	width := Width(4)
	m := s.polyEnv.Get(width)
	x := poly.Var(0)

	linear := m.Add(m.Mul(m.MkVal(3), m.MkVar(x)), m.MkVal(5))
	a, b, ok := coeffOf(m, linear, x)
	require.True(t, ok)
	assert.EqualValues(t, 3, a)
	assert.EqualValues(t, 5, b)

	quadratic := m.Mul(m.MkVar(x), m.MkVar(x))
	_, _, ok = coeffOf(m, quadratic, x)
	assert.False(t, ok)
}

// TestNarrowPropagatesSingletonValue exercises narrow's main dispatch: once
// a unary equality constraint's viable set collapses to one value, narrow
// must propagate it via propagateInt rather than merely refining.
func TestNarrowPropagatesSingletonValue(t *testing.T) {
	s := New()
	v := s.AddVar(2)
	m := s.Poly(2)

	// v + 1 = 0 mod 4 -> v = 3, a unique solution.
	sc := s.cs.Eq(0, 2, m.Add(m.MkVar(s.Var(v)), m.MkVal(1)))
	s.registerDeps(sc, nil)
	s.assertSigned(sc)

	require.True(t, s.propagate())
	val, ok := s.intVars.value[v], s.intVars.isAssigned(v)
	require.True(t, ok)
	assert.EqualValues(t, 3, val)
}

// TestNarrowConflictsOnGroundFalseConstraint confirms narrow raises a
// constraint-level conflict when a fully-assigned constraint evaluates to
// the opposite of its asserted sign.
func TestNarrowConflictsOnGroundFalseConstraint(t *testing.T) {
	s := New()
	v := s.AddVar(2)
	m := s.Poly(2)

	s.doAssignInt(v, 0, JustDecision)
	sc := s.cs.Eq(0, 2, m.Add(m.MkVar(s.Var(v)), m.MkVal(1))) // v+1=0, v=0 -> false

	ok := s.narrow(sc)
	assert.False(t, ok)
	assert.False(t, s.conflict.IsEmpty())
}
