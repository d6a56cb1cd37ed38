package poly

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddMulWrap(t *testing.T) {
	m := NewManager(4) // ℤ/16
	x := m.MkVar(1)
	c3 := m.MkVal(3)
	c5 := m.MkVal(5)

	sum := m.Add(c3, c5)
	val, ok := m.Val(sum)
	require.True(t, ok)
	assert.EqualValues(t, 8, val)

	wrapped := m.Add(m.MkVal(14), m.MkVal(5)) // 19 mod 16 == 3
	val, ok = m.Val(wrapped)
	require.True(t, ok)
	assert.EqualValues(t, 3, val)

	poly2x := m.Add(x, x)
	coeff, v, constant, ok := m.IsUnilinear(poly2x)
	require.True(t, ok)
	assert.EqualValues(t, 2, coeff)
	assert.EqualValues(t, 1, v)
	assert.EqualValues(t, 0, constant)
}

func TestSubstValFullyGrounds(t *testing.T) {
	m := NewManager(8)
	x, y := m.MkVar(1), m.MkVar(2)
	// p = 3*x*y + 7
	p := m.Add(m.Mul(m.MkVal(3), m.Mul(x, y)), m.MkVal(7))
	out := m.SubstVal(p, map[Var]uint64{1: 5, 2: 6})
	val, ok := m.Val(out)
	require.True(t, ok)
	assert.EqualValues(t, (3*5*6+7)&0xff, val)
}

func TestFactorRecoversLinearForm(t *testing.T) {
	m := NewManager(6)
	x := m.MkVar(1)
	p := m.Add(m.Mul(m.MkVal(9), x), m.MkVal(4))
	q, rem, ok := m.Factor(p, 1, 1)
	require.True(t, ok)
	val, ok := m.Val(q)
	require.True(t, ok)
	assert.EqualValues(t, 9, val)
	val, ok = m.Val(rem)
	require.True(t, ok)
	assert.EqualValues(t, 4, val)
}

func TestTryDivRequiresOddCoefficient(t *testing.T) {
	m := NewManager(5)
	p := m.MkVal(6)
	_, ok := m.TryDiv(p, 4)
	assert.False(t, ok)

	q, ok := m.TryDiv(p, 3)
	require.True(t, ok)
	// 3 * inverse(3) == 1 mod 32, so dividing 6 by 3 should give back 2.
	val, ok := m.Val(q)
	require.True(t, ok)
	assert.EqualValues(t, 2, val)
}

func TestResolveEliminatesVariable(t *testing.T) {
	m := NewManager(8)
	x := m.MkVar(1)
	// p: 2x + 3 = 0 ; q: 5x + 1 = 0
	p := m.Add(m.Mul(m.MkVal(2), x), m.MkVal(3))
	q := m.Add(m.Mul(m.MkVal(5), x), m.MkVal(1))
	r, ok := m.Resolve(p, q, 1)
	require.True(t, ok)
	assert.Empty(t, m.FreeVars(r))
}
