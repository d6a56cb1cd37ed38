package dd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrueFalseComplement(t *testing.T) {
	pr := NewProvider(4)
	all := pr.True()
	assert.False(t, all.IsFalse())
	assert.True(t, all.Not().IsFalse())
	assert.True(t, pr.False().Not().Contains(0))
}

func TestPointAndIntersect(t *testing.T) {
	pr := NewProvider(4)
	p3 := pr.Point(3)
	p5 := pr.Point(5)
	inter := p3.And(p5)
	assert.True(t, inter.IsFalse())

	notP3 := pr.NotPoint(3)
	assert.False(t, notP3.Contains(3))
	for k := uint64(0); k < 16; k++ {
		if k != 3 {
			assert.True(t, notP3.Contains(k))
		}
	}
}

func TestFindSingletonAndMultiple(t *testing.T) {
	pr := NewProvider(4)
	single := pr.Point(7)
	res := single.Find(0)
	require.Equal(t, Singleton, res.Kind)
	assert.EqualValues(t, 7, res.Value)

	empty := pr.False()
	res = empty.Find(0)
	assert.Equal(t, Empty, res.Kind)

	multi := pr.NotPoint(7)
	res = multi.Find(2)
	require.Equal(t, Multiple, res.Kind)
	assert.EqualValues(t, 2, res.Value)
}

func TestCompareEqAndULE(t *testing.T) {
	pr := NewProvider(3) // ℤ/8
	// x + 1 == 3  <=>  x == 2
	eq := pr.Compare(1, 1, 0, 3, CompareEq)
	for k := uint64(0); k < 8; k++ {
		assert.Equal(t, k == 2, eq.Contains(k), "k=%d", k)
	}

	// x <= 5 (a=1,b=0,c=0,d=5)
	ule := pr.Compare(1, 0, 0, 5, CompareULE)
	for k := uint64(0); k < 8; k++ {
		assert.Equal(t, k <= 5, ule.Contains(k), "k=%d", k)
	}
}

func TestCompareWideWidthPanics(t *testing.T) {
	pr := NewProvider(32)
	assert.Panics(t, func() {
		pr.Compare(1, 0, 0, 1, CompareEq)
	})
}
