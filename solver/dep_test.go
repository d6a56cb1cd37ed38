package solver

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDepManagerInterningAndJoinCommutativity(t *testing.T) {
	m := NewDepManager()
	a := m.Leaf(1)
	aAgain := m.Leaf(1)
	require.Same(t, a, aAgain)

	b := m.Leaf(2)
	ab := m.Join(a, b)
	ba := m.Join(b, a)
	assert.Same(t, ab, ba)
}

func TestDepManagerLinearizeDedups(t *testing.T) {
	m := NewDepManager()
	a, b, c := m.Leaf(10), m.Leaf(20), m.Leaf(30)
	ab := m.Join(a, b)
	abc := m.Join(ab, c)
	abAgain := m.Join(b, a)
	full := m.Join(abc, abAgain)

	tags := Linearize(full)
	sort.Slice(tags, func(i, j int) bool { return tags[i] < tags[j] })
	assert.Equal(t, []DepTag{10, 20, 30}, tags)
}

func TestDepManagerJoinWithNil(t *testing.T) {
	m := NewDepManager()
	a := m.Leaf(1)
	assert.Same(t, a, m.Join(a, nil))
	assert.Same(t, a, m.Join(nil, a))
}
