package solver

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIterationLimiterExhaustsPastMax(t *testing.T) {
	l := IterationLimiter{Max: 10}
	stats := Stats{Iterations: 11}
	assert.True(t, l.Exhausted(&stats))

	stats.Iterations = 10
	assert.False(t, l.Exhausted(&stats))
}

func TestIterationLimiterZeroMeansUnlimited(t *testing.T) {
	l := IterationLimiter{}
	stats := Stats{Iterations: 1 << 20}
	assert.False(t, l.Exhausted(&stats))
}

func TestTimeLimiterExhaustsPastDeadline(t *testing.T) {
	l := TimeLimiter{Deadline: time.Now().Add(-time.Second)}
	assert.True(t, l.Exhausted(&Stats{}))

	l = TimeLimiter{Deadline: time.Now().Add(time.Hour)}
	assert.False(t, l.Exhausted(&Stats{}))
}

func TestTimeLimiterZeroMeansUnlimited(t *testing.T) {
	var l TimeLimiter
	assert.False(t, l.Exhausted(&Stats{}))
}

// TestAnyOfExhaustsWhenAnyConstituentDoes confirms AnyOf's composition
// semantics: exhausted as soon as the first limiter in the list is, even
// when later limiters in the list would report otherwise.
func TestAnyOfExhaustsWhenAnyConstituentDoes(t *testing.T) {
	combined := AnyOf(
		IterationLimiter{Max: 5},
		TimeLimiter{Deadline: time.Now().Add(time.Hour)},
	)
	assert.True(t, combined.Exhausted(&Stats{Iterations: 6}))
	assert.False(t, combined.Exhausted(&Stats{Iterations: 1}))
}

func TestAnyOfWithNoLimitersNeverExhausts(t *testing.T) {
	combined := AnyOf()
	assert.False(t, combined.Exhausted(&Stats{Iterations: 1 << 20}))
}
