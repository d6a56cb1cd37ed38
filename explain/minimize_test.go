package explain_test

import (
	"testing"

	"github.com/crillab/bvsat/explain"
	"github.com/crillab/bvsat/solver"
	"github.com/stretchr/testify/assert"
)

// unsatIfContainsAll simulates a problem that is unsat exactly when every
// tag in need is present. With need {1, 2} and core {1, 2, 3, 4}, tags 3
// and 4 are red herrings, irrelevant to the conflict, and the minimal
// unsatisfiable subset should be exactly {1, 2}.
func unsatIfContainsAll(need ...solver.DepTag) func([]solver.DepTag) bool {
	return func(tags []solver.DepTag) bool {
		have := make(map[solver.DepTag]bool)
		for _, t := range tags {
			have[t] = true
		}
		for _, n := range need {
			if !have[n] {
				return false
			}
		}
		return true
	}
}

func TestMinimizeDropsIrrelevantTags(t *testing.T) {
	check := unsatIfContainsAll(1, 2)
	core := []solver.DepTag{1, 2, 3, 4}
	got := explain.Minimize(check, core)
	assert.ElementsMatch(t, []solver.DepTag{1, 2}, got)
}

func TestMinimizeEmptyCoreIsNotUnsat(t *testing.T) {
	check := func(tags []solver.DepTag) bool { return len(tags) > 0 }
	got := explain.Minimize(check, nil)
	assert.Nil(t, got)
}

func TestMinimizeAlreadyMinimal(t *testing.T) {
	check := unsatIfContainsAll(1)
	core := []solver.DepTag{1}
	got := explain.Minimize(check, core)
	assert.Equal(t, []solver.DepTag{1}, got)
}
