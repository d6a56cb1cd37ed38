package solver_test

import (
	"math/rand"
	"testing"

	"github.com/crillab/bvsat/poly"
	"github.com/crillab/bvsat/solver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// randULE builds a small random unilinear ule constraint coeff*var+const <=
// coeff2*var2+const2 over the given number of variables and width.
func randULE(rng *rand.Rand, m poly.Manager, vars []poly.Var, width uint) (p, q poly.Poly) {
	mod := uint64(1) << width
	mkSide := func() poly.Poly {
		v := vars[rng.Intn(len(vars))]
		coeff := uint64(rng.Intn(int(mod)))
		constant := uint64(rng.Intn(int(mod)))
		return m.Add(m.Mul(m.MkVal(coeff), m.MkVar(v)), m.MkVal(constant))
	}
	return mkSide(), mkSide()
}

// TestRandomULEConjunctionsSatisfyOriginalConstraints is spec.md §8's first
// property-based test: for random conjunctions of ule-constraints of small
// width, whenever check_sat reports sat, every original constraint must
// evaluate true under the returned assignment (checked via the polynomial
// provider's SubstVal, per the spec's own wording).
func TestRandomULEConjunctionsSatisfyOriginalConstraints(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	const width = 3
	const nbVars = 3
	const nbConstraints = 4
	const nbTrials = 30

	for trial := 0; trial < nbTrials; trial++ {
		sv := solver.New()
		m := sv.Poly(width)
		vars := make([]poly.Var, nbVars)
		pvars := make([]solver.PVar, nbVars)
		for i := 0; i < nbVars; i++ {
			pvars[i] = sv.AddVar(width)
			vars[i] = sv.Var(pvars[i])
		}

		type side struct{ p, q poly.Poly }
		sides := make([]side, nbConstraints)
		for i := 0; i < nbConstraints; i++ {
			p, q := randULE(rng, m, vars, width)
			sides[i] = side{p, q}
			sv.AddULE(width, p, q, solver.DepTag(i))
		}

		if sv.CheckSat() != solver.Sat {
			continue
		}

		assign := make(map[poly.Var]uint64, nbVars)
		for i, pv := range pvars {
			val, ok := sv.Value(pv)
			require.True(t, ok)
			assign[vars[i]] = uint64(val)
		}

		for _, sd := range sides {
			lv, lok := m.Val(m.SubstVal(sd.p, assign))
			rv, rok := m.Val(m.SubstVal(sd.q, assign))
			require.True(t, lok)
			require.True(t, rok)
			assert.LessOrEqualf(t, lv, rv, "trial %d: model violates an asserted ule constraint", trial)
		}
	}
}

// TestPushAddPopBisimilarToReplayingSurvivors is spec.md §8's second
// property-based test: a random push/add/pop sequence must leave the solver
// bisimilar to a fresh solver replaying only the additions that ended up
// surviving every pop (observed here via final satisfiability and, when
// sat, satisfaction of the surviving constraints).
func TestPushAddPopBisimilarToReplayingSurvivors(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	const width = 3
	const nbVars = 2
	const nbTrials = 20
	const nbSteps = 12

	for trial := 0; trial < nbTrials; trial++ {
		sv := solver.New()
		m := sv.Poly(width)
		vars := make([]poly.Var, nbVars)
		pvars := make([]solver.PVar, nbVars)
		for i := 0; i < nbVars; i++ {
			pvars[i] = sv.AddVar(width)
			vars[i] = sv.Var(pvars[i])
		}

		type assertion struct{ p, q poly.Poly }
		var scopes [][]assertion // scopes[0] is the base scope, always surviving
		scopes = append(scopes, nil)

		for step := 0; step < nbSteps; step++ {
			switch {
			case rng.Intn(3) == 0 && len(scopes) > 1:
				scopes = scopes[:len(scopes)-1]
				sv.Pop(1)
			case rng.Intn(4) == 0:
				scopes = append(scopes, nil)
				sv.Push()
			default:
				p, q := randULE(rng, m, vars, width)
				sv.AddULE(width, p, q)
				top := len(scopes) - 1
				scopes[top] = append(scopes[top], assertion{p, q})
			}
		}

		gotStatus := sv.CheckSat()

		replay := solver.New()
		for i := 0; i < nbVars; i++ {
			replay.AddVar(width)
		}
		var survivors []assertion
		for _, scope := range scopes {
			survivors = append(survivors, scope...)
		}
		for _, a := range survivors {
			replay.AddULE(width, a.p, a.q)
		}
		wantStatus := replay.CheckSat()

		require.Equalf(t, wantStatus, gotStatus, "trial %d: push/add/pop diverged from replaying survivors", trial)

		if gotStatus != solver.Sat {
			continue
		}
		assign := make(map[poly.Var]uint64, nbVars)
		for i, pv := range pvars {
			val, ok := sv.Value(pv)
			require.True(t, ok)
			assign[vars[i]] = uint64(val)
		}
		for _, a := range survivors {
			lv, lok := m.Val(m.SubstVal(a.p, assign))
			rv, rok := m.Val(m.SubstVal(a.q, assign))
			require.True(t, lok)
			require.True(t, rok)
			assert.LessOrEqualf(t, lv, rv, "trial %d: surviving constraint violated after pop", trial)
		}
	}
}
