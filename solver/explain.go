package solver

import "github.com/crillab/bvsat/poly"

// superposeOnVar is the polynomial superposition explainer (spec.md §4.9):
// given a currently-true equality c1: p=0 and a currently-false equality
// c2: q=0 in the core, both mentioning v, it computes the resolvent r =
// b*p - a*q eliminating v's leading term and, if r is still false,
// replaces c2 by r in the core. When no such pair exists it falls through
// to the forbidden-intervals explainer instead.
func (s *Solver) superposeOnVar(v PVar) {
	eqTrue, eqFalse, ok := s.findSuperpositionPair(v)
	if !ok {
		s.explainByForbiddenIntervals(v)
		return
	}
	s.stats.SuperpositionSteps++

	c1 := s.cs.Constraint(eqTrue.ID)
	c2 := s.cs.Constraint(eqFalse.ID)
	m := s.polyEnv.Get(c1.width)

	resolved, ok := m.Resolve(c1.p, c2.p, poly.Var(v))
	if !ok {
		s.explainByForbiddenIntervals(v)
		return
	}

	newSC := s.cs.Eq(s.conflictLevelOf(eqTrue, eqFalse), c1.width, resolved)
	if s.signedConstraintHolds(newSC) {
		// r = 0 holds under the current assignment, so it cannot stand in
		// for c2 in the conflict.
		s.explainByForbiddenIntervals(v)
		return
	}
	s.cs.RegisterJoinedDep(newSC, eqTrue, eqFalse)

	s.conflict.replace(eqFalse, newSC)

	newC := s.cs.Constraint(newSC.ID)
	stillHasV := false
	for _, fv := range newC.freeVars {
		if fv == v {
			stillHasV = true
			break
		}
	}
	if !stillHasV {
		s.conflict.hasVar = false
	}
}

// findSuperpositionPair looks within the core for one true equality and one
// false equality (positive signed constraints p=0, q=0), both mentioning v,
// suitable for superposition.
func (s *Solver) findSuperpositionPair(v PVar) (trueEq, falseEq SignedConstraint, ok bool) {
	var truthy, falsy []SignedConstraint
	for _, sc := range s.conflict.core {
		c := s.cs.Constraint(sc.ID)
		if c.kind != KindEq || sc.Sign {
			continue
		}
		mentionsV := false
		for _, fv := range c.freeVars {
			if fv == v {
				mentionsV = true
				break
			}
		}
		if !mentionsV {
			continue
		}
		if s.signedConstraintHolds(sc) {
			truthy = append(truthy, sc)
		} else {
			falsy = append(falsy, sc)
		}
	}
	if len(truthy) == 0 || len(falsy) == 0 {
		return SignedConstraint{}, SignedConstraint{}, false
	}
	return truthy[0], falsy[0], true
}

// signedConstraintHolds evaluates sc under the current (possibly partial)
// assignment; only meaningful once all its free variables are assigned,
// which holds for any constraint eligible for superposition at this point
// in the driver (it was narrowed to ground when its value became known).
func (s *Solver) signedConstraintHolds(sc SignedConstraint) bool {
	c := s.cs.Constraint(sc.ID)
	assign := s.buildAssignment(c)
	if len(assign) < len(c.freeVars) {
		return false
	}
	truth := s.evalConstraint(c, assign)
	return truth != sc.Sign
}

// conflictLevelOf picks the storage level for a derived constraint: the
// max of its two premises' levels, so it survives exactly as long as both.
func (s *Solver) conflictLevelOf(a, b SignedConstraint) int {
	la := s.cs.Constraint(a.ID).level
	lb := s.cs.Constraint(b.ID).level
	if la > lb {
		return la
	}
	return lb
}
