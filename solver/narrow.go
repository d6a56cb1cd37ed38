package solver

import (
	"github.com/crillab/bvsat/dd"
	"github.com/crillab/bvsat/poly"
)

// narrowEnumCap bounds the width for which this reference engine's
// equality/inequality narrowing builds an exact predicate by direct
// enumeration over the sole remaining free variable, the same limitation
// (and for the same reason) as dd's own Compare — see DESIGN.md.
const narrowEnumCap = 24

// buildAssignment collects the concrete values of c's currently-assigned
// free variables, keyed by the poly.Var the polynomial provider uses.
func (s *Solver) buildAssignment(c *Constraint) map[poly.Var]uint64 {
	m := make(map[poly.Var]uint64)
	for _, v := range c.freeVars {
		if s.intVars.isAssigned(v) {
			m[poly.Var(v)] = uint64(s.intVars.value[v])
		}
	}
	return m
}

// unassignedFreeVar returns c's sole unassigned free variable and true, if
// exactly one exists.
func (s *Solver) unassignedFreeVar(c *Constraint) (PVar, bool) {
	var found PVar = -1
	count := 0
	for _, v := range c.freeVars {
		if !s.intVars.isAssigned(v) {
			found = v
			count++
		}
	}
	return found, count == 1
}

// evalConstraint evaluates the unsigned truth of c under a total
// assignment of its free variables.
func (s *Solver) evalConstraint(c *Constraint, assign map[poly.Var]uint64) bool {
	m := s.polyEnv.Get(c.width)
	switch c.kind {
	case KindEq:
		v, ok := m.Val(m.SubstVal(c.p, assign))
		return ok && v == 0
	case KindULE:
		lv, okL := m.Val(m.SubstVal(c.p, assign))
		rv, okR := m.Val(m.SubstVal(c.q, assign))
		return okL && okR && lv <= rv
	case KindViableMembership:
		return c.member.Contains(assign[poly.Var(c.vMember)])
	default:
		panic("solver: unknown constraint kind")
	}
}

// narrow is called once a constraint has at most one unassigned free
// variable (spec.md §4.5): ground constraints either hold or raise a
// conflict; unary constraints refine the viable set of their remaining
// variable and may propagate it to a singleton value.
func (s *Solver) narrow(sc SignedConstraint) bool {
	c := s.cs.Constraint(sc.ID)
	assign := s.buildAssignment(c)
	if len(assign) == len(c.freeVars) {
		truth := s.evalConstraint(c, assign)
		holds := truth != sc.Sign
		if !holds {
			s.conflict.SetConstraint(sc)
			return false
		}
		return true
	}
	x, isUnary := s.unassignedFreeVar(c)
	if !isUnary {
		return true // still >=2 free: caller should not have called narrow yet
	}
	pred := s.buildNarrowPredicate(c, sc, assign, x)
	ok := s.viable.Intersect(s.trail, x, pred)
	s.viable.AppendCjust(s.trail, x, sc)
	if !ok {
		s.conflict.SetVar(x)
		return false
	}
	switch res := s.viable.Find(x, s.intVars.value[x]); res.Kind {
	case dd.Empty:
		s.conflict.SetVar(x)
		return false
	case dd.Singleton:
		return s.propagateInt(x, Value(res.Value), sc)
	}
	return true
}

// buildNarrowPredicate dispatches per constraint kind (spec.md's
// "polymorphic constraint base class ... represent as a tagged variant"
// Design Note) to produce the predicate x must satisfy for sc to hold.
func (s *Solver) buildNarrowPredicate(c *Constraint, sc SignedConstraint, assign map[poly.Var]uint64, x PVar) dd.Predicate {
	m := s.polyEnv.Get(c.width)
	pr := s.ddEnv.Get(c.width)
	switch c.kind {
	case KindEq:
		subP := m.SubstVal(c.p, assign)
		base := s.buildEqualityPredicate(c.width, subP, poly.Var(x))
		if sc.Sign {
			return base.Not()
		}
		return base
	case KindULE:
		subP := m.SubstVal(c.p, assign)
		subQ := m.SubstVal(c.q, assign)
		var pred dd.Predicate
		if a, b, okA := coeffOf(m, subP, poly.Var(x)); okA {
			if cc, d, okB := coeffOf(m, subQ, poly.Var(x)); okB {
				pred = pr.Compare(a, b, cc, d, dd.CompareULE)
			}
		}
		if pred == nil {
			pred = s.buildCompareByEnum(c.width, subP, subQ, poly.Var(x))
		}
		if sc.Sign {
			return pred.Not()
		}
		return pred
	case KindViableMembership:
		if sc.Sign {
			return c.member.Not()
		}
		return c.member
	default:
		panic("solver: unknown constraint kind")
	}
}

// coeffOf extracts (a, b) from p = a*x + b, for use by the dd.Compare fast
// path. ok is false unless p has degree exactly 1 in x and both a and b
// are constants (no other variable occurs in p).
func coeffOf(m poly.Manager, p poly.Poly, x poly.Var) (a, b uint64, ok bool) {
	if m.Degree(p, x) > 1 {
		return 0, 0, false
	}
	q, rem, fok := m.Factor(p, x, 1)
	if !fok {
		return 0, 0, false
	}
	av, aok := m.Val(q)
	bv, bok := m.Val(rem)
	if !aok || !bok {
		return 0, 0, false
	}
	return av, bv, true
}

// unionAll returns the union of preds via De Morgan's law (the dd
// contract exposes And/Not but no Or, since ViableSet never needs a
// primitive Or — this helper only exists to assemble the reference
// engine's own enumeration-built predicates).
func unionAll(pr dd.Provider, preds []dd.Predicate) dd.Predicate {
	if len(preds) == 0 {
		return pr.False()
	}
	acc := preds[0].Not()
	for _, p := range preds[1:] {
		acc = acc.And(p.Not())
	}
	return acc.Not()
}

// buildEqualityPredicate returns {k : p(x:=k) == 0}, for p possibly of any
// degree in x (spec.md §4.5 allows this for equality, unlike the strictly
// linear ule case) — see narrowEnumCap and DESIGN.md for the width bound.
func (s *Solver) buildEqualityPredicate(width Width, p poly.Poly, x poly.Var) dd.Predicate {
	if uint(width) > narrowEnumCap {
		panic("solver: equality narrowing unsupported above the reference engine's enumeration width cap")
	}
	m := s.polyEnv.Get(width)
	pr := s.ddEnv.Get(width)
	m2 := uint64(1) << uint(width)
	var points []dd.Predicate
	for k := uint64(0); k < m2; k++ {
		val, ok := m.Val(m.SubstVal(p, map[poly.Var]uint64{x: k}))
		if ok && val == 0 {
			points = append(points, pr.Point(k))
		}
	}
	return unionAll(pr, points)
}

// buildCompareByEnum is the general fallback for ule narrowing when p or q
// is not unilinear in x.
func (s *Solver) buildCompareByEnum(width Width, p, q poly.Poly, x poly.Var) dd.Predicate {
	if uint(width) > narrowEnumCap {
		panic("solver: comparison narrowing unsupported above the reference engine's enumeration width cap")
	}
	m := s.polyEnv.Get(width)
	pr := s.ddEnv.Get(width)
	m2 := uint64(1) << uint(width)
	var points []dd.Predicate
	for k := uint64(0); k < m2; k++ {
		assign := map[poly.Var]uint64{x: k}
		lv, _ := m.Val(m.SubstVal(p, assign))
		rv, _ := m.Val(m.SubstVal(q, assign))
		if lv <= rv {
			points = append(points, pr.Point(k))
		}
	}
	return unionAll(pr, points)
}
