package solver

import "github.com/crillab/bvsat/dd"

// decide implements spec.md §4.6: select an unassigned integer variable by
// activity, then dispatch on find(v, hint).
func (s *Solver) decide() searchStatus {
	v, ok := s.pickUnassignedVar()
	if !ok {
		return statusSat
	}
	hint := s.intVars.value[v]
	res := s.viable.Find(v, hint)
	switch res.Kind {
	case dd.Empty:
		s.conflict.SetVar(v)
		return statusConflict
	case dd.Singleton:
		if !s.doAssignInt(v, Value(res.Value), JustPropagation) {
			return statusConflict
		}
		return statusContinue
	default: // dd.Multiple
		s.trail.PushLevel()
		if !s.doAssignInt(v, Value(res.Value), JustDecision) {
			return statusConflict
		}
		return statusContinue
	}
}

// pickUnassignedVar returns the highest-activity unassigned PVar, using the
// teacher's MiniSat-style binary heap (queue.go) over intVars.activity —
// the same structure gophersat's solver uses to pick the next decision
// literal, generalized here from boolean variables to integer PVars.
func (s *Solver) pickUnassignedVar() (PVar, bool) {
	for !s.varQueue.empty() {
		n := s.varQueue.removeMin()
		v := PVar(n)
		if !s.intVars.isAssigned(v) {
			return v, true
		}
	}
	return 0, false
}

// propagateInt assigns v := val as a propagation forced by narrowing sc
// down to a singleton viable value (spec.md §4.5).
func (s *Solver) propagateInt(v PVar, val Value, sc SignedConstraint) bool {
	if s.intVars.isAssigned(v) {
		return s.intVars.value[v] == val
	}
	_ = sc // the justification lives in cjust[v], already appended by narrow
	return s.doAssignInt(v, val, JustPropagation)
}

// assignBool assigns l (extending to BTrue/BFalse per its sign), recording
// its justification, and enqueues it for boolean propagation / constraint
// activation.
func (s *Solver) assignBool(l Lit, kind JustKind, level int, reason, lemma *Clause) {
	bv := l.Var()
	val := BFalse
	if l.IsPositive() {
		val = BTrue
	}
	s.boolSt.assign(bv, val, kind, level, reason, lemma)
	s.trail.pushAssignBool(l)
	if kind == JustPropagation {
		s.stats.Propagations++
	} else {
		s.stats.Decisions++
	}
}

type searchStatus int

const (
	statusContinue searchStatus = iota
	statusSat
	statusConflict
)
