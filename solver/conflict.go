package solver

import "github.com/crillab/bvsat/dd"

// ConflictCore holds the current conflict (spec.md §4.7): a multiset of
// signed constraints that are jointly contradictory under the current
// trail, plus at most one conflict variable when the contradiction was
// raised by ViableSet emptying rather than by a ground constraint.
type ConflictCore struct {
	core        []SignedConstraint
	conflictVar PVar
	hasVar      bool
	bailout     bool
}

func newConflictCore() *ConflictCore {
	return &ConflictCore{}
}

// Reset clears the core (spec.md §4.7: "Reset between conflicts").
func (cc *ConflictCore) Reset() {
	cc.core = nil
	cc.hasVar = false
	cc.bailout = false
}

// SetConstraint initializes the core from a single ground-false signed
// constraint: that constraint alone already contradicts the current
// (fully-assigned) variables it mentions.
func (cc *ConflictCore) SetConstraint(sc SignedConstraint) {
	cc.Reset()
	cc.core = []SignedConstraint{sc}
}

// SetVar records v as the conflict variable: V_v has just become empty, and
// the actual contradicting constraints are v's cjust list, picked up by the
// driver's first resolveValue step (spec.md §4.8 step 3).
func (cc *ConflictCore) SetVar(v PVar) {
	cc.Reset()
	cc.conflictVar = v
	cc.hasVar = true
}

// IsEmpty reports whether there is no conflict to resolve.
func (cc *ConflictCore) IsEmpty() bool {
	return len(cc.core) == 0 && !cc.hasVar
}

// replace substitutes cNew (with premises folded into its dependency
// tracking by the caller) for target within the core.
func (cc *ConflictCore) replace(target, cNew SignedConstraint) {
	for i, sc := range cc.core {
		if sc == target {
			cc.core[i] = cNew
			return
		}
	}
	cc.core = append(cc.core, cNew)
}

// remove drops sc from the core, if present.
func (cc *ConflictCore) remove(sc SignedConstraint) {
	for i, cur := range cc.core {
		if cur == sc {
			cc.core = append(cc.core[:i], cc.core[i+1:]...)
			return
		}
	}
}

// coreMentionsPVar reports whether v appears among the free variables of any
// constraint currently in the core.
func (s *Solver) coreMentionsPVar(v PVar) bool {
	for _, sc := range s.conflict.core {
		c := s.cs.Constraint(sc.ID)
		for _, fv := range c.freeVars {
			if fv == v {
				return true
			}
		}
	}
	return false
}

// resolveConflict is the driver of spec.md §4.8. It is called whenever
// ConflictCore is non-empty and mutates the trail (via backjump) until
// either the conflict is resolved (search may continue) or base level is
// reached, in which case the formula is unsat relative to the current base.
func (s *Solver) resolveConflict() bool {
	for !s.conflict.IsEmpty() {
		if s.trail.Level() <= s.baseLevel {
			return false
		}
		if s.conflict.hasVar {
			s.resolveValueStep(s.conflict.conflictVar)
		}
		if s.walkTrailOnce() {
			continue
		}
		return false
	}
	return true
}

// resolveValueStep performs one value-resolution pass eliminating v from
// the core using its cjust snapshot (spec.md §4.7/§4.9, resolve_value).
func (s *Solver) resolveValueStep(v PVar) {
	cjust := s.viable.CjustSnapshot(v)
	s.conflict.hasVar = false
	for _, sc := range cjust {
		s.conflict.core = append(s.conflict.core, sc)
	}
	s.stats.ValueResolutionSteps++
	s.superposeOnVar(v)
}

// walkTrailOnce scans the search trail top-down for the first marked item
// and acts on it per spec.md §4.8 step 4. It returns true if the conflict
// was resolved into a state where search should continue (a decision was
// reverted and a lemma learned), and false if the trail was exhausted
// without finding anything to revert.
func (s *Solver) walkTrailOnce() bool {
	for i := s.trail.searchLen() - 1; i >= 0; i-- {
		item := s.trail.searchAt(i)
		if item.isBool {
			bv := item.lit.Var()
			if !s.coreMentionsBoolVar(bv) {
				continue
			}
			kind := s.boolSt.kind[bv]
			if kind == JustDecision {
				return s.revertBoolDecision(bv)
			}
			s.resolveBoolPropagation(bv)
			continue
		}
		v := item.pvar
		if !s.coreMentionsPVar(v) {
			continue
		}
		if s.intVars.just[v] == JustDecision {
			return s.revertIntDecision(v)
		}
		// Integer propagation: try to eliminate v via superposition again
		// (cjust[v] may have grown since SetVar, or this is a different
		// marked propagation further down the trail).
		s.superposeOnVar(v)
	}
	return false
}

// coreMentionsBoolVar reports whether bv is the boolean variable owning any
// constraint currently in the core.
func (s *Solver) coreMentionsBoolVar(bv BoolVar) bool {
	for _, sc := range s.conflict.core {
		if s.cs.Constraint(sc.ID).boolVar == bv {
			return true
		}
	}
	return false
}

// resolveBoolPropagation performs ordinary boolean resolution of the core
// against bv's reason clause (spec.md §4.8, "boolean resolution of core
// against R on lit.var").
func (s *Solver) resolveBoolPropagation(bv BoolVar) {
	reason := s.boolSt.reason[bv]
	if reason == nil {
		return
	}
	var sc SignedConstraint
	for _, cur := range s.conflict.core {
		if s.cs.Constraint(cur.ID).boolVar == bv {
			sc = cur
			break
		}
	}
	s.conflict.remove(sc)
	for i := 0; i < reason.Len(); i++ {
		lit := reason.Get(i)
		if lit.Var() == bv {
			continue
		}
		s.conflict.core = append(s.conflict.core, s.cs.Lookup(lit).Negate())
	}
}

// revertIntDecision reverts the decision v := value (spec.md §4.8, "Integer
// decision of v"): builds a lemma at v's level, backjumps below it, records
// v ≠ value as non-viable, learns the lemma, and re-narrows / re-decides v.
func (s *Solver) revertIntDecision(v PVar) bool {
	lvl := s.intVars.level[v]
	value := s.intVars.value[v]
	lemma := s.buildLemma(lvl)
	s.popLevels(s.trail.Level() - (lvl - 1))
	s.viable.AddNonViable(s.trail, v, value)
	if lemma != nil {
		s.cs.StoreClause(lemma)
		s.stats.LemmasLearned++
	}
	s.conflict.Reset()
	s.narrowAfterRefine(v)
	return true
}

// revertBoolDecision reverts a boolean decision literal (spec.md §4.8,
// "Boolean decision of lit").
func (s *Solver) revertBoolDecision(bv BoolVar) bool {
	lvl := s.boolSt.level[bv]
	lemma := s.buildLemma(lvl - 1)
	s.popLevels(s.trail.Level() - (lvl - 1))
	if lemma != nil {
		s.cs.StoreClause(lemma)
		s.stats.LemmasLearned++
		s.guessNextLiteral(lemma)
	}
	s.conflict.Reset()
	return true
}

// narrowAfterRefine re-runs narrowing on v after its viable set has been
// refined by a reverted decision, propagating a singleton if one results.
func (s *Solver) narrowAfterRefine(v PVar) {
	if s.intVars.isAssigned(v) {
		return
	}
	res := s.viable.Find(v, s.intVars.value[v])
	if res.Kind == dd.Singleton {
		s.doAssignInt(v, Value(res.Value), JustPropagation)
	}
}

// buildLemma synthesizes a learned clause from the current core (spec.md
// §4.7, build_lemma): negations of the core's signed constraints, at the
// given storage level, with dependency the join of their sources.
func (s *Solver) buildLemma(level int) *Clause {
	if len(s.conflict.core) == 0 {
		return nil
	}
	lits := make([]Lit, 0, len(s.conflict.core))
	var dep *depNode
	for _, sc := range s.conflict.core {
		lits = append(lits, sc.Negate().Lit(s.cs))
		dep = s.depMgr.Join(dep, s.cs.DepOf(sc.ID))
	}
	return NewLearnedClause(lits, level, dep)
}

// guessNextLiteral picks the next not-yet-true/false literal of lemma to
// branch on (spec.md §4.8, "next_guess cursor"), propagating it if it's the
// last suitable literal.
func (s *Solver) guessNextLiteral(lemma *Clause) {
	var pending Lit
	found := false
	count := 0
	for i := 0; i < lemma.Len(); i++ {
		l := lemma.Get(i)
		if s.boolSt.litValue(l) == BUndef {
			pending = l
			found = true
			count++
		}
	}
	if !found {
		return
	}
	if count == 1 {
		s.assignBool(pending, JustPropagation, s.trail.Level(), lemma, nil)
		return
	}
	s.trail.PushLevel()
	s.assignBool(pending, JustDecision, s.trail.Level(), nil, lemma)
}
