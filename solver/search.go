package solver

// popLevels undoes exactly n storage levels' worth of trail entries,
// walking the entry log backward and dispatching each variant to its
// owning component (spec.md §4.3, pop_levels). Replaying a popped-but-
// still-relevant lower-level propagation (spec.md's "replay ordering"
// Open Question) is not attempted by this reference engine: a deactivated
// constraint's watches are simply detached, and narrowing picks it back up
// naturally the next time one of its free variables is assigned or it is
// reactivated — see DESIGN.md.
func (s *Solver) popLevels(n int) {
	for n > 0 {
		i := len(s.trail.entries) - 1
		e := s.trail.entries[i]
		s.trail.entries = s.trail.entries[:i]
		switch e.kind {
		case teQheadSnapshot:
			s.trail.boolQHead = e.qhead
		case teIncrementLevel:
			s.trail.level--
			n--
		case teAssignInt:
			s.intVars.unassign(e.pvar)
			s.varQueue.update(int(e.pvar))
			s.trail.search = s.trail.search[:len(s.trail.search)-1]
		case teAssignBool:
			id := s.cs.boolVarToConstraint(e.bvar)
			s.watch.detach(s.cs, id)
			s.boolSt.unassign(e.bvar)
			s.trail.search = s.trail.search[:len(s.trail.search)-1]
		case teViableSnapshot:
			s.viable.popViable(e.pvar, e.pred)
		case teCjustPush:
			s.viable.popCjust(e.pvar)
		case teAddIntVar, teAddBoolVar:
			// Nothing is reversed: a variable created inside a push/pop
			// scope is not removed when that scope is popped, and stays
			// in intVars, the viable sets and the decision queue.
		}
	}
	if s.trail.boolQHead > len(s.trail.search) {
		s.trail.boolQHead = len(s.trail.search)
	}
}

// doAssignInt is the single place an integer variable's value is set
// outside of trail replay, so watch visitation (spec.md §4.4: "On integer
// assignment of v, each constraint on watch[v] is visited") always runs.
func (s *Solver) doAssignInt(v PVar, val Value, kind JustKind) bool {
	s.intVars.assign(v, val, kind, s.trail.Level())
	s.trail.pushAssignInt(v, val)
	if kind == JustPropagation {
		s.stats.Propagations++
	} else {
		s.stats.Decisions++
	}
	return s.visitIntWatch(v)
}

// visitIntWatch repoints or narrows every constraint currently watching v.
func (s *Solver) visitIntWatch(v PVar) bool {
	lst := append([]ConstraintID(nil), s.watch.listOf(v)...)
	for _, id := range lst {
		if s.watch.repoint(s.intVars, s.cs, id, v) {
			continue
		}
		c := s.cs.Constraint(id)
		if s.boolSt.value[c.boolVar] == BUndef {
			continue // constraint not active yet, nothing to narrow
		}
		sc := SignedConstraint{ID: id, Sign: s.boolSt.value[c.boolVar] == BFalse}
		if !s.narrow(sc) {
			return false
		}
	}
	return true
}

// activateLiteral is called when a boolean literal reaches the front of
// the propagation queue (spec.md §4.4: "A boolean literal becoming
// assigned activates its constraint (attaching watches, running narrow
// once)").
func (s *Solver) activateLiteral(l Lit) bool {
	id := s.cs.boolVarToConstraint(l.Var())
	found := s.watch.attach(s.intVars, s.cs, id)
	if found <= 1 {
		sc := s.cs.Lookup(l)
		if !s.narrow(sc) {
			return false
		}
	}
	return true
}

// propagate drains the boolean activation queue (spec.md §4.4/§5: "boolean
// propagations from a single integer assignment queued in produced order
// and drained before next integer assignment"). Integer watch visiting
// itself is synchronous (doAssignInt), so this only needs to activate
// pending literals; activation may itself enqueue further literals or
// raise a conflict, both handled by returning to the caller's main loop.
func (s *Solver) propagate() bool {
	for {
		l, ok := s.trail.nextBoolPending()
		if !ok {
			return true
		}
		if !s.activateLiteral(l) {
			return false
		}
	}
}

// assertSigned asserts sc as a top-level fact at the current level (used
// by AddEq/AddDiseq/AddULE/... — the embedding API's constraints are
// standing assertions, not optional clause literals). If sc's literal is
// already assigned consistently this is a no-op; if inconsistently, a
// conflict is raised immediately.
func (s *Solver) assertSigned(sc SignedConstraint) {
	lit := sc.Lit(s.cs)
	switch s.boolSt.litValue(lit) {
	case BTrue:
		return
	case BFalse:
		s.conflict.SetConstraint(sc)
		return
	}
	s.assignBool(lit, JustPropagation, s.trail.Level(), nil, nil)
}

// hasUnassignedVar reports whether any integer variable still needs a
// value, used by CheckSat's control flow to decide between SAT and
// deciding further.
func (s *Solver) hasUnassignedVar() bool {
	for v := 0; v < s.intVars.nbVars(); v++ {
		if !s.intVars.isAssigned(PVar(v)) {
			return true
		}
	}
	return false
}

// CheckSat runs the search loop of spec.md §2's control flow to
// completion or until the resource limit fires.
func (s *Solver) CheckSat() Status {
	for {
		s.stats.Iterations++
		if s.limiter != nil && s.limiter.Exhausted(&s.stats) {
			return Indet
		}
		if !s.conflict.IsEmpty() {
			s.stats.Conflicts++
			if s.conflict.bailout {
				s.stats.Bailouts++
			}
			if !s.resolveConflict() {
				return Unsat
			}
			continue
		}
		if _, pending := s.peekBoolPending(); pending {
			if !s.propagate() {
				continue
			}
			continue
		}
		if s.hasUnassignedVar() {
			switch s.decide() {
			case statusSat:
				return Sat
			case statusConflict:
				continue
			}
			continue
		}
		return Sat
	}
}

func (s *Solver) peekBoolPending() (Lit, bool) {
	if s.trail.boolQHead >= len(s.trail.search) {
		return 0, false
	}
	for i := s.trail.boolQHead; i < len(s.trail.search); i++ {
		if s.trail.search[i].isBool {
			return s.trail.search[i].lit, true
		}
	}
	return 0, false
}

// Push establishes a new user scope as base level (spec.md §5).
func (s *Solver) Push() {
	s.trail.PushLevel()
	s.baseLevel = s.trail.Level()
	s.baseLevels = append(s.baseLevels, s.baseLevel)
}

// Pop pops n user scopes down to the n-th most recent base level (spec.md
// §5, nested LIFO).
func (s *Solver) Pop(n int) {
	for i := 0; i < n && len(s.baseLevels) > 0; i++ {
		target := s.baseLevels[len(s.baseLevels)-1]
		s.baseLevels = s.baseLevels[:len(s.baseLevels)-1]
		s.popLevels(s.trail.Level() - (target - 1))
		s.cs.ReleaseLevel(target)
	}
	if len(s.baseLevels) > 0 {
		s.baseLevel = s.baseLevels[len(s.baseLevels)-1]
	} else {
		s.baseLevel = 0
	}
	s.conflict.Reset()
}
