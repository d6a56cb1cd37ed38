package solver

// WatchIndex holds, per PVar, the constraints currently watching it
// (spec.md §4.4): "two-variable watch lists per integer variable for
// non-unit constraints; drives propagation." This mirrors the teacher's
// watcherList (crillab/gophersat/solver/watcher.go) one level up: instead
// of watching two *literal positions inside a clause*, a Constraint here
// watches two *PVar free variables*; the repoint-on-assignment structure
// (visit every watcher of the assigned item, try to find a replacement,
// else act) is the same shape, generalized from boolean clauses to
// arithmetic constraints.
type WatchIndex struct {
	lists [][]ConstraintID
}

func newWatchIndex() *WatchIndex {
	return &WatchIndex{}
}

func (wi *WatchIndex) ensure(nbVars int) {
	for len(wi.lists) < nbVars {
		wi.lists = append(wi.lists, nil)
	}
}

func (wi *WatchIndex) listOf(v PVar) []ConstraintID { return wi.lists[v] }

func (wi *WatchIndex) add(v PVar, id ConstraintID) {
	wi.lists[v] = append(wi.lists[v], id)
}

// remove drops id from v's watch list. Order within the list does not
// matter (spec.md §5: "results must be invariant to reordering"), so this
// swaps with the last element rather than preserving order, exactly as the
// teacher's own removeFrom helper (watcher.go) does for clause lists.
func (wi *WatchIndex) remove(v PVar, id ConstraintID) {
	lst := wi.lists[v]
	for i, cur := range lst {
		if cur == id {
			lst[i] = lst[len(lst)-1]
			wi.lists[v] = lst[:len(lst)-1]
			return
		}
	}
}

// attach picks up to two currently-unassigned free variables of c and
// watches them, mutating c.watchA/watchB. It returns the number of
// distinct unassigned free variables found (0 = ground, 1 = unit, 2 =
// fully watched) — the caller (search.go's activateLiteral) decides what to do
// with that count.
func (wi *WatchIndex) attach(iv *intVars, cs *ConstraintStore, id ConstraintID) int {
	c := cs.Constraint(id)
	c.watchA, c.watchB = -1, -1
	found := 0
	for _, v := range c.freeVars {
		if iv.isAssigned(v) {
			continue
		}
		if found == 0 {
			c.watchA = v
			wi.add(v, id)
		} else if found == 1 {
			c.watchB = v
			wi.add(v, id)
		}
		found++
		if found == 2 {
			break
		}
	}
	return found
}

// detach removes c's current watches (used when a constraint is
// deactivated, spec.md §4.3: "the constraint is deactivated (watches
// removed...)").
func (wi *WatchIndex) detach(cs *ConstraintStore, id ConstraintID) {
	c := cs.Constraint(id)
	if c.watchA >= 0 {
		wi.remove(c.watchA, id)
	}
	if c.watchB >= 0 {
		wi.remove(c.watchB, id)
	}
	c.watchA, c.watchB = -1, -1
}

// repoint tries to replace assigned watch (one of c's current two watches,
// now assigned) with a still-unassigned free variable other than the
// constraint's remaining watch. It returns true if a replacement was
// found (the constraint keeps watching two variables and narrowing is
// deferred), false if no replacement exists (the constraint is now unit or
// ground in its remaining free variables and must narrow now).
func (wi *WatchIndex) repoint(iv *intVars, cs *ConstraintStore, id ConstraintID, assigned PVar) bool {
	c := cs.Constraint(id)
	other := c.watchA
	if other == assigned {
		other = c.watchB
	}
	for _, v := range c.freeVars {
		if v == assigned || v == other || iv.isAssigned(v) {
			continue
		}
		wi.remove(assigned, id)
		wi.add(v, id)
		if c.watchA == assigned {
			c.watchA = v
		} else {
			c.watchB = v
		}
		return true
	}
	return false
}
