package solver

import "github.com/crillab/bvsat/dd"

// ViableSet maintains, per PVar, the decidable predicate over ℤ/2^w of
// values that remain consistent with everything narrowed so far (spec.md
// §4.2), plus the cjust list of constraints that justify the current
// restriction (spec.md glossary, "cjust[v]").
type ViableSet struct {
	ddEnv *DDEnv
	width []Width
	pred  []dd.Predicate
	cjust [][]SignedConstraint
}

func newViableSet(ddEnv *DDEnv) *ViableSet {
	return &ViableSet{ddEnv: ddEnv}
}

// push registers a fresh PVar's viable set as the full domain (spec.md
// §4.2, push(v)).
func (vs *ViableSet) push(w Width) {
	vs.width = append(vs.width, w)
	vs.pred = append(vs.pred, vs.ddEnv.Get(w).True())
	vs.cjust = append(vs.cjust, nil)
}

// IsViable is the is_viable(v, k) membership test.
func (vs *ViableSet) IsViable(v PVar, k Value) bool {
	return vs.pred[v].Contains(uint64(k))
}

// Intersect refines V_v with pred, logging the previous predicate on trail
// so pop_levels can restore it. It returns false (and leaves the narrowed,
// now-empty predicate in place) when the refinement empties V_v; the
// caller is responsible for raising the conflict, since ConflictCore is a
// concern above ViableSet's level of abstraction.
func (vs *ViableSet) Intersect(trail *Trail, v PVar, pred dd.Predicate) bool {
	prev := vs.pred[v]
	next := prev.And(pred)
	trail.pushViableSnapshot(v, prev)
	vs.pred[v] = next
	return !next.IsFalse()
}

// Find is the find(v, hint) operation.
func (vs *ViableSet) Find(v PVar, hint Value) dd.FindResult {
	return vs.pred[v].Find(uint64(hint))
}

// AddNonViable is add_non_viable(v, k) ≡ intersect(v, ≠k).
func (vs *ViableSet) AddNonViable(trail *Trail, v PVar, k Value) bool {
	return vs.Intersect(trail, v, vs.ddEnv.Get(vs.width[v]).NotPoint(uint64(k)))
}

// popViable restores a previously snapshotted predicate (called only from
// trail undo).
func (vs *ViableSet) popViable(v PVar, pred dd.Predicate) {
	vs.pred[v] = pred
}

// AppendCjust records that sc justifies the current restriction of v's
// viable set, logging an undo marker.
func (vs *ViableSet) AppendCjust(trail *Trail, v PVar, sc SignedConstraint) {
	trail.pushCjustPush(v)
	vs.cjust[v] = append(vs.cjust[v], sc)
}

func (vs *ViableSet) popCjust(v PVar) {
	vs.cjust[v] = vs.cjust[v][:len(vs.cjust[v])-1]
}

// CjustSnapshot returns a defensive copy of v's current cjust list. Per
// DESIGN.md's Open Question decision #1 / spec.md §9's cjust note, all
// conflict-analysis code must walk this snapshot rather than the live
// slice, since resolveValue may itself append to cjust while iterating.
func (vs *ViableSet) CjustSnapshot(v PVar) []SignedConstraint {
	cur := vs.cjust[v]
	out := make([]SignedConstraint, len(cur))
	copy(out, cur)
	return out
}
