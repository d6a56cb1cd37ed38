package solver

// BoolVal is a boolean variable's three-valued assignment.
type BoolVal byte

const (
	// BUndef means the constraint's activation status is not yet decided.
	BUndef BoolVal = iota
	BTrue
	BFalse
)

// BoolState holds, per BoolVar, the value/decision-kind/reason/lemma
// quadruple the Data Model (spec.md §3, "BoolState") names. A constraint's
// BoolVar has a definite value exactly while the constraint is active
// (spec.md §3 invariant: "Boolean value of a constraint's variable ⇔ its
// activation status"). Marking variables that appear in the conflict core
// (spec.md §3/§4.8) is done by direct scan of ConflictCore.core in
// conflict.go rather than by a persistent mark bit here: the core is small
// and rebuilt every conflict, so a scratch mark array would need to be
// cleared on every Reset anyway.
type BoolState struct {
	value  []BoolVal
	kind   []JustKind
	level  []int
	reason []*Clause // the clause whose unit propagation set this var, if any
	lemma  []*Clause // the lemma this var was guessed from, if a decision
}

func newBoolState() *BoolState {
	return &BoolState{}
}

// add registers a fresh BoolVar, returning it.
func (bs *BoolState) add() BoolVar {
	bv := BoolVar(len(bs.value))
	bs.value = append(bs.value, BUndef)
	bs.kind = append(bs.kind, JustNone)
	bs.level = append(bs.level, -1)
	bs.reason = append(bs.reason, nil)
	bs.lemma = append(bs.lemma, nil)
	return bv
}

// litValue reports the boolean value of l (accounting for its sign):
// BTrue if l currently holds, BFalse if its negation holds, BUndef if l's
// variable is inactive.
func (bs *BoolState) litValue(l Lit) BoolVal {
	v := bs.value[l.Var()]
	if v == BUndef {
		return BUndef
	}
	positive := v == BTrue
	if l.IsPositive() == positive {
		return BTrue
	}
	return BFalse
}

func (bs *BoolState) assign(bv BoolVar, val BoolVal, kind JustKind, level int, reason *Clause, lemma *Clause) {
	bs.value[bv] = val
	bs.kind[bv] = kind
	bs.level[bv] = level
	bs.reason[bv] = reason
	bs.lemma[bv] = lemma
}

func (bs *BoolState) unassign(bv BoolVar) {
	bs.value[bv] = BUndef
	bs.kind[bv] = JustNone
	bs.level[bv] = -1
	bs.reason[bv] = nil
	bs.lemma[bv] = nil
}

func (bs *BoolState) isAssigned(bv BoolVar) bool { return bs.value[bv] != BUndef }
