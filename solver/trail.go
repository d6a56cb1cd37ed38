package solver

import "github.com/crillab/bvsat/dd"

type trailEntryKind int

const (
	teIncrementLevel trailEntryKind = iota
	teAddIntVar
	teAddBoolVar
	teAssignInt
	teAssignBool
	teViableSnapshot
	teCjustPush
	teQheadSnapshot
)

// trailEntry is one variant of the undo log (spec.md §3, "Trail entry").
// Rather than a tagged union of heterogeneous payloads, this keeps one
// struct with the fields each kind needs; unused fields are zero. This is
// the "tagged variant with exhaustive dispatch" re-architecture Design
// Note (spec.md §9) prescribes for the polymorphic-constraint pattern,
// applied here to the trail entry itself.
type trailEntry struct {
	kind  trailEntryKind
	pvar  PVar
	bvar  BoolVar
	pred  dd.Predicate // teViableSnapshot: the predicate to restore
	qhead int          // teQheadSnapshot: the boolQHead value to restore
}

// searchItem is either a (PVar, value) assignment or a boolean literal,
// pushed on propagation/decision (spec.md §3, "SearchItem").
type searchItem struct {
	isBool bool
	lit    Lit   // valid if isBool
	pvar   PVar  // valid if !isBool
	val    Value // valid if !isBool
}

// Trail is the append-only sequence of mixed boolean/integer assignments
// plus its parallel undo log (spec.md §4.3).
type Trail struct {
	entries []trailEntry
	search  []searchItem
	level   int
	// boolQHead is the cursor into search for the boolean propagation
	// queue (spec.md §4.4: "the search stack between qhead and size").
	boolQHead int
}

func newTrail() *Trail {
	return &Trail{}
}

// Level returns the current storage/decision level.
func (t *Trail) Level() int { return t.level }

// PushLevel increments the level, snapshotting boolQHead alongside it so a
// pop restores both together.
func (t *Trail) PushLevel() {
	t.entries = append(t.entries, trailEntry{kind: teIncrementLevel})
	t.entries = append(t.entries, trailEntry{kind: teQheadSnapshot, qhead: t.boolQHead})
	t.level++
}

func (t *Trail) pushAddIntVar(v PVar) {
	t.entries = append(t.entries, trailEntry{kind: teAddIntVar, pvar: v})
}

func (t *Trail) pushAddBoolVar(bv BoolVar) {
	t.entries = append(t.entries, trailEntry{kind: teAddBoolVar, bvar: bv})
}

func (t *Trail) pushAssignInt(v PVar, val Value) {
	t.entries = append(t.entries, trailEntry{kind: teAssignInt, pvar: v})
	t.search = append(t.search, searchItem{isBool: false, pvar: v, val: val})
}

func (t *Trail) pushAssignBool(l Lit) {
	t.entries = append(t.entries, trailEntry{kind: teAssignBool, bvar: l.Var()})
	t.search = append(t.search, searchItem{isBool: true, lit: l})
}

func (t *Trail) pushViableSnapshot(v PVar, prev dd.Predicate) {
	t.entries = append(t.entries, trailEntry{kind: teViableSnapshot, pvar: v, pred: prev})
}

func (t *Trail) pushCjustPush(v PVar) {
	t.entries = append(t.entries, trailEntry{kind: teCjustPush, pvar: v})
}

// nextBoolPending returns the next as-yet-unprocessed boolean literal in
// the propagation queue, if any.
func (t *Trail) nextBoolPending() (Lit, bool) {
	for t.boolQHead < len(t.search) {
		item := t.search[t.boolQHead]
		if item.isBool {
			t.boolQHead++
			return item.lit, true
		}
		t.boolQHead++
	}
	return 0, false
}

// searchLen, entriesLen and searchAt expose raw lengths and items, kept as
// methods purely for readability at call sites. conflict.go's walkTrailOnce
// walks the search list backward through searchLen/searchAt; entriesLen
// has no caller.
func (t *Trail) searchLen() int            { return len(t.search) }
func (t *Trail) entriesLen() int           { return len(t.entries) }
func (t *Trail) searchAt(i int) searchItem { return t.search[i] }
