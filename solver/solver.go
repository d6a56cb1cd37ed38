package solver

import (
	"github.com/crillab/bvsat/poly"
	"github.com/sirupsen/logrus"
)

// debugAsserts is the debug/release switch for invariant checks (spec.md
// §7: "Invariant violation... fatal, abort; asserted in debug builds, must
// not occur in release"). No code in this package reads it: there are no
// invariant checks behind it, so setting it changes nothing.
var debugAsserts = false

// Solver is the single long-lived decision-procedure object spec.md §2
// describes: the composition of all eight leaves-first components.
type Solver struct {
	Log *logrus.Entry

	polyEnv *PolyEnv
	ddEnv   *DDEnv
	depMgr  *DepManager

	intVars  *intVars
	boolSt   *BoolState
	cs       *ConstraintStore
	viable   *ViableSet
	trail    *Trail
	watch    *WatchIndex
	conflict *ConflictCore

	varQueue queue

	baseLevel  int
	baseLevels []int

	stats   Stats
	limiter ResourceLimiter
}

// New returns an empty Solver ready to accept add_var/add_* calls.
func New() *Solver {
	depMgr := NewDepManager()
	boolSt := newBoolState()
	polyEnv := NewPolyEnv()
	ddEnv := NewDDEnv()
	cs := newConstraintStore(polyEnv, ddEnv, boolSt, depMgr)
	iv := newIntVars()
	s := &Solver{
		Log:      logrus.NewEntry(logrus.StandardLogger()),
		polyEnv:  polyEnv,
		ddEnv:    ddEnv,
		depMgr:   depMgr,
		intVars:  iv,
		boolSt:   boolSt,
		cs:       cs,
		viable:   newViableSet(ddEnv),
		trail:    newTrail(),
		watch:    newWatchIndex(),
		conflict: newConflictCore(),
		varQueue: newQueue(iv.activity),
	}
	return s
}

// AddVar is add_var(width) -> PVar (spec.md §6).
func (s *Solver) AddVar(width Width) PVar {
	v := s.intVars.add(width)
	// add may have moved activity to a new backing array; the queue must
	// compare against the live slice, not the one New handed it.
	s.varQueue.activity = s.intVars.activity
	s.viable.push(width)
	s.watch.ensure(s.intVars.nbVars())
	s.varQueue.insert(int(v))
	s.trail.pushAddIntVar(v)
	return v
}

// Var is var(PVar) -> polynomial: the polynomial variable naming v, for
// building operands to Add*.
func (s *Solver) Var(v PVar) poly.Var { return poly.Var(v) }

// Poly returns the polynomial manager for width, so embedders can build
// operands with MkVar/MkVal/Add/Mul before passing them to Add*.
func (s *Solver) Poly(width Width) poly.Manager { return s.polyEnv.Get(width) }

// AddEq is add_eq(p, dep?): asserts p == 0.
func (s *Solver) AddEq(width Width, p poly.Poly, dep ...DepTag) {
	sc := s.cs.Eq(s.baseLevel, width, p)
	s.registerDeps(sc, dep)
	s.assertSigned(sc)
}

// AddDiseq is add_diseq(p, dep?) ≡ ¬add_eq(p, dep?).
func (s *Solver) AddDiseq(width Width, p poly.Poly, dep ...DepTag) {
	sc := s.cs.Eq(s.baseLevel, width, p).Negate()
	s.registerDeps(sc, dep)
	s.assertSigned(sc)
}

// AddULE is add_ule(p, q, dep?): asserts p <= q (unsigned).
func (s *Solver) AddULE(width Width, p, q poly.Poly, dep ...DepTag) {
	sc := s.cs.ULE(s.baseLevel, width, p, q)
	s.registerDeps(sc, dep)
	s.assertSigned(sc)
}

// AddULT is add_ult(p, q, dep?): asserts p < q (unsigned).
func (s *Solver) AddULT(width Width, p, q poly.Poly, dep ...DepTag) {
	sc := s.cs.ULT(s.baseLevel, width, p, q)
	s.registerDeps(sc, dep)
	s.assertSigned(sc)
}

// AddSLE is add_sle(p, q, dep?): asserts p <= q (signed).
func (s *Solver) AddSLE(width Width, p, q poly.Poly, dep ...DepTag) {
	sc := s.cs.SLE(s.baseLevel, width, p, q)
	s.registerDeps(sc, dep)
	s.assertSigned(sc)
}

// AddSLT is add_slt(p, q, dep?): asserts p < q (signed).
func (s *Solver) AddSLT(width Width, p, q poly.Poly, dep ...DepTag) {
	sc := s.cs.SLT(s.baseLevel, width, p, q)
	s.registerDeps(sc, dep)
	s.assertSigned(sc)
}

func (s *Solver) registerDeps(sc SignedConstraint, dep []DepTag) {
	for _, d := range dep {
		s.cs.RegisterExternal(sc, d)
	}
}

// UnsatCore is unsat_core() -> list<dep> (spec.md §6): valid only after
// CheckSat has returned Unsat.
func (s *Solver) UnsatCore() []DepTag {
	core := s.conflict.core
	if s.conflict.hasVar {
		// The conflict is an empty viable set: the constraints that emptied
		// it (the conflict variable's cjust) belong to the core too.
		core = append(append([]SignedConstraint(nil), core...), s.viable.CjustSnapshot(s.conflict.conflictVar)...)
	}
	var joined *depNode
	for _, sc := range core {
		joined = s.depMgr.Join(joined, s.cs.DepOf(sc.ID))
	}
	return Linearize(joined)
}

// CollectStatistics is collect_statistics() (spec.md §6).
func (s *Solver) CollectStatistics() Stats { return s.stats }

// SetResourceLimiter installs the limiter CheckSat consults between
// iterations; nil removes any limit.
func (s *Solver) SetResourceLimiter(l ResourceLimiter) { s.limiter = l }

// Value returns v's current assigned value and whether it is assigned,
// for reading back a model after CheckSat returns Sat.
func (s *Solver) Value(v PVar) (Value, bool) {
	return s.intVars.value[v], s.intVars.isAssigned(v)
}
