package solver

import (
	"fmt"

	"github.com/crillab/bvsat/dd"
	"github.com/crillab/bvsat/poly"
)

// ConstraintKind tags the concrete shape of a Constraint. This is the
// "tagged variant with exhaustive dispatch" Design Note (spec.md §9)
// prescribes in place of a polymorphic base class with virtual
// narrow/resolve/forbidden_interval methods; narrow.go and forbidden.go
// switch on Kind exhaustively.
type ConstraintKind int

const (
	// KindEq is p == 0.
	KindEq ConstraintKind = iota
	// KindULE is p <= q (unsigned).
	KindULE
	// KindViableMembership asserts PVar ∈ predicate.
	KindViableMembership
)

// Constraint is one interned constraint object (spec.md §3, "Constraint").
// Ownership is entirely the ConstraintStore's arena (Design Note: "replace
// reference-counted constraints with an arena + typed indices"); nothing
// outside this package ever holds a *Constraint, only a ConstraintID or a
// SignedConstraint wrapping one.
type Constraint struct {
	kind ConstraintKind
	p, q poly.Poly // operands; q unused for KindEq
	width Width

	vMember PVar
	member  dd.Predicate // for KindViableMembership

	freeVars []PVar
	boolVar  BoolVar
	level    int
	dep      *depNode // this constraint's own external dependency, if any

	// watchA/watchB are the two free PVars this constraint currently
	// watches (spec.md §4.4); -1 when not applicable (ground, or fewer
	// than 2 free vars).
	watchA, watchB PVar
}

func (c *Constraint) key() string {
	switch c.kind {
	case KindEq:
		return fmt.Sprintf("eq:%d:%s", c.width, polyString(c.width, c.p))
	case KindULE:
		return fmt.Sprintf("ule:%d:%s<=%s", c.width, polyString(c.width, c.p), polyString(c.width, c.q))
	case KindViableMembership:
		return fmt.Sprintf("vmem:%d:%d:%s", c.width, c.vMember, c.member.String())
	default:
		panic("solver: unknown constraint kind")
	}
}

// polyString is a package-level helper so Constraint.key doesn't need to
// carry a *PolyEnv reference; callers of the constructors below always
// have the Manager in hand already.
func polyString(w Width, p poly.Poly) string {
	return poly.NewManager(uint(w)).String(p)
}

// ConstraintStore owns every Constraint and Clause (spec.md §4.1).
type ConstraintStore struct {
	polyEnv *PolyEnv
	ddEnv   *DDEnv
	boolSt  *BoolState
	depMgr  *DepManager

	constraints []*Constraint
	byKey       map[string]ConstraintID
	byLevel     map[int][]ConstraintID

	clauses        []*Clause
	clausesByLevel map[int][]*Clause

	externalDep map[ConstraintID]*depNode
}

func newConstraintStore(polyEnv *PolyEnv, ddEnv *DDEnv, boolSt *BoolState, depMgr *DepManager) *ConstraintStore {
	return &ConstraintStore{
		polyEnv:        polyEnv,
		ddEnv:          ddEnv,
		boolSt:         boolSt,
		depMgr:         depMgr,
		byKey:          make(map[string]ConstraintID),
		byLevel:        make(map[int][]ConstraintID),
		clausesByLevel: make(map[int][]*Clause),
		externalDep:    make(map[ConstraintID]*depNode),
	}
}

// intern returns the existing constraint matching key, or builds a new one
// via build and registers it. This is the single de-duplication point
// spec.md §4.1 requires ("Two opposite-signed references to the same
// constraint share the boolean variable").
func (cs *ConstraintStore) intern(level int, key string, build func() *Constraint) ConstraintID {
	if id, ok := cs.byKey[key]; ok {
		return id
	}
	c := build()
	c.level = level
	c.boolVar = cs.boolSt.add()
	id := ConstraintID(len(cs.constraints))
	cs.constraints = append(cs.constraints, c)
	cs.byKey[key] = id
	cs.byLevel[level] = append(cs.byLevel[level], id)
	return id
}

func freeVarsOf(m poly.Manager, polys ...poly.Poly) []PVar {
	seen := make(map[PVar]bool)
	var out []PVar
	for _, p := range polys {
		for _, v := range m.FreeVars(p) {
			pv := PVar(v)
			if !seen[pv] {
				seen[pv] = true
				out = append(out, pv)
			}
		}
	}
	return out
}

// Eq is eq(level, p): SignedConstraint for "p == 0".
func (cs *ConstraintStore) Eq(level int, width Width, p poly.Poly) SignedConstraint {
	m := cs.polyEnv.Get(width)
	key := fmt.Sprintf("eq:%d:%s", width, m.String(p))
	id := cs.intern(level, key, func() *Constraint {
		return &Constraint{
			kind:     KindEq,
			p:        p,
			width:    width,
			freeVars: freeVarsOf(m, p),
			watchA:   -1,
			watchB:   -1,
		}
	})
	return SignedConstraint{ID: id}
}

// ULE is ule(level, p, q): SignedConstraint for "p <= q" (unsigned).
func (cs *ConstraintStore) ULE(level int, width Width, p, q poly.Poly) SignedConstraint {
	m := cs.polyEnv.Get(width)
	key := fmt.Sprintf("ule:%d:%s<=%s", width, m.String(p), m.String(q))
	id := cs.intern(level, key, func() *Constraint {
		return &Constraint{
			kind:     KindULE,
			p:        p,
			q:        q,
			width:    width,
			freeVars: freeVarsOf(m, p, q),
			watchA:   -1,
			watchB:   -1,
		}
	})
	return SignedConstraint{ID: id}
}

// ULT is ult(level, p, q) ≡ ¬ule(level, q, p) (spec.md §4.1: "a<b ≡ ¬(b≤a)").
func (cs *ConstraintStore) ULT(level int, width Width, p, q poly.Poly) SignedConstraint {
	return cs.ULE(level, width, q, p).Negate()
}

// SLE is sle(level, p, q): reduces to an unsigned compare on operands with
// the sign bit flipped (add 2^(w-1) to both sides), per spec.md §4.1 and
// the Open Question decision recorded in DESIGN.md.
func (cs *ConstraintStore) SLE(level int, width Width, p, q poly.Poly) SignedConstraint {
	m := cs.polyEnv.Get(width)
	shift := m.MkVal(uint64(1) << (uint(width) - 1))
	return cs.ULE(level, width, m.Add(p, shift), m.Add(q, shift))
}

// SLT is slt(level, p, q) ≡ ¬sle(level, q, p).
func (cs *ConstraintStore) SLT(level int, width Width, p, q poly.Poly) SignedConstraint {
	m := cs.polyEnv.Get(width)
	shift := m.MkVal(uint64(1) << (uint(width) - 1))
	return cs.ULE(level, width, m.Add(q, shift), m.Add(p, shift)).Negate()
}

// ViableMembership is viable_membership(level, v, predicate).
func (cs *ConstraintStore) ViableMembership(level int, width Width, v PVar, pred dd.Predicate) SignedConstraint {
	key := fmt.Sprintf("vmem:%d:%d:%s", width, v, pred.String())
	id := cs.intern(level, key, func() *Constraint {
		return &Constraint{
			kind:    KindViableMembership,
			width:   width,
			vMember: v,
			member:  pred,
			watchA:  -1,
			watchB:  -1,
		}
	})
	return SignedConstraint{ID: id}
}

// Constraint returns the underlying Constraint of a ConstraintID.
func (cs *ConstraintStore) Constraint(id ConstraintID) *Constraint {
	return cs.constraints[id]
}

// StoreClause retains a clause, returning its stable handle.
func (cs *ConstraintStore) StoreClause(c *Clause) *Clause {
	cs.clauses = append(cs.clauses, c)
	cs.clausesByLevel[c.level] = append(cs.clausesByLevel[c.level], c)
	return c
}

// ReleaseLevel drops every constraint and clause stored at exactly level
// (spec.md §4.1: "release_level(ℓ): drop all objects whose storage level
// equals ℓ; their boolean variables become free"). Freeing a BoolVar here
// means only that it is no longer reachable through byKey — its slot in
// BoolState is left alone; PVar/BoolVar indices are never reused within a
// solver's lifetime (Design Note: "arena, single owner, typed indices").
func (cs *ConstraintStore) ReleaseLevel(level int) {
	for _, id := range cs.byLevel[level] {
		delete(cs.byKey, cs.constraints[id].key())
	}
	delete(cs.byLevel, level)
	delete(cs.clausesByLevel, level)
}

// Lookup returns the SignedConstraint a boolean literal refers to.
func (cs *ConstraintStore) Lookup(l Lit) SignedConstraint {
	id := cs.boolVarToConstraint(l.Var())
	return SignedConstraint{ID: id, Sign: !l.IsPositive()}
}

// boolVarToConstraint linearly maps a BoolVar back to its owning
// ConstraintID. BoolVar and ConstraintID are assigned in lockstep by
// intern, so this is a direct index.
func (cs *ConstraintStore) boolVarToConstraint(bv BoolVar) ConstraintID {
	return ConstraintID(bv)
}

// RegisterExternal records tag as an external dependency of sc, for later
// unsat-core reporting (spec.md §4.1, register_external).
func (cs *ConstraintStore) RegisterExternal(sc SignedConstraint, tag DepTag) {
	leaf := cs.depMgr.Leaf(tag)
	cs.externalDep[sc.ID] = cs.depMgr.Join(cs.externalDep[sc.ID], leaf)
}

// DepOf returns the joined external dependency node for a constraint, if
// any was registered.
func (cs *ConstraintStore) DepOf(id ConstraintID) *depNode {
	return cs.externalDep[id]
}

// RegisterJoinedDep records that sc's dependency is the join of premises'
// dependencies (explain.go, superposition: a resolvent depends on both of
// the constraints it was derived from).
func (cs *ConstraintStore) RegisterJoinedDep(sc SignedConstraint, premises ...SignedConstraint) {
	var joined *depNode
	for _, p := range premises {
		joined = cs.depMgr.Join(joined, cs.DepOf(p.ID))
	}
	if joined != nil {
		cs.externalDep[sc.ID] = joined
	}
}
