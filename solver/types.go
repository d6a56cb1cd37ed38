package solver

// Describes the basic types and constants used throughout the solver.

// Status is the status of a problem, clause, or constraint at a given
// moment. Reused verbatim from the teacher (crillab/gophersat/solver/
// types.go): the Indet/Sat/Unsat/Unit/Many vocabulary applies unchanged to
// this domain's clauses of signed constraints.
type Status byte

const (
	// Indet means the problem is not proven sat or unsat yet.
	Indet = Status(iota)
	// Sat means the problem or clause is satisfied.
	Sat
	// Unsat means the problem or clause is unsatisfied.
	Unsat
	// Unit is a constant meaning the clause contains only one unassigned literal.
	Unit
	// Many is a constant meaning the clause contains at least 2 unassigned literals.
	Many
)

func (s Status) String() string {
	switch s {
	case Indet:
		return "INDETERMINATE"
	case Sat:
		return "SAT"
	case Unsat:
		return "UNSAT"
	case Unit:
		return "UNIT"
	case Many:
		return "MANY"
	default:
		panic("invalid status")
	}
}

// Width is a bit-vector width, in bits. All arithmetic for a given PVar
// happens modulo 2^Width.
type Width uint

// PVar names an integer-valued variable of the problem: one of the trail's
// two assignable kinds (the other being BoolVar). PVar start at 0.
type PVar int32

// Value is an assignment to a PVar: a residue of ℤ/2^Width. intVars masks
// it to the variable's width when it is assigned, so a stored Value never
// has bits above that width.
type Value uint64

// Mask returns v reduced modulo 2^w.
func (v Value) Mask(w Width) Value {
	if w >= 64 {
		return v
	}
	return v & ((Value(1) << w) - 1)
}

// BoolVar names the boolean variable backing one constraint in the
// ConstraintStore: every constraint added to the store is given exactly
// one BoolVar, whose value records whether the constraint holds, is
// violated, or is still undetermined. BoolVar start at 0.
type BoolVar int32

// Lit is a signed reference to a BoolVar: the unit of disjunction in a
// Clause, and the unit of assignment on the boolean side of the trail.
// Encoding is bit-for-bit the teacher's Lit (crillab/gophersat/solver/
// types.go): sign is the low bit, so Negation is a single XOR.
type Lit int32

// mkLit returns the positive Lit for bv.
func mkLit(bv BoolVar) Lit { return Lit(bv * 2) }

// mkSignedLit returns the Lit for bv, negated if negated is true.
func mkSignedLit(bv BoolVar, negated bool) Lit {
	if negated {
		return Lit(bv*2) + 1
	}
	return Lit(bv * 2)
}

// Var returns the BoolVar l refers to.
func (l Lit) Var() BoolVar { return BoolVar(l / 2) }

// IsPositive is true iff l is the unnegated literal for its variable.
func (l Lit) IsPositive() bool { return l%2 == 0 }

// Negation returns !l.
func (l Lit) Negation() Lit { return l ^ 1 }

// SignedConstraint is a constraint together with a polarity: "the
// constraint holds" (Sign == false) or "the constraint's negation holds"
// (Sign == true). It is a small value type, copied freely, exactly as
// Design Note "model signed constraints as a value type (index, bool) with
// negation flipping the sign bit" prescribes — ConstraintID plus Sign
// mirror Lit's (BoolVar, sign-bit) shape one-for-one, since every
// constraint has exactly one backing BoolVar.
type SignedConstraint struct {
	ID   ConstraintID
	Sign bool
}

// Negate returns !sc.
func (sc SignedConstraint) Negate() SignedConstraint {
	return SignedConstraint{ID: sc.ID, Sign: !sc.Sign}
}

// Lit returns the Lit referring to the same BoolVar and polarity as sc,
// given the store that assigned sc's BoolVar.
func (sc SignedConstraint) Lit(cs *ConstraintStore) Lit {
	return mkSignedLit(cs.constraints[sc.ID].boolVar, sc.Sign)
}

// ConstraintID indexes a Constraint inside a ConstraintStore. ConstraintID
// start at 0.
type ConstraintID int32
