package dd

// FindKind classifies the result of a Predicate.Find query.
type FindKind int

const (
	// Empty means the predicate accepts no value (the viable set is empty;
	// the caller should raise a conflict).
	Empty FindKind = iota
	// Singleton means exactly one value satisfies the predicate; the
	// variable can be propagated to it directly.
	Singleton
	// Multiple means more than one value satisfies the predicate; Value
	// carries a witness (the hint if it was accepted, else an arbitrary
	// member) for use as a decision.
	Multiple
)

// FindResult is the outcome of Predicate.Find, mirroring the three-way
// "empty / singleton / multiple witness" result the solver's ViableSet
// (spec §4.2, find) and Decide component (spec §4.6) both consume.
type FindResult struct {
	Kind  FindKind
	Value uint64
}

// Predicate is a decidable, canonical set of ℤ/2^wℤ residues: the contract
// ViableSet is built on. Implementations must support cheap intersection
// (the operation performed on every narrowing step) and exact membership.
type Predicate interface {
	Width() uint
	IsFalse() bool
	Contains(k uint64) bool
	// And returns the intersection of this predicate with other. Both must
	// share the same Width.
	And(other Predicate) Predicate
	// Not returns the complement within ℤ/2^Width.
	Not() Predicate
	// Find returns Empty/Singleton/Multiple as described above, using hint
	// as a tie-break preference for the Multiple case.
	Find(hint uint64) FindResult
	String() string
}

// CompareKind names the affine relation a Provider.Compare predicate
// encodes.
type CompareKind int

const (
	// CompareEq builds {x : a*x+b == c*x+d}.
	CompareEq CompareKind = iota
	// CompareULE builds {x : a*x+b <= c*x+d} (unsigned).
	CompareULE
)

// Provider is the decision-diagram-provider contract of the top-level spec:
// a factory, bound to one bit-width, for the predicate shapes the solver's
// Narrowing component (spec §4.4) needs — ground membership predicates and
// affine-comparison predicates over the sole remaining free variable of a
// unary-in-v constraint.
type Provider interface {
	Width() uint
	True() Predicate
	False() Predicate
	// Point returns {k}.
	Point(k uint64) Predicate
	// NotPoint returns the complement of {k}.
	NotPoint(k uint64) Predicate
	// Compare returns the exact solution predicate of a*x+b ⋈ c*x+d over
	// the sole free variable x, for the relation named by kind.
	Compare(a, b, c, d uint64, kind CompareKind) Predicate
}
