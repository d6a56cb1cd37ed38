package poly

// Var names a free variable inside a polynomial. It is a plain integer id;
// the solver package's PVar values are cast to/from Var at the boundary so
// this package stays independent of the solver's own indexing scheme.
type Var uint32

// Poly is an opaque handle to a polynomial value owned by a Manager. Poly
// values are only ever compared or combined through the Manager that
// produced them, exactly like the teacher's Lit/Var handles are only
// meaningful relative to their owning Solver.
type Poly interface {
	// Width is the bit-width of the ring ℤ/2^Width this polynomial lives in.
	Width() uint
}

// Manager is the polynomial-provider contract consumed by the solver's
// ConstraintStore, Narrowing and Explainer components. A Manager is bound to
// a single bit-width; the solver keeps one Manager per width in use.
//
// All arithmetic is modulo 2^Width; there is no overflow, only wraparound.
type Manager interface {
	Width() uint

	// MkVar returns the degree-1 monomial for v with coefficient 1.
	MkVar(v Var) Poly
	// MkVal returns the constant polynomial val (reduced mod 2^Width).
	MkVal(val uint64) Poly

	// Add returns a+b.
	Add(a, b Poly) Poly
	// Neg returns -a (i.e. the additive inverse mod 2^Width).
	Neg(a Poly) Poly
	// Mul returns a*b.
	Mul(a, b Poly) Poly

	// Val reports whether p is a ground constant, and its value if so.
	Val(p Poly) (val uint64, ok bool)

	// FreeVars returns the variables with nonzero degree in p, in a stable
	// (ascending) order.
	FreeVars(p Poly) []Var
	// Degree returns the highest power of v occurring in p.
	Degree(p Poly, v Var) uint

	// IsUnilinear reports whether p has at most one free variable and is
	// degree <= 1 in it, decomposing p = coeff*v + constant when so. If p
	// is a ground constant, ok is true with v the zero Var and coeff 0.
	IsUnilinear(p Poly) (coeff uint64, v Var, constant uint64, ok bool)

	// Factor divides p with respect to v at the given degree, returning q
	// and rem such that p = q*v^degree + rem and rem has degree < degree in
	// v. ok is false if degree exceeds p's degree in v.
	Factor(p Poly, v Var, degree uint) (q, rem Poly, ok bool)

	// TryDiv attempts to divide every coefficient of p by the scalar coeff,
	// which requires coeff to be odd (units of ℤ/2^Width are exactly the
	// odd residues). ok is false when coeff is even.
	TryDiv(p Poly, coeff uint64) (Poly, bool)

	// SubstVal evaluates p under assignment, substituting each variable it
	// binds and leaving any variable it doesn't mention free. A total
	// assignment of p's free variables yields a ground polynomial.
	SubstVal(p Poly, assignment map[Var]uint64) Poly

	// Resolve computes the polynomial superposition resolvent of p=0 and
	// q=0 eliminating v: given p = a*v + p0 and q = b*v + q0 (both
	// unilinear in v), it returns b*p - a*q, in which the v-terms cancel
	// exactly regardless of whether a or b is invertible. ok is false
	// unless each polynomial has v as its only variable, with a nonzero
	// coefficient on v.
	Resolve(p, q Poly, v Var) (Poly, bool)

	// String renders p for logging/diagnostics.
	String(p Poly) string
}
