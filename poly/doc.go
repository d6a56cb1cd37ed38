// Package poly gives access to the polynomial-provider contract consumed by
// the solver package (a multivariate polynomial representation over
// ℤ/2^wℤ, with substitution, resolution, factoring, and modular arithmetic),
// plus a concrete reference implementation of it.
//
// The real, production-grade PDD engine this contract describes is treated
// as an external collaborator (see the top-level spec): the solver package
// only ever talks to the Manager interface. The reference implementation in
// this package (a sparse monomial-map representation) exists so the solver
// is testable and embeddable without that external engine, and makes no
// claim of matching a production PDD engine's asymptotic behaviour.
package poly
