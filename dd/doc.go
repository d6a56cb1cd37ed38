// Package dd gives access to the decision-diagram-provider contract
// consumed by the solver's ViableSet (a canonical, decidable predicate over
// ℤ/2^wℤ supporting intersection, complement, and membership/witness
// queries), plus a concrete reference implementation of it.
//
// As with package poly, the production DD engine this contract describes is
// an external collaborator; the reference Predicate here (a canonical
// disjoint half-open interval set) exists so ViableSet and the
// forbidden-intervals explainer are testable standalone.
package dd
