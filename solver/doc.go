// Package solver is the MCSAT-style bit-vector decision core: trail,
// viable sets, watching, and conflict explanation, composed in solver.go's
// Solver type. See poly and dd for the external polynomial/decision-
// diagram collaborators this package consumes.
package solver
