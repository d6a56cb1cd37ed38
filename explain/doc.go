// Package explain minimizes the dependency-tag unsat core the solver
// package reports into a minimal unsatisfiable subset, by the same
// deletion strategy the teacher's MUSMaxSat used over CNF clauses
// (crillab/gophersat/explain/mus.go), adapted here to drop solver.DepTag
// values one at a time, re-testing each smaller set with a check function
// the caller supplies, instead of repeated whole-problem MaxSat solves.
package explain
