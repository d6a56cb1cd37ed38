package solver

import (
	"fmt"
	"strings"
)

// A Clause is a disjunction of Lit (each a signed reference to a
// constraint's BoolVar): the lemma shape produced by forbidden-intervals
// generation and by the baseline equality/order axioms. Structurally this
// is the teacher's Clause (crillab/gophersat/solver/clause.go) with its
// cardinality/LBD/locked bit-packing dropped: this design has no clause
// quality metric and no restart-driven clause deletion (see DESIGN.md,
// "Deleted teacher files" — luby.go/lbd.go have no counterpart here), so a
// clause's only packed metadata is its storage level and learned flag.
type Clause struct {
	lits    []Lit
	level   int
	learned bool
	dep     *depNode // join of every dependency tag the lemma rests on
}

// NewClause returns an asserted (not learned) clause at the given storage
// level.
func NewClause(lits []Lit, level int) *Clause {
	return &Clause{lits: lits, level: level}
}

// NewLearnedClause returns a new clause marked as learned (a forbidden-
// intervals or value-resolution lemma), carrying the join of its
// dependency tags.
func NewLearnedClause(lits []Lit, level int, dep *depNode) *Clause {
	return &Clause{lits: lits, level: level, learned: true, dep: dep}
}

// Learned returns true iff c was derived by conflict explanation rather
// than asserted directly.
func (c *Clause) Learned() bool { return c.learned }

// Level returns the storage level c was stored at; ReleaseLevel(level)
// on the owning ConstraintStore discards it once level is popped.
func (c *Clause) Level() int { return c.level }

// Len returns the number of lits in the clause.
func (c *Clause) Len() int { return len(c.lits) }

// First returns the first lit from the clause.
func (c *Clause) First() Lit { return c.lits[0] }

// Second returns the second lit from the clause.
func (c *Clause) Second() Lit { return c.lits[1] }

// Get returns the ith literal from the clause.
func (c *Clause) Get(i int) Lit { return c.lits[i] }

// Set sets the ith literal of the clause.
func (c *Clause) Set(i int, l Lit) { c.lits[i] = l }

// swap swaps the ith and jth lits from the clause. Nothing in the package
// calls it: watch.go watches integer variables, not clause literals.
func (c *Clause) swap(i, j int) { c.lits[i], c.lits[j] = c.lits[j], c.lits[i] }

// String renders the clause as a disjunction of signed BoolVar references,
// for debug logging.
func (c *Clause) String() string {
	parts := make([]string, len(c.lits))
	for i, l := range c.lits {
		sign := ""
		if !l.IsPositive() {
			sign = "!"
		}
		parts[i] = fmt.Sprintf("%sb%d", sign, l.Var())
	}
	return strings.Join(parts, " ∨ ")
}
