package explain

import "github.com/crillab/bvsat/solver"

// Minimize reduces an unsat core to a minimal unsatisfiable subset by
// deletion: it repeatedly tries dropping one dependency tag at a time,
// keeping the drop whenever check reports the remaining tags are still
// unsat (spec.md's Non-goals exclude structured proof objects, but a
// minimized core is exactly the "list<dep>" unsat_core already promises,
// just smaller).
//
// check is supplied by the embedder, since only it knows how to rebuild a
// solver asserting exactly the constraints tagged by a given subset — this
// package never touches a *solver.Solver directly, mirroring how the
// teacher's MUSMaxSat (crillab/gophersat/explain/mus.go) rebuilt a fresh
// solver.Problem on every iteration rather than mutating one in place.
func Minimize(check func(tags []solver.DepTag) bool, core []solver.DepTag) []solver.DepTag {
	if len(core) == 0 || !check(core) {
		return nil
	}
	kept := append([]solver.DepTag(nil), core...)
	for i := 0; i < len(kept); {
		trial := make([]solver.DepTag, 0, len(kept)-1)
		trial = append(trial, kept[:i]...)
		trial = append(trial, kept[i+1:]...)
		if check(trial) {
			kept = trial
			continue
		}
		i++
	}
	return kept
}
