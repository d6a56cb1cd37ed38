package solver

import "sort"

// forbiddenInterval is a concrete half-open interval [lo, lo+length) over
// ℤ/2^w, paired with the signed constraint it was derived from. length==0
// is never stored; full-domain coverage is an interval with length == 2^w.
//
// pins names the constraint's other free variables (besides the excluded
// variable) that were fixed to their current value to compute lo/length
// (spec.md §4.9's side_cond_c): the interval characterization is only
// valid while those variables keep that value, so any lemma built from
// this interval must also pin them (see explainByForbiddenIntervals).
type forbiddenInterval struct {
	sc     SignedConstraint
	lo     uint64
	length uint64
	pins   []PVar
}

func (fi forbiddenInterval) hi(mask uint64) uint64 { return (fi.lo + fi.length) & mask }

// contains reports whether x falls in [lo, lo+length) modulo the domain.
func (fi forbiddenInterval) contains(x, mask uint64) bool {
	off := (x - fi.lo) & mask
	return off < fi.length
}

// forbiddenIntervalsOf computes, for sc (a currently-false constraint
// unary in v), the maximal violating intervals over v's domain (spec.md
// §4.9: "forbidden_interval(c,v) -> (I_c, side_cond_c)"). This reference
// engine folds side_cond_c into each interval's pins (the other free
// variables fixed to compute it — see explainByForbiddenIntervals for how
// they enter the lemma) and, when a constraint's violating region is
// disconnected, returns every maximal run rather than a single interval —
// a documented generalization of the spec's one-interval-per-constraint
// model (see DESIGN.md).
func (s *Solver) forbiddenIntervalsOf(sc SignedConstraint, v PVar, width Width) []forbiddenInterval {
	c := s.cs.Constraint(sc.ID)
	assign := s.buildAssignment(c)
	satisfyPred := s.buildNarrowPredicate(c, sc, assign, v)
	violatePred := satisfyPred.Not()
	mask := maskOfWidth(width)
	m2 := uint64(1) << uint(width)

	if violatePred.IsFalse() {
		return nil
	}

	pins := make([]PVar, 0, len(assign))
	for pv := range assign {
		pins = append(pins, PVar(pv))
	}
	sort.Slice(pins, func(i, j int) bool { return pins[i] < pins[j] })

	full := true
	for k := uint64(0); k < m2; k++ {
		if !violatePred.Contains(k) {
			full = false
			break
		}
	}
	if full {
		return []forbiddenInterval{{sc: sc, lo: 0, length: m2, pins: pins}}
	}

	var out []forbiddenInterval
	inRun := false
	var runStart uint64
	for k := uint64(0); k < m2; k++ {
		if violatePred.Contains(k) {
			if !inRun {
				inRun = true
				runStart = k
			}
		} else if inRun {
			out = append(out, forbiddenInterval{sc: sc, lo: runStart, length: k - runStart, pins: pins})
			inRun = false
		}
	}
	if inRun {
		out = append(out, forbiddenInterval{sc: sc, lo: runStart, length: m2 - runStart, pins: pins})
	}
	// Merge a trailing run with a leading run across the wraparound point.
	if len(out) >= 2 && out[0].lo == 0 && out[len(out)-1].hi(mask) == m2&mask {
		last := out[len(out)-1]
		out[0].lo = last.lo
		out[0].length += out[len(out)-1].length
		out = out[:len(out)-1]
	}
	return out
}

func maskOfWidth(w Width) uint64 {
	if w >= 64 {
		return ^uint64(0)
	}
	return (uint64(1) << uint(w)) - 1
}

// explainByForbiddenIntervals is the forbidden-intervals lemma generator
// (spec.md §4.9). It collects every currently-false unary-in-v constraint
// from v's cjust list, covers v's whole domain with their violating
// intervals by the greedy baseline-extension algorithm, and installs the
// resulting antecedents as the new conflict core. If no covering exists it
// sets ConflictCore.bailout instead (spec.md §4.9: "cannot explain, fall
// back to bailout").
func (s *Solver) explainByForbiddenIntervals(v PVar) {
	width := s.intVars.width[v]
	mask := maskOfWidth(width)
	m2 := uint64(1) << uint(width)

	cjust := s.viable.CjustSnapshot(v)
	var candidates []forbiddenInterval
	for _, sc := range cjust {
		candidates = append(candidates, s.forbiddenIntervalsOf(sc, v, width)...)
	}
	if len(candidates) == 0 {
		s.conflict.bailout = true
		s.conflict.hasVar = false
		return
	}

	s.stats.ForbiddenIntervalLemmas++

	// A single full-domain interval needs no covering: the lemma is just
	// that source's negation, plus its pins (spec.md §4.9: "the lemma is
	// ¬c_src ∨ ¬side_cond_c").
	for _, fi := range candidates {
		if fi.length >= m2 {
			s.conflict.hasVar = false
			s.conflict.core = append([]SignedConstraint{fi.sc}, s.pinConstraints(fi.pins)...)
			return
		}
	}

	longestIdx := 0
	for i, fi := range candidates {
		if fi.length > candidates[longestIdx].length {
			longestIdx = i
		}
	}
	longest := candidates[longestIdx]

	used := map[SignedConstraint]bool{longest.sc: true}
	sequence := []forbiddenInterval{longest}
	baseline := longest.hi(mask)

	for {
		if longest.contains(baseline, mask) {
			break // domain re-covered back to the start
		}
		bestIdx := -1
		var bestExt uint64
		for i, fi := range candidates {
			if !fi.contains(baseline, mask) {
				continue
			}
			ext := (fi.hi(mask) - baseline) & mask
			if bestIdx == -1 || ext > bestExt {
				bestIdx = i
				bestExt = ext
			}
		}
		if bestIdx == -1 {
			s.conflict.bailout = true
			s.conflict.hasVar = false
			return
		}
		chosen := candidates[bestIdx]
		sequence = append(sequence, chosen)
		used[chosen.sc] = true
		baseline = chosen.hi(mask)
	}

	core := make([]SignedConstraint, 0, len(used))
	for sc := range used {
		core = append(core, sc)
	}
	pinned := make(map[PVar]bool)
	var pins []PVar
	for _, fi := range sequence {
		for _, p := range fi.pins {
			if !pinned[p] {
				pinned[p] = true
				pins = append(pins, p)
			}
		}
	}
	core = append(core, s.pinConstraints(pins)...)
	s.conflict.hasVar = false
	s.conflict.core = core
}

// pinConstraints builds, for each variable in pins, the currently-true
// "pv = current value" membership fact: the side condition spec.md §4.9
// requires for a forbidden-interval characterization computed against
// other free variables' current values to remain sound once those
// variables take a different value later in search (see forbiddenInterval
// doc comment). Added to the conflict core alongside the source
// constraints, it is negated by buildLemma into "pv != current value",
// which trivially satisfies the learned clause once pv moves. Interned at
// level 0 rather than the current storage level: the same point value
// recurs across many conflicts (ConstraintStore.intern dedups by key
// regardless of level), and level 0 is never reclaimed by ReleaseLevel, so
// the pin outlives whichever scope happened to be active when it was
// first built.
func (s *Solver) pinConstraints(pins []PVar) []SignedConstraint {
	out := make([]SignedConstraint, 0, len(pins))
	for _, pv := range pins {
		width := s.intVars.width[pv]
		val := uint64(s.intVars.value[pv])
		pred := s.ddEnv.Get(width).Point(val)
		out = append(out, s.cs.ViableMembership(0, width, pv, pred))
	}
	return out
}
