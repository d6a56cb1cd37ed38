package solver

import "fmt"

// Stats collects the counters spec.md §6 requires from
// collect_statistics, extended per SPEC_FULL.md §10 with counters specific
// to this engine's conflict-analysis strategies.
type Stats struct {
	Decisions     int64
	Propagations  int64
	Conflicts     int64
	Iterations    int64
	Bailouts      int64

	LemmasLearned           int64
	ForbiddenIntervalLemmas int64
	ValueResolutionSteps    int64
	SuperpositionSteps      int64
}

func (s Stats) String() string {
	return fmt.Sprintf(
		"iterations=%d decisions=%d propagations=%d conflicts=%d bailouts=%d lemmas=%d forbidden_interval_lemmas=%d value_resolutions=%d superpositions=%d",
		s.Iterations, s.Decisions, s.Propagations, s.Conflicts, s.Bailouts,
		s.LemmasLearned, s.ForbiddenIntervalLemmas, s.ValueResolutionSteps, s.SuperpositionSteps,
	)
}
