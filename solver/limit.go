package solver

import "time"

// ResourceLimiter is consulted between search iterations (spec.md §5:
// "Resource limit consulted between iterations; when exhausted, check
// returns unknown"). The zero value of any type satisfying this interface
// that always returns false imposes no limit.
type ResourceLimiter interface {
	Exhausted(stats *Stats) bool
}

// IterationLimiter bounds the number of search loop iterations, the
// simplest limiter a CLI front-end needs to guarantee termination on
// pathological input.
type IterationLimiter struct {
	Max int64
}

func (l IterationLimiter) Exhausted(stats *Stats) bool {
	return l.Max > 0 && stats.Iterations > l.Max
}

// TimeLimiter bounds wall-clock search time.
type TimeLimiter struct {
	Deadline time.Time
}

func (l TimeLimiter) Exhausted(stats *Stats) bool {
	return !l.Deadline.IsZero() && time.Now().After(l.Deadline)
}

// anyOfLimiter combines several limiters: exhausted as soon as any one of
// them is, the natural composition for a CLI that accepts both --timeout
// and --max-iterations.
type anyOfLimiter struct {
	limiters []ResourceLimiter
}

// AnyOf combines limiters into one that is exhausted as soon as any
// constituent limiter is.
func AnyOf(limiters ...ResourceLimiter) ResourceLimiter {
	return anyOfLimiter{limiters: limiters}
}

func (a anyOfLimiter) Exhausted(stats *Stats) bool {
	for _, l := range a.limiters {
		if l.Exhausted(stats) {
			return true
		}
	}
	return false
}
