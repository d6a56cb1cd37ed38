package dd

import (
	"fmt"
	"sort"
	"strings"
)

// interval is a canonical, non-wrapping half-open piece [lo, lo+length) of
// ℤ/2^wℤ. length is stored rather than an explicit hi so that the one case
// that cannot be expressed as a plain lo/hi pair on a 64-bit width (a piece
// covering the entire domain) never has to be represented at all: it is
// instead the predicate.full sentinel below.
type interval struct {
	lo     uint64
	length uint64
}

// predicate is the reference decidable predicate: a sorted list of
// disjoint, non-adjacent (i.e. already merged) intervals. full, when set,
// means "every residue", used only because a width-64 domain's size (2^64)
// itself has no uint64 representation.
type predicate struct {
	width uint
	full  bool
	ivs   []interval
}

func maskOf(width uint) uint64 {
	if width >= 64 {
		return ^uint64(0)
	}
	return (uint64(1) << width) - 1
}

func (p *predicate) Width() uint { return p.width }

func (p *predicate) IsFalse() bool { return !p.full && len(p.ivs) == 0 }

func (p *predicate) Contains(k uint64) bool {
	if p.full {
		return true
	}
	k &= maskOf(p.width)
	i := sort.Search(len(p.ivs), func(i int) bool { return p.ivs[i].lo+p.ivs[i].length > k })
	return i < len(p.ivs) && p.ivs[i].lo <= k
}

func (p *predicate) String() string {
	if p.full {
		return "all"
	}
	if len(p.ivs) == 0 {
		return "none"
	}
	var b strings.Builder
	for i, iv := range p.ivs {
		if i > 0 {
			b.WriteString(" u ")
		}
		fmt.Fprintf(&b, "[%d,%d)", iv.lo, iv.lo+iv.length)
	}
	return b.String()
}

// normalize sorts and merges adjacent/overlapping intervals, and collapses
// to the full sentinel when the pieces cover the entire width-2^width
// domain (only possible to detect this way when width < 64; width == 64
// never constructs that case, see the interval type's comment).
func normalize(width uint, ivs []interval) *predicate {
	sort.Slice(ivs, func(i, j int) bool { return ivs[i].lo < ivs[j].lo })
	out := ivs[:0]
	for _, iv := range ivs {
		if iv.length == 0 {
			continue
		}
		if n := len(out); n > 0 && out[n-1].lo+out[n-1].length >= iv.lo {
			end := out[n-1].lo + out[n-1].length
			if newEnd := iv.lo + iv.length; newEnd > end {
				out[n-1].length = newEnd - out[n-1].lo
			}
			continue
		}
		out = append(out, iv)
	}
	if width < 64 && len(out) == 1 && out[0].lo == 0 && out[0].length == maskOf(width)+1 {
		return &predicate{width: width, full: true}
	}
	return &predicate{width: width, ivs: out}
}

func (p *predicate) And(other Predicate) Predicate {
	q, ok := other.(*predicate)
	if !ok || q.width != p.width {
		panic("dd: predicate from a different width")
	}
	if p.full {
		return q
	}
	if q.full {
		return p
	}
	var out []interval
	i, j := 0, 0
	for i < len(p.ivs) && j < len(q.ivs) {
		a, b := p.ivs[i], q.ivs[j]
		lo := max64(a.lo, b.lo)
		hi := min64(a.lo+a.length, b.lo+b.length)
		if lo < hi {
			out = append(out, interval{lo: lo, length: hi - lo})
		}
		if a.lo+a.length < b.lo+b.length {
			i++
		} else {
			j++
		}
	}
	return normalize(p.width, out)
}

func (p *predicate) Not() Predicate {
	if p.full {
		return &predicate{width: p.width}
	}
	if len(p.ivs) == 0 {
		return &predicate{width: p.width, full: true}
	}
	var out []interval
	prev := uint64(0)
	for _, iv := range p.ivs {
		if iv.lo > prev {
			out = append(out, interval{lo: prev, length: iv.lo - prev})
		}
		prev = iv.lo + iv.length
	}
	if p.width < 64 {
		m := maskOf(p.width) + 1
		if prev < m {
			out = append(out, interval{lo: prev, length: m - prev})
		}
	} else if prev != 0 {
		// prev == 2^64 would overflow to 0; anything else means residues
		// [prev, 2^64) remain, expressible since that length is <= 2^64-1.
		out = append(out, interval{lo: prev, length: 0 - prev})
	}
	return normalize(p.width, out)
}

func (p *predicate) Find(hint uint64) FindResult {
	if p.IsFalse() {
		return FindResult{Kind: Empty}
	}
	if p.full {
		return FindResult{Kind: Multiple, Value: hint & maskOf(p.width)}
	}
	total := uint64(0)
	for _, iv := range p.ivs {
		total += iv.length
		if total > 1 {
			break
		}
	}
	if total == 1 {
		return FindResult{Kind: Singleton, Value: p.ivs[0].lo}
	}
	if p.Contains(hint) {
		return FindResult{Kind: Multiple, Value: hint & maskOf(p.width)}
	}
	return FindResult{Kind: Multiple, Value: p.ivs[0].lo}
}

func max64(a, b uint64) uint64 {
	if a > b {
		return a
	}
	return b
}

func min64(a, b uint64) uint64 {
	if a < b {
		return a
	}
	return b
}

// provider implements Provider for a fixed width.
type provider struct {
	width        uint
	enumWidthCap uint
}

// NewProvider returns a reference Provider for the domain ℤ/2^width.
// Compare is computed exactly by direct enumeration for width <=
// enumerationWidthLimit (fast for every width this repo's tests exercise);
// wider widths are the domain of the external, production PDD/DD engine
// this package's interface stands in for, and are documented as such in
// DESIGN.md rather than approximated unsoundly here.
func NewProvider(width uint) Provider {
	return &provider{width: width, enumWidthCap: enumerationWidthLimit}
}

const enumerationWidthLimit = 24

func (pr *provider) Width() uint { return pr.width }

func (pr *provider) True() Predicate {
	if pr.width < 64 {
		return &predicate{width: pr.width, ivs: []interval{{lo: 0, length: maskOf(pr.width) + 1}}}
	}
	return &predicate{width: pr.width, full: true}
}

func (pr *provider) False() Predicate {
	return &predicate{width: pr.width}
}

func (pr *provider) Point(k uint64) Predicate {
	return &predicate{width: pr.width, ivs: []interval{{lo: k & maskOf(pr.width), length: 1}}}
}

func (pr *provider) NotPoint(k uint64) Predicate {
	return pr.Point(k).(*predicate).Not()
}

// Compare builds the exact solution set of a*x+b ⋈ c*x+d by direct
// enumeration over ℤ/2^width. See NewProvider and DESIGN.md for why this
// is deliberately bounded to small widths.
func (pr *provider) Compare(a, b, c, d uint64, kind CompareKind) Predicate {
	if pr.width > pr.enumWidthCap {
		panic(fmt.Sprintf("dd: exact Compare unsupported for width %d > %d (reference engine limitation, see DESIGN.md)", pr.width, pr.enumWidthCap))
	}
	mask := maskOf(pr.width)
	m := mask + 1
	var ivs []interval
	var runStart uint64
	inRun := false
	for k := uint64(0); k < m; k++ {
		lhs := (a*k + b) & mask
		rhs := (c*k + d) & mask
		var hold bool
		switch kind {
		case CompareEq:
			hold = lhs == rhs
		case CompareULE:
			hold = lhs <= rhs
		}
		if hold && !inRun {
			runStart = k
			inRun = true
		} else if !hold && inRun {
			ivs = append(ivs, interval{lo: runStart, length: k - runStart})
			inRun = false
		}
	}
	if inRun {
		ivs = append(ivs, interval{lo: runStart, length: m - runStart})
	}
	return normalize(pr.width, ivs)
}
