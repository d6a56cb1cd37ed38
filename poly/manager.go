package poly

import (
	"fmt"
	"sort"
	"strings"
)

// factor is one variable raised to a power inside a monomial.
type factor struct {
	v   Var
	exp uint
}

// term is a single monomial-coefficient pair. mono is kept sorted by
// ascending Var with no zero-exponent or duplicate-Var factors: that is the
// canonical form every constructor below maintains.
type term struct {
	mono  []factor
	coeff uint64
}

// poly is the concrete Poly implementation: a sparse sum of terms, keyed by
// a string encoding of the monomial so equal monomials collapse under
// addition. This mirrors the "sparse map keyed by canonical form" shape used
// throughout the retrieval pack's constraint-system code
// (Consensys-go-corset's term.go) for multivariate polynomials, adapted to
// operate mod 2^width instead of over a field.
type poly struct {
	width uint
	terms map[string]term
}

func (p *poly) Width() uint { return p.width }

func monoKey(mono []factor) string {
	if len(mono) == 0 {
		return ""
	}
	var b strings.Builder
	for i, f := range mono {
		if i > 0 {
			b.WriteByte('|')
		}
		fmt.Fprintf(&b, "%d:%d", f.v, f.exp)
	}
	return b.String()
}

func mulMono(a, b []factor) []factor {
	out := make([]factor, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i].v < b[j].v:
			out = append(out, a[i])
			i++
		case a[i].v > b[j].v:
			out = append(out, b[j])
			j++
		default:
			out = append(out, factor{v: a[i].v, exp: a[i].exp + b[j].exp})
			i, j = i+1, j+1
		}
	}
	out = append(out, a[i:]...)
	out = append(out, b[j:]...)
	return out
}

// manager implements Manager over a fixed bit-width using the sparse poly
// representation above.
type manager struct {
	width uint
	mask  uint64
}

// NewManager returns a reference Manager for the ring ℤ/2^width. width must
// be in [1, 64].
func NewManager(width uint) Manager {
	if width == 0 || width > 64 {
		panic("poly: width out of range")
	}
	return &manager{width: width, mask: maskOf(width)}
}

func maskOf(width uint) uint64 {
	if width >= 64 {
		return ^uint64(0)
	}
	return (uint64(1) << width) - 1
}

func (m *manager) Width() uint { return m.width }

func (m *manager) newPoly() *poly {
	return &poly{width: m.width, terms: make(map[string]term)}
}

func (m *manager) addTerm(p *poly, mono []factor, coeff uint64) {
	coeff &= m.mask
	key := monoKey(mono)
	t, ok := p.terms[key]
	if !ok {
		if coeff != 0 {
			p.terms[key] = term{mono: mono, coeff: coeff}
		}
		return
	}
	sum := (t.coeff + coeff) & m.mask
	if sum == 0 {
		delete(p.terms, key)
	} else {
		p.terms[key] = term{mono: t.mono, coeff: sum}
	}
}

func (m *manager) MkVar(v Var) Poly {
	p := m.newPoly()
	m.addTerm(p, []factor{{v: v, exp: 1}}, 1)
	return p
}

func (m *manager) MkVal(val uint64) Poly {
	p := m.newPoly()
	if val&m.mask != 0 {
		m.addTerm(p, nil, val)
	}
	return p
}

func (m *manager) as(x Poly) *poly {
	p, ok := x.(*poly)
	if !ok || p.width != m.width {
		panic("poly: value from a different Manager")
	}
	return p
}

func (m *manager) Add(a, b Poly) Poly {
	pa, pb := m.as(a), m.as(b)
	out := m.newPoly()
	for _, t := range pa.terms {
		m.addTerm(out, t.mono, t.coeff)
	}
	for _, t := range pb.terms {
		m.addTerm(out, t.mono, t.coeff)
	}
	return out
}

func (m *manager) Neg(a Poly) Poly {
	pa := m.as(a)
	out := m.newPoly()
	for _, t := range pa.terms {
		m.addTerm(out, t.mono, (^t.coeff + 1) & m.mask)
	}
	return out
}

func (m *manager) Mul(a, b Poly) Poly {
	pa, pb := m.as(a), m.as(b)
	out := m.newPoly()
	for _, ta := range pa.terms {
		for _, tb := range pb.terms {
			m.addTerm(out, mulMono(ta.mono, tb.mono), ta.coeff*tb.coeff)
		}
	}
	return out
}

func (m *manager) Val(p Poly) (uint64, bool) {
	pp := m.as(p)
	if len(pp.terms) == 0 {
		return 0, true
	}
	if len(pp.terms) == 1 {
		if t, ok := pp.terms[""]; ok {
			return t.coeff, true
		}
	}
	return 0, false
}

func (m *manager) FreeVars(p Poly) []Var {
	pp := m.as(p)
	seen := make(map[Var]bool)
	for _, t := range pp.terms {
		for _, f := range t.mono {
			if f.exp > 0 {
				seen[f.v] = true
			}
		}
	}
	out := make([]Var, 0, len(seen))
	for v := range seen {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (m *manager) Degree(p Poly, v Var) uint {
	pp := m.as(p)
	var deg uint
	for _, t := range pp.terms {
		for _, f := range t.mono {
			if f.v == v && f.exp > deg {
				deg = f.exp
			}
		}
	}
	return deg
}

func (m *manager) IsUnilinear(p Poly) (uint64, Var, uint64, bool) {
	pp := m.as(p)
	free := m.FreeVars(p)
	if len(free) == 0 {
		val, _ := m.Val(p)
		return 0, 0, val, true
	}
	if len(free) > 1 {
		return 0, 0, 0, false
	}
	v := free[0]
	if m.Degree(p, v) > 1 {
		return 0, 0, 0, false
	}
	var coeff, constant uint64
	for _, t := range pp.terms {
		switch len(t.mono) {
		case 0:
			constant = t.coeff
		case 1:
			if t.mono[0].v == v && t.mono[0].exp == 1 {
				coeff = t.coeff
			} else {
				return 0, 0, 0, false
			}
		default:
			return 0, 0, 0, false
		}
	}
	return coeff, v, constant, true
}

func (m *manager) Factor(p Poly, v Var, degree uint) (Poly, Poly, bool) {
	pp := m.as(p)
	if degree == 0 {
		return p, m.MkVal(0), true
	}
	if m.Degree(p, v) < degree {
		return nil, nil, false
	}
	q, rem := m.newPoly(), m.newPoly()
	for _, t := range pp.terms {
		exp := uint(0)
		rest := make([]factor, 0, len(t.mono))
		for _, f := range t.mono {
			if f.v == v {
				exp = f.exp
			} else {
				rest = append(rest, f)
			}
		}
		if exp >= degree {
			mono := rest
			if leftover := exp - degree; leftover > 0 {
				mono = mulMono(rest, []factor{{v: v, exp: leftover}})
			}
			m.addTerm(q, mono, t.coeff)
		} else {
			m.addTerm(rem, t.mono, t.coeff)
		}
	}
	return q, rem, true
}

func (m *manager) TryDiv(p Poly, coeff uint64) (Poly, bool) {
	if coeff&1 == 0 {
		return nil, false
	}
	inv := modInverseOdd(coeff, m.width)
	pp := m.as(p)
	out := m.newPoly()
	for _, t := range pp.terms {
		m.addTerm(out, t.mono, t.coeff*inv)
	}
	return out, true
}

// modInverseOdd returns the multiplicative inverse of the odd residue coeff
// modulo 2^width, via Newton-Raphson iteration (x_{n+1} = x_n*(2-coeff*x_n)),
// which converges in O(log width) steps since precision doubles each round.
func modInverseOdd(coeff uint64, width uint) uint64 {
	mask := maskOf(width)
	x := uint64(1)
	for i := 0; i < 7; i++ { // 2^7 = 128 >= 64 bits of precision
		x = (x * (2 - coeff*x)) & mask
	}
	return x & mask
}

func (m *manager) SubstVal(p Poly, assignment map[Var]uint64) Poly {
	pp := m.as(p)
	out := m.newPoly()
	for _, t := range pp.terms {
		coeff := t.coeff
		var rest []factor
		for _, f := range t.mono {
			if val, ok := assignment[f.v]; ok {
				coeff *= modPow(val, f.exp, m.mask)
			} else {
				rest = append(rest, f)
			}
		}
		m.addTerm(out, rest, coeff)
	}
	return out
}

func modPow(base uint64, exp uint, mask uint64) uint64 {
	result := uint64(1)
	base &= mask
	for exp > 0 {
		if exp&1 == 1 {
			result = (result * base) & mask
		}
		base = (base * base) & mask
		exp >>= 1
	}
	return result
}

func (m *manager) Resolve(p, q Poly, v Var) (Poly, bool) {
	a, pv, _, ok := m.IsUnilinear(p)
	if !ok || pv != v || a == 0 {
		return nil, false
	}
	b, qv, _, ok2 := m.IsUnilinear(q)
	if !ok2 || qv != v || b == 0 {
		return nil, false
	}
	// resolvent = b*p - a*q; the v-terms cancel exactly (b*a - a*b == 0)
	// regardless of whether a or b is a unit, per the superposition rule.
	bp := m.Mul(m.MkVal(b), p)
	aq := m.Mul(m.MkVal(a), q)
	return m.Add(bp, m.Neg(aq)), true
}

func (m *manager) String(p Poly) string {
	pp := m.as(p)
	if len(pp.terms) == 0 {
		return "0"
	}
	keys := make([]string, 0, len(pp.terms))
	for k := range pp.terms {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	for i, k := range keys {
		t := pp.terms[k]
		if i > 0 {
			b.WriteString(" + ")
		}
		fmt.Fprintf(&b, "%d", t.coeff)
		for _, f := range t.mono {
			fmt.Fprintf(&b, "*x%d^%d", f.v, f.exp)
		}
	}
	return b.String()
}
