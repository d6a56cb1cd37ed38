package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/crillab/bvsat/poly"
	"github.com/crillab/bvsat/solver"
	"github.com/pkg/errors"
)

// Script is the minimal line-oriented assertion script SPEC_FULL.md's CLI
// section describes: one command per line, building a single Solver and
// driving it to completion. This is intentionally small — the real
// front-end this engine would ship behind is an SMT-LIB parser, explicitly
// out of scope per spec.md §1 ("test harness and any SMT-LIB front-end").
//
// Grammar (one command per line, blank lines and lines starting with '#'
// ignored):
//
//	var   <name> <width>
//	eq    <width> <expr>
//	diseq <width> <expr>
//	ule   <width> <expr> <expr>
//	ult   <width> <expr> <expr>
//	sle   <width> <expr> <expr>
//	slt   <width> <expr> <expr>
//	push
//	pop   <n>
//	check
//	core
//	stats
//
// expr is a sum of terms, each a declared variable name with an optional
// integer coefficient written before it as "<literal>*", or a bare integer
// constant, e.g. "2*a+b+1" or "-a+3".
type Script struct {
	lines []scriptLine
}

type scriptLine struct {
	no   int
	cmd  string
	args []string
}

// ParseScript tokenizes r into a Script, without yet resolving variable
// names (that happens during Run, against the Solver being built).
func ParseScript(r io.Reader) (*Script, error) {
	sc := bufio.NewScanner(r)
	var lines []scriptLine
	lineNo := 0
	for sc.Scan() {
		lineNo++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.Fields(text)
		lines = append(lines, scriptLine{no: lineNo, cmd: fields[0], args: fields[1:]})
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(err, "reading script")
	}
	return &Script{lines: lines}, nil
}

// Run executes every command against a fresh Solver, writing check/core/
// stats output to out.
func (s *Script) Run(out io.Writer) error {
	return s.RunWithLimits(out, nil)
}

// RunWithLimits is Run with a resource limiter installed on the Solver
// before any command executes, so --timeout/--max-iterations bound the
// very first check command in the script.
func (s *Script) RunWithLimits(out io.Writer, limiter solver.ResourceLimiter) error {
	sv := solver.New()
	if limiter != nil {
		sv.SetResourceLimiter(limiter)
	}
	vars := make(map[string]solver.PVar)

	for _, ln := range s.lines {
		switch ln.cmd {
		case "var":
			if len(ln.args) != 2 {
				return errors.Errorf("line %d: var needs <name> <width>", ln.no)
			}
			w, err := strconv.Atoi(ln.args[1])
			if err != nil {
				return errors.Wrapf(err, "line %d: bad width", ln.no)
			}
			width := solver.Width(w)
			v := sv.AddVar(width)
			vars[ln.args[0]] = v

		case "eq", "diseq":
			if len(ln.args) != 2 {
				return errors.Errorf("line %d: %s needs <width> <expr>", ln.no, ln.cmd)
			}
			width, p, err := parseTypedExpr(sv, vars, ln.args[0], ln.args[1])
			if err != nil {
				return errors.Wrapf(err, "line %d", ln.no)
			}
			if ln.cmd == "eq" {
				sv.AddEq(width, p, solver.DepTag(ln.no))
			} else {
				sv.AddDiseq(width, p, solver.DepTag(ln.no))
			}

		case "ule", "ult", "sle", "slt":
			if len(ln.args) != 3 {
				return errors.Errorf("line %d: %s needs <width> <expr> <expr>", ln.no, ln.cmd)
			}
			width, p, err := parseTypedExpr(sv, vars, ln.args[0], ln.args[1])
			if err != nil {
				return errors.Wrapf(err, "line %d", ln.no)
			}
			_, q, err := parseTypedExpr(sv, vars, ln.args[0], ln.args[2])
			if err != nil {
				return errors.Wrapf(err, "line %d", ln.no)
			}
			switch ln.cmd {
			case "ule":
				sv.AddULE(width, p, q, solver.DepTag(ln.no))
			case "ult":
				sv.AddULT(width, p, q, solver.DepTag(ln.no))
			case "sle":
				sv.AddSLE(width, p, q, solver.DepTag(ln.no))
			case "slt":
				sv.AddSLT(width, p, q, solver.DepTag(ln.no))
			}

		case "push":
			sv.Push()

		case "pop":
			if len(ln.args) != 1 {
				return errors.Errorf("line %d: pop needs <n>", ln.no)
			}
			n, err := strconv.Atoi(ln.args[0])
			if err != nil {
				return errors.Wrapf(err, "line %d: bad pop count", ln.no)
			}
			sv.Pop(n)

		case "check":
			status := sv.CheckSat()
			fmt.Fprintln(out, status)

		case "core":
			for _, tag := range sv.UnsatCore() {
				fmt.Fprintf(out, "%d\n", tag)
			}

		case "stats":
			fmt.Fprintln(out, sv.CollectStatistics())

		default:
			return errors.Errorf("line %d: unknown command %q", ln.no, ln.cmd)
		}
	}
	return nil
}

// parseTypedExpr parses a width token plus an expr token together, fetching
// the width's poly.Manager once per call. ule/ult/sle/slt lines carry a
// single width, which the caller passes here for each of the two operands.
func parseTypedExpr(sv *solver.Solver, vars map[string]solver.PVar, widthTok, exprTok string) (solver.Width, poly.Poly, error) {
	w, err := strconv.Atoi(widthTok)
	if err != nil {
		return 0, nil, errors.Wrap(err, "bad width")
	}
	width := solver.Width(w)
	p, err := parseExpr(sv.Poly(width), vars, exprTok)
	return width, p, err
}

// parseExpr parses a '+'-separated sum of terms into a poly.Poly using m.
func parseExpr(m poly.Manager, vars map[string]solver.PVar, expr string) (poly.Poly, error) {
	terms := splitTerms(expr)
	out := m.MkVal(0)
	for _, t := range terms {
		p, err := parseTerm(m, vars, t)
		if err != nil {
			return nil, err
		}
		out = m.Add(out, p)
	}
	return out, nil
}

// splitTerms splits on '+' and '-', keeping the sign attached to each term.
func splitTerms(expr string) []string {
	var terms []string
	start := 0
	for i := 1; i < len(expr); i++ {
		if expr[i] == '+' || expr[i] == '-' {
			terms = append(terms, expr[start:i])
			start = i
		}
	}
	terms = append(terms, expr[start:])
	return terms
}

func parseTerm(m poly.Manager, vars map[string]solver.PVar, term string) (poly.Poly, error) {
	term = strings.TrimSpace(term)
	neg := false
	if strings.HasPrefix(term, "+") {
		term = term[1:]
	} else if strings.HasPrefix(term, "-") {
		neg = true
		term = term[1:]
	}
	var p poly.Poly
	if idx := strings.Index(term, "*"); idx >= 0 {
		coeffTok, nameTok := term[:idx], term[idx+1:]
		coeff, err := strconv.ParseUint(coeffTok, 10, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "bad coefficient in term %q", term)
		}
		v, ok := vars[nameTok]
		if !ok {
			return nil, errors.Errorf("undeclared variable %q", nameTok)
		}
		p = m.Mul(m.MkVal(coeff), m.MkVar(poly.Var(v)))
	} else if v, ok := vars[term]; ok {
		p = m.MkVar(poly.Var(v))
	} else {
		val, err := strconv.ParseUint(term, 10, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "bad term %q", term)
		}
		p = m.MkVal(val)
	}
	if neg {
		p = m.Neg(p)
	}
	return p, nil
}
