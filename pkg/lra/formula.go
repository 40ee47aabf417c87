package lra

import (
	"sort"
	"strings"
)

// Formula is a first-order formula over linear real atoms.
//
// The concrete types are Atom, Bool, And, Or, Not, Implies, ForAll and
// Exists. Formulas are immutable trees; constructors never share mutable
// state between the formulas they return.
type Formula interface {
	String() string
	formula()
}

// Bool is a truth constant.
type Bool bool

// Truth constants.
const (
	True  Bool = true
	False Bool = false
)

func (b Bool) String() string {
	if b {
		return "True"
	}
	return "False"
}

func (Bool) formula() {}

// And is the conjunction of its members; the empty And is true.
type And []Formula

func (f And) String() string { return renderList("And", f) }
func (And) formula()         {}

// Or is the disjunction of its members; the empty Or is false.
type Or []Formula

func (f Or) String() string { return renderList("Or", f) }
func (Or) formula()         {}

// Not negates F.
type Not struct{ F Formula }

func (f Not) String() string { return "Not(" + f.F.String() + ")" }
func (Not) formula()         {}

// Implies is If ⇒ Then.
type Implies struct{ If, Then Formula }

func (f Implies) String() string {
	return "Implies(" + f.If.String() + ", " + f.Then.String() + ")"
}
func (Implies) formula() {}

// ForAll universally quantifies Vars in Body.
type ForAll struct {
	Vars []Var
	Body Formula
}

func (f ForAll) String() string { return renderQuant("ForAll", f.Vars, f.Body) }
func (ForAll) formula()         {}

// Exists existentially quantifies Vars in Body.
type Exists struct {
	Vars []Var
	Body Formula
}

func (f Exists) String() string { return renderQuant("Exists", f.Vars, f.Body) }
func (Exists) formula()         {}

// Eq returns the formula a = b.
func Eq(a, b Expr) Formula {
	return And{Le(a, b), Ge(a, b)}
}

// Neq returns the formula a ≠ b.
func Neq(a, b Expr) Formula {
	return Or{Lt(a, b), Gt(a, b)}
}

// Within returns lo <= e <= hi.
func Within(e, lo, hi Expr) Formula {
	return And{Ge(e, lo), Le(e, hi)}
}

// FreeVars returns the variables occurring free in f, in identity order.
func FreeVars(f Formula) []Var {
	seen := make(map[Var]bool)
	collectFree(f, map[Var]bool{}, seen)
	out := make([]Var, 0, len(seen))
	for v := range seen {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].id < out[j].id })
	return out
}

func collectFree(f Formula, bound, seen map[Var]bool) {
	switch g := f.(type) {
	case Atom:
		for _, t := range g.Expr.terms {
			if !bound[t.Var] {
				seen[t.Var] = true
			}
		}
	case And:
		for _, c := range g {
			collectFree(c, bound, seen)
		}
	case Or:
		for _, c := range g {
			collectFree(c, bound, seen)
		}
	case Not:
		collectFree(g.F, bound, seen)
	case Implies:
		collectFree(g.If, bound, seen)
		collectFree(g.Then, bound, seen)
	case ForAll:
		collectFree(g.Body, withBound(bound, g.Vars), seen)
	case Exists:
		collectFree(g.Body, withBound(bound, g.Vars), seen)
	}
}

func withBound(bound map[Var]bool, vs []Var) map[Var]bool {
	nb := make(map[Var]bool, len(bound)+len(vs))
	for v := range bound {
		nb[v] = true
	}
	for _, v := range vs {
		nb[v] = true
	}
	return nb
}

// Substitute replaces free occurrences of v in f with e.
func Substitute(f Formula, v Var, e Expr) Formula {
	switch g := f.(type) {
	case Atom:
		return Atom{Expr: g.Expr.Substitute(v, e), Strict: g.Strict}
	case And:
		out := make(And, len(g))
		for i, c := range g {
			out[i] = Substitute(c, v, e)
		}
		return out
	case Or:
		out := make(Or, len(g))
		for i, c := range g {
			out[i] = Substitute(c, v, e)
		}
		return out
	case Not:
		return Not{F: Substitute(g.F, v, e)}
	case Implies:
		return Implies{If: Substitute(g.If, v, e), Then: Substitute(g.Then, v, e)}
	case ForAll:
		if binds(g.Vars, v) {
			return g
		}
		return ForAll{Vars: g.Vars, Body: Substitute(g.Body, v, e)}
	case Exists:
		if binds(g.Vars, v) {
			return g
		}
		return Exists{Vars: g.Vars, Body: Substitute(g.Body, v, e)}
	}
	return f
}

func binds(vs []Var, v Var) bool {
	for _, b := range vs {
		if b == v {
			return true
		}
	}
	return false
}

// Eval evaluates a quantifier-free formula under the assignment.
// Quantified sub-formulas evaluate to false; eliminate them first.
func Eval(f Formula, assign map[Var]Rational) bool {
	switch g := f.(type) {
	case Bool:
		return bool(g)
	case Atom:
		return g.Holds(assign)
	case And:
		for _, c := range g {
			if !Eval(c, assign) {
				return false
			}
		}
		return true
	case Or:
		for _, c := range g {
			if Eval(c, assign) {
				return true
			}
		}
		return false
	case Not:
		return !Eval(g.F, assign)
	case Implies:
		return !Eval(g.If, assign) || Eval(g.Then, assign)
	}
	return false
}

func renderList(op string, fs []Formula) string {
	parts := make([]string, len(fs))
	for i, f := range fs {
		parts[i] = f.String()
	}
	return op + "(" + strings.Join(parts, ", ") + ")"
}

func renderQuant(op string, vs []Var, body Formula) string {
	names := make([]string, len(vs))
	for i, v := range vs {
		names[i] = v.String()
	}
	return op + "([" + strings.Join(names, ", ") + "], " + body.String() + ")"
}
