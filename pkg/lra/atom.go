package lra

import "fmt"

// Atom is the linear comparison Expr < 0 (Strict) or Expr <= 0.
//
// Every comparison reduces to this single shape: a >= b is b - a <= 0,
// a > b is b - a < 0, and the negation of an atom is again an atom
// (¬(e <= 0) is -e < 0). Equalities and disequalities are formulas, not
// atoms; see Eq and Neq.
type Atom struct {
	Expr   Expr
	Strict bool
}

// Le returns the atom a <= b.
func Le(a, b Expr) Atom { return Atom{Expr: a.Sub(b)} }

// Lt returns the atom a < b.
func Lt(a, b Expr) Atom { return Atom{Expr: a.Sub(b), Strict: true} }

// Ge returns the atom a >= b.
func Ge(a, b Expr) Atom { return Atom{Expr: b.Sub(a)} }

// Gt returns the atom a > b.
func Gt(a, b Expr) Atom { return Atom{Expr: b.Sub(a), Strict: true} }

// Negate returns the atom equivalent to ¬a.
func (a Atom) Negate() Atom {
	return Atom{Expr: a.Expr.Neg(), Strict: !a.Strict}
}

// IsConst reports whether a mentions no variables.
func (a Atom) IsConst() bool { return a.Expr.IsConst() }

// Truth evaluates a constant atom. The result is meaningless when a is
// not constant.
func (a Atom) Truth() bool {
	s := a.Expr.Constant().Sign()
	if a.Strict {
		return s < 0
	}
	return s <= 0
}

// Holds evaluates a under the assignment.
func (a Atom) Holds(assign map[Var]Rational) bool {
	s := a.Expr.Eval(assign).Sign()
	if a.Strict {
		return s < 0
	}
	return s <= 0
}

// Canonical returns the representative of the pair {a, ¬a} whose leading
// coefficient is exactly 1, and whether a itself (rather than its
// negation) is equivalent to that representative.
//
// Two atoms that differ only by a positive factor share a representative,
// which lets a boolean engine use one variable for both.
func (a Atom) Canonical() (Atom, bool) {
	if a.IsConst() {
		return a, true
	}
	lead := a.Expr.terms[0].Coef
	if lead.IsPositive() {
		return Atom{Expr: a.Expr.Scale(lead.Inv()), Strict: a.Strict}, true
	}
	n := a.Negate()
	return Atom{Expr: n.Expr.Scale(lead.Neg().Inv()), Strict: n.Strict}, false
}

// Key identifies a canonical atom textually.
func (a Atom) Key() string {
	op := "<="
	if a.Strict {
		op = "<"
	}
	return fmt.Sprintf("%s|%s|%s", a.Expr.key(), a.Expr.Constant().String(), op)
}

// String renders a with the constant moved to the right-hand side,
// e.g. "x0 - x1 <= 1/2".
func (a Atom) String() string {
	op := "<="
	if a.Strict {
		op = "<"
	}
	lhs := Expr{terms: a.Expr.terms}
	return fmt.Sprintf("%s %s %s", lhs.String(), op, a.Expr.Constant().Neg().String())
}

func (Atom) formula() {}
