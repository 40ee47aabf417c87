package lra

import (
	"fmt"
	"sort"
	"strings"
	"sync/atomic"
)

// varCounter hands out unique variable identities.
var varCounter atomic.Uint64

// Var is a real-valued symbolic variable.
// Vars are comparable and may be used as map keys; two Vars are the same
// variable only if they were returned by the same NewVar call.
type Var struct {
	id   uint64
	name string
}

// NewVar creates a fresh real variable with the given display name.
// Names are used for tracing and for the SMT-LIB rendering, so callers
// that talk to an external engine should keep them unique.
func NewVar(name string) Var {
	return Var{id: varCounter.Add(1), name: name}
}

// ID returns the unique identity of the variable.
func (v Var) ID() uint64 { return v.id }

// Name returns the display name.
func (v Var) Name() string { return v.name }

// String returns the display name, or "_<id>" for an unnamed variable.
func (v Var) String() string {
	if v.name == "" {
		return fmt.Sprintf("_%d", v.id)
	}
	return v.name
}

// Expr returns the expression 1*v.
func (v Var) Expr() Expr {
	return Expr{terms: []Term{{Var: v, Coef: One}}}
}

// Term is a single coefficient*variable product inside an Expr.
type Term struct {
	Var  Var
	Coef Rational
}

// Expr is a linear expression c1*v1 + ... + cn*vn + k with exact
// rational coefficients. Terms are kept sorted by variable identity with
// no zero coefficients, so structurally equal expressions print equally.
//
// Exprs are immutable; all operations return new values.
type Expr struct {
	terms []Term
	konst Rational
}

// Const returns the constant expression q.
func Const(q Rational) Expr {
	return Expr{konst: q}
}

// Terms returns a copy of the variable terms.
func (e Expr) Terms() []Term {
	out := make([]Term, len(e.terms))
	copy(out, e.terms)
	return out
}

// Constant returns the constant part of e.
func (e Expr) Constant() Rational { return e.konst }

// IsConst reports whether e has no variable terms.
func (e Expr) IsConst() bool { return len(e.terms) == 0 }

// Coef returns the coefficient of v in e (zero when v does not occur).
func (e Expr) Coef(v Var) Rational {
	i := sort.Search(len(e.terms), func(i int) bool { return e.terms[i].Var.id >= v.id })
	if i < len(e.terms) && e.terms[i].Var.id == v.id {
		return e.terms[i].Coef
	}
	return Zero
}

// Has reports whether v occurs in e.
func (e Expr) Has(v Var) bool {
	return !e.Coef(v).IsZero()
}

// Vars returns the variables of e in identity order.
func (e Expr) Vars() []Var {
	out := make([]Var, len(e.terms))
	for i, t := range e.terms {
		out[i] = t.Var
	}
	return out
}

// Add returns e + other.
func (e Expr) Add(other Expr) Expr {
	terms := make([]Term, 0, len(e.terms)+len(other.terms))
	i, j := 0, 0
	for i < len(e.terms) || j < len(other.terms) {
		switch {
		case j >= len(other.terms) || (i < len(e.terms) && e.terms[i].Var.id < other.terms[j].Var.id):
			terms = append(terms, e.terms[i])
			i++
		case i >= len(e.terms) || other.terms[j].Var.id < e.terms[i].Var.id:
			terms = append(terms, other.terms[j])
			j++
		default:
			c := e.terms[i].Coef.Add(other.terms[j].Coef)
			if !c.IsZero() {
				terms = append(terms, Term{Var: e.terms[i].Var, Coef: c})
			}
			i++
			j++
		}
	}
	return Expr{terms: terms, konst: e.konst.Add(other.konst)}
}

// Sub returns e - other.
func (e Expr) Sub(other Expr) Expr {
	return e.Add(other.Scale(Int(-1)))
}

// AddConst returns e + q.
func (e Expr) AddConst(q Rational) Expr {
	return Expr{terms: e.terms, konst: e.konst.Add(q)}
}

// Scale returns q*e.
func (e Expr) Scale(q Rational) Expr {
	if q.IsZero() {
		return Expr{}
	}
	terms := make([]Term, len(e.terms))
	for i, t := range e.terms {
		terms[i] = Term{Var: t.Var, Coef: t.Coef.Mul(q)}
	}
	return Expr{terms: terms, konst: e.konst.Mul(q)}
}

// Neg returns -e.
func (e Expr) Neg() Expr { return e.Scale(Int(-1)) }

// Half returns e/2, the building block of every midpoint.
func (e Expr) Half() Expr { return e.Scale(Half) }

// Substitute returns e with every occurrence of v replaced by r.
func (e Expr) Substitute(v Var, r Expr) Expr {
	c := e.Coef(v)
	if c.IsZero() {
		return e
	}
	rest := e.Add(v.Expr().Scale(c.Neg()))
	return rest.Add(r.Scale(c))
}

// Eval evaluates e under the assignment. Variables missing from the
// assignment evaluate to zero, matching model completion in the solver.
func (e Expr) Eval(assign map[Var]Rational) Rational {
	sum := e.konst
	for _, t := range e.terms {
		sum = sum.Add(t.Coef.Mul(assign[t.Var]))
	}
	return sum
}

// Equal reports whether e and other are the same linear expression.
func (e Expr) Equal(other Expr) bool {
	if len(e.terms) != len(other.terms) || !e.konst.Equals(other.konst) {
		return false
	}
	for i := range e.terms {
		if e.terms[i].Var != other.terms[i].Var || !e.terms[i].Coef.Equals(other.terms[i].Coef) {
			return false
		}
	}
	return true
}

// String renders e as "1/2*x0 + 1/2*x1 - 1".
func (e Expr) String() string {
	if len(e.terms) == 0 {
		return e.konst.String()
	}
	var b strings.Builder
	for i, t := range e.terms {
		c := t.Coef
		switch {
		case i == 0 && c.IsNegative():
			b.WriteString("-")
			c = c.Neg()
		case i > 0 && c.IsNegative():
			b.WriteString(" - ")
			c = c.Neg()
		case i > 0:
			b.WriteString(" + ")
		}
		if !c.Equals(One) {
			b.WriteString(c.String())
			b.WriteString("*")
		}
		b.WriteString(t.Var.String())
	}
	switch {
	case e.konst.IsNegative():
		b.WriteString(" - ")
		b.WriteString(e.konst.Neg().String())
	case e.konst.IsPositive():
		b.WriteString(" + ")
		b.WriteString(e.konst.String())
	}
	return b.String()
}

// key is a canonical text form of the variable part of e, used to spot
// parallel constraints.
func (e Expr) key() string {
	var b strings.Builder
	for _, t := range e.terms {
		fmt.Fprintf(&b, "%d:%s;", t.Var.id, t.Coef.String())
	}
	return b.String()
}
