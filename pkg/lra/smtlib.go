package lra

import (
	"fmt"
	"io"
	"strings"
)

// SMT renders f as an SMT-LIB2 term over sort Real.
func SMT(f Formula) string {
	var b strings.Builder
	writeSMT(&b, f)
	return b.String()
}

// WriteSMT writes the SMT-LIB2 rendering of f to w.
func WriteSMT(w io.Writer, f Formula) error {
	_, err := io.WriteString(w, SMT(f))
	return err
}

// SMTSymbol returns the SMT-LIB2 symbol for v, quoting it with bars when
// the name is not a plain simple symbol.
func SMTSymbol(v Var) string {
	name := v.String()
	simple := name != ""
	for i, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '_':
		case r >= '0' && r <= '9' && i > 0:
		default:
			simple = false
		}
	}
	if simple {
		return name
	}
	return "|" + strings.ReplaceAll(name, "|", "_") + "|"
}

// SMTNumeral renders q as an SMT-LIB2 Real term: 3.0, (/ 1.0 2.0),
// (- (/ 3.0 4.0)).
func SMTNumeral(q Rational) string {
	if q.IsNegative() {
		return "(- " + SMTNumeral(q.Neg()) + ")"
	}
	if q.IsInt() {
		return q.Num().String() + ".0"
	}
	return fmt.Sprintf("(/ %s.0 %s.0)", q.Num().String(), q.Den().String())
}

// SMTExpr renders a linear expression.
func SMTExpr(e Expr) string {
	parts := make([]string, 0, len(e.terms)+1)
	for _, t := range e.terms {
		if t.Coef.Equals(One) {
			parts = append(parts, SMTSymbol(t.Var))
			continue
		}
		parts = append(parts, fmt.Sprintf("(* %s %s)", SMTNumeral(t.Coef), SMTSymbol(t.Var)))
	}
	if !e.konst.IsZero() || len(parts) == 0 {
		parts = append(parts, SMTNumeral(e.konst))
	}
	if len(parts) == 1 {
		return parts[0]
	}
	return "(+ " + strings.Join(parts, " ") + ")"
}

func writeSMT(b *strings.Builder, f Formula) {
	switch g := f.(type) {
	case Bool:
		if g {
			b.WriteString("true")
		} else {
			b.WriteString("false")
		}
	case Atom:
		op := "<="
		if g.Strict {
			op = "<"
		}
		lhs := Expr{terms: g.Expr.terms}
		fmt.Fprintf(b, "(%s %s %s)", op, SMTExpr(lhs), SMTNumeral(g.Expr.konst.Neg()))
	case And:
		writeSMTList(b, "and", "true", g)
	case Or:
		writeSMTList(b, "or", "false", g)
	case Not:
		b.WriteString("(not ")
		writeSMT(b, g.F)
		b.WriteString(")")
	case Implies:
		b.WriteString("(=> ")
		writeSMT(b, g.If)
		b.WriteString(" ")
		writeSMT(b, g.Then)
		b.WriteString(")")
	case ForAll:
		writeSMTQuant(b, "forall", g.Vars, g.Body)
	case Exists:
		writeSMTQuant(b, "exists", g.Vars, g.Body)
	}
}

func writeSMTList(b *strings.Builder, op, empty string, fs []Formula) {
	switch len(fs) {
	case 0:
		b.WriteString(empty)
		return
	case 1:
		writeSMT(b, fs[0])
		return
	}
	b.WriteString("(" + op)
	for _, f := range fs {
		b.WriteString(" ")
		writeSMT(b, f)
	}
	b.WriteString(")")
}

func writeSMTQuant(b *strings.Builder, q string, vs []Var, body Formula) {
	if len(vs) == 0 {
		writeSMT(b, body)
		return
	}
	b.WriteString("(" + q + " (")
	for i, v := range vs {
		if i > 0 {
			b.WriteString(" ")
		}
		fmt.Fprintf(b, "(%s Real)", SMTSymbol(v))
	}
	b.WriteString(") ")
	writeSMT(b, body)
	b.WriteString(")")
}
