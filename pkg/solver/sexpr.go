package solver

// sexpr.go: the small subset of SMT-LIB2 s-expressions z3 answers with

import (
	"fmt"
	"strings"

	"github.com/gitrdm/hotelling/pkg/lra"
)

// sexpr is an atom or a parenthesised list.
type sexpr struct {
	atom   string
	list   []sexpr
	isList bool
}

func (e sexpr) String() string {
	if !e.isList {
		return e.atom
	}
	parts := make([]string, len(e.list))
	for i, c := range e.list {
		parts[i] = c.String()
	}
	return "(" + strings.Join(parts, " ") + ")"
}

// parseSexprs reads every top-level s-expression in s. Quoted symbols
// |...| are returned without their bars; string literals keep their
// quotes.
func parseSexprs(s string) ([]sexpr, error) {
	p := &sexprParser{src: s}
	var out []sexpr
	for {
		p.skipSpace()
		if p.pos >= len(p.src) {
			return out, nil
		}
		e, err := p.parse()
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
}

type sexprParser struct {
	src string
	pos int
}

func (p *sexprParser) skipSpace() {
	for p.pos < len(p.src) {
		switch c := p.src[p.pos]; {
		case c == ' ', c == '\t', c == '\n', c == '\r':
			p.pos++
		case c == ';':
			for p.pos < len(p.src) && p.src[p.pos] != '\n' {
				p.pos++
			}
		default:
			return
		}
	}
}

func (p *sexprParser) parse() (sexpr, error) {
	p.skipSpace()
	if p.pos >= len(p.src) {
		return sexpr{}, fmt.Errorf("unexpected end of input")
	}
	switch p.src[p.pos] {
	case '(':
		p.pos++
		list := sexpr{isList: true}
		for {
			p.skipSpace()
			if p.pos >= len(p.src) {
				return sexpr{}, fmt.Errorf("unbalanced parenthesis")
			}
			if p.src[p.pos] == ')' {
				p.pos++
				return list, nil
			}
			child, err := p.parse()
			if err != nil {
				return sexpr{}, err
			}
			list.list = append(list.list, child)
		}
	case ')':
		return sexpr{}, fmt.Errorf("unexpected ')' at offset %d", p.pos)
	case '|':
		end := strings.IndexByte(p.src[p.pos+1:], '|')
		if end < 0 {
			return sexpr{}, fmt.Errorf("unterminated quoted symbol")
		}
		atom := p.src[p.pos+1 : p.pos+1+end]
		p.pos += end + 2
		return sexpr{atom: atom}, nil
	case '"':
		i := p.pos + 1
		for i < len(p.src) {
			if p.src[i] == '"' {
				// "" escapes a quote inside SMT-LIB2 strings
				if i+1 < len(p.src) && p.src[i+1] == '"' {
					i += 2
					continue
				}
				break
			}
			i++
		}
		if i >= len(p.src) {
			return sexpr{}, fmt.Errorf("unterminated string")
		}
		atom := p.src[p.pos : i+1]
		p.pos = i + 1
		return sexpr{atom: atom}, nil
	}
	start := p.pos
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		if c == '(' || c == ')' || c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == ';' {
			break
		}
		p.pos++
	}
	return sexpr{atom: p.src[start:p.pos]}, nil
}

// evalReal evaluates a ground Real term: numerals, decimals and the
// operators - / + * applied to them.
func evalReal(e sexpr) (lra.Rational, error) {
	if !e.isList {
		return lra.ParseRational(e.atom)
	}
	if len(e.list) < 2 || e.list[0].isList {
		return lra.Zero, fmt.Errorf("cannot evaluate %s", e)
	}
	args := make([]lra.Rational, len(e.list)-1)
	for i, c := range e.list[1:] {
		q, err := evalReal(c)
		if err != nil {
			return lra.Zero, err
		}
		args[i] = q
	}
	switch op := e.list[0].atom; op {
	case "-":
		if len(args) == 1 {
			return args[0].Neg(), nil
		}
		acc := args[0]
		for _, q := range args[1:] {
			acc = acc.Sub(q)
		}
		return acc, nil
	case "+":
		acc := lra.Zero
		for _, q := range args {
			acc = acc.Add(q)
		}
		return acc, nil
	case "*":
		acc := lra.One
		for _, q := range args {
			acc = acc.Mul(q)
		}
		return acc, nil
	case "/":
		acc := args[0]
		for _, q := range args[1:] {
			if q.IsZero() {
				return lra.Zero, fmt.Errorf("division by zero in %s", e)
			}
			acc = acc.Div(q)
		}
		return acc, nil
	default:
		return lra.Zero, fmt.Errorf("unsupported operator %q", op)
	}
}
