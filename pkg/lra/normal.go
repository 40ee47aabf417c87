package lra

import (
	"errors"
	"fmt"
)

var (
	// ErrQuantified is returned when a quantifier-free form is requested
	// for a formula that still contains ForAll or Exists.
	ErrQuantified = errors.New("lra: formula is not quantifier-free")

	// ErrTooLarge is returned when a normal form would exceed MaxCubes.
	ErrTooLarge = errors.New("lra: normal form too large")
)

// MaxCubes bounds the number of cubes a single formula may expand to when
// converted to DNF.
const MaxCubes = 1 << 14

// NNF returns a quantifier-free formula in negation normal form: only And,
// Or, Bool and Atom nodes remain, negations are pushed into atoms, and
// constant atoms are folded into Bool.
func NNF(f Formula) (Formula, error) {
	return nnf(f, false)
}

func nnf(f Formula, neg bool) (Formula, error) {
	switch g := f.(type) {
	case Bool:
		return Bool(bool(g) != neg), nil
	case Atom:
		if neg {
			g = g.Negate()
		}
		if g.IsConst() {
			return Bool(g.Truth()), nil
		}
		return g, nil
	case Not:
		return nnf(g.F, !neg)
	case Implies:
		return nnf(Or{Not{F: g.If}, g.Then}, neg)
	case And:
		return nnfList(g, neg, !neg)
	case Or:
		return nnfList(g, neg, neg)
	case ForAll, Exists:
		return nil, ErrQuantified
	}
	return nil, fmt.Errorf("lra: unknown formula %T", f)
}

// nnfList converts the members of an And/Or; conj selects the result
// connective after De Morgan.
func nnfList(fs []Formula, neg, conj bool) (Formula, error) {
	out := make([]Formula, 0, len(fs))
	for _, c := range fs {
		n, err := nnf(c, neg)
		if err != nil {
			return nil, err
		}
		if b, ok := n.(Bool); ok {
			if bool(b) == conj {
				continue // neutral element
			}
			return b, nil // absorbing element
		}
		out = append(out, n)
	}
	switch {
	case len(out) == 0:
		return Bool(conj), nil
	case len(out) == 1:
		return out[0], nil
	case conj:
		return And(out), nil
	default:
		return Or(out), nil
	}
}

// DNF converts f to a list of cubes, each a conjunction of atoms.
// A nil cube list means false; a list holding an empty cube means true.
func DNF(f Formula) ([][]Atom, error) {
	n, err := NNF(f)
	if err != nil {
		return nil, err
	}
	return expand(n)
}

// expand distributes an NNF formula into a disjunction of cubes.
func expand(f Formula) ([][]Atom, error) {
	switch g := f.(type) {
	case Bool:
		if !g {
			return nil, nil
		}
		return [][]Atom{{}}, nil
	case Atom:
		return [][]Atom{{g}}, nil
	case Or:
		var out [][]Atom
		for _, m := range g {
			part, err := expand(m)
			if err != nil {
				return nil, err
			}
			out = append(out, part...)
			if len(out) > MaxCubes {
				return nil, ErrTooLarge
			}
		}
		return out, nil
	case And:
		// cross product
		out := [][]Atom{{}}
		for _, m := range g {
			part, err := expand(m)
			if err != nil {
				return nil, err
			}
			if len(out)*len(part) > MaxCubes {
				return nil, ErrTooLarge
			}
			next := make([][]Atom, 0, len(out)*len(part))
			for _, a := range out {
				for _, b := range part {
					merged := make([]Atom, 0, len(a)+len(b))
					merged = append(merged, a...)
					merged = append(merged, b...)
					next = append(next, merged)
				}
			}
			out = next
		}
		return out, nil
	}
	return nil, fmt.Errorf("lra: %T in normal form", f)
}
