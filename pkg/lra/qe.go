package lra

// Eliminate returns a quantifier-free formula equivalent to f over the
// reals.
//
// Quantifiers are removed innermost first. An existential over a
// quantifier-free body is handled by splitting the body into cubes (DNF)
// and projecting the bound variables out of each cube with
// Fourier-Motzkin; a universal ∀v.φ is rewritten as ¬∃v.¬φ. The result is
// in negation normal form.
//
// Example:
//
//	∀v. (0 <= v ∧ v <= y) ⇒ v <= x
//	≡ ¬∃v. 0 <= v ∧ v <= y ∧ x < v
//	≡ ¬(0 <= y ∧ x < y)
//	≡ y < 0 ∨ y <= x
func Eliminate(f Formula) (Formula, error) {
	qf, err := eliminate(f)
	if err != nil {
		return nil, err
	}
	return NNF(qf)
}

func eliminate(f Formula) (Formula, error) {
	switch g := f.(type) {
	case Atom, Bool:
		return g, nil
	case Not:
		in, err := eliminate(g.F)
		if err != nil {
			return nil, err
		}
		return Not{F: in}, nil
	case Implies:
		a, err := eliminate(g.If)
		if err != nil {
			return nil, err
		}
		b, err := eliminate(g.Then)
		if err != nil {
			return nil, err
		}
		return Implies{If: a, Then: b}, nil
	case And:
		out := make(And, len(g))
		for i, c := range g {
			e, err := eliminate(c)
			if err != nil {
				return nil, err
			}
			out[i] = e
		}
		return out, nil
	case Or:
		out := make(Or, len(g))
		for i, c := range g {
			e, err := eliminate(c)
			if err != nil {
				return nil, err
			}
			out[i] = e
		}
		return out, nil
	case Exists:
		body, err := eliminate(g.Body)
		if err != nil {
			return nil, err
		}
		return projectExists(g.Vars, body)
	case ForAll:
		body, err := eliminate(g.Body)
		if err != nil {
			return nil, err
		}
		ex, err := projectExists(g.Vars, Not{F: body})
		if err != nil {
			return nil, err
		}
		return Not{F: ex}, nil
	}
	return f, nil
}

// projectExists removes ∃vs from a quantifier-free body.
func projectExists(vs []Var, body Formula) (Formula, error) {
	cubes, err := DNF(body)
	if err != nil {
		return nil, err
	}
	out := make(Or, 0, len(cubes))
	for _, cube := range cubes {
		cur := Simplify(cube)
		for _, v := range vs {
			if isFalse(cur) {
				break
			}
			cur = Project(cur, v)
		}
		if isFalse(cur) {
			continue
		}
		if len(cur) == 0 {
			return True, nil
		}
		conj := make(And, len(cur))
		for i, a := range cur {
			conj[i] = a
		}
		out = append(out, conj)
	}
	if len(out) == 0 {
		return False, nil
	}
	return out, nil
}

// Sample replaces every quantifier in f by a finite instantiation: each
// bound variable takes the resolution+1 evenly spaced values
// 0, 1/resolution, ..., 1. ForAll becomes the conjunction of its
// instances and Exists their disjunction.
//
// This is the bounded-sampling fallback for quantified constraints whose
// variables range over [0,1]. It is not sound: a universal that holds at
// every grid point may still fail between them.
func Sample(f Formula, resolution int) Formula {
	if resolution < 1 {
		resolution = 1
	}
	switch g := f.(type) {
	case Not:
		return Not{F: Sample(g.F, resolution)}
	case Implies:
		return Implies{If: Sample(g.If, resolution), Then: Sample(g.Then, resolution)}
	case And:
		out := make(And, len(g))
		for i, c := range g {
			out[i] = Sample(c, resolution)
		}
		return out
	case Or:
		out := make(Or, len(g))
		for i, c := range g {
			out[i] = Sample(c, resolution)
		}
		return out
	case ForAll:
		return And(instances(g.Vars, Sample(g.Body, resolution), resolution))
	case Exists:
		return Or(instances(g.Vars, Sample(g.Body, resolution), resolution))
	}
	return f
}

func instances(vs []Var, body Formula, resolution int) []Formula {
	cur := []Formula{body}
	for _, v := range vs {
		next := make([]Formula, 0, len(cur)*(resolution+1))
		for _, b := range cur {
			for k := 0; k <= resolution; k++ {
				point := Const(NewRational(int64(k), int64(resolution)))
				next = append(next, Substitute(b, v, point))
			}
		}
		cur = next
	}
	return cur
}
