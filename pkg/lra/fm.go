package lra

// fm.go: Fourier-Motzkin projection of conjunctions of atoms, the step
// quantifier elimination applies to every cube.
//
// Projecting v out of a conjunction pairs every upper bound on v with
// every lower bound on v:
//
//	a:  ca*v + ra ⋈ 0   (ca > 0, so v ⋈ -ra/ca is an upper bound)
//	b:  cb*v + rb ⋈ 0   (cb < 0, so v ⋈ -rb/cb is a lower bound)
//	⇒  (-cb)*ra + ca*rb ⋈ 0
//
// The combination is strict when either side is. Over the reals the
// projected system is satisfiable exactly when the original is.

// falseAtom is the canonical unsatisfiable atom 1 <= 0.
var falseAtom = Atom{Expr: Const(One)}

// Project eliminates v from the conjunction of atoms and returns an
// equivalent conjunction that does not mention v. Constant atoms that hold
// are dropped; if any constant atom fails the result is the single atom
// 1 <= 0.
func Project(atoms []Atom, v Var) []Atom {
	var lower, upper, rest []Atom
	for _, a := range atoms {
		switch a.Expr.Coef(v).Sign() {
		case 1:
			upper = append(upper, a)
		case -1:
			lower = append(lower, a)
		default:
			rest = append(rest, a)
		}
	}
	for _, u := range upper {
		cu := u.Expr.Coef(v)
		for _, l := range lower {
			cl := l.Expr.Coef(v)
			e := u.Expr.Scale(cl.Neg()).Add(l.Expr.Scale(cu))
			rest = append(rest, Atom{Expr: e, Strict: u.Strict || l.Strict})
		}
	}
	return Simplify(rest)
}

// Simplify folds constant atoms and keeps only the tightest of any group
// of atoms whose variable parts are positive multiples of each other.
func Simplify(atoms []Atom) []Atom {
	type slot struct {
		at  Atom
		pos int
	}
	best := make(map[string]slot, len(atoms))
	out := make([]Atom, 0, len(atoms))
	for _, a := range atoms {
		if a.IsConst() {
			if !a.Truth() {
				return []Atom{falseAtom}
			}
			continue
		}
		lead := a.Expr.terms[0].Coef.Abs()
		n := Atom{Expr: a.Expr.Scale(lead.Inv()), Strict: a.Strict}
		k := n.Expr.key()
		if prev, ok := best[k]; ok {
			if tighter(n, prev.at) {
				best[k] = slot{at: n, pos: prev.pos}
				out[prev.pos] = n
			}
			continue
		}
		best[k] = slot{at: n, pos: len(out)}
		out = append(out, n)
	}
	return out
}

// tighter reports whether a implies b for two atoms with equal variable
// parts. e + k <= 0 is tighter for larger k; strict wins ties.
func tighter(a, b Atom) bool {
	switch a.Expr.konst.Cmp(b.Expr.konst) {
	case 1:
		return true
	case 0:
		return a.Strict && !b.Strict
	}
	return false
}

func isFalse(atoms []Atom) bool {
	return len(atoms) == 1 && atoms[0].IsConst() && !atoms[0].Truth()
}
