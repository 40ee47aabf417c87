package lra

// simplex.go: the general simplex procedure of Dutertre and de Moura for
// deciding conjunctions of atoms.
//
// Every atom becomes a bound on a single column: either on a variable
// directly (x <= 1/2) or on a slack column standing for its linear part
// (s = x0 - x1, s <= 0). Strict bounds are handled with values of the form
// r + d·δ for a symbolic positive δ, so x < 1/2 is the bound x <= 1/2 - δ.
// Infeasibility is reported with the atoms whose bounds, together with one
// tableau row, cannot all hold; that set is a small infeasible core.

import (
	"context"
	"sort"
)

// delta is r + d·δ.
type delta struct{ r, d Rational }

func (a delta) add(b delta) delta { return delta{a.r.Add(b.r), a.d.Add(b.d)} }
func (a delta) sub(b delta) delta { return delta{a.r.Sub(b.r), a.d.Sub(b.d)} }
func (a delta) scale(q Rational) delta {
	return delta{a.r.Mul(q), a.d.Mul(q)}
}

func (a delta) cmp(b delta) int {
	if c := a.r.Cmp(b.r); c != 0 {
		return c
	}
	return a.d.Cmp(b.d)
}

type bound struct {
	val delta
	src int // index of the atom that set the bound
}

type tableau struct {
	rows   map[int]map[int]Rational // basic column → coefficients of nonbasic columns
	basic  []bool
	val    []delta
	lo, hi []*bound
}

func (t *tableau) column() int {
	t.basic = append(t.basic, false)
	t.val = append(t.val, delta{})
	t.lo = append(t.lo, nil)
	t.hi = append(t.hi, nil)
	return len(t.val) - 1
}

// Feasible decides the conjunction of atoms over the reals.
//
// When the conjunction is satisfiable, core is nil and assign gives every
// variable occurring in atoms an exact value satisfying all of them.
// Otherwise core lists the indexes of an infeasible subset of atoms, in
// increasing order. The only error is ctx's, returned when ctx ends
// before a verdict.
func Feasible(ctx context.Context, atoms []Atom) (assign map[Var]Rational, core []int, err error) {
	t := &tableau{rows: make(map[int]map[int]Rational)}
	cols := make(map[Var]int)
	var vars []Var
	slacks := make(map[string]int)

	col := func(v Var) int {
		j, ok := cols[v]
		if !ok {
			j = t.column()
			cols[v] = j
			vars = append(vars, v)
		}
		return j
	}

	for i, a := range atoms {
		if a.IsConst() {
			if !a.Truth() {
				return nil, []int{i}, nil
			}
			continue
		}
		// a.Expr = lead*(L + k/lead); bound L against -k/lead
		lead := a.Expr.terms[0].Coef
		inv := lead.Inv()
		b := delta{r: a.Expr.konst.Mul(inv).Neg()}

		var j int
		if len(a.Expr.terms) == 1 {
			j = col(a.Expr.terms[0].Var)
		} else {
			lin := Expr{terms: a.Expr.terms}.Scale(inv)
			k := lin.key()
			s, ok := slacks[k]
			if !ok {
				row := make(map[int]Rational, len(lin.terms))
				for _, tm := range lin.terms {
					row[col(tm.Var)] = tm.Coef
				}
				s = t.column()
				t.basic[s] = true
				t.rows[s] = row
				slacks[k] = s
			}
			j = s
		}

		if lead.IsPositive() {
			if a.Strict {
				b.d = Int(-1)
			}
			if t.hi[j] == nil || b.cmp(t.hi[j].val) < 0 {
				t.hi[j] = &bound{val: b, src: i}
			}
		} else {
			if a.Strict {
				b.d = One
			}
			if t.lo[j] == nil || b.cmp(t.lo[j].val) > 0 {
				t.lo[j] = &bound{val: b, src: i}
			}
		}
		if t.lo[j] != nil && t.hi[j] != nil && t.lo[j].val.cmp(t.hi[j].val) > 0 {
			return nil, sortedCore(t.lo[j].src, t.hi[j].src), nil
		}
	}

	for j := range t.val {
		if t.basic[j] {
			continue
		}
		if t.lo[j] != nil && t.val[j].cmp(t.lo[j].val) < 0 {
			t.update(j, t.lo[j].val)
		} else if t.hi[j] != nil && t.val[j].cmp(t.hi[j].val) > 0 {
			t.update(j, t.hi[j].val)
		}
	}
	// basic values start from the row definitions
	for i, row := range t.rows {
		var v delta
		for j, c := range row {
			v = v.add(t.val[j].scale(c))
		}
		t.val[i] = v
	}

	for {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		i, low, ok := t.violated()
		if !ok {
			break
		}
		j, ok := t.entering(i, low)
		if !ok {
			return nil, t.explain(i, low), nil
		}
		if low {
			t.pivotAndUpdate(i, j, t.lo[i].val)
		} else {
			t.pivotAndUpdate(i, j, t.hi[i].val)
		}
	}

	d := t.delta()
	assign = make(map[Var]Rational, len(vars))
	for _, v := range vars {
		x := t.val[cols[v]]
		assign[v] = x.r.Add(x.d.Mul(d))
	}
	return assign, nil, nil
}

// Satisfiable reports whether the conjunction of atoms has a solution over
// the reals and returns one when it does.
func Satisfiable(ctx context.Context, atoms []Atom) (map[Var]Rational, bool, error) {
	assign, core, err := Feasible(ctx, atoms)
	if err != nil {
		return nil, false, err
	}
	return assign, core == nil, nil
}

// violated returns the smallest basic column outside its bounds and
// whether it is below its lower bound.
func (t *tableau) violated() (int, bool, bool) {
	for i, b := range t.basic {
		if !b {
			continue
		}
		if t.lo[i] != nil && t.val[i].cmp(t.lo[i].val) < 0 {
			return i, true, true
		}
		if t.hi[i] != nil && t.val[i].cmp(t.hi[i].val) > 0 {
			return i, false, true
		}
	}
	return 0, false, false
}

// entering picks the smallest nonbasic column of row i that can move basic
// column i towards its violated bound.
func (t *tableau) entering(i int, low bool) (int, bool) {
	for _, j := range sortedKeys(t.rows[i]) {
		c := t.rows[i][j]
		up := c.IsPositive() == low // j must increase
		if up && (t.hi[j] == nil || t.val[j].cmp(t.hi[j].val) < 0) {
			return j, true
		}
		if !up && (t.lo[j] == nil || t.val[j].cmp(t.lo[j].val) > 0) {
			return j, true
		}
	}
	return 0, false
}

// explain collects the bounds that pin row i away from its violated bound.
func (t *tableau) explain(i int, low bool) []int {
	var srcs []int
	if low {
		srcs = append(srcs, t.lo[i].src)
	} else {
		srcs = append(srcs, t.hi[i].src)
	}
	for j, c := range t.rows[i] {
		if c.IsPositive() == low {
			srcs = append(srcs, t.hi[j].src)
		} else {
			srcs = append(srcs, t.lo[j].src)
		}
	}
	return sortedCore(srcs...)
}

// update moves nonbasic column j to v and keeps every row equation.
func (t *tableau) update(j int, v delta) {
	theta := v.sub(t.val[j])
	for i, row := range t.rows {
		if c, ok := row[j]; ok {
			t.val[i] = t.val[i].add(theta.scale(c))
		}
	}
	t.val[j] = v
}

// pivotAndUpdate sets basic column i to v by moving nonbasic column j,
// then swaps their roles.
func (t *tableau) pivotAndUpdate(i, j int, v delta) {
	a := t.rows[i][j]
	theta := v.sub(t.val[i]).scale(a.Inv())
	t.val[i] = v
	t.val[j] = t.val[j].add(theta)
	for k, row := range t.rows {
		if k == i {
			continue
		}
		if c, ok := row[j]; ok {
			t.val[k] = t.val[k].add(theta.scale(c))
		}
	}
	t.pivot(i, j)
}

func (t *tableau) pivot(i, j int) {
	row := t.rows[i]
	inv := row[j].Inv()
	next := make(map[int]Rational, len(row))
	next[i] = inv
	for k, c := range row {
		if k != j {
			next[k] = c.Mul(inv).Neg()
		}
	}
	delete(t.rows, i)
	for _, r := range t.rows {
		c, ok := r[j]
		if !ok {
			continue
		}
		delete(r, j)
		for k, q := range next {
			s := r[k].Add(c.Mul(q))
			if s.IsZero() {
				delete(r, k)
			} else {
				r[k] = s
			}
		}
	}
	t.rows[j] = next
	t.basic[i], t.basic[j] = false, true
}

// delta returns a concrete positive δ for which every bound still holds.
func (t *tableau) delta() Rational {
	d := One
	for j, v := range t.val {
		if l := t.lo[j]; l != nil && l.val.r.Cmp(v.r) < 0 && l.val.d.Cmp(v.d) > 0 {
			d = d.Min(v.r.Sub(l.val.r).Div(l.val.d.Sub(v.d)))
		}
		if h := t.hi[j]; h != nil && v.r.Cmp(h.val.r) < 0 && v.d.Cmp(h.val.d) > 0 {
			d = d.Min(h.val.r.Sub(v.r).Div(v.d.Sub(h.val.d)))
		}
	}
	return d
}

func sortedKeys(row map[int]Rational) []int {
	keys := make([]int, 0, len(row))
	for k := range row {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}

func sortedCore(srcs ...int) []int {
	sort.Ints(srcs)
	out := srcs[:0]
	for i, s := range srcs {
		if i == 0 || s != srcs[i-1] {
			out = append(out, s)
		}
	}
	return out
}
