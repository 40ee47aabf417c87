package hotelling

import (
	"fmt"
	"io"
	"strings"

	"github.com/gitrdm/hotelling/pkg/lra"
)

// Deviation is the stability constraint of one player for one slot:
//
//	∀ alt. Lo <= alt <= Hi ⇒ Share(alt) <= Original
//
// where Share is the deviator's share after it leaves its place and
// re-enters the roster between rivals Slot-1 and Slot.
type Deviation struct {
	Player int
	Slot   int

	Alt      lra.Var  // the deviating position, bound by the quantifier
	Lo, Hi   lra.Expr // admissible range of Alt within the slot
	Share    lra.Expr // deviator's share in the alternate roster
	Original lra.Expr // the player's share in the original roster

	Constraint lra.Formula
}

// Range returns Lo <= Alt <= Hi.
func (d Deviation) Range() lra.Formula {
	return lra.Within(d.Alt.Expr(), d.Lo, d.Hi)
}

// StabilityConstraints builds the N×N deviation constraints of the roster
// xs, player by player and slot by slot. The original shares are computed
// once for the full roster. Construction is traced to w, which may be
// nil.
func StabilityConstraints(xs []lra.Var, w io.Writer) ([]Deviation, error) {
	roster := exprs(xs)
	og, err := Shares(roster)
	if err != nil {
		return nil, err
	}
	out := make([]Deviation, 0, len(xs)*len(xs))
	for i := range xs {
		ds, err := PlayerDeviations(xs, og, i, w)
		if err != nil {
			return nil, fmt.Errorf("player %d: %w", i, err)
		}
		out = append(out, ds...)
	}
	return out, nil
}

// PlayerDeviations builds the N deviation constraints of player i, one per
// slot among its N-1 rivals. og holds the original shares of the full
// roster.
func PlayerDeviations(xs []lra.Var, og []lra.Expr, i int, w io.Writer) ([]Deviation, error) {
	if w == nil {
		w = io.Discard
	}
	n := len(xs)
	if i < 0 || i >= n {
		return nil, fmt.Errorf("player %d out of range [0,%d)", i, n)
	}
	rivals := make([]lra.Var, 0, n-1)
	rivals = append(rivals, xs[:i]...)
	rivals = append(rivals, xs[i+1:]...)

	fmt.Fprintf(w, "Playing as player=%d\n", i)
	fmt.Fprintf(w, "\trivals: %s\n", varList(rivals))

	zero, one := lra.Const(lra.Zero), lra.Const(lra.One)
	m := len(rivals)
	out := make([]Deviation, 0, m+1)
	for j := 0; j <= m; j++ {
		fmt.Fprintf(w, "\t\tWhat if I was between %d and %d idx in rivals?\n", j-1, j)

		d := Deviation{
			Player:   i,
			Slot:     j,
			Alt:      lra.NewVar(fmt.Sprintf("x%d_%d_alt", i, j)),
			Original: og[i],
		}
		switch j {
		case 0:
			d.Lo, d.Hi = zero, rivals[0].Expr()
		case m:
			d.Lo, d.Hi = rivals[m-1].Expr(), one
		default:
			d.Lo, d.Hi = rivals[j-1].Expr(), rivals[j].Expr()
		}

		alternate := make([]lra.Expr, 0, n)
		alternate = append(alternate, exprs(rivals[:j])...)
		alternate = append(alternate, d.Alt.Expr())
		alternate = append(alternate, exprs(rivals[j:])...)
		shares, err := Shares(alternate)
		if err != nil {
			return nil, err
		}
		d.Share = shares[j]

		rng := d.Range()
		d.Constraint = lra.ForAll{
			Vars: []lra.Var{d.Alt},
			Body: lra.Implies{If: rng, Then: lra.Le(d.Share, d.Original)},
		}
		fmt.Fprintf(w, "\t\t\t%s\n", rng)
		fmt.Fprintf(w, "\t\t\t%s\n", d.Constraint)
		out = append(out, d)
	}
	return out, nil
}

func varList(vs []lra.Var) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = v.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
