// Package hotelling encodes the Nash equilibria of Hotelling's spatial
// competition game as linear real arithmetic and enumerates them.
//
// N players pick positions on [0,1]; customers are uniform on the line
// and buy from the nearest player, so each player captures the interval
// between the midpoints to its neighbours. A position profile is an
// equilibrium when no player can grow its share by moving alone.
//
// The encoding has three parts:
//
//	domain     0 <= x_i <= 1 and x_i <= x_{i+1}           (3N-1 atoms)
//	stability  ∀v ∈ slot_j. share_j(rivals + v) <= share_i (N×N formulas)
//	blocking   ∨_k x_k ≠ c_k, one per reported profile
//
// A slot is one of the N gaps among the N-1 rivals of player i; a deviator
// placed anywhere in a slot keeps the rival order, so its share is the
// linear midpoint formula and the universal is over linear real
// arithmetic.
//
// Basic usage:
//
//	cfg := hotelling.DefaultConfig()
//	cfg.Players = 4
//	s := solver.NewNative(solver.DefaultConfig())
//	res, err := hotelling.Search(ctx, cfg, s, func(k int, p hotelling.Profile) {
//	    fmt.Printf("Solution %d: %s\n", k, p)
//	})
package hotelling

import (
	"fmt"

	"github.com/gitrdm/hotelling/pkg/lra"
)

// NewPositions declares the N symbolic positions x0..x{N-1}.
func NewPositions(n int) ([]lra.Var, error) {
	if n < 2 {
		return nil, fmt.Errorf("%w: at least 2 players needed, got %d", ErrInvalidConfiguration, n)
	}
	xs := make([]lra.Var, n)
	for i := range xs {
		xs[i] = lra.NewVar(fmt.Sprintf("x%d", i))
	}
	return xs, nil
}

// DomainConstraints returns 0 <= x_i, x_i <= 1 for every position and
// x_{i-1} <= x_i for every consecutive pair. The ordering fixes one
// representative per permutation of players.
func DomainConstraints(xs []lra.Var) []lra.Formula {
	zero, one := lra.Const(lra.Zero), lra.Const(lra.One)
	out := make([]lra.Formula, 0, 3*len(xs)-1)
	for i, x := range xs {
		out = append(out, lra.Ge(x.Expr(), zero), lra.Le(x.Expr(), one))
		if i > 0 {
			out = append(out, lra.Ge(x.Expr(), xs[i-1].Expr()))
		}
	}
	return out
}

func exprs(vs []lra.Var) []lra.Expr {
	out := make([]lra.Expr, len(vs))
	for i, v := range vs {
		out[i] = v.Expr()
	}
	return out
}
