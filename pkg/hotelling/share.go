package hotelling

import (
	"fmt"

	"github.com/gitrdm/hotelling/pkg/lra"
)

// Shares returns the market share of every player in a sorted roster
// under the nearest-midpoint rule:
//
//	share_0     = (p_0 + p_1)/2
//	share_i     = (p_{i+1} - p_{i-1})/2        0 < i < M-1
//	share_{M-1} = 1 - (p_{M-2} + p_{M-1})/2
//
// The shares always sum to exactly 1. The roster may mix symbolic and
// constant expressions; nothing is rounded.
func Shares(ps []lra.Expr) ([]lra.Expr, error) {
	m := len(ps)
	if m < 2 {
		return nil, fmt.Errorf("%w: shares need at least 2 positions, got %d", ErrInvalidConfiguration, m)
	}
	one := lra.Const(lra.One)
	out := make([]lra.Expr, m)
	for i := range ps {
		var left, right lra.Expr
		switch i {
		case 0:
			left = lra.Const(lra.Zero)
			right = ps[0].Add(ps[1]).Half()
		case m - 1:
			left = ps[m-2].Add(ps[m-1]).Half()
			right = one
		default:
			left = ps[i-1].Add(ps[i]).Half()
			right = ps[i].Add(ps[i+1]).Half()
		}
		out[i] = right.Sub(left)
	}
	return out, nil
}
