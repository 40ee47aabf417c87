package hotelling

import (
	"errors"
	"fmt"

	"github.com/gitrdm/hotelling/pkg/lra"
)

// ErrNotEquilibrium reports a profile that fails verification.
var ErrNotEquilibrium = errors.New("hotelling: not an equilibrium")

// DeviationError describes a profitable unilateral move.
type DeviationError struct {
	Player   int
	Slot     int
	To       lra.Rational // where the player moves
	Share    lra.Rational // share after moving
	Original lra.Rational // share before moving
}

func (e *DeviationError) Error() string {
	return fmt.Sprintf("player %d gains by moving to %s (slot %d): share %s > %s",
		e.Player, e.To, e.Slot, e.Share, e.Original)
}

func (e *DeviationError) Unwrap() error { return ErrNotEquilibrium }

// Verify checks a concrete profile independently of any solver. The
// deviator's share is linear in its position within a slot, so the best
// move in a slot is at one of the slot's ends and only those are tried.
// The first profitable move is returned as a *DeviationError.
func Verify(p Profile) error {
	n := len(p)
	if n < 2 {
		return fmt.Errorf("%w: at least 2 players needed, got %d", ErrInvalidConfiguration, n)
	}
	if !p.InUnitInterval() {
		return fmt.Errorf("%w: %s leaves [0,1]", ErrNotEquilibrium, p)
	}
	if !p.Sorted() {
		return fmt.Errorf("%w: %s is not sorted", ErrNotEquilibrium, p)
	}

	roster := constants(p)
	og, err := Shares(roster)
	if err != nil {
		return err
	}
	for i := range p {
		rivals := make(Profile, 0, n-1)
		rivals = append(rivals, p[:i]...)
		rivals = append(rivals, p[i+1:]...)
		original := og[i].Constant()

		for j := 0; j < n; j++ {
			lo, hi := lra.Zero, lra.One
			if j > 0 {
				lo = rivals[j-1]
			}
			if j < n-1 {
				hi = rivals[j]
			}
			for _, to := range []lra.Rational{lo, hi} {
				share, err := deviationShare(rivals, j, to)
				if err != nil {
					return err
				}
				if share.Cmp(original) > 0 {
					return &DeviationError{Player: i, Slot: j, To: to, Share: share, Original: original}
				}
			}
		}
	}
	return nil
}

// deviationShare is the share of a player entering rivals at slot j with
// position to.
func deviationShare(rivals Profile, j int, to lra.Rational) (lra.Rational, error) {
	alt := make(Profile, 0, len(rivals)+1)
	alt = append(alt, rivals[:j]...)
	alt = append(alt, to)
	alt = append(alt, rivals[j:]...)
	shares, err := Shares(constants(alt))
	if err != nil {
		return lra.Zero, err
	}
	return shares[j].Constant(), nil
}

func constants(p Profile) []lra.Expr {
	out := make([]lra.Expr, len(p))
	for i, q := range p {
		out[i] = lra.Const(q)
	}
	return out
}
