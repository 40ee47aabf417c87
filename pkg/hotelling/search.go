package hotelling

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gitrdm/hotelling/pkg/enumerate"
	"github.com/gitrdm/hotelling/pkg/solver"
)

// Result is the outcome of Search.
type Result struct {
	Players   int
	Solutions []Profile
	State     enumerate.State
	Checks    int
	Elapsed   time.Duration // from the first check to the terminal state

	Domain    int // domain and ordering constraints registered
	Stability int // stability constraints registered, N×N
	Stats     solver.Stats
}

// Search encodes the cfg.Players game into s and enumerates its
// equilibria until the cap, exhaustion, or an inconclusive verdict.
// report is called for each equilibrium as soon as it is found.
//
// An Inconclusive end returns the partial result with an error wrapping
// ErrInconclusive. An engine failure is returned as is, also with the
// partial result.
func Search(ctx context.Context, cfg Config, s solver.Solver, report func(index int, p Profile), opts ...enumerate.Option) (Result, error) {
	if err := cfg.Validate(); err != nil {
		return Result{}, err
	}
	enc, err := Encode(s, cfg)
	if err != nil {
		return Result{}, err
	}

	opts = append([]enumerate.Option{
		enumerate.WithMaxSolutions(cfg.MaxSolutions),
		enumerate.WithLogger(cfg.Logger),
	}, opts...)
	run, err := enumerate.Run[Profile](ctx, enc, report, opts...)

	res := Result{
		Players:   cfg.Players,
		Solutions: run.Solutions,
		State:     run.State,
		Checks:    run.Checks,
		Elapsed:   run.Elapsed,
		Domain:    enc.Domain(),
		Stability: enc.Stability(),
		Stats:     s.Stats(),
	}
	switch {
	case err != nil && (errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)):
		return res, fmt.Errorf("%w: %w", ErrInconclusive, err)
	case err != nil:
		return res, err
	case res.State == enumerate.Inconclusive:
		return res, fmt.Errorf("%w after %d solution(s)", ErrInconclusive, len(res.Solutions))
	}
	return res, nil
}
