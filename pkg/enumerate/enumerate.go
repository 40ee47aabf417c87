// Package enumerate implements exclusion-set search: repeatedly ask a
// decision procedure for a solution, report it, forbid it, and ask again.
//
// The loop is a small state machine:
//
//	Searching ──sat──▶ Reporting ──▶ Searching
//	    │                  │
//	    │ unsat            └─ cap reached ──▶ Capped
//	    ├──────────────▶ Exhausted
//	    │ unknown, or ctx ended
//	    ├──────────────▶ Inconclusive
//	    │ engine error
//	    └──────────────▶ Failed
//
// Exhausted, Capped, Inconclusive and Failed are terminal. Inconclusive is
// never folded into Exhausted: an engine that gave up says nothing about
// whether more solutions exist. Failed means the engine itself broke.
//
// The store behind a Space only grows. Each reported solution becomes an
// exclusion before the next query, so no solution is reported twice.
package enumerate

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/gitrdm/hotelling/pkg/solver"
)

// State is a state of the enumeration loop.
type State int

const (
	Searching State = iota
	Reporting
	Exhausted
	Capped
	Inconclusive
	Failed
)

func (s State) String() string {
	switch s {
	case Searching:
		return "searching"
	case Reporting:
		return "reporting"
	case Exhausted:
		return "exhausted"
	case Capped:
		return "capped"
	case Inconclusive:
		return "inconclusive"
	case Failed:
		return "failed"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Terminal reports whether the loop stops in s.
func (s State) Terminal() bool {
	return s == Exhausted || s == Capped || s == Inconclusive || s == Failed
}

// Space is a growing constraint store that can be queried for solutions
// of type T.
type Space[T any] interface {
	// Check decides whether another solution exists.
	Check(ctx context.Context) (solver.Status, error)

	// Extract reads the solution found by the last Sat Check.
	Extract() (T, error)

	// Exclude forbids sol in every later Check.
	Exclude(sol T) error
}

// Result is the outcome of a Run.
type Result[T any] struct {
	Solutions []T
	State     State         // terminal state the loop ended in
	Checks    int           // Check calls issued
	Elapsed   time.Duration // from the first Check to the terminal state
}

// Options configures Run.
type Options struct {
	// MaxSolutions caps the number of reported solutions. Zero or less
	// means no cap.
	MaxSolutions int
	Logger       zerolog.Logger
	// Clock is the time source for Elapsed.
	Clock func() time.Time
}

// Option mutates Options.
type Option func(*Options)

// WithMaxSolutions caps the number of reported solutions.
func WithMaxSolutions(n int) Option {
	return func(o *Options) { o.MaxSolutions = n }
}

// WithLogger sets the logger receiving state transitions.
func WithLogger(l zerolog.Logger) Option {
	return func(o *Options) { o.Logger = l }
}

// WithClock replaces the wall clock, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(o *Options) { o.Clock = now }
}

// Run drives space through the state machine until a terminal state.
// report, if non-nil, is called once per solution with its 1-based index,
// before the solution is excluded. The exclusion is added even for the
// solution that reaches the cap, so the store always forbids everything
// reported.
//
// A non-nil error means the loop could not finish normally. When ctx
// ended the state is Inconclusive; when the space failed to check, extract
// or exclude it is Failed. The solutions found so far are returned
// alongside the error either way.
func Run[T any](ctx context.Context, space Space[T], report func(index int, sol T), opts ...Option) (Result[T], error) {
	o := Options{Logger: zerolog.Nop(), Clock: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	log := o.Logger

	var res Result[T]
	start := o.Clock()
	finish := func(st State, err error) (Result[T], error) {
		res.State = st
		res.Elapsed = o.Clock().Sub(start)
		ev := log.Info()
		if err != nil {
			ev = log.Warn().Err(err)
		}
		ev.Str("state", st.String()).Int("solutions", len(res.Solutions)).
			Int("checks", res.Checks).Dur("elapsed", res.Elapsed).Msg("enumeration finished")
		return res, err
	}

	state := Searching
	for {
		switch state {
		case Searching:
			res.Checks++
			status, err := space.Check(ctx)
			if err != nil {
				st := Failed
				if ctx.Err() != nil {
					st = Inconclusive
				}
				return finish(st, fmt.Errorf("check %d: %w", res.Checks, err))
			}
			log.Debug().Int("check", res.Checks).Str("verdict", status.String()).Msg("searching")
			switch status {
			case solver.Unsat:
				return finish(Exhausted, nil)
			case solver.Unknown:
				return finish(Inconclusive, nil)
			}
			state = Reporting

		case Reporting:
			sol, err := space.Extract()
			if err != nil {
				return finish(Failed, fmt.Errorf("extract solution %d: %w", len(res.Solutions)+1, err))
			}
			res.Solutions = append(res.Solutions, sol)
			if report != nil {
				report(len(res.Solutions), sol)
			}
			if err := space.Exclude(sol); err != nil {
				return finish(Failed, fmt.Errorf("exclude solution %d: %w", len(res.Solutions), err))
			}
			if o.MaxSolutions > 0 && len(res.Solutions) >= o.MaxSolutions {
				return finish(Capped, nil)
			}
			state = Searching
		}
	}
}
