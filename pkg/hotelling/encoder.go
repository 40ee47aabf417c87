package hotelling

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/gitrdm/hotelling/pkg/lra"
	"github.com/gitrdm/hotelling/pkg/solver"
)

// Encoding is the constraint store of one run. It owns the solver it was
// built on; the store only grows, through Block.
//
// Encoding implements enumerate.Space[Profile].
type Encoding struct {
	Positions  []lra.Var
	Deviations []Deviation

	domain   int
	blocking int
	solver   solver.Solver
	log      zerolog.Logger
}

// Encode declares N positions and registers the domain, ordering and
// stability constraints of the N-player game with s. s should be empty;
// its assertions are kept but become part of the game.
func Encode(s solver.Solver, cfg Config) (*Encoding, error) {
	xs, err := NewPositions(cfg.Players)
	if err != nil {
		return nil, err
	}
	log := cfg.Logger.With().Int("players", cfg.Players).Logger()
	log.Debug().Msg("encoding started")

	domain := DomainConstraints(xs)
	if err := s.Add(domain...); err != nil {
		return nil, fmt.Errorf("add domain constraints: %w", err)
	}

	devs, err := StabilityConstraints(xs, cfg.trace())
	if err != nil {
		return nil, err
	}
	for _, d := range devs {
		if err := s.Add(d.Constraint); err != nil {
			return nil, fmt.Errorf("add stability constraint player=%d slot=%d: %w", d.Player, d.Slot, err)
		}
	}

	log.Info().Int("domain", len(domain)).Int("stability", len(devs)).Msg("encoding finished")
	return &Encoding{
		Positions:  xs,
		Deviations: devs,
		domain:     len(domain),
		solver:     s,
		log:        log,
	}, nil
}

// Stability returns the number of registered stability constraints, N×N.
func (e *Encoding) Stability() int { return len(e.Deviations) }

// Domain returns the number of registered domain and ordering constraints.
func (e *Encoding) Domain() int { return e.domain }

// Blocking returns the number of blocking constraints added so far.
func (e *Encoding) Blocking() int { return e.blocking }

// Solver returns the underlying constraint store.
func (e *Encoding) Solver() solver.Solver { return e.solver }

// Check asks the solver whether an equilibrium not yet blocked exists.
func (e *Encoding) Check(ctx context.Context) (solver.Status, error) {
	return e.solver.Check(ctx)
}

// Extract reads the positions from the solver's model.
func (e *Encoding) Extract() (Profile, error) {
	m, err := e.solver.Model()
	if err != nil {
		return nil, err
	}
	p := make(Profile, len(e.Positions))
	for i, x := range e.Positions {
		p[i] = m.Evaluate(x)
	}
	return p, nil
}

// Exclude implements enumerate.Space by blocking p.
func (e *Encoding) Exclude(p Profile) error { return e.Block(p) }

// Block adds ∨_k x_k ≠ p_k so that p is never found again.
func (e *Encoding) Block(p Profile) error {
	if len(p) != len(e.Positions) {
		return fmt.Errorf("block: profile has %d positions, game has %d", len(p), len(e.Positions))
	}
	f := make(lra.Or, len(p))
	for k, x := range e.Positions {
		f[k] = lra.Neq(x.Expr(), lra.Const(p[k]))
	}
	if err := e.solver.Add(f); err != nil {
		return fmt.Errorf("block %s: %w", p, err)
	}
	e.blocking++
	e.log.Debug().Str("profile", p.String()).Msg("blocked")
	return nil
}
