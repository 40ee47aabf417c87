package solver

import (
	"context"
	"fmt"
	"time"

	"github.com/go-air/gini"
	"github.com/go-air/gini/inter"
	"github.com/go-air/gini/logic"
	"github.com/go-air/gini/z"
	"github.com/rs/zerolog"

	"github.com/gitrdm/hotelling/pkg/lra"
)

// Native is the in-process backend: exact quantifier elimination followed
// by a lazy DPLL(T) search with gini deciding the boolean structure and
// the simplex procedure deciding conjunctions of atoms.
//
// How a formula flows through Add:
//
//	∀v. lo <= v <= hi ⇒ share(v) <= s          (as added)
//	¬∃v. lo <= v <= hi ∧ s < share(v)           (universal as negated existential)
//	¬(A1 ∧ A2 ∧ ...)                            (v projected out by Fourier-Motzkin)
//	circuit over atom inputs, Tseitin clauses   (logic.C, then gini)
//
// Each distinct canonical atom is one circuit input, and circuit variables
// are gini variables. Check alternates between gini (find a boolean
// model) and the theory (is the conjunction of atoms that justifies every
// assertion satisfiable over the reals?). A rejected conjunction yields an
// infeasible core whose negation is added to gini as a lemma, so the same
// combination is never proposed again.
type Native struct {
	store

	cfg       Config
	log       zerolog.Logger
	monitor   *Monitor
	transform func(lra.Formula) (lra.Formula, error)

	g     *gini.Gini
	c     *logic.C
	cnf   *clauseCounter
	lits  map[string]z.Lit // canonical atom key → circuit input
	atoms map[z.Var]lra.Atom
	roots []z.Lit // one per assertion, for relevancy selection
	unsat bool    // an assertion folded to false

	vars    []lra.Var
	varSeen map[lra.Var]bool
	model   Assignment
}

// clauseCounter forwards clauses to the boolean engine and counts them.
type clauseCounter struct {
	dst     inter.Adder
	clauses int
}

func (a *clauseCounter) Add(m z.Lit) {
	if m == z.LitNull {
		a.clauses++
	}
	a.dst.Add(m)
}

// NewNative creates the exact in-process backend.
func NewNative(cfg Config) *Native {
	return newNative(cfg, lra.Eliminate)
}

// NewSampled creates the in-process backend with bounded sampling of
// quantified variables instead of exact elimination.
func NewSampled(cfg Config) *Native {
	res := cfg.Resolution
	return newNative(cfg, func(f lra.Formula) (lra.Formula, error) {
		return lra.NNF(lra.Sample(f, res))
	})
}

func newNative(cfg Config, transform func(lra.Formula) (lra.Formula, error)) *Native {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = DefaultConfig().PollInterval
	}
	g := gini.New()
	return &Native{
		cfg:       cfg,
		log:       cfg.Logger,
		monitor:   NewMonitor(),
		transform: transform,
		g:         g,
		c:         logic.NewC(),
		cnf:       &clauseCounter{dst: g},
		lits:      make(map[string]z.Lit),
		atoms:     make(map[z.Var]lra.Atom),
		varSeen:   make(map[lra.Var]bool),
	}
}

// Add implements Solver. Each formula is made quantifier-free and turned
// into a circuit before it is stored; a formula that cannot be encoded is
// rejected and leaves the store unchanged.
func (n *Native) Add(fs ...lra.Formula) error {
	for _, f := range fs {
		qf, err := n.transform(f)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrUnsupported, err)
		}
		nf, err := lra.NNF(qf)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrUnsupported, err)
		}
		root, err := n.encode(nf)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrUnsupported, err)
		}

		n.store.append(f)
		for _, v := range lra.FreeVars(f) {
			if !n.varSeen[v] {
				n.varSeen[v] = true
				n.vars = append(n.vars, v)
			}
		}
		before := n.cnf.clauses
		switch root {
		case n.c.T:
		case n.c.F:
			n.unsat = true
		default:
			n.c.ToCnfFrom(n.cnf, root)
			n.cnf.Add(root)
			n.cnf.Add(z.LitNull)
			n.roots = append(n.roots, root)
		}
		n.monitor.RecordAssertion(n.cnf.clauses - before)
	}
	return nil
}

// encode builds the circuit of a formula in negation normal form.
func (n *Native) encode(f lra.Formula) (z.Lit, error) {
	switch g := f.(type) {
	case lra.Bool:
		if g {
			return n.c.T, nil
		}
		return n.c.F, nil
	case lra.Atom:
		return n.lit(g), nil
	case lra.And, lra.Or:
		var members []lra.Formula
		if and, ok := g.(lra.And); ok {
			members = and
		} else {
			members = g.(lra.Or)
		}
		ms := make([]z.Lit, len(members))
		for i, m := range members {
			lit, err := n.encode(m)
			if err != nil {
				return z.LitNull, err
			}
			ms[i] = lit
		}
		if _, ok := g.(lra.And); ok {
			return n.c.Ands(ms...), nil
		}
		return n.c.Ors(ms...), nil
	}
	return z.LitNull, fmt.Errorf("%T is not in negation normal form", f)
}

// lit returns the literal standing for a, allocating a circuit input the
// first time its canonical atom is seen.
func (n *Native) lit(a lra.Atom) z.Lit {
	c, pos := a.Canonical()
	k := c.Key()
	m, ok := n.lits[k]
	if !ok {
		m = n.c.Lit()
		n.lits[k] = m
		n.atoms[m.Var()] = c
		n.monitor.RecordAtom()
	}
	if !pos {
		return m.Not()
	}
	return m
}

// Check implements Solver.
func (n *Native) Check(ctx context.Context) (Status, error) {
	n.monitor.StartCheck()
	defer n.monitor.EndCheck()

	n.model = nil
	if n.unsat {
		return Unsat, nil
	}
	if err := ctx.Err(); err != nil {
		return Unknown, err
	}

	sctx := ctx
	if n.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		sctx, cancel = context.WithTimeout(ctx, n.cfg.Timeout)
		defer cancel()
	}

	for {
		if sctx.Err() != nil {
			return n.stopped(ctx)
		}
		res := StatusFromCode(n.solve(sctx))
		n.monitor.RecordBooleanSolve()
		switch res {
		case Unsat:
			return Unsat, nil
		case Unknown:
			return n.stopped(ctx)
		}

		selected := n.relevant()
		n.monitor.RecordTheoryCheck()
		assign, core, err := lra.Feasible(sctx, n.atomsOf(selected))
		if err != nil {
			return n.stopped(ctx)
		}
		if core == nil {
			n.model = n.complete(assign)
			return Sat, nil
		}

		lemma := make([]z.Lit, len(core))
		for i, k := range core {
			lemma[i] = selected[k]
		}
		lemma, err = n.shrink(sctx, lemma)
		if err != nil {
			return n.stopped(ctx)
		}
		for _, m := range lemma {
			n.g.Add(m.Not())
		}
		n.g.Add(z.LitNull)
		n.monitor.RecordConflict()
		n.log.Debug().Int("selected", len(selected)).Int("core", len(lemma)).Msg("theory conflict")
	}
}

// stopped is the verdict when the per-check timeout or ctx ends the
// search. Only the caller's own cancellation is reported as an error.
func (n *Native) stopped(ctx context.Context) (Status, error) {
	if err := ctx.Err(); err != nil {
		return Unknown, err
	}
	n.log.Debug().Dur("timeout", n.cfg.Timeout).Msg("search stopped without a verdict")
	return Unknown, nil
}

// solve runs gini in the background so that ctx can stop it.
func (n *Native) solve(ctx context.Context) int {
	h := n.g.GoSolve()
	ticker := time.NewTicker(n.cfg.PollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return h.Stop()
		case <-ticker.C:
			if res, done := h.Test(); done {
				return res
			}
		}
	}
}

// relevant selects atom literals that justify every assertion under
// gini's model: both operands of a true conjunction, and one false operand
// of a false conjunction, preferring operands already justified. The
// conjunction of the selected atoms implies the whole store, so it is all
// the theory needs to see.
func (n *Native) relevant() []z.Lit {
	vs := make([]bool, n.c.Len())
	maxVar := n.g.MaxVar()
	for _, i := range n.c.InPos(nil) {
		if v := z.Var(i); v <= maxVar {
			vs[i] = n.g.Value(v.Pos())
		}
	}
	vs[n.c.T.Var()] = n.c.T.IsPos()
	n.c.Eval(vs)
	value := func(m z.Lit) bool {
		return vs[m.Var()] == m.IsPos()
	}

	seen := make(map[z.Lit]bool)
	var out []z.Lit
	var justify func(m z.Lit)
	justify = func(m z.Lit) {
		if seen[m] {
			return
		}
		seen[m] = true
		a, b := n.c.Ins(m)
		switch {
		case a == z.LitNull:
			out = append(out, m)
		case m.IsPos():
			justify(a)
			justify(b)
		default:
			na, nb := a.Not(), b.Not()
			switch {
			case value(na) && seen[na]:
			case value(nb) && seen[nb]:
			case value(na):
				justify(na)
			default:
				justify(nb)
			}
		}
	}
	for _, r := range n.roots {
		justify(r)
	}
	return out
}

func (n *Native) atomsOf(ms []z.Lit) []lra.Atom {
	out := make([]lra.Atom, len(ms))
	for i, m := range ms {
		a := n.atoms[m.Var()]
		if !m.IsPos() {
			a = a.Negate()
		}
		out[i] = a
	}
	return out
}

// shrink removes literals from an infeasible core one at a time, keeping
// each removal that leaves the rest infeasible.
func (n *Native) shrink(ctx context.Context, core []z.Lit) ([]z.Lit, error) {
	for i := 0; i < len(core) && len(core) > 1; {
		trial := make([]z.Lit, 0, len(core)-1)
		trial = append(trial, core[:i]...)
		trial = append(trial, core[i+1:]...)
		n.monitor.RecordTheoryCheck()
		_, sub, err := lra.Feasible(ctx, n.atomsOf(trial))
		if err != nil {
			return nil, err
		}
		if sub != nil {
			core = trial
			continue
		}
		i++
	}
	return core, nil
}

// complete extends a theory witness to every free variable of the store.
func (n *Native) complete(assign map[lra.Var]lra.Rational) Assignment {
	out := make(Assignment, len(n.vars))
	for _, v := range n.vars {
		out[v] = assign[v]
	}
	return out
}

// Model implements Solver.
func (n *Native) Model() (Model, error) {
	if n.model == nil {
		return nil, ErrNoModel
	}
	return n.model, nil
}

// Stats implements Solver.
func (n *Native) Stats() Stats {
	return n.monitor.Stats()
}
