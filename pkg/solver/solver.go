// Package solver decides satisfiability of linear real arithmetic formulas,
// including universally quantified sub-formulas, and produces exact
// rational models.
//
// # Architecture Overview
//
// A Solver is an exclusively owned, growing constraint store plus a
// decision procedure:
//
//	Add(f...)  appends formulas (never removed within a run)
//	Check(ctx) decides the conjunction of everything added so far
//	Model()    returns the witness of the last Sat verdict
//
// Three backends implement the interface:
//
//	native   exact quantifier elimination + DPLL(T) on the gini SAT solver
//	sampled  like native, but quantifiers are instantiated on a grid
//	z3       an external z3 process fed SMT-LIB2 text
//
// Verdicts follow gini's convention: 1 sat, -1 unsat, 0 unknown. Unknown
// is a verdict, not an error: it means the engine gave up (timeout,
// incomplete reasoning), and callers must not read it as unsat.
package solver

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/gitrdm/hotelling/pkg/lra"
)

var (
	// ErrUnavailable reports that the solving engine could not be run or
	// crashed. Retrying without fixing the engine gains nothing.
	ErrUnavailable = errors.New("solver: engine unavailable")

	// ErrNoModel is returned by Model when the last Check was not Sat.
	ErrNoModel = errors.New("solver: no model available")

	// ErrUnsupported reports a formula the backend cannot encode.
	ErrUnsupported = errors.New("solver: unsupported formula")
)

// Status is the verdict of a Check.
type Status int

// Verdicts, numerically identical to gini's Solve() results.
const (
	Unsat   Status = -1
	Unknown Status = 0
	Sat     Status = 1
)

// StatusFromCode converts a gini-style result code.
func StatusFromCode(code int) Status {
	switch {
	case code > 0:
		return Sat
	case code < 0:
		return Unsat
	}
	return Unknown
}

func (s Status) String() string {
	switch s {
	case Sat:
		return "sat"
	case Unsat:
		return "unsat"
	}
	return "unknown"
}

// Model is a satisfying assignment produced by a Sat verdict.
type Model interface {
	// Evaluate returns the value of v in the model. Variables the model
	// does not constrain evaluate to zero.
	Evaluate(v lra.Var) lra.Rational
}

// Solver is a constraint store together with a decision procedure for it.
//
// Thread safety: Solvers are NOT thread-safe. A run owns its Solver
// exclusively; independent runs use independent Solvers.
type Solver interface {
	// Add appends formulas to the store.
	Add(fs ...lra.Formula) error

	// Assertions returns the formulas added so far, in insertion order.
	Assertions() []lra.Formula

	// Check decides the conjunction of all assertions. A long check ends
	// early only through ctx or the configured timeout, both of which
	// yield Unknown.
	Check(ctx context.Context) (Status, error)

	// Model returns the witness of the last Sat verdict.
	Model() (Model, error)

	// Stats returns a snapshot of the backend statistics.
	Stats() Stats
}

// Assignment is a Model backed by a map.
type Assignment map[lra.Var]lra.Rational

// Evaluate implements Model.
func (a Assignment) Evaluate(v lra.Var) lra.Rational {
	return a[v]
}

// String lists the assignment in variable order, e.g. "[x0 = 1/2, x1 = 1/2]".
func (a Assignment) String() string {
	vars := make([]lra.Var, 0, len(a))
	for v := range a {
		vars = append(vars, v)
	}
	sort.Slice(vars, func(i, j int) bool { return vars[i].ID() < vars[j].ID() })
	parts := make([]string, len(vars))
	for i, v := range vars {
		parts[i] = fmt.Sprintf("%s = %s", v, a[v])
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// New creates a solver for the configured backend.
func New(cfg Config) (Solver, error) {
	switch cfg.Backend {
	case BackendNative, "":
		return NewNative(cfg), nil
	case BackendSampled:
		return NewSampled(cfg), nil
	case BackendZ3:
		return NewZ3(cfg), nil
	}
	return nil, fmt.Errorf("solver: unknown backend %q", cfg.Backend)
}

// store is the insertion-ordered assertion list shared by all backends.
type store struct {
	assertions []lra.Formula
}

func (s *store) append(fs ...lra.Formula) {
	s.assertions = append(s.assertions, fs...)
}

// Assertions implements Solver.
func (s *store) Assertions() []lra.Formula {
	out := make([]lra.Formula, len(s.assertions))
	copy(out, s.assertions)
	return out
}
