package solver

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"sort"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/gitrdm/hotelling/pkg/lra"
)

// Z3 delegates every Check to an external z3 process speaking SMT-LIB2.
//
// Each Check renders the entire store as a fresh script:
//
//	(set-option :produce-models true)
//	(set-logic LRA)
//	(declare-fun x0 () Real) ...
//	(assert ...) ...
//	(check-sat)
//	(get-value (x0 ...))
//
// and parses the verdict and, when sat, the value list. z3 decides the
// quantified formulas itself; nothing is eliminated on this side.
type Z3 struct {
	store

	cfg     Config
	log     zerolog.Logger
	monitor *Monitor
	model   Assignment

	// run executes a script and returns the engine's standard output.
	run func(ctx context.Context, script string) (string, error)
}

// NewZ3 creates the external-engine backend.
func NewZ3(cfg Config) *Z3 {
	if cfg.Z3Path == "" {
		cfg.Z3Path = "z3"
	}
	s := &Z3{cfg: cfg, log: cfg.Logger, monitor: NewMonitor()}
	s.run = s.exec
	return s
}

// Add implements Solver.
func (s *Z3) Add(fs ...lra.Formula) error {
	for _, f := range fs {
		s.store.append(f)
		s.monitor.RecordAssertion(0)
	}
	return nil
}

// Script renders the store as an SMT-LIB2 script.
func (s *Z3) Script() (string, []lra.Var, error) {
	vars, err := s.declarations()
	if err != nil {
		return "", nil, err
	}
	var b strings.Builder
	b.WriteString("(set-option :produce-models true)\n")
	if s.cfg.Timeout > 0 {
		fmt.Fprintf(&b, "(set-option :timeout %d)\n", s.cfg.Timeout.Milliseconds())
	}
	b.WriteString("(set-logic LRA)\n")
	for _, v := range vars {
		fmt.Fprintf(&b, "(declare-fun %s () Real)\n", lra.SMTSymbol(v))
	}
	for _, f := range s.assertions {
		fmt.Fprintf(&b, "(assert %s)\n", lra.SMT(f))
	}
	b.WriteString("(check-sat)\n")
	if len(vars) > 0 {
		names := make([]string, len(vars))
		for i, v := range vars {
			names[i] = lra.SMTSymbol(v)
		}
		fmt.Fprintf(&b, "(get-value (%s))\n", strings.Join(names, " "))
	}
	b.WriteString("(exit)\n")
	return b.String(), vars, nil
}

// declarations returns the free variables of the store, rejecting two
// distinct variables that would share an SMT symbol.
func (s *Z3) declarations() ([]lra.Var, error) {
	seen := make(map[lra.Var]bool)
	bySym := make(map[string]lra.Var)
	var vars []lra.Var
	for _, f := range s.assertions {
		for _, v := range lra.FreeVars(f) {
			if seen[v] {
				continue
			}
			seen[v] = true
			sym := lra.SMTSymbol(v)
			if prev, ok := bySym[sym]; ok && prev != v {
				return nil, fmt.Errorf("%w: two variables named %s", ErrUnsupported, sym)
			}
			bySym[sym] = v
			vars = append(vars, v)
		}
	}
	sort.Slice(vars, func(i, j int) bool { return vars[i].ID() < vars[j].ID() })
	return vars, nil
}

// Check implements Solver.
func (s *Z3) Check(ctx context.Context) (Status, error) {
	s.monitor.StartCheck()
	defer s.monitor.EndCheck()

	s.model = nil
	script, vars, err := s.Script()
	if err != nil {
		return Unknown, err
	}
	s.monitor.RecordBooleanSolve()
	out, err := s.run(ctx, script)
	if err != nil {
		if ctx.Err() != nil {
			return Unknown, ctx.Err()
		}
		return Unknown, err
	}

	status, model, err := parseZ3Output(out, vars)
	if err != nil {
		return Unknown, err
	}
	s.log.Debug().Str("verdict", status.String()).Int("assertions", len(s.assertions)).Msg("z3 check")
	if status == Sat {
		s.model = model
	}
	return status, nil
}

// exec runs the z3 binary, pumping the script into its standard input
// while draining its standard output.
func (s *Z3) exec(ctx context.Context, script string) (string, error) {
	cmd := exec.CommandContext(ctx, s.cfg.Z3Path, "-in", "-smt2")
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Start(); err != nil {
		return "", fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	var out bytes.Buffer
	var g errgroup.Group
	g.Go(func() error {
		defer stdin.Close()
		_, err := io.WriteString(stdin, script)
		return err
	})
	g.Go(func() error {
		_, err := io.Copy(&out, stdout)
		return err
	})
	ioErr := g.Wait()
	waitErr := cmd.Wait()

	if ctx.Err() != nil {
		return "", ctx.Err()
	}
	if out.Len() == 0 {
		// no verdict at all: the engine did not run or died early
		cause := errors.Join(ioErr, waitErr)
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			cause = errors.Join(cause, errors.New(msg))
		}
		return "", fmt.Errorf("%w: %w", ErrUnavailable, cause)
	}
	// z3 exits non-zero when get-value follows an unsat verdict; the
	// verdict on stdout is still authoritative.
	return out.String(), nil
}

// parseZ3Output reads the verdict and, for sat, the get-value response.
func parseZ3Output(out string, vars []lra.Var) (Status, Assignment, error) {
	exprs, err := parseSexprs(out)
	if err != nil {
		return Unknown, nil, fmt.Errorf("%w: malformed engine output: %w", ErrUnavailable, err)
	}
	if len(exprs) == 0 {
		return Unknown, nil, fmt.Errorf("%w: empty engine output", ErrUnavailable)
	}
	head := exprs[0]
	if head.isList {
		return Unknown, nil, fmt.Errorf("%w: %s", ErrUnavailable, head)
	}
	switch head.atom {
	case "unsat":
		return Unsat, nil, nil
	case "unknown", "timeout":
		return Unknown, nil, nil
	case "sat":
	default:
		return Unknown, nil, fmt.Errorf("%w: unexpected verdict %q", ErrUnavailable, head.atom)
	}

	model := make(Assignment, len(vars))
	if len(vars) == 0 {
		return Sat, model, nil
	}
	if len(exprs) < 2 || !exprs[1].isList {
		return Unknown, nil, fmt.Errorf("%w: sat without a value list", ErrUnavailable)
	}
	bySym := make(map[string]lra.Var, len(vars))
	for _, v := range vars {
		bySym[strings.Trim(lra.SMTSymbol(v), "|")] = v
	}
	for _, pair := range exprs[1].list {
		if !pair.isList || len(pair.list) != 2 || pair.list[0].isList {
			return Unknown, nil, fmt.Errorf("%w: malformed value %s", ErrUnavailable, pair)
		}
		v, ok := bySym[pair.list[0].atom]
		if !ok {
			continue
		}
		q, err := evalReal(pair.list[1])
		if err != nil {
			return Unknown, nil, fmt.Errorf("%w: value of %s: %w", ErrUnavailable, v, err)
		}
		model[v] = q
	}
	return Sat, model, nil
}

// Model implements Solver.
func (s *Z3) Model() (Model, error) {
	if s.model == nil {
		return nil, ErrNoModel
	}
	return s.model, nil
}

// Stats implements Solver.
func (s *Z3) Stats() Stats {
	return s.monitor.Stats()
}
