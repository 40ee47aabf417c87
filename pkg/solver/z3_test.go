package solver

import (
	"context"
	"os/exec"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gitrdm/hotelling/pkg/lra"
)

func TestZ3_Script(t *testing.T) {
	x := lra.NewVar("x")
	v := lra.NewVar("x_alt")
	s := NewZ3(DefaultConfig(WithBackend(BackendZ3)))
	require.NoError(t, s.Add(
		lra.Within(x.Expr(), num(0, 1), num(1, 1)),
		lra.ForAll{Vars: []lra.Var{v}, Body: lra.Le(v.Expr(), x.Expr())},
	))

	script, vars, err := s.Script()
	require.NoError(t, err)
	assert.Equal(t, []lra.Var{x}, vars)
	for _, line := range []string{
		"(set-logic LRA)",
		"(declare-fun x () Real)",
		"(assert (and (<= (* (- 1.0) x) 0.0) (<= x 1.0)))",
		"(assert (forall ((x_alt Real)) (<= (+ (* (- 1.0) x) x_alt) 0.0)))",
		"(check-sat)",
		"(get-value (x))",
	} {
		assert.Contains(t, script, line+"\n")
	}
	assert.NotContains(t, script, "declare-fun x_alt")
}

func TestZ3_DuplicateNamesRejected(t *testing.T) {
	a := lra.NewVar("p")
	b := lra.NewVar("p")
	s := NewZ3(DefaultConfig())
	require.NoError(t, s.Add(lra.Le(a.Expr(), b.Expr())))

	_, err := s.Check(context.Background())
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestParseZ3Output(t *testing.T) {
	x := lra.NewVar("x")
	y := lra.NewVar("y")
	vars := []lra.Var{x, y}

	status, model, err := parseZ3Output("sat\n((x (/ 1.0 2.0))\n (y (- (/ 3.0 4.0))))\n", vars)
	require.NoError(t, err)
	assert.Equal(t, Sat, status)
	assert.Equal(t, "1/2", model.Evaluate(x).String())
	assert.Equal(t, "-3/4", model.Evaluate(y).String())

	status, _, err = parseZ3Output("unsat\n(error \"line 9 column 10: model is not available\")\n", vars)
	require.NoError(t, err)
	assert.Equal(t, Unsat, status)

	status, _, err = parseZ3Output("unknown\n", vars)
	require.NoError(t, err)
	assert.Equal(t, Unknown, status)

	_, _, err = parseZ3Output("(error \"line 1: unknown constant\")\n", vars)
	assert.ErrorIs(t, err, ErrUnavailable)

	_, _, err = parseZ3Output("", vars)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestEvalReal(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0.5", "1/2"},
		{"3.0", "3"},
		{"(/ 1.0 3.0)", "1/3"},
		{"(- 2.0)", "-2"},
		{"(- (/ 5.0 6.0))", "-5/6"},
		{"(+ 1.0 (* 2.0 (/ 1.0 4.0)))", "3/2"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			es, err := parseSexprs(tt.in)
			require.NoError(t, err)
			require.Len(t, es, 1)
			q, err := evalReal(es[0])
			require.NoError(t, err)
			assert.Equal(t, tt.want, q.String())
		})
	}

	es, err := parseSexprs("(root-obj (+ (^ x 2) (- 2)) 1)")
	require.NoError(t, err)
	_, err = evalReal(es[0])
	assert.Error(t, err)
}

func TestParseSexprs_Malformed(t *testing.T) {
	for _, in := range []string{"(sat", ")", "|open", "\"open"} {
		_, err := parseSexprs(in)
		assert.Error(t, err, in)
	}
	es, err := parseSexprs("; comment\n(|x y| \"a\"\"b\")")
	require.NoError(t, err)
	require.Len(t, es, 1)
	assert.Equal(t, "x y", es[0].list[0].atom)
	assert.Equal(t, "\"a\"\"b\"", es[0].list[1].atom)
}

func TestZ3_FakeEngine(t *testing.T) {
	x := lra.NewVar("x")
	s := NewZ3(DefaultConfig())
	var scripts []string
	s.run = func(_ context.Context, script string) (string, error) {
		scripts = append(scripts, script)
		if len(scripts) == 1 {
			return "sat\n((x 1.0))\n", nil
		}
		return "unsat\n", nil
	}
	require.NoError(t, s.Add(lra.Ge(x.Expr(), num(1, 1))))

	status, err := s.Check(context.Background())
	require.NoError(t, err)
	require.Equal(t, Sat, status)
	m, err := s.Model()
	require.NoError(t, err)
	assert.Equal(t, "1", m.Evaluate(x).String())

	require.NoError(t, s.Add(lra.Neq(x.Expr(), num(1, 1))))
	status, err = s.Check(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Unsat, status)
	_, err = s.Model()
	assert.ErrorIs(t, err, ErrNoModel)

	require.Len(t, scripts, 2)
	assert.True(t, strings.Contains(scripts[1], "(or (< x 1.0) (< (* (- 1.0) x) (- 1.0)))"), scripts[1])
}

func TestZ3_MissingBinary(t *testing.T) {
	x := lra.NewVar("x")
	s := NewZ3(DefaultConfig(WithZ3Path("/nonexistent/z3-binary")))
	require.NoError(t, s.Add(lra.Ge(x.Expr(), num(0, 1))))
	status, err := s.Check(context.Background())
	assert.Equal(t, Unknown, status)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestZ3_RealEngine(t *testing.T) {
	path, err := exec.LookPath("z3")
	if err != nil {
		t.Skip("z3 not installed")
	}
	x := lra.NewVar("x")
	v := lra.NewVar("v")
	s := NewZ3(DefaultConfig(WithZ3Path(path)))
	require.NoError(t, s.Add(
		lra.ForAll{Vars: []lra.Var{v}, Body: lra.Implies{
			If:   lra.Within(v.Expr(), num(0, 1), num(1, 1)),
			Then: lra.Le(v.Expr(), x.Expr()),
		}},
		lra.Le(x.Expr(), num(1, 1)),
	))
	status, err := s.Check(context.Background())
	require.NoError(t, err)
	require.Equal(t, Sat, status)
	m, err := s.Model()
	require.NoError(t, err)
	assert.Equal(t, "1", m.Evaluate(x).String())
}
