package lra

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// forallBelow builds ∀v. lo <= v <= hi ⇒ v/2 + c <= s, the shape of a
// single deviation constraint.
func forallBelow(v Var, lo, hi, c, s Expr) Formula {
	return ForAll{
		Vars: []Var{v},
		Body: Implies{
			If:   Within(v.Expr(), lo, hi),
			Then: Le(v.Expr().Half().Add(c), s),
		},
	}
}

func TestEliminate_MatchesPointwise(t *testing.T) {
	x := NewVar("x")
	y := NewVar("y")
	v := NewVar("v")

	f := forallBelow(v, Const(Zero), y.Expr(), y.Expr().Half(), x.Expr().Add(y.Expr()).Half())
	qf, err := Eliminate(f)
	require.NoError(t, err)
	assert.Empty(t, FreeVarsOf(qf, v))

	// The universal holds iff y <= x (on y >= 0).
	grid := []Rational{Zero, NewRational(1, 4), Half, NewRational(3, 4), One}
	for _, xv := range grid {
		for _, yv := range grid {
			assign := map[Var]Rational{x: xv, y: yv}
			want := yv.Cmp(xv) <= 0
			assert.Equal(t, want, Eval(qf, assign), "x=%s y=%s", xv, yv)
		}
	}
}

func TestEliminate_Exists(t *testing.T) {
	x := NewVar("x")
	v := NewVar("v")

	// ∃v. x < v < 1
	f := Exists{Vars: []Var{v}, Body: And{Lt(x.Expr(), v.Expr()), Lt(v.Expr(), Const(One))}}
	qf, err := Eliminate(f)
	require.NoError(t, err)
	assert.Equal(t, "x < 1", qf.String())
}

func TestEliminate_TriviallyTrue(t *testing.T) {
	v := NewVar("v")
	f := ForAll{Vars: []Var{v}, Body: Implies{If: Lt(v.Expr(), Const(Zero)), Then: Le(v.Expr(), Const(One))}}
	qf, err := Eliminate(f)
	require.NoError(t, err)
	assert.Equal(t, True, qf)
}

func TestDNF_Constants(t *testing.T) {
	x := NewVar("x")

	cubes, err := DNF(False)
	require.NoError(t, err)
	assert.Nil(t, cubes)

	cubes, err = DNF(True)
	require.NoError(t, err)
	require.Len(t, cubes, 1)
	assert.Empty(t, cubes[0])

	cubes, err = DNF(Neq(x.Expr(), Const(Half)))
	require.NoError(t, err)
	require.Len(t, cubes, 2)
	assert.Len(t, cubes[0], 1)

	_, err = DNF(ForAll{Vars: []Var{x}, Body: True})
	assert.ErrorIs(t, err, ErrQuantified)
}

func TestSample(t *testing.T) {
	x := NewVar("x")
	v := NewVar("v")

	f := ForAll{Vars: []Var{v}, Body: Le(v.Expr(), x.Expr())}
	s := Sample(f, 4)
	and, ok := s.(And)
	require.True(t, ok)
	assert.Len(t, and, 5)
	assert.Empty(t, FreeVarsOf(s, v))

	qf, err := NNF(s)
	require.NoError(t, err)
	assert.True(t, Eval(qf, map[Var]Rational{x: One}))
	assert.False(t, Eval(qf, map[Var]Rational{x: NewRational(99, 100)}))
}

func TestSMT(t *testing.T) {
	x := NewVar("x0")
	v := NewVar("v 1")

	f := ForAll{
		Vars: []Var{v},
		Body: Implies{
			If:   Ge(v.Expr(), Const(Zero)),
			Then: Le(x.Expr().Add(v.Expr()).Half(), Const(NewRational(-3, 2))),
		},
	}
	want := "(forall ((|v 1| Real)) (=> (<= (* (- 1.0) |v 1|) 0.0) " +
		"(<= (+ (* (/ 1.0 2.0) x0) (* (/ 1.0 2.0) |v 1|)) (- (/ 3.0 2.0)))))"
	assert.Equal(t, want, SMT(f))
	assert.Equal(t, "true", SMT(And{}))
	assert.Equal(t, "false", SMT(Or{}))
}

// FreeVarsOf returns the members of vs that occur free in f.
func FreeVarsOf(f Formula, vs ...Var) []Var {
	var out []Var
	for _, fv := range FreeVars(f) {
		for _, v := range vs {
			if fv == v {
				out = append(out, v)
			}
		}
	}
	return out
}
