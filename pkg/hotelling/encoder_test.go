package hotelling

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gitrdm/hotelling/pkg/lra"
	"github.com/gitrdm/hotelling/pkg/solver"
)

func TestNewPositions(t *testing.T) {
	xs, err := NewPositions(3)
	require.NoError(t, err)
	assert.Equal(t, "[x0, x1, x2]", varList(xs))

	for _, n := range []int{-1, 0, 1} {
		_, err := NewPositions(n)
		assert.ErrorIs(t, err, ErrInvalidConfiguration, "n=%d", n)
	}
}

func TestDomainConstraints(t *testing.T) {
	xs, err := NewPositions(4)
	require.NoError(t, err)
	fs := DomainConstraints(xs)
	assert.Len(t, fs, 3*4-1)

	inside := map[lra.Var]lra.Rational{xs[0]: r(0, 1), xs[1]: r(1, 4), xs[2]: r(1, 4), xs[3]: r(1, 1)}
	for _, f := range fs {
		assert.True(t, lra.Eval(f, inside), "%s", f)
	}
	unsorted := map[lra.Var]lra.Rational{xs[0]: r(1, 2), xs[1]: r(1, 4), xs[2]: r(1, 2), xs[3]: r(1, 2)}
	violated := 0
	for _, f := range fs {
		if !lra.Eval(f, unsorted) {
			violated++
		}
	}
	assert.Equal(t, 1, violated)
}

func TestStabilityConstraints_Count(t *testing.T) {
	for n := 2; n <= 6; n++ {
		xs, err := NewPositions(n)
		require.NoError(t, err)
		devs, err := StabilityConstraints(xs, nil)
		require.NoError(t, err)
		assert.Len(t, devs, n*n)
		for k, d := range devs {
			assert.Equal(t, k/n, d.Player)
			assert.Equal(t, k%n, d.Slot)
			for _, v := range lra.FreeVars(d.Constraint) {
				assert.NotEqual(t, d.Alt, v, "alt must be bound")
			}
		}
	}
}

func TestPlayerDeviations_Slots(t *testing.T) {
	xs, err := NewPositions(3)
	require.NoError(t, err)
	og, err := Shares(exprs(xs))
	require.NoError(t, err)

	devs, err := PlayerDeviations(xs, og, 1, nil)
	require.NoError(t, err)
	require.Len(t, devs, 3)

	// rivals of player 1 are x0 and x2
	assert.Equal(t, "0", devs[0].Lo.String())
	assert.Equal(t, "x0", devs[0].Hi.String())
	assert.Equal(t, "x0", devs[1].Lo.String())
	assert.Equal(t, "x2", devs[1].Hi.String())
	assert.Equal(t, "x2", devs[2].Lo.String())
	assert.Equal(t, "1", devs[2].Hi.String())

	// between two rivals the share does not depend on where the deviator sits
	assert.Equal(t, "-1/2*x0 + 1/2*x2", devs[1].Share.String())
	assert.Equal(t, "x1_1_alt", devs[1].Alt.Name())
	assert.True(t, devs[1].Original.Equal(og[1]))

	_, err = PlayerDeviations(xs, og, 3, nil)
	assert.Error(t, err)
}

func TestStabilityConstraints_Trace(t *testing.T) {
	xs, err := NewPositions(2)
	require.NoError(t, err)
	var buf bytes.Buffer
	_, err = StabilityConstraints(xs, &buf)
	require.NoError(t, err)

	out := buf.String()
	for _, want := range []string{
		"Playing as player=0\n",
		"\trivals: [x1]\n",
		"\t\tWhat if I was between -1 and 0 idx in rivals?\n",
		"\t\tWhat if I was between 0 and 1 idx in rivals?\n",
		"Playing as player=1\n",
		"\trivals: [x0]\n",
		"\t\t\tForAll([x1_1_alt], ",
	} {
		assert.Contains(t, out, want)
	}
	assert.Equal(t, 2, strings.Count(out, "Playing as player="))
}

func TestEncode_RegistersNSquaredStabilityConstraints(t *testing.T) {
	s := solver.NewNative(solver.DefaultConfig())
	cfg := DefaultConfig()
	cfg.Players = 4
	enc, err := Encode(s, cfg)
	require.NoError(t, err)

	assert.Equal(t, 16, enc.Stability())
	assert.Equal(t, 11, enc.Domain())
	assert.Len(t, s.Assertions(), 27)
	assert.Equal(t, 0, s.Stats().Checks, "nothing is checked while encoding")
}

func TestEncode_VerboseOnlyWhenAsked(t *testing.T) {
	var buf bytes.Buffer
	cfg := DefaultConfig()
	cfg.Trace = &buf
	_, err := Encode(solver.NewNative(solver.DefaultConfig()), cfg)
	require.NoError(t, err)
	assert.Empty(t, buf.String())

	cfg.Verbose = true
	_, err = Encode(solver.NewNative(solver.DefaultConfig()), cfg)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Playing as player=1")
}

func TestEncoding_BlockExcludesCertificate(t *testing.T) {
	s := solver.NewNative(solver.DefaultConfig())
	enc, err := Encode(s, DefaultConfig())
	require.NoError(t, err)
	ctx := context.Background()

	status, err := enc.Check(ctx)
	require.NoError(t, err)
	require.Equal(t, solver.Sat, status)
	p, err := enc.Extract()
	require.NoError(t, err)
	assert.Equal(t, "[1/2, 1/2]", p.String())

	require.NoError(t, enc.Block(p))
	assert.Equal(t, 1, enc.Blocking())
	status, err = enc.Check(ctx)
	require.NoError(t, err)
	assert.Equal(t, solver.Unsat, status)

	assert.Error(t, enc.Block(Profile{r(1, 2)}))
}
