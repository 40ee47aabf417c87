package main

import (
	"bytes"
	"context"
	"os"
	"regexp"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

func runCLI(args ...string) (int, string, string) {
	var out, errb bytes.Buffer
	code := run(context.Background(), args, &out, &errb)
	return code, out.String(), errb.String()
}

var took = regexp.MustCompile(`(?m)^Took: \d+\.\d\ds$`)

func TestRun_TwoPlayersCapped(t *testing.T) {
	code, out, _ := runCLI("--N", "2", "--max-sols", "1")
	require.Equal(t, exitOK, code)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Solution 1: [1/2, 1/2]", lines[0])
	assert.Equal(t, "EARLY EXITING", lines[1])
	assert.Regexp(t, took, lines[2])
}

func TestRun_TwoPlayersExhausted(t *testing.T) {
	code, out, _ := runCLI("--approx", "--verify")
	require.Equal(t, exitOK, code)
	assert.Contains(t, out, "Solution 1: [1/2, 1/2] ≈ [0.500000, 0.500000]\n\tverified\n")
	assert.Regexp(t, took, out)
	assert.True(t, strings.HasSuffix(out, "No further equilibrium exists (found 1).\n"), out)
}

func TestRun_ThreePlayersNone(t *testing.T) {
	code, out, _ := runCLI("--N", "3", "--max-sols", "5")
	require.Equal(t, exitOK, code)
	assert.NotContains(t, out, "Solution")
	assert.True(t, strings.HasSuffix(out, "No equilibrium found.\n"), out)
}

func TestRun_Verbose(t *testing.T) {
	code, out, _ := runCLI("--verbose")
	require.Equal(t, exitOK, code)
	assert.Contains(t, out, "Playing as player=0\n\trivals: [x1]\n")
	assert.Less(t, strings.Index(out, "Playing as player=1"), strings.Index(out, "Solution 1:"))
}

func TestRun_ConfigurationErrors(t *testing.T) {
	tests := [][]string{
		{"--N", "1"},
		{"--max-sols", "0"},
		{"--solver", "cvc5"},
		{"--resolution", "0"},
		{"--N", "4", "--sweep", "3"},
		{"--log-level", "loud"},
		{"--no-such-flag"},
		{"stray"},
	}
	for _, args := range tests {
		t.Run(strings.Join(args, " "), func(t *testing.T) {
			code, out, errOut := runCLI(args...)
			assert.Equal(t, exitConfig, code)
			assert.Empty(t, out, "no partial output on a configuration error")
			assert.NotEmpty(t, errOut)
		})
	}
}

func TestRun_Version(t *testing.T) {
	code, out, _ := runCLI("--version")
	assert.Equal(t, exitOK, code)
	assert.True(t, strings.HasPrefix(out, "hotelling "), out)
}

func TestRun_Sweep(t *testing.T) {
	code, out, _ := runCLI("--N", "2", "--sweep", "3", "--max-sols", "5")
	require.Equal(t, exitOK, code)
	i2 := strings.Index(out, "== N=2 ==")
	i3 := strings.Index(out, "== N=3 ==")
	require.GreaterOrEqual(t, i2, 0)
	require.Greater(t, i3, i2)
	assert.Contains(t, out[i2:i3], "Solution 1: [1/2, 1/2]")
	assert.Contains(t, out[i3:], "No equilibrium found.")
}

func TestWorse_FailureOutranksInconclusive(t *testing.T) {
	tests := []struct {
		codes []int
		want  int
	}{
		{[]int{exitOK, exitOK}, exitOK},
		{[]int{exitOK, exitInconclusive}, exitInconclusive},
		{[]int{exitFailure, exitInconclusive}, exitFailure},
		{[]int{exitInconclusive, exitFailure, exitOK}, exitFailure},
		{[]int{exitInconclusive, exitConfig}, exitConfig},
		{[]int{exitConfig, exitFailure}, exitFailure},
	}
	for _, tt := range tests {
		got := exitOK
		for _, c := range tt.codes {
			got = worse(got, c)
		}
		assert.Equal(t, tt.want, got, "%v", tt.codes)
	}
}

func TestRun_SweepReportsFailure(t *testing.T) {
	code, out, _ := runCLI("--N", "2", "--sweep", "3", "--solver", "z3", "--z3", "/nonexistent/z3-binary")
	assert.Equal(t, exitFailure, code)
	assert.Contains(t, out, "== N=3 ==")
	assert.Contains(t, out, "Search failed")
}

func TestRun_Z3Unavailable(t *testing.T) {
	code, out, _ := runCLI("--solver", "z3", "--z3", "/nonexistent/z3-binary")
	assert.Equal(t, exitFailure, code)
	assert.Contains(t, out, "Search failed")
}
