package hotelling

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gitrdm/hotelling/pkg/lra"
)

func r(n, d int64) lra.Rational { return lra.NewRational(n, d) }

func TestShares_Concrete(t *testing.T) {
	tests := []struct {
		name   string
		roster Profile
		want   string
	}{
		{"two apart", Profile{r(0, 1), r(1, 1)}, "[1/2, 1/2]"},
		{"two together", Profile{r(1, 2), r(1, 2)}, "[1/2, 1/2]"},
		{"three spread", Profile{r(0, 1), r(1, 2), r(1, 1)}, "[1/4, 1/2, 1/4]"},
		{"four paired", Profile{r(1, 4), r(1, 4), r(3, 4), r(3, 4)}, "[1/4, 1/4, 1/4, 1/4]"},
		{"five", Profile{r(1, 6), r(1, 6), r(1, 2), r(5, 6), r(5, 6)}, "[1/6, 1/6, 1/3, 1/6, 1/6]"},
		{"skewed", Profile{r(1, 10), r(1, 5), r(9, 10)}, "[3/20, 2/5, 9/20]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shares, err := Shares(constants(tt.roster))
			require.NoError(t, err)
			got := make(Profile, len(shares))
			sum := lra.Zero
			for i, s := range shares {
				require.True(t, s.IsConst())
				got[i] = s.Constant()
				sum = sum.Add(got[i])
				assert.False(t, got[i].IsNegative(), "share %d negative", i)
			}
			assert.Equal(t, tt.want, got.String())
			assert.True(t, sum.Equals(lra.One), "shares sum to %s", sum)
		})
	}
}

func TestShares_SymbolicSumIsOne(t *testing.T) {
	for n := 2; n <= 7; n++ {
		xs, err := NewPositions(n)
		require.NoError(t, err)
		shares, err := Shares(exprs(xs))
		require.NoError(t, err)
		sum := lra.Const(lra.Zero)
		for _, s := range shares {
			sum = sum.Add(s)
		}
		assert.True(t, sum.Equal(lra.Const(lra.One)), "n=%d: %s", n, sum)
	}
}

func TestShares_TooShort(t *testing.T) {
	_, err := Shares([]lra.Expr{lra.Const(lra.Half)})
	assert.ErrorIs(t, err, ErrInvalidConfiguration)
}

func ExampleShares() {
	roster := []lra.Expr{
		lra.Const(lra.Zero),
		lra.Const(lra.Half),
		lra.Const(lra.One),
	}
	shares, _ := Shares(roster)
	fmt.Println(shares)
	// Output: [1/4 1/2 1/4]
}
