// Package lra provides exact linear real arithmetic: rationals, linear
// expressions, comparison atoms and first-order formulas over them, plus
// quantifier elimination by Fourier-Motzkin projection and a simplex
// decision procedure for conjunctions of atoms.
//
// This file defines Rational, the exact number type every other piece of
// the package is built on.
package lra

import (
	"fmt"
	"math/big"
)

// Rational represents an exact rational number.
// Used for coefficients, constants and model values so that boundary
// comparisons in constraints are never subject to floating-point rounding.
//
// Rationals are immutable values: every operation allocates a fresh result
// and never modifies its receiver or arguments. The zero value is 0.
//
// Examples:
//
//	NewRational(6, 8)  → 3/4
//	NewRational(-6, 8) → -3/4
//	NewRational(0, 5)  → 0
type Rational struct {
	r *big.Rat // nil means zero
}

// Common constants.
var (
	Zero = Rational{}
	One  = NewRational(1, 1)
	Half = NewRational(1, 2)
)

// NewRational creates the rational num/den in lowest terms.
// Panics if den is zero.
func NewRational(num, den int64) Rational {
	if den == 0 {
		panic("rational: division by zero")
	}
	return Rational{r: big.NewRat(num, den)}
}

// Int returns the rational n/1.
func Int(n int64) Rational {
	return Rational{r: new(big.Rat).SetInt64(n)}
}

// FromBig returns a rational holding a copy of r.
func FromBig(r *big.Rat) Rational {
	if r == nil {
		return Zero
	}
	return Rational{r: new(big.Rat).Set(r)}
}

// ParseRational parses "3", "-3/4" or "0.25" into an exact rational.
func ParseRational(s string) (Rational, error) {
	r, ok := new(big.Rat).SetString(s)
	if !ok {
		return Zero, fmt.Errorf("rational: cannot parse %q", s)
	}
	return Rational{r: r}, nil
}

func (q Rational) rat() *big.Rat {
	if q.r == nil {
		return new(big.Rat)
	}
	return q.r
}

// Big returns a copy of q as a *big.Rat.
func (q Rational) Big() *big.Rat {
	return new(big.Rat).Set(q.rat())
}

// Add returns q + other.
func (q Rational) Add(other Rational) Rational {
	return Rational{r: new(big.Rat).Add(q.rat(), other.rat())}
}

// Sub returns q - other.
func (q Rational) Sub(other Rational) Rational {
	return Rational{r: new(big.Rat).Sub(q.rat(), other.rat())}
}

// Mul returns q * other.
func (q Rational) Mul(other Rational) Rational {
	return Rational{r: new(big.Rat).Mul(q.rat(), other.rat())}
}

// Div returns q / other. Panics if other is zero.
func (q Rational) Div(other Rational) Rational {
	if other.IsZero() {
		panic("rational: division by zero")
	}
	return Rational{r: new(big.Rat).Quo(q.rat(), other.rat())}
}

// Neg returns -q.
func (q Rational) Neg() Rational {
	return Rational{r: new(big.Rat).Neg(q.rat())}
}

// Abs returns |q|.
func (q Rational) Abs() Rational {
	return Rational{r: new(big.Rat).Abs(q.rat())}
}

// Inv returns 1/q. Panics if q is zero.
func (q Rational) Inv() Rational {
	return One.Div(q)
}

// Cmp compares q and other and returns -1, 0 or +1.
func (q Rational) Cmp(other Rational) int {
	return q.rat().Cmp(other.rat())
}

// Sign returns -1, 0 or +1 according to the sign of q.
func (q Rational) Sign() int {
	if q.r == nil {
		return 0
	}
	return q.r.Sign()
}

// IsZero reports whether q == 0.
func (q Rational) IsZero() bool { return q.Sign() == 0 }

// IsPositive reports whether q > 0.
func (q Rational) IsPositive() bool { return q.Sign() > 0 }

// IsNegative reports whether q < 0.
func (q Rational) IsNegative() bool { return q.Sign() < 0 }

// Equals reports whether q and other denote the same number.
func (q Rational) Equals(other Rational) bool {
	return q.Cmp(other) == 0
}

// IsInt reports whether q has denominator 1.
func (q Rational) IsInt() bool {
	return q.rat().IsInt()
}

// Num returns the numerator of q in lowest terms.
func (q Rational) Num() *big.Int {
	return new(big.Int).Set(q.rat().Num())
}

// Den returns the (positive) denominator of q in lowest terms.
func (q Rational) Den() *big.Int {
	return new(big.Int).Set(q.rat().Denom())
}

// Float64 returns the nearest float64 to q.
// Only meant for reporting; never feed the result back into constraints.
func (q Rational) Float64() float64 {
	f, _ := q.rat().Float64()
	return f
}

// Min returns the smaller of q and other.
func (q Rational) Min(other Rational) Rational {
	if q.Cmp(other) <= 0 {
		return q
	}
	return other
}

// Max returns the larger of q and other.
func (q Rational) Max(other Rational) Rational {
	if q.Cmp(other) >= 0 {
		return q
	}
	return other
}

// String returns "num/den" for non-integers and "num" for integers.
//
// Examples:
//
//	NewRational(3, 4).String() → "3/4"
//	NewRational(6, 1).String() → "6"
func (q Rational) String() string {
	return q.rat().RatString()
}

// DecimalString returns q rounded to prec decimal places.
func (q Rational) DecimalString(prec int) string {
	return q.rat().FloatString(prec)
}
