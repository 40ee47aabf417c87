package lra

import (
	"testing"
)

// TestRational_NewRational tests creation and normalization.
func TestRational_NewRational(t *testing.T) {
	tests := []struct {
		name     string
		num, den int64
		want     string
	}{
		{"simple fraction", 3, 4, "3/4"},
		{"reduces to lowest terms", 6, 8, "3/4"},
		{"negative numerator", -3, 4, "-3/4"},
		{"negative denominator", 3, -4, "-3/4"},
		{"both negative", -3, -4, "3/4"},
		{"zero numerator", 0, 5, "0"},
		{"integer", 10, 2, "5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NewRational(tt.num, tt.den).String(); got != tt.want {
				t.Errorf("NewRational(%d, %d) = %s, want %s", tt.num, tt.den, got, tt.want)
			}
		})
	}
}

// TestRational_NewRationalPanic tests that zero denominator panics.
func TestRational_NewRationalPanic(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("NewRational(1, 0) did not panic")
		}
	}()
	NewRational(1, 0)
}

func TestRational_Arithmetic(t *testing.T) {
	a := NewRational(1, 2)
	b := NewRational(1, 3)

	tests := []struct {
		name string
		got  Rational
		want string
	}{
		{"add", a.Add(b), "5/6"},
		{"sub", a.Sub(b), "1/6"},
		{"mul", a.Mul(b), "1/6"},
		{"div", a.Div(b), "3/2"},
		{"neg", a.Neg(), "-1/2"},
		{"inv", b.Inv(), "3"},
		{"abs", a.Neg().Abs(), "1/2"},
		{"min", a.Min(b), "1/3"},
		{"max", a.Max(b), "1/2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got.String() != tt.want {
				t.Errorf("got %s, want %s", tt.got, tt.want)
			}
		})
	}
}

func TestRational_ZeroValue(t *testing.T) {
	var z Rational
	if !z.IsZero() {
		t.Fatal("zero value should be 0")
	}
	if got := z.Add(One); !got.Equals(One) {
		t.Errorf("0 + 1 = %s", got)
	}
	if z.String() != "0" {
		t.Errorf("String() = %q", z.String())
	}
}

func TestRational_Immutable(t *testing.T) {
	a := NewRational(1, 2)
	_ = a.Add(One)
	_ = a.Neg()
	if a.String() != "1/2" {
		t.Errorf("receiver modified: %s", a)
	}
}

func TestParseRational(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"3", "3", true},
		{"-3/4", "-3/4", true},
		{"0.25", "1/4", true},
		{"abc", "", false},
	}
	for _, tt := range tests {
		got, err := ParseRational(tt.in)
		if (err == nil) != tt.ok {
			t.Errorf("ParseRational(%q) err = %v", tt.in, err)
			continue
		}
		if tt.ok && got.String() != tt.want {
			t.Errorf("ParseRational(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestRational_DecimalString(t *testing.T) {
	if got := NewRational(1, 3).DecimalString(4); got != "0.3333" {
		t.Errorf("DecimalString = %s", got)
	}
}
