package hotelling

import (
	"strings"

	"github.com/gitrdm/hotelling/pkg/lra"
)

// Profile is a concrete position for every player, in player order.
type Profile []lra.Rational

// String renders exact values, e.g. "[1/4, 1/4, 3/4, 3/4]".
func (p Profile) String() string {
	parts := make([]string, len(p))
	for i, q := range p {
		parts[i] = q.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// Decimal renders a rounded decimal projection for display only.
func (p Profile) Decimal(prec int) string {
	parts := make([]string, len(p))
	for i, q := range p {
		parts[i] = q.DecimalString(prec)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// Equal reports whether p and o assign the same value to every player.
func (p Profile) Equal(o Profile) bool {
	if len(p) != len(o) {
		return false
	}
	for i := range p {
		if !p[i].Equals(o[i]) {
			return false
		}
	}
	return true
}

// Sorted reports whether positions are non-decreasing.
func (p Profile) Sorted() bool {
	for i := 1; i < len(p); i++ {
		if p[i].Cmp(p[i-1]) < 0 {
			return false
		}
	}
	return true
}

// InUnitInterval reports whether every position lies in [0,1].
func (p Profile) InUnitInterval() bool {
	for _, q := range p {
		if q.IsNegative() || q.Cmp(lra.One) > 0 {
			return false
		}
	}
	return true
}
