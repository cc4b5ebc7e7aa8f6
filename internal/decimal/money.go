package decimal

import (
	"github.com/shopspring/decimal"
)

// Zero is decimal zero
var Zero = decimal.Zero

var hundred = decimal.NewFromInt(100)

// FromInt creates decimal from int
func FromInt(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

// FromString parses decimal from string
func FromString(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(s)
}

// MustFromString parses decimal from string, panics on error
func MustFromString(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Round2 rounds half away from zero to cents.
// For non-negative money this is the same as half-up.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// Format2 renders d with exactly two fractional digits
func Format2(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// Percentage computes amount * (rate/100) without rounding
func Percentage(amount, rate decimal.Decimal) decimal.Decimal {
	if rate.IsZero() {
		return Zero
	}
	return amount.Mul(rate).Div(hundred)
}

// Sum sums a slice of decimals
func Sum(values []decimal.Decimal) decimal.Decimal {
	result := Zero
	for _, v := range values {
		result = result.Add(v)
	}
	return result
}

// IsCentScale reports whether d has no digits beyond the second decimal place
func IsCentScale(d decimal.Decimal) bool {
	return d.Equal(d.Truncate(2))
}

// WithinTolerance reports whether |a-b| <= tol
func WithinTolerance(a, b, tol decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThanOrEqual(tol)
}

// IsPositive returns true if decimal is greater than zero
func IsPositive(d decimal.Decimal) bool {
	return d.GreaterThan(Zero)
}

// IsNonNegative returns true if decimal is >= zero
func IsNonNegative(d decimal.Decimal) bool {
	return d.GreaterThanOrEqual(Zero)
}
