package decimal_test

import (
	"testing"

	dec "github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/ehf-generator/internal/decimal"
)

func TestFromInt(t *testing.T) {
	d := decimal.FromInt(1000)
	assert.True(t, d.Equal(dec.NewFromInt(1000)))
}

func TestFromString(t *testing.T) {
	d, err := decimal.FromString("1234.56")
	require.NoError(t, err)
	assert.True(t, d.Equal(dec.RequireFromString("1234.56")))

	_, err = decimal.FromString("not-a-number")
	require.Error(t, err)
}

func TestMustFromString(t *testing.T) {
	d := decimal.MustFromString("999.99")
	assert.True(t, d.Equal(dec.RequireFromString("999.99")))

	assert.Panics(t, func() {
		decimal.MustFromString("invalid")
	})
}

func TestRound2(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"half rounds up", "2.345", "2.35"},
		{"below half rounds down", "2.344", "2.34"},
		{"already at cents", "10.10", "10.1"},
		{"integer", "7", "7"},
		{"long tail", "0.125000001", "0.13"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := decimal.Round2(dec.RequireFromString(tt.input))
			assert.True(t, result.Equal(dec.RequireFromString(tt.expected)),
				"expected %s, got %s", tt.expected, result)
		})
	}
}

func TestFormat2(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"1000", "1000.00"},
		{"25", "25.00"},
		{"0", "0.00"},
		{"12.5", "12.50"},
		{"0.005", "0.01"},
		{"99.994", "99.99"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, decimal.Format2(dec.RequireFromString(tt.input)))
		})
	}
}

func TestPercentage(t *testing.T) {
	tests := []struct {
		name     string
		amount   string
		rate     string
		expected string
	}{
		{"25% of 1000", "1000", "25", "250"},
		{"15% of 99.99", "99.99", "15", "14.9985"},
		{"zero rate", "1000", "0", "0"},
		{"fractional rate", "200", "12.5", "25"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := decimal.Percentage(dec.RequireFromString(tt.amount), dec.RequireFromString(tt.rate))
			assert.True(t, result.Equal(dec.RequireFromString(tt.expected)),
				"expected %s, got %s", tt.expected, result)
		})
	}
}

func TestSum(t *testing.T) {
	values := []dec.Decimal{
		dec.RequireFromString("100.10"),
		dec.RequireFromString("200.20"),
		dec.RequireFromString("0.05"),
	}
	assert.True(t, decimal.Sum(values).Equal(dec.RequireFromString("300.35")))
	assert.True(t, decimal.Sum(nil).IsZero())
}

func TestIsCentScale(t *testing.T) {
	assert.True(t, decimal.IsCentScale(dec.RequireFromString("250.00")))
	assert.True(t, decimal.IsCentScale(dec.RequireFromString("250.1")))
	assert.True(t, decimal.IsCentScale(dec.RequireFromString("250.100")))
	assert.False(t, decimal.IsCentScale(dec.RequireFromString("250.125")))
}

func TestWithinTolerance(t *testing.T) {
	tol := dec.RequireFromString("0.01")
	assert.True(t, decimal.WithinTolerance(dec.RequireFromString("10.00"), dec.RequireFromString("10.01"), tol))
	assert.False(t, decimal.WithinTolerance(dec.RequireFromString("10.00"), dec.RequireFromString("10.02"), tol))
}

func TestIsPositive(t *testing.T) {
	assert.True(t, decimal.IsPositive(dec.NewFromInt(1)))
	assert.False(t, decimal.IsPositive(dec.Zero))
	assert.False(t, decimal.IsPositive(dec.NewFromInt(-1)))
}

func TestIsNonNegative(t *testing.T) {
	assert.True(t, decimal.IsNonNegative(dec.NewFromInt(1)))
	assert.True(t, decimal.IsNonNegative(dec.Zero))
	assert.False(t, decimal.IsNonNegative(dec.NewFromInt(-1)))
}
