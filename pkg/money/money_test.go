package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseFloat(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"85", 85},
		{"10.50", 10.5},
		{" 42 ", 42},
		{"", 0},
		{"abc", 0},
		{"12.", 0},
		{"-3", -3},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseFloat(tt.in), "input %q", tt.in)
	}
}

func TestRowAmount(t *testing.T) {
	assert.Equal(t, 20.0, RowAmount("10", "2"))
	assert.Equal(t, 21.0, RowAmount("10.5", "2"))
	assert.Zero(t, RowAmount("", "2"))
	assert.Zero(t, RowAmount("10", "x"))
}

func TestSumAvoidsFloatDrift(t *testing.T) {
	// 0.1 + 0.2 in raw float64 is 0.30000000000000004.
	assert.Equal(t, 0.3, Sum(0.1, 0.2))
	assert.Equal(t, 35.0, Sum(25, 10))
	assert.Zero(t, Sum())
}

func TestSub(t *testing.T) {
	assert.Equal(t, -5.0, Sub(20, 25))
	assert.Equal(t, 0.05, Sub(0.15, 0.1))
}

func TestSettled(t *testing.T) {
	assert.True(t, Settled(0))
	assert.True(t, Settled(0.01))
	assert.True(t, Settled(-5), "overpayment is settled")
	assert.False(t, Settled(0.02))
}

func TestFormatINR(t *testing.T) {
	assert.Equal(t, "₹120.00", FormatINR(120))
	assert.Equal(t, "₹10.50", FormatINR(10.5))
	assert.Equal(t, "₹-5.00", FormatINR(-5))
}
