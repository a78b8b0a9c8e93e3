package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestPercent(t *testing.T) {
	tests := []struct {
		amount, percent, want string
	}{
		{"1000", "10", "100"},
		{"1000", "5", "50"},
		{"99.99", "3", "3"},      // 2.9997
		{"10.10", "12.5", "1.26"}, // 1.2625
		{"0.10", "5", "0.01"},     // 0.005 rounds up
		{"0.09", "5", "0"},        // 0.0045
		{"333.33", "33.33", "111.1"},
	}

	for _, tt := range tests {
		got := Percent(d(tt.amount), d(tt.percent))
		assert.Truef(t, got.Equal(d(tt.want)), "%s%% of %s = %s, want %s", tt.percent, tt.amount, got, tt.want)
	}
}

func TestValidators(t *testing.T) {
	assert.True(t, IsValidAmount(d("0.01")))
	assert.False(t, IsValidAmount(d("0")))
	assert.False(t, IsValidAmount(d("-5")))
	assert.False(t, IsValidAmount(d("1.001")))

	assert.True(t, IsValidPercent(d("0")))
	assert.True(t, IsValidPercent(d("100")))
	assert.False(t, IsValidPercent(d("100.01")))
	assert.False(t, IsValidPercent(d("-1")))
	assert.False(t, IsValidPercent(d("2.555")))
}
