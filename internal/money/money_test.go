package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"1", "1", true},
		{"1.23", "1.23", true},
		{"1,23", "1.23", true},
		{" 2.50 ", "2.5", true},
		{"0.01", "0.01", true},
		{"1.005", "", false},
		{"-1", "", false},
		{"0", "", false},
		{"abc", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, err := Parse(tc.in)
		if !tc.ok {
			assert.ErrorIs(t, err, ErrInvalidAmount, "input %q", tc.in)
			continue
		}
		require.NoError(t, err, "input %q", tc.in)
		assert.True(t, got.Equal(decimal.RequireFromString(tc.want)), "input %q: got %s", tc.in, got)
	}
}

func TestIsSettled(t *testing.T) {
	assert.True(t, IsSettled(decimal.Zero, Epsilon))
	assert.True(t, IsSettled(decimal.RequireFromString("0.004"), Epsilon))
	assert.True(t, IsSettled(decimal.RequireFromString("-0.004"), Epsilon))
	assert.False(t, IsSettled(decimal.RequireFromString("0.005"), Epsilon))
	assert.False(t, IsSettled(decimal.RequireFromString("-0.01"), Epsilon))
	assert.True(t, IsSettled(decimal.RequireFromString("0.009"), decimal.RequireFromString("0.01")))
}

func TestRoundAndFormat(t *testing.T) {
	assert.Equal(t, "33.33", Format(decimal.NewFromInt(100).Div(decimal.NewFromInt(3))))
	assert.Equal(t, "0.01", Format(Round(decimal.RequireFromString("0.005"))))
	assert.Equal(t, "-12.00", Format(decimal.NewFromInt(-12)))
}

func TestSum(t *testing.T) {
	assert.True(t, Sum().IsZero())
	got := Sum(decimal.RequireFromString("0.1"), decimal.RequireFromString("0.2"))
	assert.True(t, got.Equal(decimal.RequireFromString("0.3")))
}
