package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Valid(t *testing.T) {
	tests := []struct {
		in   string
		want int64
	}{
		{"200.00", 20000},
		{"125.50", 12550},
		{"125.5", 12550},
		{"7", 700},
		{"0.01", 1},
		{".5", 50},
		{"0", 0},
		{"-3.25", -325},
		{"+10", 1000},
		{" 42.00 ", 4200},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Parse(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Cents())
		})
	}
}

func TestParse_Invalid(t *testing.T) {
	invalid := []string{
		"", ".", "1.005", "abc", "1.2.3", "1,50", "12a",
		// Sign characters are only legal as the very first byte.
		"--1", "+-1", "-+1", "++1", "1.+5", "1.-5", "1-", "1.5-",
	}
	for _, in := range invalid {
		t.Run(in, func(t *testing.T) {
			_, err := Parse(in)
			assert.ErrorIs(t, err, ErrInvalidAmount)
		})
	}
}

func TestParse_Overflow(t *testing.T) {
	_, err := Parse("92233720368547758.08")
	assert.ErrorIs(t, err, ErrAmountOverflow)
}

func TestString(t *testing.T) {
	assert.Equal(t, "300.00", MustParse("300").String())
	assert.Equal(t, "325.50", FromCents(32550).String())
	assert.Equal(t, "0.05", FromCents(5).String())
	assert.Equal(t, "-1.20", FromCents(-120).String())
}

func TestRoundTrip(t *testing.T) {
	for _, s := range []string{"0.00", "0.99", "1.00", "500.00", "125.50"} {
		got, err := Parse(s)
		require.NoError(t, err)
		assert.Equal(t, s, got.String())
	}
}

func TestIsPositive(t *testing.T) {
	assert.True(t, MustParse("0.01").IsPositive())
	assert.False(t, MustParse("0").IsPositive())
	assert.False(t, MustParse("-5").IsPositive())
}

func TestMustParse_Panics(t *testing.T) {
	assert.Panics(t, func() { MustParse("not money") })
}
