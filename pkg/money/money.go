// Package money provides fixed-point monetary amounts.
//
// Amounts are stored as int64 in the smallest unit (cents) with two decimal
// places. All arithmetic is integer arithmetic; binary floating point is never
// used, so repeated transfers cannot accumulate rounding drift.
package money

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Decimals is the number of fractional digits carried by every Amount.
const Decimals = 2

var (
	// ErrInvalidAmount is returned when a string cannot be parsed as a
	// monetary amount with at most two decimal places.
	ErrInvalidAmount = errors.New("invalid monetary amount")

	// ErrAmountOverflow is returned when an amount does not fit in int64 cents.
	ErrAmountOverflow = errors.New("monetary amount overflows")
)

// Amount is a monetary value in cents.
type Amount int64

// Parse converts a decimal string such as "200.00", "125.5" or "7" into an
// Amount. More than two fractional digits or any non-numeric input yields
// ErrInvalidAmount.
func Parse(s string) (Amount, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}

	neg := false
	switch s[0] {
	case '-':
		neg = true
		s = s[1:]
	case '+':
		s = s[1:]
	}

	whole, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		whole, frac = s[:i], s[i+1:]
	}
	if whole == "" && frac == "" {
		return 0, ErrInvalidAmount
	}
	if whole == "" {
		whole = "0"
	}
	if len(frac) > Decimals {
		return 0, ErrInvalidAmount
	}
	for len(frac) < Decimals {
		frac += "0"
	}

	// ParseUint rejects signs and any other non-digit byte, so stray "+" or
	// "-" characters after the leading sign cannot sneak through.
	units, err := strconv.ParseUint(whole, 10, 64)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return 0, ErrAmountOverflow
		}
		return 0, ErrInvalidAmount
	}
	cents, err := strconv.ParseUint(frac, 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}

	if units > (math.MaxInt64-cents)/100 {
		return 0, ErrAmountOverflow
	}
	total := int64(units*100 + cents)
	if neg {
		total = -total
	}
	return Amount(total), nil
}

// MustParse is like Parse but panics on error. Intended for constants and tests.
func MustParse(s string) Amount {
	a, err := Parse(s)
	if err != nil {
		panic(fmt.Sprintf("money: cannot parse %q: %v", s, err))
	}
	return a
}

// FromCents wraps a raw cent count.
func FromCents(cents int64) Amount {
	return Amount(cents)
}

// Cents returns the raw cent count.
func (a Amount) Cents() int64 {
	return int64(a)
}

// IsPositive reports whether the amount is strictly greater than zero.
func (a Amount) IsPositive() bool {
	return a > 0
}

// String formats the amount with exactly two decimal places, e.g. "300.00".
func (a Amount) String() string {
	cents := int64(a)
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}
