package timeunit

import (
	"errors"
	"fmt"
	"math"
	"math/bits"
	"strconv"
	"strings"

	"github.com/cockroachdb/apd/v3"
)

// Time is an unsigned count of picoseconds.
type Time uint64

// Max is the largest representable Time; saturating arithmetic clamps to it.
const Max = Time(math.MaxUint64)

var (
	ErrEmpty         = errors.New("empty string")
	ErrMissingUnit   = errors.New("missing time unit")
	ErrUnknownUnit   = errors.New("unknown time unit")
	ErrSubBaseUnit   = errors.New("fs is finer than the 1ps resolution")
	ErrInvalidNumber = errors.New("not a number")
	ErrFraction      = errors.New("time must be a whole number of ps")
	ErrOverflow      = errors.New("time out of range")
)

// ParseError reports why a time string was rejected. Err is one of the
// sentinel errors above.
type ParseError struct {
	Input string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse time %q: %v", e.Input, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Reason is the short message shown next to an input field.
func (e *ParseError) Reason() string { return e.Err.Error() }

// New scales count units into a Time.
func New(count uint64, unit Unit) (Time, error) {
	if !unit.Representable() {
		return 0, fmt.Errorf("new time in %s: %w", unit, ErrSubBaseUnit)
	}
	hi, lo := bits.Mul64(count, perUnit[unit])
	if hi != 0 {
		return 0, fmt.Errorf("new time %d%s: %w", count, unit, ErrOverflow)
	}
	return Time(lo), nil
}

var decimalCtx = apd.BaseContext.WithPrecision(64)

// Parse reads strings such as "100ns", "0.5 us" or "100.001ns". The mantissa
// may be an integer or a decimal but the result must be a whole number of ps.
func Parse(s string) (Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, &ParseError{Input: s, Err: ErrEmpty}
	}
	split := strings.IndexFunc(s, func(r rune) bool {
		return !(r >= '0' && r <= '9' || r == '.')
	})
	if split < 0 {
		return 0, &ParseError{Input: s, Err: ErrMissingUnit}
	}
	mantissa, suffix := s[:split], strings.TrimSpace(s[split:])

	unit, ok := ParseUnit(suffix)
	if !ok {
		return 0, &ParseError{Input: s, Err: ErrUnknownUnit}
	}
	if !unit.Representable() {
		return 0, &ParseError{Input: s, Err: ErrSubBaseUnit}
	}

	d, _, err := apd.NewFromString(mantissa)
	if err != nil {
		return 0, &ParseError{Input: s, Err: ErrInvalidNumber}
	}
	var scaled apd.Decimal
	cond, err := decimalCtx.Mul(&scaled, d, apd.New(int64(perUnit[unit]), 0))
	if err != nil || cond.Inexact() {
		return 0, &ParseError{Input: s, Err: ErrOverflow}
	}
	var integ, frac apd.Decimal
	scaled.Modf(&integ, &frac)
	if !frac.IsZero() {
		return 0, &ParseError{Input: s, Err: ErrFraction}
	}
	v, err := integ.Int64()
	if err != nil {
		return 0, &ParseError{Input: s, Err: ErrOverflow}
	}
	return Time(v), nil
}

// String renders t in the largest unit in which it is at least 1, e.g. "100ns"
// or "1.5us". Zero renders as "0ps".
func (t Time) String() string {
	unit := Base
	for _, u := range displayUnits {
		if uint64(t) >= perUnit[u] {
			unit = u
		}
	}
	whole := uint64(t) / perUnit[unit]
	rem := uint64(t) % perUnit[unit]
	if rem == 0 {
		return strconv.FormatUint(whole, 10) + unit.String()
	}
	digits := len(strconv.FormatUint(perUnit[unit], 10)) - 1
	frac := strings.TrimRight(fmt.Sprintf("%0*d", digits, rem), "0")
	return strconv.FormatUint(whole, 10) + "." + frac + unit.String()
}

// Increase returns t+d, clamped at Max.
func (t Time) Increase(d Time) Time {
	sum, carry := bits.Add64(uint64(t), uint64(d), 0)
	if carry != 0 {
		return Max
	}
	return Time(sum)
}

// Decrease returns t-d, clamped at zero.
func (t Time) Decrease(d Time) Time {
	if d > t {
		return 0
	}
	return t - d
}

// Mul returns t*n, clamped at Max.
func (t Time) Mul(n uint64) Time {
	hi, lo := bits.Mul64(uint64(t), n)
	if hi != 0 {
		return Max
	}
	return Time(lo)
}

// StepIncrease moves t one rung up the zoom ladder. It fails when t is not on
// the ladder.
func (t Time) StepIncrease() (Time, error) {
	s, err := StepOf(t)
	if err != nil {
		return t, err
	}
	return s.Increase().Time(), nil
}

// StepDecrease moves t one rung down the zoom ladder. It fails when t is not
// on the ladder.
func (t Time) StepDecrease() (Time, error) {
	s, err := StepOf(t)
	if err != nil {
		return t, err
	}
	return s.Decrease().Time(), nil
}
