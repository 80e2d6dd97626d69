package timeunit

import (
	"errors"
	"fmt"
)

// ErrOffLadder is returned when a Time is not one of 1, 5, 10, 50, ... ps.
var ErrOffLadder = errors.New("time is not on the zoom ladder")

// maxRung is the last rung whose value fits in a Time (1e19 ps).
const maxRung = 38

// Step is a rung on the zoom ladder 1, 5, 10, 50, 100, 500, ... ps. Even
// rungs are powers of ten, odd rungs five times a power of ten. The zero
// Step is 1ps.
type Step struct {
	rung uint8
}

// StepOf returns the rung holding t.
func StepOf(t Time) (Step, error) {
	v := uint64(t)
	if v == 0 {
		return Step{}, fmt.Errorf("step of %s: %w", t, ErrOffLadder)
	}
	var rung uint8
	for v%10 == 0 {
		v /= 10
		rung += 2
	}
	switch v {
	case 1:
	case 5:
		rung++
	default:
		return Step{}, fmt.Errorf("step of %s: %w", t, ErrOffLadder)
	}
	return Step{rung: rung}, nil
}

// MustStepOf is StepOf for constants known to lie on the ladder.
func MustStepOf(t Time) Step {
	s, err := StepOf(t)
	if err != nil {
		panic(err)
	}
	return s
}

// Time is the bucket width of the rung.
func (s Step) Time() Time {
	v := uint64(1)
	for i := uint8(0); i < s.rung/2; i++ {
		v *= 10
	}
	if s.rung%2 == 1 {
		v *= 5
	}
	return Time(v)
}

// Increase moves one rung up, staying on the top rung.
func (s Step) Increase() Step {
	if s.rung < maxRung {
		s.rung++
	}
	return s
}

// Decrease moves one rung down, staying on 1ps.
func (s Step) Decrease() Step {
	if s.rung > 0 {
		s.rung--
	}
	return s
}

func (s Step) String() string {
	return s.Time().String()
}
