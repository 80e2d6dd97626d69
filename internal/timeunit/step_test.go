package timeunit

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStep_Ladder(t *testing.T) {
	t.Parallel()

	want := []Time{1, 5, 10, 50, 100, 500, 1000, 5000}
	s := Step{}
	for _, w := range want {
		require.Equal(t, w, s.Time())
		s = s.Increase()
	}
}

func TestStep_RoundTrip(t *testing.T) {
	t.Parallel()

	// Every rung reachable from 1ps comes back after up then down.
	s := Step{}
	for i := 0; i < maxRung; i++ {
		up := s.Increase()
		require.Equal(t, s, up.Decrease(), "rung %d", i)

		v, err := s.Time().StepIncrease()
		require.NoError(t, err)
		back, err := v.StepDecrease()
		require.NoError(t, err)
		require.Equal(t, s.Time(), back)

		s = up
	}
}

func TestStep_Saturates(t *testing.T) {
	t.Parallel()

	require.Equal(t, Time(1), Step{}.Decrease().Time())

	top := Step{rung: maxRung}
	require.Equal(t, top, top.Increase())
	require.Equal(t, Time(10_000_000_000_000_000_000), top.Time())
}

func TestStepOf(t *testing.T) {
	t.Parallel()

	s, err := StepOf(100_000)
	require.NoError(t, err)
	require.Equal(t, "100ns", s.String())
	require.Equal(t, Time(500_000), s.Increase().Time())
	require.Equal(t, Time(50_000), s.Decrease().Time())

	for _, bad := range []Time{0, 2, 20, 150, 1_001} {
		_, err := StepOf(bad)
		require.ErrorIs(t, err, ErrOffLadder, "%d", bad)

		_, err = bad.StepIncrease()
		require.ErrorIs(t, err, ErrOffLadder)
	}
}

func TestMustStepOf_Panics(t *testing.T) {
	t.Parallel()

	require.Panics(t, func() { MustStepOf(3) })
	require.NotPanics(t, func() { MustStepOf(50) })
}
