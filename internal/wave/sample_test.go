package wave

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dtkav/vcdview/internal/timeunit"
)

func buildSignal(t *testing.T, width int, events ...Event) *Signal {
	t.Helper()
	b := NewSignalBuilder("!", "sig", width)
	for _, ev := range events {
		require.NoError(t, b.Append(ev.Time, ev.Value))
	}
	return b.Freeze()
}

func stay(v Value) Cell   { return Cell{State: Stay, Kind: v.Kind(), Value: v} }
func change(v Value) Cell { return Cell{State: Change, Kind: v.Kind(), Value: v} }

func TestSample_Length(t *testing.T) {
	t.Parallel()

	sig := buildSignal(t, 1,
		Event{0, BitValue(L0)}, Event{7, BitValue(L1)}, Event{9, BitValue(L0)})
	for _, n := range []int{1, 2, 13, 200} {
		for _, w := range []timeunit.Time{1, 3, 100} {
			cells, err := sig.Sample(2, w, n)
			require.NoError(t, err)
			require.Len(t, cells, n)
		}
	}
}

func TestSample_NoEvents(t *testing.T) {
	t.Parallel()

	for _, width := range []int{1, 8} {
		sig := buildSignal(t, width)
		cells, err := sig.Sample(0, 10, 6)
		require.NoError(t, err)
		for _, c := range cells {
			require.Equal(t, Stay, c.State)
			require.True(t, c.Value.Equal(Unknown(sig.Kind(), width)))
		}
	}
}

func TestSample_SingleBit(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	sig := buildSignal(t, 1,
		Event{0, BitValue(L0)}, Event{25, BitValue(L1)})

	// --- Act ---
	cells, err := sig.Sample(0, 10, 5)

	// --- Assert ---
	// The event at exactly start is compared against the unknown carry.
	require.NoError(t, err)
	require.Equal(t, []Cell{
		change(BitValue(L0)),
		stay(BitValue(L0)),
		change(BitValue(L1)),
		stay(BitValue(L1)),
		stay(BitValue(L1)),
	}, cells)
}

func TestSample_CarryFromBeforeStart(t *testing.T) {
	t.Parallel()

	sig := buildSignal(t, 1,
		Event{0, BitValue(L0)}, Event{25, BitValue(L1)}, Event{42, BitValue(L1)})

	cells, err := sig.Sample(30, 5, 4)
	require.NoError(t, err)
	require.Equal(t, []Cell{
		stay(BitValue(L1)),
		stay(BitValue(L1)),
		stay(BitValue(L1)), // same value rewritten at 42
		stay(BitValue(L1)),
	}, cells)
}

func TestSample_UpperBoundaryBelongsToNextBucket(t *testing.T) {
	t.Parallel()

	sig := buildSignal(t, 1, Event{10, BitValue(L1)})

	cells, err := sig.Sample(0, 10, 3)
	require.NoError(t, err)
	require.Equal(t, []Cell{
		stay(BitValue(X)),
		change(BitValue(L1)),
		stay(BitValue(L1)),
	}, cells)
}

func TestSample_MultipleCarriesLastValue(t *testing.T) {
	t.Parallel()

	a := VectorValue(L0, L0, L1, L1)
	b := VectorValue(L1, L0, L1, L0)
	sig := buildSignal(t, 4, Event{12, a}, Event{17, b})

	cells, err := sig.Sample(0, 10, 4)
	require.NoError(t, err)
	require.Equal(t, stay(Unknown(Vector, 4)), cells[0])
	require.Equal(t, Cell{State: Multiple, Kind: Vector}, cells[1])
	require.Equal(t, stay(b), cells[2])
	require.Equal(t, stay(b), cells[3])
}

func TestSample_DuplicateTimestamps(t *testing.T) {
	t.Parallel()

	sig := buildSignal(t, 1,
		Event{5, BitValue(L0)}, Event{5, BitValue(L1)}, Event{15, BitValue(L0)})

	cells, err := sig.Sample(0, 10, 2)
	require.NoError(t, err)
	require.Equal(t, Multiple, cells[0].State)
	require.Equal(t, change(BitValue(L0)), cells[1])
}

func TestSample_StartAfterLastEvent(t *testing.T) {
	t.Parallel()

	sig := buildSignal(t, 1, Event{3, BitValue(Z)})

	cells, err := sig.Sample(1000, 10, 3)
	require.NoError(t, err)
	for _, c := range cells {
		require.Equal(t, stay(BitValue(Z)), c)
	}
}

func TestSample_Idempotent(t *testing.T) {
	t.Parallel()

	sig := buildSignal(t, 2,
		Event{1, VectorValue(L0, L1)}, Event{4, VectorValue(L1, L1)}, Event{30, VectorValue(X, L0)})

	first, err := sig.Sample(0, 3, 20)
	require.NoError(t, err)
	second, err := sig.Sample(0, 3, 20)
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestSample_DegenerateWindow(t *testing.T) {
	t.Parallel()

	sig := buildSignal(t, 1)
	_, err := sig.Sample(0, 0, 4)
	require.ErrorIs(t, err, ErrDegenerateWindow)
	_, err = sig.Sample(0, 10, 0)
	require.ErrorIs(t, err, ErrDegenerateWindow)
}

func TestSample_SaturatedWindow(t *testing.T) {
	t.Parallel()

	sig := buildSignal(t, 1, Event{timeunit.Max - 5, BitValue(L1)})

	cells, err := sig.Sample(timeunit.Max-20, 10, 4)
	require.NoError(t, err)
	require.Len(t, cells, 4)
	require.Equal(t, change(BitValue(L1)), cells[1])
}
