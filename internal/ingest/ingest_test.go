package ingest

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dtkav/vcdview/internal/ctxlog"
	"github.com/dtkav/vcdview/internal/timeunit"
	"github.com/dtkav/vcdview/internal/vcd"
	"github.com/dtkav/vcdview/internal/wave"
)

const dump = `
$timescale 10ns $end
$scope module top $end
$var wire 1 ! clk $end
$scope module core $end
$var reg 8 " acc $end
$upscope $end
$upscope $end
$enddefinitions $end
#0
0!
b0 "
#1
1!
1?
#2
0!
b101 "
r1.5 "
`

func testContext(t *testing.T) (context.Context, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return ctxlog.WithLogger(context.Background(), logger), &buf
}

func TestLoad(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	ctx, logs := testContext(t)

	// --- Act ---
	res, err := Load(ctx, vcd.NewParser(strings.NewReader(dump)))

	// --- Assert ---
	require.NoError(t, err)
	require.Equal(t, 5, res.Events)
	require.Equal(t, 2, res.Dropped)
	require.Equal(t, timeunit.Time(20_000), res.Tree.MaxTime())

	signals := res.Tree.FlattenSignals()
	require.Len(t, signals, 2)
	clk, acc := signals[0], signals[1]
	require.Equal(t, "clk", clk.Name())
	require.Equal(t, 3, clk.Len())
	require.Equal(t, timeunit.Time(10_000), clk.Event(1).Time)
	require.Equal(t, wave.Vector, acc.Kind())
	require.Equal(t, "5", acc.Event(1).Value.String())

	require.Equal(t, "top->core", res.Tree.Path(res.Tree.Flatten(0)[1]))
	require.Contains(t, logs.String(), "Dropping changes for undeclared id.")
	require.Contains(t, logs.String(), "Some value changes were not loaded.")
}

func TestLoad_SamplesAfterIngestion(t *testing.T) {
	t.Parallel()

	ctx, _ := testContext(t)
	res, err := Load(ctx, vcd.NewParser(strings.NewReader(dump)))
	require.NoError(t, err)

	step, err := timeunit.Parse("5ns")
	require.NoError(t, err)
	cells, err := res.Tree.FlattenSignals()[0].Sample(0, step, 6)
	require.NoError(t, err)
	states := make([]wave.CellState, len(cells))
	for i, c := range cells {
		states[i] = c.State
	}
	require.Equal(t, []wave.CellState{wave.Change, wave.Stay, wave.Change, wave.Stay, wave.Change, wave.Stay}, states)
}

func TestLoad_FemtosecondTimescale(t *testing.T) {
	t.Parallel()

	ctx, _ := testContext(t)
	_, err := Load(ctx, vcd.NewParser(strings.NewReader("$timescale 1fs $end $enddefinitions $end")))
	require.ErrorIs(t, err, timeunit.ErrSubBaseUnit)
}

func TestLoad_OutOfOrder(t *testing.T) {
	t.Parallel()

	ctx, _ := testContext(t)
	in := "$var wire 1 ! a $end $enddefinitions $end #5 1! #3 0!"
	_, err := Load(ctx, vcd.NewParser(strings.NewReader(in)))
	require.ErrorIs(t, err, wave.ErrOutOfOrder)
}

type failingDecoder struct{ err error }

func (d failingDecoder) ParseHeader() (*vcd.Header, error) {
	return &vcd.Header{Timescale: vcd.Timescale{Magnitude: 1, Unit: timeunit.NS}}, nil
}

func (d failingDecoder) Next() (vcd.Command, error) { return vcd.Command{}, d.err }

func TestLoad_DecoderErrorPassesThrough(t *testing.T) {
	t.Parallel()

	ctx, _ := testContext(t)
	boom := errors.New("disk on fire")
	_, err := Load(ctx, failingDecoder{err: boom})
	require.Same(t, boom, err)

	res, err := Load(ctx, failingDecoder{err: io.EOF})
	require.NoError(t, err)
	require.Equal(t, 0, res.Tree.NumSignals())
}

func TestLoad_Cancelled(t *testing.T) {
	t.Parallel()

	ctx, _ := testContext(t)
	ctx, cancel := context.WithCancel(ctx)
	cancel()
	_, err := Load(ctx, vcd.NewParser(strings.NewReader(dump)))
	require.ErrorIs(t, err, context.Canceled)
}

func TestLoadFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "d.vcd")
	require.NoError(t, os.WriteFile(path, []byte(dump), 0600))

	ctx, _ := testContext(t)
	res, err := LoadFile(ctx, path)
	require.NoError(t, err)
	require.Equal(t, "10ns", res.Header.Timescale.String())

	_, err = LoadFile(ctx, filepath.Join(t.TempDir(), "missing.vcd"))
	require.ErrorIs(t, err, os.ErrNotExist)
}
