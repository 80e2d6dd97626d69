// Package ingest reads a decoded dump into a scope tree, one pass, before
// the viewer starts.
package ingest

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"math/bits"
	"os"

	"github.com/dtkav/vcdview/internal/ctxlog"
	"github.com/dtkav/vcdview/internal/scope"
	"github.com/dtkav/vcdview/internal/timeunit"
	"github.com/dtkav/vcdview/internal/vcd"
)

// RootName names the synthetic scope holding top level declarations.
const RootName = "Root"

// Decoder yields a dump header followed by its body records.
type Decoder interface {
	ParseHeader() (*vcd.Header, error)
	Next() (vcd.Command, error)
}

// Result is a loaded dump.
type Result struct {
	Header  *vcd.Header
	Tree    *scope.Tree
	Events  int
	Dropped int
}

// LoadFile opens and ingests the dump at path.
func LoadFile(ctx context.Context, path string) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Load(ctx, vcd.NewParser(bufio.NewReader(f)))
}

// Load builds the scope tree from dec's header, then appends every value
// change at the current timestamp to the signals declared with its id.
// Changes for undeclared ids are dropped. Decoder errors are returned as is.
func Load(ctx context.Context, dec Decoder) (*Result, error) {
	logger := ctxlog.FromContext(ctx)

	header, err := dec.ParseHeader()
	if err != nil {
		return nil, err
	}
	if !header.Timescale.Unit.Representable() {
		return nil, fmt.Errorf("timescale %s: %w", header.Timescale, timeunit.ErrSubBaseUnit)
	}
	b := scope.Build(RootName, header.Decls)
	logger.Debug("Header parsed.", "timescale", header.Timescale.String(), "signals", b.NumSignals())

	res := &Result{Header: header}
	var now timeunit.Time
	dropped := make(map[string]struct{})
	for n := 0; ; n++ {
		if n%(1<<14) == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		cmd, err := dec.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		switch cmd.Kind {
		case vcd.Timestamp:
			now, err = scale(cmd.Time, header.Timescale)
			if err != nil {
				return nil, err
			}
			continue
		case vcd.ChangeReal:
			res.Dropped++
			if _, seen := dropped[cmd.ID]; !seen {
				dropped[cmd.ID] = struct{}{}
				logger.Debug("Real value changes are not displayed.", "id", cmd.ID)
			}
			continue
		}

		ok, err := b.Dispatch(cmd.ID, now, cmd.Value)
		if err != nil {
			return nil, fmt.Errorf("dispatch %s at %s: %w", cmd.ID, now, err)
		}
		if !ok {
			res.Dropped++
			if _, seen := dropped[cmd.ID]; !seen {
				dropped[cmd.ID] = struct{}{}
				logger.Debug("Dropping changes for undeclared id.", "id", cmd.ID)
			}
			continue
		}
		res.Events++
	}

	res.Tree = b.Freeze()
	if res.Dropped > 0 {
		logger.Warn("Some value changes were not loaded.", "dropped", res.Dropped)
	}
	logger.Info("Dump loaded.", "events", res.Events, "max_time", res.Tree.MaxTime().String())
	return res, nil
}

// scale converts a dump timestamp to a Time.
func scale(ts uint64, tsc vcd.Timescale) (timeunit.Time, error) {
	hi, lo := bits.Mul64(ts, tsc.Magnitude)
	if hi != 0 {
		return 0, fmt.Errorf("timestamp #%d in %s: %w", ts, tsc, timeunit.ErrOverflow)
	}
	return timeunit.New(lo, tsc.Unit)
}
