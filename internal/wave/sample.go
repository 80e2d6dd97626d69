package wave

import (
	"errors"
	"sort"

	"github.com/dtkav/vcdview/internal/timeunit"
)

// ErrDegenerateWindow is returned for a zero bucket width or count.
var ErrDegenerateWindow = errors.New("sampling window has no buckets")

// CellState classifies what happened inside one bucket.
type CellState uint8

const (
	// Stay: no event changed the value in the bucket.
	Stay CellState = iota
	// Change: exactly one event, carrying a new value.
	Change
	// Multiple: more than one event; the bucket is too wide to draw them.
	Multiple
)

func (s CellState) String() string {
	switch s {
	case Stay:
		return "stay"
	case Change:
		return "change"
	case Multiple:
		return "multiple"
	}
	return "?"
}

// Cell is one sampled bucket of a signal. Value is unset for Multiple.
type Cell struct {
	State CellState
	Kind  Kind
	Value Value
}

// Sample splits the timeline into count buckets [start+i*width, start+(i+1)*width)
// and classifies each one. The value in effect before start is carried into
// the first bucket; a signal with no earlier event carries Unknown.
func (s *Signal) Sample(start, width timeunit.Time, count int) ([]Cell, error) {
	if width == 0 || count <= 0 {
		return nil, ErrDegenerateWindow
	}
	events := s.events
	cursor := sort.Search(len(events), func(i int) bool {
		return events[i].Time >= start
	})
	carry := Unknown(s.kind, s.width)
	if cursor > 0 {
		carry = events[cursor-1].Value
	}

	cells := make([]Cell, count)
	for i := range cells {
		if cursor >= len(events) {
			cells[i] = Cell{State: Stay, Kind: s.kind, Value: carry}
			continue
		}
		end := start.Increase(width.Mul(uint64(i + 1)))
		next := cursor
		for next < len(events) && events[next].Time < end {
			next++
		}
		switch next - cursor {
		case 0:
			cells[i] = Cell{State: Stay, Kind: s.kind, Value: carry}
		case 1:
			v := events[cursor].Value
			state := Change
			if v.Equal(carry) {
				state = Stay
			}
			cells[i] = Cell{State: state, Kind: s.kind, Value: v}
			carry = v
		default:
			cells[i] = Cell{State: Multiple, Kind: s.kind}
			carry = events[next-1].Value
		}
		cursor = next
	}
	return cells, nil
}
