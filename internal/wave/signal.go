package wave

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dtkav/vcdview/internal/timeunit"
)

var (
	ErrOutOfOrder = errors.New("event timestamp goes backwards")
	ErrFrozen     = errors.New("signal is frozen")
)

// Event is a value taking effect at a time.
type Event struct {
	Time  timeunit.Time
	Value Value
}

// Signal is a declared variable with its recorded events in non-decreasing
// time order. A Signal is read-only; SignalBuilder records its events.
type Signal struct {
	id     string
	name   string
	kind   Kind
	width  int
	events []Event
}

func (s *Signal) ID() string   { return s.id }
func (s *Signal) Name() string { return s.name }
func (s *Signal) Kind() Kind   { return s.kind }
func (s *Signal) Width() int   { return s.width }
func (s *Signal) Len() int     { return len(s.events) }

// Event returns the i-th recorded event.
func (s *Signal) Event(i int) Event { return s.events[i] }

// Last returns the final recorded event.
func (s *Signal) Last() (Event, bool) {
	if len(s.events) == 0 {
		return Event{}, false
	}
	return s.events[len(s.events)-1], true
}

// Label is the name followed by the dump id, e.g. "clk(!)".
func (s *Signal) Label() string {
	return fmt.Sprintf("%s(%s)", s.name, s.id)
}

// EventsInRangeText lists the raw events with start <= t <= end, where end is
// start + width*count. It is meant for inspection only.
func (s *Signal) EventsInRangeText(start, width timeunit.Time, count int) string {
	end := start.Increase(width.Mul(uint64(count)))
	var sb strings.Builder
	for _, ev := range s.events {
		if ev.Time < start || ev.Time > end {
			continue
		}
		fmt.Fprintf(&sb, "(%s, %s), ", ev.Time, ev.Value.Binary())
	}
	return sb.String()
}

// SignalBuilder appends events to a signal during ingestion.
type SignalBuilder struct {
	sig *Signal
}

// NewSignalBuilder declares a signal. A width of 1 or less is a single bit
// signal, anything wider a vector.
func NewSignalBuilder(id, name string, width int) *SignalBuilder {
	kind := Vector
	if width <= 1 {
		kind, width = Bit, 1
	}
	return &SignalBuilder{sig: &Signal{id: id, name: name, kind: kind, width: width}}
}

func (b *SignalBuilder) ID() string { return b.sig.id }

// Append records v at t. v is coerced to the signal's kind and width.
func (b *SignalBuilder) Append(t timeunit.Time, v Value) error {
	if b.sig == nil {
		return ErrFrozen
	}
	if n := len(b.sig.events); n > 0 && b.sig.events[n-1].Time > t {
		return fmt.Errorf("%s at %s after %s: %w", b.sig.Label(), t, b.sig.events[n-1].Time, ErrOutOfOrder)
	}
	b.sig.events = append(b.sig.events, Event{Time: t, Value: v.Coerce(b.sig.kind, b.sig.width)})
	return nil
}

// Freeze returns the finished signal. The builder can not append afterwards.
func (b *SignalBuilder) Freeze() *Signal {
	sig := b.sig
	if sig == nil {
		panic("wave: signal builder frozen twice")
	}
	b.sig = nil
	return sig
}
