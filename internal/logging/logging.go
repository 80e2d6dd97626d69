// Package logging builds the program's slog logger. Records go to a log
// writer and, from warn upwards, to a status line shown in the viewer.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	slogmulti "github.com/samber/slog-multi"
)

// ParseLevel maps debug, info, warn and error to slog levels.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("invalid log level %q: must be 'debug', 'info', 'warn', or 'error'", s)
}

// New creates a logger writing levelStr and above to w in formatStr ("text"
// or "json"), fanned out with a Status handler. A nil w discards the log.
func New(levelStr, formatStr string, w io.Writer) (*slog.Logger, *Status) {
	level, err := ParseLevel(levelStr)
	if err != nil {
		level = slog.LevelInfo
	}
	if w == nil {
		w = io.Discard
	}

	handlerOpts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if formatStr == "json" {
		handler = slog.NewJSONHandler(w, handlerOpts)
	} else {
		handler = slog.NewTextHandler(w, handlerOpts)
	}

	status := NewStatus(slog.LevelWarn)
	return slog.New(slogmulti.Fanout(handler, status)), status
}

// Status is a slog.Handler remembering the latest record at or above its
// level, for display in a status bar.
type Status struct {
	level slog.Level
	attrs []slog.Attr
	state *statusState
}

type statusState struct {
	mu   sync.Mutex
	last string
}

func NewStatus(level slog.Level) *Status {
	return &Status{level: level, state: &statusState{}}
}

func (s *Status) Enabled(_ context.Context, level slog.Level) bool {
	return level >= s.level
}

func (s *Status) Handle(_ context.Context, r slog.Record) error {
	var sb strings.Builder
	sb.WriteString(r.Message)
	write := func(a slog.Attr) bool {
		fmt.Fprintf(&sb, " %s=%v", a.Key, a.Value)
		return true
	}
	for _, a := range s.attrs {
		write(a)
	}
	r.Attrs(write)

	s.state.mu.Lock()
	s.state.last = sb.String()
	s.state.mu.Unlock()
	return nil
}

func (s *Status) WithAttrs(attrs []slog.Attr) slog.Handler {
	c := *s
	c.attrs = append(append([]slog.Attr(nil), s.attrs...), attrs...)
	return &c
}

func (s *Status) WithGroup(string) slog.Handler {
	return s
}

// Last is the most recent message, or "" if nothing was logged.
func (s *Status) Last() string {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()
	return s.state.last
}
