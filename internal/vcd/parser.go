// Package vcd decodes value change dump files: a header declaring scopes and
// variables, followed by a stream of timestamps and value changes.
package vcd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dtkav/vcdview/internal/scope"
	"github.com/dtkav/vcdview/internal/timeunit"
	"github.com/dtkav/vcdview/internal/wave"
)

const maxToken = 1 << 20

// Timescale is the duration of one dump time step, e.g. 10ns.
type Timescale struct {
	Magnitude uint64
	Unit      timeunit.Unit
}

func (t Timescale) String() string {
	return fmt.Sprintf("%d%s", t.Magnitude, t.Unit)
}

// Header is everything before $enddefinitions.
type Header struct {
	Date      string
	Version   string
	Timescale Timescale
	Decls     []scope.Decl
}

// CommandKind selects the fields of a Command that are set.
type CommandKind uint8

const (
	Timestamp CommandKind = iota
	ChangeScalar
	ChangeVector
	ChangeReal
)

// Command is one record of the dump body. Timestamp sets Time; the change
// kinds set ID and Value, or Real for real variables.
type Command struct {
	Kind  CommandKind
	Time  uint64
	ID    string
	Value wave.Value
	Real  string
}

// Parser reads a dump token by token.
type Parser struct {
	sc *bufio.Scanner
}

func NewParser(r io.Reader) *Parser {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxToken)
	sc.Split(bufio.ScanWords)
	return &Parser{sc: sc}
}

func (p *Parser) token() (string, error) {
	if p.sc.Scan() {
		return p.sc.Text(), nil
	}
	if err := p.sc.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}

// untilEnd collects the tokens before the next $end.
func (p *Parser) untilEnd(section string) ([]string, error) {
	var toks []string
	for {
		tok, err := p.token()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil, fmt.Errorf("vcd: %s: missing $end: %w", section, io.ErrUnexpectedEOF)
			}
			return nil, err
		}
		if tok == "$end" {
			return toks, nil
		}
		toks = append(toks, tok)
	}
}

// ParseHeader reads the declarations up to and including $enddefinitions.
// A dump without $timescale is taken to be in 1ps steps.
func (p *Parser) ParseHeader() (*Header, error) {
	h := &Header{Timescale: Timescale{Magnitude: 1, Unit: timeunit.PS}}
	// stack[0] collects the top level declarations.
	stack := []scope.Decl{{Kind: scope.ScopeDecl}}

	for {
		tok, err := p.token()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil, fmt.Errorf("vcd: header: missing $enddefinitions: %w", io.ErrUnexpectedEOF)
			}
			return nil, err
		}
		switch tok {
		case "$date", "$version", "$comment":
			toks, err := p.untilEnd(tok)
			if err != nil {
				return nil, err
			}
			switch tok {
			case "$date":
				h.Date = strings.Join(toks, " ")
			case "$version":
				h.Version = strings.Join(toks, " ")
			}
		case "$timescale":
			toks, err := p.untilEnd(tok)
			if err != nil {
				return nil, err
			}
			ts, err := ParseTimescale(strings.Join(toks, ""))
			if err != nil {
				return nil, err
			}
			h.Timescale = ts
		case "$scope":
			toks, err := p.untilEnd(tok)
			if err != nil {
				return nil, err
			}
			if len(toks) < 2 {
				return nil, fmt.Errorf("vcd: $scope %v: want type and name", toks)
			}
			stack = append(stack, scope.Decl{Kind: scope.ScopeDecl, Name: toks[1]})
		case "$upscope":
			if _, err := p.untilEnd(tok); err != nil {
				return nil, err
			}
			if len(stack) < 2 {
				return nil, errors.New("vcd: $upscope without $scope")
			}
			done := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			parent := &stack[len(stack)-1]
			parent.Children = append(parent.Children, done)
		case "$var":
			toks, err := p.untilEnd(tok)
			if err != nil {
				return nil, err
			}
			v, err := parseVar(toks)
			if err != nil {
				return nil, err
			}
			parent := &stack[len(stack)-1]
			parent.Children = append(parent.Children, v)
		case "$enddefinitions":
			if _, err := p.untilEnd(tok); err != nil {
				return nil, err
			}
			if len(stack) != 1 {
				return nil, fmt.Errorf("vcd: scope %q not closed", stack[len(stack)-1].Name)
			}
			h.Decls = stack[0].Children
			return h, nil
		default:
			if !strings.HasPrefix(tok, "$") {
				return nil, fmt.Errorf("vcd: header: unexpected token %q", tok)
			}
			if _, err := p.untilEnd(tok); err != nil {
				return nil, err
			}
		}
	}
}

// parseVar reads "type size id reference [index]".
func parseVar(toks []string) (scope.Decl, error) {
	if len(toks) < 4 {
		return scope.Decl{}, fmt.Errorf("vcd: $var %v: want type, size, id and reference", toks)
	}
	width, err := strconv.Atoi(toks[1])
	if err != nil || width < 1 {
		return scope.Decl{}, fmt.Errorf("vcd: $var %s: bad size %q", toks[3], toks[1])
	}
	return scope.Decl{Kind: scope.VarDecl, Name: toks[3], ID: toks[2], Width: width}, nil
}

// ParseTimescale reads "1ns", "10 us" or "100ps".
func ParseTimescale(s string) (Timescale, error) {
	s = strings.ReplaceAll(s, " ", "")
	i := strings.IndexFunc(s, func(r rune) bool { return r < '0' || r > '9' })
	if i <= 0 {
		return Timescale{}, fmt.Errorf("vcd: bad timescale %q", s)
	}
	mag, err := strconv.ParseUint(s[:i], 10, 64)
	if err != nil {
		return Timescale{}, fmt.Errorf("vcd: bad timescale %q: %w", s, err)
	}
	switch mag {
	case 1, 10, 100:
	default:
		return Timescale{}, fmt.Errorf("vcd: bad timescale magnitude %d", mag)
	}
	unit, ok := timeunit.ParseUnit(s[i:])
	if !ok {
		return Timescale{}, fmt.Errorf("vcd: bad timescale unit %q", s[i:])
	}
	return Timescale{Magnitude: mag, Unit: unit}, nil
}

// Next returns the next body record, or io.EOF at the end of the dump.
func (p *Parser) Next() (Command, error) {
	for {
		tok, err := p.token()
		if err != nil {
			return Command{}, err
		}
		switch tok {
		case "$dumpvars", "$dumpall", "$dumpon", "$dumpoff", "$end":
			continue
		case "$comment":
			if _, err := p.untilEnd(tok); err != nil {
				return Command{}, err
			}
			continue
		}

		switch c := tok[0]; {
		case c == '#':
			t, err := strconv.ParseUint(tok[1:], 10, 64)
			if err != nil {
				return Command{}, fmt.Errorf("vcd: bad timestamp %q", tok)
			}
			return Command{Kind: Timestamp, Time: t}, nil
		case c == 'b' || c == 'B':
			v, err := wave.ParseVector(tok[1:])
			if err != nil {
				return Command{}, fmt.Errorf("vcd: %w", err)
			}
			id, err := p.changeID(tok)
			if err != nil {
				return Command{}, err
			}
			return Command{Kind: ChangeVector, ID: id, Value: v}, nil
		case c == 'r' || c == 'R':
			id, err := p.changeID(tok)
			if err != nil {
				return Command{}, err
			}
			return Command{Kind: ChangeReal, ID: id, Real: tok[1:]}, nil
		default:
			l, ok := wave.ParseLogic(c)
			if !ok || len(tok) < 2 {
				return Command{}, fmt.Errorf("vcd: unexpected token %q", tok)
			}
			return Command{Kind: ChangeScalar, ID: tok[1:], Value: wave.BitValue(l)}, nil
		}
	}
}

func (p *Parser) changeID(change string) (string, error) {
	id, err := p.token()
	if errors.Is(err, io.EOF) {
		return "", fmt.Errorf("vcd: %q: missing id: %w", change, io.ErrUnexpectedEOF)
	}
	return id, err
}
