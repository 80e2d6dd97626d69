// Package glyph turns sampled cells into bands of box drawing glyphs: two
// rows for single bits, three rows for vectors with the value printed in the
// middle row.
package glyph

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/dtkav/vcdview/internal/wave"
)

// Tone is the colour class of a glyph; the renderer picks the colours.
type Tone uint8

const (
	Normal Tone = iota
	// Warn marks unknown or high impedance values.
	Warn
	// Busy marks buckets with more than one event.
	Busy
)

// Glyph is the text drawn in one cell of one row. Text is empty for the cell
// covered by a preceding double width rune.
type Glyph struct {
	Text string
	Tone Tone
}

// Band holds the rows of glyphs for one signal, one glyph per cell.
type Band [][]Glyph

// Placeholder stands in for text that does not fit, and for Multiple cells.
const Placeholder = "␩"

var (
	bitRise     = [2]string{"┌", "┘"}
	bitFall     = [2]string{"┐", "└"}
	bitHigh     = [2]string{"─", " "}
	bitLow      = [2]string{" ", "─"}
	bitX        = [2]string{"x", "x"}
	bitZ        = [2]string{"z", "z"}
	bitMultiple = [2]string{Placeholder, Placeholder}

	vecChange   = [3]string{"┬", "│", "┴"}
	vecStay     = [3]string{"─", " ", "─"}
	vecMultiple = [3]string{Placeholder, Placeholder, Placeholder}
)

// Render draws cells. The kind of the first cell decides the band height; an
// empty slice renders no rows.
func Render(cells []wave.Cell) Band {
	if len(cells) == 0 {
		return nil
	}
	if cells[0].Kind == wave.Vector {
		return renderVector(cells)
	}
	return renderBit(cells)
}

func renderBit(cells []wave.Cell) Band {
	band := Band{make([]Glyph, len(cells)), make([]Glyph, len(cells))}
	for i, c := range cells {
		sym, tone := bitSymbols(c)
		for row := range band {
			band[row][i] = Glyph{Text: sym[row], Tone: tone}
		}
	}
	return band
}

func bitSymbols(c wave.Cell) ([2]string, Tone) {
	if c.State == wave.Multiple {
		return bitMultiple, Busy
	}
	switch c.Value.Bit() {
	case wave.X:
		return bitX, Warn
	case wave.Z:
		return bitZ, Warn
	}
	high := c.Value.Bit() == wave.L1
	switch {
	case c.State == wave.Change && high:
		return bitRise, Normal
	case c.State == wave.Change:
		return bitFall, Normal
	case high:
		return bitHigh, Normal
	}
	return bitLow, Normal
}

func renderVector(cells []wave.Cell) Band {
	band := Band{make([]Glyph, len(cells)), make([]Glyph, len(cells)), make([]Glyph, len(cells))}
	for i, c := range cells {
		sym, tone := vecStay, Normal
		switch c.State {
		case wave.Change:
			sym = vecChange
		case wave.Multiple:
			sym, tone = vecMultiple, Busy
		}
		if c.State != wave.Multiple && c.Value.HasUnknown() {
			tone = Warn
		}
		for row := range band {
			band[row][i] = Glyph{Text: sym[row], Tone: tone}
		}
	}
	for _, r := range Runs(cells) {
		text := Center(r.End-r.Start, r.Value.String())
		for i, s := range text {
			band[1][r.Start+i].Text = s
		}
	}
	return band
}

// Run is a span [Start, End) of cells showing one unbroken value.
type Run struct {
	Start, End int
	Value      wave.Value
}

// Runs finds the spans between Change cells where a value is held. A Change
// cell closes the previous run and the run it opens starts after it. A run
// may start at the first cell without a Change, and may reach the last cell.
// Multiple cells end a run.
func Runs(cells []wave.Cell) []Run {
	var runs []Run
	start := -1
	var value wave.Value
	flush := func(end int) {
		if start >= 0 && end > start {
			runs = append(runs, Run{Start: start, End: end, Value: value})
		}
	}
	for i, c := range cells {
		switch c.State {
		case wave.Change:
			flush(i)
			start, value = i+1, c.Value
		case wave.Stay:
			if start < 0 {
				start, value = i, c.Value
			}
		case wave.Multiple:
			flush(i)
			start = -1
		}
	}
	flush(len(cells))
	return runs
}

// Center lays text out across length cells, padded with spaces. Text wider
// than length becomes a single Placeholder in the middle.
func Center(length int, text string) []string {
	if length <= 0 {
		return nil
	}
	out := make([]string, length)
	for i := range out {
		out[i] = " "
	}
	width := runewidth.StringWidth(text)
	if width > length {
		out[length/2] = Placeholder
		return out
	}
	pos := length/2 - width/2
	for _, r := range text {
		w := runewidth.RuneWidth(r)
		out[pos] = string(r)
		for k := 1; k < w; k++ {
			out[pos+k] = ""
		}
		pos += w
	}
	return out
}

// Trace writes one character per cell: the first character of the value, or
// T for Multiple. It backs the value trace line.
func Trace(cells []wave.Cell) string {
	var sb strings.Builder
	for _, c := range cells {
		if c.State == wave.Multiple {
			sb.WriteByte('T')
			continue
		}
		s := c.Value.String()
		for _, r := range s {
			sb.WriteRune(r)
			break
		}
	}
	return sb.String()
}

// Text joins the glyphs of one row.
func (b Band) Text(row int) string {
	var sb strings.Builder
	for _, g := range b[row] {
		sb.WriteString(g.Text)
	}
	return sb.String()
}
