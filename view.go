package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"

	"github.com/dtkav/vcdview/internal/config"
	"github.com/dtkav/vcdview/internal/glyph"
	"github.com/dtkav/vcdview/internal/wave"
)

// -------------------------
// Styles
// -------------------------

type styles struct {
	tones    map[glyph.Tone]lipgloss.Style
	axis     lipgloss.Style
	name     lipgloss.Style
	selected lipgloss.Style
	title    lipgloss.Style
	warn     lipgloss.Style
	box      lipgloss.Style
	valid    lipgloss.Color
	invalid  lipgloss.Color
	idle     lipgloss.Color
}

func newStyles(t config.Theme) styles {
	return styles{
		tones: map[glyph.Tone]lipgloss.Style{
			glyph.Normal: lipgloss.NewStyle().Foreground(lipgloss.Color(t.OK)),
			glyph.Warn:   lipgloss.NewStyle().Foreground(lipgloss.Color(t.Warn)),
			glyph.Busy:   lipgloss.NewStyle().Foreground(lipgloss.Color(t.Multiple)),
		},
		axis:     lipgloss.NewStyle().Foreground(lipgloss.Color(t.Axis)),
		name:     lipgloss.NewStyle().Foreground(lipgloss.Color(t.Name)),
		selected: lipgloss.NewStyle().Foreground(lipgloss.Color(t.Selected)).Bold(true),
		title:    lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Background(lipgloss.Color(t.Selected)).Bold(true).Padding(0, 1),
		warn:     lipgloss.NewStyle().Foreground(lipgloss.Color(t.Warn)),
		box:      lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1),
		valid:    lipgloss.Color(t.OK),
		invalid:  lipgloss.Color(t.Warn),
		idle:     lipgloss.Color(t.Name),
	}
}

// -------------------------
// Rendering Functions
// -------------------------

// chromeHeight is the number of lines around the signal rows.
func (m model) chromeHeight() int {
	h := 2 + 2 + 1 // header and blank, axis, status
	if m.help.ShowAll {
		h += len(keys.FullHelp()[0])
	} else {
		h++
	}
	if m.mode == modeInput {
		h += 4
	}
	return h
}

// renderHeader shows the file, timescale and visible window.
func (m model) renderHeader() string {
	end := m.start.Increase(m.step.Time().Mul(uint64(m.buckets)))
	info := fmt.Sprintf("%s  timescale %s  [%s, %s)  step %s  %d signals",
		m.cfg.DumpPath, m.dump.Header.Timescale, m.start, end, m.step, len(m.rows))
	return m.styles.title.Render("vcdview") + " " + m.styles.axis.Render(info)
}

// renderAxis labels every StampEvery-th bucket with its start time.
func (m model) renderAxis() string {
	var stamps, ticks strings.Builder
	for i := 0; i < m.buckets; i += m.cfg.StampEvery {
		slot := min(m.cfg.StampEvery, m.buckets-i)
		label := m.start.Increase(m.step.Time().Mul(uint64(i))).String()
		if len(label) > slot {
			label = label[:slot]
		}
		stamps.WriteString(label + strings.Repeat(" ", slot-len(label)))
		ticks.WriteString("|" + strings.Repeat(" ", slot-1))
	}
	pad := strings.Repeat(" ", m.cfg.NameWidth+1)
	return pad + m.styles.axis.Render(stamps.String()) + "\n" + pad + m.styles.axis.Render(ticks.String())
}

// renderNameColumn pads or truncates s to the name column.
func (m model) renderNameColumn(s string, style lipgloss.Style) string {
	w := m.cfg.NameWidth
	if lipgloss.Width(s) > w-1 {
		s = truncate.StringWithTail(s, uint(w-1), "…")
	}
	return style.Width(w).Render(s) + " "
}

// renderSignal draws row i: its optional trace line, glyph band and
// optional raw events line, followed by a blank line.
func (m model) renderSignal(i int) []string {
	sig := m.tree.Signal(m.rows[i])
	blank := strings.Repeat(" ", m.cfg.NameWidth+1)

	cells, err := sig.Sample(m.start, m.step.Time(), m.buckets)
	if err != nil {
		m.logger.Error("Sampling failed.", "signal", sig.Label(), "err", err)
		return []string{m.renderNameColumn(sig.Label(), m.styles.name) + m.styles.warn.Render(err.Error()), ""}
	}

	nameStyle := m.styles.name
	if i == m.selected {
		nameStyle = m.styles.selected
	}

	var lines []string
	if m.showTrace {
		lines = append(lines, blank+m.styles.axis.Render(glyph.Trace(cells)))
	}
	band := glyph.Render(cells)
	for r, row := range band {
		name := blank
		if r == 0 {
			name = m.renderNameColumn(sig.Label(), nameStyle)
		}
		if r == 1 && sig.Kind() == wave.Vector {
			name = m.renderNameColumn(fmt.Sprintf("[%d:0]", sig.Width()-1), m.styles.axis)
		}
		lines = append(lines, name+m.renderGlyphRow(row))
	}
	if m.showEvents && i == m.selected {
		text := sig.EventsInRangeText(m.start, m.step.Time(), m.buckets)
		if len(text) > m.buckets {
			text = text[:m.buckets]
		}
		lines = append(lines, m.renderNameColumn("events", m.styles.axis)+text)
	}
	return append(lines, "")
}

// renderGlyphRow styles runs of glyphs sharing a tone together.
func (m model) renderGlyphRow(row []glyph.Glyph) string {
	var out, run strings.Builder
	tone := glyph.Normal
	flush := func() {
		if run.Len() > 0 {
			out.WriteString(m.styles.tones[tone].Render(run.String()))
			run.Reset()
		}
	}
	for _, g := range row {
		if g.Tone != tone {
			flush()
			tone = g.Tone
		}
		run.WriteString(g.Text)
	}
	flush()
	return out.String()
}

// renderInput is the go-to-time box with inline validation.
func (m model) renderInput() string {
	title := "Enter a time (e.g. 100ns)"
	color := m.styles.idle
	switch {
	case m.inputErr != "":
		title += " [Invalid: " + m.inputErr + "]"
		color = m.styles.invalid
	case m.input.Value() != "":
		title += " [Valid]"
		color = m.styles.valid
	}
	width := min(80, max(20, m.winWidth-4))
	return m.styles.box.
		BorderForeground(color).
		Width(width).
		Render(lipgloss.NewStyle().Foreground(color).Render(title) + "\n" + m.input.View())
}

// renderStatus shows the selected signal's full path and the latest warning.
func (m model) renderStatus() string {
	var parts []string
	if len(m.rows) > 0 {
		parts = append(parts, m.tree.Label(m.rows[m.selected]))
	}
	if last := m.status.Last(); last != "" {
		parts = append(parts, m.styles.warn.Render(last))
	}
	return strings.Join(parts, "  ")
}

// View renders the complete UI, scrolled to scrollOffset.
func (m model) View() string {
	var b strings.Builder
	if m.mode == modeInput {
		b.WriteString(m.renderInput() + "\n")
	}
	b.WriteString(m.renderHeader() + "\n\n")
	b.WriteString(m.renderAxis() + "\n")

	avail := m.waveHeight()
	var content []string
	for i := m.scrollOffset; i < len(m.rows); i++ {
		lines := m.renderSignal(i)
		if len(content)+len(lines) > avail && len(content) > 0 {
			break
		}
		content = append(content, lines...)
	}
	if len(m.rows) == 0 {
		content = append(content, m.styles.axis.Render("no signals declared"))
	}
	if len(content) > avail {
		content = content[:avail]
	}
	for len(content) < avail {
		content = append(content, "")
	}
	b.WriteString(strings.Join(content, "\n") + "\n")

	b.WriteString(m.renderStatus() + "\n")
	b.WriteString(m.help.View(keys))
	return b.String()
}
