package main

import (
	"errors"
	"log/slog"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/dtkav/vcdview/internal/config"
	"github.com/dtkav/vcdview/internal/ingest"
	"github.com/dtkav/vcdview/internal/logging"
	"github.com/dtkav/vcdview/internal/scope"
	"github.com/dtkav/vcdview/internal/timeunit"
	"github.com/dtkav/vcdview/internal/wave"
)

// -------------------------
// Model
// -------------------------

type mode int

const (
	modeRun mode = iota
	// modeInput: the go-to-time box has focus.
	modeInput
)

// model holds the application state.
type model struct {
	dump   *ingest.Result
	tree   *scope.Tree
	rows   []scope.SignalID
	cfg    *config.Config
	logger *slog.Logger
	status *logging.Status
	styles styles

	// Window: buckets of step width starting at start.
	start   timeunit.Time
	step    timeunit.Step
	buckets int

	// Window dimensions.
	winWidth, winHeight int
	// scrollOffset is the first visible signal row.
	scrollOffset int
	selected     int

	mode     mode
	input    textinput.Model
	inputErr string

	showTrace  bool
	showEvents bool
	help       help.Model
}

func newModel(dump *ingest.Result, cfg *config.Config, logger *slog.Logger, status *logging.Status) *model {
	in := textinput.New()
	in.Placeholder = "100ns"
	in.CharLimit = 32

	m := &model{
		dump:      dump,
		tree:      dump.Tree,
		rows:      dump.Tree.Flatten(scope.Root),
		cfg:       cfg,
		logger:    logger,
		status:    status,
		styles:    newStyles(cfg.Theme),
		start:     cfg.Start,
		step:      cfg.Step,
		winWidth:  80,
		winHeight: 24,
		input:     in,
		help:      help.New(),
	}
	m.resize(m.winWidth, m.winHeight)
	return m
}

// -------------------------
// Init and Update
// -------------------------

func (m *model) Init() tea.Cmd {
	return nil
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		if m.mode == modeInput {
			return m.updateInput(msg)
		}
		return m.updateRun(msg)
	}

	if m.mode == modeInput {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *model) updateRun(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit

	// Pan by half a window.
	case key.Matches(msg, keys.Left):
		m.start = m.start.Decrease(m.halfWindow())
	case key.Matches(msg, keys.Right):
		m.start = m.start.Increase(m.halfWindow())

	case key.Matches(msg, keys.ZoomIn):
		m.step = m.step.Decrease()
	case key.Matches(msg, keys.ZoomOut):
		m.step = m.step.Increase()

	case key.Matches(msg, keys.Home):
		m.start = 0
	case key.Matches(msg, keys.End):
		// Put the last event in the last bucket.
		m.start = m.tree.MaxTime().Decrease(m.step.Time().Mul(uint64(m.buckets - 1)))

	case key.Matches(msg, keys.Up):
		if m.selected > 0 {
			m.selected--
		}
		m.ensureSelectedVisible()
	case key.Matches(msg, keys.Down):
		if m.selected < len(m.rows)-1 {
			m.selected++
		}
		m.ensureSelectedVisible()

	case key.Matches(msg, keys.Trace):
		m.showTrace = !m.showTrace
		m.ensureSelectedVisible()
	case key.Matches(msg, keys.Events):
		m.showEvents = !m.showEvents
		m.ensureSelectedVisible()
	case key.Matches(msg, keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.ensureSelectedVisible()

	case key.Matches(msg, keys.GoTo):
		m.mode = modeInput
		m.input.Reset()
		m.inputErr = ""
		return m, m.input.Focus()
	}
	return m, nil
}

func (m *model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Cancel):
		m.mode = modeRun
		m.input.Blur()
		return m, nil

	case key.Matches(msg, keys.Apply):
		t, err := timeunit.Parse(m.input.Value())
		if err != nil {
			m.inputErr = reason(err)
			return m, nil
		}
		m.start = t
		m.mode = modeRun
		m.input.Blur()
		m.logger.Debug("Jumped to time.", "start", t.String())
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.inputErr = ""
	if v := m.input.Value(); v != "" {
		if _, err := timeunit.Parse(v); err != nil {
			m.inputErr = reason(err)
		}
	}
	return m, cmd
}

func reason(err error) string {
	var perr *timeunit.ParseError
	if errors.As(err, &perr) {
		return perr.Reason()
	}
	return err.Error()
}

// resize fits the bucket count to the waveform column.
func (m *model) resize(width, height int) {
	m.winWidth = width
	m.winHeight = height
	m.buckets = max(1, width-m.cfg.NameWidth-1)
	m.help.Width = width
	m.ensureSelectedVisible()
}

func (m *model) halfWindow() timeunit.Time {
	return m.step.Time().Mul(uint64(m.buckets / 2))
}

// rowHeight is the number of lines the signal in row i takes, including the
// blank separator line.
func (m *model) rowHeight(i int) int {
	sig := m.tree.Signal(m.rows[i])
	h := 2
	if sig.Kind() == wave.Vector {
		h = 3
	}
	if m.showTrace {
		h++
	}
	if m.showEvents && i == m.selected {
		h++
	}
	return h + 1
}

// ensureSelectedVisible adjusts scrollOffset so the selected row fits in
// the waveform area.
func (m *model) ensureSelectedVisible() {
	if len(m.rows) == 0 {
		m.scrollOffset = 0
		return
	}
	if m.selected < m.scrollOffset {
		m.scrollOffset = m.selected
		return
	}
	avail := m.waveHeight()
	for m.scrollOffset < m.selected {
		used := 0
		for i := m.scrollOffset; i <= m.selected; i++ {
			used += m.rowHeight(i)
		}
		if used <= avail {
			break
		}
		m.scrollOffset++
	}
}

// waveHeight is the number of lines left for signal rows.
func (m *model) waveHeight() int {
	return max(1, m.winHeight-m.chromeHeight())
}
