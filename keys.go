package main

import "github.com/charmbracelet/bubbles/key"

// keyMap lists the bindings of the run mode.
type keyMap struct {
	Left    key.Binding
	Right   key.Binding
	ZoomIn  key.Binding
	ZoomOut key.Binding
	Up      key.Binding
	Down    key.Binding
	Home    key.Binding
	End     key.Binding
	GoTo    key.Binding
	Trace   key.Binding
	Events  key.Binding
	Help    key.Binding
	Quit    key.Binding
	Apply   key.Binding
	Cancel  key.Binding
}

var keys = keyMap{
	Left:    key.NewBinding(key.WithKeys("h", "left"), key.WithHelp("h/←", "earlier")),
	Right:   key.NewBinding(key.WithKeys("l", "right"), key.WithHelp("l/→", "later")),
	ZoomIn:  key.NewBinding(key.WithKeys("=", "+"), key.WithHelp("=", "zoom in")),
	ZoomOut: key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "zoom out")),
	Up:      key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/↑", "previous signal")),
	Down:    key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/↓", "next signal")),
	Home:    key.NewBinding(key.WithKeys("g", "home"), key.WithHelp("g", "go to 0")),
	End:     key.NewBinding(key.WithKeys("G", "end"), key.WithHelp("G", "go to end")),
	GoTo:    key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "go to time")),
	Trace:   key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "value trace")),
	Events:  key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "raw events")),
	Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	Apply:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "apply")),
	Cancel:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Left, k.Right, k.ZoomIn, k.ZoomOut, k.GoTo, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Left, k.Right, k.Home, k.End},
		{k.ZoomIn, k.ZoomOut, k.GoTo},
		{k.Up, k.Down, k.Trace, k.Events},
		{k.Help, k.Quit},
	}
}
