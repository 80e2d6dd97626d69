// Package config loads viewer settings from an optional TOML file and
// validates them.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/dtkav/vcdview/internal/logging"
	"github.com/dtkav/vcdview/internal/timeunit"
)

// File mirrors the TOML file. Times are strings such as "10ns".
type File struct {
	Start      string `toml:"start"`
	Step       string `toml:"step"`
	NameWidth  int    `toml:"name_width"`
	StampEvery int    `toml:"stamp_every"`
	Log        Log    `toml:"log"`
	Theme      Theme  `toml:"theme"`
}

type Log struct {
	File   string `toml:"file"`
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Theme holds lipgloss colours: ANSI numbers or hex strings.
type Theme struct {
	OK       string `toml:"ok"`
	Warn     string `toml:"warn"`
	Multiple string `toml:"multiple"`
	Axis     string `toml:"axis"`
	Name     string `toml:"name"`
	Selected string `toml:"selected"`
}

// Default is the configuration used when no file exists.
func Default() File {
	return File{
		Start:      "0ps",
		Step:       "10ns",
		NameWidth:  20,
		StampEvery: 10,
		Log:        Log{Level: "info", Format: "text"},
		Theme: Theme{
			OK:       "#a6e3a1",
			Warn:     "#f38ba8",
			Multiple: "#f9e2af",
			Axis:     "242",
			Name:     "250",
			Selected: "39",
		},
	}
}

// DefaultPath is $XDG_CONFIG_HOME/vcdview/config.toml or the platform
// equivalent. It is empty when no config directory is known.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "vcdview", "config.toml")
}

// Load reads path over the defaults. A missing file is an error only when
// required is set.
func Load(path string, required bool) (File, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	f, err := os.Open(path)
	if err != nil {
		if !required && errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	if err := toml.NewDecoder(f).DisallowUnknownFields().Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("decode config %s: %w", path, err)
	}
	return cfg, nil
}

// Config is the validated configuration the viewer runs with.
type Config struct {
	DumpPath   string
	Start      timeunit.Time
	Step       timeunit.Step
	NameWidth  int
	StampEvery int
	Log        Log
	Theme      Theme
}

// Resolve validates f for viewing dumpPath.
func (f File) Resolve(dumpPath string) (*Config, error) {
	if dumpPath == "" {
		return nil, errors.New("a dump file is required")
	}
	start, err := timeunit.Parse(f.Start)
	if err != nil {
		return nil, fmt.Errorf("start: %w", err)
	}
	stepTime, err := timeunit.Parse(f.Step)
	if err != nil {
		return nil, fmt.Errorf("step: %w", err)
	}
	step, err := timeunit.StepOf(stepTime)
	if err != nil {
		return nil, fmt.Errorf("step must be 1, 5, 10, 50, ... of a unit: %w", err)
	}
	if f.NameWidth < 4 {
		return nil, fmt.Errorf("name_width %d: must be at least 4", f.NameWidth)
	}
	if f.StampEvery < 2 {
		return nil, fmt.Errorf("stamp_every %d: must be at least 2", f.StampEvery)
	}
	if _, err := logging.ParseLevel(f.Log.Level); err != nil {
		return nil, err
	}
	if f.Log.Format != "text" && f.Log.Format != "json" {
		return nil, fmt.Errorf("invalid log format %q: must be 'text' or 'json'", f.Log.Format)
	}
	return &Config{
		DumpPath:   dumpPath,
		Start:      start,
		Step:       step,
		NameWidth:  f.NameWidth,
		StampEvery: f.StampEvery,
		Log:        f.Log,
		Theme:      f.Theme,
	}, nil
}
