// vcdview is a terminal viewer for value change dump waveforms.
//
// Usage:
//
//	vcdview [options] FILE.vcd
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/dtkav/vcdview/internal/config"
	"github.com/dtkav/vcdview/internal/ctxlog"
	"github.com/dtkav/vcdview/internal/ingest"
	"github.com/dtkav/vcdview/internal/logging"
)

// Version is set via ldflags at build time.
var Version = "dev"

// ExitError carries the process exit code for a failed run.
type ExitError struct {
	Code    int
	Message string
}

func (e *ExitError) Error() string {
	return e.Message
}

// -------------------------
// Flags
// -------------------------

// options are the parsed command line.
type options struct {
	cfg       *config.Config
	printTree bool
}

// parseArgs reads the flags over the config file. It returns nil options
// when the program should exit without error, e.g. after -help.
func parseArgs(args []string, output io.Writer) (*options, error) {
	flagSet := flag.NewFlagSet("vcdview", flag.ContinueOnError)
	flagSet.SetOutput(output)
	flagSet.Usage = func() {
		fmt.Fprint(output, `
vcdview - a terminal viewer for value change dump waveforms.

Usage:
  vcdview [options] FILE.vcd

Options:
`)
		flagSet.PrintDefaults()
	}

	configFlag := flagSet.String("config", "", "Path to a TOML config file (default: "+config.DefaultPath()+").")
	startFlag := flagSet.String("start", "", "Time at the left edge of the window, e.g. 250ns.")
	stepFlag := flagSet.String("step", "", "Time per column: 1, 5, 10, 50, ... of a unit, e.g. 10ns.")
	nameWidthFlag := flagSet.Int("name-width", 0, "Width of the signal name column.")
	logFileFlag := flagSet.String("log-file", "", "Append logs to this file.")
	logLevelFlag := flagSet.String("log-level", "", "Log level: 'debug', 'info', 'warn' or 'error'.")
	logFormatFlag := flagSet.String("log-format", "", "Log format: 'text' or 'json'.")
	treeFlag := flagSet.Bool("tree", false, "Print the scope tree and exit.")
	versionFlag := flagSet.Bool("version", false, "Print version and exit.")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, nil
		}
		return nil, &ExitError{Code: 2, Message: err.Error()}
	}
	if *versionFlag {
		fmt.Fprintf(output, "vcdview %s\n", Version)
		return nil, nil
	}
	if flagSet.NArg() != 1 {
		flagSet.Usage()
		return nil, &ExitError{Code: 2, Message: "expected exactly one dump file"}
	}

	path, required := *configFlag, true
	if path == "" {
		path, required = config.DefaultPath(), false
	}
	file, err := config.Load(path, required)
	if err != nil {
		return nil, &ExitError{Code: 2, Message: err.Error()}
	}

	// Flags given on the command line win over the file.
	flagSet.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "start":
			file.Start = *startFlag
		case "step":
			file.Step = *stepFlag
		case "name-width":
			file.NameWidth = *nameWidthFlag
		case "log-file":
			file.Log.File = *logFileFlag
		case "log-level":
			file.Log.Level = *logLevelFlag
		case "log-format":
			file.Log.Format = *logFormatFlag
		}
	})

	cfg, err := file.Resolve(flagSet.Arg(0))
	if err != nil {
		return nil, &ExitError{Code: 2, Message: err.Error()}
	}
	return &options{cfg: cfg, printTree: *treeFlag}, nil
}

// -------------------------
// Main
// -------------------------

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run loads the dump, then hands the terminal to the viewer.
func run(ctx context.Context, args []string, outW io.Writer) error {
	opts, err := parseArgs(args, outW)
	if err != nil || opts == nil {
		return err
	}
	cfg := opts.cfg

	var logW io.Writer
	if cfg.Log.File != "" {
		f, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		logW = f
	}
	logger, status := logging.New(cfg.Log.Level, cfg.Log.Format, logW)
	ctx = ctxlog.WithLogger(ctx, logger)

	dump, err := ingest.LoadFile(ctx, cfg.DumpPath)
	if err != nil {
		return fmt.Errorf("load %s: %w", cfg.DumpPath, err)
	}

	if opts.printTree {
		_, err := fmt.Fprint(outW, dump.Tree.String())
		return err
	}

	p := tea.NewProgram(newModel(dump, cfg, logger, status), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}
