package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dtkav/vcdview/internal/timeunit"
)

const testDump = `
$timescale 1ns $end
$scope module top $end
$var wire 1 ! clk $end
$var reg 4 " count $end
$scope module core $end
$var wire 1 # en $end
$upscope $end
$upscope $end
$enddefinitions $end
#0
0!
b0 "
0#
#10
1!
b1 "
#20
0!
b10 "
1#
#30
1!
b11 "
`

func writeDump(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "counter.vcd")
	require.NoError(t, os.WriteFile(path, []byte(testDump), 0600))
	return path
}

func TestRun_PrintTree(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	cfgPath := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("[log]\nlevel = \"error\"\n"), 0600))
	args := []string{"-config", cfgPath, "-tree", writeDump(t)}
	out := &bytes.Buffer{}

	// --- Act ---
	err := run(context.Background(), args, out)

	// --- Assert ---
	require.NoError(t, err)
	require.Contains(t, out.String(), "Module: Root, depth: 1")
	require.Contains(t, out.String(), "  Module: top, depth: 2")
	require.Contains(t, out.String(), "Signal: count(\"), events: 4")
	require.Contains(t, out.String(), "Signal: en(#), events: 2")
}

func TestRun_MissingConfig(t *testing.T) {
	t.Parallel()

	args := []string{"-config", filepath.Join(t.TempDir(), "none.toml"), "-tree", writeDump(t)}
	err := run(context.Background(), args, &bytes.Buffer{})

	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr, "an explicit -config must exist")
	require.Equal(t, 2, exitErr.Code)
}

func TestRun_ShouldExit(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}
	require.NoError(t, run(context.Background(), []string{"-h"}, out))
	require.Contains(t, out.String(), "Usage:")

	out.Reset()
	require.NoError(t, run(context.Background(), []string{"-version"}, out))
	require.Contains(t, out.String(), "vcdview dev")
}

func TestRun_MissingDump(t *testing.T) {
	t.Parallel()

	err := run(context.Background(), []string{"-tree", filepath.Join(t.TempDir(), "gone.vcd")}, &bytes.Buffer{})
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestParseArgs_Errors(t *testing.T) {
	t.Parallel()

	tests := map[string][]string{
		"no file":      {},
		"two files":    {"a.vcd", "b.vcd"},
		"unknown flag": {"--zoom", "a.vcd"},
		"off ladder":   {"-step", "30ns", "a.vcd"},
		"bad level":    {"-log-level", "loud", "a.vcd"},
	}
	for name, args := range tests {
		_, err := parseArgs(args, &bytes.Buffer{})
		var exitErr *ExitError
		require.ErrorAs(t, err, &exitErr, name)
		require.Equal(t, 2, exitErr.Code, name)
	}
}

func TestParseArgs_FlagsOverrideFile(t *testing.T) {
	t.Parallel()

	cfgPath := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("step = \"5ns\"\nname_width = 12\n"), 0600))

	opts, err := parseArgs([]string{"-config", cfgPath, "-step", "100ps", "-start", "1us", "a.vcd"}, &bytes.Buffer{})
	require.NoError(t, err)
	require.Equal(t, timeunit.Time(100), opts.cfg.Step.Time())
	require.Equal(t, timeunit.Time(1_000_000), opts.cfg.Start)
	require.Equal(t, 12, opts.cfg.NameWidth)
	require.Equal(t, "a.vcd", opts.cfg.DumpPath)
	require.False(t, opts.printTree)
}
