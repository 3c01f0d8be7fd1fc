package cli

import (
	"bytes"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/mnafees/chopper/v2/internal/options"
	"github.com/retroenv/retrogolib/assert"
)

func TestParseFlagsDefaults(t *testing.T) {
	oldArgs := os.Args
	t.Cleanup(func() { os.Args = oldArgs })
	os.Args = []string{"chopper", "pong.ch8"}

	opts, err := ParseFlags()
	assert.NoError(t, err)
	assert.Equal(t, "pong.ch8", opts.File)
	assert.Equal(t, options.ModeEmulate, opts.Mode)
	assert.Equal(t, options.FrontendSDL, opts.Frontend)
	assert.Equal(t, 600, opts.Clock)
	assert.Equal(t, 10, opts.TimerDivisor)
	assert.Equal(t, 10, opts.Scale)
	assert.Equal(t, int64(0), opts.Seed)
	assert.Equal(t, uint64(0), opts.MaxCycles)
	assert.False(t, opts.Mute)
	assert.False(t, opts.Debug)
}

func TestParseFlags(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want options.Program
	}{
		{
			name: "disassembly with origin",
			args: []string{"-mode", "disasm", "-origin", "512", "test.ch8"},
			want: options.Program{
				Positional:   options.Positional{File: "test.ch8"},
				Flags:        options.Flags{Mode: options.ModeDisasm, Frontend: options.FrontendSDL, Origin: 512},
				MachineFlags: options.MachineFlags{Clock: 600, TimerDivisor: 10, Scale: 10},
			},
		},
		{
			name: "headless run",
			args: []string{"-frontend", "headless", "-clock", "0", "-max-cycles", "5000", "-seed", "3", "-mute", "test.ch8"},
			want: options.Program{
				Positional: options.Positional{File: "test.ch8"},
				Flags:      options.Flags{Mode: options.ModeEmulate, Frontend: options.FrontendHeadless},
				MachineFlags: options.MachineFlags{
					TimerDivisor: 10, Scale: 10, Seed: 3, MaxCycles: 5000, Mute: true,
				},
			},
		},
		{
			name: "case insensitive mode and trace implies debug",
			args: []string{"-mode", "ALL", "-frontend", "Term", "-trace", "-q", "test.ch8"},
			want: options.Program{
				Positional:   options.Positional{File: "test.ch8"},
				Flags:        options.Flags{Mode: options.ModeAll, Frontend: options.FrontendTerm, Debug: true, Trace: true, Quiet: true},
				MachineFlags: options.MachineFlags{Clock: 600, TimerDivisor: 10, Scale: 10},
			},
		},
		{
			name: "window options",
			args: []string{"-frontend", "ebiten", "-scale", "4", "-timer-divisor", "1", "test.ch8"},
			want: options.Program{
				Positional:   options.Positional{File: "test.ch8"},
				Flags:        options.Flags{Mode: options.ModeEmulate, Frontend: options.FrontendEbiten},
				MachineFlags: options.MachineFlags{Clock: 600, TimerDivisor: 1, Scale: 4},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parse("chopper", tt.args)
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseFlagsErrors(t *testing.T) {
	tests := []struct {
		name  string
		args  []string
		usage bool
	}{
		{"missing program", []string{}, true},
		{"only flags", []string{"-mode", "disasm"}, true},
		{"unknown flag", []string{"-bogus", "test.ch8"}, true},
		{"flag after program", []string{"test.ch8", "-q"}, true},
		{"two programs", []string{"a.ch8", "b.ch8"}, true},
		{"unknown mode", []string{"-mode", "run", "test.ch8"}, false},
		{"unknown frontend", []string{"-frontend", "vga", "test.ch8"}, false},
		{"negative clock", []string{"-clock", "-1", "test.ch8"}, false},
		{"zero timer divisor", []string{"-timer-divisor", "0", "test.ch8"}, false},
		{"zero scale", []string{"-scale", "0", "test.ch8"}, false},
		{"origin outside memory", []string{"-origin", "4096", "test.ch8"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parse("chopper", tt.args)
			assert.True(t, err != nil)

			var usageErr *UsageError
			assert.Equal(t, tt.usage, errors.As(err, &usageErr))
		})
	}
}

func TestParseFlagsUnknownFlagMessage(t *testing.T) {
	_, err := parse("chopper", []string{"-bogus", "test.ch8"})
	var usageErr *UsageError
	assert.True(t, errors.As(err, &usageErr))
	assert.True(t, strings.Contains(usageErr.Error(), "bogus"))

	_, err = parse("chopper", []string{"-clock", "fast", "test.ch8"})
	assert.True(t, errors.As(err, &usageErr))
	assert.True(t, strings.Contains(usageErr.Error(), "-clock"))
}

func TestUsageErrorShowUsage(t *testing.T) {
	_, err := parse("chopper", nil)
	var usageErr *UsageError
	assert.True(t, errors.As(err, &usageErr))
	assert.Equal(t, "missing program file", usageErr.Error())

	var buf bytes.Buffer
	usageErr.ShowUsage(&buf)
	assert.True(t, strings.Contains(buf.String(), "usage: chopper [options] <CHIP-8 program>"))
	assert.True(t, strings.Contains(buf.String(), "-frontend"))
	assert.True(t, strings.Contains(buf.String(), "-timer-divisor"))
}
