package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mnafees/chopper/v2/internal/options"
	"github.com/mnafees/chopper/v2/internal/vm"
	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

func writeProgram(t *testing.T, program []byte) string {
	t.Helper()
	name := filepath.Join(t.TempDir(), "test.ch8")
	assert.NoError(t, os.WriteFile(name, program, 0o600))
	return name
}

func testOptions(file, mode, frontend string) options.Program {
	return options.Program{
		Positional:   options.Positional{File: file},
		Flags:        options.Flags{Mode: mode, Frontend: frontend},
		MachineFlags: options.MachineFlags{TimerDivisor: vm.DefaultTimerDivisor, Scale: 1, Seed: 1},
	}
}

func TestRunDisasm(t *testing.T) {
	file := writeProgram(t, []byte{0x00, 0xE0, 0x12, 0x00})
	opts := testOptions(file, options.ModeDisasm, options.FrontendHeadless)
	opts.Origin = vm.ProgramStart

	var out bytes.Buffer
	assert.NoError(t, run(context.Background(), log.NewTestLogger(t), opts, &out))
	assert.True(t, strings.Contains(out.String(), "0200 00e0 cls\n"))
	assert.True(t, strings.Contains(out.String(), "0202 1200 jmp 0x200\n"))
	assert.True(t, strings.Contains(out.String(), "total instructions 2\n"))
	assert.False(t, strings.Contains(out.String(), "HEXDUMP"))
}

func TestRunAllDescribesAndEmulates(t *testing.T) {
	// draw glyph 0 at (0,0) and return to address 0
	file := writeProgram(t, []byte{0xA0, 0x00, 0x60, 0x00, 0xD0, 0x05, 0x00, 0x00})
	opts := testOptions(file, options.ModeAll, options.FrontendHeadless)

	var out bytes.Buffer
	assert.NoError(t, run(context.Background(), log.NewTestLogger(t), opts, &out))
	text := out.String()
	assert.True(t, strings.HasPrefix(text, "HEXDUMP 8 bytes\n"))
	assert.True(t, strings.Contains(text, "0004 d005 sprite V0,V0,5\n"))
	assert.True(t, strings.Contains(text, "found 0 bad instructions\n"))
	assert.True(t, strings.Contains(text, "####"+strings.Repeat(".", 60)+"\n"))
}

func TestRunHeadlessCycleLimit(t *testing.T) {
	file := writeProgram(t, []byte{0x12, 0x00})
	opts := testOptions(file, options.ModeEmulate, options.FrontendHeadless)
	opts.MaxCycles = 100
	opts.Quiet = true

	var out bytes.Buffer
	assert.NoError(t, run(context.Background(), log.NewTestLogger(t), opts, &out))
	assert.Equal(t, "", out.String())
}

func TestRunFatalFault(t *testing.T) {
	file := writeProgram(t, []byte{0xA0, 0x10, 0xF0, 0x55})
	opts := testOptions(file, options.ModeEmulate, options.FrontendHeadless)

	err := run(context.Background(), log.NewTestLogger(t), opts, &bytes.Buffer{})
	assert.True(t, errors.Is(err, vm.ErrMemoryOutOfRange))
}

func TestRunProgramTooLarge(t *testing.T) {
	file := writeProgram(t, make([]byte, vm.MaxProgramSize+1))
	opts := testOptions(file, options.ModeDisasm, options.FrontendHeadless)

	err := run(context.Background(), log.NewTestLogger(t), opts, &bytes.Buffer{})
	assert.True(t, errors.Is(err, vm.ErrProgramTooLarge))
}

func TestPrintBanner(t *testing.T) {
	var out bytes.Buffer
	printBanner(&out, options.Program{})
	assert.True(t, strings.Contains(out.String(), "chopper"))
	assert.True(t, strings.Contains(out.String(), "version: "))

	out.Reset()
	printBanner(&out, options.Program{Flags: options.Flags{Quiet: true}})
	assert.Equal(t, "", out.String())
}
