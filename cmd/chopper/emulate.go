package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/mnafees/chopper/v2/internal/config"
	"github.com/mnafees/chopper/v2/internal/options"
	"github.com/mnafees/chopper/v2/internal/vm"
	"github.com/mnafees/chopper/v2/pkg/beep"
	"github.com/mnafees/chopper/v2/pkg/ebiten"
	"github.com/mnafees/chopper/v2/pkg/headless"
	"github.com/mnafees/chopper/v2/pkg/sdl"
	"github.com/mnafees/chopper/v2/pkg/term"
	"github.com/retroenv/retrogolib/log"
)

const windowTitle = "Chopper | CHIP-8 Emulator"

// emulate runs the program in the selected frontend until it halts.
func emulate(ctx context.Context, logger *log.Logger, opts options.Program, program []byte, out io.Writer) error {
	machineOpts := config.MachineOptions(opts, logger)

	if !opts.Mute && opts.Frontend != options.FrontendHeadless {
		beeper, err := beep.New(beep.DefaultSampleRate, beep.DefaultFrequency)
		if err != nil {
			logger.Warn("Audio output not available, running without sound", log.Err(err))
		} else {
			defer func() { _ = beeper.Close() }()
			machineOpts.Beeper = beeper
		}
	}

	var (
		report *vm.Report
		err    error
	)
	switch opts.Frontend {
	case options.FrontendSDL:
		report, err = emulateSDL(ctx, opts, machineOpts, program)
	case options.FrontendEbiten:
		report, err = emulateEbiten(ctx, opts, machineOpts, program)
	case options.FrontendTerm:
		report, err = emulateTerm(ctx, machineOpts, program)
	case options.FrontendHeadless:
		report, err = emulateHeadless(ctx, opts, machineOpts, program, out)
	default:
		return fmt.Errorf("unsupported frontend '%s'", opts.Frontend)
	}

	if report != nil {
		logReport(logger, report)
	}
	return err
}

func emulateSDL(ctx context.Context, opts options.Program, machineOpts vm.Options, program []byte) (*vm.Report, error) {
	window := sdl.NewIO(opts.Scale)
	if err := window.SetupWindow(windowTitle); err != nil {
		return nil, err
	}
	defer window.Destroy()

	machineOpts.Display = window
	machineOpts.Input = window
	return vm.NewMachine(machineOpts).Execute(ctx, program)
}

func emulateEbiten(ctx context.Context, opts options.Program, machineOpts vm.Options, program []byte) (*vm.Report, error) {
	window := ebiten.New(opts.Scale, windowTitle)
	machineOpts.Display = window
	machineOpts.Input = window

	var report *vm.Report
	err := window.Run(func() error {
		var err error
		report, err = vm.NewMachine(machineOpts).Execute(ctx, program)
		return err
	})
	return report, err
}

func emulateTerm(ctx context.Context, machineOpts vm.Options, program []byte) (*vm.Report, error) {
	terminal := term.New(os.Stdin, os.Stdout)
	if err := terminal.Start(); err != nil {
		return nil, err
	}
	defer func() { _ = terminal.Close() }()

	machineOpts.Display = terminal
	machineOpts.Input = terminal
	return vm.NewMachine(machineOpts).Execute(ctx, program)
}

func emulateHeadless(ctx context.Context, opts options.Program, machineOpts vm.Options,
	program []byte, out io.Writer) (*vm.Report, error) {

	screen := headless.NewScreen()
	machineOpts.Display = screen
	machineOpts.Input = headless.NewKeypad(nil, 0)

	report, err := vm.NewMachine(machineOpts).Execute(ctx, program)
	if !opts.Quiet && screen.Frames() > 0 {
		_, _ = io.WriteString(out, screen.String())
	}
	return report, err
}

func logReport(logger *log.Logger, report *vm.Report) {
	logger.Info("Program halted",
		log.String("reason", report.Halt.String()),
		log.String("pc", fmt.Sprintf("0x%04X", report.State.PC)),
		log.Int("cycles", int(report.Cycles)),
		log.Int("unknown_opcodes", report.UnknownOpcodes),
		log.Int("stack_underflows", report.StackUnderflows),
		log.Int("stack_overflows", report.StackOverflows))
}
