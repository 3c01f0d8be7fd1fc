// Package cli handles command line interface logic
package cli

import (
	"flag"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/mnafees/chopper/v2/internal/options"
	"github.com/mnafees/chopper/v2/internal/vm"
)

// ParseFlags parses command line flags and returns the program options
func ParseFlags() (options.Program, error) {
	return parse(os.Args[0], os.Args[1:])
}

func parse(name string, arguments []string) (options.Program, error) {
	flags := flag.NewFlagSet(name, flag.ContinueOnError)
	flags.SetOutput(io.Discard)
	var opts options.Program
	readOptionFlags(flags, &opts)

	err := flags.Parse(arguments)
	args := flags.Args()
	if err != nil {
		return opts, &UsageError{flags: flags, msg: err.Error()}
	}
	if len(args) == 0 {
		return opts, &UsageError{flags: flags}
	}

	if err := validateArgs(args); err != nil {
		return opts, err
	}

	if err := normalizeOptions(&opts); err != nil {
		return opts, err
	}

	opts.File = args[0]
	return opts, nil
}

// UsageError represents an error that should show usage information
type UsageError struct {
	flags *flag.FlagSet
	msg   string
}

func (e *UsageError) Error() string {
	if e.msg == "" {
		return "missing program file"
	}
	return e.msg
}

// ShowUsage prints the command line syntax and all flags to w.
func (e *UsageError) ShowUsage(w io.Writer) {
	_, _ = fmt.Fprintf(w, "usage: chopper [options] <CHIP-8 program>\n\n")
	if e.flags != nil {
		e.flags.SetOutput(w)
		e.flags.PrintDefaults()
	}
	_, _ = fmt.Fprintln(w)
}

// validateArgs checks if arguments are in correct order
func validateArgs(args []string) error {
	for i, arg := range args {
		if i > 0 && arg != "" && arg[0] == '-' {
			return &UsageError{
				msg: fmt.Sprintf("Potential argument %s found after program file, please pass the program file as last argument", arg),
			}
		}
	}
	if len(args) > 1 {
		return &UsageError{msg: fmt.Sprintf("only one program file can be passed, got %d", len(args))}
	}
	return nil
}

// normalizeOptions normalizes and validates option values
func normalizeOptions(opts *options.Program) error {
	opts.Mode = strings.ToLower(opts.Mode)
	if !slices.Contains(options.Modes, opts.Mode) {
		return fmt.Errorf("unsupported mode: %s. Valid options: %s",
			opts.Mode, strings.Join(options.Modes, ", "))
	}

	opts.Frontend = strings.ToLower(opts.Frontend)
	if !slices.Contains(options.Frontends, opts.Frontend) {
		return fmt.Errorf("unsupported frontend: %s. Valid options: %s",
			opts.Frontend, strings.Join(options.Frontends, ", "))
	}

	switch {
	case opts.Clock < 0:
		return fmt.Errorf("clock must not be negative: %d", opts.Clock)
	case opts.TimerDivisor < 1:
		return fmt.Errorf("timer divisor must be at least 1: %d", opts.TimerDivisor)
	case opts.Scale < 1:
		return fmt.Errorf("scale must be at least 1: %d", opts.Scale)
	case opts.Origin >= vm.TotalMemory:
		return fmt.Errorf("origin 0x%X is outside of memory", opts.Origin)
	}

	if opts.Trace {
		opts.Debug = true
	}
	return nil
}

func readOptionFlags(flags *flag.FlagSet, opts *options.Program) {
	flags.StringVar(&opts.Mode, "mode", options.ModeEmulate, "what to do with the program (hexdump/disasm/emulate/all)")
	flags.StringVar(&opts.Frontend, "frontend", options.FrontendSDL, "frontend to emulate the program in (sdl/ebiten/term/headless)")
	flags.UintVar(&opts.Origin, "origin", 0, "address of the first byte in the disassembly listing, for example 512 for 0x200")
	flags.BoolVar(&opts.Debug, "debug", false, "enable debugging options for extended logging")
	flags.BoolVar(&opts.Trace, "trace", false, "log every executed instruction, implies -debug")
	flags.BoolVar(&opts.Quiet, "q", false, "perform operations quietly")

	flags.IntVar(&opts.Clock, "clock", 600, "instructions executed per second, 0 runs unthrottled")
	flags.IntVar(&opts.TimerDivisor, "timer-divisor", vm.DefaultTimerDivisor, "instructions executed per delay and sound timer decrement")
	flags.IntVar(&opts.Scale, "scale", 10, "window pixels per CHIP-8 pixel")
	flags.Int64Var(&opts.Seed, "seed", 0, "seed of the random number generator, 0 seeds from the clock")
	flags.Uint64Var(&opts.MaxCycles, "max-cycles", 0, "stop after this many instructions, 0 runs until the program halts")
	flags.BoolVar(&opts.Mute, "mute", false, "disable the sound timer tone")
}
