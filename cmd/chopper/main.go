// Package main implements the chopper CHIP-8 emulator and disassembler
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"

	"github.com/mnafees/chopper/v2/internal/cli"
	"github.com/mnafees/chopper/v2/internal/config"
	"github.com/mnafees/chopper/v2/internal/options"
	"github.com/mnafees/chopper/v2/internal/rom"
	"github.com/retroenv/retrogolib/buildinfo"
	"github.com/retroenv/retrogolib/log"
)

var (
	version = "dev"
	commit  = ""
	date    = ""
)

func init() {
	// SDL and ebiten have to be driven from the main thread.
	runtime.LockOSThread()
}

func main() {
	opts, err := cli.ParseFlags()
	if err != nil {
		logger := config.CreateLogger(opts.Debug, opts.Quiet)
		var usageErr *cli.UsageError
		if errors.As(err, &usageErr) {
			printBanner(os.Stdout, opts)
			usageErr.ShowUsage(os.Stdout)
		} else {
			logger.Error("Invalid options", log.Err(err))
		}
		os.Exit(1)
	}

	logger := config.CreateLogger(opts.Debug, opts.Quiet)
	printBanner(os.Stdout, opts)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, logger, opts, os.Stdout); err != nil {
		logger.Error("Running program failed", log.Err(err))
		stop()
		os.Exit(1)
	}
}

func printBanner(w io.Writer, opts options.Program) {
	if opts.Quiet {
		return
	}
	_, _ = fmt.Fprintln(w, "[-------------------------------------]")
	_, _ = fmt.Fprintln(w, "[ chopper - CHIP-8 emulator and disasm ]")
	_, _ = fmt.Fprintf(w, "[-------------------------------------]\n\n")
	_, _ = fmt.Fprintf(w, "version: %s\n\n", buildinfo.Version(version, commit, date))
}

// run loads the program and processes it as selected by the mode option.
func run(ctx context.Context, logger *log.Logger, opts options.Program, out io.Writer) error {
	program, err := rom.Load(opts.File)
	if err != nil {
		return err
	}
	logger.Debug("Program loaded",
		log.String("file", opts.File),
		log.Int("size", len(program)))

	if opts.Describes() {
		if err := describe(opts, program, out); err != nil {
			return err
		}
	}
	if opts.Emulates() {
		return emulate(ctx, logger, opts, program, out)
	}
	return nil
}
