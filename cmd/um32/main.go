// Command um32 runs a um32 program image to completion.
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/mmarek/um32/internal/loader"
	"github.com/mmarek/um32/internal/vm"
)

// Exit statuses. 0 (HALT) is cobra/Go's own default on a nil error path.
const (
	exitUsage = 2
	exitLoad  = 3
	exitFault = 1
)

// errUsage signals an argument-count misuse; it is never wrapped with
// additional context because the CLI surface is a single positional
// argument and there is nothing more to say about it.
var errUsage = errors.New("usage")

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout))
}

func run(args []string, stdin *os.File, stdout *os.File) int {
	if args == nil {
		// cobra falls back to os.Args when SetArgs receives nil; an
		// explicit empty slice keeps argument-count validation
		// deterministic regardless of how the process was invoked.
		args = []string{}
	}
	// Startup errors (usage, image load) are reported on standard
	// output, per spec — not stderr. Image load failures go through
	// this plain text slog handler; the usage line is printed directly.
	startup := slog.New(slog.NewTextHandler(stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	// Runtime faults are logged once to standard error, kept off
	// stdout so a program's own OUTPUT byte stream is never
	// interleaved with diagnostic text.
	faults := slog.New(slog.NewTextHandler(os.Stderr, nil))

	cmd := &cobra.Command{
		Use:           "um32 <image>",
		Short:         "run a um32 program image",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errUsage
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return execImage(args[0], stdin, stdout, faults)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetArgs(args)

	err := cmd.Execute()
	switch {
	case err == nil:
		return 0
	case errors.Is(err, errUsage):
		fmt.Fprintln(stdout, "usage: um32 <path-to-image>")
		return exitUsage
	case errors.Is(err, errLoad):
		startup.Error("failed to load image", "error", err)
		return exitLoad
	default:
		// execImage already logged the fault to stderr.
		return exitFault
	}
}

// errLoad wraps any failure to turn the image file into a word vector,
// distinguishing it from a runtime fault for exit-status purposes.
var errLoad = errors.New("load")

func execImage(path string, stdin, stdout *os.File, faults *slog.Logger) error {
	fp, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("%w: %s", errLoad, err)
	}
	defer fp.Close()

	code, err := loader.Load(fp)
	if err != nil {
		return fmt.Errorf("%w: %s", errLoad, err)
	}

	machine := vm.New(code, vm.NewIOPort(stdin, stdout))
	if err := machine.Run(); err != nil {
		faults.Error("machine faulted", "error", err)
		return err
	}
	return nil
}
