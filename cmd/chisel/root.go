package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/wippyai/chisel/errors"
)

const programName = "chisel"

// Exit codes. A completed run exits with runner.ExitPassed or runner.ExitFailed.
const exitCodeError = 255

// ExitError carries the process exit code out of a command.
type ExitError struct {
	Err  error
	Code int
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit status %d", e.Code)
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:           programName,
		Short:         "Validate WebAssembly binaries against a ruleset",
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(*cobra.Command, []string) error {
			return &ExitError{Code: exitCodeError, Err: errors.New(errors.KindNoSubcommand).Build()}
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.AddCommand(newRunCmd(stdout, stderr))
	return root
}

// execute runs the command line and returns the process exit code. Errors
// are printed to stdout as "chisel: <message>".
func execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if args == nil {
		// cobra falls back to os.Args on nil
		args = []string{}
	}
	root := newRootCmd(stdout, stderr)
	root.SetArgs(args)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return 0
	}

	var exitErr *ExitError
	if !stderrors.As(err, &exitErr) {
		exitErr = &ExitError{Code: exitCodeError, Err: err}
	}
	if exitErr.Err != nil {
		fmt.Fprintf(stdout, "%s: %s\n", programName, message(exitErr.Err))
	}
	return exitErr.Code
}

// message returns the display text for err: the fixed message for chisel
// errors, the error text otherwise.
func message(err error) string {
	var e *errors.Error
	if stderrors.As(err, &e) {
		return e.Message()
	}
	return err.Error()
}
