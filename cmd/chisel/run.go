package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/wippyai/chisel/chisel"
	"github.com/wippyai/chisel/config"
	"github.com/wippyai/chisel/errors"
	"github.com/wippyai/chisel/runner"
)

type runOptions struct {
	configPath  string
	logLevel    string
	strict      bool
	interactive bool
}

func newRunCmd(stdout, stderr io.Writer) *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Runs chisel with the closest configuration file.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts := runOptions{
				configPath:  v.GetString("config"),
				logLevel:    v.GetString("log-level"),
				strict:      v.GetBool("strict"),
				interactive: v.GetBool("interactive"),
			}
			return runRun(cmd, opts, stdout, stderr)
		},
	}

	flags := cmd.Flags()
	flags.StringP("config", "c", config.DefaultPath, "Sets a custom configuration file")
	flags.Bool("strict", false, "Also compile the binary with wazero before running checks")
	flags.BoolP("interactive", "i", false, "Browse the results in a terminal viewer")
	flags.String("log-level", "warn", "Log level written to stderr (debug, info, warn, error)")

	v.SetEnvPrefix("CHISEL")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(flags); err != nil {
		panic(fmt.Sprintf("bind run flags: %v", err))
	}

	return cmd
}

func runRun(cmd *cobra.Command, opts runOptions, stdout, stderr io.Writer) error {
	logger, err := newLogger(opts.logLevel, stderr)
	if err != nil {
		return &ExitError{Code: exitCodeError, Err: err}
	}
	defer func() { _ = logger.Sync() }()
	setLoggers(logger)

	tty := isTerminal(stdout)
	status := chisel.PlainStatus
	if tty {
		status = styledStatus
	}

	r := runner.New(runner.Options{
		Out:    stdout,
		Status: status,
		Strict: opts.strict,
	})
	cc, report, err := r.RunFile(cmd.Context(), opts.configPath)
	if err != nil {
		logger.Debug("run failed",
			zap.Stringer("kind", errors.KindOf(err)),
			zap.Stringer("stage", r.Stage()),
			zap.Error(err))
		return &ExitError{Code: exitCodeError, Err: err}
	}

	if opts.interactive && tty {
		if err := runViewer(cc, report, stdout); err != nil {
			logger.Sugar().Warnf("viewer: %v", err)
		}
	}

	if code := report.ExitCode(); code != runner.ExitPassed {
		return &ExitError{Code: code}
	}
	return nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
