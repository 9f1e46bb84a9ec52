package main

import (
	"fmt"
	"io"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/wippyai/chisel/chisel"
	"github.com/wippyai/chisel/config"
	"github.com/wippyai/chisel/runner"
)

// newLogger builds a console logger writing to w at the named level.
func newLogger(level string, w io.Writer) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	enc := zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	core := zapcore.NewCore(enc, zapcore.AddSync(w), lvl)
	return zap.New(core).Named(programName), nil
}

func setLoggers(l *zap.Logger) {
	config.SetLogger(l.Named("config"))
	chisel.SetLogger(l.Named("dispatch"))
	runner.SetLogger(l.Named("runner"))
}
