package chisel

import (
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/wippyai/chisel/config"
	"github.com/wippyai/chisel/wasm"
)

// Verdict is the outcome of one check.
type Verdict struct {
	Name   string
	Detail string // why the check could not pass; empty when it simply failed
	Passed bool
}

// StatusFunc renders the status line printed after a check completes.
type StatusFunc func(name string, passed bool) string

// PlainStatus renders "<name>: GOOD" or "<name>: BAD".
func PlainStatus(name string, passed bool) string {
	if passed {
		return name + ": GOOD"
	}
	return name + ": BAD"
}

// Dispatcher runs configured checks against a module.
type Dispatcher struct {
	registry *Registry
	out      io.Writer
	status   StatusFunc
}

// NewDispatcher creates a dispatcher printing status lines to out.
func NewDispatcher(r *Registry, out io.Writer) *Dispatcher {
	if r == nil {
		r = DefaultRegistry()
	}
	if out == nil {
		out = io.Discard
	}
	return &Dispatcher{registry: r, out: out, status: PlainStatus}
}

// WithStatus sets the status line renderer.
func (d *Dispatcher) WithStatus(f StatusFunc) *Dispatcher {
	if f != nil {
		d.status = f
	}
	return d
}

// Dispatch runs the check named by cfg against m and prints its status line.
// It never fails: unknown names, unknown presets and validation errors all
// produce a failing verdict.
func (d *Dispatcher) Dispatch(cfg config.ModuleConfig, m *wasm.Module) Verdict {
	v := d.evaluate(cfg, m)

	Logger().Info("check completed",
		zap.String("check", cfg.Name),
		zap.String("preset", EffectivePreset(cfg)),
		zap.Bool("passed", v.Passed),
		zap.String("detail", v.Detail))

	fmt.Fprintln(d.out, d.status(v.Name, v.Passed))
	return v
}

func (d *Dispatcher) evaluate(cfg config.ModuleConfig, m *wasm.Module) Verdict {
	v := Verdict{Name: cfg.Name}

	factory, known := d.registry.Lookup(cfg.Name)
	if !known {
		v.Detail = "unrecognized check"
		Logger().Debug("unrecognized check",
			zap.String("check", cfg.Name),
			zap.Strings("known", d.registry.Names()))
	}

	validator, err := factory(cfg)
	if err != nil {
		v.Detail = err.Error()
		return v
	}

	passed, err := validator.Validate(m)
	if err != nil {
		v.Detail = err.Error()
		return v
	}
	v.Passed = passed
	return v
}
