package chisel

import (
	"errors"
	"fmt"

	"github.com/wippyai/chisel/config"
	"github.com/wippyai/chisel/wasm"
)

// DefaultPreset is used by preset driven checks that do not set one.
const DefaultPreset = "ewasm"

// ErrUnknownPreset is returned by constructors given a preset they do not know.
var ErrUnknownPreset = errors.New("unknown preset")

// Validator checks one property of a decoded module. An error means the
// check could not be evaluated; callers treat it as a failure.
type Validator interface {
	Validate(m *wasm.Module) (bool, error)
}

// Factory builds the validator for one configured check.
type Factory func(cfg config.ModuleConfig) (Validator, error)

// ValidatorFunc adapts a function to the Validator interface.
type ValidatorFunc func(m *wasm.Module) (bool, error)

// Validate calls f(m).
func (f ValidatorFunc) Validate(m *wasm.Module) (bool, error) {
	return f(m)
}

// EffectivePreset returns the preset a check runs with.
func EffectivePreset(cfg config.ModuleConfig) string {
	if cfg.Preset == nil {
		return DefaultPreset
	}
	return *cfg.Preset
}

func unknownPreset(check, preset string) error {
	return fmt.Errorf("%s: %w %q", check, ErrUnknownPreset, preset)
}
