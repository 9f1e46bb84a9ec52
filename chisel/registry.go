package chisel

import (
	"sort"

	"github.com/wippyai/chisel/config"
	"github.com/wippyai/chisel/wasm"
)

// Names of the built-in checks.
const (
	CheckVerifyExports  = "verifyexports"
	CheckVerifyImports  = "verifyimports"
	CheckCheckStartFunc = "checkstartfunc"
)

// Registry maps check names to validator factories.
type Registry struct {
	factories map[string]Factory
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// DefaultRegistry returns a registry with the built-in checks.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(CheckVerifyExports, func(cfg config.ModuleConfig) (Validator, error) {
		v, err := NewVerifyExports(EffectivePreset(cfg))
		if err != nil {
			return nil, err
		}
		return v, nil
	})
	r.Register(CheckVerifyImports, func(cfg config.ModuleConfig) (Validator, error) {
		v, err := NewVerifyImports(EffectivePreset(cfg))
		if err != nil {
			return nil, err
		}
		return v, nil
	})
	// Flags are not read; the start function must be absent.
	r.Register(CheckCheckStartFunc, func(config.ModuleConfig) (Validator, error) {
		return NewCheckStartFunc(false), nil
	})
	return r
}

// Register adds or replaces the factory for name.
func (r *Registry) Register(name string, f Factory) {
	r.factories[name] = f
}

// Lookup returns the factory for name and whether it is registered.
// Unregistered names get a factory whose validator always fails.
func (r *Registry) Lookup(name string) (Factory, bool) {
	if f, ok := r.factories[name]; ok {
		return f, true
	}
	return rejectAll, false
}

// Names returns the registered check names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

var rejectAll Factory = func(config.ModuleConfig) (Validator, error) {
	return ValidatorFunc(func(*wasm.Module) (bool, error) { return false, nil }), nil
}
