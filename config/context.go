package config

// ChiselContext is the resolved configuration for one run: the binary to
// check and the checks to run against it, in document order.
type ChiselContext struct {
	// Ruleset is the key of the selected top-level entry.
	Ruleset string
	File    string
	Modules []ModuleConfig
}

// ModuleConfig names one check. A nil Preset means the document did not
// set one; the dispatcher picks the default. An empty string is a preset
// like any other.
type ModuleConfig struct {
	Preset *string
	Name   string
}

// WithPreset returns a ModuleConfig with the given preset set.
func WithPreset(name, preset string) ModuleConfig {
	return ModuleConfig{Name: name, Preset: &preset}
}
