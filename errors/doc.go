// Package errors provides the closed set of fatal errors raised by chisel.
//
// Every error carries a Kind (what went wrong, with fixed display text) and a
// Phase (which stage of a run raised it). The Phase is implied by the Kind.
// The Error type also carries an optional ruleset path, detail and cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.KindPresetTypeMismatch).
//		Path("suite", "verifyexports", "preset").
//		Detail("got !!int").
//		Build()
//
// Errors match their Kind through errors.Is:
//
//	if errors.Is(err, errors.KindConfigMissingFile) { ... }
//
// Checks that fail, unknown check names and unknown presets are not errors;
// they are reported as failing verdicts.
package errors
