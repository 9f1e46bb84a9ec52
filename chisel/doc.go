// Package chisel holds the check capabilities and the dispatcher that runs
// them.
//
// A check is a Validator built by a Factory registered under the check's
// name. The Registry maps names to factories; a name with no factory gets a
// validator that always fails, so an unknown check is a failing verdict and
// never an error.
//
//	reg := chisel.DefaultRegistry()
//	d := chisel.NewDispatcher(reg, os.Stdout)
//	v := d.Dispatch(config.ModuleConfig{Name: "verifyexports"}, module)
//	// prints "verifyexports: GOOD" or "verifyexports: BAD"
//
// The built-in checks are:
//
//	verifyexports   required exports and their signatures, per preset
//	verifyimports   allowed imports and their signatures, per preset
//	checkstartfunc  presence or absence of a start function
//
// Presets are resolved when a check is dispatched. A check without a preset
// uses DefaultPreset. checkstartfunc does not read its flags and always
// requires the start function to be absent.
package chisel
