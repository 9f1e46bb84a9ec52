// Package chisel is the root of the chisel module, a validator for
// WebAssembly binaries driven by a YAML ruleset.
//
// # Architecture Overview
//
// The module is organized into packages with distinct responsibilities:
//
//	chisel/              Module root
//	├── cmd/chisel/      Command line entry point (cobra, viper, bubbletea viewer)
//	├── config/          Ruleset file loading and resolution
//	├── runner/          Run lifecycle: load, read, decode, check, report
//	├── chisel/          Checks, presets, registry and dispatch
//	├── wasm/            Core WASM binary decoding and encoding
//	└── errors/          Structured error kinds with fixed user messages
//
// # Quick Start
//
// A ruleset names the binary and the checks to run against it:
//
//	mycontract:
//	  file: "target/mycontract.wasm"
//	  verifyexports:
//	    preset: ewasm
//	  verifyimports:
//	    preset: ewasm
//	  checkstartfunc: {}
//
// Running it from Go:
//
//	r := runner.New(runner.Options{Out: os.Stdout})
//	_, report, err := r.RunFile(ctx, "chisel.yml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.Exit(report.ExitCode())
//
// # Checks
//
// Each entry other than "file" names a check. verifyexports and
// verifyimports compare the module against a preset (ewasm by default);
// checkstartfunc requires that no start function is declared. Unknown
// names always fail without stopping the run.
package chisel
