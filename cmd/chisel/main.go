// Command chisel runs the checks named in a YAML ruleset against a
// WebAssembly binary.
//
//	chisel run                 uses ./chisel.yml
//	chisel run -c rules.yml    uses rules.yml
//
// Exit status is 0 when every check passed, 1 when at least one failed and
// 255 when the configuration or the binary could not be used.
package main

import (
	"context"
	"os"
)

func main() {
	os.Exit(execute(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}
