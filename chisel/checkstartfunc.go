package chisel

import (
	"fmt"

	"github.com/wippyai/chisel/wasm"
)

// CheckStartFunc checks for the presence or absence of a start function.
type CheckStartFunc struct {
	startRequired bool
}

// NewCheckStartFunc returns a start function check. With startRequired false
// a module passes only when it has no start function.
func NewCheckStartFunc(startRequired bool) *CheckStartFunc {
	return &CheckStartFunc{startRequired: startRequired}
}

// Validate reports whether the module's start section matches the requirement.
func (c *CheckStartFunc) Validate(m *wasm.Module) (bool, error) {
	if m.Start != nil && *m.Start >= m.NumFuncs() {
		return false, fmt.Errorf("start function index %d out of range (have %d)", *m.Start, m.NumFuncs())
	}
	return (m.Start != nil) == c.startRequired, nil
}
