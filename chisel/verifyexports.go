package chisel

import (
	"fmt"

	"github.com/wippyai/chisel/wasm"
)

// ExportSpec is one required export. Sig applies to function exports only.
type ExportSpec struct {
	Name string
	Sig  wasm.FuncType
	Kind byte
}

// ExportPreset is a named set of required exports.
type ExportPreset struct {
	Exports       []ExportSpec
	AllowUnlisted bool
}

// VerifyExports checks that a module exports what a preset requires.
type VerifyExports struct {
	preset ExportPreset
}

// NewVerifyExports returns the export check for a named preset.
func NewVerifyExports(preset string) (*VerifyExports, error) {
	p, ok := exportPresets[preset]
	if !ok {
		return nil, unknownPreset("verifyexports", preset)
	}
	return NewVerifyExportsWith(p), nil
}

// NewVerifyExportsWith returns an export check for a custom preset.
func NewVerifyExportsWith(p ExportPreset) *VerifyExports {
	return &VerifyExports{preset: p}
}

// Validate reports whether every required export is present with the right
// kind and signature, and, unless the preset allows it, that nothing else is
// exported.
func (v *VerifyExports) Validate(m *wasm.Module) (bool, error) {
	for _, spec := range v.preset.Exports {
		e, ok := m.Export(spec.Name)
		if !ok || e.Kind != spec.Kind {
			return false, nil
		}
		switch e.Kind {
		case wasm.KindFunc:
			ft, err := m.FuncTypeOf(e.Idx)
			if err != nil {
				return false, fmt.Errorf("export %q: %w", e.Name, err)
			}
			if !ft.Equal(spec.Sig) {
				return false, nil
			}
		case wasm.KindMemory:
			if e.Idx >= m.NumMemories() {
				return false, fmt.Errorf("export %q: memory index %d out of range (have %d)", e.Name, e.Idx, m.NumMemories())
			}
		}
	}

	if v.preset.AllowUnlisted {
		return true, nil
	}
	for _, e := range m.Exports {
		if !v.listed(e.Name) {
			return false, nil
		}
	}
	return true, nil
}

func (v *VerifyExports) listed(name string) bool {
	for _, spec := range v.preset.Exports {
		if spec.Name == name {
			return true
		}
	}
	return false
}
