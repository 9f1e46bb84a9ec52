package chisel

import (
	"fmt"

	"github.com/wippyai/chisel/wasm"
)

// ImportSpec is one function import a preset knows about.
type ImportSpec struct {
	Module string
	Name   string
	Sig    wasm.FuncType
}

// ImportPreset is a named set of host functions.
type ImportPreset struct {
	Imports []ImportSpec
	// RequireAll fails modules that do not import every listed function.
	RequireAll bool
	// AllowUnlisted lets modules import things outside the list.
	AllowUnlisted bool
}

// VerifyImports checks a module's imports against a preset.
type VerifyImports struct {
	index  map[importKey]wasm.FuncType
	preset ImportPreset
}

type importKey struct {
	module, name string
}

// NewVerifyImports returns the import check for a named preset.
func NewVerifyImports(preset string) (*VerifyImports, error) {
	p, ok := importPresets[preset]
	if !ok {
		return nil, unknownPreset("verifyimports", preset)
	}
	return NewVerifyImportsWith(p), nil
}

// NewVerifyImportsWith returns an import check for a custom preset.
func NewVerifyImportsWith(p ImportPreset) *VerifyImports {
	index := make(map[importKey]wasm.FuncType, len(p.Imports))
	for _, spec := range p.Imports {
		index[importKey{spec.Module, spec.Name}] = spec.Sig
	}
	return &VerifyImports{preset: p, index: index}
}

// Validate reports whether every function import matches the preset's
// signature for it, whether unlisted imports are absent when the preset
// forbids them, and whether every listed import is present when the preset
// requires it.
func (v *VerifyImports) Validate(m *wasm.Module) (bool, error) {
	seen := make(map[importKey]struct{}, len(m.Imports))
	for _, imp := range m.Imports {
		key := importKey{imp.Module, imp.Name}
		want, listed := v.index[key]
		if imp.Desc.Kind != wasm.KindFunc || !listed {
			if !v.preset.AllowUnlisted {
				return false, nil
			}
			continue
		}
		got, err := m.TypeAt(imp.Desc.TypeIdx)
		if err != nil {
			return false, fmt.Errorf("import %s.%s: %w", imp.Module, imp.Name, err)
		}
		if !got.Equal(want) {
			return false, nil
		}
		seen[key] = struct{}{}
	}

	if v.preset.RequireAll {
		for key := range v.index {
			if _, ok := seen[key]; !ok {
				return false, nil
			}
		}
	}
	return true, nil
}
