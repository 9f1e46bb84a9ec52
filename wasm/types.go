package wasm

import (
	"fmt"
	"strings"
)

// Module represents a decoded WebAssembly module.
//
// Only the sections chisel inspects are decoded into fields. Every other
// known section is kept verbatim in Sections so the module can be encoded
// again without loss.
type Module struct {
	Types    []FuncType
	Imports  []Import
	Funcs    []uint32 // Type indices for declared functions
	Memories []MemoryType
	Exports  []Export
	Start    *uint32

	// Sections holds table, global, element, code, data, data count and
	// tag sections undecoded, in file order.
	Sections []RawSection

	CustomSections []CustomSection
}

// FuncType represents a WebAssembly function signature with parameter and result types.
type FuncType struct {
	Params  []ValType
	Results []ValType
}

// Equal reports whether both signatures have identical params and results.
func (f FuncType) Equal(other FuncType) bool {
	return valTypesEqual(f.Params, other.Params) && valTypesEqual(f.Results, other.Results)
}

func (f FuncType) String() string {
	return fmt.Sprintf("(%s) -> (%s)", joinValTypes(f.Params), joinValTypes(f.Results))
}

func valTypesEqual(a, b []ValType) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func joinValTypes(vs []ValType) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = v.String()
	}
	return strings.Join(parts, ", ")
}

// ValType represents a WebAssembly value type.
// See constants.go for ValI32, ValI64, ValF32, ValF64, etc.
type ValType byte

func (v ValType) String() string {
	switch v {
	case ValI32:
		return "i32"
	case ValI64:
		return "i64"
	case ValF32:
		return "f32"
	case ValF64:
		return "f64"
	case ValV128:
		return "v128"
	case ValFuncRef:
		return "funcref"
	case ValExtern:
		return "externref"
	default:
		return fmt.Sprintf("valtype(0x%02x)", byte(v))
	}
}

func validValType(b byte) bool {
	switch ValType(b) {
	case ValI32, ValI64, ValF32, ValF64, ValV128, ValFuncRef, ValExtern:
		return true
	}
	return false
}

// Import represents an imported function, table, memory, global, or tag.
type Import struct {
	Desc   ImportDesc
	Module string
	Name   string
}

// ImportDesc describes an imported item.
// Kind uses KindFunc, KindTable, KindMemory, KindGlobal, or KindTag constants.
// Only function imports carry a meaningful TypeIdx; the descriptors of the
// other kinds are kept verbatim in Raw.
type ImportDesc struct {
	Raw     []byte
	TypeIdx uint32
	Kind    byte
}

// MemoryType describes a linear memory with size limits.
type MemoryType struct {
	Limits Limits
}

// Limits describes size constraints for tables and memories.
type Limits struct {
	Max      *uint64
	Min      uint64
	Shared   bool
	Memory64 bool
}

// Export describes an exported item.
// Kind uses KindFunc, KindTable, KindMemory, KindGlobal, or KindTag constants.
type Export struct {
	Name string
	Kind byte
	Idx  uint32
}

// RawSection is a section kept as its undecoded payload.
type RawSection struct {
	Data []byte
	ID   byte
}

// CustomSection represents a custom section with arbitrary data.
type CustomSection struct {
	Name string
	Data []byte
}

// KindName returns the text-format keyword for an import/export kind.
func KindName(kind byte) string {
	switch kind {
	case KindFunc:
		return "func"
	case KindTable:
		return "table"
	case KindMemory:
		return "memory"
	case KindGlobal:
		return "global"
	case KindTag:
		return "tag"
	default:
		return fmt.Sprintf("kind(0x%02x)", kind)
	}
}

// NumImportedFuncs returns the number of function imports, which occupy the
// start of the function index space.
func (m *Module) NumImportedFuncs() uint32 {
	return m.numImported(KindFunc)
}

// NumImportedMemories returns the number of memory imports.
func (m *Module) NumImportedMemories() uint32 {
	return m.numImported(KindMemory)
}

func (m *Module) numImported(kind byte) uint32 {
	var n uint32
	for _, imp := range m.Imports {
		if imp.Desc.Kind == kind {
			n++
		}
	}
	return n
}

// NumFuncs returns the size of the function index space.
func (m *Module) NumFuncs() uint32 {
	return m.NumImportedFuncs() + uint32(len(m.Funcs))
}

// NumMemories returns the size of the memory index space.
func (m *Module) NumMemories() uint32 {
	return m.NumImportedMemories() + uint32(len(m.Memories))
}

// TypeAt returns the function type at the given type index.
func (m *Module) TypeAt(typeIdx uint32) (FuncType, error) {
	if int(typeIdx) >= len(m.Types) {
		return FuncType{}, fmt.Errorf("type index %d out of range (have %d)", typeIdx, len(m.Types))
	}
	return m.Types[typeIdx], nil
}

// FuncTypeOf returns the signature of the function at funcIdx in the function
// index space, covering imported functions first and then declared ones.
func (m *Module) FuncTypeOf(funcIdx uint32) (FuncType, error) {
	var n uint32
	for _, imp := range m.Imports {
		if imp.Desc.Kind != KindFunc {
			continue
		}
		if n == funcIdx {
			return m.TypeAt(imp.Desc.TypeIdx)
		}
		n++
	}
	local := funcIdx - n
	if int(local) >= len(m.Funcs) {
		return FuncType{}, fmt.Errorf("function index %d out of range (have %d)", funcIdx, m.NumFuncs())
	}
	return m.TypeAt(m.Funcs[local])
}

// Export returns the export with the given name.
func (m *Module) Export(name string) (Export, bool) {
	for _, e := range m.Exports {
		if e.Name == name {
			return e, true
		}
	}
	return Export{}, false
}
