package wasm

import (
	"sort"

	"github.com/wippyai/chisel/wasm/internal/binary"
)

// Encode serializes the module to the WebAssembly binary format.
// Raw sections are written back verbatim in canonical order; custom sections
// are appended at the end.
func (m *Module) Encode() []byte {
	w := binary.NewWriter()
	w.WriteU32LE(Magic)
	w.WriteU32LE(Version)

	type section struct {
		payload []byte
		id      byte
	}
	var sections []section
	add := func(id byte, payload []byte) {
		sections = append(sections, section{id: id, payload: payload})
	}

	if len(m.Types) > 0 {
		add(SectionType, encodeTypeSection(m.Types))
	}
	if len(m.Imports) > 0 {
		add(SectionImport, encodeImportSection(m.Imports))
	}
	if len(m.Funcs) > 0 {
		add(SectionFunction, encodeFunctionSection(m.Funcs))
	}
	if len(m.Memories) > 0 {
		add(SectionMemory, encodeMemorySection(m.Memories))
	}
	if len(m.Exports) > 0 {
		add(SectionExport, encodeExportSection(m.Exports))
	}
	if m.Start != nil {
		sw := binary.NewWriter()
		sw.WriteU32(*m.Start)
		add(SectionStart, sw.Bytes())
	}
	for _, raw := range m.Sections {
		add(raw.ID, raw.Data)
	}

	sort.SliceStable(sections, func(i, j int) bool {
		return sectionOrder(sections[i].id) < sectionOrder(sections[j].id)
	})
	for _, s := range sections {
		w.WriteSection(s.id, s.payload)
	}

	for _, cs := range m.CustomSections {
		cw := binary.NewWriter()
		cw.WriteName(cs.Name)
		cw.WriteBytes(cs.Data)
		w.WriteSection(SectionCustom, cw.Bytes())
	}

	return w.Bytes()
}

func encodeTypeSection(types []FuncType) []byte {
	w := binary.NewWriter()
	w.WriteU32(uint32(len(types)))
	for _, ft := range types {
		w.Byte(FuncTypeByte)
		writeValTypes(w, ft.Params)
		writeValTypes(w, ft.Results)
	}
	return w.Bytes()
}

func writeValTypes(w *binary.Writer, types []ValType) {
	w.WriteU32(uint32(len(types)))
	for _, t := range types {
		w.Byte(byte(t))
	}
}

func encodeImportSection(imports []Import) []byte {
	w := binary.NewWriter()
	w.WriteU32(uint32(len(imports)))
	for _, imp := range imports {
		w.WriteName(imp.Module)
		w.WriteName(imp.Name)
		w.Byte(imp.Desc.Kind)
		if imp.Desc.Kind == KindFunc {
			w.WriteU32(imp.Desc.TypeIdx)
		} else {
			w.WriteBytes(imp.Desc.Raw)
		}
	}
	return w.Bytes()
}

func encodeFunctionSection(funcs []uint32) []byte {
	w := binary.NewWriter()
	w.WriteU32(uint32(len(funcs)))
	for _, idx := range funcs {
		w.WriteU32(idx)
	}
	return w.Bytes()
}

func encodeMemorySection(mems []MemoryType) []byte {
	w := binary.NewWriter()
	w.WriteU32(uint32(len(mems)))
	for _, mem := range mems {
		writeLimits(w, mem.Limits)
	}
	return w.Bytes()
}

func writeLimits(w *binary.Writer, l Limits) {
	var flags byte
	if l.Max != nil {
		flags |= LimitsHasMax
	}
	if l.Shared {
		flags |= LimitsShared
	}
	if l.Memory64 {
		flags |= LimitsMemory64
	}
	w.Byte(flags)
	writeLimit(w, l.Min)
	if l.Max != nil {
		writeLimit(w, *l.Max)
	}
}

func writeLimit(w *binary.Writer, v uint64) {
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			b |= 0x80
		}
		w.Byte(b)
		if v == 0 {
			return
		}
	}
}

func encodeExportSection(exports []Export) []byte {
	w := binary.NewWriter()
	w.WriteU32(uint32(len(exports)))
	for _, e := range exports {
		w.WriteName(e.Name)
		w.Byte(e.Kind)
		w.WriteU32(e.Idx)
	}
	return w.Bytes()
}
