package wasm

import (
	"errors"
	"fmt"
	"io"

	"github.com/wippyai/chisel/wasm/internal/binary"
)

// Parsing errors returned by ParseModule.
var (
	ErrInvalidMagic   = errors.New("invalid wasm magic number")
	ErrInvalidVersion = errors.New("invalid wasm version")
)

// ParseModule parses a WebAssembly binary module.
//
// Type, import, function, memory, export and start sections are decoded.
// Table, global, element, code, data, data count and tag sections are checked
// for ordering and framing and kept raw. Function bodies are not validated.
func ParseModule(data []byte) (*Module, error) {
	r := binary.NewReader(data)

	magic, err := r.ReadU32LE()
	if err != nil {
		return nil, r.WrapError("header", err)
	}
	if magic != Magic {
		return nil, ErrInvalidMagic
	}

	version, err := r.ReadU32LE()
	if err != nil {
		return nil, r.WrapError("header", err)
	}
	if version != Version {
		return nil, ErrInvalidVersion
	}

	m := &Module{}

	// Track section ordering using canonical order, not section IDs
	var lastSectionOrder int

	for {
		sectionID, err := r.ReadByte()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, r.WrapError("section header", err)
		}

		if sectionID != SectionCustom {
			order := sectionOrder(sectionID)
			if order == 0 {
				return nil, fmt.Errorf("unknown section ID: 0x%02x", sectionID)
			}
			if order <= lastSectionOrder {
				return nil, fmt.Errorf("section %d appears out of order", sectionID)
			}
			lastSectionOrder = order
		}

		sectionSize, err := r.ReadU32()
		if err != nil {
			return nil, r.WrapError("section size", err)
		}

		sectionData, err := r.ReadBytes(int(sectionSize))
		if err != nil {
			return nil, r.WrapError("section data", err)
		}

		if err := parseSection(sectionID, sectionData, m); err != nil {
			return nil, err
		}
	}

	if err := checkIndices(m); err != nil {
		return nil, err
	}

	return m, nil
}

func parseSection(id byte, data []byte, m *Module) error {
	sr := binary.NewReader(data)

	var err error
	switch id {
	case SectionCustom:
		err = parseCustomSection(sr, m)
	case SectionType:
		err = parseTypeSection(sr, m)
	case SectionImport:
		err = parseImportSection(sr, m)
	case SectionFunction:
		err = parseFunctionSection(sr, m)
	case SectionMemory:
		err = parseMemorySection(sr, m)
	case SectionExport:
		err = parseExportSection(sr, m)
	case SectionStart:
		err = parseStartSection(sr, m)
	default:
		m.Sections = append(m.Sections, RawSection{ID: id, Data: data})
		return nil
	}
	if err != nil {
		return fmt.Errorf("%s section: %w", sectionName(id), err)
	}
	if sr.Len() != 0 {
		return fmt.Errorf("%s section: %d trailing bytes", sectionName(id), sr.Len())
	}
	return nil
}

// sectionOrder returns the canonical ordering for a section ID, or 0 for an
// unknown ID.
func sectionOrder(id byte) int {
	switch id {
	case SectionType:
		return 1
	case SectionImport:
		return 2
	case SectionFunction:
		return 3
	case SectionTable:
		return 4
	case SectionMemory:
		return 5
	case SectionTag:
		return 6 // Tag comes after Memory, before Global
	case SectionGlobal:
		return 7
	case SectionExport:
		return 8
	case SectionStart:
		return 9
	case SectionElement:
		return 10
	case SectionDataCount:
		return 11 // DataCount must come before Code
	case SectionCode:
		return 12
	case SectionData:
		return 13
	default:
		return 0
	}
}

func sectionName(id byte) string {
	switch id {
	case SectionCustom:
		return "custom"
	case SectionType:
		return "type"
	case SectionImport:
		return "import"
	case SectionFunction:
		return "function"
	case SectionTable:
		return "table"
	case SectionMemory:
		return "memory"
	case SectionGlobal:
		return "global"
	case SectionExport:
		return "export"
	case SectionStart:
		return "start"
	case SectionElement:
		return "element"
	case SectionCode:
		return "code"
	case SectionData:
		return "data"
	case SectionDataCount:
		return "data count"
	case SectionTag:
		return "tag"
	default:
		return fmt.Sprintf("section(0x%02x)", id)
	}
}

func parseCustomSection(r *binary.Reader, m *Module) error {
	name, err := r.ReadName()
	if err != nil {
		return err
	}
	rest, err := r.ReadRemaining()
	if err != nil {
		return err
	}
	m.CustomSections = append(m.CustomSections, CustomSection{
		Name: name,
		Data: rest,
	})
	return nil
}

func parseTypeSection(r *binary.Reader, m *Module) error {
	count, err := r.ReadU32()
	if err != nil {
		return err
	}
	m.Types = make([]FuncType, 0, min(count, uint32(r.Len())))
	for i := uint32(0); i < count; i++ {
		form, err := r.ReadByte()
		if err != nil {
			return err
		}
		if form != FuncTypeByte {
			return fmt.Errorf("type %d: unsupported type form 0x%02x", i, form)
		}
		params, err := readValTypes(r)
		if err != nil {
			return fmt.Errorf("type %d params: %w", i, err)
		}
		results, err := readValTypes(r)
		if err != nil {
			return fmt.Errorf("type %d results: %w", i, err)
		}
		m.Types = append(m.Types, FuncType{Params: params, Results: results})
	}
	return nil
}

func readValTypes(r *binary.Reader) ([]ValType, error) {
	count, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, nil
	}
	if int(count) > r.Len() {
		return nil, io.ErrUnexpectedEOF
	}
	types := make([]ValType, count)
	for i := range types {
		b, err := r.ReadByte()
		if err != nil {
			return nil, err
		}
		if !validValType(b) {
			return nil, fmt.Errorf("invalid value type 0x%02x", b)
		}
		types[i] = ValType(b)
	}
	return types, nil
}

func parseImportSection(r *binary.Reader, m *Module) error {
	count, err := r.ReadU32()
	if err != nil {
		return err
	}
	m.Imports = make([]Import, 0, min(count, uint32(r.Len())))
	for i := uint32(0); i < count; i++ {
		module, err := r.ReadName()
		if err != nil {
			return err
		}
		name, err := r.ReadName()
		if err != nil {
			return err
		}
		kind, err := r.ReadByte()
		if err != nil {
			return err
		}

		imp := Import{Module: module, Name: name, Desc: ImportDesc{Kind: kind}}

		switch kind {
		case KindFunc:
			imp.Desc.TypeIdx, err = r.ReadU32()
		case KindTable:
			imp.Desc.Raw, err = readTableTypeRaw(r)
		case KindMemory:
			start := r.Position()
			if _, err = readMemoryType(r); err == nil {
				imp.Desc.Raw = r.Span(start, r.Position())
			}
		case KindGlobal:
			imp.Desc.Raw, err = readGlobalTypeRaw(r)
		case KindTag:
			imp.Desc.Raw, err = readTagTypeRaw(r)
		default:
			return fmt.Errorf("import %s.%s: invalid import kind 0x%02x", module, name, kind)
		}
		if err != nil {
			return fmt.Errorf("import %s.%s: %w", module, name, err)
		}
		m.Imports = append(m.Imports, imp)
	}
	return nil
}

func parseFunctionSection(r *binary.Reader, m *Module) error {
	count, err := r.ReadU32()
	if err != nil {
		return err
	}
	m.Funcs = make([]uint32, 0, min(count, uint32(r.Len())))
	for i := uint32(0); i < count; i++ {
		idx, err := r.ReadU32()
		if err != nil {
			return err
		}
		m.Funcs = append(m.Funcs, idx)
	}
	return nil
}

func parseMemorySection(r *binary.Reader, m *Module) error {
	count, err := r.ReadU32()
	if err != nil {
		return err
	}
	m.Memories = make([]MemoryType, 0, min(count, uint32(r.Len())))
	for i := uint32(0); i < count; i++ {
		mem, err := readMemoryType(r)
		if err != nil {
			return err
		}
		m.Memories = append(m.Memories, mem)
	}
	return nil
}

func parseExportSection(r *binary.Reader, m *Module) error {
	count, err := r.ReadU32()
	if err != nil {
		return err
	}
	m.Exports = make([]Export, 0, min(count, uint32(r.Len())))
	seen := make(map[string]struct{}, min(count, uint32(r.Len())))
	for i := uint32(0); i < count; i++ {
		name, err := r.ReadName()
		if err != nil {
			return err
		}
		kind, err := r.ReadByte()
		if err != nil {
			return err
		}
		if kind > KindTag {
			return fmt.Errorf("invalid export kind: 0x%02x", kind)
		}
		idx, err := r.ReadU32()
		if err != nil {
			return err
		}
		if _, dup := seen[name]; dup {
			return fmt.Errorf("duplicate export name %q", name)
		}
		seen[name] = struct{}{}
		m.Exports = append(m.Exports, Export{Name: name, Kind: kind, Idx: idx})
	}
	return nil
}

func parseStartSection(r *binary.Reader, m *Module) error {
	idx, err := r.ReadU32()
	if err != nil {
		return err
	}
	m.Start = &idx
	return nil
}

func readMemoryType(r *binary.Reader) (MemoryType, error) {
	limits, err := readLimits(r)
	if err != nil {
		return MemoryType{}, err
	}
	return MemoryType{Limits: limits}, nil
}

func readLimits(r *binary.Reader) (Limits, error) {
	flags, err := r.ReadByte()
	if err != nil {
		return Limits{}, err
	}
	if flags&^(LimitsHasMax|LimitsShared|LimitsMemory64) != 0 {
		return Limits{}, fmt.Errorf("invalid limits flags 0x%02x", flags)
	}

	l := Limits{
		Shared:   flags&LimitsShared != 0,
		Memory64: flags&LimitsMemory64 != 0,
	}

	minVal, err := readLimit(r, l.Memory64)
	if err != nil {
		return Limits{}, err
	}
	l.Min = minVal
	if flags&LimitsHasMax != 0 {
		maxVal, err := readLimit(r, l.Memory64)
		if err != nil {
			return Limits{}, err
		}
		l.Max = &maxVal
	}

	if l.Max != nil && l.Min > *l.Max {
		return Limits{}, fmt.Errorf("limits min (%d) exceeds max (%d)", l.Min, *l.Max)
	}
	return l, nil
}

func readLimit(r *binary.Reader, memory64 bool) (uint64, error) {
	if !memory64 {
		v, err := r.ReadU32()
		return uint64(v), err
	}
	var result uint64
	var shift uint
	for {
		b, err := r.ReadByte()
		if err != nil {
			return 0, err
		}
		result |= uint64(b&0x7f) << shift
		if b&0x80 == 0 {
			return result, nil
		}
		shift += 7
		if shift >= 70 {
			return 0, binary.ErrOverflow
		}
	}
}

// readTableTypeRaw consumes an MVP table type (reftype + limits).
func readTableTypeRaw(r *binary.Reader) ([]byte, error) {
	start := r.Position()
	elem, err := r.ReadByte()
	if err != nil {
		return nil, err
	}
	if ValType(elem) != ValFuncRef && ValType(elem) != ValExtern {
		return nil, fmt.Errorf("unsupported table element type 0x%02x", elem)
	}
	if _, err := readLimits(r); err != nil {
		return nil, err
	}
	return r.Span(start, r.Position()), nil
}

func readGlobalTypeRaw(r *binary.Reader) ([]byte, error) {
	start := r.Position()
	vt, err := r.ReadByte()
	if err != nil {
		return nil, err
	}
	if !validValType(vt) {
		return nil, fmt.Errorf("invalid global type 0x%02x", vt)
	}
	mut, err := r.ReadByte()
	if err != nil {
		return nil, err
	}
	if mut > 1 {
		return nil, fmt.Errorf("invalid global mutability 0x%02x", mut)
	}
	return r.Span(start, r.Position()), nil
}

func readTagTypeRaw(r *binary.Reader) ([]byte, error) {
	start := r.Position()
	if _, err := r.ReadByte(); err != nil {
		return nil, err
	}
	if _, err := r.ReadU32(); err != nil {
		return nil, err
	}
	return r.Span(start, r.Position()), nil
}

// checkIndices verifies the cross-section references chisel relies on.
func checkIndices(m *Module) error {
	for i, typeIdx := range m.Funcs {
		if int(typeIdx) >= len(m.Types) {
			return fmt.Errorf("function %d: invalid type index %d", i, typeIdx)
		}
	}
	for _, imp := range m.Imports {
		if imp.Desc.Kind == KindFunc && int(imp.Desc.TypeIdx) >= len(m.Types) {
			return fmt.Errorf("import %s.%s: invalid type index %d", imp.Module, imp.Name, imp.Desc.TypeIdx)
		}
	}
	return nil
}
