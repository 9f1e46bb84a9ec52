package chisel_test

import (
	"errors"
	"testing"

	"github.com/wippyai/chisel/chisel"
	"github.com/wippyai/chisel/wasm"
)

func u32(v uint32) *uint32 { return &v }

// ewasmContract is a minimal module satisfying the ewasm presets:
// it imports useGas and exports main and memory.
func ewasmContract() *wasm.Module {
	return &wasm.Module{
		Types: []wasm.FuncType{
			{Params: []wasm.ValType{wasm.ValI64}},
			{},
		},
		Imports: []wasm.Import{
			{Module: "ethereum", Name: "useGas", Desc: wasm.ImportDesc{Kind: wasm.KindFunc, TypeIdx: 0}},
		},
		Funcs:    []uint32{1},
		Memories: []wasm.MemoryType{{Limits: wasm.Limits{Min: 1}}},
		Exports: []wasm.Export{
			{Name: "main", Kind: wasm.KindFunc, Idx: 1},
			{Name: "memory", Kind: wasm.KindMemory, Idx: 0},
		},
	}
}

func TestVerifyExports_Ewasm(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(m *wasm.Module)
		want    bool
		wantErr bool
	}{
		{name: "valid", mutate: func(*wasm.Module) {}, want: true},
		{
			name:   "missing memory",
			mutate: func(m *wasm.Module) { m.Exports = m.Exports[:1] },
			want:   false,
		},
		{
			name: "main has wrong signature",
			mutate: func(m *wasm.Module) {
				m.Exports[0].Idx = 0 // useGas(i64)
			},
			want: false,
		},
		{
			name:   "main is not a function",
			mutate: func(m *wasm.Module) { m.Exports[0].Kind = wasm.KindGlobal },
			want:   false,
		},
		{
			name: "unlisted export",
			mutate: func(m *wasm.Module) {
				m.Exports = append(m.Exports, wasm.Export{Name: "extra", Kind: wasm.KindFunc, Idx: 1})
			},
			want: false,
		},
		{
			name:    "main index out of range",
			mutate:  func(m *wasm.Module) { m.Exports[0].Idx = 9 },
			wantErr: true,
		},
		{
			name:    "memory index out of range",
			mutate:  func(m *wasm.Module) { m.Exports[1].Idx = 4 },
			wantErr: true,
		},
		{
			name: "imported memory counts",
			mutate: func(m *wasm.Module) {
				m.Memories = nil
				m.Imports = append(m.Imports, wasm.Import{Module: "env", Name: "memory", Desc: wasm.ImportDesc{Kind: wasm.KindMemory}})
			},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := chisel.NewVerifyExports("ewasm")
			if err != nil {
				t.Fatal(err)
			}
			m := ewasmContract()
			tt.mutate(m)

			got, err := v.Validate(m)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected validation error")
				}
				return
			}
			if err != nil {
				t.Fatalf("Validate: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestVerifyExports_Pwasm(t *testing.T) {
	v, err := chisel.NewVerifyExports("pwasm")
	if err != nil {
		t.Fatal(err)
	}
	m := &wasm.Module{
		Types: []wasm.FuncType{{}},
		Funcs: []uint32{0, 0},
		Exports: []wasm.Export{
			{Name: "call", Kind: wasm.KindFunc, Idx: 0},
			{Name: "deploy", Kind: wasm.KindFunc, Idx: 1},
			{Name: "memory", Kind: wasm.KindMemory, Idx: 0},
		},
	}
	ok, err := v.Validate(m)
	if err != nil || !ok {
		t.Errorf("pwasm allows unlisted exports: got %v, %v", ok, err)
	}

	m.Exports = m.Exports[1:]
	if ok, _ := v.Validate(m); ok {
		t.Error("missing call export should fail")
	}
}

func TestVerifyExports_UnknownPreset(t *testing.T) {
	_, err := chisel.NewVerifyExports("nope")
	if !errors.Is(err, chisel.ErrUnknownPreset) {
		t.Fatalf("got %v, want ErrUnknownPreset", err)
	}
	if _, err := chisel.NewVerifyExports(""); err == nil {
		t.Error("empty preset is not the default")
	}
}

func TestVerifyImports_Ewasm(t *testing.T) {
	tests := []struct {
		name    string
		preset  string
		mutate  func(m *wasm.Module)
		want    bool
		wantErr bool
	}{
		{name: "valid", preset: "ewasm", mutate: func(*wasm.Module) {}, want: true},
		{
			name:   "no imports",
			preset: "ewasm",
			mutate: func(m *wasm.Module) { m.Imports = nil },
			want:   true,
		},
		{
			name:   "wrong signature",
			preset: "ewasm",
			mutate: func(m *wasm.Module) { m.Imports[0].Desc.TypeIdx = 1 },
			want:   false,
		},
		{
			name:   "wrong namespace",
			preset: "ewasm",
			mutate: func(m *wasm.Module) { m.Imports[0].Module = "env" },
			want:   false,
		},
		{
			name:   "unknown function",
			preset: "ewasm",
			mutate: func(m *wasm.Module) { m.Imports[0].Name = "useGasPlease" },
			want:   false,
		},
		{
			name:   "imported memory is unlisted",
			preset: "ewasm",
			mutate: func(m *wasm.Module) {
				m.Imports = append(m.Imports, wasm.Import{Module: "ethereum", Name: "memory", Desc: wasm.ImportDesc{Kind: wasm.KindMemory}})
			},
			want: false,
		},
		{
			name:   "debug import rejected by ewasm",
			preset: "ewasm",
			mutate: func(m *wasm.Module) {
				m.Types = append(m.Types, wasm.FuncType{Params: []wasm.ValType{wasm.ValI32}})
				m.Imports = append(m.Imports, wasm.Import{Module: "debug", Name: "print32", Desc: wasm.ImportDesc{Kind: wasm.KindFunc, TypeIdx: 2}})
			},
			want: false,
		},
		{
			name:   "debug import allowed by ewasm-debug",
			preset: "ewasm-debug",
			mutate: func(m *wasm.Module) {
				m.Types = append(m.Types, wasm.FuncType{Params: []wasm.ValType{wasm.ValI32}})
				m.Imports = append(m.Imports, wasm.Import{Module: "debug", Name: "print32", Desc: wasm.ImportDesc{Kind: wasm.KindFunc, TypeIdx: 2}})
			},
			want: true,
		},
		{
			name:    "type index out of range",
			preset:  "ewasm",
			mutate:  func(m *wasm.Module) { m.Imports[0].Desc.TypeIdx = 7 },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := chisel.NewVerifyImports(tt.preset)
			if err != nil {
				t.Fatal(err)
			}
			m := ewasmContract()
			tt.mutate(m)

			got, err := v.Validate(m)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected validation error")
				}
				return
			}
			if err != nil {
				t.Fatalf("Validate: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestVerifyImports_CustomPreset(t *testing.T) {
	useGas := wasm.FuncType{Params: []wasm.ValType{wasm.ValI64}}
	finish := wasm.FuncType{Params: []wasm.ValType{wasm.ValI32, wasm.ValI32}}
	preset := chisel.ImportPreset{
		Imports: []chisel.ImportSpec{
			{Module: "ethereum", Name: "useGas", Sig: useGas},
			{Module: "ethereum", Name: "finish", Sig: finish},
		},
		RequireAll: true,
	}

	m := ewasmContract()
	if ok, _ := chisel.NewVerifyImportsWith(preset).Validate(m); ok {
		t.Error("RequireAll should fail when finish is not imported")
	}

	m.Types = append(m.Types, finish)
	m.Imports = append(m.Imports, wasm.Import{Module: "ethereum", Name: "finish", Desc: wasm.ImportDesc{Kind: wasm.KindFunc, TypeIdx: 2}})
	if ok, err := chisel.NewVerifyImportsWith(preset).Validate(m); !ok || err != nil {
		t.Errorf("all required imports present: got %v, %v", ok, err)
	}

	preset.RequireAll = false
	preset.AllowUnlisted = true
	m.Imports = append(m.Imports, wasm.Import{Module: "env", Name: "abort", Desc: wasm.ImportDesc{Kind: wasm.KindFunc, TypeIdx: 1}})
	if ok, err := chisel.NewVerifyImportsWith(preset).Validate(m); !ok || err != nil {
		t.Errorf("AllowUnlisted should accept env.abort: got %v, %v", ok, err)
	}
}

func TestVerifyImports_UnknownPreset(t *testing.T) {
	_, err := chisel.NewVerifyImports("nope")
	if !errors.Is(err, chisel.ErrUnknownPreset) {
		t.Fatalf("got %v, want ErrUnknownPreset", err)
	}
}

func TestCheckStartFunc(t *testing.T) {
	tests := []struct {
		name     string
		start    *uint32
		required bool
		want     bool
		wantErr  bool
	}{
		{name: "absent, not required", want: true},
		{name: "present, not required", start: u32(1), want: false},
		{name: "present, required", start: u32(0), required: true, want: true},
		{name: "absent, required", required: true, want: false},
		{name: "out of range", start: u32(5), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := ewasmContract()
			m.Start = tt.start
			got, err := chisel.NewCheckStartFunc(tt.required).Validate(m)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected validation error")
				}
				return
			}
			if err != nil {
				t.Fatalf("Validate: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}
