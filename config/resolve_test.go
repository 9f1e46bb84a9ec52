package config_test

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/wippyai/chisel/config"
	"github.com/wippyai/chisel/errors"
)

func resolveText(t *testing.T, text string) (*config.ChiselContext, error) {
	t.Helper()
	doc, err := config.Parse([]byte(text))
	if err != nil {
		return nil, err
	}
	return config.Resolve(doc)
}

func TestResolve_Valid(t *testing.T) {
	tests := []struct {
		name string
		text string
		want *config.ChiselContext
	}{
		{
			name: "file only",
			text: "suite:\n  file: a.wasm\n",
			want: &config.ChiselContext{Ruleset: "suite", File: "a.wasm"},
		},
		{
			name: "modules keep document order",
			text: `
suite:
  verifyimports: {}
  file: "a.wasm"
  checkstartfunc: {}
  verifyexports:
    preset: pwasm
`,
			want: &config.ChiselContext{
				Ruleset: "suite",
				File:    "a.wasm",
				Modules: []config.ModuleConfig{
					{Name: "verifyimports"},
					{Name: "checkstartfunc"},
					config.WithPreset("verifyexports", "pwasm"),
				},
			},
		},
		{
			name: "empty preset is not absent",
			text: "suite:\n  file: a.wasm\n  verifyexports:\n    preset: \"\"\n",
			want: &config.ChiselContext{
				Ruleset: "suite",
				File:    "a.wasm",
				Modules: []config.ModuleConfig{config.WithPreset("verifyexports", "")},
			},
		},
		{
			name: "unknown module name is accepted",
			text: "suite:\n  file: a.wasm\n  unknowncheck: {}\n",
			want: &config.ChiselContext{
				Ruleset: "suite",
				File:    "a.wasm",
				Modules: []config.ModuleConfig{{Name: "unknowncheck"}},
			},
		},
		{
			name: "other flags are ignored",
			text: "suite:\n  file: a.wasm\n  verifyexports:\n    strict: true\n",
			want: &config.ChiselContext{
				Ruleset: "suite",
				File:    "a.wasm",
				Modules: []config.ModuleConfig{{Name: "verifyexports"}},
			},
		},
		{
			name: "first ruleset wins",
			text: `
first:
  file: a.wasm
  verifyexports: {}
second:
  file: b.wasm
  checkstartfunc: {}
`,
			want: &config.ChiselContext{
				Ruleset: "first",
				File:    "a.wasm",
				Modules: []config.ModuleConfig{{Name: "verifyexports"}},
			},
		},
		{
			name: "non ruleset entries are skipped",
			text: `
version: 2
list: [a, b]
7: {file: x.wasm}
suite:
  file: a.wasm
`,
			want: &config.ChiselContext{Ruleset: "suite", File: "a.wasm"},
		},
		{
			name: "broken later ruleset is never inspected",
			text: `
suite:
  file: a.wasm
broken:
  verifyexports: 3
`,
			want: &config.ChiselContext{Ruleset: "suite", File: "a.wasm"},
		},
		{
			name: "quoted number is a string",
			text: "suite:\n  file: \"123\"\n",
			want: &config.ChiselContext{Ruleset: "suite", File: "123"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolveText(t, tt.text)
			if err != nil {
				t.Fatalf("Resolve: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestResolve_AliasedFlags(t *testing.T) {
	got, err := resolveText(t, `
suite:
  file: a.wasm
  verifyexports: &flags
    preset: pwasm
  verifyimports: *flags
`)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	want := []config.ModuleConfig{
		config.WithPreset("verifyexports", "pwasm"),
		config.WithPreset("verifyimports", "pwasm"),
	}
	if !reflect.DeepEqual(got.Modules, want) {
		t.Errorf("Modules = %+v, want %+v", got.Modules, want)
	}
}

func TestResolve_AnchoredMappingIsARuleset(t *testing.T) {
	// a top-level anchor holding flags is itself ruleset shaped and comes first
	_, err := resolveText(t, `
defaults: &flags
  preset: ewasm
suite:
  file: a.wasm
  verifyexports: *flags
`)
	if !errors.Is(err, errors.KindConfigMissingFile) {
		t.Fatalf("got %v, want ConfigMissingFile", err)
	}
}

func TestResolve_Errors(t *testing.T) {
	tests := []struct {
		name string
		text string
		kind errors.Kind
	}{
		{"empty document", "", errors.KindConfigInvalid},
		{"scalar document", "hello", errors.KindConfigInvalid},
		{"sequence document", "- a\n- b\n", errors.KindConfigInvalid},
		{"no ruleset shaped entry", "suite: a.wasm\nother: [1]\n", errors.KindConfigInvalid},
		{"missing file", "suite:\n  unexpectedfield: {}\n", errors.KindConfigMissingFile},
		{"file is a number", "suite:\n  file: 12\n", errors.KindFileTypeMismatch},
		{"file is null", "suite:\n  file:\n", errors.KindFileTypeMismatch},
		{"file is a mapping", "suite:\n  file: {path: a.wasm}\n", errors.KindFileTypeMismatch},
		{"module is a scalar", "suite:\n  file: a.wasm\n  verifyexports: yes\n", errors.KindModuleTypeMismatch},
		{"module has no flags", "suite:\n  file: a.wasm\n  verifyexports:\n", errors.KindModuleTypeMismatch},
		{"module key is not a string", "suite:\n  file: a.wasm\n  42: {}\n", errors.KindModuleTypeMismatch},
		{"preset is a number", "suite:\n  file: a.wasm\n  verifyexports:\n    preset: 1\n", errors.KindPresetTypeMismatch},
		{"preset is a list", "suite:\n  file: a.wasm\n  verifyexports:\n    preset: [ewasm]\n", errors.KindPresetTypeMismatch},
		{"bad yaml", "suite: [\n", errors.KindConfigParseFailed},
		{"duplicate module", "suite:\n  file: a.wasm\n  verifyexports: {}\n  verifyexports: {}\n", errors.KindConfigParseFailed},
		{"duplicate file", "suite:\n  file: a.wasm\n  file: b.wasm\n", errors.KindConfigParseFailed},
		{"duplicate preset", "suite:\n  file: a.wasm\n  verifyexports:\n    preset: ewasm\n    preset: pwasm\n", errors.KindConfigParseFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := resolveText(t, tt.text)
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, tt.kind) {
				t.Errorf("got %v, want kind %v", err, tt.kind)
			}
		})
	}
}

func TestResolve_ErrorPath(t *testing.T) {
	_, err := resolveText(t, "suite:\n  file: a.wasm\n  verifyexports:\n    preset: 1\n")
	var e *errors.Error
	if !errors.As(err, &e) {
		t.Fatalf("expected *errors.Error, got %T", err)
	}
	want := []string{"suite", "verifyexports", "preset"}
	if !reflect.DeepEqual(e.Path, want) {
		t.Errorf("Path = %v, want %v", e.Path, want)
	}
	if e.Phase != errors.PhaseResolve {
		t.Errorf("Phase = %v", e.Phase)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "chisel.yml")
	if err := os.WriteFile(path, []byte("suite:\n  file: a.wasm\n  verifyexports: {}\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	ctx, err := config.LoadContext(path)
	if err != nil {
		t.Fatalf("LoadContext: %v", err)
	}
	if ctx.File != "a.wasm" || len(ctx.Modules) != 1 {
		t.Errorf("unexpected context %+v", ctx)
	}
}

func TestLoad_Missing(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "nope.yml"))
	if !errors.Is(err, errors.KindConfigOpenFailed) {
		t.Fatalf("got %v, want ConfigOpenFailed", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Error("cause should be os.ErrNotExist")
	}
}

func TestResolve_LaterRulesetsNotChecked(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"duplicate file", "first:\n  file: a.wasm\nsecond:\n  file: b.wasm\n  file: c.wasm\n"},
		{"duplicate module", "first:\n  file: a.wasm\nsecond:\n  x: {}\n  x: {}\n"},
		{"duplicate top-level key", "first:\n  file: a.wasm\nother: 1\nother: 2\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, err := resolveText(t, tt.text)
			if err != nil {
				t.Fatalf("Resolve: %v", err)
			}
			if ctx.Ruleset != "first" || ctx.File != "a.wasm" {
				t.Errorf("got %+v, want first ruleset", ctx)
			}
		})
	}
}

func TestResolve_Deterministic(t *testing.T) {
	text := "a:\n  file: a.wasm\n  x: {}\nb:\n  file: b.wasm\n"
	first, err := resolveText(t, text)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 5; i++ {
		again, err := resolveText(t, text)
		if err != nil {
			t.Fatal(err)
		}
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("run %d differs: %+v vs %+v", i, again, first)
		}
	}
}
