// Package wasm decodes the parts of a WebAssembly core module that chisel
// inspects.
//
// The decoder reads the binary header and walks every section, enforcing
// canonical section order and framing. Sections that carry signatures and
// module surface are decoded into fields:
//
//	module.Types     []FuncType    // Function signatures
//	module.Imports   []Import      // Imported definitions
//	module.Funcs     []uint32      // Type indices for declared functions
//	module.Memories  []MemoryType  // Memory definitions
//	module.Exports   []Export      // Exported definitions
//	module.Start     *uint32       // Start function index, nil when absent
//
// Table, global, element, code, data, data count and tag sections are kept
// raw in module.Sections. Function bodies are not validated; use a full
// engine compile for that.
//
// # Parsing
//
//	data, _ := os.ReadFile("module.wasm")
//	module, err := wasm.ParseModule(data)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// # Signatures
//
// The function index space covers imported functions first:
//
//	sig, err := module.FuncTypeOf(exp.Idx)
//
// # Encoding
//
// Encode writes a module back to binary. Decoding the result yields an
// equivalent module:
//
//	roundtrip, _ := wasm.ParseModule(module.Encode())
package wasm
