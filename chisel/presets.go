package chisel

import "github.com/wippyai/chisel/wasm"

var (
	i32 = wasm.ValI32
	i64 = wasm.ValI64
)

func sig(params []wasm.ValType, results ...wasm.ValType) wasm.FuncType {
	return wasm.FuncType{Params: params, Results: results}
}

func params(vs ...wasm.ValType) []wasm.ValType { return vs }

var exportPresets = map[string]ExportPreset{
	"ewasm": {
		Exports: []ExportSpec{
			{Name: "main", Kind: wasm.KindFunc, Sig: sig(nil)},
			{Name: "memory", Kind: wasm.KindMemory},
		},
	},
	"pwasm": {
		Exports: []ExportSpec{
			{Name: "call", Kind: wasm.KindFunc, Sig: sig(nil)},
			{Name: "deploy", Kind: wasm.KindFunc, Sig: sig(nil)},
		},
		AllowUnlisted: true,
	},
}

// Ethereum Environment Interface
var eei = []ImportSpec{
	{Module: "ethereum", Name: "useGas", Sig: sig(params(i64))},
	{Module: "ethereum", Name: "getGasLeft", Sig: sig(nil, i64)},
	{Module: "ethereum", Name: "getAddress", Sig: sig(params(i32))},
	{Module: "ethereum", Name: "getExternalBalance", Sig: sig(params(i32, i32))},
	{Module: "ethereum", Name: "getBlockHash", Sig: sig(params(i64, i32), i32)},
	{Module: "ethereum", Name: "call", Sig: sig(params(i64, i32, i32, i32, i32), i32)},
	{Module: "ethereum", Name: "callCode", Sig: sig(params(i64, i32, i32, i32, i32), i32)},
	{Module: "ethereum", Name: "callDelegate", Sig: sig(params(i64, i32, i32, i32), i32)},
	{Module: "ethereum", Name: "callStatic", Sig: sig(params(i64, i32, i32, i32), i32)},
	{Module: "ethereum", Name: "callDataCopy", Sig: sig(params(i32, i32, i32))},
	{Module: "ethereum", Name: "getCallDataSize", Sig: sig(nil, i32)},
	{Module: "ethereum", Name: "create", Sig: sig(params(i32, i32, i32, i32), i32)},
	{Module: "ethereum", Name: "getCaller", Sig: sig(params(i32))},
	{Module: "ethereum", Name: "getCallValue", Sig: sig(params(i32))},
	{Module: "ethereum", Name: "codeCopy", Sig: sig(params(i32, i32, i32))},
	{Module: "ethereum", Name: "getCodeSize", Sig: sig(nil, i32)},
	{Module: "ethereum", Name: "getBlockCoinbase", Sig: sig(params(i32))},
	{Module: "ethereum", Name: "getBlockDifficulty", Sig: sig(params(i32))},
	{Module: "ethereum", Name: "externalCodeCopy", Sig: sig(params(i32, i32, i32, i32))},
	{Module: "ethereum", Name: "getExternalCodeSize", Sig: sig(params(i32), i32)},
	{Module: "ethereum", Name: "getBlockGasLimit", Sig: sig(nil, i64)},
	{Module: "ethereum", Name: "getTxGasPrice", Sig: sig(params(i32))},
	{Module: "ethereum", Name: "log", Sig: sig(params(i32, i32, i32, i32, i32, i32, i32))},
	{Module: "ethereum", Name: "getBlockNumber", Sig: sig(nil, i64)},
	{Module: "ethereum", Name: "getTxOrigin", Sig: sig(params(i32))},
	{Module: "ethereum", Name: "finish", Sig: sig(params(i32, i32))},
	{Module: "ethereum", Name: "revert", Sig: sig(params(i32, i32))},
	{Module: "ethereum", Name: "getReturnDataSize", Sig: sig(nil, i32)},
	{Module: "ethereum", Name: "returnDataCopy", Sig: sig(params(i32, i32, i32))},
	{Module: "ethereum", Name: "selfDestruct", Sig: sig(params(i32))},
	{Module: "ethereum", Name: "getBlockTimestamp", Sig: sig(nil, i64)},
	{Module: "ethereum", Name: "storageStore", Sig: sig(params(i32, i32))},
	{Module: "ethereum", Name: "storageLoad", Sig: sig(params(i32, i32))},
}

var debugImports = []ImportSpec{
	{Module: "debug", Name: "print32", Sig: sig(params(i32))},
	{Module: "debug", Name: "print64", Sig: sig(params(i64))},
	{Module: "debug", Name: "printMem", Sig: sig(params(i32, i32))},
	{Module: "debug", Name: "printMemHex", Sig: sig(params(i32, i32))},
	{Module: "debug", Name: "printStorage", Sig: sig(params(i32))},
	{Module: "debug", Name: "printStorageHex", Sig: sig(params(i32))},
}

var importPresets = map[string]ImportPreset{
	"ewasm": {Imports: eei},
	"ewasm-debug": {
		Imports: append(append([]ImportSpec{}, eei...), debugImports...),
	},
}
