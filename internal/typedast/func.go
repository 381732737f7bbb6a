package typedast

import (
	"wirlang/internal/place"
	"wirlang/internal/source"
	"wirlang/internal/wir"
)

// Param is a typed function parameter with its declared calling mode
// (spec.md §4.2 "Call conventions").
type Param struct {
	Name   string
	Symbol SymbolID
	Type   place.WasmType
	Mode   wir.ParamMode
}

// Func is one typed-AST function, lowering's per-function input.
type Func struct {
	Name    string
	Params  []Param
	Results []place.WasmType
	Body    []Stmt
	Span    source.Span
}

// Module is lowering's whole-program input: a flat list of functions and
// a resolved global table. Symbol resolution and type inference have
// already run; the only names lowering looks up are call targets, by
// function name.
type Module struct {
	Name    string
	Funcs   []*Func
	Globals []GlobalDecl
}

// GlobalDecl mirrors wir.GlobalDecl at the typed-AST level.
type GlobalDecl struct {
	Symbol  SymbolID
	Name    string
	Type    place.WasmType
	Mutable bool
}
