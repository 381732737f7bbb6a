// Package lower translates a typed AST (package typedast) into WIR
// (package wir), per spec.md §4.2. Lowering is deterministic: the same
// typed AST always produces the same WIR and the same lowering errors.
package lower

import (
	"wirlang/internal/place"
	"wirlang/internal/typedast"
	"wirlang/internal/wir"
)

// Module lowers an entire typed-AST module to WIR, collecting lowering
// errors per function without short-circuiting on the first failing
// function (spec.md §7: "Lowering collects all lowering errors per
// function and returns them alongside a best-effort WIR").
func Module(m *typedast.Module) (*wir.Module, []*Error) {
	out := &wir.Module{Name: m.Name}
	var errs []*Error

	symToGlobal := make(map[typedast.SymbolID]place.GlobalIndex, len(m.Globals))
	for i, g := range m.Globals {
		idx := place.GlobalIndex(i)
		symToGlobal[g.Symbol] = idx
		out.Globals = append(out.Globals, wir.GlobalDecl{
			Index: idx, Name: g.Name, Type: g.Type, Mutable: g.Mutable,
		})
	}

	// Functions may call each other in any order, so ids are assigned up
	// front and every call site resolves against this table regardless of
	// declaration order.
	byName := make(map[string]wir.FuncID, len(m.Funcs))
	for i, tf := range m.Funcs {
		byName[tf.Name] = wir.FuncID(i + 1)
	}

	for i, tf := range m.Funcs {
		fl := newFuncLowerer(wir.FuncID(i+1), symToGlobal, byName)
		f, ferrs := fl.lowerFunc(tf)
		out.Funcs = append(out.Funcs, f)
		errs = append(errs, ferrs...)
	}
	return out, errs
}

// funcLowerer holds the mutable state for lowering one function: the
// output Func under construction, the current block, and the place
// allocator bindings.
type funcLowerer struct {
	f  *wir.Func
	cur *wir.Block

	symToLocal  map[typedast.SymbolID]*place.Place
	symToGlobal map[typedast.SymbolID]place.GlobalIndex
	funcByName  map[string]wir.FuncID
	nextLocal   place.LocalIndex

	// loopExit/loopContinue stacks let lowerFor/lowerWhile resolve
	// break/continue inside nested bodies.
	loopExit     []wir.BlockID
	loopContinue []wir.BlockID

	errs []*Error
}

func newFuncLowerer(id wir.FuncID, symToGlobal map[typedast.SymbolID]place.GlobalIndex, funcByName map[string]wir.FuncID) *funcLowerer {
	return &funcLowerer{
		f:           &wir.Func{ID: id},
		symToLocal:  make(map[typedast.SymbolID]*place.Place),
		symToGlobal: symToGlobal,
		funcByName:  funcByName,
	}
}

func (l *funcLowerer) lowerFunc(tf *typedast.Func) (*wir.Func, []*Error) {
	l.f.Name = tf.Name
	l.f.Result = tf.Results

	for _, p := range tf.Params {
		pl := l.allocLocal(p.Type)
		l.symToLocal[p.Symbol] = pl
		l.f.Params = append(l.f.Params, wir.Param{Name: p.Name, Place: pl, Mode: p.Mode})
		l.f.Sig.Params = append(l.f.Sig.Params, p.Mode)
	}
	l.f.Sig.Returns = tf.Results

	entry := l.newBlock()
	l.f.Entry = entry.ID
	l.startBlock(entry)

	for _, s := range tf.Body {
		l.lowerStmt(s)
	}
	if l.curTerminator() == nil {
		l.emitTerm(wir.Stmt{Kind: wir.StmtReturn, Span: tf.Span})
	}

	l.f.NumLocals = int(l.nextLocal)
	l.f.AssignProgramPoints()
	return l.f, l.errs
}

func (l *funcLowerer) allocLocal(t place.WasmType) *place.Place {
	idx := l.nextLocal
	l.nextLocal++
	return place.Local(idx, t)
}

func (l *funcLowerer) newBlock() *wir.Block {
	b := &wir.Block{ID: wir.BlockID(len(l.f.Blocks) + 1)}
	l.f.Blocks = append(l.f.Blocks, b)
	return b
}

func (l *funcLowerer) startBlock(b *wir.Block) { l.cur = b }

func (l *funcLowerer) curTerminator() *wir.Stmt { return l.cur.Terminator() }

func (l *funcLowerer) emit(s wir.Stmt) {
	l.cur.Stmts = append(l.cur.Stmts, s)
}

func (l *funcLowerer) emitTerm(s wir.Stmt) {
	if l.curTerminator() != nil {
		return // block already terminated (e.g. by a return inside both if-arms)
	}
	l.emit(s)
}

func (l *funcLowerer) fail(e *Error) { l.errs = append(l.errs, e) }
