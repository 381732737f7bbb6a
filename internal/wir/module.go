package wir

import "wirlang/internal/place"

// GlobalDecl describes one module-level global (spec.md §3 Global places).
type GlobalDecl struct {
	Index   place.GlobalIndex
	Name    string
	Type    place.WasmType
	Mutable bool
}

// Module is the top-level unit check_module operates over (spec.md §6):
// a set of functions sharing a global namespace. Functions are otherwise
// independent — no cross-function mutable analysis state (spec.md §5).
type Module struct {
	Name    string
	Funcs   []*Func
	Globals []GlobalDecl
}

// FuncByName looks up a function by name, or returns nil.
func (m *Module) FuncByName(name string) *Func {
	for _, f := range m.Funcs {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// FuncByID looks up a function by id, or returns nil.
func (m *Module) FuncByID(id FuncID) *Func {
	for _, f := range m.Funcs {
		if f.ID == id {
			return f
		}
	}
	return nil
}
