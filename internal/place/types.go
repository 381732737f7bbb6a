// Package place implements the WIR place model (spec.md §3, §4.1): the
// four-variant description of an addressable memory location, and the
// may_alias query used by every downstream dataflow pass.
package place

// WasmType is the WASM value type tag carried by a place's leaf.
type WasmType uint8

const (
	// TypeUnknown marks a place whose value type has not been resolved.
	TypeUnknown WasmType = iota
	I32
	I64
	F32
	F64
)

func (t WasmType) String() string {
	switch t {
	case I32:
		return "i32"
	case I64:
		return "i64"
	case F32:
		return "f32"
	case F64:
		return "f64"
	default:
		return "?"
	}
}

// LocalIndex identifies a function-scoped local slot.
type LocalIndex uint32

// GlobalIndex identifies a module-scoped global slot.
type GlobalIndex uint32

// Kind discriminates the four Place variants.
type Kind uint8

const (
	KindLocal Kind = iota
	KindGlobal
	KindMemory
	KindProjection
)

func (k Kind) String() string {
	switch k {
	case KindLocal:
		return "Local"
	case KindGlobal:
		return "Global"
	case KindMemory:
		return "Memory"
	case KindProjection:
		return "Projection"
	default:
		return "?"
	}
}

// ProjKind discriminates the projection element shapes named in spec.md §3:
// Field, (constant) Index, UnknownIndex, and Deref.
type ProjKind uint8

const (
	ProjField ProjKind = iota
	ProjIndex
	ProjUnknownIndex
	ProjDeref
)

func (k ProjKind) String() string {
	switch k {
	case ProjField:
		return "Field"
	case ProjIndex:
		return "Index"
	case ProjUnknownIndex:
		return "UnknownIndex"
	case ProjDeref:
		return "Deref"
	default:
		return "?"
	}
}

// Proj is one projection step applied to a base place.
type Proj struct {
	Kind ProjKind

	// Field
	FieldIndex  uint32
	FieldOffset uint32
	FieldSize   uint32

	// Index (ProjIndex only carries a resolved compile-time constant;
	// a non-constant index is represented as ProjUnknownIndex instead —
	// see may_alias rule 5, which treats any non-constant index
	// conservatively regardless of how it's spelled upstream).
	ConstIndex int64
	ElemSize   uint32

	// Type is the WASM value type yielded by this projection step, i.e.
	// the type of the field/element/pointee, computed during lowering.
	Type WasmType
}

// Place is the four-variant memory-location descriptor of spec.md §3.
// Places form a tree via Base for the Projection variant; the tree has no
// cycles (built bottom-up during lowering) so recursive walks terminate.
type Place struct {
	Kind Kind

	// Local
	Local     LocalIndex
	LocalType WasmType

	// Global
	Global     GlobalIndex
	GlobalType WasmType

	// Memory
	MemBase   uint32
	MemOffset uint32
	MemSize   uint32
	MemType   WasmType

	// Projection
	Base *Place
	Elem Proj
}

// Local builds a Place denoting a function-scoped local slot.
func Local(idx LocalIndex, t WasmType) *Place {
	return &Place{Kind: KindLocal, Local: idx, LocalType: t}
}

// Global builds a Place denoting a module-scoped global slot.
func Global(idx GlobalIndex, t WasmType) *Place {
	return &Place{Kind: KindGlobal, Global: idx, GlobalType: t}
}

// Memory builds a Place denoting a linear-memory region.
func Memory(base, offset, size uint32, t WasmType) *Place {
	return &Place{Kind: KindMemory, MemBase: base, MemOffset: offset, MemSize: size, MemType: t}
}

// Field builds a Place projecting a struct field out of base.
func Field(base *Place, index, offset, size uint32, t WasmType) *Place {
	return &Place{Kind: KindProjection, Base: base, Elem: Proj{
		Kind: ProjField, FieldIndex: index, FieldOffset: offset, FieldSize: size, Type: t,
	}}
}

// ConstIndex builds a Place projecting a constant array/slice index out of base.
func ConstIndex(base *Place, idx int64, elemSize uint32, t WasmType) *Place {
	return &Place{Kind: KindProjection, Base: base, Elem: Proj{
		Kind: ProjIndex, ConstIndex: idx, ElemSize: elemSize, Type: t,
	}}
}

// DynamicIndex builds a Place projecting a runtime-computed array/slice index.
func DynamicIndex(base *Place, elemSize uint32, t WasmType) *Place {
	return &Place{Kind: KindProjection, Base: base, Elem: Proj{
		Kind: ProjUnknownIndex, ElemSize: elemSize, Type: t,
	}}
}

// Deref builds a Place dereferencing a pointer/reference-valued base.
func Deref(base *Place, t WasmType) *Place {
	return &Place{Kind: KindProjection, Base: base, Elem: Proj{Kind: ProjDeref, Type: t}}
}

// Type returns the place's WASM value type, computed structurally from its
// leaf (spec.md §3: "A place's WASM value type is computed structurally
// from its leaf").
func (p *Place) Type() WasmType {
	if p == nil {
		return TypeUnknown
	}
	switch p.Kind {
	case KindLocal:
		return p.LocalType
	case KindGlobal:
		return p.GlobalType
	case KindMemory:
		return p.MemType
	case KindProjection:
		return p.Elem.Type
	default:
		return TypeUnknown
	}
}

// IsValid reports whether p denotes a real place (nil is used as the
// sentinel absence, matching the rest of the corpus's zero-id convention).
func (p *Place) IsValid() bool { return p != nil }
