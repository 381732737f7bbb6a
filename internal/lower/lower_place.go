package lower

import (
	"wirlang/internal/place"
	"wirlang/internal/typedast"
)

// isPlaceExpr reports whether e denotes an addressable place rather than
// a freshly computed value (spec.md §4.2: plain assignment of a
// place-producing expression is an implicit shared borrow).
func isPlaceExpr(e *typedast.Expr) bool {
	switch e.Kind {
	case typedast.ExprVarRef, typedast.ExprFieldAccess, typedast.ExprIndex, typedast.ExprDeref:
		return true
	default:
		return false
	}
}

// placeOf resolves a place-producing expression to its WIR place. It must
// only be called when isPlaceExpr(e) is true.
func (l *funcLowerer) placeOf(e *typedast.Expr) *place.Place {
	switch e.Kind {
	case typedast.ExprVarRef:
		return l.resolveSymbol(e, e.VarRef.Symbol)
	case typedast.ExprFieldAccess:
		base := l.placeOrSpill(e.Field.Base)
		return place.Field(base, e.Field.Index, e.Field.Offset, e.Field.Size, e.Type)
	case typedast.ExprIndex:
		base := l.placeOrSpill(e.Index.Base)
		if e.Index.IsConst {
			return place.ConstIndex(base, e.Index.ConstIndex, e.Index.ElemSize, e.Type)
		}
		return place.DynamicIndex(base, e.Index.ElemSize, e.Type)
	case typedast.ExprDeref:
		base := l.placeOrSpill(e.DerefOf)
		return place.Deref(base, e.Type)
	default:
		return nil
	}
}

// placeOrSpill resolves e to a place directly if it is place-like, or
// otherwise lowers it as a value into a fresh temporary local and returns
// that local's place (e.g. `arr[f()]` needs f()'s result materialized
// before it can serve as a projection base).
func (l *funcLowerer) placeOrSpill(e *typedast.Expr) *place.Place {
	if isPlaceExpr(e) {
		return l.placeOf(e)
	}
	v := l.lowerValue(e)
	tmp := l.allocLocal(e.Type)
	l.emit(assignStmt(tmp, useRvalue(v), e.Span))
	return tmp
}

func (l *funcLowerer) resolveSymbol(e *typedast.Expr, sym typedast.SymbolID) *place.Place {
	if pl, ok := l.symToLocal[sym]; ok {
		return pl
	}
	if idx, ok := l.symToGlobal[sym]; ok {
		return place.Global(idx, e.Type)
	}
	l.fail(unresolvedName(e.Span, "<symbol>"))
	return place.Local(0, e.Type) // best-effort placeholder so lowering can continue
}
