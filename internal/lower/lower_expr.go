package lower

import (
	"wirlang/internal/place"
	"wirlang/internal/source"
	"wirlang/internal/typedast"
	"wirlang/internal/wir"
)

func assignStmt(lhs *place.Place, rv wir.Rvalue, sp source.Span) wir.Stmt {
	return wir.Stmt{Kind: wir.StmtAssign, Span: sp, Assign: wir.AssignData{Place: lhs, Rvalue: rv}}
}

func useRvalue(o wir.Operand) wir.Rvalue { return wir.Use(o) }

// operandOf builds the operand for one use of a place-producing
// expression. Per spec.md §4.2 ("Compiler-decided move") every use
// lowers to Copy; the liveness pass (package liveness) later rewrites
// the last use on any path to Move. Lowering never emits Move directly.
func (l *funcLowerer) operandOf(e *typedast.Expr) wir.Operand {
	if isPlaceExpr(e) {
		return wir.Copy(l.placeOf(e))
	}
	return l.lowerValue(e)
}

// lowerValue lowers e as a value-producing expression to an operand,
// spilling through a fresh temporary when e is not already one of the
// operand-shaped forms (literal or place use).
func (l *funcLowerer) lowerValue(e *typedast.Expr) wir.Operand {
	switch e.Kind {
	case typedast.ExprLiteral:
		if e.Type == place.F32 || e.Type == place.F64 {
			return wir.Const(wir.FloatConst(e.Literal.F64, e.Type))
		}
		return wir.Const(wir.IntConst(e.Literal.I64, e.Type))
	case typedast.ExprVarRef, typedast.ExprFieldAccess, typedast.ExprIndex, typedast.ExprDeref:
		return l.operandOf(e)
	case typedast.ExprUnaryOp:
		return l.lowerUnary(e)
	case typedast.ExprBinaryOp:
		return l.lowerBinary(e)
	case typedast.ExprCall:
		return l.lowerCallValue(e)
	default:
		l.fail(unsupported(e.Span, e.Kind.String()))
		return wir.Const(wir.IntConst(0, place.TypeUnknown))
	}
}

func (l *funcLowerer) lowerUnary(e *typedast.Expr) wir.Operand {
	switch e.Unary.Op {
	case typedast.Addr, typedast.AddrMut:
		return l.lowerRefValue(e)
	default:
		operand := l.lowerValue(e.Unary.Operand)
		tmp := l.allocLocal(e.Type)
		op := wir.Not
		if e.Unary.Op == typedast.Neg {
			op = wir.Neg
		}
		l.emit(assignStmt(tmp, wir.Unary(op, operand), e.Span))
		return wir.Copy(tmp)
	}
}

// lowerRefValue lowers `&expr`/`&mut expr` to a Ref rvalue assigned into a
// fresh temporary, generating exactly one loan at this program point
// (spec.md §3 invariant: "Every Ref{place, kind} rvalue generates exactly
// one loan whose origin equals the program point of the enclosing
// statement").
func (l *funcLowerer) lowerRefValue(e *typedast.Expr) wir.Operand {
	inner := e.Unary.Operand
	if !isPlaceExpr(inner) {
		l.fail(unsupported(e.Span, "borrow of non-place expression"))
		return wir.Const(wir.IntConst(0, place.TypeUnknown))
	}
	kind := wir.Shared
	if e.Unary.Op == typedast.AddrMut {
		kind = wir.Mut
	}
	owner := l.placeOf(inner)
	tmp := l.allocLocal(e.Type)
	l.emit(assignStmt(tmp, wir.Ref(owner, kind), e.Span))
	return wir.Copy(tmp)
}

func (l *funcLowerer) lowerBinary(e *typedast.Expr) wir.Operand {
	lhs := l.lowerValue(e.Binary.Lhs)
	rhs := l.lowerValue(e.Binary.Rhs)
	tmp := l.allocLocal(e.Type)
	l.emit(assignStmt(tmp, wir.Binary(binOp(e.Binary.Op), lhs, rhs), e.Span))
	return wir.Copy(tmp)
}

func (l *funcLowerer) lowerCallValue(e *typedast.Expr) wir.Operand {
	dest := l.allocLocal(e.Type)
	l.emitCall(e, dest)
	return wir.Copy(dest)
}

func (l *funcLowerer) emitCall(e *typedast.Expr, dest *place.Place) {
	args := make([]wir.Operand, len(e.Call.Args))
	for i, a := range e.Call.Args {
		args[i] = l.lowerValue(a)
	}
	l.emit(wir.Stmt{
		Kind: wir.StmtCall,
		Span: e.Span,
		Call: wir.CallData{Func: l.funcByName[e.Call.Name], Name: e.Call.Name, Args: args, Dest: dest},
	})
}

func binOp(op typedast.BinOp) wir.BinOp {
	// typedast.BinOp and wir.BinOp share identical ordinal layout by
	// construction (see typedast.BinOp doc); this is a straight cast.
	return wir.BinOp(op)
}
