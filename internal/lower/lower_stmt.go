package lower

import (
	"wirlang/internal/place"
	"wirlang/internal/source"
	"wirlang/internal/typedast"
	"wirlang/internal/wir"
)

func (l *funcLowerer) lowerStmt(s typedast.Stmt) {
	switch s.Kind {
	case typedast.StmtLet:
		l.lowerLet(s)
	case typedast.StmtExpr:
		l.lowerExprStmt(s)
	case typedast.StmtAssign:
		l.lowerAssign(s)
	case typedast.StmtReturn:
		l.lowerReturn(s)
	case typedast.StmtIf:
		l.lowerIf(s)
	case typedast.StmtWhile:
		l.lowerWhile(s)
	case typedast.StmtFor:
		l.lowerFor(s)
	case typedast.StmtBlock:
		l.lowerBlockStmts(s.Block.Stmts)
	case typedast.StmtDrop:
		l.emit(wir.Stmt{Kind: wir.StmtDrop, Span: s.Span, Drop: wir.DropData{Place: l.placeOf(s.Drop.Place)}})
	case typedast.StmtBreak:
		l.lowerBreak(s)
	case typedast.StmtContinue:
		l.lowerContinue(s)
	default:
		l.fail(unsupported(s.Span, s.Kind.String()))
	}
}

// lowerLet declares a local and, if initialized, lowers the binding with
// the same implicit-shared / value-assignment rule as a plain assignment
// (spec.md §4.2): `let a = point.x` is Assign{a, Ref{point.x, Shared}}.
func (l *funcLowerer) lowerLet(s typedast.Stmt) {
	data := s.Let
	t := data.Type
	if data.Value != nil {
		t = data.Value.Type
	}
	pl := l.allocLocal(t)
	l.symToLocal[data.Symbol] = pl
	if data.Value == nil {
		return
	}
	l.emitAssignLike(pl, data.Value, false, s.Span)
}

func (l *funcLowerer) lowerExprStmt(s typedast.Stmt) {
	e := s.ExprStmt.Expr
	if e.Kind == typedast.ExprCall {
		l.emitCall(e, nil)
		return
	}
	l.lowerValue(e)
}

// lowerAssign handles both the plain ("=") and explicit mutable ("~=")
// surface forms via AssignData.Mut (spec.md §4.2).
func (l *funcLowerer) lowerAssign(s typedast.Stmt) {
	data := s.Assign
	if !isPlaceExpr(data.Lhs) {
		l.fail(unsupported(s.Span, "assignment target is not a place"))
		return
	}
	lhs := l.placeOf(data.Lhs)
	l.emitAssignLike(lhs, data.Rhs, data.Mut, s.Span)
}

// emitAssignLike lowers `lhs = rhs` (or `lhs ~= rhs` when mut is true)
// into one Assign statement, choosing Ref vs a value rvalue depending on
// whether rhs denotes a place.
func (l *funcLowerer) emitAssignLike(lhs *place.Place, rhs *typedast.Expr, mut bool, sp source.Span) {
	if isPlaceExpr(rhs) {
		kind := wir.Shared
		if mut {
			kind = wir.Mut
		}
		owner := l.placeOf(rhs)
		l.emit(assignStmt(lhs, wir.Ref(owner, kind), sp))
		return
	}
	if rhs.Kind == typedast.ExprCall {
		l.emitCall(rhs, lhs)
		return
	}
	v := l.lowerValue(rhs)
	l.emit(assignStmt(lhs, wir.Use(v), sp))
}

func (l *funcLowerer) lowerReturn(s typedast.Stmt) {
	if s.Return.Value == nil {
		l.emitTerm(wir.Stmt{Kind: wir.StmtReturn, Span: s.Span})
		return
	}
	v := l.lowerValue(s.Return.Value)
	l.emitTerm(wir.Stmt{Kind: wir.StmtReturn, Span: s.Span, Return: wir.ReturnData{Value: &v}})
}

func (l *funcLowerer) lowerIf(s typedast.Stmt) {
	data := s.If
	cond := l.lowerValue(data.Cond)

	thenBB := l.newBlock()
	elseBB := l.newBlock()
	join := l.newBlock()

	l.emitTerm(wir.Stmt{
		Kind: wir.StmtCondBranch, Span: s.Span,
		CondBranch: wir.CondBranchData{Cond: cond, True: thenBB.ID, False: elseBB.ID},
	})

	l.startBlock(thenBB)
	l.lowerBlockStmts(data.Then)
	l.emitTerm(wir.Stmt{Kind: wir.StmtBranch, Span: s.Span, Branch: wir.BranchData{Target: join.ID}})

	l.startBlock(elseBB)
	l.lowerBlockStmts(data.Else)
	l.emitTerm(wir.Stmt{Kind: wir.StmtBranch, Span: s.Span, Branch: wir.BranchData{Target: join.ID}})

	l.startBlock(join)
}

func (l *funcLowerer) lowerWhile(s typedast.Stmt) {
	data := s.While
	head := l.newBlock()
	body := l.newBlock()
	exit := l.newBlock()

	l.emitTerm(wir.Stmt{Kind: wir.StmtBranch, Span: s.Span, Branch: wir.BranchData{Target: head.ID}})

	l.startBlock(head)
	cond := l.lowerValue(data.Cond)
	l.emitTerm(wir.Stmt{
		Kind: wir.StmtCondBranch, Span: s.Span,
		CondBranch: wir.CondBranchData{Cond: cond, True: body.ID, False: exit.ID},
	})

	l.loopExit = append(l.loopExit, exit.ID)
	l.loopContinue = append(l.loopContinue, head.ID)
	l.startBlock(body)
	l.lowerBlockStmts(data.Body)
	// Loop back-edge so dataflow iterates to fixpoint (spec.md §4.2).
	l.emitTerm(wir.Stmt{Kind: wir.StmtBranch, Span: s.Span, Branch: wir.BranchData{Target: head.ID}})
	l.loopExit = l.loopExit[:len(l.loopExit)-1]
	l.loopContinue = l.loopContinue[:len(l.loopContinue)-1]

	l.startBlock(exit)
}

// lowerFor lowers a classic counting loop: the iteration variable and the
// upper bound are stored in fresh locals, the head block compares them,
// and the body ends by incrementing the iteration variable and branching
// back to the head. A Ref in the body is one static loan that reaches the
// next iteration over the back-edge; reassigning the local that holds the
// reference does not kill it, since kills follow the loan's owner.
func (l *funcLowerer) lowerFor(s typedast.Stmt) {
	data := s.For
	loVal := l.lowerValue(data.Lo)
	hiVal := l.lowerValue(data.Hi)

	iterType := data.Lo.Type
	iterPlace := l.allocLocal(iterType)
	l.symToLocal[data.Var] = iterPlace
	l.emit(assignStmt(iterPlace, wir.Use(loVal), s.Span))
	hiLocal := l.allocLocal(iterType)
	l.emit(assignStmt(hiLocal, wir.Use(hiVal), s.Span))

	head := l.newBlock()
	body := l.newBlock()
	exit := l.newBlock()

	l.emitTerm(wir.Stmt{Kind: wir.StmtBranch, Span: s.Span, Branch: wir.BranchData{Target: head.ID}})

	l.startBlock(head)
	cmpTmp := l.allocLocal(iterType)
	l.emit(assignStmt(cmpTmp, wir.Binary(wir.Lt, wir.Copy(iterPlace), wir.Copy(hiLocal)), s.Span))
	l.emitTerm(wir.Stmt{
		Kind: wir.StmtCondBranch, Span: s.Span,
		CondBranch: wir.CondBranchData{Cond: wir.Copy(cmpTmp), True: body.ID, False: exit.ID},
	})

	l.loopExit = append(l.loopExit, exit.ID)
	l.loopContinue = append(l.loopContinue, head.ID)
	l.startBlock(body)
	l.lowerBlockStmts(data.Body)
	oneVal := wir.Const(wir.IntConst(1, iterType))
	incTmp := l.allocLocal(iterType)
	l.emit(assignStmt(incTmp, wir.Binary(wir.Add, wir.Copy(iterPlace), oneVal), s.Span))
	l.emit(assignStmt(iterPlace, wir.Use(wir.Copy(incTmp)), s.Span))
	l.emitTerm(wir.Stmt{Kind: wir.StmtBranch, Span: s.Span, Branch: wir.BranchData{Target: head.ID}})
	l.loopExit = l.loopExit[:len(l.loopExit)-1]
	l.loopContinue = l.loopContinue[:len(l.loopContinue)-1]

	l.startBlock(exit)
}

func (l *funcLowerer) lowerBreak(s typedast.Stmt) {
	if len(l.loopExit) == 0 {
		l.fail(unsupported(s.Span, "break outside loop"))
		return
	}
	target := l.loopExit[len(l.loopExit)-1]
	l.emitTerm(wir.Stmt{Kind: wir.StmtBranch, Span: s.Span, Branch: wir.BranchData{Target: target}})
}

func (l *funcLowerer) lowerContinue(s typedast.Stmt) {
	if len(l.loopContinue) == 0 {
		l.fail(unsupported(s.Span, "continue outside loop"))
		return
	}
	target := l.loopContinue[len(l.loopContinue)-1]
	l.emitTerm(wir.Stmt{Kind: wir.StmtBranch, Span: s.Span, Branch: wir.BranchData{Target: target}})
}

func (l *funcLowerer) lowerBlockStmts(stmts []typedast.Stmt) {
	for _, s := range stmts {
		if l.curTerminator() != nil {
			break // unreachable code after a terminator (e.g. return inside an if-arm)
		}
		l.lowerStmt(s)
	}
}
