package check

import (
	"context"
	"strings"
	"testing"

	"wirlang/internal/diag"
	"wirlang/internal/place"
	"wirlang/internal/wir"
)

// buildFunc assembles a one-block-per-slice-entry function and assigns
// dense program points, the way lower.Module would after walking a typed
// AST body. Tests build WIR directly so they exercise check.Function
// without needing a typed-AST front end.
func buildFunc(name string, blocks ...*wir.Block) *wir.Func {
	f := &wir.Func{Name: name, Blocks: blocks}
	if len(blocks) > 0 {
		f.Entry = blocks[0].ID
	}
	f.AssignProgramPoints()
	return f
}

func block(id wir.BlockID, stmts ...wir.Stmt) *wir.Block {
	return &wir.Block{ID: id, Stmts: stmts}
}

func assign(pl *place.Place, rv wir.Rvalue) wir.Stmt {
	return wir.Stmt{Kind: wir.StmtAssign, Assign: wir.AssignData{Place: pl, Rvalue: rv}}
}

func ret() wir.Stmt {
	return wir.Stmt{Kind: wir.StmtReturn}
}

func codesOf(items []*diag.Diagnostic) []diag.Code {
	out := make([]diag.Code, len(items))
	for i, d := range items {
		out[i] = d.Code
	}
	return out
}

// Scenario A (spec.md §8): sibling fields accepted.
func TestScenarioA_SiblingFieldsAccepted(t *testing.T) {
	point := place.Local(0, place.I32)
	a := place.Local(1, place.I32)
	b := place.Local(2, place.I32)
	x := place.Field(point, 0, 0, 4, place.I32)
	y := place.Field(point, 1, 4, 4, place.I32)

	f := buildFunc("sibling_fields", block(1,
		assign(a, wir.Ref(x, wir.Shared)),
		assign(b, wir.Ref(y, wir.Shared)),
		ret(),
	))

	bag := Function(context.Background(), f, Options{})
	if bag.Len() != 0 {
		t.Fatalf("expected zero diagnostics, got %v", codesOf(bag.Items()))
	}
}

// Scenario B (spec.md §8): whole/part rejected — a mutable borrow of a
// field conflicts with a live shared borrow of the whole place.
func TestScenarioB_WholePartRejected(t *testing.T) {
	data := place.Local(0, place.I32)
	whole := place.Local(1, place.I32)
	part := place.Local(2, place.I32)
	field := place.Field(data, 0, 0, 4, place.I32)

	f := buildFunc("whole_part", block(1,
		assign(whole, wir.Ref(data, wir.Shared)),
		assign(part, wir.Ref(field, wir.Mut)),
		ret(),
	))

	bag := Function(context.Background(), f, Options{})
	items := bag.Items()
	if len(items) != 1 {
		t.Fatalf("expected exactly one diagnostic, got %v", codesOf(items))
	}
	if items[0].Code != diag.BorrowSharedMutableConflict {
		t.Fatalf("expected BorrowSharedMutableConflict, got %v", items[0].Code)
	}
}

// Scenario C (spec.md §8): move while borrowed rejected — data[0] is
// borrowed shared, then data itself is moved while that loan is live.
func TestScenarioC_MoveWhileBorrowedRejected(t *testing.T) {
	data := place.Local(0, place.I32)
	r := place.Local(1, place.I32)
	moved := place.Local(2, place.I32)
	idx0 := place.ConstIndex(data, 0, 4, place.I32)

	f := buildFunc("move_while_borrowed", block(1,
		assign(r, wir.Ref(idx0, wir.Shared)),
		assign(moved, wir.Use(wir.Copy(data))),
		ret(),
	))

	bag := Function(context.Background(), f, Options{})
	items := bag.Items()
	if len(items) != 1 {
		t.Fatalf("expected exactly one diagnostic, got %v", codesOf(items))
	}
	if items[0].Code != diag.BorrowMoveWhileBorrowed {
		t.Fatalf("expected BorrowMoveWhileBorrowed, got %v", items[0].Code)
	}
}

// Scenario D (spec.md §8): use after move rejected. whole is copied with
// no further use of that exact place, so liveness refines the copy to a
// move; part is read afterward, and MayAlias(whole, part) makes that read
// a use of an already-moved place — the forward moved-places dataflow
// (internal/check/moved_out.go) must flag it.
func TestScenarioD_UseAfterMoveRejected(t *testing.T) {
	whole := place.Local(0, place.I32)
	part := place.Field(whole, 0, 0, 4, place.I32)
	m := place.Local(1, place.I32)
	r := place.Local(2, place.I32)
	s := place.Local(3, place.I32)

	// part is read twice, so liveness keeps its first read a Copy (it is
	// live out to the second read) and only refines the second into a
	// Move; whole has no direct read after stmt0, so its Copy is refined
	// to a Move right away, aliasing the still-pending read of part.
	f := buildFunc("use_after_move", block(1,
		assign(m, wir.Use(wir.Copy(whole))),
		assign(r, wir.Use(wir.Copy(part))),
		assign(s, wir.Use(wir.Copy(part))),
		ret(),
	))

	bag := Function(context.Background(), f, Options{})
	items := bag.Items()
	if len(items) != 1 {
		t.Fatalf("expected exactly one diagnostic, got %v", codesOf(items))
	}
	if items[0].Code != diag.BorrowUseAfterMove {
		t.Fatalf("expected BorrowUseAfterMove, got %v", items[0].Code)
	}
}

// Dropping a place while a shared loan on it is live reports the same
// conflict an overwrite would, worded as "cannot drop" rather than
// "cannot assign to".
func TestDropWhileBorrowedRejected(t *testing.T) {
	data := place.Local(0, place.I32)
	r := place.Local(1, place.I32)

	f := buildFunc("drop_while_borrowed", block(1,
		assign(r, wir.Ref(data, wir.Shared)),
		{Kind: wir.StmtDrop, Drop: wir.DropData{Place: data}},
		ret(),
	))

	bag := Function(context.Background(), f, Options{})
	items := bag.Items()
	if len(items) != 1 {
		t.Fatalf("expected exactly one diagnostic, got %v", codesOf(items))
	}
	if items[0].Code != diag.BorrowReassignWhileBorrowed {
		t.Fatalf("expected BorrowReassignWhileBorrowed, got %v", items[0].Code)
	}
	if got := items[0].Message; !strings.HasPrefix(got, "cannot drop ") {
		t.Fatalf("expected a \"cannot drop\" message, got %q", got)
	}
}

// Dropping a place while a *mutable* borrow of it is live is rejected the
// same as the shared case: writing through the live reference afterward
// would otherwise observe storage that no longer exists.
func TestDropWhileMutBorrowedRejected(t *testing.T) {
	data := place.Local(0, place.I32)
	r := place.Local(1, place.I32)

	f := buildFunc("drop_while_mut_borrowed", block(1,
		assign(r, wir.Ref(data, wir.Mut)),
		{Kind: wir.StmtDrop, Drop: wir.DropData{Place: data}},
		ret(),
	))

	bag := Function(context.Background(), f, Options{})
	items := bag.Items()
	if len(items) != 1 {
		t.Fatalf("expected exactly one diagnostic, got %v", codesOf(items))
	}
	if items[0].Code != diag.BorrowReassignWhileBorrowed {
		t.Fatalf("expected BorrowReassignWhileBorrowed, got %v", items[0].Code)
	}
}

// Scenario E (spec.md §8): multiple shared borrows accepted.
func TestScenarioE_MultipleSharedBorrowsAccepted(t *testing.T) {
	data := place.Local(0, place.I32)
	a := place.Local(1, place.I32)
	b := place.Local(2, place.I32)

	f := buildFunc("multi_shared", block(1,
		assign(a, wir.Ref(data, wir.Shared)),
		assign(b, wir.Ref(data, wir.Shared)),
		ret(),
	))

	bag := Function(context.Background(), f, Options{})
	if bag.Len() != 0 {
		t.Fatalf("expected zero diagnostics, got %v", codesOf(bag.Items()))
	}
}

// Scenario F (spec.md §8): loop with a per-iteration borrow accepted. The
// same static Ref statement re-fires every iteration; because it is the
// same loan id seen again rather than a distinct one, rule 1's self-skip
// (conflict.go: "if old.ID == newLoan.ID { return }") keeps the
// loop-carried live-in from tripping a false conflict against itself.
func TestScenarioF_LoopPerIterationBorrowAccepted(t *testing.T) {
	array := place.Local(0, place.I32)
	i := place.Local(1, place.I32)
	n := place.Local(2, place.I32)
	r := place.Local(3, place.I32)
	elem := place.DynamicIndex(array, 4, place.I32)

	entry := block(1,
		assign(i, wir.Use(wir.Const(wir.IntConst(0, place.I32)))),
		wir.Stmt{Kind: wir.StmtBranch, Branch: wir.BranchData{Target: 2}},
	)
	cond := block(2,
		wir.Stmt{Kind: wir.StmtCondBranch, CondBranch: wir.CondBranchData{
			Cond: wir.Copy(n), True: 3, False: 4,
		}},
	)
	body := block(3,
		assign(r, wir.Ref(elem, wir.Shared)),
		wir.Stmt{Kind: wir.StmtCall, Call: wir.CallData{Name: "use", Args: []wir.Operand{wir.Copy(r)}}},
		assign(i, wir.Binary(wir.Add, wir.Copy(i), wir.Const(wir.IntConst(1, place.I32)))),
		wir.Stmt{Kind: wir.StmtBranch, Branch: wir.BranchData{Target: 2}},
	)
	exit := block(4, ret())

	f := buildFunc("loop_borrow", entry, cond, body, exit)

	bag := Function(context.Background(), f, Options{})
	if bag.Len() != 0 {
		t.Fatalf("expected zero diagnostics, got %v", codesOf(bag.Items()))
	}
}

// Boundary property 9 (spec.md §8): a function with zero loans produces
// an empty borrow-error list.
func TestZeroLoansProducesNoDiagnostics(t *testing.T) {
	a := place.Local(0, place.I32)
	f := buildFunc("no_loans", block(1,
		assign(a, wir.Use(wir.Const(wir.IntConst(42, place.I32)))),
		ret(),
	))

	bag := Function(context.Background(), f, Options{})
	if bag.Len() != 0 {
		t.Fatalf("expected zero diagnostics for a loan-free function, got %v", codesOf(bag.Items()))
	}
}

// Round-trip property 7 (spec.md §8): rerunning the checker on the same
// WIR produces the same diagnostics.
func TestCheckIsIdempotentAcrossReruns(t *testing.T) {
	data := place.Local(0, place.I32)
	whole := place.Local(1, place.I32)
	part := place.Local(2, place.I32)
	field := place.Field(data, 0, 0, 4, place.I32)

	build := func() *wir.Func {
		return buildFunc("whole_part", block(1,
			assign(whole, wir.Ref(data, wir.Shared)),
			assign(part, wir.Ref(field, wir.Mut)),
			ret(),
		))
	}

	first := Function(context.Background(), build(), Options{})
	second := Function(context.Background(), build(), Options{})
	if len(first.Items()) != len(second.Items()) {
		t.Fatalf("rerun produced a different diagnostic count: %d vs %d", len(first.Items()), len(second.Items()))
	}
	for i := range first.Items() {
		if first.Items()[i].Code != second.Items()[i].Code {
			t.Fatalf("rerun diagnostic %d differs: %v vs %v", i, first.Items()[i].Code, second.Items()[i].Code)
		}
	}
}

// Module fans Function out across every function and merges results.
func TestModuleChecksEveryFunction(t *testing.T) {
	data := place.Local(0, place.I32)
	whole := place.Local(1, place.I32)
	part := place.Local(2, place.I32)
	field := place.Field(data, 0, 0, 4, place.I32)

	bad := buildFunc("bad", block(1,
		assign(whole, wir.Ref(data, wir.Shared)),
		assign(part, wir.Ref(field, wir.Mut)),
		ret(),
	))
	a := place.Local(1, place.I32)
	b := place.Local(2, place.I32)
	good := buildFunc("good", block(1,
		assign(a, wir.Ref(data, wir.Shared)),
		assign(b, wir.Ref(data, wir.Shared)),
		ret(),
	))

	m := &wir.Module{Name: "m", Funcs: []*wir.Func{good, bad}}
	bag, err := Module(context.Background(), m, Options{})
	if err != nil {
		t.Fatalf("Module returned error: %v", err)
	}
	if bag.Len() != 1 {
		t.Fatalf("expected exactly one diagnostic across the module, got %v", codesOf(bag.Items()))
	}
}
