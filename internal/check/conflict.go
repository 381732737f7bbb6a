package check

import (
	"fmt"

	"wirlang/internal/diag"
	"wirlang/internal/loanlive"
	"wirlang/internal/place"
	"wirlang/internal/wir"
)

// conflicts runs the four ordered checks of spec.md §4.6 over every
// program point of f, given the loan-liveness result and the moved-out
// dataflow, and appends one Diagnostic per violation to bag. The order
// below is fixed: it is what makes diagnostic ordering deterministic
// within a program point when more than one rule could fire.
func conflicts(f *wir.Func, live *loanlive.Result, mo *movedOut, bag *diag.Bag) {
	for p := 0; p < f.NumPoints; p++ {
		s := f.Stmt(wir.ProgramPoint(p))
		if s == nil {
			continue
		}
		ev := &f.EventsByPoint[p]
		liveIn := live.LiveIn[p]

		// 1. Incompatible borrows: a loan newly started here conflicts
		// with any loan already live on entry, unless both are Shared.
		for _, newID := range ev.StartLoans {
			newLoan := f.Loans[newID]
			liveIn.ForEach(func(i int) {
				old := f.Loans[i]
				if old.ID == newLoan.ID {
					return
				}
				if newLoan.Kind == wir.Shared && old.Kind == wir.Shared {
					return
				}
				if !place.MayAlias(newLoan.Owner, old.Owner) {
					return
				}
				bag.Add(incompatibleBorrowDiag(f, s, newLoan, old))
			})
		}

		// 2. Move while borrowed: a place moved here aliases a loan live
		// on entry.
		for _, mv := range ev.Moves {
			liveIn.ForEach(func(i int) {
				old := f.Loans[i]
				if !place.MayAlias(mv, old.Owner) {
					return
				}
				bag.Add(moveWhileBorrowedDiag(f, s, mv, old))
			})
		}

		// 3. Use after move: a place used here was moved on some path
		// reaching this point and not reassigned since on that path.
		movedIn := mo.movedInAt(p)
		for _, u := range ev.Uses {
			for _, mv := range movedIn {
				if !place.MayAlias(u, mv) {
					continue
				}
				bag.Add(useAfterMoveDiag(f, s, u))
				break
			}
		}

		// 4. Reassignment while borrowed: a place overwritten or dropped
		// here aliases any loan (Shared or Mut) live on entry — writing
		// through the place, or ending its storage, while a reference to
		// it is still expected to be live invalidates that reference
		// either way.
		for _, re := range ev.Reassigns {
			liveIn.ForEach(func(i int) {
				old := f.Loans[i]
				if !place.MayAlias(re, old.Owner) {
					return
				}
				bag.Add(reassignWhileBorrowedDiag(f, s, re, old))
			})
		}
	}
}

func incompatibleBorrowDiag(f *wir.Func, s *wir.Stmt, newLoan, old wir.Loan) *diag.Diagnostic {
	kind := "shared/mutable"
	code := diag.BorrowSharedMutableConflict
	if newLoan.Kind == wir.Mut && old.Kind == wir.Mut {
		kind = "mutable"
		code = diag.BorrowMultipleMutable
	}
	msg := fmt.Sprintf("%s borrow of %s conflicts with an existing borrow of %s",
		kind, wir.PlaceString(newLoan.Owner), wir.PlaceString(old.Owner))
	d := diag.NewError(code, s.Span, msg).WithPlace(wir.PlaceString(newLoan.Owner))
	if origin := f.Stmt(old.Origin); origin != nil {
		d = d.WithNote(origin.Span, fmt.Sprintf("%s borrow started here", old.Kind))
	}
	d = d.WithDefaultSuggestions()
	return &d
}

func moveWhileBorrowedDiag(f *wir.Func, s *wir.Stmt, moved *place.Place, old wir.Loan) *diag.Diagnostic {
	msg := fmt.Sprintf("cannot move %s while it is borrowed", wir.PlaceString(moved))
	d := diag.NewError(diag.BorrowMoveWhileBorrowed, s.Span, msg).WithPlace(wir.PlaceString(moved))
	if origin := f.Stmt(old.Origin); origin != nil {
		d = d.WithNote(origin.Span, fmt.Sprintf("%s borrow started here", old.Kind))
	}
	d = d.WithDefaultSuggestions()
	return &d
}

func useAfterMoveDiag(f *wir.Func, s *wir.Stmt, used *place.Place) *diag.Diagnostic {
	msg := fmt.Sprintf("use of moved value %s", wir.PlaceString(used))
	d := diag.NewError(diag.BorrowUseAfterMove, s.Span, msg).WithPlace(wir.PlaceString(used))
	d = d.WithDefaultSuggestions()
	return &d
}

func reassignWhileBorrowedDiag(f *wir.Func, s *wir.Stmt, re *place.Place, old wir.Loan) *diag.Diagnostic {
	verb := "assign to"
	if s.Kind == wir.StmtDrop {
		verb = "drop"
	}
	msg := fmt.Sprintf("cannot %s %s while it is borrowed", verb, wir.PlaceString(re))
	d := diag.NewError(diag.BorrowReassignWhileBorrowed, s.Span, msg).WithPlace(wir.PlaceString(re))
	if origin := f.Stmt(old.Origin); origin != nil {
		d = d.WithNote(origin.Span, fmt.Sprintf("%s borrow started here", old.Kind))
	}
	d = d.WithDefaultSuggestions()
	return &d
}
