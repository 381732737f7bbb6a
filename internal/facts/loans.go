// Package facts turns the per-statement Events a WIR function carries into
// the dense gen/kill bitsets the dataflow passes (liveness, loanlive,
// check) operate over (spec.md §4.3).
package facts

import "wirlang/internal/wir"

// CollectLoans scans f's statements for Ref rvalues, assigns each a dense
// LoanID, and records every loan's owner/kind/origin (spec.md §4.3 step 1,
// §3 invariant "every Ref{place, kind} rvalue generates exactly one loan").
// It also populates each program point's StartLoans, Uses, and Reassigns
// directly from the statement shape (Moves is left empty: lowering only
// ever emits Copy operands, so there is nothing to move until the
// liveness pass proves a last use and rewrites it — see package liveness).
// An explicit Drop counts as a Reassign of its place: it ends the place's
// current contents, killing any loan rooted there and clearing moved_out.
func CollectLoans(f *wir.Func) {
	f.Loans = f.Loans[:0]
	if cap(f.EventsByPoint) < f.NumPoints {
		f.EventsByPoint = make([]wir.Events, f.NumPoints)
	} else {
		f.EventsByPoint = f.EventsByPoint[:f.NumPoints]
		for i := range f.EventsByPoint {
			f.EventsByPoint[i] = wir.Events{}
		}
	}

	nextID := wir.LoanID(0)
	for _, b := range f.Blocks {
		for i := range b.Stmts {
			s := &b.Stmts[i]
			ev := &f.EventsByPoint[s.Point]

			if s.Kind == wir.StmtAssign && s.Assign.Rvalue.Kind == wir.RvRef {
				loan := wir.Loan{
					ID:     nextID,
					Owner:  s.Assign.Rvalue.RefPlace,
					Kind:   s.Assign.Rvalue.RefKind,
					Origin: s.Point,
				}
				nextID++
				f.Loans = append(f.Loans, loan)
				ev.StartLoans = append(ev.StartLoans, loan.ID)
			}

			collectUses(s, ev)
			collectReassigns(s, ev)
		}
	}
}

func collectUses(s *wir.Stmt, ev *wir.Events) {
	add := func(o wir.Operand) {
		if o.IsPlace() && o.Kind == wir.OpCopy {
			ev.Uses = append(ev.Uses, o.Place)
		}
	}
	switch s.Kind {
	case wir.StmtAssign:
		switch s.Assign.Rvalue.Kind {
		case wir.RvUse, wir.RvUnaryOp:
			add(s.Assign.Rvalue.Operand)
		case wir.RvBinaryOp:
			add(s.Assign.Rvalue.Lhs)
			add(s.Assign.Rvalue.Rhs)
		case wir.RvRef:
			// The borrowed place itself is not "used" as a copy/move; it
			// becomes a loan owner, tracked via StartLoans instead.
		}
	case wir.StmtCall:
		for _, a := range s.Call.Args {
			add(a)
		}
	case wir.StmtStore:
		add(s.Store.Value)
	case wir.StmtReturn:
		if s.Return.Value != nil {
			add(*s.Return.Value)
		}
	case wir.StmtCondBranch:
		add(s.CondBranch.Cond)
	}
}

func collectReassigns(s *wir.Stmt, ev *wir.Events) {
	switch s.Kind {
	case wir.StmtAssign:
		ev.Reassigns = append(ev.Reassigns, s.Assign.Place)
	case wir.StmtCall:
		if s.Call.Dest != nil {
			ev.Reassigns = append(ev.Reassigns, s.Call.Dest)
		}
	case wir.StmtDrop:
		// An explicit drop ends the place's contents the same way an
		// overwrite does: any loan rooted there is killed, and the place
		// is no longer moved-out afterward.
		ev.Reassigns = append(ev.Reassigns, s.Drop.Place)
	}
}
