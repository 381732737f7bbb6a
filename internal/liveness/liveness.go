// Package liveness runs the backward variable-liveness dataflow of
// spec.md §4.4 and performs the copy→move refinement it exists for:
// rewriting the last use of a place on every path from Copy to Move, so
// downstream WASM emission can elide a copy the checker has proved dead.
package liveness

import (
	"wirlang/internal/bitset"
	"wirlang/internal/place"
	"wirlang/internal/wir"
)

// varSpace assigns a dense id to every distinct place (by structural key)
// that the function's events mention, so liveness can run over a finite
// bitset domain (spec.md §4.4 treats `uses`/`defs` as place sets; places
// are compared by structural identity via place.Equal/Key, not pointer
// identity, so two lowering-time allocations of `data.field` collapse to
// one liveness variable).
type varSpace struct {
	ids   map[string]int
	table []*place.Place
}

func newVarSpace() *varSpace { return &varSpace{ids: make(map[string]int)} }

func (v *varSpace) id(p *place.Place) int {
	k := place.Key(p)
	if id, ok := v.ids[k]; ok {
		return id
	}
	id := len(v.table)
	v.ids[k] = id
	v.table = append(v.table, p)
	return id
}

// Run executes the backward liveness dataflow on f and rewrites the last
// Copy of each place on every path to Move, mutating f's statements and
// EventsByPoint in place. f.Loans/StartLoans must already be populated by
// facts.CollectLoans (Run does not touch loans, only Uses/Moves/Reassigns
// and the Stmt operands that realize them).
func Run(f *wir.Func) {
	n := f.NumPoints
	if n == 0 {
		return
	}
	vs := newVarSpace()
	for p := 0; p < n; p++ {
		ev := &f.EventsByPoint[p]
		for _, pl := range ev.Uses {
			vs.id(pl)
		}
		for _, pl := range ev.Reassigns {
			vs.id(pl)
		}
		for _, pl := range ev.Moves {
			vs.id(pl)
		}
	}
	nv := len(vs.table)

	liveIn := make([]bitset.Set, n)
	liveOut := make([]bitset.Set, n)
	uses := make([]bitset.Set, n)
	defs := make([]bitset.Set, n)
	for p := 0; p < n; p++ {
		liveIn[p] = bitset.New(nv)
		liveOut[p] = bitset.New(nv)
		uses[p] = bitset.New(nv)
		defs[p] = bitset.New(nv)
		ev := &f.EventsByPoint[p]
		for _, pl := range ev.Uses {
			uses[p].Set(vs.id(pl))
		}
		for _, pl := range ev.Reassigns {
			defs[p].Set(vs.id(pl))
		}
		for _, pl := range ev.Moves {
			defs[p].Set(vs.id(pl))
		}
	}

	succs := make([][]wir.ProgramPoint, n)
	preds := make([][]wir.ProgramPoint, n)
	for p := 0; p < n; p++ {
		pp := wir.ProgramPoint(p)
		succs[p] = f.PointSuccessors(pp)
		for _, s := range succs[p] {
			preds[s] = append(preds[s], pp)
		}
	}

	// live_out[p] = U live_in[s]; live_in[p] = uses[p] U (live_out[p] \ defs[p]).
	// Monotone over a finite lattice (set inclusion), so this always
	// terminates (spec.md §4.4).
	changed := true
	for changed {
		changed = false
		for p := n - 1; p >= 0; p-- {
			lo := bitset.New(nv)
			for _, s := range succs[p] {
				bitset.UnionInto(lo, liveIn[int(s)])
			}
			li := lo.Clone()
			bitset.SubtractInto(li, defs[p])
			bitset.UnionInto(li, uses[p])

			if !bitset.Equal(lo, liveOut[p]) {
				liveOut[p] = lo
				changed = true
			}
			if !bitset.Equal(li, liveIn[p]) {
				liveIn[p] = li
				changed = true
			}
		}
	}

	refine(f, vs, liveOut)
}

// refine rewrites Copy(X) operands to Move(X) wherever X is not in
// live_out[p] — X has no use on any path after this point, so this is its
// last use. The latest operand within the statement's evaluation order
// wins the tie-break per spec.md §4.4 ("occurring latest within the
// statement's evaluation order").
func refine(f *wir.Func, vs *varSpace, liveOut []bitset.Set) {
	for _, b := range f.Blocks {
		for i := range b.Stmts {
			s := &b.Stmts[i]
			p := int(s.Point)
			operands := collectOperandSlots(s)
			seenLast := make(map[int]bool, len(operands))
			for j := len(operands) - 1; j >= 0; j-- {
				op := operands[j]
				if op == nil || !op.IsPlace() || op.Kind != wir.OpCopy {
					continue
				}
				id := vs.id(op.Place)
				if seenLast[id] {
					continue // a later occurrence of this place already won the tie-break
				}
				seenLast[id] = true
				if liveOut[p].Has(id) {
					continue
				}
				op.Kind = wir.OpMove
				moveEvent(&f.EventsByPoint[p], op.Place)
			}
		}
	}
}

// collectOperandSlots returns pointers into s's operand fields in textual
// evaluation order, so refine can rewrite them in place.
func collectOperandSlots(s *wir.Stmt) []*wir.Operand {
	switch s.Kind {
	case wir.StmtAssign:
		switch s.Assign.Rvalue.Kind {
		case wir.RvUse, wir.RvUnaryOp:
			return []*wir.Operand{&s.Assign.Rvalue.Operand}
		case wir.RvBinaryOp:
			return []*wir.Operand{&s.Assign.Rvalue.Lhs, &s.Assign.Rvalue.Rhs}
		}
		return nil
	case wir.StmtCall:
		out := make([]*wir.Operand, len(s.Call.Args))
		for i := range s.Call.Args {
			out[i] = &s.Call.Args[i]
		}
		return out
	case wir.StmtStore:
		return []*wir.Operand{&s.Store.Value}
	case wir.StmtReturn:
		if s.Return.Value != nil {
			return []*wir.Operand{s.Return.Value}
		}
		return nil
	case wir.StmtCondBranch:
		return []*wir.Operand{&s.CondBranch.Cond}
	default:
		return nil
	}
}

// moveEvent relocates pl from ev.Uses to ev.Moves (it occurred there
// solely as the operand just rewritten, per spec.md §4.4).
func moveEvent(ev *wir.Events, pl *place.Place) {
	for i, u := range ev.Uses {
		if place.Equal(u, pl) {
			ev.Uses = append(ev.Uses[:i], ev.Uses[i+1:]...)
			break
		}
	}
	ev.Moves = append(ev.Moves, pl)
}
