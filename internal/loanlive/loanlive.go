// Package loanlive runs the forward loan-liveness dataflow of spec.md
// §4.5: which loans are live on entry/exit of each program point.
package loanlive

import (
	"wirlang/internal/bitset"
	"wirlang/internal/facts"
	"wirlang/internal/wir"
)

// Result holds live_in/live_out per program point, over the loan-id
// bitset domain built by facts.BuildLoanSets.
type Result struct {
	NumLoans int
	LiveIn   []bitset.Set
	LiveOut  []bitset.Set
}

// Run computes loan liveness for f given its gen/kill sets. The entry
// block's live_in is empty (spec.md §4.5); iteration proceeds to
// fixpoint, which is guaranteed by monotonicity over the finite loan-id
// lattice.
func Run(f *wir.Func, sets *facts.LoanSets) *Result {
	n := f.NumPoints
	res := &Result{
		NumLoans: sets.NumLoans,
		LiveIn:   make([]bitset.Set, n),
		LiveOut:  make([]bitset.Set, n),
	}
	for p := 0; p < n; p++ {
		res.LiveIn[p] = bitset.New(sets.NumLoans)
		res.LiveOut[p] = bitset.New(sets.NumLoans)
	}
	if n == 0 {
		return res
	}

	preds := make([][]wir.ProgramPoint, n)
	for p := 0; p < n; p++ {
		for _, s := range f.PointSuccessors(wir.ProgramPoint(p)) {
			preds[int(s)] = append(preds[int(s)], wir.ProgramPoint(p))
		}
	}

	changed := true
	for changed {
		changed = false
		for p := 0; p < n; p++ {
			li := bitset.New(sets.NumLoans)
			for _, q := range preds[p] {
				bitset.UnionInto(li, res.LiveOut[int(q)])
			}
			lo := li.Clone()
			bitset.UnionInto(lo, sets.Gen[p])
			bitset.SubtractInto(lo, sets.Kill[p])

			if !bitset.Equal(li, res.LiveIn[p]) {
				res.LiveIn[p] = li
				changed = true
			}
			if !bitset.Equal(lo, res.LiveOut[p]) {
				res.LiveOut[p] = lo
				changed = true
			}
		}
	}
	return res
}
