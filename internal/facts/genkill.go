package facts

import (
	"wirlang/internal/bitset"
	"wirlang/internal/wir"
)

// LoanSets holds the per-program-point gen/kill bitsets over loan ids,
// indexed directly by wir.ProgramPoint (spec.md §4.3 step 3, loan-space
// invariants: "gen_set[p] contains exactly the loans in
// events[p].start_loans"; "kill_set[p] contains L iff the statement at p
// overwrites or moves a place that overlaps L.owner under may_alias").
type LoanSets struct {
	NumLoans int
	Gen      []bitset.Set
	Kill     []bitset.Set
}

// BuildLoanSets constructs Gen/Kill for every program point in f, using
// idx to resolve the may_alias overlap for kill sets. A place overwrites
// or moves a loan's owner if it appears in that point's Reassigns or
// Moves (Moves is populated by the liveness pass before this runs for the
// forward loan-liveness stage; it is empty on the very first call, which
// is fine — a function with zero refined moves simply has no move-kills
// yet, matching spec.md invariant 9 "zero loans ⇒ empty gen/kill").
func BuildLoanSets(f *wir.Func, idx *AliasIndex) *LoanSets {
	n := len(f.Loans)
	ls := &LoanSets{
		NumLoans: n,
		Gen:      make([]bitset.Set, f.NumPoints),
		Kill:     make([]bitset.Set, f.NumPoints),
	}
	for p := 0; p < f.NumPoints; p++ {
		ls.Gen[p] = bitset.New(n)
		ls.Kill[p] = bitset.New(n)
		ev := &f.EventsByPoint[p]
		for _, id := range ev.StartLoans {
			ls.Gen[p].Set(int(id))
		}
		for _, pl := range ev.Reassigns {
			idx.MaybeAliasingIDs(pl, func(id wir.LoanID) { ls.Kill[p].Set(int(id)) })
		}
		for _, pl := range ev.Moves {
			idx.MaybeAliasingIDs(pl, func(id wir.LoanID) { ls.Kill[p].Set(int(id)) })
		}
	}
	return ls
}
