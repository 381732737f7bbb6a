package facts

import (
	"wirlang/internal/place"
	"wirlang/internal/wir"
)

// AliasIndex answers which loans might alias a given place, per spec.md
// §4.3 step 2's "index place → [loan_id]" plus the conservative
// maybe_aliasing_loans query used by loanlive and check. It is built once
// per function after CollectLoans and is read-only afterward, so it is
// safe to share across the analysis of one function's several dataflow
// passes (spec.md §5 parallel-safety: state never escapes one function).
type AliasIndex struct {
	loans []wir.Loan
}

// BuildAliasIndex constructs the index from f's already-collected loans.
func BuildAliasIndex(f *wir.Func) *AliasIndex {
	return &AliasIndex{loans: f.Loans}
}

// MaybeAliasing returns every loan whose owner may alias p.
func (idx *AliasIndex) MaybeAliasing(p *place.Place) []wir.Loan {
	var out []wir.Loan
	for _, l := range idx.loans {
		if place.MayAlias(p, l.Owner) {
			out = append(out, l)
		}
	}
	return out
}

// MaybeAliasingIDs is MaybeAliasing restricted to loan ids, for building
// bitset kill sets without an intermediate Loan allocation.
func (idx *AliasIndex) MaybeAliasingIDs(p *place.Place, fn func(wir.LoanID)) {
	for _, l := range idx.loans {
		if place.MayAlias(p, l.Owner) {
			fn(l.ID)
		}
	}
}
