package wir

import "wirlang/internal/place"

// Events is the per-program-point effect summary named in spec.md §3:
// which loans start here, which places are read, moved, or overwritten.
//
// StartLoans, Uses, and Reassigns are derived directly from a statement's
// shape by facts.CollectLoans, which also assigns dense loan ids to the
// function's Loans table (spec.md §4.3 step 1). Moves starts empty:
// lowering only ever emits Copy operands, so there is nothing to move
// until liveness.Run proves a last use along every path and rewrites the
// operand (and this slice) from Copy to Move.
type Events struct {
	StartLoans []LoanID
	Uses       []*place.Place
	Moves      []*place.Place
	Reassigns  []*place.Place
}

// Loan records one borrow: its owner place, shared/mut kind, and the
// program point where the enclosing Ref rvalue was evaluated.
type Loan struct {
	ID     LoanID
	Owner  *place.Place
	Kind   BorrowKind
	Origin ProgramPoint
}
