package diag

// Code distinguishes diagnostic kinds for stable, machine-checkable output.
type Code uint16

const (
	UnknownCode Code = 0

	// Lowering errors (spec §7).
	LowerUnresolvedName   Code = 1001
	LowerArityMismatch    Code = 1002
	LowerNotMutable       Code = 1003
	LowerUnsupported      Code = 1004

	// Borrow errors (spec §4.6/§7).
	BorrowMultipleMutable      Code = 2001
	BorrowSharedMutableConflict Code = 2002
	BorrowReassignWhileBorrowed Code = 2003
	BorrowMoveWhileBorrowed     Code = 2004
	BorrowUseAfterMove          Code = 2005

	// Internal errors: broken invariants, never user-facing causes.
	InternalMissingProgramPoint Code = 9001
	InternalInvariant           Code = 9002
)

func (c Code) String() string {
	switch c {
	case LowerUnresolvedName:
		return "unresolved-name"
	case LowerArityMismatch:
		return "arity-mismatch"
	case LowerNotMutable:
		return "not-mutable"
	case LowerUnsupported:
		return "unsupported-construct"
	case BorrowMultipleMutable:
		return "multiple-mutable-borrows"
	case BorrowSharedMutableConflict:
		return "shared-mutable-conflict"
	case BorrowReassignWhileBorrowed:
		return "reassign-while-borrowed"
	case BorrowMoveWhileBorrowed:
		return "move-while-borrowed"
	case BorrowUseAfterMove:
		return "use-after-move"
	case InternalMissingProgramPoint:
		return "internal-missing-program-point"
	case InternalInvariant:
		return "internal-invariant"
	default:
		return "unknown"
	}
}
