package lower

import (
	"fmt"

	"wirlang/internal/diag"
	"wirlang/internal/source"
)

// Error is a structured lowering error (spec.md §4.2 "Error conditions
// during lowering"). Lowering collects every Error for a function and
// still returns a best-effort WIR so later phases can analyze unaffected
// functions (spec.md §7 propagation policy).
type Error struct {
	Code    diag.Code
	Span    source.Span
	Message string
}

func (e *Error) Error() string { return e.Message }

func unresolvedName(sp source.Span, name string) *Error {
	return &Error{Code: diag.LowerUnresolvedName, Span: sp, Message: "unresolved name: " + name}
}

func arityMismatch(sp source.Span, name string, want, got int) *Error {
	return &Error{
		Code:    diag.LowerArityMismatch,
		Span:    sp,
		Message: fmt.Sprintf("call to %s: expected %d arguments, got %d", name, want, got),
	}
}

func notMutable(sp source.Span, name string) *Error {
	return &Error{Code: diag.LowerNotMutable, Span: sp, Message: "cannot take &mut of non-mutable binding: " + name}
}

func unsupported(sp source.Span, what string) *Error {
	return &Error{Code: diag.LowerUnsupported, Span: sp, Message: "unsupported construct: " + what}
}
