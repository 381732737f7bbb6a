package wir

import "wirlang/internal/place"

// BorrowKind distinguishes shared (&T) from mutable (&mut T) borrows
// (spec.md §3 BorrowKind).
type BorrowKind uint8

const (
	Shared BorrowKind = iota
	Mut
)

func (k BorrowKind) String() string {
	switch k {
	case Shared:
		return "&"
	case Mut:
		return "&mut"
	default:
		return "?"
	}
}

// BinOp enumerates the binary operators a BinaryOp rvalue can carry.
type BinOp uint8

const (
	Add BinOp = iota
	Sub
	Mul
	Div
	Rem
	Eq
	Ne
	Lt
	Le
	Gt
	Ge
	And
	Or
	Xor
	Shl
	Shr
)

// UnOp enumerates the unary operators a UnaryOp rvalue can carry.
type UnOp uint8

const (
	Neg UnOp = iota
	Not
)

// RvalueKind discriminates the Rvalue variants (spec.md §3).
type RvalueKind uint8

const (
	RvUse RvalueKind = iota
	RvBinaryOp
	RvUnaryOp
	RvRef
)

// Rvalue is the right-hand side of an Assign statement.
type Rvalue struct {
	Kind RvalueKind

	// RvUse
	Operand Operand

	// RvBinaryOp
	BinOp BinOp
	Lhs   Operand
	Rhs   Operand

	// RvUnaryOp
	UnOp UnOp
	// Operand above is reused as the unary operand too.

	// RvRef
	RefPlace *place.Place
	RefKind  BorrowKind
}

// Use builds a Use(operand) rvalue.
func Use(o Operand) Rvalue { return Rvalue{Kind: RvUse, Operand: o} }

// Binary builds a BinaryOp(op, lhs, rhs) rvalue.
func Binary(op BinOp, lhs, rhs Operand) Rvalue {
	return Rvalue{Kind: RvBinaryOp, BinOp: op, Lhs: lhs, Rhs: rhs}
}

// Unary builds a UnaryOp(op, operand) rvalue.
func Unary(op UnOp, o Operand) Rvalue {
	return Rvalue{Kind: RvUnaryOp, UnOp: op, Operand: o}
}

// Ref builds a Ref{place, kind} rvalue, generating exactly one loan when
// lowered at a program point (spec.md §3 invariants).
func Ref(p *place.Place, kind BorrowKind) Rvalue {
	return Rvalue{Kind: RvRef, RefPlace: p, RefKind: kind}
}
