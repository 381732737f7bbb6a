package wir

import (
	"fmt"
	"io"
	"strings"

	"wirlang/internal/place"
)

// Printer dumps a Module to a human-readable text form, used by the
// dump-wir CLI command and by golden tests.
type Printer struct {
	w io.Writer
}

// NewPrinter creates a Printer writing to w.
func NewPrinter(w io.Writer) *Printer { return &Printer{w: w} }

// Dump writes m in text form to w.
func Dump(w io.Writer, m *Module) error {
	return NewPrinter(w).PrintModule(m)
}

func (p *Printer) printf(format string, args ...any) {
	fmt.Fprintf(p.w, format, args...)
}

// PrintModule prints every global and function in m.
func (p *Printer) PrintModule(m *Module) error {
	p.printf("module %s\n", m.Name)
	for _, g := range m.Globals {
		mut := ""
		if g.Mutable {
			mut = "mut "
		}
		p.printf("global %s%s: %s\n", mut, g.Name, g.Type)
	}
	if len(m.Globals) > 0 {
		p.printf("\n")
	}
	for _, f := range m.Funcs {
		p.PrintFunc(f)
		p.printf("\n")
	}
	return nil
}

// PrintFunc prints one function's signature, blocks, and statements.
func (p *Printer) PrintFunc(f *Func) {
	p.printf("fn %s(", f.Name)
	for i, param := range f.Params {
		if i > 0 {
			p.printf(", ")
		}
		p.printf("%s: %s %s", param.Name, param.Mode, placeStr(param.Place))
	}
	p.printf(")")
	if len(f.Result) > 0 {
		types := make([]string, len(f.Result))
		for i, t := range f.Result {
			types[i] = t.String()
		}
		p.printf(" -> %s", strings.Join(types, ", "))
	}
	p.printf(" {\n")
	for _, b := range f.Blocks {
		p.printBlock(b)
	}
	p.printf("}\n")
}

func (p *Printer) printBlock(b *Block) {
	p.printf("  bb%d:\n", b.ID)
	for i := range b.Stmts {
		p.printStmt(&b.Stmts[i])
	}
}

func (p *Printer) printStmt(s *Stmt) {
	p.printf("    [%d] ", s.Point)
	switch s.Kind {
	case StmtAssign:
		p.printf("%s = %s", placeStr(s.Assign.Place), rvalueStr(s.Assign.Rvalue))
	case StmtCall:
		args := make([]string, len(s.Call.Args))
		for i, a := range s.Call.Args {
			args[i] = operandStr(a)
		}
		if s.Call.Dest != nil {
			p.printf("%s = ", placeStr(s.Call.Dest))
		}
		p.printf("call %s(%s)", s.Call.Name, strings.Join(args, ", "))
	case StmtStore:
		p.printf("store %s, %s", placeStr(s.Store.Place), operandStr(s.Store.Value))
	case StmtDrop:
		p.printf("drop %s", placeStr(s.Drop.Place))
	case StmtReturn:
		if s.Return.Value != nil {
			p.printf("return %s", operandStr(*s.Return.Value))
		} else {
			p.printf("return")
		}
	case StmtBranch:
		p.printf("branch bb%d", s.Branch.Target)
	case StmtCondBranch:
		p.printf("cond_branch %s, bb%d, bb%d", operandStr(s.CondBranch.Cond), s.CondBranch.True, s.CondBranch.False)
	}
	p.printf("\n")
}

func operandStr(o Operand) string {
	switch o.Kind {
	case OpCopy:
		return "copy " + placeStr(o.Place)
	case OpMove:
		return "move " + placeStr(o.Place)
	case OpConstant:
		if o.Const.Type == place.F32 || o.Const.Type == place.F64 {
			return fmt.Sprintf("%g", o.Const.F64)
		}
		return fmt.Sprintf("%d", o.Const.I64)
	default:
		return "?"
	}
}

func rvalueStr(r Rvalue) string {
	switch r.Kind {
	case RvUse:
		return operandStr(r.Operand)
	case RvBinaryOp:
		return fmt.Sprintf("%s %s %s", operandStr(r.Lhs), binOpStr(r.BinOp), operandStr(r.Rhs))
	case RvUnaryOp:
		return fmt.Sprintf("%s%s", unOpStr(r.UnOp), operandStr(r.Operand))
	case RvRef:
		return fmt.Sprintf("%s%s", r.RefKind, placeStr(r.RefPlace))
	default:
		return "?"
	}
}

func binOpStr(op BinOp) string {
	names := [...]string{"+", "-", "*", "/", "%", "==", "!=", "<", "<=", ">", ">=", "&", "|", "^", "<<", ">>"}
	if int(op) < len(names) {
		return names[op]
	}
	return "?"
}

func unOpStr(op UnOp) string {
	if op == Not {
		return "!"
	}
	return "-"
}

// PlaceString renders pl as a human-readable path (e.g. "_1.f0[?]"), used
// both for Dump output and for diagnostics' PlacePath field.
func PlaceString(pl *place.Place) string { return placeStr(pl) }

func placeStr(pl *place.Place) string {
	if pl == nil {
		return "<nil>"
	}
	switch pl.Kind {
	case place.KindLocal:
		return fmt.Sprintf("_%d", pl.Local)
	case place.KindGlobal:
		return fmt.Sprintf("$%d", pl.Global)
	case place.KindMemory:
		return fmt.Sprintf("mem[%d+%d]", pl.MemBase, pl.MemOffset)
	case place.KindProjection:
		base := placeStr(pl.Base)
		switch pl.Elem.Kind {
		case place.ProjField:
			return fmt.Sprintf("%s.f%d", base, pl.Elem.FieldIndex)
		case place.ProjIndex:
			return fmt.Sprintf("%s[%d]", base, pl.Elem.ConstIndex)
		case place.ProjUnknownIndex:
			return fmt.Sprintf("%s[?]", base)
		case place.ProjDeref:
			return fmt.Sprintf("*%s", base)
		}
		return base
	default:
		return "<invalid>"
	}
}
