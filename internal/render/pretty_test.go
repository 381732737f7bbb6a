package render

import (
	"bytes"
	"strings"
	"testing"

	"wirlang/internal/diag"
	"wirlang/internal/source"
)

func oneFileSet(t *testing.T, path, content string) (*source.FileSet, source.FileID) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.Add(path, []byte(content))
	return fs, id
}

// Pretty writes the path:line:col header, the severity and code, and the
// message for a single diagnostic with no notes or suggestions enabled.
func TestPretty_WritesHeaderLine(t *testing.T) {
	fs, id := oneFileSet(t, "demo.sg", "let a = &x;\nlet b = &mut x;\n")
	span := source.Span{File: id, Start: 8, End: 10}
	d := diag.NewError(diag.BorrowSharedMutableConflict, span, "cannot borrow `x` as mutable")

	bag := diag.NewBag(4)
	bag.Add(&d)

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, Options{Color: false})

	out := buf.String()
	if !strings.Contains(out, "demo.sg:1:9:") {
		t.Fatalf("expected a path:line:col header, got %q", out)
	}
	if !strings.Contains(out, "cannot borrow `x` as mutable") {
		t.Fatalf("expected the diagnostic message in the output, got %q", out)
	}
}

// Pretty prints a source excerpt with a gutter and an underline under the
// primary span when the file is resolvable.
func TestPretty_PrintsExcerptWithUnderline(t *testing.T) {
	fs, id := oneFileSet(t, "demo.sg", "let total = a + b;\n")
	span := source.Span{File: id, Start: 12, End: 13} // "a"
	d := diag.NewError(diag.BorrowUseAfterMove, span, "use of moved value `a`")

	bag := diag.NewBag(4)
	bag.Add(&d)

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, Options{Color: false})

	out := buf.String()
	if !strings.Contains(out, "| let total = a + b;") {
		t.Fatalf("expected a gutter-prefixed source excerpt, got %q", out)
	}
	if !strings.Contains(out, "^") {
		t.Fatalf("expected an underline marker under the span, got %q", out)
	}
}

// ShowNotes/ShowFixes gate whether notes and suggestions are printed.
func TestPretty_GatesNotesAndFixesOnOptions(t *testing.T) {
	fs, id := oneFileSet(t, "demo.sg", "x = y;\n")
	span := source.Span{File: id, Start: 0, End: 1}
	d := diag.NewError(diag.BorrowMoveWhileBorrowed, span, "moved while borrowed").
		WithNote(span, "borrow starts here").
		WithSuggestion("reorder the move after the borrow ends")

	bag := diag.NewBag(4)
	bag.Add(&d)

	var off bytes.Buffer
	Pretty(&off, bag, fs, Options{Color: false})
	if strings.Contains(off.String(), "borrow starts here") || strings.Contains(off.String(), "reorder the move") {
		t.Fatalf("expected notes/fixes hidden when the options are off, got %q", off.String())
	}

	var on bytes.Buffer
	Pretty(&on, bag, fs, Options{Color: false, ShowNotes: true, ShowFixes: true})
	out := on.String()
	if !strings.Contains(out, "borrow starts here") {
		t.Fatalf("expected the note printed when ShowNotes is set, got %q", out)
	}
	if !strings.Contains(out, "reorder the move after the borrow ends") {
		t.Fatalf("expected the suggestion printed when ShowFixes is set, got %q", out)
	}
}

// ShowPlace prints the offending place's rendered path when set and the
// diagnostic carries one.
func TestPretty_ShowPlacePrintsPath(t *testing.T) {
	fs, id := oneFileSet(t, "demo.sg", "x = y;\n")
	span := source.Span{File: id, Start: 0, End: 1}
	d := diag.NewError(diag.BorrowReassignWhileBorrowed, span, "reassigned while borrowed").WithPlace("x.field")

	bag := diag.NewBag(4)
	bag.Add(&d)

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, Options{Color: false, ShowPlace: true})
	if !strings.Contains(buf.String(), "x.field") {
		t.Fatalf("expected the place path printed, got %q", buf.String())
	}
}

// An empty bag produces no output at all.
func TestPretty_EmptyBagProducesNoOutput(t *testing.T) {
	fs := source.NewFileSet()
	bag := diag.NewBag(4)

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, Options{})
	if buf.Len() != 0 {
		t.Fatalf("expected no output for an empty bag, got %q", buf.String())
	}
}

// Multiple diagnostics are separated by a blank line.
func TestPretty_SeparatesMultipleDiagnosticsWithBlankLine(t *testing.T) {
	fs, id := oneFileSet(t, "demo.sg", "a = b;\nc = d;\n")
	span1 := source.Span{File: id, Start: 0, End: 1}
	span2 := source.Span{File: id, Start: 7, End: 8}
	d1 := diag.NewError(diag.BorrowUseAfterMove, span1, "first")
	d2 := diag.NewError(diag.BorrowUseAfterMove, span2, "second")

	bag := diag.NewBag(4)
	bag.Add(&d1)
	bag.Add(&d2)

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, Options{Color: false})
	if !strings.Contains(buf.String(), "\n\n") {
		t.Fatalf("expected a blank line separating diagnostics, got %q", buf.String())
	}
}

// An unresolvable file (e.g. NoFileID) still prints the header but skips
// the excerpt rather than panicking.
func TestPretty_UnresolvableFileSkipsExcerpt(t *testing.T) {
	fs := source.NewFileSet()
	d := diag.NewError(diag.BorrowUseAfterMove, source.NoSpan, "synthesized diagnostic")

	bag := diag.NewBag(4)
	bag.Add(&d)

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, Options{Color: false})
	if !strings.Contains(buf.String(), "<unknown>") {
		t.Fatalf("expected the unknown-path placeholder, got %q", buf.String())
	}
}
