package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/spf13/cobra"

	"wirlang/internal/diag"
	"wirlang/internal/source"
)

func newTestRootWithQuiet(quiet bool) *cobra.Command {
	root := &cobra.Command{Use: "test"}
	root.PersistentFlags().Bool("quiet", quiet, "")
	root.SetOut(&bytes.Buffer{})
	root.SetContext(context.Background())
	return root
}

// With --quiet and no errors, renderBag prints nothing and returns nil.
func TestRenderBag_QuietSuppressesCleanOutput(t *testing.T) {
	root := newTestRootWithQuiet(true)
	var out bytes.Buffer
	root.SetOut(&out)

	bag := diag.NewBag(4)
	if err := renderBag(root, bag, false, false, false, "off"); err != nil {
		t.Fatalf("renderBag returned error for a clean bag: %v", err)
	}
	if out.Len() != 0 {
		t.Fatalf("expected no output under --quiet for a clean bag, got %q", out.String())
	}
}

// Even under --quiet, a bag with errors still renders and still returns
// an error reporting the diagnostic count.
func TestRenderBag_QuietStillReportsErrors(t *testing.T) {
	root := newTestRootWithQuiet(true)
	var out bytes.Buffer
	root.SetOut(&out)

	d := diag.NewError(diag.BorrowUseAfterMove, source.NoSpan, "use of moved value")
	bag := diag.NewBag(4)
	bag.Add(&d)

	err := renderBag(root, bag, false, false, false, "off")
	if err == nil {
		t.Fatalf("expected renderBag to return an error when the bag has errors")
	}
	if out.Len() == 0 {
		t.Fatalf("expected the diagnostic still rendered despite --quiet")
	}
}

// Without --quiet, a clean bag still renders (trivially, nothing to
// print) and returns nil.
func TestRenderBag_NonQuietCleanBagReturnsNil(t *testing.T) {
	root := newTestRootWithQuiet(false)
	var out bytes.Buffer
	root.SetOut(&out)

	bag := diag.NewBag(4)
	if err := renderBag(root, bag, false, false, false, "off"); err != nil {
		t.Fatalf("renderBag returned error for a clean bag: %v", err)
	}
}
