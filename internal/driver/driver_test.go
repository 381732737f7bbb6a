package driver

import (
	"context"
	"testing"

	"wirlang/internal/check"
	"wirlang/internal/place"
	"wirlang/internal/wir"
	"wirlang/internal/wircache"
)

func assign(pl *place.Place, rv wir.Rvalue) wir.Stmt {
	return wir.Stmt{Kind: wir.StmtAssign, Assign: wir.AssignData{Place: pl, Rvalue: rv}}
}

func cleanFunc(name string) *wir.Func {
	a := place.Local(0, place.I32)
	f := &wir.Func{Name: name, Blocks: []*wir.Block{{ID: 1, Stmts: []wir.Stmt{
		assign(a, wir.Use(wir.Const(wir.IntConst(1, place.I32)))),
		{Kind: wir.StmtReturn},
	}}}, Entry: 1}
	f.AssignProgramPoints()
	return f
}

func conflictingFunc(name string) *wir.Func {
	data := place.Local(0, place.I32)
	whole := place.Local(1, place.I32)
	part := place.Local(2, place.I32)
	field := place.Field(data, 0, 0, 4, place.I32)
	f := &wir.Func{Name: name, Blocks: []*wir.Block{{ID: 1, Stmts: []wir.Stmt{
		assign(whole, wir.Ref(data, wir.Shared)),
		assign(part, wir.Ref(field, wir.Mut)),
		{Kind: wir.StmtReturn},
	}}}, Entry: 1}
	f.AssignProgramPoints()
	return f
}

// Run fans a module's functions out across goroutines and merges their
// diagnostics into a single bag, leaving clean functions silent.
func TestRun_MergesDiagnosticsAcrossFunctions(t *testing.T) {
	m := &wir.Module{Name: "m", Funcs: []*wir.Func{cleanFunc("good"), conflictingFunc("bad")}}
	bag, err := Run(context.Background(), m, Options{})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if bag.Len() != 1 {
		t.Fatalf("expected exactly one diagnostic across the module, got %d", bag.Len())
	}
}

// A populated cache is consulted before re-running the checker, and a hit
// is reported through the progress sink as StatusCached rather than
// StatusDone.
func TestRun_CacheHitSkipsRecheckAndReportsCached(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	cache, err := wircache.Open("wirc-driver-test")
	if err != nil {
		t.Fatalf("Open cache failed: %v", err)
	}
	f := cleanFunc("once")
	m := &wir.Module{Name: "m", Funcs: []*wir.Func{f}}

	events := make(chan Event, 16)
	if _, err := Run(context.Background(), m, Options{Cache: cache, Progress: events}); err != nil {
		t.Fatalf("first Run returned error: %v", err)
	}
	close(events)
	sawFirstDone := false
	for e := range events {
		if e.Stage == StageDone && e.Status == StatusDone {
			sawFirstDone = true
		}
	}
	if !sawFirstDone {
		t.Fatalf("expected the first run to report StatusDone (no cache hit yet)")
	}

	events2 := make(chan Event, 16)
	if _, err := Run(context.Background(), m, Options{Cache: cache, Progress: events2}); err != nil {
		t.Fatalf("second Run returned error: %v", err)
	}
	close(events2)
	sawCached := false
	for e := range events2 {
		if e.Stage == StageDone && e.Status == StatusCached {
			sawCached = true
		}
	}
	if !sawCached {
		t.Fatalf("expected the second run to hit the cache and report StatusCached")
	}
}

// A nil Cache and nil Progress sink are both safe defaults: Run completes
// without panicking and produces the same diagnostics as check.Function
// directly.
func TestRun_NilCacheAndProgressAreSafeDefaults(t *testing.T) {
	f := conflictingFunc("bad")
	m := &wir.Module{Name: "m", Funcs: []*wir.Func{f}}

	got, err := Run(context.Background(), m, Options{})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	want := check.Function(context.Background(), conflictingFunc("bad"), check.Options{})
	if got.Len() != want.Len() {
		t.Fatalf("driver.Run diagnostic count %d differs from check.Function's %d", got.Len(), want.Len())
	}
}

// Run respects context cancellation, propagating the error rather than
// completing the fan-out.
func TestRun_PropagatesContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	m := &wir.Module{Name: "m", Funcs: []*wir.Func{cleanFunc("a"), cleanFunc("b"), cleanFunc("c")}}
	_, err := Run(ctx, m, Options{})
	if err == nil {
		t.Fatalf("expected an error from a pre-canceled context")
	}
}

// An empty module produces an empty, non-nil bag.
func TestRun_EmptyModuleProducesEmptyBag(t *testing.T) {
	m := &wir.Module{Name: "empty"}
	bag, err := Run(context.Background(), m, Options{})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if bag == nil || bag.Len() != 0 {
		t.Fatalf("expected an empty, non-nil bag, got %+v", bag)
	}
}
