// Package check runs the borrow checker's per-function pipeline — fact
// extraction, variable liveness, loan liveness, moved-places dataflow, and
// the unified conflict pass — and folds it across a module. No mutable
// state crosses a function boundary, so Module fans work out across
// goroutines via errgroup, one per function.
package check

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"wirlang/internal/diag"
	"wirlang/internal/facts"
	"wirlang/internal/liveness"
	"wirlang/internal/loanlive"
	"wirlang/internal/trace"
	"wirlang/internal/wir"
)

// Options controls one checking run.
type Options struct {
	MaxDiagnostics int // per-function diagnostic cap; <=0 uses DefaultMaxDiagnostics
	Jobs           int // goroutine limit for Module; <=0 uses GOMAXPROCS
}

// DefaultMaxDiagnostics bounds a single function's diagnostic bag so a
// pathological function cannot exhaust memory with repeated violations.
const DefaultMaxDiagnostics = 256

func (o Options) maxDiagnostics() int {
	if o.MaxDiagnostics > 0 {
		return o.MaxDiagnostics
	}
	return DefaultMaxDiagnostics
}

// Function runs the full single-function pipeline: CollectLoans ->
// liveness.Run (copy/move refinement) -> BuildAliasIndex/BuildLoanSets
// (rebuilt now that Moves is final) -> loanlive.Run -> buildMovedOut ->
// the four ordered conflict checks (spec.md §4.6). Diagnostics come back
// sorted into program-point order (spec.md §4.7 "stable under reruns").
func Function(ctx context.Context, f *wir.Func, opts Options) *diag.Bag {
	tr := trace.FromContext(ctx)
	fnSpan := trace.Begin(tr, trace.ScopeFunction, "fn:"+f.Name, 0)
	defer fnSpan.End("")

	bag := diag.NewBag(opts.maxDiagnostics())

	sp := trace.Begin(tr, trace.ScopePass, "collect_loans", fnSpan.ID())
	facts.CollectLoans(f)
	sp.End("")

	sp = trace.Begin(tr, trace.ScopePass, "liveness", fnSpan.ID())
	liveness.Run(f)
	sp.End("")

	sp = trace.Begin(tr, trace.ScopePass, "loanlive", fnSpan.ID())
	idx := facts.BuildAliasIndex(f)
	sets := facts.BuildLoanSets(f, idx)
	live := loanlive.Run(f, sets)
	sp.End("")

	sp = trace.Begin(tr, trace.ScopePass, "conflicts", fnSpan.ID())
	mo := buildMovedOut(f)
	conflicts(f, live, mo, bag)
	bag.Sort()
	sp.End("")

	return bag
}

// Module runs Function over every function in m, in parallel, and merges
// the resulting bags in function-declaration order (spec.md §5 "per-function
// analysis has no cross-function mutable state", §5 "Ordering": diagnostics
// are deterministic by function id regardless of scheduling order).
func Module(ctx context.Context, m *wir.Module, opts Options) (*diag.Bag, error) {
	tr := trace.FromContext(ctx)
	modSpan := trace.Begin(tr, trace.ScopeDriver, "check_module:"+m.Name, 0)
	defer modSpan.End("")

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	bags := make([]*diag.Bag, len(m.Funcs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(m.Funcs)))

	for i, fn := range m.Funcs {
		g.Go(func(i int, fn *wir.Func) func() error {
			return func() error {
				select {
				case <-gctx.Done():
					return gctx.Err()
				default:
				}
				bags[i] = Function(gctx, fn, opts)
				return nil
			}
		}(i, fn))
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := diag.NewBag(opts.maxDiagnostics() * max(len(m.Funcs), 1))
	for _, b := range bags {
		if b != nil {
			merged.Merge(b)
		}
	}
	return merged, nil
}
