// Package driver glues the core analysis (internal/check) to a CLI: it
// wires the on-disk function cache, fans work out across a module's
// functions with progress reporting, and returns a single diagnostic bag
// (spec.md §5 "Ordering"). Loading the project manifest is left to the
// caller.
package driver

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"wirlang/internal/check"
	"wirlang/internal/diag"
	"wirlang/internal/trace"
	"wirlang/internal/wir"
	"wirlang/internal/wircache"
)

// Options controls one driver run, layering CLI/config concerns on top
// of check.Options.
type Options struct {
	Check    check.Options
	Cache    *wircache.DiskCache // nil disables caching
	Progress ProgressSink        // nil disables progress events
	Tracer   trace.Tracer        // nil uses trace.Nop
}

// Run checks every function in m, using opts.Cache to skip functions
// whose content hash is unchanged since the last run, and reporting
// progress to opts.Progress as each function advances through its
// pipeline stages. The returned Bag is sorted and merged in
// function-declaration order (spec.md §5 "Ordering").
func Run(ctx context.Context, m *wir.Module, opts Options) (*diag.Bag, error) {
	tr := opts.Tracer
	if tr == nil {
		tr = trace.Nop
	}
	ctx = trace.WithTracer(ctx, tr)

	jobs := opts.Check.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	bags := make([]*diag.Bag, len(m.Funcs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, max(len(m.Funcs), 1)))

	for i, fn := range m.Funcs {
		g.Go(func(i int, fn *wir.Func) func() error {
			return func() error {
				select {
				case <-gctx.Done():
					return gctx.Err()
				default:
				}
				bags[i] = runOne(gctx, fn, opts)
				return nil
			}
		}(i, fn))
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	capacity := opts.Check.MaxDiagnostics
	if capacity <= 0 {
		capacity = check.DefaultMaxDiagnostics
	}
	merged := diag.NewBag(capacity * max(len(m.Funcs), 1))
	for _, b := range bags {
		if b != nil {
			merged.Merge(b)
		}
	}
	return merged, nil
}

// runOne checks one function, consulting and then populating opts.Cache,
// and emitting progress Events throughout.
func runOne(ctx context.Context, fn *wir.Func, opts Options) *diag.Bag {
	emit(opts.Progress, fn.Name, StageQueued, StatusWorking)

	digest := wircache.HashFunc(fn)
	if opts.Cache != nil {
		var payload wircache.Payload
		if hit, err := opts.Cache.Get(digest, &payload); err == nil && hit {
			emit(opts.Progress, fn.Name, StageDone, StatusCached)
			bag := diag.NewBag(len(payload.Diagnostics))
			for _, d := range wircache.FromCached(payload.Diagnostics) {
				bag.Add(d)
			}
			return bag
		}
	}

	bag := check.Function(ctx, fn, opts.Check)
	emit(opts.Progress, fn.Name, StageDone, StatusDone)

	if opts.Cache != nil {
		_ = opts.Cache.Put(digest, &wircache.Payload{
			FuncName:    fn.Name,
			Diagnostics: wircache.ToCached(bag.Items()),
		})
	}
	return bag
}
