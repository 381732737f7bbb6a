// Package trace provides a tracing subsystem for the borrow checker.
//
// It tracks driver-level phases, per-function checking, and the
// individual dataflow passes within one function, to help diagnose slow
// or hanging runs on large modules.
//
// Enable tracing via the CLI:
//
//	wirc check --trace=- --trace-level=phase module.json
//
// Tracers are propagated through the pipeline via context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	t := trace.FromContext(ctx)
//	span := trace.Begin(t, trace.ScopePass, "liveness", parentID)
//	defer span.End("")
package trace
