package trace

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

// ParseLevel round-trips every level's canonical string and rejects junk.
func TestParseLevel_RoundTripsKnownLevels(t *testing.T) {
	cases := map[string]Level{
		"off": LevelOff, "error": LevelError, "phase": LevelPhase,
		"detail": LevelDetail, "debug": LevelDebug,
	}
	for s, want := range cases {
		got, err := ParseLevel(s)
		if err != nil {
			t.Fatalf("ParseLevel(%q) returned error: %v", s, err)
		}
		if got != want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", s, got, want)
		}
	}
	if _, err := ParseLevel("verbose"); err == nil {
		t.Fatalf("expected an error for an unknown level string")
	}
}

// ShouldEmit gates scopes by coarseness: phase only allows driver/function
// scope events through, detail adds pass scope, debug allows everything.
func TestLevel_ShouldEmitGatesByScope(t *testing.T) {
	if LevelOff.ShouldEmit(ScopeDriver) {
		t.Fatalf("LevelOff must never emit")
	}
	if !LevelPhase.ShouldEmit(ScopeFunction) || LevelPhase.ShouldEmit(ScopePass) {
		t.Fatalf("LevelPhase should admit function scope but not pass scope")
	}
	if !LevelDetail.ShouldEmit(ScopePass) || LevelDetail.ShouldEmit(ScopeStmt) {
		t.Fatalf("LevelDetail should admit pass scope but not stmt scope")
	}
	if !LevelDebug.ShouldEmit(ScopeStmt) {
		t.Fatalf("LevelDebug should admit every scope")
	}
}

// A disabled tracer's Span.Begin produces a Nop span: End never panics and
// reports zero elapsed time, and no event is written anywhere.
func TestSpan_DisabledTracerIsANoop(t *testing.T) {
	var buf bytes.Buffer
	st := NewStreamTracer(&buf, LevelOff)
	sp := Begin(st, ScopeFunction, "check", 0)
	if sp.ID() != 0 {
		t.Fatalf("expected a disabled span to report id 0, got %d", sp.ID())
	}
	sp.End("done")
	if buf.Len() != 0 {
		t.Fatalf("expected no output from a disabled tracer, got %q", buf.String())
	}
}

// Begin/End on an enabled StreamTracer writes both a begin and end line
// naming the span, and nesting a child span records the parent's id.
func TestSpan_EnabledTracerWritesBeginAndEnd(t *testing.T) {
	var buf bytes.Buffer
	st := NewStreamTracer(&buf, LevelDebug)
	parent := Begin(st, ScopeFunction, "check", 0)
	child := Begin(st, ScopePass, "liveness", parent.ID())
	child.End("ok")
	parent.End("ok")

	out := buf.String()
	if !strings.Contains(out, "begin check") {
		t.Fatalf("expected a begin line for the parent span, got %q", out)
	}
	if !strings.Contains(out, "begin liveness") || !strings.Contains(out, "end liveness") {
		t.Fatalf("expected begin/end lines for the child span, got %q", out)
	}
	if parent.ID() == 0 || child.ID() == 0 || parent.ID() == child.ID() {
		t.Fatalf("expected distinct nonzero span ids, got parent=%d child=%d", parent.ID(), child.ID())
	}
}

// StreamTracer.Emit drops events below its configured level.
func TestStreamTracer_DropsEventsBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	st := NewStreamTracer(&buf, LevelPhase)
	st.Emit(&Event{Kind: KindPoint, Scope: ScopeStmt, Name: "per-point noise"})
	if buf.Len() != 0 {
		t.Fatalf("expected stmt-scope events to be dropped at LevelPhase, got %q", buf.String())
	}
	st.Emit(&Event{Kind: KindPoint, Scope: ScopeFunction, Name: "fn:add"})
	if !strings.Contains(buf.String(), "fn:add") {
		t.Fatalf("expected function-scope events to pass at LevelPhase")
	}
}

// MultiTracer fans every Emit out to all its children.
func TestMultiTracer_FansOutToAllChildren(t *testing.T) {
	var a, b bytes.Buffer
	ta := NewStreamTracer(&a, LevelDebug)
	tb := NewStreamTracer(&b, LevelDebug)
	m := NewMultiTracer(LevelDebug, ta, tb)

	m.Emit(&Event{Kind: KindPoint, Scope: ScopeFunction, Name: "fan"})
	if !strings.Contains(a.String(), "fan") || !strings.Contains(b.String(), "fan") {
		t.Fatalf("expected both child tracers to receive the event, got a=%q b=%q", a.String(), b.String())
	}
}

// WithTracer/FromContext round-trip, and FromContext on a bare context (or
// one that never had a tracer attached) falls back to Nop.
func TestContext_WithTracerRoundTripsAndFallsBackToNop(t *testing.T) {
	if FromContext(context.Background()) != Nop {
		t.Fatalf("expected a bare context to yield Nop")
	}
	st := NewStreamTracer(&bytes.Buffer{}, LevelDebug)
	ctx := WithTracer(context.Background(), st)
	if FromContext(ctx) != Tracer(st) {
		t.Fatalf("expected FromContext to return the attached tracer")
	}
}

// New returns the Nop tracer when the configured level is off, without
// opening any output.
func TestNew_LevelOffReturnsNop(t *testing.T) {
	tr, err := New(Config{Level: LevelOff})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if tr != Nop {
		t.Fatalf("expected the Nop tracer for LevelOff")
	}
}

// New with an explicit Output writer uses it directly rather than opening
// a file or falling back to stderr.
func TestNew_UsesExplicitOutputWriter(t *testing.T) {
	var buf bytes.Buffer
	tr, err := New(Config{Level: LevelDebug, Output: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	tr.Emit(&Event{Kind: KindPoint, Scope: ScopeFunction, Name: "probe"})
	if !strings.Contains(buf.String(), "probe") {
		t.Fatalf("expected the event written to the explicit output writer, got %q", buf.String())
	}
}
