package trace

import (
	"sync/atomic"
	"time"
)

var (
	globalSeq   uint64
	globalSpans uint64
)

// NextSeq returns a monotonically increasing sequence number.
func NextSeq() uint64 { return atomic.AddUint64(&globalSeq, 1) }

// NextSpanID returns a unique span ID.
func NextSpanID() uint64 { return atomic.AddUint64(&globalSpans, 1) }

// Span provides RAII-style span tracking: Begin emits KindSpanBegin, End
// emits KindSpanEnd and returns the elapsed duration.
type Span struct {
	tracer   Tracer
	id       uint64
	parentID uint64
	scope    Scope
	name     string
	started  time.Time
}

// Begin starts a new span and emits a SpanBegin event, unless t is
// disabled or the level does not emit at scope. parent is the parent
// span's id, or 0 if this is a root span.
func Begin(t Tracer, scope Scope, name string, parent uint64) *Span {
	if t == nil || !t.Enabled() || !t.Level().ShouldEmit(scope) {
		return &Span{tracer: Nop}
	}
	id := NextSpanID()
	now := time.Now()
	t.Emit(&Event{
		Time: now, Seq: NextSeq(), Kind: KindSpanBegin,
		Scope: scope, SpanID: id, ParentID: parent, Name: name,
	})
	return &Span{tracer: t, id: id, parentID: parent, scope: scope, name: name, started: now}
}

// End emits a SpanEnd event and returns the elapsed duration.
func (s *Span) End(detail string) time.Duration {
	if s == nil || s.tracer == nil || !s.tracer.Enabled() {
		return 0
	}
	dur := time.Since(s.started)
	s.tracer.Emit(&Event{
		Time: time.Now(), Seq: NextSeq(), Kind: KindSpanEnd,
		Scope: s.scope, SpanID: s.id, ParentID: s.parentID, Name: s.name, Detail: detail,
	})
	return dur
}

// ID returns the span's id, or 0 for a nil/disabled span.
func (s *Span) ID() uint64 {
	if s == nil {
		return 0
	}
	return s.id
}
