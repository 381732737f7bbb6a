package trace

import (
	"fmt"
	"io"
	"sync"
)

// StreamTracer writes events immediately to an io.Writer as plain text,
// one line per event.
type StreamTracer struct {
	mu    sync.Mutex
	w     io.Writer
	level Level
}

// NewStreamTracer creates a StreamTracer writing to w at the given level.
func NewStreamTracer(w io.Writer, level Level) *StreamTracer {
	return &StreamTracer{w: w, level: level}
}

func (t *StreamTracer) Emit(ev *Event) {
	if !t.level.ShouldEmit(ev.Scope) {
		return
	}
	ev.Seq = NextSeq()

	t.mu.Lock()
	defer t.mu.Unlock()
	switch ev.Kind {
	case KindSpanBegin:
		fmt.Fprintf(t.w, "%d %s begin %s (span=%d parent=%d)\n",
			ev.Seq, ev.Scope, ev.Name, ev.SpanID, ev.ParentID)
	case KindSpanEnd:
		fmt.Fprintf(t.w, "%d %s end %s (span=%d) %s\n",
			ev.Seq, ev.Scope, ev.Name, ev.SpanID, ev.Detail)
	default:
		fmt.Fprintf(t.w, "%d %s %s %s\n", ev.Seq, ev.Scope, ev.Name, ev.Detail)
	}
}

func (t *StreamTracer) Flush() error {
	if flusher, ok := t.w.(interface{ Flush() error }); ok {
		return flusher.Flush()
	}
	return nil
}

func (t *StreamTracer) Close() error {
	t.Flush()
	if closer, ok := t.w.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

func (t *StreamTracer) Level() Level  { return t.level }
func (t *StreamTracer) Enabled() bool { return t.level > LevelOff }
