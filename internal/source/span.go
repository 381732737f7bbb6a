// Package source carries byte-addressed source positions used to attach
// diagnostics to user code. It is a trimmed form of the upstream file/position
// contract the core consumes: the lexer/parser layer is out of scope (spec.md
// §1), but the core still needs spans to build diagnostics, so we keep the
// position machinery a host would already have computed.
package source

import "fmt"

// FileID identifies a loaded source file within a FileSet.
type FileID uint32

// NoFileID is the sentinel for "no file" (e.g. synthesized spans).
const NoFileID FileID = 0

// Span is a half-open byte range [Start, End) within File.
type Span struct {
	File  FileID
	Start uint32
	End   uint32
}

// NoSpan is the zero-value span, used when no source location applies.
var NoSpan = Span{}

// Empty reports whether the span has zero length.
func (s Span) Empty() bool { return s.Start == s.End }

// Len returns the span length in bytes.
func (s Span) Len() uint32 { return s.End - s.Start }

func (s Span) String() string {
	return fmt.Sprintf("%d:%d-%d", s.File, s.Start, s.End)
}

// Cover returns the smallest span enclosing both s and other.
// Spans in different files are not comparable; s is returned unchanged.
func (s Span) Cover(other Span) Span {
	if s.File != other.File {
		return s
	}
	if other.Start < s.Start {
		s.Start = other.Start
	}
	if other.End > s.End {
		s.End = other.End
	}
	return s
}

// LineCol is a 1-based human-readable position.
type LineCol struct {
	Line uint32
	Col  uint32
}
