package diag

import "wirlang/internal/source"

// Note attaches auxiliary context (a secondary span) to a diagnostic.
type Note struct {
	Span source.Span
	Msg  string
}

// Diagnostic is a single reported issue: a primary span, a message, and
// optional notes/suggestions (spec.md §4.7).
type Diagnostic struct {
	Severity    Severity
	Code        Code
	Message     string
	Primary     source.Span
	PlacePath   string // offending place rendered as a path, e.g. "data.field"
	Notes       []Note
	Suggestions []string
}

// New builds a bare diagnostic.
func New(sev Severity, code Code, primary source.Span, msg string) Diagnostic {
	return Diagnostic{Severity: sev, Code: code, Primary: primary, Message: msg}
}

// NewError builds an error-severity diagnostic.
func NewError(code Code, primary source.Span, msg string) Diagnostic {
	return New(SevError, code, primary, msg)
}

// WithNote appends a secondary span/message pair.
func (d Diagnostic) WithNote(sp source.Span, msg string) Diagnostic {
	d.Notes = append(d.Notes, Note{Span: sp, Msg: msg})
	return d
}

// WithPlace records the offending place's rendered path.
func (d Diagnostic) WithPlace(path string) Diagnostic {
	d.PlacePath = path
	return d
}

// WithSuggestion appends one suggestion string, drawn by the caller from
// the fixed per-code suggestion table (see Suggestions in this package).
func (d Diagnostic) WithSuggestion(s string) Diagnostic {
	d.Suggestions = append(d.Suggestions, s)
	return d
}
