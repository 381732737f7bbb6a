// Package render formats a diag.Bag as human-readable terminal output:
// a colored severity/code header per diagnostic, a source-line excerpt
// with a underline spanning the primary span, and any notes/suggestions
// attached to it (spec.md §4.7).
package render

import (
	"fmt"
	"io"
	"os"
	"strings"

	"fortio.org/safecast"
	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
	"golang.org/x/term"
	"golang.org/x/text/width"

	"wirlang/internal/diag"
	"wirlang/internal/source"
)

// Options configures Pretty's output.
type Options struct {
	Color     bool
	Context   int // lines of context above/below the primary line
	Width     int // terminal width; Pretty does not read it and does not wrap output
	ShowNotes bool
	ShowFixes bool
	ShowPlace bool
}

// TerminalWidth returns the detected width of stdout, or fallback if it
// is not a terminal (e.g. piped output or a CI log).
func TerminalWidth(fallback int) int {
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 {
		return fallback
	}
	return w
}

// normalizePlacePath folds a place path's runes to their narrow forms
// (golang.org/x/text/width) before it is printed on the "place:" line.
func normalizePlacePath(s string) string {
	return width.Narrow.String(s)
}

// Pretty writes bag's diagnostics (expected already bag.Sort()-ed) to w
// in human-readable form, reading source text from fs for line excerpts.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts Options) {
	var (
		errorColor     = color.New(color.FgRed, color.Bold)
		warningColor   = color.New(color.FgYellow, color.Bold)
		infoColor      = color.New(color.FgCyan, color.Bold)
		pathColor      = color.New(color.FgWhite, color.Bold)
		codeColor      = color.New(color.FgMagenta)
		lineNumColor   = color.New(color.FgBlue)
		underlineColor = color.New(color.FgRed, color.Bold)
		noteColor      = color.New(color.FgCyan)
		fixColor       = color.New(color.FgGreen)
	)

	prev := color.NoColor
	defer func() { color.NoColor = prev }()
	color.NoColor = !opts.Color

	context := opts.Context
	if context <= 0 {
		context = 1
	}

	for idx, d := range bag.Items() {
		if idx > 0 {
			fmt.Fprintln(w)
		}

		start, end := fs.Resolve(d.Primary)
		f := fs.Get(d.Primary.File)
		path := "<unknown>"
		if f != nil {
			path = f.Path
		}

		var sevColored string
		switch d.Severity {
		case diag.SevError:
			sevColored = errorColor.Sprint(d.Severity)
		case diag.SevWarning:
			sevColored = warningColor.Sprint(d.Severity)
		default:
			sevColored = infoColor.Sprint(d.Severity)
		}

		fmt.Fprintf(w, "%s:%d:%d: %s %s: %s\n",
			pathColor.Sprint(path), start.Line, start.Col, sevColored,
			codeColor.Sprint(d.Code), d.Message)

		if f != nil {
			printExcerpt(w, f, start, end, context, lineNumColor, underlineColor)
		}

		if opts.ShowPlace && d.PlacePath != "" {
			fmt.Fprintf(w, "  place: %s\n", normalizePlacePath(d.PlacePath))
		}

		if opts.ShowNotes {
			for _, n := range d.Notes {
				ns, _ := fs.Resolve(n.Span)
				nf := fs.Get(n.Span.File)
				notePath := "<unknown>"
				if nf != nil {
					notePath = nf.Path
				}
				fmt.Fprintf(w, "%s %s:%d:%d: %s\n",
					noteColor.Sprint("note:"), notePath, ns.Line, ns.Col, n.Msg)
			}
		}
		if opts.ShowFixes {
			for _, s := range d.Suggestions {
				fmt.Fprintf(w, "%s %s\n", fixColor.Sprint("help:"), s)
			}
		}
	}
}

func printExcerpt(w io.Writer, f *source.File, start, end source.LineCol, context int, lineNumColor, underlineColor *color.Color) {
	ctx, err := safecast.Conv[uint32](context)
	if err != nil {
		panic(fmt.Errorf("render: context overflow: %w", err))
	}
	var startLine uint32
	if start.Line > ctx {
		startLine = start.Line - ctx
	} else {
		startLine = 1
	}
	endLine := start.Line + ctx

	lineNumWidth := len(fmt.Sprintf("%d", endLine))
	if lineNumWidth < 3 {
		lineNumWidth = 3
	}

	for lineNum := startLine; lineNum <= endLine; lineNum++ {
		text := f.Line(lineNum)
		if text == "" && lineNum != start.Line {
			continue
		}
		gutter := fmt.Sprintf("%s | ", lineNumColor.Sprint(fmt.Sprintf("%*d", lineNumWidth, lineNum)))
		fmt.Fprintf(w, "%s%s\n", gutter, text)

		if lineNum == start.Line {
			endCol := end.Col
			if end.Line > start.Line {
				endCol = uint32(runewidth.StringWidth(text)) + 1
			}
			var u strings.Builder
			for range lineNumWidth + 3 {
				u.WriteByte(' ')
			}
			for range visualWidthUpTo(text, start.Col) {
				u.WriteByte(' ')
			}
			spanLen := int(endCol) - int(start.Col)
			if spanLen <= 0 {
				u.WriteByte('^')
			} else {
				for i := 0; i < spanLen; i++ {
					if i == spanLen-1 {
						u.WriteByte('^')
					} else {
						u.WriteByte('~')
					}
				}
			}
			fmt.Fprintln(w, underlineColor.Sprint(u.String()))
		}
	}
}

// visualWidthUpTo computes the rendered column width of s up to the
// 1-based byte column byteCol, accounting for East Asian wide runes.
func visualWidthUpTo(s string, byteCol uint32) int {
	if byteCol <= 1 {
		return 0
	}
	bytePos, visualPos := 0, 0
	for _, r := range s {
		if bytePos >= int(byteCol-1) {
			break
		}
		visualPos += runewidth.RuneWidth(r)
		bytePos += len(string(r))
	}
	return visualPos
}
