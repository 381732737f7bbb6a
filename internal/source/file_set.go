package source

import (
	"fmt"
	"sort"

	"fortio.org/safecast"
)

// File holds the content and line index for one loaded source file.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	lineIdx []uint32
}

// FileSet owns the set of files a batch of diagnostics can refer to.
type FileSet struct {
	files []File
	index map[string]FileID
}

// NewFileSet creates an empty FileSet.
func NewFileSet() *FileSet {
	return &FileSet{
		files: make([]File, 1), // index 0 reserved for NoFileID
		index: make(map[string]FileID),
	}
}

// Add registers file content under path and returns its FileID.
// Re-adding the same path yields a new FileID; the latest one wins lookups
// by path.
func (fs *FileSet) Add(path string, content []byte) FileID {
	id, err := safecast.Conv[uint32](len(fs.files))
	if err != nil {
		panic(fmt.Errorf("source: file set overflow: %w", err))
	}
	fs.files = append(fs.files, File{
		ID:      FileID(id),
		Path:    path,
		Content: content,
		lineIdx: buildLineIndex(content),
	})
	fs.index[path] = FileID(id)
	return FileID(id)
}

// Get returns the file for id, or nil if id is out of range.
func (fs *FileSet) Get(id FileID) *File {
	if id == NoFileID || int(id) >= len(fs.files) {
		return nil
	}
	return &fs.files[id]
}

// ByPath returns the most recently added file registered under path.
func (fs *FileSet) ByPath(path string) (*File, bool) {
	id, ok := fs.index[path]
	if !ok {
		return nil, false
	}
	return fs.Get(id), true
}

// Resolve converts a span into start/end line-column positions.
func (fs *FileSet) Resolve(span Span) (start, end LineCol) {
	f := fs.Get(span.File)
	if f == nil {
		return LineCol{}, LineCol{}
	}
	return toLineCol(f.lineIdx, span.Start), toLineCol(f.lineIdx, span.End)
}

// Line returns the 1-based source line, or "" if it doesn't exist.
func (f *File) Line(lineNum uint32) string {
	if lineNum == 0 {
		return ""
	}
	var start uint32
	switch {
	case lineNum == 1:
		start = 0
	case int(lineNum-2) < len(f.lineIdx):
		start = f.lineIdx[lineNum-2] + 1
	default:
		return ""
	}
	end := uint32(len(f.Content))
	if int(lineNum-1) < len(f.lineIdx) {
		end = f.lineIdx[lineNum-1]
	}
	if start >= uint32(len(f.Content)) {
		return ""
	}
	if end > uint32(len(f.Content)) {
		end = uint32(len(f.Content))
	}
	return string(f.Content[start:end])
}

func buildLineIndex(content []byte) []uint32 {
	var idx []uint32
	for i, b := range content {
		if b == '\n' {
			idx = append(idx, uint32(i))
		}
	}
	return idx
}

func toLineCol(lineIdx []uint32, offset uint32) LineCol {
	// Binary search for the line containing offset.
	line := sort.Search(len(lineIdx), func(i int) bool {
		return lineIdx[i] >= offset
	})
	lc := LineCol{Line: uint32(line) + 1}
	lineStart := uint32(0)
	if line > 0 {
		lineStart = lineIdx[line-1] + 1
	}
	lc.Col = offset - lineStart + 1
	return lc
}
