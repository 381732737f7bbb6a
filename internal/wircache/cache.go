// Package wircache provides an on-disk cache of per-function check
// results, keyed by a content hash of the function's own WIR text form.
// A cache hit lets a driver skip the full CollectLoans -> liveness ->
// loanlive -> conflicts pipeline for a function that has not changed.
package wircache

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"github.com/vmihailenco/msgpack/v5"

	"wirlang/internal/diag"
	"wirlang/internal/source"
	"wirlang/internal/wir"
)

// schemaVersion guards against stale entries surviving a Payload format
// change; bump it whenever Payload's shape changes.
const schemaVersion uint16 = 1

// Digest is a content hash of one function's WIR text form.
type Digest [sha256.Size]byte

// HashFunc computes the content digest of f by hashing its printed text
// form (wir.Printer), so the hash is stable across re-runs that rebuild
// identical IR from identical source, and changes whenever any
// statement, block, or signature differs.
func HashFunc(f *wir.Func) Digest {
	var buf bytes.Buffer
	wir.NewPrinter(&buf).PrintFunc(f)
	return sha256.Sum256(buf.Bytes())
}

// Payload is the cached, serializable form of one function's diagnostics.
type Payload struct {
	Schema      uint16
	FuncName    string
	Diagnostics []CachedDiagnostic
}

// CachedDiagnostic is diag.Diagnostic flattened into msgpack-friendly
// fields (source.Span and diag.Code are already plain value types, but
// the struct is kept separate from diag.Diagnostic so the disk schema
// does not silently change shape whenever the in-memory type gains a
// field).
type CachedDiagnostic struct {
	Severity    uint8
	Code        uint16
	Message     string
	PlacePath   string
	PrimaryFile uint32
	PrimaryLo   uint32
	PrimaryHi   uint32
	Notes       []CachedNote
	Suggestions []string
}

// CachedNote is diag.Note flattened the same way as CachedDiagnostic.
type CachedNote struct {
	Msg  string
	File uint32
	Lo   uint32
	Hi   uint32
}

// DiskCache stores Payloads under dir, one file per Digest, msgpack-encoded.
// Thread-safe for concurrent access.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// Open initializes a DiskCache rooted at the OS cache directory
// (XDG_CACHE_HOME, or ~/.cache, joined with app), creating it if needed.
func Open(app string) (*DiskCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	dir := filepath.Join(base, app)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

func (c *DiskCache) pathFor(key Digest) string {
	return filepath.Join(c.dir, "funcs", hex.EncodeToString(key[:])+".mp")
}

// Put serializes and writes payload under key, atomically.
func (c *DiskCache) Put(key Digest, payload *Payload) error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	tmpName := f.Name()
	defer os.Remove(tmpName)

	payload.Schema = schemaVersion
	if err := msgpack.NewEncoder(f).Encode(payload); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, p)
}

// Get reads and deserializes the payload for key, reporting false if
// absent or written by an older schema.
func (c *DiskCache) Get(key Digest, out *Payload) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	defer f.Close()

	if err := msgpack.NewDecoder(f).Decode(out); err != nil {
		return false, err
	}
	if out.Schema != schemaVersion {
		return false, nil
	}
	return true, nil
}

// FromCached reconstructs diag.Diagnostics from their cached, flattened form.
func FromCached(items []CachedDiagnostic) []*diag.Diagnostic {
	out := make([]*diag.Diagnostic, len(items))
	for i, c := range items {
		notes := make([]diag.Note, len(c.Notes))
		for j, n := range c.Notes {
			notes[j] = diag.Note{Msg: n.Msg, Span: source.Span{File: source.FileID(n.File), Start: n.Lo, End: n.Hi}}
		}
		out[i] = &diag.Diagnostic{
			Severity:  diag.Severity(c.Severity),
			Code:      diag.Code(c.Code),
			Message:   c.Message,
			PlacePath: c.PlacePath,
			Primary: source.Span{
				File:  source.FileID(c.PrimaryFile),
				Start: c.PrimaryLo,
				End:   c.PrimaryHi,
			},
			Notes:       notes,
			Suggestions: append([]string(nil), c.Suggestions...),
		}
	}
	return out
}

// ToCached flattens diagnostics for storage.
func ToCached(items []*diag.Diagnostic) []CachedDiagnostic {
	out := make([]CachedDiagnostic, len(items))
	for i, d := range items {
		notes := make([]CachedNote, len(d.Notes))
		for j, n := range d.Notes {
			notes[j] = CachedNote{Msg: n.Msg, File: uint32(n.Span.File), Lo: n.Span.Start, Hi: n.Span.End}
		}
		out[i] = CachedDiagnostic{
			Severity:    uint8(d.Severity),
			Code:        uint16(d.Code),
			Message:     d.Message,
			PlacePath:   d.PlacePath,
			PrimaryFile: uint32(d.Primary.File),
			PrimaryLo:   d.Primary.Start,
			PrimaryHi:   d.Primary.End,
			Notes:       notes,
			Suggestions: append([]string(nil), d.Suggestions...),
		}
	}
	return out
}
