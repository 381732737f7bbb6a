// Package wirfixture reads a typed-AST module from a JSON document — the
// upstream boundary this checker sits behind (lexing, parsing, and AST type
// inference happen elsewhere; the core consumes a typed AST). No
// third-party parser targets this upstream contract, so the loader uses
// encoding/json directly: a plain os.ReadFile at the edge, nothing more.
package wirfixture

import (
	"encoding/json"
	"fmt"
	"os"

	"wirlang/internal/typedast"
)

// Load decodes a typedast.Module from the JSON file at path.
func Load(path string) (*typedast.Module, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("wirfixture: read %s: %w", path, err)
	}
	var m typedast.Module
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("wirfixture: decode %s: %w", path, err)
	}
	return &m, nil
}

// Save encodes m as indented JSON to path, the inverse of Load. Used by
// tests and by tooling that wants to snapshot a fixture module.
func Save(path string, m *typedast.Module) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("wirfixture: encode %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("wirfixture: write %s: %w", path, err)
	}
	return nil
}
