// Package wirconfig loads the per-project wir.toml manifest: the package
// name and knobs that tune the checker (diagnostic cap, parallelism,
// cache use).
package wirconfig

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

const manifestName = "wir.toml"

// Config is the decoded contents of wir.toml.
type Config struct {
	Package PackageConfig `toml:"package"`
	Check   CheckConfig   `toml:"check"`
}

// PackageConfig names the module being analyzed.
type PackageConfig struct {
	Name string `toml:"name"`
}

// CheckConfig tunes a checking run. The CLI copies MaxDiagnostics and
// Jobs into check.Options and uses DisableCache to skip the disk cache.
type CheckConfig struct {
	MaxDiagnostics int  `toml:"max_diagnostics"`
	Jobs           int  `toml:"jobs"`
	DisableCache   bool `toml:"disable_cache"`
}

// Manifest pairs a decoded Config with the file it came from.
type Manifest struct {
	Path   string
	Root   string
	Config Config
}

// FindManifest walks up from startDir looking for wir.toml.
func FindManifest(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, manifestName)
		if _, statErr := os.Stat(candidate); statErr == nil {
			return candidate, true, nil
		} else if !errors.Is(statErr, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, statErr)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Load locates and decodes wir.toml starting from startDir.
func Load(startDir string) (*Manifest, bool, error) {
	path, ok, err := FindManifest(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	cfg, err := decode(path)
	if err != nil {
		return nil, true, err
	}
	return &Manifest{Path: path, Root: filepath.Dir(path), Config: cfg}, true, nil
}

func decode(path string) (Config, error) {
	var cfg Config
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if !meta.IsDefined("package") {
		return Config{}, fmt.Errorf("%s: missing [package]", path)
	}
	if !meta.IsDefined("package", "name") || strings.TrimSpace(cfg.Package.Name) == "" {
		return Config{}, fmt.Errorf("%s: missing [package].name", path)
	}
	return cfg, nil
}

// Default returns a Config with every knob at its zero-means-default
// value, for use when no wir.toml is found (spec.md ambient stack:
// the checker must run with no manifest at all).
func Default(name string) Config {
	return Config{Package: PackageConfig{Name: name}}
}
