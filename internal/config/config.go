// Package config loads the analyzer manifest: the handful of knobs
// spec.md leaves to driver policy rather than to the analyzer itself
// (which module is the implicit default import, and the stable module
// search order diagnostics suggest names from).
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Manifest is the top-level shape of analyzer.yaml.
type Manifest struct {
	// DefaultImports lists the implicit default-import modules (spec.md
	// §4.6/§6). Only membership of "Basics" is consulted: when it is
	// listed, the Checker imports Basics exposing everything; other
	// entries are not imported. The reference manifest sets this to
	// ["Basics"].
	DefaultImports []string `yaml:"defaultImports"`

	// ModuleSearchOrder is the stable order diagnostics walk when
	// suggesting a module name for a MissingModule error ("did you mean
	// one of: ..."). It never drives file I/O; this package does not
	// resolve paths to files.
	ModuleSearchOrder []string `yaml:"moduleSearchOrder"`
}

// Load reads and validates a Manifest from path.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: failed to read manifest: %w", err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("config: failed to parse manifest: %w", err)
	}

	if len(m.DefaultImports) == 0 {
		return nil, fmt.Errorf("config: manifest missing required field: defaultImports")
	}

	return &m, nil
}

// Default returns the manifest this repo ships when no analyzer.yaml is
// present on disk: a single implicit "Basics" import and no search-order
// hints beyond it.
func Default() *Manifest {
	return &Manifest{DefaultImports: []string{"Basics"}, ModuleSearchOrder: []string{"Basics"}}
}

// IsDefaultImport reports whether name is one of the manifest's implicit
// default imports.
func (m *Manifest) IsDefaultImport(name string) bool {
	for _, n := range m.DefaultImports {
		if n == name {
			return true
		}
	}
	return false
}

// SuggestModule returns the first entry of ModuleSearchOrder that is not
// exactly name, used by diagnostic rendering to propose "did you mean
// X?" without requiring any filesystem access.
func (m *Manifest) SuggestModule(name string) (string, bool) {
	for _, n := range m.ModuleSearchOrder {
		if n != name {
			return n, true
		}
	}
	return "", false
}
