// Package theme persists the user's theme preference in a client-local
// file. Unknown or corrupt values fall back to the default rather than
// erroring: a broken preference must never block startup.
package theme

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Theme is the display theme preference
type Theme string

const (
	Light  Theme = "light"
	Dark   Theme = "dark"
	Pastel Theme = "pastel"
	System Theme = "system"
)

// Default is used when no preference is stored or the stored value is
// not a known theme
const Default = System

// Themes lists every selectable theme
var Themes = []Theme{Light, Dark, Pastel, System}

// Valid reports whether t is a known theme
func (t Theme) Valid() bool {
	switch t {
	case Light, Dark, Pastel, System:
		return true
	}
	return false
}

type preference struct {
	Theme Theme `yaml:"theme"`
}

// Store reads and writes the theme preference file
type Store struct {
	path string
}

// NewStore creates a store backed by the given file path
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Get returns the stored preference, or Default when nothing valid is
// stored
func (s *Store) Get() Theme {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return Default
	}

	var pref preference
	if err := yaml.Unmarshal(data, &pref); err != nil || !pref.Theme.Valid() {
		return Default
	}
	return pref.Theme
}

// Set persists the preference. Unknown themes are rejected.
func (s *Store) Set(t Theme) error {
	if !t.Valid() {
		return fmt.Errorf("unknown theme %q", t)
	}

	data, err := yaml.Marshal(preference{Theme: t})
	if err != nil {
		return fmt.Errorf("failed to encode theme preference: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("failed to create preference dir: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write theme preference: %w", err)
	}
	return nil
}
