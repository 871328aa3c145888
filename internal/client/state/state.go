// Package state persists the client's durable state: the owner token and
// the display language.
//
// State is a plain value passed to whatever needs it. It is written to disk
// only at defined transitions (sign-in, sign-out, language change), never
// on every mutation.
package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Display languages.
const (
	English = "en"
	Hindi   = "hi"
)

// State is the durable client state.
type State struct {
	Token    string `json:"token,omitempty"`
	Language string `json:"language"`
}

// SignedIn reports whether a token is held.
func (s State) SignedIn() bool { return s.Token != "" }

// ValidLanguage reports whether lang is a supported display language.
func ValidLanguage(lang string) bool {
	return lang == English || lang == Hindi
}

// Store reads and writes State as one JSON file.
type Store struct {
	path string
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

// DefaultPath is state.json under the user's config directory.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("state: locating config dir: %w", err)
	}
	return filepath.Join(dir, "sehyaatri", "state.json"), nil
}

// Load returns the stored state. A missing file is the zero state in English.
func (s *Store) Load() (State, error) {
	st := State{Language: English}

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return st, nil
	}
	if err != nil {
		return st, fmt.Errorf("state: reading %s: %w", s.path, err)
	}

	if err := json.Unmarshal(data, &st); err != nil {
		return State{Language: English}, fmt.Errorf("state: parsing %s: %w", s.path, err)
	}
	if !ValidLanguage(st.Language) {
		st.Language = English
	}
	return st, nil
}

// Save replaces the stored state. The file holds a bearer token, so it is
// created owner-only.
func (s *Store) Save(st State) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("state: creating dir: %w", err)
	}

	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("state: encoding: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".state-*.json")
	if err != nil {
		return fmt.Errorf("state: creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("state: writing: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("state: writing: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("state: replacing %s: %w", s.path, err)
	}
	return nil
}
