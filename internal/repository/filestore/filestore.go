// Package filestore implements the repository interfaces on flat JSON files.
//
// FILE LAYOUT:
//
//	<dir>/users.json     → [{"id":1,"email":"...","name":"","password_hash":"...","role":"owner"}, ...]
//	<dir>/feedback.json  → [{"id":1,"user_email":null,"payload":{...},"created_at":"..."}, ...]
//
// Each collection is read in full on every operation and rewritten in full
// on every mutation. Two rules keep that safe inside one process:
//
//  1. SINGLE WRITER: every read-modify-write of a collection holds that
//     collection's mutex, so two concurrent appends can't clobber each other.
//  2. ATOMIC REPLACE: a write goes to a temp file in the same directory and is
//     renamed over the original, so a crash mid-write leaves the previous
//     version intact rather than a truncated array.
//
// Separate processes sharing one data directory are NOT coordinated.
package filestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/sehyaatri/sehyaatri/internal/model"
)

const (
	accountsFile = "users.json"
	feedbackFile = "feedback.json"
)

// Store owns both collections under one data directory.
type Store struct {
	dir      string
	accounts *AccountStore
	feedback *FeedbackStore
}

// New prepares dir, seeds missing collection files with "[]", and checks
// that every existing file parses. Any failure here is a startup failure.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("filestore: creating data dir %s: %w", dir, err)
	}

	accounts := &collection[model.Account]{path: filepath.Join(dir, accountsFile)}
	feedback := &collection[model.FeedbackRecord]{path: filepath.Join(dir, feedbackFile)}

	if err := accounts.init(); err != nil {
		return nil, err
	}
	if err := feedback.init(); err != nil {
		return nil, err
	}

	return &Store{
		dir:      dir,
		accounts: &AccountStore{c: accounts},
		feedback: &FeedbackStore{c: feedback},
	}, nil
}

// Accounts returns the account collection.
func (s *Store) Accounts() *AccountStore { return s.accounts }

// Feedback returns the feedback collection.
func (s *Store) Feedback() *FeedbackStore { return s.feedback }

// Close is a no-op; files are not held open between operations.
func (s *Store) Close() error { return nil }

// collection is one JSON array file guarded by a mutex.
type collection[T any] struct {
	path string
	mu   sync.Mutex
}

func (c *collection[T]) init() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, err := os.Stat(c.path)
	if errors.Is(err, fs.ErrNotExist) {
		if err := c.saveLocked([]T{}); err != nil {
			return fmt.Errorf("filestore: seeding %s: %w", c.path, err)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("filestore: stat %s: %w", c.path, err)
	}

	if _, err := c.loadLocked(); err != nil {
		return err
	}
	return nil
}

// loadLocked reads the whole array. Caller holds c.mu.
func (c *collection[T]) loadLocked() ([]T, error) {
	data, err := os.ReadFile(c.path)
	if err != nil {
		return nil, fmt.Errorf("filestore: reading %s: %w", c.path, err)
	}

	var items []T
	if len(data) == 0 {
		return items, nil
	}
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("filestore: decoding %s: %w", c.path, err)
	}
	return items, nil
}

// saveLocked rewrites the whole array via temp file + rename. Caller holds c.mu.
func (c *collection[T]) saveLocked(items []T) error {
	if items == nil {
		items = []T{}
	}

	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("filestore: encoding %s: %w", c.path, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(c.path), filepath.Base(c.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("filestore: creating temp file for %s: %w", c.path, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("filestore: writing %s: %w", tmpName, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("filestore: syncing %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("filestore: closing %s: %w", tmpName, err)
	}

	if err := os.Rename(tmpName, c.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("filestore: replacing %s: %w", c.path, err)
	}
	return nil
}

// update runs fn on the loaded items and saves whatever it returns.
// If fn returns an error nothing is written.
func (c *collection[T]) update(ctx context.Context, fn func([]T) ([]T, error)) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	items, err := c.loadLocked()
	if err != nil {
		return err
	}

	items, err = fn(items)
	if err != nil {
		return err
	}

	return c.saveLocked(items)
}

// read returns a snapshot of the items.
func (c *collection[T]) read(ctx context.Context) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	return c.loadLocked()
}
