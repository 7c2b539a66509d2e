// Copyright (c) 2026 CourseScope. All rights reserved.
// Author: dev@coursescope.app

/*
Package storage provides the durable key-value store for client state.

It is the process's analog of browser local storage: a small set of string
keys (session token, serialized profile, theme preference) that survive
restarts.

Architecture:

  - Store: Abstracted interface so services never touch the filesystem.
  - FileStore: JSON file under the user's config directory.
  - MemoryStore: In-memory implementation for tests.
*/
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// # Well-Known Keys

const (
	// KeyToken holds the raw bearer token.
	KeyToken = "token"
	// KeyUser holds the JSON-serialized user profile.
	KeyUser = "user"
	// KeyTheme holds the UI theme preference ("light" or "dark").
	KeyTheme = "theme"
)

// Store is the contract for durable client state.
//
// # Semantics
//
// Get returns ("", false) for absent keys. Delete of an absent key is a no-op;
// clearing already-cleared state must stay idempotent because the expiry flow
// may fire while state is already gone.
type Store interface {
	Get(key string) (string, bool)
	Set(key, value string) error
	Delete(key string) error
}

// # File-Backed Implementation

// FileStore persists all keys as a single JSON object in one file.
//
// # Concurrency
//
// Safe for concurrent use within one process. Multi-process coordination is
// out of scope (mirrors last-writer-wins of browser local storage).
type FileStore struct {
	path string

	mu     sync.Mutex
	values map[string]string
}

// NewFileStore opens (or creates) the state file inside dir.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("storage: cannot create state dir: %w", err)
	}

	store := &FileStore{
		path:   filepath.Join(dir, "state.json"),
		values: map[string]string{},
	}

	raw, err := os.ReadFile(store.path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		// First run: start empty.
	case err != nil:
		return nil, fmt.Errorf("storage: cannot read state file: %w", err)
	default:
		if err := json.Unmarshal(raw, &store.values); err != nil {
			// A corrupt state file means a lost session, not a broken app.
			store.values = map[string]string{}
		}
	}

	return store, nil
}

// Get returns the value for key and whether it was present.
func (store *FileStore) Get(key string) (string, bool) {
	store.mu.Lock()
	defer store.mu.Unlock()

	value, ok := store.values[key]
	return value, ok
}

// Set stores value under key and flushes to disk.
func (store *FileStore) Set(key, value string) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	store.values[key] = value
	return store.flushLocked()
}

// Delete removes key and flushes to disk. Deleting an absent key is a no-op.
func (store *FileStore) Delete(key string) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	if _, ok := store.values[key]; !ok {
		return nil
	}
	delete(store.values, key)
	return store.flushLocked()
}

// flushLocked writes the whole map atomically (write temp, then rename).
func (store *FileStore) flushLocked() error {
	raw, err := json.MarshalIndent(store.values, "", "  ")
	if err != nil {
		return fmt.Errorf("storage: cannot encode state: %w", err)
	}

	tmp := store.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return fmt.Errorf("storage: cannot write state file: %w", err)
	}
	if err := os.Rename(tmp, store.path); err != nil {
		return fmt.Errorf("storage: cannot replace state file: %w", err)
	}
	return nil
}

// # In-Memory Implementation

// MemoryStore is a volatile [Store] for tests.
type MemoryStore struct {
	mu     sync.Mutex
	values map[string]string
}

// NewMemoryStore constructs an empty [MemoryStore].
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: map[string]string{}}
}

// Get returns the value for key and whether it was present.
func (store *MemoryStore) Get(key string) (string, bool) {
	store.mu.Lock()
	defer store.mu.Unlock()

	value, ok := store.values[key]
	return value, ok
}

// Set stores value under key.
func (store *MemoryStore) Set(key, value string) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	store.values[key] = value
	return nil
}

// Delete removes key. Deleting an absent key is a no-op.
func (store *MemoryStore) Delete(key string) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	delete(store.values, key)
	return nil
}
