package crypto

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// SecretStore persists encrypted cache entries under derived names.
//
// The store is an injectable collaborator so tests can substitute an
// in-memory implementation. No implementation performs locking around a
// single entry: concurrent writers for the same name may race and the last
// write wins. The payload is idempotent up to which generation wins, so
// this is an accepted limitation rather than a correctness violation.
type SecretStore interface {
	// Load returns the stored bytes for name, or ErrCacheMiss if no entry
	// exists. Any other failure wraps ErrCacheRead.
	Load(name string) ([]byte, error)

	// Store persists data under name, replacing any previous entry.
	// Failures wrap ErrCacheWrite.
	Store(name string, data []byte) error
}

// validateEntryName enforces that a derived entry name resolves to a single
// relative path segment. Defends against path traversal if the name
// derivation were ever weakened.
func validateEntryName(name string) error {
	if name == "" || name == "." || name == ".." ||
		filepath.IsAbs(name) || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("%w: %q", ErrUnsafeCachePath, name)
	}
	return nil
}

// FileStore keeps cache entries as files in a single application-private
// directory. Entries never expire on their own; callers that need rotation
// remove entries explicitly.
type FileStore struct {
	dir string
}

var _ SecretStore = (*FileStore)(nil)

// NewFileStore creates a store rooted at dir. The directory is created on
// first write, not here.
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

// Load reads the entry file for name.
func (s *FileStore) Load(name string) ([]byte, error) {
	if err := validateEntryName(name); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrCacheMiss, name)
		}
		return nil, fmt.Errorf("%w: %v", ErrCacheRead, err)
	}
	return data, nil
}

// Store writes the entry file for name with owner-only permissions.
func (s *FileStore) Store(name string, data []byte) error {
	if err := validateEntryName(name); err != nil {
		return err
	}
	if err := os.MkdirAll(s.dir, 0700); err != nil {
		return fmt.Errorf("%w: %v", ErrCacheWrite, err)
	}
	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0600); err != nil {
		return fmt.Errorf("%w: %v", ErrCacheWrite, err)
	}
	return nil
}

// Remove deletes the entry for name. Removing an absent entry is not an
// error. This is the rotation hook: the engine itself never evicts.
func (s *FileStore) Remove(name string) error {
	if err := validateEntryName(name); err != nil {
		return err
	}
	if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("%w: %v", ErrCacheWrite, err)
	}
	return nil
}

// MemoryStore is an in-memory SecretStore for tests.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string][]byte
}

var _ SecretStore = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string][]byte)}
}

// Load returns the stored bytes for name.
func (s *MemoryStore) Load(name string) ([]byte, error) {
	if err := validateEntryName(name); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.entries[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrCacheMiss, name)
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

// Store records data under name.
func (s *MemoryStore) Store(name string, data []byte) error {
	if err := validateEntryName(name); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := make([]byte, len(data))
	copy(cp, data)
	s.entries[name] = cp
	return nil
}

// Len returns the number of stored entries.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
