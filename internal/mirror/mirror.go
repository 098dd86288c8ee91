// Package mirror is the durable client-side cache of each feature's
// collection. It is the state of record when the remote is unreachable, so
// both operations are total: a failed load degrades to the caller's fallback
// and a failed save is a silent no-op; the UI must never break because the
// disk did.
package mirror

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gofrs/flock"
)

// Store persists one JSON document per feature key under a state directory.
type Store struct {
	dir string
	mu  sync.Mutex
}

// New opens a store rooted at dir, creating it if possible. A store whose
// directory cannot be created still satisfies the contract: loads report
// nothing cached and saves drop silently.
func New(dir string) *Store {
	_ = os.MkdirAll(dir, 0755)
	return &Store{dir: dir}
}

// Dir returns the state directory.
func (s *Store) Dir() string { return s.dir }

// Load reads the document stored under key into out. It returns false, and
// leaves out untouched so the caller's fallback survives, when nothing is
// stored or the stored bytes cannot be parsed.
func (s *Store) Load(key string, out any) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	lock := flock.New(s.lockPath(key))
	if ok, err := lock.TryRLock(); err == nil && ok {
		defer lock.Unlock()
	}

	data, err := os.ReadFile(s.path(key))
	if err != nil {
		return false
	}
	return json.Unmarshal(data, out) == nil
}

// Save writes v under key using an atomic temp-file rename. Failures are
// dropped; the in-memory state the caller just rendered stays authoritative.
func (s *Store) Save(key string, v any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return
	}

	lock := flock.New(s.lockPath(key))
	if ok, err := lock.TryLock(); err == nil && ok {
		defer lock.Unlock()
	}

	tmp, err := os.CreateTemp(s.dir, "."+s.fileName(key)+".tmp-*")
	if err != nil {
		return
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return
	}
	if err := os.Rename(tmpName, s.path(key)); err != nil {
		os.Remove(tmpName)
	}
}

// Remove deletes the document stored under key. Missing files are fine.
func (s *Store) Remove(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_ = os.Remove(s.path(key))
}

func (s *Store) path(key string) string {
	return filepath.Join(s.dir, s.fileName(key)+".json")
}

func (s *Store) lockPath(key string) string {
	return filepath.Join(s.dir, "."+s.fileName(key)+".lock")
}

// fileName maps a feature key like "trackers/weight" onto a flat file name.
func (s *Store) fileName(key string) string {
	key = strings.ReplaceAll(key, string(os.PathSeparator), "-")
	key = strings.ReplaceAll(key, "/", "-")
	if key == "" {
		key = "default"
	}
	return key
}
