package server

import (
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// LocalStorage writes file payloads under a single root directory. Payload
// names are random UUIDs, so collisions are treated as negligible rather than
// handled. Writes are whole-buffer; a failure mid-write can leave a truncated
// file behind (accepted limitation).
type LocalStorage struct {
	root string
}

// NewLocalStorage returns a store rooted at dir. The directory is created on
// first write, not here, so construction never fails.
func NewLocalStorage(dir string) *LocalStorage {
	return &LocalStorage{root: dir}
}

// Root returns the configured storage root.
func (s *LocalStorage) Root() string { return s.root }

// Save writes data to a uniquely named file under the root, creating the root
// if absent, and returns the absolute path of the written file.
func (s *LocalStorage) Save(data []byte) (string, error) {
	if err := os.MkdirAll(s.root, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(s.root, uuid.NewString())
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", err
	}
	return path, nil
}

// Read returns the payload at path.
func (s *LocalStorage) Read(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// Remove deletes the payload at path. Used to clean up orphans when the
// record insert fails after a successful write.
func (s *LocalStorage) Remove(path string) error {
	return os.Remove(path)
}
