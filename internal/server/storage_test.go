package server

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLocalStorage_SaveCreatesRoot(t *testing.T) {
	root := filepath.Join(t.TempDir(), "nested", "files_manager")
	s := NewLocalStorage(root)

	path, err := s.Save([]byte("hello"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if filepath.Dir(path) != root {
		t.Errorf("payload %q not under root %q", path, root)
	}

	got, err := s.Read(path)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(got) != "hello" {
		t.Errorf("read back %q", got)
	}
}

func TestLocalStorage_UniqueNames(t *testing.T) {
	s := NewLocalStorage(t.TempDir())

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		path, err := s.Save([]byte("x"))
		if err != nil {
			t.Fatalf("Save: %v", err)
		}
		if seen[path] {
			t.Fatalf("duplicate payload path %q", path)
		}
		seen[path] = true
	}
}

func TestLocalStorage_Remove(t *testing.T) {
	s := NewLocalStorage(t.TempDir())

	path, err := s.Save([]byte("orphan"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := s.Remove(path); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("payload still present after Remove")
	}
}
