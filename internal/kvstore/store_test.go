package kvstore

import (
	"os"
	"path/filepath"
	"testing"
)

type record struct {
	LibraryID   int64  `json:"library_id"`
	LibraryName string `json:"library_name"`
}

func TestStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")
	s := Open(path, nil)

	want := record{LibraryID: 42, LibraryName: "M2-SCI Mr John"}
	if err := s.Set("key-a", want); err != nil {
		t.Fatalf("Set: %v", err)
	}

	// Reopen simulates a process restart.
	reopened := Open(path, nil)
	var got record
	if !reopened.Get("key-a", &got) {
		t.Fatal("Get after reopen should find the key")
	}
	if got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestStoreMissingKey(t *testing.T) {
	s := Open(filepath.Join(t.TempDir(), "store.json"), nil)
	var got record
	if s.Get("absent", &got) {
		t.Error("Get should report false for a missing key")
	}
}

func TestStoreCorruptFileStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write corrupt file: %v", err)
	}

	s := Open(path, nil)
	if s.Len() != 0 {
		t.Errorf("Len = %d, want 0 for corrupt file", s.Len())
	}

	// The store must remain writable after recovering from corruption.
	if err := s.Set("key", record{LibraryID: 1}); err != nil {
		t.Fatalf("Set after corruption: %v", err)
	}
}

func TestStoreRemoveAndClear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")
	s := Open(path, nil)

	if err := s.Set("a", record{LibraryID: 1}); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := s.Set("b", record{LibraryID: 2}); err != nil {
		t.Fatalf("Set: %v", err)
	}

	if err := s.Remove("a"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if err := s.Remove("a"); err != nil {
		t.Fatalf("Remove of missing key should be a no-op: %v", err)
	}
	if s.Len() != 1 {
		t.Errorf("Len = %d, want 1", s.Len())
	}

	if err := s.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if s.Len() != 0 {
		t.Errorf("Len after Clear = %d, want 0", s.Len())
	}
}

func TestStoreEmptyPathInMemory(t *testing.T) {
	s := Open("", nil)
	if err := s.Set("key", record{LibraryID: 7}); err != nil {
		t.Fatalf("Set on in-memory store: %v", err)
	}
	var got record
	if !s.Get("key", &got) || got.LibraryID != 7 {
		t.Errorf("in-memory store should hold values, got %+v", got)
	}
}
