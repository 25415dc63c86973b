package store

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileStorage_LoadMissingFile(t *testing.T) {
	fs := NewFileStorage(filepath.Join(t.TempDir(), "missing.json"))

	data, err := fs.Load()
	if err != nil {
		t.Fatalf("Load(missing) error: %v, want nil", err)
	}
	if data != nil {
		t.Errorf("Load(missing) = %q, want nil", data)
	}
}

func TestFileStorage_SaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "finboard.json")
	fs := NewFileStorage(path)

	want := []byte(`{"widgets":[],"theme":"dark"}`)
	if err := fs.Save(want); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	got, err := fs.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if string(got) != string(want) {
		t.Errorf("Load() = %s, want %s", got, want)
	}
}

func TestFileStorage_SaveReplacesAtomically(t *testing.T) {
	dir := t.TempDir()
	fs := NewFileStorage(filepath.Join(dir, "finboard.json"))

	_ = fs.Save([]byte(`first`))
	if err := fs.Save([]byte(`second`)); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	got, _ := fs.Load()
	if string(got) != "second" {
		t.Errorf("Load() = %s, want second", got)
	}

	// no temp files left behind
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir() error: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("directory has %d entries, want 1 (no leftover temp files)", len(entries))
	}
}

func TestMemoryStorage_RoundTrip(t *testing.T) {
	ms := NewMemoryStorage()

	if data, err := ms.Load(); err != nil || data != nil {
		t.Errorf("Load(empty) = %q, %v, want nil, nil", data, err)
	}

	if err := ms.Save([]byte(`blob`)); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	got, err := ms.Load()
	if err != nil || string(got) != "blob" {
		t.Errorf("Load() = %s, %v, want blob, nil", got, err)
	}

	// the returned slice is a copy
	got[0] = 'X'
	again, _ := ms.Load()
	if string(again) != "blob" {
		t.Error("Load() returned a view into the storage's own buffer")
	}
}
