package kv

import (
	"os"
	"path/filepath"
	"testing"
)

func backends(t *testing.T) map[string]Store {
	t.Helper()
	dir := t.TempDir()
	f, err := OpenFile(filepath.Join(dir, "files"))
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	s, err := OpenSQLite(filepath.Join(dir, "kv.db"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return map[string]Store{
		BackendMemory: NewMemory(),
		BackendFile:   f,
		BackendSQLite: s,
	}
}

func TestStoreContract(t *testing.T) {
	for name, st := range backends(t) {
		t.Run(name, func(t *testing.T) {
			if _, ok, err := st.Get("missing"); err != nil || ok {
				t.Fatalf("Get(missing) = ok %v, err %v", ok, err)
			}

			if err := st.Set("k", `{"a":1}`); err != nil {
				t.Fatalf("Set: %v", err)
			}
			if err := st.Set("k", `{"a":2}`); err != nil {
				t.Fatalf("Set overwrite: %v", err)
			}
			v, ok, err := st.Get("k")
			if err != nil || !ok || v != `{"a":2}` {
				t.Fatalf("Get = %q, %v, %v; want last write", v, ok, err)
			}

			if err := st.Remove("k"); err != nil {
				t.Fatalf("Remove: %v", err)
			}
			if _, ok, _ := st.Get("k"); ok {
				t.Error("key still present after Remove")
			}
			if err := st.Remove("k"); err != nil {
				t.Errorf("Remove of absent key: %v", err)
			}
		})
	}
}

func TestFileKeysWithSeparators(t *testing.T) {
	f, err := OpenFile(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if err := f.Set("a/b", "x"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if v, ok, _ := f.Get("a/b"); !ok || v != "x" {
		t.Errorf("Get = %q, %v", v, ok)
	}
}

func TestFileLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	f, err := OpenFile(dir)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		if err := f.Set("k", "v"); err != nil {
			t.Fatal(err)
		}
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("expected 1 file, got %d", len(entries))
	}
}

func TestSQLitePersistsAcrossOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kv.db")
	s, err := OpenSQLite(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Set("k", "v"); err != nil {
		t.Fatal(err)
	}
	s.Close()

	s2, err := OpenSQLite(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s2.Close()
	if v, ok, _ := s2.Get("k"); !ok || v != "v" {
		t.Errorf("Get after reopen = %q, %v", v, ok)
	}
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		backend  string
		location string
		wantErr  bool
	}{
		{"memory", "", false},
		{"FILE", filepath.Join(dir, "f"), false},
		{"sqlite", filepath.Join(dir, "x.db"), false},
		{"file", "", true},
		{"redis", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.backend, func(t *testing.T) {
			st, err := Open(tt.backend, tt.location)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Open(%q) err = %v, wantErr %v", tt.backend, err, tt.wantErr)
			}
			if st != nil {
				st.Close()
			}
		})
	}
}
