package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestReadExport(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "users.json")
	export := `{"users":[{"localId":"u1","email":"a@x.com"},{"localId":"u2","displayName":"B"}]}`
	if err := os.WriteFile(path, []byte(export), 0o600); err != nil {
		t.Fatalf("write export: %v", err)
	}

	records, err := readExport(path)
	if err != nil {
		t.Fatalf("readExport: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("records = %d, want 2", len(records))
	}
	if records[0].UID != "u1" || records[0].Email != "a@x.com" {
		t.Fatalf("first record = %+v", records[0])
	}
	if records[1].DisplayName != "B" {
		t.Fatalf("second record = %+v", records[1])
	}
}

func TestReadExport_MissingFile(t *testing.T) {
	t.Parallel()

	if _, err := readExport(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatal("expected error for missing export file")
	}
}
