package fs

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"largeimage/pkg/blockstore"
	"largeimage/pkg/blockstore/storetest"
)

func TestConformance(t *testing.T) {
	storetest.Run(t, func(t *testing.T) blockstore.Store {
		s, err := NewWithPath(filepath.Join(t.TempDir(), "units"))
		if err != nil {
			t.Fatalf("NewWithPath failed: %v", err)
		}
		return s
	})
}

func TestStore_UnitLayout(t *testing.T) {
	ctx := context.Background()
	root := filepath.Join(t.TempDir(), "units")

	s, err := New(Config{Root: root, KeepFiles: true})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if err := s.WriteUnit(ctx, blockstore.UnitKey("img", 4), []byte("abc")); err != nil {
		t.Fatalf("WriteUnit failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(root, "img", "unit-4"))
	if err != nil {
		t.Fatalf("Unit file not found: %v", err)
	}
	if string(data) != "abc" {
		t.Errorf("Unit file contains %q, want %q", data, "abc")
	}

	entries, err := os.ReadDir(filepath.Join(root, "img"))
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("Expected only the unit file after a write, found %d entries", len(entries))
	}

	if err := s.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if _, err := os.Stat(root); err != nil {
		t.Errorf("Root should survive Close with KeepFiles: %v", err)
	}
}

func TestStore_IgnoresTemporaryFiles(t *testing.T) {
	ctx := context.Background()
	s, err := NewWithPath(filepath.Join(t.TempDir(), "units"))
	if err != nil {
		t.Fatalf("NewWithPath failed: %v", err)
	}
	defer s.Close()

	if err := s.WriteUnit(ctx, "img/unit-0", []byte("x")); err != nil {
		t.Fatalf("WriteUnit failed: %v", err)
	}
	if err := os.WriteFile(filepath.Join(s.root, "img", ".unit-123"), []byte("partial"), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	keys, err := s.ListByPrefix(ctx, "img/")
	if err != nil {
		t.Fatalf("ListByPrefix failed: %v", err)
	}
	if len(keys) != 1 || keys[0] != "img/unit-0" {
		t.Errorf("Expected [img/unit-0], got %v", keys)
	}
}

func TestStore_DeleteUnitPrunesImageDirectory(t *testing.T) {
	ctx := context.Background()
	s, err := NewWithPath(filepath.Join(t.TempDir(), "units"))
	if err != nil {
		t.Fatalf("NewWithPath failed: %v", err)
	}
	defer s.Close()

	if err := s.WriteUnit(ctx, "img/unit-0", []byte("x")); err != nil {
		t.Fatalf("WriteUnit failed: %v", err)
	}
	if err := s.DeleteUnit(ctx, "img/unit-0"); err != nil {
		t.Fatalf("DeleteUnit failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(s.root, "img")); !os.IsNotExist(err) {
		t.Errorf("Expected empty image directory to be removed, got %v", err)
	}
}

func TestStore_RemoveOnClose(t *testing.T) {
	root := filepath.Join(t.TempDir(), "scratch")
	s, err := NewWithPath(root)
	if err != nil {
		t.Fatalf("NewWithPath failed: %v", err)
	}

	if err := s.WriteUnit(context.Background(), "img/unit-0", []byte("x")); err != nil {
		t.Fatalf("WriteUnit failed: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	if _, err := os.Stat(root); !os.IsNotExist(err) {
		t.Errorf("Expected root to be removed, got %v", err)
	}
}

func TestNew_RequiresDirectory(t *testing.T) {
	if _, err := New(Config{}); err == nil {
		t.Error("Expected an error for an empty root")
	}

	file := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(file, nil, 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	if _, err := New(Config{Root: file}); err == nil {
		t.Error("Expected an error for a root that is a file")
	}
}
