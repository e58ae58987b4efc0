//go:build unix

package mmap

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"largeimage/pkg/blockstore"
	"largeimage/pkg/blockstore/storetest"
)

func newTestStore(t *testing.T, initial int64) *Store {
	t.Helper()
	s, err := New(Config{
		Path:          filepath.Join(t.TempDir(), "units.dat"),
		InitialSize:   initial,
		RemoveOnClose: true,
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return s
}

func TestConformance(t *testing.T) {
	storetest.Run(t, func(t *testing.T) blockstore.Store {
		return newTestStore(t, 4096)
	})
}

// TestStore_Growth writes more data than the initial mapping holds.
func TestStore_Growth(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, 4096)
	defer s.Close()

	initial := s.Size()
	units := make([][]byte, 8)
	for i := range units {
		units[i] = bytes.Repeat([]byte{byte(i + 1)}, 3000)
		if err := s.WriteUnit(ctx, blockstore.UnitKey("img", int64(i)), units[i]); err != nil {
			t.Fatalf("WriteUnit %d failed: %v", i, err)
		}
	}

	if s.Size() <= initial {
		t.Errorf("Expected the mapping to grow beyond %d bytes, got %d", initial, s.Size())
	}

	for i, want := range units {
		got, err := s.ReadUnit(ctx, blockstore.UnitKey("img", int64(i)))
		if err != nil {
			t.Fatalf("ReadUnit %d failed: %v", i, err)
		}
		if !bytes.Equal(got, want) {
			t.Errorf("Unit %d changed across growth", i)
		}
	}
}

// TestStore_InPlaceRewrite checks that same-size rewrites reuse the extent.
func TestStore_InPlaceRewrite(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, 4096)
	defer s.Close()

	key := blockstore.UnitKey("img", 0)
	for i := 0; i < 10; i++ {
		if err := s.WriteUnit(ctx, key, bytes.Repeat([]byte{byte(i)}, 1000)); err != nil {
			t.Fatalf("WriteUnit failed: %v", err)
		}
	}

	if s.next != 1000 {
		t.Errorf("Expected one extent of 1000 bytes, next offset is %d", s.next)
	}
	if err := s.Sync(); err != nil {
		t.Errorf("Sync failed: %v", err)
	}
}

func TestStore_RemoveOnClose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scratch", "units.dat")
	s, err := New(Config{Path: path, InitialSize: 4096, RemoveOnClose: true})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("Expected backing file to be removed, got %v", err)
	}
}

// TestStore_FailedGrowthKeepsMapping breaks the backing file so that growth
// fails, then expects existing units to stay readable.
func TestStore_FailedGrowthKeepsMapping(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, 4096)
	defer s.Close()

	key := blockstore.UnitKey("img", 0)
	want := bytes.Repeat([]byte{7}, 100)
	if err := s.WriteUnit(ctx, key, want); err != nil {
		t.Fatalf("WriteUnit failed: %v", err)
	}

	if err := s.file.Close(); err != nil {
		t.Fatalf("Failed to close backing file: %v", err)
	}
	if err := s.WriteUnit(ctx, blockstore.UnitKey("img", 1), make([]byte, 8192)); err == nil {
		t.Fatal("Expected growth to fail on a closed file, got nil")
	}

	got, err := s.ReadUnit(ctx, key)
	if err != nil {
		t.Fatalf("ReadUnit after failed growth failed: %v", err)
	}
	if !bytes.Equal(got, want) {
		t.Error("Unit changed across a failed growth")
	}
	if err := s.WriteUnit(ctx, key, want); err != nil {
		t.Errorf("In-place rewrite after failed growth failed: %v", err)
	}
	if err := s.HealthCheck(ctx); err != nil {
		t.Errorf("Expected mapping to stay healthy, got %v", err)
	}
}

// TestStore_LostMappingReturnsErrors checks that reads and writes fail
// cleanly once the mapping is gone.
func TestStore_LostMappingReturnsErrors(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, 4096)
	defer s.Close()

	key := blockstore.UnitKey("img", 0)
	if err := s.WriteUnit(ctx, key, make([]byte, 100)); err != nil {
		t.Fatalf("WriteUnit failed: %v", err)
	}

	s.mu.Lock()
	data := s.data
	s.data = nil
	s.mu.Unlock()
	defer func() { s.data = data }()

	if _, err := s.ReadUnit(ctx, key); !errors.Is(err, errMappingLost) {
		t.Errorf("Expected errMappingLost from ReadUnit, got %v", err)
	}
	if err := s.WriteUnit(ctx, key, make([]byte, 100)); !errors.Is(err, errMappingLost) {
		t.Errorf("Expected errMappingLost from WriteUnit, got %v", err)
	}
	if err := s.HealthCheck(ctx); err == nil {
		t.Error("Expected HealthCheck to fail, got nil")
	}
}
