package memory

import (
	"context"
	"testing"

	"largeimage/pkg/blockstore"
	"largeimage/pkg/blockstore/storetest"
)

func TestConformance(t *testing.T) {
	storetest.Run(t, func(t *testing.T) blockstore.Store {
		return New()
	})
}

func TestStore_Accounting(t *testing.T) {
	ctx := context.Background()
	s := New()
	defer s.Close()

	if err := s.WriteUnit(ctx, "img/unit-0", make([]byte, 100)); err != nil {
		t.Fatalf("WriteUnit failed: %v", err)
	}
	if err := s.WriteUnit(ctx, "img/unit-1", make([]byte, 50)); err != nil {
		t.Fatalf("WriteUnit failed: %v", err)
	}

	if s.UnitCount() != 2 {
		t.Errorf("UnitCount returned %d, want 2", s.UnitCount())
	}
	if s.TotalSize() != 150 {
		t.Errorf("TotalSize returned %d, want 150", s.TotalSize())
	}
}

func TestStore_CopiesOnWriteAndRead(t *testing.T) {
	ctx := context.Background()
	s := New()
	defer s.Close()

	data := []byte{1, 2, 3}
	if err := s.WriteUnit(ctx, "img/unit-0", data); err != nil {
		t.Fatalf("WriteUnit failed: %v", err)
	}
	data[0] = 9

	got, err := s.ReadUnit(ctx, "img/unit-0")
	if err != nil {
		t.Fatalf("ReadUnit failed: %v", err)
	}
	if got[0] != 1 {
		t.Errorf("Store kept a reference to the written slice")
	}

	got[1] = 9
	again, _ := s.ReadUnit(ctx, "img/unit-0")
	if again[1] != 2 {
		t.Errorf("ReadUnit returned the stored buffer instead of a copy")
	}

	// A same-size rewrite reuses the buffer but must still copy.
	if err := s.WriteUnit(ctx, "img/unit-0", []byte{4, 5, 6}); err != nil {
		t.Fatalf("WriteUnit failed: %v", err)
	}
	again, _ = s.ReadUnit(ctx, "img/unit-0")
	if again[0] != 4 {
		t.Errorf("Rewrite not visible, got %v", again)
	}
}
