package backend

import (
	"context"
	"math/rand"
	"path/filepath"
	"testing"

	"budget/internal/store"
)

func TestFactory_CreateMemory(t *testing.T) {
	f := NewFactory(nil)

	result, err := f.Create(context.Background(), Config{
		Type:      MemoryBackend,
		SeedCount: 25,
		SeedRand:  rand.New(rand.NewSource(7)),
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if result.Cleanup != nil {
		t.Error("memory backend should not need cleanup")
	}

	got, err := result.Store.List(context.Background(), store.Query{})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(got) != 25 {
		t.Errorf("seeded %d transactions, want 25", len(got))
	}
}

func TestFactory_CreateMemoryUnseeded(t *testing.T) {
	f := NewFactory(nil)

	result, err := f.Create(context.Background(), Config{Type: MemoryBackend})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	got, err := result.Store.List(context.Background(), store.Query{})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("unseeded store holds %d transactions, want 0", len(got))
	}
}

func TestFactory_CreateSQLite(t *testing.T) {
	f := NewFactory(nil)

	result, err := f.Create(context.Background(), Config{
		Type:         SQLiteBackend,
		SQLiteDBPath: filepath.Join(t.TempDir(), "budget.db"),
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if result.Cleanup == nil {
		t.Fatal("sqlite backend must provide cleanup")
	}
	defer result.Cleanup()

	if _, err := result.Store.List(context.Background(), store.Query{}); err != nil {
		t.Errorf("List() on fresh sqlite store error = %v", err)
	}
}

func TestFactory_CreateSQLiteWithoutPath(t *testing.T) {
	f := NewFactory(nil)

	if _, err := f.Create(context.Background(), Config{Type: SQLiteBackend}); err == nil {
		t.Error("expected error for missing database path")
	}
}

func TestFactory_CreateInvalidType(t *testing.T) {
	f := NewFactory(nil)

	if _, err := f.Create(context.Background(), Config{Type: "sheets"}); err == nil {
		t.Error("expected error for invalid backend type")
	}
}

func TestType_IsValid(t *testing.T) {
	tests := []struct {
		t    Type
		want bool
	}{
		{MemoryBackend, true},
		{SQLiteBackend, true},
		{"sheets", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := tt.t.IsValid(); got != tt.want {
			t.Errorf("Type(%q).IsValid() = %v, want %v", tt.t, got, tt.want)
		}
	}
}
