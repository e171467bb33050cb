package core

import (
	"context"
	"path/filepath"
	"testing"

	"biochemreg/internal/config"
	"biochemreg/internal/infra/persistence/badger"
	"biochemreg/internal/infra/persistence/memory"
	"biochemreg/internal/infra/persistence/sqlite"
)

func TestOpenRegistryStore_DefaultSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reg.db")
	store, err := OpenRegistryStore(context.Background(), config.StorageConfig{SQLitePath: path})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	defer func() { _ = store.Close() }()
	s, ok := store.(*sqlite.Store)
	if !ok {
		t.Fatalf("expected *sqlite.Store, got %T", store)
	}
	if s.Path() != path {
		t.Fatalf("expected path %s, got %s", path, s.Path())
	}
}

func TestOpenRegistryStore_Memory(t *testing.T) {
	store, err := OpenRegistryStore(context.Background(), config.StorageConfig{Driver: "memory"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if _, ok := store.(*memory.Store); !ok {
		t.Fatalf("expected *memory.Store, got %T", store)
	}
}

func TestOpenRegistryStore_Badger(t *testing.T) {
	store, err := OpenRegistryStore(context.Background(), config.StorageConfig{Driver: "badger", BadgerDir: t.TempDir()})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	defer func() { _ = store.Close() }()
	if _, ok := store.(*badger.Store); !ok {
		t.Fatalf("expected *badger.Store, got %T", store)
	}
}

func TestOpenRegistryStore_Unknown(t *testing.T) {
	if _, err := OpenRegistryStore(context.Background(), config.StorageConfig{Driver: "mongo"}); err == nil {
		t.Fatal("expected error for unknown driver")
	}
}
