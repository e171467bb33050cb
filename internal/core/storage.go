// Package core wires configuration to concrete registry and report backends.
package core

import (
	"context"
	"fmt"

	"biochemreg/internal/config"
	"biochemreg/internal/infra/persistence/badger"
	"biochemreg/internal/infra/persistence/memory"
	"biochemreg/internal/infra/persistence/postgres"
	"biochemreg/internal/infra/persistence/sqlite"
	"biochemreg/pkg/domain"
)

// StorageDriver identifies a concrete persistent storage implementation.
type StorageDriver string

const (
	StorageMemory   StorageDriver = "memory"   // in-memory only (tests / ephemeral)
	StorageSQLite   StorageDriver = "sqlite"   // embedded sqlite file
	StoragePostgres StorageDriver = "postgres" // PostgreSQL server
	StorageBadger   StorageDriver = "badger"   // embedded badger key-value store
)

// OpenRegistryStore selects a backend from cfg. Defaults to sqlite when the
// driver is unset.
//
//	BIOCHEMREG_STORAGE_DRIVER: memory|sqlite|postgres|badger (default sqlite)
//	BIOCHEMREG_STORAGE_SQLITE_PATH: path to sqlite file (default ./biochemreg.db)
//	BIOCHEMREG_STORAGE_POSTGRES_DSN: postgres DSN when driver=postgres
//	BIOCHEMREG_STORAGE_BADGER_DIR: badger directory when driver=badger
func OpenRegistryStore(ctx context.Context, cfg config.StorageConfig) (domain.RegistryStore, error) {
	driver := cfg.Driver
	if driver == "" {
		driver = string(StorageSQLite)
	}
	switch StorageDriver(driver) {
	case StorageMemory:
		return memory.NewStore(domain.NewSnapshot()), nil
	case StorageSQLite:
		return sqlite.NewStore(ctx, cfg.SQLitePath)
	case StoragePostgres:
		return postgres.NewStore(ctx, cfg.PostgresDSN)
	case StorageBadger:
		return badger.NewStore(badger.Options{Dir: cfg.BadgerDir, SyncWrites: true})
	default:
		return nil, fmt.Errorf("unknown storage driver %s", driver)
	}
}
