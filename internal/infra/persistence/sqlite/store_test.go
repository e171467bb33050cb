package sqlite

import (
	"context"
	"path/filepath"
	"reflect"
	"testing"

	"biochemreg/pkg/domain"
)

func sampleSnapshot() domain.Snapshot {
	snap := domain.NewSnapshot()
	c := domain.NewCompound("cpd00027")
	c.Name = "D-Glucose"
	c.Formula = "C6H12O6"
	c.Mass = 180.16
	snap.Compounds[c.ID] = c
	snap.Names[c.ID] = []string{"D-Glucose"}
	snap.Aliases[c.ID] = map[string][]string{"KEGG": {"C00031"}, "MetaCyc": {"Glucopyranose"}}
	snap.Structures = []domain.StructureRecord{
		{CompoundID: c.ID, Format: domain.FormatInChIKey, Value: "WQZGKKKJIJFFOK-GASJEMHNSA-N", Tier: domain.TierUnique},
		{CompoundID: c.ID, Format: domain.FormatInChIKey, Value: "WQZGKKKJIJFFOK-GASJEMHNSA-M", Tier: domain.TierCharged},
	}
	return snap
}

func TestSQLiteStorePersistAndReload(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "registry.db")
	store, err := NewStore(ctx, path)
	if err != nil {
		t.Skipf("sqlite unavailable: %v", err)
	}
	empty, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("load empty: %v", err)
	}
	if len(empty.Compounds) != 0 {
		t.Fatalf("expected empty registry, got %d compounds", len(empty.Compounds))
	}
	if err := store.Save(ctx, sampleSnapshot()); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reloaded, err := NewStore(ctx, path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	t.Cleanup(func() { _ = reloaded.Close() })
	if reloaded.Path() != path {
		t.Fatalf("unexpected path %s", reloaded.Path())
	}
	got, err := reloaded.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !reflect.DeepEqual(got, sampleSnapshot()) {
		t.Fatalf("round trip mismatch:\nwant %+v\ngot  %+v", sampleSnapshot(), got)
	}
}

func TestSQLiteStoreSaveOverwritesBuckets(t *testing.T) {
	ctx := context.Background()
	store, err := NewStore(ctx, filepath.Join(t.TempDir(), "state.db"))
	if err != nil {
		t.Skipf("sqlite unavailable: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	if err := store.Save(ctx, sampleSnapshot()); err != nil {
		t.Fatalf("save: %v", err)
	}
	next := sampleSnapshot()
	next.Names["cpd00027"] = append(next.Names["cpd00027"], "Dextrose")
	if err := store.Save(ctx, next); err != nil {
		t.Fatalf("second save: %v", err)
	}
	var count int
	if err := store.DB().QueryRow(`SELECT COUNT(*) FROM state`).Scan(&count); err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 4 {
		t.Fatalf("expected 4 bucket rows, got %d", count)
	}
	got, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if want := []string{"D-Glucose", "Dextrose"}; !reflect.DeepEqual(got.Names["cpd00027"], want) {
		t.Fatalf("names = %v, want %v", got.Names["cpd00027"], want)
	}
}

func TestSQLiteStoreSaveHonoursCancelledContext(t *testing.T) {
	store, err := NewStore(context.Background(), filepath.Join(t.TempDir(), "state.db"))
	if err != nil {
		t.Skipf("sqlite unavailable: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := store.Save(ctx, sampleSnapshot()); err == nil {
		t.Fatalf("expected error for cancelled context")
	}
	got, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got.Compounds) != 0 {
		t.Fatalf("cancelled save must not persist, got %d compounds", len(got.Compounds))
	}
}
