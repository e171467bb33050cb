package fs

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"biochemreg/internal/blob/core"
)

func TestFilesystemStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	s, err := New(root)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if s.Driver() != core.DriverFilesystem {
		t.Fatalf("driver = %s", s.Driver())
	}
	info, err := s.Put(ctx, "batch.rpt", strings.NewReader("KEGG:C00031\tcpd00027\n"), core.PutOptions{
		ContentType: "text/tab-separated-values",
		Metadata:    map[string]string{"run-id": "r1"},
	})
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if info.Size != int64(len("KEGG:C00031\tcpd00027\n")) || info.ETag == "" {
		t.Fatalf("unexpected info %+v", info)
	}
	if !strings.HasPrefix(info.URL, "file://") {
		t.Fatalf("expected file url, got %s", info.URL)
	}
	if _, err := os.Stat(filepath.Join(root, "batch.rpt")); err != nil {
		t.Fatalf("report not on disk: %v", err)
	}

	got, rc, err := s.Get(ctx, "batch.rpt")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	body, _ := io.ReadAll(rc)
	_ = rc.Close()
	if string(body) != "KEGG:C00031\tcpd00027\n" || got.Metadata["run-id"] != "r1" {
		t.Fatalf("get mismatch: %q %+v", body, got)
	}

	list, err := s.List(ctx, "")
	if err != nil || len(list) != 1 || list[0].Key != "batch.rpt" {
		t.Fatalf("list = %+v, %v", list, err)
	}

	ok, err := s.Delete(ctx, "batch.rpt")
	if err != nil || !ok {
		t.Fatalf("delete = %v, %v", ok, err)
	}
	ok, err = s.Delete(ctx, "batch.rpt")
	if err != nil || ok {
		t.Fatalf("second delete = %v, %v", ok, err)
	}
	if _, err := s.Head(ctx, "batch.rpt"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, _, err := s.Get(ctx, "batch.rpt"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestFilesystemStorePutReplaces(t *testing.T) {
	ctx := context.Background()
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	first, err := s.Put(ctx, "runs/a.rpt", strings.NewReader("first"), core.PutOptions{})
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	second, err := s.Put(ctx, "runs/a.rpt", strings.NewReader("second run"), core.PutOptions{})
	if err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	if second.ETag == first.ETag || second.Size != int64(len("second run")) {
		t.Fatalf("overwrite not applied: %+v", second)
	}
	_, rc, err := s.Get(ctx, "runs/a.rpt")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer func() { _ = rc.Close() }()
	body, _ := io.ReadAll(rc)
	if string(body) != "second run" {
		t.Fatalf("body = %q", body)
	}
	list, _ := s.List(ctx, "runs/")
	if len(list) != 1 {
		t.Fatalf("expected one report after rewrite, got %+v", list)
	}
}

func TestFilesystemStoreRejectsUnsafeKeys(t *testing.T) {
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	for _, key := range []string{"", "  ", "../escape.rpt", "/abs.rpt", "a/../../b", "x.rpt.meta"} {
		if _, err := s.Put(context.Background(), key, strings.NewReader("x"), core.PutOptions{}); err == nil {
			t.Errorf("expected error for key %q", key)
		}
	}
}

func TestFilesystemStoreListPrefix(t *testing.T) {
	ctx := context.Background()
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	for _, k := range []string{"b.rpt", "a.rpt", "other/c.rpt"} {
		if _, err := s.Put(ctx, k, strings.NewReader(k), core.PutOptions{}); err != nil {
			t.Fatalf("put %s: %v", k, err)
		}
	}
	all, err := s.List(ctx, "")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 3 || all[0].Key != "a.rpt" || all[2].Key != "other/c.rpt" {
		t.Fatalf("unexpected order %+v", all)
	}
	sub, _ := s.List(ctx, "other/")
	if len(sub) != 1 || sub[0].Key != "other/c.rpt" {
		t.Fatalf("prefix list = %+v", sub)
	}
}

func TestFilesystemStoreCancelledContext(t *testing.T) {
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := s.Put(ctx, "a.rpt", strings.NewReader("x"), core.PutOptions{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
