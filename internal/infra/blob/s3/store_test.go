package s3

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"biochemreg/internal/blob/core"
)

func TestS3StoreMockLifecycle(t *testing.T) {
	ctx := context.Background()
	s := NewMockForTests("")
	if s.Driver() != core.DriverS3 {
		t.Fatalf("driver = %s", s.Driver())
	}
	body := []byte("KEGG:C00031\tcpd00027\tinchikey\tWQZGKKKJIJFFOK-GASJEMHNSA-N\tUnique\n")
	info, err := s.Put(ctx, "batch.rpt", bytes.NewReader(body), core.PutOptions{
		ContentType: "text/tab-separated-values",
		Metadata:    map[string]string{"run-id": "r1"},
	})
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if info.Size != int64(len(body)) || info.URL != "s3://mock-bucket/batch.rpt" {
		t.Fatalf("unexpected info %+v", info)
	}
	if info.Metadata["run-id"] != "r1" {
		t.Fatalf("metadata lost: %+v", info.Metadata)
	}

	_, rc, err := s.Get(ctx, "batch.rpt")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	got, _ := io.ReadAll(rc)
	_ = rc.Close()
	if !bytes.Equal(got, body) {
		t.Fatalf("body = %q", got)
	}

	if _, err := s.Put(ctx, "batch.rpt", bytes.NewReader([]byte("rewritten\n")), core.PutOptions{}); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	head, err := s.Head(ctx, "batch.rpt")
	if err != nil || head.Size != int64(len("rewritten\n")) {
		t.Fatalf("head after overwrite = %+v, %v", head, err)
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
		t.Fatalf("expected ErrNotFound from get, got %v", err)
	}
}

func TestS3StorePrefix(t *testing.T) {
	ctx := context.Background()
	s := NewMockForTests("reports/")
	info, err := s.Put(ctx, "kegg.rpt", bytes.NewReader([]byte("x\n")), core.PutOptions{})
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if info.Key != "kegg.rpt" || info.URL != "s3://mock-bucket/reports/kegg.rpt" {
		t.Fatalf("unexpected info %+v", info)
	}
	list, err := s.List(ctx, "")
	if err != nil || len(list) != 1 || list[0].Key != "kegg.rpt" {
		t.Fatalf("list = %+v, %v", list, err)
	}
}

func TestS3NewRequiresBucket(t *testing.T) {
	if _, err := New(context.Background(), Config{}); err == nil {
		t.Fatalf("expected error without bucket")
	}
}

func TestS3NewWithStaticCredentials(t *testing.T) {
	s, err := New(context.Background(), Config{
		Bucket:          "reports",
		Endpoint:        "http://localhost:9000",
		AccessKeyID:     "minio",
		SecretAccessKey: "minio123",
		PathStyle:       true,
	})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if s.bucket != "reports" {
		t.Fatalf("bucket = %s", s.bucket)
	}
}

func TestDecodeChunked(t *testing.T) {
	got, ok := decodeChunked([]byte("5;chunk-signature=abc\r\nhello\r\n0\r\n\r\n"))
	if !ok || string(got) != "hello" {
		t.Fatalf("decode = %q %v", got, ok)
	}
	if _, ok := decodeChunked([]byte("plain body")); ok {
		t.Fatalf("plain body decoded as chunked")
	}
	if _, err := parseHex("zz"); err == nil {
		t.Fatalf("expected hex error")
	}
}
