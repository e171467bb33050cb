package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type recorder struct{ msg string }

func (r *recorder) Fatalf(format string, args ...any) { r.msg = fmt.Sprintf(format, args...) }

func writeGo(t *testing.T, path, body string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
}

func TestDirectImportViolations(t *testing.T) {
	dir := t.TempDir()
	writeGo(t, filepath.Join(dir, "a.go"), "package a\nimport (\n\t\"fmt\"\n\t\"biochemreg/internal/index\"\n)\nvar _ = fmt.Sprint\n")
	writeGo(t, filepath.Join(dir, "a_test.go"), "package a\nimport \"biochemreg/internal/run\"\n")

	viols, err := directImportViolations(dir, InternalImportForbidden)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(viols) != 1 || viols[0] != "biochemreg/internal/index (in a.go)" {
		t.Fatalf("unexpected violations %v", viols)
	}
}

func TestTreeImportViolationsHonoursExemptAndSkips(t *testing.T) {
	root := t.TempDir()
	writeGo(t, filepath.Join(root, "ok", "ok.go"), "package ok\nimport \"biochemreg/internal/infra/blob/fs\"\n")
	writeGo(t, filepath.Join(root, "bad", "bad_test.go"), "package bad\nimport \"biochemreg/internal/infra/blob/s3\"\n")
	writeGo(t, filepath.Join(root, "_ignored", "x.go"), "package x\nimport \"biochemreg/internal/infra/blob\"\n")

	exempt := func(dir string) bool { return filepath.Base(dir) == "ok" }
	viols, err := treeImportViolations(root, exempt, PrefixForbidden("biochemreg/internal/infra/blob"))
	if err != nil {
		t.Fatalf("walk: %v", err)
	}
	if len(viols) != 1 || !strings.HasPrefix(viols[0], "biochemreg/internal/infra/blob/s3") {
		t.Fatalf("unexpected violations %v", viols)
	}
}

func TestPredicates(t *testing.T) {
	if !ThirdPartyImportForbidden("github.com/spf13/cobra") || ThirdPartyImportForbidden("net/http") || ThirdPartyImportForbidden("biochemreg/pkg/domain") {
		t.Fatalf("third-party predicate wrong")
	}
	p := PrefixForbidden("biochemreg/internal/infra/blob")
	if !p("biochemreg/internal/infra/blob") || !p("biochemreg/internal/infra/blob/fs") || p("biochemreg/internal/infra/blobby") {
		t.Fatalf("prefix predicate wrong")
	}
}

func TestFailIfViolations(t *testing.T) {
	r := &recorder{}
	failIfViolations(r, "reason", nil)
	if r.msg != "" {
		t.Fatalf("unexpected failure %q", r.msg)
	}
	failIfViolations(r, "reason", []string{"x"})
	if !strings.Contains(r.msg, "reason") || !strings.Contains(r.msg, "x") {
		t.Fatalf("message = %q", r.msg)
	}
}

func TestAssertNoDirectImportsPasses(t *testing.T) {
	dir := t.TempDir()
	writeGo(t, filepath.Join(dir, "a.go"), "package a\nimport \"strings\"\nvar _ = strings.Cut\n")
	AssertNoDirectImports(t, dir, InternalImportForbidden, "clean")
}
