// Package testutil provides reusable testing helpers for enforcing
// architectural import boundaries across the repository.
package testutil

import (
	"go/parser"
	"go/token"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"testing"
)

// AssertNoDirectImports scans the non-test .go files in dir (typically "."
// from within the package) and fails if any import path satisfies forbidden.
// It does not follow build tags.
func AssertNoDirectImports(t testing.TB, dir string, forbidden func(importPath string) bool, reason string) {
	t.Helper()
	viols, err := directImportViolations(dir, forbidden)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	failIfViolations(t, reason, viols)
}

// AssertNoTreeImports walks root and applies forbidden to every .go file,
// tests included, outside the directories for which exempt returns true.
// Directories starting with "_" or "." are skipped like the go tool does.
func AssertNoTreeImports(t testing.TB, root string, exempt func(dir string) bool, forbidden func(importPath string) bool, reason string) {
	t.Helper()
	viols, err := treeImportViolations(root, exempt, forbidden)
	if err != nil {
		t.Fatalf("walk %s: %v", root, err)
	}
	failIfViolations(t, reason, viols)
}

// InternalImportForbidden matches any import path containing /internal/.
func InternalImportForbidden(path string) bool {
	return strings.Contains(path, "/internal/")
}

// ThirdPartyImportForbidden matches import paths outside the standard
// library and the biochemreg module.
func ThirdPartyImportForbidden(path string) bool {
	first, _, _ := strings.Cut(path, "/")
	return strings.Contains(first, ".")
}

// PrefixForbidden matches prefix itself and every package below it.
func PrefixForbidden(prefix string) func(string) bool {
	return func(path string) bool {
		return path == prefix || strings.HasPrefix(path, prefix+"/")
	}
}

func directImportViolations(dir string, forbidden func(importPath string) bool) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	fset := token.NewFileSet()
	var viols []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".go") || strings.HasSuffix(name, "_test.go") {
			continue
		}
		found, err := fileViolations(fset, filepath.Join(dir, name), forbidden)
		if err != nil {
			return nil, err
		}
		for _, ip := range found {
			viols = append(viols, ip+" (in "+name+")")
		}
	}
	return viols, nil
}

func treeImportViolations(root string, exempt func(dir string) bool, forbidden func(importPath string) bool) ([]string, error) {
	fset := token.NewFileSet()
	var viols []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			name := d.Name()
			if path != root && (strings.HasPrefix(name, "_") || strings.HasPrefix(name, ".")) {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(path, ".go") || (exempt != nil && exempt(filepath.Dir(path))) {
			return nil
		}
		found, err := fileViolations(fset, path, forbidden)
		if err != nil {
			return err
		}
		for _, ip := range found {
			viols = append(viols, ip+" (in "+filepath.ToSlash(path)+")")
		}
		return nil
	})
	sort.Strings(viols)
	return viols, err
}

func fileViolations(fset *token.FileSet, path string, forbidden func(string) bool) ([]string, error) {
	f, err := parser.ParseFile(fset, path, nil, parser.ImportsOnly)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, imp := range f.Imports {
		ip, err := strconv.Unquote(imp.Path.Value)
		if err != nil {
			continue
		}
		if forbidden(ip) {
			out = append(out, ip)
		}
	}
	return out, nil
}

type fatalLogger interface {
	Fatalf(format string, args ...any)
}

func failIfViolations(t fatalLogger, reason string, viols []string) {
	if len(viols) > 0 {
		t.Fatalf("forbidden imports detected (%s):\n%s", reason, strings.Join(viols, "\n"))
	}
}
