// Package names turns free-text compound names into search keys. Keys are used
// only for equality lookup and never for display.
package names

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalizer maps a name to its ordered search keys. An empty result means the
// name cannot be looked up.
type Normalizer interface {
	SearchKeys(name string) []string
}

// Default is the registry's name normalizer.
//
// Accents are folded, case is dropped, a leading English article is removed,
// and everything except letters, digits and '+' is stripped. Names ending in
// "ic acid" also yield the conjugate-base "ate" key so that acids and their
// salts share a lookup slot.
type Default struct{}

var articles = []string{"a ", "an "}

// SearchKeys implements Normalizer.
func (Default) SearchKeys(name string) []string {
	folded, _, err := transform.String(foldChain(), name)
	if err != nil {
		folded = name
	}
	folded = cases.Lower(language.Und).String(strings.TrimSpace(folded))
	for _, a := range articles {
		if strings.HasPrefix(folded, a) {
			folded = folded[len(a):]
			break
		}
	}

	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range folded {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '+' {
			b.WriteRune(r)
		}
	}
	key := b.String()
	if key == "" {
		return nil
	}
	keys := []string{key}
	if strings.Contains(key, "icacid") {
		keys = append(keys, strings.ReplaceAll(key, "icacid", "ate"))
	}
	return keys
}

// foldChain is rebuilt per call; transform.Chain values are stateful.
func foldChain() transform.Transformer {
	return transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
}
