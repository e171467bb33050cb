// Package structure derives lookup keys from raw structure strings. It does
// not interpret chemistry: keys are plain string transforms.
package structure

import (
	"strings"

	"biochemreg/pkg/domain"
)

// Deriver produces the ordered lookup variants for a raw structure string.
// A nil or empty result means nothing can be looked up.
type Deriver interface {
	Variants(raw string, format domain.Format) []string
}

// Default derives the full key for every format plus, for InChIKeys, the
// two-block skeleton that drops the protonation flag.
type Default struct{}

// Variants implements Deriver.
func (Default) Variants(raw string, format domain.Format) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	if format != domain.FormatInChIKey {
		return []string{raw}
	}
	if skeleton, ok := Skeleton(raw); ok && skeleton != raw {
		return []string{raw, skeleton}
	}
	return []string{raw}
}

// Skeleton truncates a three-block InChIKey to its first two blocks, e.g.
// PEDCQBHIVMGVHV-UHFFFAOYSA-N becomes PEDCQBHIVMGVHV-UHFFFAOYSA.
func Skeleton(inchikey string) (string, bool) {
	blocks := strings.Split(inchikey, "-")
	if len(blocks) < 2 || blocks[0] == "" || blocks[1] == "" {
		return "", false
	}
	return blocks[0] + "-" + blocks[1], true
}
