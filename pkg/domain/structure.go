package domain

import (
	"fmt"
	"strings"
)

// Tier is the confidence bucket of a structure-to-compound mapping. Lower
// values are more trusted and are consulted first.
type Tier int

const (
	// TierUnique holds curated, conflict-free structures.
	TierUnique Tier = iota
	// TierCharged holds structures at a stated protonation state.
	TierCharged
	// TierOriginal holds as-submitted structures that may carry conflicts.
	TierOriginal
)

var tierNames = [...]string{"Unique", "Charged", "Original"}

// Tiers returns every tier in lookup order.
func Tiers() []Tier { return []Tier{TierUnique, TierCharged, TierOriginal} }

// Valid reports whether t is one of the defined tiers.
func (t Tier) Valid() bool { return t >= TierUnique && t <= TierOriginal }

func (t Tier) String() string {
	if !t.Valid() {
		return fmt.Sprintf("Tier(%d)", int(t))
	}
	return tierNames[t]
}

// MarshalText encodes the tier by name.
func (t Tier) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("invalid tier %d", int(t))
	}
	return []byte(t.String()), nil
}

// UnmarshalText decodes a tier name.
func (t *Tier) UnmarshalText(b []byte) error {
	parsed, err := ParseTier(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// ParseTier resolves a tier name, ignoring case.
func ParseTier(s string) (Tier, error) {
	for i, name := range tierNames {
		if strings.EqualFold(name, strings.TrimSpace(s)) {
			return Tier(i), nil
		}
	}
	return 0, fmt.Errorf("unknown structure tier %q", s)
}

// Format identifies a structure representation.
type Format string

// Supported structure formats.
const (
	FormatInChI    Format = "InChI"
	FormatInChIKey Format = "InChIKey"
	FormatSMILES   Format = "SMILES"
)

// DefaultFormatOrder is the structure lookup priority used when none is configured.
var DefaultFormatOrder = []Format{FormatInChI, FormatInChIKey, FormatSMILES}

// ParseFormat resolves a format from its name or an input column header.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "inchi":
		return FormatInChI, nil
	case "inchikey":
		return FormatInChIKey, nil
	case "smile", "smiles":
		return FormatSMILES, nil
	}
	return "", fmt.Errorf("unknown structure format %q", s)
}

// StructureRecord registers one structure string for a compound.
type StructureRecord struct {
	CompoundID string `json:"compound_id"`
	Format     Format `json:"format"`
	Value      string `json:"value"`
	Tier       Tier   `json:"tier"`
}
