package domain

import "strings"

// MatchKind names the cascade stage (and, for structures, the format) that
// resolved a record.
type MatchKind string

// Non-structure match kinds.
const (
	MatchNone  MatchKind = ""
	MatchAlias MatchKind = "id"
	MatchName  MatchKind = "name"
)

// StageNA is reported as the tier of alias and name matches.
const StageNA = "na"

// StructureMatch returns the match kind reported for a structure format.
func StructureMatch(f Format) MatchKind {
	return MatchKind(strings.ToLower(string(f)))
}

// IsStructure reports whether the kind came from the structure stage.
func (k MatchKind) IsStructure() bool {
	return k != MatchNone && k != MatchAlias && k != MatchName
}

func (k MatchKind) String() string {
	if k == MatchNone {
		return "None"
	}
	return string(k)
}

// Provenance describes how a single incoming record was resolved. It is kept
// for reporting only and never persisted with the registry.
type Provenance struct {
	RecordID   string    `json:"record_id"`
	Source     string    `json:"source"`
	CompoundID string    `json:"compound_id,omitempty"`
	Kind       MatchKind `json:"kind"`
	Matched    string    `json:"matched,omitempty"`
	Tier       string    `json:"tier,omitempty"`
	Created    bool      `json:"created"`
	NamesAdded []string  `json:"names_added,omitempty"`
	AliasAdded bool      `json:"alias_added"`
	Warnings   []string  `json:"warnings,omitempty"`
}

// Resolved reports whether the record matched an existing compound.
func (p Provenance) Resolved() bool { return p.Kind != MatchNone }
