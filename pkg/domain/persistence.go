package domain

import (
	"context"
	"sort"
)

// NameTable maps a compound identifier to its ordered names.
type NameTable map[string][]string

// AliasTable maps a compound identifier to source name to external identifiers.
type AliasTable map[string]map[string][]string

// Snapshot is the full registry state exchanged with a RegistryStore.
type Snapshot struct {
	Compounds  map[string]Compound `json:"compounds"`
	Names      NameTable           `json:"names"`
	Aliases    AliasTable          `json:"aliases"`
	Structures []StructureRecord   `json:"structures"`
}

// NewSnapshot returns an empty snapshot with all tables allocated.
func NewSnapshot() Snapshot {
	return Snapshot{
		Compounds: make(map[string]Compound),
		Names:     make(NameTable),
		Aliases:   make(AliasTable),
	}
}

// Clone deep-copies the snapshot so callers can mutate it freely.
func (s Snapshot) Clone() Snapshot {
	out := NewSnapshot()
	for id, c := range s.Compounds {
		out.Compounds[id] = c.Clone()
	}
	for id, names := range s.Names {
		out.Names[id] = append([]string(nil), names...)
	}
	for id, bySource := range s.Aliases {
		cp := make(map[string][]string, len(bySource))
		for source, aliases := range bySource {
			cp[source] = append([]string(nil), aliases...)
		}
		out.Aliases[id] = cp
	}
	if len(s.Structures) > 0 {
		out.Structures = append([]StructureRecord(nil), s.Structures...)
	}
	return out
}

// Normalize allocates nil tables and sorts structures into a stable order so
// persisted snapshots compare byte-for-byte across saves.
func (s *Snapshot) Normalize() {
	if s.Compounds == nil {
		s.Compounds = make(map[string]Compound)
	}
	if s.Names == nil {
		s.Names = make(NameTable)
	}
	if s.Aliases == nil {
		s.Aliases = make(AliasTable)
	}
	sort.SliceStable(s.Structures, func(i, j int) bool {
		a, b := s.Structures[i], s.Structures[j]
		if a.CompoundID != b.CompoundID {
			return a.CompoundID < b.CompoundID
		}
		if a.Format != b.Format {
			return a.Format < b.Format
		}
		if a.Tier != b.Tier {
			return a.Tier < b.Tier
		}
		return a.Value < b.Value
	})
}

// RegistryStore loads and persists registry snapshots. Save must be
// all-or-nothing: either every table is written or none is.
type RegistryStore interface {
	Load(ctx context.Context) (Snapshot, error)
	Save(ctx context.Context, snapshot Snapshot) error
	Close() error
}
