package index

import (
	"sort"

	"biochemreg/pkg/domain"
)

type structureKey struct {
	format domain.Format
	value  string
}

// StructureIndex maps (format, lookup key) to owning compounds per tier. It is
// built once from the pre-run registry and exposes no mutation to callers.
type StructureIndex struct {
	entries       map[structureKey][][]string
	withStructure map[string]struct{}
	rejected      []domain.StructureRecord
}

func newStructureIndex() *StructureIndex {
	return &StructureIndex{
		entries:       make(map[structureKey][][]string),
		withStructure: make(map[string]struct{}),
	}
}

func (s *StructureIndex) add(format domain.Format, value string, tier domain.Tier, compoundID string) {
	k := structureKey{format: format, value: value}
	tiers, ok := s.entries[k]
	if !ok {
		tiers = make([][]string, len(domain.Tiers()))
		s.entries[k] = tiers
	}
	for _, existing := range tiers[tier] {
		if existing == compoundID {
			return
		}
	}
	tiers[tier] = append(tiers[tier], compoundID)
}

// Lookup returns the compounds registered for key at exactly the given tier,
// sorted ascending.
func (s *StructureIndex) Lookup(format domain.Format, key string, tier domain.Tier) []string {
	tiers, ok := s.entries[structureKey{format: format, value: key}]
	if !ok || int(tier) >= len(tiers) || len(tiers[tier]) == 0 {
		return nil
	}
	out := append([]string(nil), tiers[tier]...)
	sort.Strings(out)
	return out
}

// Owners returns every compound registered for key at any tier, sorted and
// de-duplicated.
func (s *StructureIndex) Owners(format domain.Format, key string) []string {
	tiers, ok := s.entries[structureKey{format: format, value: key}]
	if !ok {
		return nil
	}
	seen := make(map[string]struct{})
	var out []string
	for _, ids := range tiers {
		for _, id := range ids {
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out
}

// HasStructure reports whether the compound has any registered structure.
func (s *StructureIndex) HasStructure(compoundID string) bool {
	_, ok := s.withStructure[compoundID]
	return ok
}

// Rejected returns the structure records left out of the index because their
// tier is undefined.
func (s *StructureIndex) Rejected() []domain.StructureRecord {
	return append([]domain.StructureRecord(nil), s.rejected...)
}

// Len is the number of distinct (format, key) entries.
func (s *StructureIndex) Len() int { return len(s.entries) }
