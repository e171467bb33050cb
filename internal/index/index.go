// Package index holds the canonical lookup structures built from a registry
// snapshot: aliases by source, structures by format and tier, and names by
// normalized search key.
package index

import (
	"sort"

	"biochemreg/internal/names"
	"biochemreg/internal/structure"
	"biochemreg/pkg/domain"
)

// Indexes bundles the three lookup structures.
type Indexes struct {
	Aliases    *AliasIndex
	Structures *StructureIndex
	Names      *NameIndex
}

// Build constructs the indexes from snap. Compounds are visited in ascending
// id order, so when two compounds share a search key the smaller id owns it.
func Build(snap domain.Snapshot, normalizer names.Normalizer, deriver structure.Deriver) *Indexes {
	idx := &Indexes{
		Aliases:    newAliasIndex(),
		Structures: newStructureIndex(),
		Names:      newNameIndex(),
	}

	for _, id := range sortedKeys(snap.Aliases) {
		bySource := snap.Aliases[id]
		sources := make([]string, 0, len(bySource))
		for source := range bySource {
			sources = append(sources, source)
		}
		sort.Strings(sources)
		for _, source := range sources {
			for _, alias := range bySource[source] {
				idx.Aliases.Add(source, alias, id)
			}
		}
	}

	for _, rec := range snap.Structures {
		if rec.CompoundID == "" {
			continue
		}
		if !rec.Tier.Valid() {
			idx.Structures.rejected = append(idx.Structures.rejected, rec)
			continue
		}
		variants := deriver.Variants(rec.Value, rec.Format)
		if len(variants) == 0 {
			continue
		}
		idx.Structures.withStructure[rec.CompoundID] = struct{}{}
		for _, v := range variants {
			idx.Structures.add(rec.Format, v, rec.Tier, rec.CompoundID)
		}
	}

	for _, id := range sortedKeys(snap.Names) {
		for _, name := range snap.Names[id] {
			idx.Names.Register(name)
			for _, key := range normalizer.SearchKeys(name) {
				idx.Names.Claim(key, id)
			}
		}
	}
	return idx
}

func sortedKeys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
