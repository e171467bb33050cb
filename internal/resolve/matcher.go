package resolve

import (
	"biochemreg/internal/index"
	"biochemreg/internal/names"
	"biochemreg/internal/structure"
	"biochemreg/pkg/domain"
)

// Match is a cascade verdict for one record.
type Match struct {
	CompoundID string
	Kind       domain.MatchKind
	Matched    string
	Tier       string
}

// Matcher is one strategy of the cascade. The cascade asks matchers in order
// and stops at the first one that reports ok.
type Matcher interface {
	Name() string
	Match(rec domain.Record) (Match, bool)
}

// AliasMatcher resolves records whose external id is already registered as an
// alias from the same source.
type AliasMatcher struct {
	Source  string
	Aliases *index.AliasIndex
}

// Name implements Matcher.
func (m AliasMatcher) Name() string { return "alias" }

// Match implements Matcher.
func (m AliasMatcher) Match(rec domain.Record) (Match, bool) {
	owners := m.Aliases.Lookup(m.Source, rec.ExternalID)
	if len(owners) == 0 {
		return Match{}, false
	}
	return Match{
		CompoundID: owners[0],
		Kind:       domain.MatchAlias,
		Matched:    rec.ExternalID,
		Tier:       domain.StageNA,
	}, true
}

// StructureMatcher walks formats in priority order, lookup variants in deriver
// order, and tiers from most to least trusted.
type StructureMatcher struct {
	Formats    []domain.Format
	Deriver    structure.Deriver
	Structures *index.StructureIndex
}

// Name implements Matcher.
func (m StructureMatcher) Name() string { return "structure" }

// Match implements Matcher.
func (m StructureMatcher) Match(rec domain.Record) (Match, bool) {
	for _, format := range m.Formats {
		for _, field := range rec.Structures {
			if field.Format != format || field.Value == "" {
				continue
			}
			for _, variant := range m.Deriver.Variants(field.Value, format) {
				for _, tier := range domain.Tiers() {
					owners := m.Structures.Lookup(format, variant, tier)
					if len(owners) == 0 {
						continue
					}
					return Match{
						CompoundID: owners[0],
						Kind:       domain.StructureMatch(format),
						Matched:    variant,
						Tier:       tier.String(),
					}, true
				}
			}
		}
	}
	return Match{}, false
}

// NameMatcher resolves records by normalized name. When GuardStructures is set
// and the record carries a structure, compounds that already have a registered
// structure are not eligible.
type NameMatcher struct {
	Normalizer      names.Normalizer
	Names           *index.NameIndex
	Structures      *index.StructureIndex
	GuardStructures bool
	Formats         []domain.Format
}

// Name implements Matcher.
func (m NameMatcher) Name() string { return "name" }

// Match implements Matcher.
func (m NameMatcher) Match(rec domain.Record) (Match, bool) {
	guard := m.GuardStructures && rec.HasStructure(m.Formats)
	candidates := make(map[string]string)
	best := ""
	for _, name := range rec.Names {
		for _, key := range m.Normalizer.SearchKeys(name) {
			owner, ok := m.Names.Lookup(key)
			if !ok {
				continue
			}
			if guard && m.Structures.HasStructure(owner) {
				continue
			}
			if _, seen := candidates[owner]; seen {
				continue
			}
			candidates[owner] = name
			if best == "" || owner < best {
				best = owner
			}
			break
		}
	}
	if best == "" {
		return Match{}, false
	}
	return Match{
		CompoundID: best,
		Kind:       domain.MatchName,
		Matched:    candidates[best],
		Tier:       domain.StageNA,
	}, true
}

// Cascade runs matchers in order; the first hit wins.
type Cascade []Matcher

// Resolve returns the first match, or false when no matcher resolves rec.
func (c Cascade) Resolve(rec domain.Record) (Match, bool) {
	for _, m := range c {
		if match, ok := m.Match(rec); ok {
			return match, true
		}
	}
	return Match{}, false
}
