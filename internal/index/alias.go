package index

import "sort"

// AliasIndex maps source -> external identifier -> owning compounds.
type AliasIndex struct {
	bySource map[string]map[string][]string
	count    int
}

func newAliasIndex() *AliasIndex {
	return &AliasIndex{bySource: make(map[string]map[string][]string)}
}

// Lookup returns the compounds owning externalID within source, sorted
// ascending. The result is a copy.
func (a *AliasIndex) Lookup(source, externalID string) []string {
	owners := a.bySource[source][externalID]
	if len(owners) == 0 {
		return nil
	}
	out := append([]string(nil), owners...)
	sort.Strings(out)
	return out
}

// Add records compoundID as an owner of externalID within source. It returns
// false when that exact ownership already exists.
func (a *AliasIndex) Add(source, externalID, compoundID string) bool {
	ids, ok := a.bySource[source]
	if !ok {
		ids = make(map[string][]string)
		a.bySource[source] = ids
	}
	for _, existing := range ids[externalID] {
		if existing == compoundID {
			return false
		}
	}
	ids[externalID] = append(ids[externalID], compoundID)
	a.count++
	return true
}

// Len is the number of (source, alias, compound) ownerships.
func (a *AliasIndex) Len() int { return a.count }
