// Package domain defines the compound registry records, lookup value types,
// and persistence contracts shared by the merge engine and its stores.
package domain

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
)

// SourcePrimaryDatabase marks a compound as confirmed by a primary source.
const SourcePrimaryDatabase = "Primary Database"

// Sentinel values carried by freshly created compounds until curated.
const (
	NullValue        = "null"
	DefaultMass      = 10000000.0
	DefaultDeltaG    = 10000000.0
	DefaultDeltaGErr = 10000000.0
)

// IDPrefix is the literal prefix of every registry identifier.
const IDPrefix = "cpd"

// minIDWidth is the zero padding applied when the registry is empty or only
// carries shorter identifiers.
const minIDWidth = 5

var compoundIDPattern = regexp.MustCompile(`^cpd(\d+)$`)

// Compound is a single registry record.
type Compound struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	Abbreviation     string   `json:"abbreviation"`
	Formula          string   `json:"formula"`
	Mass             float64  `json:"mass"`
	Charge           int      `json:"charge"`
	DeltaG           float64  `json:"deltag"`
	DeltaGErr        float64  `json:"deltagerr"`
	PKa              string   `json:"pka"`
	PKb              string   `json:"pkb"`
	InChIKey         string   `json:"inchikey"`
	SMILES           string   `json:"smiles"`
	IsCofactor       bool     `json:"is_cofactor"`
	IsCore           bool     `json:"is_core"`
	IsObsolete       bool     `json:"is_obsolete"`
	AbstractCompound string   `json:"abstract_compound"`
	ComprisedOf      string   `json:"comprised_of"`
	LinkedCompound   string   `json:"linked_compound"`
	Notes            []string `json:"notes"`
	Source           string   `json:"source"`
}

// NewCompound returns a record populated with the registry defaults.
func NewCompound(id string) Compound {
	return Compound{
		ID:               id,
		Name:             NullValue,
		Abbreviation:     NullValue,
		Formula:          NullValue,
		Mass:             DefaultMass,
		DeltaG:           DefaultDeltaG,
		DeltaGErr:        DefaultDeltaGErr,
		AbstractCompound: NullValue,
		ComprisedOf:      NullValue,
		LinkedCompound:   NullValue,
		Notes:            []string{},
	}
}

// Clone returns a deep copy of the compound.
func (c Compound) Clone() Compound {
	out := c
	if c.Notes != nil {
		out.Notes = append([]string(nil), c.Notes...)
	}
	return out
}

// ParseCompoundNumber extracts the numeric part of a registry identifier.
// It reports false for identifiers that do not follow the cpd<digits> form.
func ParseCompoundNumber(id string) (int, int, bool) {
	m := compoundIDPattern.FindStringSubmatch(id)
	if m == nil {
		return 0, 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, 0, false
	}
	return n, len(m[1]), true
}

// FormatCompoundID renders n as a registry identifier padded to width digits.
func FormatCompoundID(n, width int) string {
	if width < minIDWidth {
		width = minIDWidth
	}
	return fmt.Sprintf("%s%0*d", IDPrefix, width, n)
}

// HighestCompoundNumber scans ids for the largest numeric identifier and the
// widest digit run seen. Identifiers outside the cpd<digits> form are ignored.
func HighestCompoundNumber(ids []string) (maxN, width int) {
	width = minIDWidth
	for _, id := range ids {
		n, w, ok := ParseCompoundNumber(id)
		if !ok {
			continue
		}
		if n > maxN {
			maxN = n
		}
		if w > width {
			width = w
		}
	}
	return maxN, width
}

// SortedIDs returns the keys of a compound map in ascending order.
func SortedIDs(compounds map[string]Compound) []string {
	ids := make([]string, 0, len(compounds))
	for id := range compounds {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
