package index

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"biochemreg/internal/names"
	"biochemreg/internal/structure"
	"biochemreg/pkg/domain"
)

func fixtureSnapshot() domain.Snapshot {
	snap := domain.NewSnapshot()
	for _, id := range []string{"cpd00027", "cpd00100", "cpd00200", "cpd00300"} {
		snap.Compounds[id] = domain.NewCompound(id)
	}
	snap.Aliases["cpd00027"] = map[string][]string{"KEGG": {"C00031"}, "BiGG": {"glc__D"}}
	snap.Aliases["cpd00200"] = map[string][]string{"KEGG": {"C00031"}}
	snap.Names["cpd00300"] = []string{"Glucose"}
	snap.Names["cpd00027"] = []string{"D-Glucose", "glucose"}
	snap.Names["cpd00100"] = []string{"Glycerol"}
	snap.Structures = []domain.StructureRecord{
		{CompoundID: "cpd00100", Format: domain.FormatInChIKey, Value: "PEDCQBHIVMGVHV-UHFFFAOYSA-N", Tier: domain.TierUnique},
		{CompoundID: "cpd00300", Format: domain.FormatInChIKey, Value: "PEDCQBHIVMGVHV-UHFFFAOYSA-N", Tier: domain.TierOriginal},
		{CompoundID: "cpd00200", Format: domain.FormatSMILES, Value: "OCC(O)CO", Tier: domain.TierCharged},
		{CompoundID: "cpd00200", Format: domain.FormatSMILES, Value: "  ", Tier: domain.TierCharged},
	}
	return snap
}

func buildFixture(t *testing.T) *Indexes {
	t.Helper()
	return Build(fixtureSnapshot(), names.Default{}, structure.Default{})
}

func TestBuildAliasIndex(t *testing.T) {
	idx := buildFixture(t)

	assert.Equal(t, []string{"cpd00027", "cpd00200"}, idx.Aliases.Lookup("KEGG", "C00031"))
	assert.Equal(t, []string{"cpd00027"}, idx.Aliases.Lookup("BiGG", "glc__D"))
	assert.Nil(t, idx.Aliases.Lookup("MetaCyc", "C00031"))
	assert.Equal(t, 3, idx.Aliases.Len())

	assert.False(t, idx.Aliases.Add("KEGG", "C00031", "cpd00027"), "duplicate ownership")
	assert.True(t, idx.Aliases.Add("KEGG", "C99999", "cpd00027"))
	assert.Equal(t, []string{"cpd00027"}, idx.Aliases.Lookup("KEGG", "C99999"))
}

func TestBuildStructureIndexTiersAndSkeleton(t *testing.T) {
	idx := buildFixture(t)
	s := idx.Structures

	assert.Equal(t, []string{"cpd00100"}, s.Lookup(domain.FormatInChIKey, "PEDCQBHIVMGVHV-UHFFFAOYSA-N", domain.TierUnique))
	assert.Equal(t, []string{"cpd00300"}, s.Lookup(domain.FormatInChIKey, "PEDCQBHIVMGVHV-UHFFFAOYSA-N", domain.TierOriginal))
	assert.Nil(t, s.Lookup(domain.FormatInChIKey, "PEDCQBHIVMGVHV-UHFFFAOYSA-N", domain.TierCharged))
	assert.Equal(t, []string{"cpd00100"}, s.Lookup(domain.FormatInChIKey, "PEDCQBHIVMGVHV-UHFFFAOYSA", domain.TierUnique))
	assert.Equal(t, []string{"cpd00100", "cpd00300"}, s.Owners(domain.FormatInChIKey, "PEDCQBHIVMGVHV-UHFFFAOYSA-N"))

	// formats are separate key spaces
	assert.Nil(t, s.Lookup(domain.FormatSMILES, "PEDCQBHIVMGVHV-UHFFFAOYSA-N", domain.TierUnique))

	assert.True(t, s.HasStructure("cpd00100"))
	assert.True(t, s.HasStructure("cpd00200"))
	assert.False(t, s.HasStructure("cpd00027"))
	assert.Equal(t, 3, s.Len())
}

func TestBuildNameIndexSmallestIDWins(t *testing.T) {
	idx := buildFixture(t)
	n := idx.Names

	owner, ok := n.Lookup("glucose")
	require.True(t, ok)
	assert.Equal(t, "cpd00027", owner, "cpd00027 sorts before cpd00300")

	owner, ok = n.Lookup("dglucose")
	require.True(t, ok)
	assert.Equal(t, "cpd00027", owner)

	assert.True(t, n.HasName("Glucose"))
	assert.True(t, n.HasName("D-Glucose"))
	assert.False(t, n.HasName("d-glucose"))

	assert.False(t, n.Claim("glucose", "cpd00300"))
	assert.True(t, n.Claim("glucose", "cpd00027"))
	assert.True(t, n.Claim("newname", "cpd00300"))

	other, conflict := n.ConflictingOwner([]string{"unknown", "glycerol"}, "cpd00300")
	assert.True(t, conflict)
	assert.Equal(t, "cpd00100", other)
	_, conflict = n.ConflictingOwner([]string{"glycerol"}, "cpd00100")
	assert.False(t, conflict)
}

func TestBuildSkipsUndefinedTier(t *testing.T) {
	snap := fixtureSnapshot()
	bad := domain.StructureRecord{CompoundID: "cpd00027", Format: domain.FormatSMILES, Value: "OC1OC(CO)C(O)C(O)C1O", Tier: domain.Tier(3)}
	snap.Structures = append(snap.Structures, bad)

	var idx *Indexes
	require.NotPanics(t, func() { idx = Build(snap, names.Default{}, structure.Default{}) })

	assert.Equal(t, []domain.StructureRecord{bad}, idx.Structures.Rejected())
	assert.Nil(t, idx.Structures.Owners(domain.FormatSMILES, bad.Value))
	assert.False(t, idx.Structures.HasStructure("cpd00027"))
	assert.Equal(t, []string{"cpd00100"}, idx.Structures.Lookup(domain.FormatInChIKey, "PEDCQBHIVMGVHV-UHFFFAOYSA-N", domain.TierUnique))
}
