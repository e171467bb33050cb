package names

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultSearchKeys(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want []string
	}{
		{name: "case and punctuation", in: "D-Glucose", want: []string{"dglucose"}},
		{name: "whitespace", in: "  beta D glucose ", want: []string{"betadglucose"}},
		{name: "article", in: "an aldehyde", want: []string{"aldehyde"}},
		{name: "accent fold", in: "Phosphoénolpyruvate", want: []string{"phosphoenolpyruvate"}},
		{name: "charge kept", in: "Fe2+", want: []string{"fe2+"}},
		{name: "acid variant", in: "Pyruvic acid", want: []string{"pyruvicacid", "pyruvate"}},
		{name: "empty", in: "   ", want: nil},
		{name: "punctuation only", in: "()-,", want: nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Default{}.SearchKeys(tc.in))
		})
	}
}

type countingNormalizer struct {
	calls int
}

func (c *countingNormalizer) SearchKeys(name string) []string {
	c.calls++
	return Default{}.SearchKeys(name)
}

func TestCachedMemoizes(t *testing.T) {
	inner := &countingNormalizer{}
	cached := NewCached(inner)

	first := cached.SearchKeys("Glycerol")
	second := cached.SearchKeys("Glycerol")
	require.Equal(t, first, second)
	assert.Equal(t, 1, inner.calls)
	assert.Equal(t, 1, cached.Len())

	// Callers may mutate the returned slice without corrupting the cache.
	second[0] = "mutated"
	assert.Equal(t, []string{"glycerol"}, cached.SearchKeys("Glycerol"))
}

func TestCachedCachesEmptyResults(t *testing.T) {
	inner := &countingNormalizer{}
	cached := NewCached(inner)
	assert.Empty(t, cached.SearchKeys("--"))
	assert.Empty(t, cached.SearchKeys("--"))
	assert.Equal(t, 1, inner.calls)
}
