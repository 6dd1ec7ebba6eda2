package germline

import (
	"strings"
	"testing"

	"cdrgraft/internal/antibody"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	lib, err := Load()
	require.NoError(t, err)

	t.Run("contains both chain kinds", func(t *testing.T) {
		assert.NotEmpty(t, lib.Scaffolds(antibody.Heavy))
		assert.NotEmpty(t, lib.Scaffolds(antibody.Light))
	})

	t.Run("every scaffold numbers under the bundled numberer", func(t *testing.T) {
		n := antibody.NewMotifNumberer()
		for _, kind := range []antibody.ChainKind{antibody.Heavy, antibody.Light} {
			for _, s := range lib.Scaffolds(kind) {
				chain, err := n.Number(s.Sequence, "kabat", "kabat")
				require.NoError(t, err, "germline %s", s.Gene)
				assert.Equal(t, kind, chain.Kind, "germline %s", s.Gene)
			}
		}
	})

	t.Run("gene names carry the locus prefix", func(t *testing.T) {
		for _, gene := range lib.Genes(antibody.Heavy) {
			assert.True(t, strings.HasPrefix(gene, "IGHV"), gene)
		}
	})

	t.Run("find by exact gene id", func(t *testing.T) {
		s, ok := lib.Find(antibody.Heavy, "IGHV3-23*01")
		require.True(t, ok)
		assert.Equal(t, "IGHV3-23*01", s.Gene)

		_, ok = lib.Find(antibody.Heavy, "IGHV9-99*99")
		assert.False(t, ok)
	})
}

func TestFrameworkIdentity(t *testing.T) {
	a := antibody.Regions{FR1: "AAAA", FR2: "BBBB", FR3: "CCCC", FR4: "DDDD"}

	t.Run("identical frameworks score 1", func(t *testing.T) {
		assert.Equal(t, 1.0, FrameworkIdentity(a, a))
	})

	t.Run("half matches score 0.5", func(t *testing.T) {
		b := antibody.Regions{FR1: "AAXX", FR2: "BBXX", FR3: "CCXX", FR4: "DDXX"}
		assert.InDelta(t, 0.5, FrameworkIdentity(a, b), 1e-9)
	})

	t.Run("length mismatch compares the shorter prefix", func(t *testing.T) {
		b := antibody.Regions{FR1: "AA", FR2: "BBBB", FR3: "CCCC", FR4: "DDDD"}
		assert.Equal(t, 1.0, FrameworkIdentity(a, b))
	})

	t.Run("empty regions score 0", func(t *testing.T) {
		assert.Equal(t, 0.0, FrameworkIdentity(antibody.Regions{}, antibody.Regions{}))
	})
}
