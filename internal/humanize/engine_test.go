package humanize

import (
	"strings"
	"testing"

	"cdrgraft/internal/antibody"
	"cdrgraft/internal/germline"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	trastuzumabVH = "EVQLVESGGGLVQPGGSLRLSCAASGFNIKDTYIHWVRQAPGKGLEWVARIYPTNGYTRYADSVKGRFTISADTSKNTAYLQMNSLRAEDTAVYYCSRWGGDGFYAMDYWGQGTLVTVSS"
	trastuzumabVL = "DIQMTQSPSSLSASVGDRVTITCRASQDVNTAVAWYQQKPGKAPKLLIYSASFLYSGVPSRFSGSGSGTDFTLTISSLQPEDFATYYCQQHYTTPPTFGQGTKVEIK"
)

func newTestEngine(t *testing.T) (*GraftEngine, antibody.Numberer) {
	t.Helper()
	lib, err := germline.Load()
	require.NoError(t, err)
	numberer := antibody.NewMotifNumberer()
	return NewGraftEngine(lib, numberer), numberer
}

func numberChain(t *testing.T, numberer antibody.Numberer, seq, name string) *antibody.Chain {
	t.Helper()
	chain, err := numberer.Number(seq, "kabat", "kabat")
	require.NoError(t, err)
	chain.Name = name
	return chain
}

func TestGraftEngine(t *testing.T) {
	engine, numberer := newTestEngine(t)
	vh := numberChain(t, numberer, trastuzumabVH, "Trast")
	vl := numberChain(t, numberer, trastuzumabVL, "Trast")

	t.Run("auto selects the nearest germline", func(t *testing.T) {
		result, err := engine.Humanize(vh, vl, DefaultParams())
		require.NoError(t, err)
		require.NotNil(t, result.VH)
		require.NotNil(t, result.VL)

		assert.Equal(t, "IGHV3-23*01", result.VH.GermlineGene)
		assert.Equal(t, "IGKV1-39*01", result.VL.GermlineGene)
	})

	t.Run("graft keeps parental CDRs on germline frameworks", func(t *testing.T) {
		params := DefaultParams()
		params.HeavyVGermline = "IGHV3-23*01"
		result, err := engine.Humanize(vh, nil, params)
		require.NoError(t, err)
		require.NotNil(t, result.VH)
		require.Nil(t, result.VL)

		lib, err := germline.Load()
		require.NoError(t, err)
		scaffold, ok := lib.Find(antibody.Heavy, "IGHV3-23*01")
		require.True(t, ok)
		glChain := numberChain(t, numberer, scaffold.Sequence, "gl")

		humanized := result.VH.Humanized.Regions
		assert.Equal(t, glChain.Regions.Frameworks(), humanized.Frameworks())
		assert.Equal(t, vh.Regions.CDRs(), humanized.CDRs())
	})

	t.Run("counts framework mutations", func(t *testing.T) {
		params := DefaultParams()
		params.HeavyVGermline = "IGHV3-23*01"
		result, err := engine.Humanize(vh, vl, params)
		require.NoError(t, err)

		// Trastuzumab frameworks differ from IGHV3-23*01 at 7 positions and
		// are identical to IGKV1-39*01.
		assert.Equal(t, 7, result.VH.Mutations)
		assert.Equal(t, 0, result.VL.Mutations)
		assert.Equal(t, 7, result.TotalMutations())
	})

	t.Run("vernier backmutation restores CDR-adjacent residues", func(t *testing.T) {
		params := DefaultParams()
		params.HeavyVGermline = "IGHV3-23*01"
		params.BackmutateVernier = true
		result, err := engine.Humanize(vh, nil, params)
		require.NoError(t, err)

		// Backmutations at the FR2 and FR3 CDR-adjacent flanks recover 3 of
		// the 7 graft mutations.
		assert.Equal(t, 4, result.VH.Mutations)
		assert.Equal(t, vh.Regions.CDRs(), result.VH.Humanized.Regions.CDRs())
	})

	t.Run("refinement iterations leave CDRs untouched", func(t *testing.T) {
		params := DefaultParams()
		params.SapiensIterations = 3
		result, err := engine.Humanize(vh, nil, params)
		require.NoError(t, err)
		assert.Equal(t, vh.Regions.CDRs(), result.VH.Humanized.Regions.CDRs())
	})

	t.Run("alignment names the chain and germline", func(t *testing.T) {
		result, err := engine.Humanize(vh, nil, DefaultParams())
		require.NoError(t, err)

		assert.Contains(t, result.VH.Alignment, "Trast VH (germline IGHV3-23*01)")
		assert.Contains(t, result.VH.Alignment, "parental  ")
		assert.Contains(t, result.VH.Alignment, "humanized ")
	})

	t.Run("alignment string joins heavy before light", func(t *testing.T) {
		result, err := engine.Humanize(vh, vl, DefaultParams())
		require.NoError(t, err)

		joined := result.AlignmentString()
		hIdx := strings.Index(joined, "Trast VH")
		lIdx := strings.Index(joined, "Trast VL")
		require.GreaterOrEqual(t, hIdx, 0)
		require.Greater(t, lIdx, hIdx)
		assert.Contains(t, joined, "\n\n")
	})

	t.Run("unknown germline gene fails", func(t *testing.T) {
		params := DefaultParams()
		params.HeavyVGermline = "IGHV9-99*99"
		_, err := engine.Humanize(vh, nil, params)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "IGHV9-99*99")
	})

	t.Run("no chains is an error", func(t *testing.T) {
		_, err := engine.Humanize(nil, nil, DefaultParams())
		assert.Error(t, err)
	})
}

func TestParams(t *testing.T) {
	t.Run("export name variants", func(t *testing.T) {
		p := DefaultParams()
		assert.Equal(t, "CDR_Grafted_kabat_", p.ExportName())

		p.BackmutateVernier = true
		assert.Equal(t, "CDR_Grafted_kabat_Vernier_", p.ExportName())

		p.SapiensIterations = 2
		assert.Equal(t, "CDR_Grafted_kabat_Vernier_Sapiens_2iter_", p.ExportName())
	})

	t.Run("validate rejects bad values", func(t *testing.T) {
		p := DefaultParams()
		p.SapiensIterations = -1
		assert.Error(t, p.Validate())

		p = DefaultParams()
		p.Scheme = "martin"
		assert.Error(t, p.Validate())

		assert.NoError(t, DefaultParams().Validate())
	})
}

func TestConsensusRefiner(t *testing.T) {
	family := []antibody.Regions{
		{FR1: "AAAA"},
		{FR1: "AAAA"},
		{FR1: "CAAA"},
	}

	t.Run("moves residues toward the majority", func(t *testing.T) {
		r := &ConsensusRefiner{MaxEdits: 4}
		out := r.Refine(antibody.Regions{FR1: "CCCC", CDR1: "XYZ"}, family)
		assert.Equal(t, "AAAA", out.FR1)
		assert.Equal(t, "XYZ", out.CDR1)
	})

	t.Run("respects the per-round edit budget", func(t *testing.T) {
		r := &ConsensusRefiner{MaxEdits: 2}
		out := r.Refine(antibody.Regions{FR1: "CCCC"}, family)
		assert.Equal(t, "AACC", out.FR1)
	})

	t.Run("no consensus without a strict majority", func(t *testing.T) {
		split := []antibody.Regions{{FR1: "A"}, {FR1: "C"}}
		r := NewConsensusRefiner()
		out := r.Refine(antibody.Regions{FR1: "G"}, split)
		assert.Equal(t, "G", out.FR1)
	})

	t.Run("skips family members of different length", func(t *testing.T) {
		r := NewConsensusRefiner()
		out := r.Refine(antibody.Regions{FR1: "GG"}, family)
		assert.Equal(t, "GG", out.FR1)
	})
}
