package humanize

import (
	"strings"

	"cdrgraft/internal/antibody"
)

// ChainResult is the humanization outcome for a single chain. It is owned by
// the record that produced it and never mutated afterwards.
type ChainResult struct {
	Parental     *antibody.Chain
	Humanized    *antibody.Chain
	GermlineGene string
	Mutations    int
	Alignment    string
}

// AntibodyResult is the per-record humanization outcome. At most one side is
// populated for single-chain input; both for paired input.
type AntibodyResult struct {
	VH *ChainResult
	VL *ChainResult
}

// TotalMutations sums mutation counts across populated sides.
func (r *AntibodyResult) TotalMutations() int {
	var n int
	if r.VH != nil {
		n += r.VH.Mutations
	}
	if r.VL != nil {
		n += r.VL.Mutations
	}
	return n
}

// AlignmentString joins the populated per-chain alignment blocks, heavy
// first, separated by a blank line.
func (r *AntibodyResult) AlignmentString() string {
	var blocks []string
	if r.VH != nil {
		blocks = append(blocks, r.VH.Alignment)
	}
	if r.VL != nil {
		blocks = append(blocks, r.VL.Alignment)
	}
	return strings.Join(blocks, "\n\n")
}

// Humanizer is the humanization capability: given one or both parental
// chains, produce an AntibodyResult or fail the record.
type Humanizer interface {
	Humanize(vh, vl *antibody.Chain, params Params) (*AntibodyResult, error)
}
