package humanize

import (
	"cdrgraft/internal/antibody"
)

// Refiner is one round of post-graft framework refinement. The family slice
// holds the numbered germline scaffolds of the chain's kind; implementations
// must return a new Regions value and leave CDRs untouched.
type Refiner interface {
	Refine(r antibody.Regions, family []antibody.Regions) antibody.Regions
}

// ConsensusRefiner nudges framework residues toward the per-position majority
// of the germline family, at most MaxEdits substitutions per round. It stands
// in for the external Sapiens model: repeated rounds converge on the family
// consensus.
type ConsensusRefiner struct {
	MaxEdits int
}

// NewConsensusRefiner returns a refiner with the default per-round edit cap.
func NewConsensusRefiner() *ConsensusRefiner {
	return &ConsensusRefiner{MaxEdits: 4}
}

// Refine implements Refiner.
func (c *ConsensusRefiner) Refine(r antibody.Regions, family []antibody.Regions) antibody.Regions {
	budget := c.MaxEdits
	if budget <= 0 {
		return r
	}
	frs := [4]*string{&r.FR1, &r.FR2, &r.FR3, &r.FR4}
	for i, fr := range frs {
		if budget == 0 {
			break
		}
		*fr = c.refineFramework(*fr, i, family, &budget)
	}
	return r
}

func (c *ConsensusRefiner) refineFramework(fr string, index int, family []antibody.Regions, budget *int) string {
	out := []byte(fr)
	for pos := 0; pos < len(fr) && *budget > 0; pos++ {
		if cons, ok := consensusAt(family, index, pos, len(fr)); ok && cons != fr[pos] {
			out[pos] = cons
			*budget--
		}
	}
	return string(out)
}

// consensusAt returns the majority residue at a framework position among
// family members whose framework has the same length. A strict majority is
// required; ties or no comparable members yield no consensus.
func consensusAt(family []antibody.Regions, frIndex, pos, length int) (byte, bool) {
	counts := make(map[byte]int)
	var comparable int
	for _, f := range family {
		fr := f.Frameworks()[frIndex]
		if len(fr) != length {
			continue
		}
		counts[fr[pos]]++
		comparable++
	}
	if comparable == 0 {
		return 0, false
	}
	var best byte
	var bestCount int
	for residue, count := range counts {
		if count > bestCount {
			best, bestCount = residue, count
		}
	}
	if bestCount*2 <= comparable {
		return 0, false
	}
	return best, true
}
