package humanize

import (
	"fmt"

	"cdrgraft/internal/antibody"
	"cdrgraft/internal/germline"
)

// vernierFlank is the number of framework residues flanking each CDR that are
// treated as the Vernier zone and backmutated to the parental residue when
// BackmutateVernier is set. Offsets are taken from the CDR-adjacent end so
// framework length differences do not shift the zone.
const vernierFlank = 3

// GraftEngine is the bundled Humanizer: it grafts parental CDRs onto the
// selected human germline frameworks.
type GraftEngine struct {
	lib      *germline.Library
	numberer antibody.Numberer
	refiner  Refiner
}

// NewGraftEngine builds a graft engine over a germline library. The default
// refiner is the consensus refiner; override with SetRefiner.
func NewGraftEngine(lib *germline.Library, numberer antibody.Numberer) *GraftEngine {
	return &GraftEngine{lib: lib, numberer: numberer, refiner: NewConsensusRefiner()}
}

// SetRefiner replaces the refinement capability.
func (e *GraftEngine) SetRefiner(r Refiner) {
	e.refiner = r
}

// Humanize implements Humanizer. At least one chain must be populated.
func (e *GraftEngine) Humanize(vh, vl *antibody.Chain, params Params) (*AntibodyResult, error) {
	if vh == nil && vl == nil {
		return nil, fmt.Errorf("humanize: no chains provided")
	}
	result := &AntibodyResult{}
	if vh != nil {
		sub, err := e.humanizeChain(vh, params)
		if err != nil {
			return nil, fmt.Errorf("humanizing %s heavy chain: %w", vh.Name, err)
		}
		result.VH = sub
	}
	if vl != nil {
		sub, err := e.humanizeChain(vl, params)
		if err != nil {
			return nil, fmt.Errorf("humanizing %s light chain: %w", vl.Name, err)
		}
		result.VL = sub
	}
	return result, nil
}

func (e *GraftEngine) humanizeChain(parental *antibody.Chain, params Params) (*ChainResult, error) {
	family, err := e.numberedScaffolds(parental.Kind, params)
	if err != nil {
		return nil, err
	}

	gene, scaffold, err := e.selectGermline(parental, family, params.GermlineFor(parental.Kind))
	if err != nil {
		return nil, err
	}

	grafted := graft(scaffold, parental.Regions)
	if params.BackmutateVernier {
		grafted = backmutateVernier(grafted, parental.Regions)
	}
	familyRegions := make([]antibody.Regions, len(family))
	for i, f := range family {
		familyRegions[i] = f.regions
	}
	for i := 0; i < params.SapiensIterations; i++ {
		grafted = e.refiner.Refine(grafted, familyRegions)
	}

	humanized := &antibody.Chain{
		Name:          parental.Name,
		Kind:          parental.Kind,
		Scheme:        params.Scheme,
		CDRDefinition: params.CDRDefinition,
		Regions:       grafted,
	}
	p, markers, h, mutations := alignRegions(parental.Regions, grafted)
	return &ChainResult{
		Parental:     parental,
		Humanized:    humanized,
		GermlineGene: gene,
		Mutations:    mutations,
		Alignment:    formatAlignment(parental.Name, parental.Kind, gene, p, markers, h),
	}, nil
}

type numberedScaffold struct {
	gene    string
	regions antibody.Regions
}

// numberedScaffolds numbers every library scaffold of the given kind under
// the run's scheme. A scaffold that fails to number is a data defect and
// fails the call.
func (e *GraftEngine) numberedScaffolds(kind antibody.ChainKind, params Params) ([]numberedScaffold, error) {
	scaffolds := e.lib.Scaffolds(kind)
	out := make([]numberedScaffold, 0, len(scaffolds))
	for _, s := range scaffolds {
		chain, err := e.numberer.Number(s.Sequence, params.Scheme, params.CDRDefinition)
		if err != nil {
			return nil, fmt.Errorf("numbering germline %s: %w", s.Gene, err)
		}
		if chain.Kind != kind {
			return nil, fmt.Errorf("germline %s classified as %s, expected %s", s.Gene, chain.Kind, kind)
		}
		out = append(out, numberedScaffold{gene: s.Gene, regions: chain.Regions})
	}
	return out, nil
}

// selectGermline resolves the germline selector: an explicit gene id must
// exist in the library; AutoGermline picks the scaffold with the highest
// framework identity to the parental chain.
func (e *GraftEngine) selectGermline(parental *antibody.Chain, family []numberedScaffold, selector string) (string, antibody.Regions, error) {
	if selector != AutoGermline && selector != "" {
		for _, s := range family {
			if s.gene == selector {
				return s.gene, s.regions, nil
			}
		}
		return "", antibody.Regions{}, fmt.Errorf("unknown %s germline gene %q (available: %v)",
			parental.Kind, selector, e.lib.Genes(parental.Kind))
	}

	var best numberedScaffold
	bestScore := -1.0
	for _, s := range family {
		score := germline.FrameworkIdentity(parental.Regions, s.regions)
		if score > bestScore {
			best, bestScore = s, score
		}
	}
	if bestScore < 0 {
		return "", antibody.Regions{}, fmt.Errorf("no %s germline scaffolds available", parental.Kind)
	}
	return best.gene, best.regions, nil
}

// graft transplants the parental CDRs onto the germline frameworks.
func graft(scaffold, parental antibody.Regions) antibody.Regions {
	return antibody.Regions{
		FR1:  scaffold.FR1,
		CDR1: parental.CDR1,
		FR2:  scaffold.FR2,
		CDR2: parental.CDR2,
		FR3:  scaffold.FR3,
		CDR3: parental.CDR3,
		FR4:  scaffold.FR4,
	}
}

// backmutateVernier restores parental residues in the framework positions
// flanking each CDR. FR1 contributes its C-terminal flank, FR4 its N-terminal
// flank, FR2 and FR3 both.
func backmutateVernier(grafted, parental antibody.Regions) antibody.Regions {
	grafted.FR1 = backmutateEnd(grafted.FR1, parental.FR1)
	grafted.FR2 = backmutateStart(grafted.FR2, parental.FR2)
	grafted.FR2 = backmutateEnd(grafted.FR2, parental.FR2)
	grafted.FR3 = backmutateStart(grafted.FR3, parental.FR3)
	grafted.FR3 = backmutateEnd(grafted.FR3, parental.FR3)
	grafted.FR4 = backmutateStart(grafted.FR4, parental.FR4)
	return grafted
}

// backmutateStart copies up to vernierFlank parental residues counted from
// the framework's N-terminal (CDR-adjacent) end.
func backmutateStart(framework, parental string) string {
	out := []byte(framework)
	for i := 0; i < vernierFlank && i < len(out) && i < len(parental); i++ {
		out[i] = parental[i]
	}
	return string(out)
}

// backmutateEnd copies up to vernierFlank parental residues counted from the
// framework's C-terminal (CDR-adjacent) end.
func backmutateEnd(framework, parental string) string {
	out := []byte(framework)
	for i := 1; i <= vernierFlank && i <= len(out) && i <= len(parental); i++ {
		out[len(out)-i] = parental[len(parental)-i]
	}
	return string(out)
}
