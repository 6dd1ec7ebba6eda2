package antibody

import (
	"fmt"
	"regexp"
	"strings"
)

// MotifNumberer numbers variable domains from conserved anchor residues: the
// first framework cysteine, the invariant tryptophan after CDR1, the second
// cysteine before CDR3, and the J-segment motif (WGxG heavy, FGxG light).
// Region boundaries approximate the Kabat definition; the scheme and CDR
// definition names are carried as metadata on the resulting chain.
type MotifNumberer struct{}

// NewMotifNumberer returns the bundled anchor-based numbering capability.
func NewMotifNumberer() *MotifNumberer {
	return &MotifNumberer{}
}

var (
	validResidues = regexp.MustCompile(`^[ACDEFGHIKLMNPQRSTVWY]+$`)
	heavyJMotif   = regexp.MustCompile(`WG.G`)
	lightJMotif   = regexp.MustCompile(`FG.G`)
)

const minDomainLength = 70

// Number implements Numberer.
func (n *MotifNumberer) Number(seq, scheme, cdrDefinition string) (*Chain, error) {
	if err := ValidateScheme(scheme); err != nil {
		return nil, err
	}
	if err := ValidateCDRDefinition(cdrDefinition); err != nil {
		return nil, err
	}

	seq = strings.ToUpper(strings.TrimSpace(seq))
	if len(seq) < minDomainLength {
		return nil, fmt.Errorf("%w: sequence too short (%d residues)", ErrChainParse, len(seq))
	}
	if !validResidues.MatchString(seq) {
		return nil, fmt.Errorf("%w: sequence contains non-residue characters", ErrChainParse)
	}

	kind, jStart, err := classify(seq)
	if err != nil {
		return nil, err
	}

	var regions Regions
	if kind == Heavy {
		regions, err = segmentHeavy(seq, jStart)
	} else {
		regions, err = segmentLight(seq, jStart)
	}
	if err != nil {
		return nil, err
	}

	return &Chain{
		Kind:          kind,
		Scheme:        scheme,
		CDRDefinition: cdrDefinition,
		Regions:       regions,
	}, nil
}

// classify determines the chain kind from the J-segment motif in the
// C-terminal framework and returns the motif start index.
func classify(seq string) (ChainKind, int, error) {
	tail := len(seq) - 18
	if tail < 0 {
		tail = 0
	}
	if loc := heavyJMotif.FindStringIndex(seq[tail:]); loc != nil {
		return Heavy, tail + loc[0], nil
	}
	if loc := lightJMotif.FindStringIndex(seq[tail:]); loc != nil {
		return Light, tail + loc[0], nil
	}
	return 0, 0, fmt.Errorf("%w: no J-segment motif found", ErrChainParse)
}

// firstCys locates the conserved framework-1 cysteine within the expected
// window (Kabat position 22/23).
func firstCys(seq string) (int, error) {
	for i := 18; i <= 26 && i < len(seq); i++ {
		if seq[i] == 'C' {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: missing first framework cysteine", ErrChainParse)
}

func nextIndex(seq string, from int, residue byte) (int, error) {
	for i := from; i < len(seq); i++ {
		if seq[i] == residue {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: missing conserved %c anchor", ErrChainParse, residue)
}

func segmentHeavy(seq string, jStart int) (Regions, error) {
	c1, err := firstCys(seq)
	if err != nil {
		return Regions{}, err
	}
	w, err := nextIndex(seq, c1+1, 'W')
	if err != nil {
		return Regions{}, err
	}
	h1Start := c1 + 4 // Kabat H26
	if h1Start >= w {
		return Regions{}, fmt.Errorf("%w: CDR-H1 anchors out of order", ErrChainParse)
	}
	h2Start := w + 14 // Kabat H50
	h2End := h2Start + 16
	if h2End >= jStart {
		return Regions{}, fmt.Errorf("%w: CDR-H2 window exceeds J segment", ErrChainParse)
	}
	c2, err := nextIndex(seq, h2End, 'C')
	if err != nil {
		return Regions{}, err
	}
	h3Start := c2 + 3 // Kabat H95
	if h3Start >= jStart {
		return Regions{}, fmt.Errorf("%w: CDR-H3 anchors out of order", ErrChainParse)
	}
	return Regions{
		FR1:  seq[:h1Start],
		CDR1: seq[h1Start:w],
		FR2:  seq[w:h2Start],
		CDR2: seq[h2Start:h2End],
		FR3:  seq[h2End:h3Start],
		CDR3: seq[h3Start:jStart],
		FR4:  seq[jStart:],
	}, nil
}

func segmentLight(seq string, jStart int) (Regions, error) {
	c1, err := firstCys(seq)
	if err != nil {
		return Regions{}, err
	}
	w, err := nextIndex(seq, c1+1, 'W')
	if err != nil {
		return Regions{}, err
	}
	l1Start := c1 + 1 // Kabat L24
	if l1Start >= w {
		return Regions{}, fmt.Errorf("%w: CDR-L1 anchors out of order", ErrChainParse)
	}
	l2Start := w + 15 // Kabat L50
	l2End := l2Start + 7
	if l2End >= jStart {
		return Regions{}, fmt.Errorf("%w: CDR-L2 window exceeds J segment", ErrChainParse)
	}
	c2, err := nextIndex(seq, l2End, 'C')
	if err != nil {
		return Regions{}, err
	}
	l3Start := c2 + 1 // Kabat L89
	if l3Start >= jStart {
		return Regions{}, fmt.Errorf("%w: CDR-L3 anchors out of order", ErrChainParse)
	}
	return Regions{
		FR1:  seq[:l1Start],
		CDR1: seq[l1Start:w],
		FR2:  seq[w:l2Start],
		CDR2: seq[l2Start:l2End],
		FR3:  seq[l2End:l3Start],
		CDR3: seq[l3Start:jStart],
		FR4:  seq[jStart:],
	}, nil
}
